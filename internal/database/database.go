package database

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/mini-maxit/modelboard/internal/logger"
	"github.com/mini-maxit/modelboard/pkg/constants"
	"github.com/mini-maxit/modelboard/pkg/errors"
	"github.com/mini-maxit/modelboard/pkg/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the record store selected by driver.
func Open(driver, dsn string) (*gorm.DB, error) {
	log := logger.NewNamedLogger("database")

	var dialector gorm.Dialector
	switch driver {
	case constants.DBDriverPostgres:
		dialector = postgres.Open(dsn)
	case constants.DBDriverSqlite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: database driver %q", errors.ErrUnknownBackend, driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if driver == constants.DBDriverSqlite {
		// SQLite allows one writer; a single connection also keeps in-memory databases alive.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	log.Infof("Database connection established [driver: %s]", driver)
	return db, nil
}

// Migrate creates or updates the tables owned by the service.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Session{}, &models.ModelRecord{})
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
