package repository

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/mini-maxit/modelboard/pkg/errors"
	"github.com/mini-maxit/modelboard/pkg/models"
	"gorm.io/gorm"
)

// ModelRepository is the record store for submitted models. Records are never updated.
type ModelRepository interface {
	Insert(ctx context.Context, record *models.ModelRecord) error
	Get(ctx context.Context, id string) (*models.ModelRecord, error)
	// ListRanked returns every record by descending F1, ties by creation time then id.
	ListRanked(ctx context.Context) ([]models.ModelRecord, error)
	// ListByOwner returns the owner's records, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]models.ModelRecord, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type modelRepository struct {
	db *gorm.DB
}

func NewModelRepository(db *gorm.DB) ModelRepository {
	return &modelRepository{db: db}
}

func (r *modelRepository) Insert(ctx context.Context, record *models.ModelRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("%w: %w", pkgerrors.ErrFailedToStoreModel, err)
	}
	return nil
}

func (r *modelRepository) Get(ctx context.Context, id string) (*models.ModelRecord, error) {
	var record models.ModelRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrModelNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *modelRepository) ListRanked(ctx context.Context) ([]models.ModelRecord, error) {
	records := []models.ModelRecord{}
	err := r.db.WithContext(ctx).
		Order("f1_score desc").
		Order("created_at asc").
		Order("id asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *modelRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.ModelRecord, error) {
	records := []models.ModelRecord{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at desc").
		Order("id asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *modelRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ModelRecord{}).Where("user_id = ?", ownerID).Count(&count).Error
	return count, err
}

func (r *modelRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ModelRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrModelNotFound
	}
	return nil
}
