package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Metrics is the quality quadruple produced once per submission.
type Metrics struct {
	F1Score   float64 `json:"f1_score"`
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
}

// ModelRecord is one persisted submission. Rows are never updated.
type ModelRecord struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	UserID      string    `json:"user_id" gorm:"size:36;not null;index"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text"`
	F1Score     float64   `json:"f1_score" gorm:"column:f1_score;not null;index"`
	Accuracy    float64   `json:"accuracy" gorm:"not null"`
	Precision   float64   `json:"precision" gorm:"not null"`
	Recall      float64   `json:"recall" gorm:"not null"`
	FilePath    string    `json:"file_path" gorm:"size:512;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (ModelRecord) TableName() string { return "models" }

func (m *ModelRecord) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (m *ModelRecord) Metrics() Metrics {
	return Metrics{
		F1Score:   m.F1Score,
		Accuracy:  m.Accuracy,
		Precision: m.Precision,
		Recall:    m.Recall,
	}
}

type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Email        string    `json:"email" gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Username is the local part of the e-mail address.
func (u *User) Username() string {
	name, _, _ := strings.Cut(u.Email, "@")
	return name
}

type Session struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	UserID    string    `json:"user_id" gorm:"size:36;not null;index"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Session) TableName() string { return "sessions" }

// Identity is the authenticated caller passed into every service call.
type Identity struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	SessionID string `json:"session_id"`
}

func (i Identity) IsAuthenticated() bool {
	return i.UserID != ""
}
