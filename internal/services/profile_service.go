package services

import (
	"context"
	"fmt"

	"github.com/mini-maxit/modelboard/internal/cache"
	"github.com/mini-maxit/modelboard/internal/logger"
	"github.com/mini-maxit/modelboard/internal/repository"
	pkgerrors "github.com/mini-maxit/modelboard/pkg/errors"
	"github.com/mini-maxit/modelboard/pkg/models"
	"go.uber.org/zap"
)

type Profile struct {
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	ModelCount int64  `json:"model_count"`
}

type ProfileService interface {
	// ListOwn returns the caller's models, newest first.
	ListOwn(ctx context.Context, identity models.Identity) ([]models.ModelRecord, error)
	Profile(ctx context.Context, identity models.Identity) (*Profile, error)
	// Delete removes the caller's record. The stored artifact is kept.
	Delete(ctx context.Context, identity models.Identity, modelID string, confirmed bool) error
}

type profileService struct {
	models  repository.ModelRepository
	users   repository.UserRepository
	ranking cache.RankingCache
	logger  *zap.SugaredLogger
}

func NewProfileService(
	modelRepository repository.ModelRepository,
	userRepository repository.UserRepository,
	rankingCache cache.RankingCache,
) ProfileService {
	return &profileService{
		models:  modelRepository,
		users:   userRepository,
		ranking: rankingCache,
		logger:  logger.NewNamedLogger("profileService"),
	}
}

func (s *profileService) ListOwn(ctx context.Context, identity models.Identity) ([]models.ModelRecord, error) {
	if !identity.IsAuthenticated() {
		return nil, pkgerrors.ErrUnauthenticated
	}
	records, err := s.models.ListByOwner(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	return records, nil
}

func (s *profileService) Profile(ctx context.Context, identity models.Identity) (*Profile, error) {
	if !identity.IsAuthenticated() {
		return nil, pkgerrors.ErrUnauthenticated
	}
	user, err := s.users.GetByID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	count, err := s.models.CountByOwner(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count models: %w", err)
	}
	return &Profile{
		UserID:     user.ID,
		Email:      user.Email,
		Username:   user.Username(),
		ModelCount: count,
	}, nil
}

func (s *profileService) Delete(ctx context.Context, identity models.Identity, modelID string, confirmed bool) error {
	if !identity.IsAuthenticated() {
		return pkgerrors.ErrUnauthenticated
	}
	if !confirmed {
		return pkgerrors.ErrConfirmationRequired
	}

	record, err := s.models.Get(ctx, modelID)
	if err != nil {
		return err
	}
	if record.UserID != identity.UserID {
		return pkgerrors.ErrNotOwner
	}

	if err := s.models.Delete(ctx, modelID); err != nil {
		return err
	}

	if err := s.ranking.Invalidate(ctx); err != nil {
		s.logger.Warnf("Failed to invalidate leaderboard cache: %s", err)
	}
	s.logger.Infof("Model %s deleted [UserID: %s]", modelID, identity.UserID)
	return nil
}
