package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/mini-maxit/modelboard/internal/cache"
	"github.com/mini-maxit/modelboard/internal/evaluator"
	"github.com/mini-maxit/modelboard/internal/logger"
	"github.com/mini-maxit/modelboard/internal/repository"
	"github.com/mini-maxit/modelboard/internal/storage"
	"github.com/mini-maxit/modelboard/pkg/constants"
	pkgerrors "github.com/mini-maxit/modelboard/pkg/errors"
	"github.com/mini-maxit/modelboard/pkg/models"
	"go.uber.org/zap"
)

// SubmitRequest carries one submission. Exactly one of File or Code must be set.
type SubmitRequest struct {
	Name        string
	Description string
	Code        string
	File        []byte
	FileName    string
}

type SubmissionService interface {
	// Submit validates, evaluates, uploads and records a model, strictly in that order.
	Submit(ctx context.Context, identity models.Identity, req SubmitRequest) (*models.ModelRecord, error)
}

type SubmissionConfig struct {
	// CompensateOrphanedArtifacts deletes the uploaded artifact when the record insert fails.
	CompensateOrphanedArtifacts bool
}

type submissionService struct {
	evaluator evaluator.Evaluator
	storage   storage.BlobStorage
	models    repository.ModelRepository
	ranking   cache.RankingCache
	cfg       SubmissionConfig
	logger    *zap.SugaredLogger
}

func NewSubmissionService(
	eval evaluator.Evaluator,
	blobStorage storage.BlobStorage,
	modelRepository repository.ModelRepository,
	rankingCache cache.RankingCache,
	cfg SubmissionConfig,
) SubmissionService {
	return &submissionService{
		evaluator: eval,
		storage:   blobStorage,
		models:    modelRepository,
		ranking:   rankingCache,
		cfg:       cfg,
		logger:    logger.NewNamedLogger("submissionService"),
	}
}

// ValidateSubmission checks the request before any collaborator is called and returns the source text.
func ValidateSubmission(req SubmitRequest) (string, error) {
	if utf8.RuneCountInString(req.Name) < constants.MinModelNameLength {
		return "", pkgerrors.NewValidationError("name", pkgerrors.ErrNameTooShort)
	}

	hasFile := len(req.File) > 0
	hasCode := strings.TrimSpace(req.Code) != ""
	switch {
	case hasFile && hasCode:
		return "", pkgerrors.NewValidationError("source", pkgerrors.ErrAmbiguousSource)
	case hasFile:
		if !strings.EqualFold(path.Ext(req.FileName), constants.ModelFileExtension) {
			return "", pkgerrors.NewValidationError("source", pkgerrors.ErrInvalidFileType)
		}
		return string(req.File), nil
	case hasCode:
		return req.Code, nil
	default:
		return "", pkgerrors.NewValidationError("source", pkgerrors.ErrSourceMissing)
	}
}

func (s *submissionService) Submit(
	ctx context.Context,
	identity models.Identity,
	req SubmitRequest,
) (*models.ModelRecord, error) {
	if !identity.IsAuthenticated() {
		return nil, pkgerrors.ErrUnauthenticated
	}

	source, err := ValidateSubmission(req)
	if err != nil {
		return nil, err
	}

	metrics, err := s.evaluator.Evaluate(ctx, source)
	if err != nil {
		s.logger.Infof("Evaluation rejected submission %q [UserID: %s]: %s", req.Name, identity.UserID, err)
		return nil, fmt.Errorf("failed to evaluate model: %w", err)
	}

	objectPath := fmt.Sprintf("%s/%s%s", identity.UserID, uuid.NewString(), constants.ModelFileExtension)
	storedPath, err := s.storage.Upload(ctx, objectPath, []byte(source))
	if err != nil {
		s.logger.Errorf("Failed to upload artifact %s: %s", objectPath, err)
		return nil, fmt.Errorf("failed to upload model file: %w", err)
	}

	record := &models.ModelRecord{
		UserID:      identity.UserID,
		Name:        req.Name,
		Description: req.Description,
		F1Score:     metrics.F1Score,
		Accuracy:    metrics.Accuracy,
		Precision:   metrics.Precision,
		Recall:      metrics.Recall,
		FilePath:    storedPath,
	}
	if err := s.models.Insert(ctx, record); err != nil {
		s.handleOrphanedArtifact(ctx, storedPath)
		return nil, fmt.Errorf("failed to save model record: %w", err)
	}

	if err := s.ranking.Invalidate(ctx); err != nil {
		s.logger.Warnf("Failed to invalidate leaderboard cache: %s", err)
	}

	s.logger.Infof("Model %s submitted [UserID: %s, F1: %.4f]", record.ID, identity.UserID, record.F1Score)
	return record, nil
}

func (s *submissionService) handleOrphanedArtifact(ctx context.Context, storedPath string) {
	if !s.cfg.CompensateOrphanedArtifacts {
		s.logger.Warnf("Artifact %s left without a record", storedPath)
		return
	}
	if err := s.storage.Delete(ctx, storedPath); err != nil {
		s.logger.Warnf("Failed to remove orphaned artifact %s: %s", storedPath, err)
		return
	}
	s.logger.Infof("Removed orphaned artifact %s", storedPath)
}
