package services

import (
	"context"
	"fmt"

	"github.com/mini-maxit/modelboard/internal/cache"
	"github.com/mini-maxit/modelboard/internal/logger"
	"github.com/mini-maxit/modelboard/internal/repository"
	"github.com/mini-maxit/modelboard/internal/storage"
	"github.com/mini-maxit/modelboard/pkg/constants"
	"github.com/mini-maxit/modelboard/pkg/models"
	"github.com/mini-maxit/modelboard/utils"
	"go.uber.org/zap"
)

// RankedModel is a leaderboard row. Rank is 1-based.
type RankedModel struct {
	Rank int `json:"rank"`
	models.ModelRecord
}

// Artifact is a downloadable model source.
type Artifact struct {
	FileName string
	Data     []byte
}

type LeaderboardService interface {
	ListRanked(ctx context.Context) ([]RankedModel, error)
	// Download fetches the artifact at artifactPath and names it after suggestedName.
	Download(ctx context.Context, artifactPath, suggestedName string) (*Artifact, error)
	DownloadModel(ctx context.Context, modelID string) (*Artifact, error)
}

type leaderboardService struct {
	models  repository.ModelRepository
	storage storage.BlobStorage
	ranking cache.RankingCache
	logger  *zap.SugaredLogger
}

func NewLeaderboardService(
	modelRepository repository.ModelRepository,
	blobStorage storage.BlobStorage,
	rankingCache cache.RankingCache,
) LeaderboardService {
	return &leaderboardService{
		models:  modelRepository,
		storage: blobStorage,
		ranking: rankingCache,
		logger:  logger.NewNamedLogger("leaderboardService"),
	}
}

func (s *leaderboardService) ListRanked(ctx context.Context) ([]RankedModel, error) {
	records, found, err := s.ranking.Get(ctx)
	if err != nil {
		s.logger.Warnf("Leaderboard cache read failed: %s", err)
	}

	if !found {
		// Read before the store so a write landing in between makes the fill stale.
		generation, genErr := s.ranking.Generation(ctx)
		if genErr != nil {
			s.logger.Warnf("Leaderboard cache generation read failed: %s", genErr)
		}

		records, err = s.models.ListRanked(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list models: %w", err)
		}
		if genErr == nil {
			if err := s.ranking.Set(ctx, generation, records); err != nil {
				s.logger.Warnf("Leaderboard cache write failed: %s", err)
			}
		}
	}

	ranked := make([]RankedModel, len(records))
	for i, record := range records {
		ranked[i] = RankedModel{Rank: i + 1, ModelRecord: record}
	}
	return ranked, nil
}

func (s *leaderboardService) Download(ctx context.Context, artifactPath, suggestedName string) (*Artifact, error) {
	data, err := s.storage.Download(ctx, artifactPath)
	if err != nil {
		return nil, fmt.Errorf("failed to download model: %w", err)
	}
	return &Artifact{
		FileName: utils.WithExtension(utils.SanitizeFileName(suggestedName), constants.ModelFileExtension),
		Data:     data,
	}, nil
}

func (s *leaderboardService) DownloadModel(ctx context.Context, modelID string) (*Artifact, error) {
	record, err := s.models.Get(ctx, modelID)
	if err != nil {
		return nil, err
	}
	return s.Download(ctx, record.FilePath, record.Name)
}
