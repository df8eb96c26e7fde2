package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mini-maxit/modelboard/internal/cache"
	"github.com/mini-maxit/modelboard/internal/database"
	"github.com/mini-maxit/modelboard/internal/repository"
	"github.com/mini-maxit/modelboard/internal/services"
	"github.com/mini-maxit/modelboard/pkg/constants"
	pkgerrors "github.com/mini-maxit/modelboard/pkg/errors"
	"github.com/mini-maxit/modelboard/pkg/models"
	"github.com/mini-maxit/modelboard/tests/mocks"
)

func newProfile(t *testing.T) (
	services.ProfileService, *mocks.MockModelRepository, *mocks.MockUserRepository, *mocks.MockRankingCache,
) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockModelRepository(ctrl)
	users := mocks.NewMockUserRepository(ctrl)
	ranking := mocks.NewMockRankingCache(ctrl)
	return services.NewProfileService(repo, users, ranking), repo, users, ranking
}

func TestProfile(t *testing.T) {
	svc, repo, users, _ := newProfile(t)
	ctx := context.Background()

	users.EXPECT().GetByID(ctx, alice.UserID).Return(&models.User{ID: alice.UserID, Email: alice.Email}, nil)
	repo.EXPECT().CountByOwner(ctx, alice.UserID).Return(int64(3), nil)

	profile, err := svc.Profile(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, alice.Email, profile.Email)
	assert.Equal(t, int64(3), profile.ModelCount)
}

func TestProfile_Unauthenticated(t *testing.T) {
	svc, _, _, _ := newProfile(t)

	_, err := svc.Profile(context.Background(), models.Identity{})
	require.ErrorIs(t, err, pkgerrors.ErrUnauthenticated)

	_, err = svc.ListOwn(context.Background(), models.Identity{})
	require.ErrorIs(t, err, pkgerrors.ErrUnauthenticated)
}

func TestDelete_RequiresConfirmationBeforeStoreCall(t *testing.T) {
	svc, _, _, _ := newProfile(t)

	err := svc.Delete(context.Background(), alice, "m-1", false)
	require.ErrorIs(t, err, pkgerrors.ErrConfirmationRequired)
}

func TestDelete_RejectsForeignModel(t *testing.T) {
	svc, repo, _, _ := newProfile(t)
	ctx := context.Background()

	repo.EXPECT().Get(ctx, "m-1").Return(&models.ModelRecord{ID: "m-1", UserID: "someone-else"}, nil)

	err := svc.Delete(ctx, alice, "m-1", true)
	require.ErrorIs(t, err, pkgerrors.ErrNotOwner)
}

func TestDelete_MissingModel(t *testing.T) {
	svc, repo, _, _ := newProfile(t)
	ctx := context.Background()

	repo.EXPECT().Get(ctx, "m-1").Return(nil, pkgerrors.ErrModelNotFound)

	err := svc.Delete(ctx, alice, "m-1", true)
	require.ErrorIs(t, err, pkgerrors.ErrModelNotFound)
}

func TestDelete_RemovesRowAndInvalidatesRanking(t *testing.T) {
	svc, repo, _, ranking := newProfile(t)
	ctx := context.Background()

	gomock.InOrder(
		repo.EXPECT().Get(ctx, "m-1").Return(&models.ModelRecord{ID: "m-1", UserID: alice.UserID}, nil),
		repo.EXPECT().Delete(ctx, "m-1").Return(nil),
		ranking.EXPECT().Invalidate(ctx).Return(errors.New("redis down")),
	)

	require.NoError(t, svc.Delete(ctx, alice, "m-1", true))
}

// Runs against a real store so the delete is observable through ListOwn.
func TestDelete_ListOwnNoLongerIncludesModel(t *testing.T) {
	db, err := database.Open(constants.DBDriverSqlite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	ctx := context.Background()
	modelRepo := repository.NewModelRepository(db)
	userRepo := repository.NewUserRepository(db)
	svc := services.NewProfileService(modelRepo, userRepo, cache.NewNoopRankingCache())

	keep := &models.ModelRecord{UserID: alice.UserID, Name: "Keep", FilePath: "u/k.py"}
	drop := &models.ModelRecord{UserID: alice.UserID, Name: "Drop", FilePath: "u/d.py"}
	require.NoError(t, modelRepo.Insert(ctx, keep))
	require.NoError(t, modelRepo.Insert(ctx, drop))

	require.NoError(t, svc.Delete(ctx, alice, drop.ID, true))

	own, err := svc.ListOwn(ctx, alice)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, keep.ID, own[0].ID)
}
