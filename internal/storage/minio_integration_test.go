//go:build integration

package storage_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/mini-maxit/modelboard/internal/storage"
	"github.com/mini-maxit/modelboard/pkg/constants"
	pkgerrors "github.com/mini-maxit/modelboard/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinioStorage_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = constants.DefaultMinioEndpoint
	}

	ctx := context.Background()
	store, err := storage.NewMinioStorage(ctx, storage.MinioConfig{
		Endpoint:  endpoint,
		AccessKey: constants.DefaultMinioAccessKey,
		SecretKey: constants.DefaultMinioSecretKey,
		Bucket:    "modelboard-it",
	})
	require.NoError(t, err)

	objectPath := "it-owner/" + uuid.NewString() + ".py"
	stored, err := store.Upload(ctx, objectPath, []byte("def train_model(): ..."))
	require.NoError(t, err)
	assert.Equal(t, objectPath, stored)

	data, err := store.Download(ctx, stored)
	require.NoError(t, err)
	assert.Equal(t, "def train_model(): ...", string(data))

	require.NoError(t, store.Delete(ctx, stored))
	_, err = store.Download(ctx, stored)
	assert.ErrorIs(t, err, pkgerrors.ErrArtifactNotFound)
}
