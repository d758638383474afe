//go:build integration
// +build integration

package app

import (
	"context"
	"testing"
	"time"

	"rsa_engine_service/internal/domain/keys"
	"rsa_engine_service/internal/infrastructure/persistence"
	"rsa_engine_service/internal/pkg/config"
	pkgTesting "rsa_engine_service/internal/pkg/testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServices(t *testing.T) (keys.KeyGenerationService, keys.KeyMetadataService, keys.KeyDownloadService) {
	t.Helper()
	logger := pkgTesting.SetupTestLogger(t)

	db, err := persistence.NewDBConnection(config.DatabaseSettings{Type: config.SqliteDbType})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, persistence.CloseDB(db))
	})

	repo, err := persistence.NewGormKeyRepository(db, logger)
	require.NoError(t, err)

	generation, err := NewKeyGenerationService(repo, 30*time.Second, logger)
	require.NoError(t, err)
	metadata, err := NewKeyMetadataService(repo, logger)
	require.NoError(t, err)
	download, err := NewKeyDownloadService(repo, logger)
	require.NoError(t, err)
	return generation, metadata, download
}

func TestKeyGenerationService_GenerateAndFetch(t *testing.T) {
	generation, metadata, download := setupServices(t)
	ctx := context.Background()

	metas, err := generation.Generate(ctx, 512)
	require.NoError(t, err)
	require.Len(t, metas, 2)

	assert.Equal(t, metas[0].KeyPairID, metas[1].KeyPairID)
	types := []string{metas[0].Type, metas[1].Type}
	assert.Contains(t, types, keys.KeyTypePrivate)
	assert.Contains(t, types, keys.KeyTypePublic)

	for _, meta := range metas {
		got, err := metadata.GetByID(ctx, meta.ID)
		require.NoError(t, err)
		assert.Equal(t, uint32(512), got.KeySize)

		pem, err := download.DownloadByID(ctx, meta.ID)
		require.NoError(t, err)
		if meta.Type == keys.KeyTypePrivate {
			assert.Contains(t, string(pem), "RSA PRIVATE KEY")
		} else {
			assert.Contains(t, string(pem), "RSA PUBLIC KEY")
		}
	}
}

func TestKeyGenerationService_UnsupportedSize(t *testing.T) {
	generation, _, _ := setupServices(t)

	_, err := generation.Generate(context.Background(), 1536)
	assert.Error(t, err)
}

func TestKeyMetadataService_Delete(t *testing.T) {
	generation, metadata, _ := setupServices(t)
	ctx := context.Background()

	metas, err := generation.Generate(ctx, 512)
	require.NoError(t, err)

	require.NoError(t, metadata.DeleteByID(ctx, metas[0].ID))
	_, err = metadata.GetByID(ctx, metas[0].ID)
	assert.Error(t, err)

	list, err := metadata.List(ctx, keys.NewKeyQuery())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
