// Package app composes the RSA engine with the key store: generation
// persists both PEM halves plus metadata, metadata and download services
// read them back.
package app

import (
	"context"
	"fmt"
	"time"

	"rsa_engine_service/internal/domain/keys"
	"rsa_engine_service/internal/infrastructure/cryptography"
	"rsa_engine_service/internal/pkg/logger"

	"github.com/google/uuid"
)

// keyGenerationService implements keys.KeyGenerationService.
type keyGenerationService struct {
	keyRepo keys.KeyRepository
	timeout time.Duration
	logger  logger.Logger
}

// NewKeyGenerationService creates a new keyGenerationService instance.
func NewKeyGenerationService(keyRepo keys.KeyRepository, timeout time.Duration, logger logger.Logger) (keys.KeyGenerationService, error) {
	return &keyGenerationService{
		keyRepo: keyRepo,
		timeout: timeout,
		logger:  logger.WithComponent("key-services"),
	}, nil
}

// Generate creates a key pair of the given size and stores both halves.
// It returns the metadata of the stored keys.
func (s *keyGenerationService) Generate(ctx context.Context, keySize uint32) ([]*keys.KeyMeta, error) {
	engine, err := cryptography.NewRSAEngine(s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create RSA engine: %w", err)
	}
	defer func() {
		if err := engine.Close(); err != nil {
			s.logger.Error("engine teardown: ", err)
		}
	}()

	if err := engine.GenerateKeys(int(keySize), s.timeout); err != nil {
		return nil, fmt.Errorf("failed to generate %d bit key pair: %w", keySize, err)
	}

	privatePEM, err := engine.SavePrivateKeyPEM()
	if err != nil {
		return nil, fmt.Errorf("failed to export private key: %w", err)
	}
	publicPEM, err := engine.SavePublicKeyPEM()
	if err != nil {
		return nil, fmt.Errorf("failed to export public key: %w", err)
	}

	keyPairID := uuid.New().String()
	now := time.Now()
	var keyMetas []*keys.KeyMeta
	for _, half := range []struct {
		keyType string
		pem     string
	}{
		{keys.KeyTypePrivate, privatePEM},
		{keys.KeyTypePublic, publicPEM},
	} {
		meta := &keys.KeyMeta{
			ID:              uuid.New().String(),
			KeyPairID:       keyPairID,
			Type:            half.keyType,
			Algorithm:       "RSA",
			KeySize:         keySize,
			DateTimeCreated: now,
		}
		if err := s.keyRepo.Create(ctx, meta, []byte(half.pem)); err != nil {
			return nil, fmt.Errorf("failed to store %s key: %w", half.keyType, err)
		}
		keyMetas = append(keyMetas, meta)
	}

	s.logger.Info("Generated and stored key pair ", keyPairID)
	return keyMetas, nil
}

// keyMetadataService implements keys.KeyMetadataService.
type keyMetadataService struct {
	keyRepo keys.KeyRepository
	logger  logger.Logger
}

// NewKeyMetadataService creates a new keyMetadataService instance.
func NewKeyMetadataService(keyRepo keys.KeyRepository, logger logger.Logger) (keys.KeyMetadataService, error) {
	return &keyMetadataService{
		keyRepo: keyRepo,
		logger:  logger.WithComponent("key-services"),
	}, nil
}

// List retrieves key metadata honoring the query filter.
func (s *keyMetadataService) List(ctx context.Context, query *keys.KeyQuery) ([]*keys.KeyMeta, error) {
	return s.keyRepo.List(ctx, query)
}

// GetByID retrieves the metadata of one stored key.
func (s *keyMetadataService) GetByID(ctx context.Context, keyID string) (*keys.KeyMeta, error) {
	return s.keyRepo.GetByID(ctx, keyID)
}

// DeleteByID removes a stored key and its metadata.
func (s *keyMetadataService) DeleteByID(ctx context.Context, keyID string) error {
	return s.keyRepo.DeleteByID(ctx, keyID)
}

// keyDownloadService implements keys.KeyDownloadService.
type keyDownloadService struct {
	keyRepo keys.KeyRepository
	logger  logger.Logger
}

// NewKeyDownloadService creates a new keyDownloadService instance.
func NewKeyDownloadService(keyRepo keys.KeyRepository, logger logger.Logger) (keys.KeyDownloadService, error) {
	return &keyDownloadService{
		keyRepo: keyRepo,
		logger:  logger.WithComponent("key-services"),
	}, nil
}

// DownloadByID returns the PEM bytes of a stored key.
func (s *keyDownloadService) DownloadByID(ctx context.Context, keyID string) ([]byte, error) {
	return s.keyRepo.GetPEMByID(ctx, keyID)
}
