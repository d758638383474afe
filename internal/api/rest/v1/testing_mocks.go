//go:build unit
// +build unit

package v1

import (
	"context"
	"crypto"

	"rsa_engine_service/internal/domain/keys"

	"github.com/stretchr/testify/mock"
)

// MockKeyGenerationService is a mock implementation of KeyGenerationService
type MockKeyGenerationService struct {
	mock.Mock
}

func (m *MockKeyGenerationService) Generate(ctx context.Context, keySize uint32) ([]*keys.KeyMeta, error) {
	args := m.Called(ctx, keySize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*keys.KeyMeta), args.Error(1)
}

// MockKeyMetadataService is a mock implementation of KeyMetadataService
type MockKeyMetadataService struct {
	mock.Mock
}

func (m *MockKeyMetadataService) List(ctx context.Context, query *keys.KeyQuery) ([]*keys.KeyMeta, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*keys.KeyMeta), args.Error(1)
}

func (m *MockKeyMetadataService) GetByID(ctx context.Context, keyID string) (*keys.KeyMeta, error) {
	args := m.Called(ctx, keyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*keys.KeyMeta), args.Error(1)
}

func (m *MockKeyMetadataService) DeleteByID(ctx context.Context, keyID string) error {
	args := m.Called(ctx, keyID)
	return args.Error(0)
}

// MockKeyDownloadService is a mock implementation of KeyDownloadService
type MockKeyDownloadService struct {
	mock.Mock
}

func (m *MockKeyDownloadService) DownloadByID(ctx context.Context, keyID string) ([]byte, error) {
	args := m.Called(ctx, keyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockSignatureAlgorithm is a mock implementation of cryptoalg.SignatureAlgorithm
type MockSignatureAlgorithm struct {
	mock.Mock
}

func (m *MockSignatureAlgorithm) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockSignatureAlgorithm) GenerateDER() ([]byte, []byte, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]byte), args.Get(1).([]byte), args.Error(2)
}

func (m *MockSignatureAlgorithm) Sign(hasher crypto.Hash, message []byte, privateKeyPEM string) ([]byte, error) {
	args := m.Called(hasher, message, privateKeyPEM)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSignatureAlgorithm) Verify(hasher crypto.Hash, message, signature []byte, publicKeyPEM string) (bool, error) {
	args := m.Called(hasher, message, signature, publicKeyPEM)
	return args.Bool(0), args.Error(1)
}
