package persistence

import (
	"context"
	"errors"
	"fmt"

	"rsa_engine_service/internal/domain/keys"
	"rsa_engine_service/internal/infrastructure/persistence/models"
	"rsa_engine_service/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormKeyRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormKeyRepository creates a new GORM-based KeyRepository implementation
// and migrates the schema.
func NewGormKeyRepository(db *gorm.DB, logger logger.Logger) (keys.KeyRepository, error) {
	if err := db.AutoMigrate(&models.RSAKeyModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate key store schema: %w", err)
	}
	return &gormKeyRepository{
		db:     db,
		logger: logger.WithComponent("keystore"),
	}, nil
}

func (r *gormKeyRepository) Create(ctx context.Context, meta *keys.KeyMeta, pem []byte) error {
	if err := meta.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.RSAKeyModel{}
	model.FromDomain(meta)
	model.PEM = pem

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to store key: %w", err)
	}

	r.logger.Info("Stored key with id ", meta.ID)
	return nil
}

func (r *gormKeyRepository) List(ctx context.Context, query *keys.KeyQuery) ([]*keys.KeyMeta, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query parameters: %w", err)
	}

	var modelList []*models.RSAKeyModel
	dbQuery := r.db.WithContext(ctx).Model(&models.RSAKeyModel{})

	if query.Type != "" {
		dbQuery = dbQuery.Where("type = ?", query.Type)
	}
	if !query.DateTimeCreated.IsZero() {
		dbQuery = dbQuery.Where("date_time_created >= ?", query.DateTimeCreated)
	}

	if query.SortBy != "" {
		order := query.SortOrder
		if order == "" {
			order = "asc"
		}
		dbQuery = dbQuery.Order(fmt.Sprintf("%s %s", query.SortBy, order))
	}

	if query.Limit > 0 {
		dbQuery = dbQuery.Limit(query.Limit)
	}
	if query.Offset > 0 {
		dbQuery = dbQuery.Offset(query.Offset)
	}

	if err := dbQuery.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch key metadata: %w", err)
	}

	domainList := make([]*keys.KeyMeta, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}

	return domainList, nil
}

func (r *gormKeyRepository) GetByID(ctx context.Context, keyID string) (*keys.KeyMeta, error) {
	var model models.RSAKeyModel
	if err := r.db.WithContext(ctx).Where("id = ?", keyID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("key with ID %s not found", keyID)
		}
		return nil, fmt.Errorf("failed to fetch key: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormKeyRepository) GetPEMByID(ctx context.Context, keyID string) ([]byte, error) {
	var model models.RSAKeyModel
	if err := r.db.WithContext(ctx).Where("id = ?", keyID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("key with ID %s not found", keyID)
		}
		return nil, fmt.Errorf("failed to fetch key: %w", err)
	}
	return model.PEM, nil
}

func (r *gormKeyRepository) DeleteByID(ctx context.Context, keyID string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", keyID).Delete(&models.RSAKeyModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}

	r.logger.Info("Deleted key with id ", keyID)
	return nil
}
