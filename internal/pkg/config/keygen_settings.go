package config

import (
	"fmt"

	"rsa_engine_service/internal/pkg/validators"

	"github.com/go-playground/validator/v10"
)

// KeyGenSettings bounds RSA key generation requests.
type KeyGenSettings struct {
	KeySize        uint32 `mapstructure:"key_size" validate:"required,keySizeValidation"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"omitempty,min=1,max=600"`
}

// Validate checks that all fields in KeyGenSettings are valid
func (s *KeyGenSettings) Validate() error {
	validate := validator.New()

	if err := validate.RegisterValidation("keySizeValidation", validators.KeySizeValidation); err != nil {
		return fmt.Errorf("failed to register custom validator: %w", err)
	}

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for KeyGenSettings: %w", err)
	}

	return nil
}
