package keys

import (
	"errors"
	"fmt"
	"time"

	"rsa_engine_service/internal/pkg/validators"

	"github.com/go-playground/validator/v10"
)

// Key type constants
const (
	KeyTypePublic  = "public"
	KeyTypePrivate = "private"
)

// KeyMeta describes one half of a generated RSA key pair as persisted by
// the key store.
type KeyMeta struct {
	ID              string    `validate:"required,uuid4"`
	KeyPairID       string    `validate:"required,uuid4"`
	Type            string    `validate:"required,oneof=public private"`
	Algorithm       string    `validate:"required,oneof=RSA"`
	KeySize         uint32    `validate:"required,keySizeValidation"`
	DateTimeCreated time.Time `validate:"required"`
}

// Validate for validating KeyMeta struct
func (k *KeyMeta) Validate() error {
	validate := validator.New()

	if err := validate.RegisterValidation("keySizeValidation", validators.KeySizeValidation); err != nil {
		return fmt.Errorf("failed to register custom validator: %w", err)
	}

	err := validate.Struct(k)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}

	return nil
}

// KeyQuery filters and paginates key metadata listings.
type KeyQuery struct {
	Type            string    `validate:"omitempty,oneof=public private"`
	DateTimeCreated time.Time `validate:"omitempty"`
	Limit           int       `validate:"omitempty,min=1,max=100"`
	Offset          int       `validate:"omitempty,min=0"`
	SortBy          string    `validate:"omitempty,oneof=id key_pair_id type key_size date_time_created"`
	SortOrder       string    `validate:"omitempty,oneof=asc desc"`
}

// NewKeyQuery returns a query with the default page size.
func NewKeyQuery() *KeyQuery {
	return &KeyQuery{Limit: 10}
}

// Validate for validating KeyQuery struct
func (q *KeyQuery) Validate() error {
	validate := validator.New()
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("validation failed for KeyQuery: %w", err)
	}
	return nil
}
