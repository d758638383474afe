// Package v1 exposes the RSA engine and the key store over a versioned
// REST surface.
package v1

import (
	"errors"
	"fmt"
	"time"

	"rsa_engine_service/internal/pkg/validators"

	"github.com/go-playground/validator/v10"
)

// GenerateKeyRequest asks for a fresh RSA key pair.
type GenerateKeyRequest struct {
	KeySize uint32 `json:"keySize" validate:"required,keySizeValidation"`
}

// Validate for validating GenerateKeyRequest struct
func (r *GenerateKeyRequest) Validate() error {
	validate := validator.New()

	if err := validate.RegisterValidation("keySizeValidation", validators.KeySizeValidation); err != nil {
		return fmt.Errorf("failed to register custom validator: %w", err)
	}

	err := validate.Struct(r)
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

// SignRequest asks for a signature of Message (base64) with the stored
// private key KeyID.
type SignRequest struct {
	KeyID   string `json:"keyId" validate:"required,uuid4"`
	Message string `json:"message" validate:"required,base64"`
}

// Validate for validating SignRequest struct
func (r *SignRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("validation failed for SignRequest: %w", err)
	}
	return nil
}

// VerifyRequest asks whether Signature (base64) opens over Message
// (base64) with the stored public key KeyID.
type VerifyRequest struct {
	KeyID     string `json:"keyId" validate:"required,uuid4"`
	Message   string `json:"message" validate:"required,base64"`
	Signature string `json:"signature" validate:"required,base64"`
}

// Validate for validating VerifyRequest struct
func (r *VerifyRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("validation failed for VerifyRequest: %w", err)
	}
	return nil
}

// KeyMetaResponse mirrors stored key metadata.
type KeyMetaResponse struct {
	ID              string    `json:"id"`
	KeyPairID       string    `json:"keyPairId"`
	Type            string    `json:"type"`
	Algorithm       string    `json:"algorithm"`
	KeySize         uint32    `json:"keySize"`
	DateTimeCreated time.Time `json:"dateTimeCreated"`
}

// SignResponse carries a base64 signature.
type SignResponse struct {
	Signature string `json:"signature"`
}

// VerifyResponse reports a verification outcome.
type VerifyResponse struct {
	Valid bool `json:"valid"`
}

// ErrorResponse carries an error message.
type ErrorResponse struct {
	Message string `json:"message"`
}
