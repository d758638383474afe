package validators

import (
	"github.com/go-playground/validator/v10"
)

// KeySizeValidation validates an RSA modulus size against the bit
// lengths the engine can generate.
func KeySizeValidation(fl validator.FieldLevel) bool {
	switch fl.Field().Uint() {
	case 512, 1024, 2048, 3072, 4096, 7680:
		return true
	default:
		return false
	}
}
