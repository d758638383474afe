//go:build unit
// +build unit

package validators

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeySizeValidation(t *testing.T) {
	validate := validator.New()
	require.NoError(t, validate.RegisterValidation("keySizeValidation", KeySizeValidation))

	type request struct {
		KeySize uint32 `validate:"keySizeValidation"`
	}

	for size, ok := range map[uint32]bool{
		512:  true,
		1024: true,
		2048: true,
		3072: true,
		4096: true,
		7680: true,
		0:    false,
		768:  false,
		1536: false,
		8192: false,
	} {
		err := validate.Struct(&request{KeySize: size})
		if ok {
			assert.NoError(t, err, "size %d", size)
		} else {
			assert.Error(t, err, "size %d", size)
		}
	}
}
