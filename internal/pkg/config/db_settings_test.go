//go:build unit
// +build unit

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDatabaseSettingsValidation(t *testing.T) {
	tests := []struct {
		name          string
		settings      *DatabaseSettings
		expectedError bool
	}{
		{
			name: "valid postgres settings",
			settings: &DatabaseSettings{
				Type: "postgres",
				DSN:  "host=localhost user=postgres password=postgres",
				Name: "keystore",
			},
			expectedError: false,
		},
		{
			name: "valid in-memory sqlite",
			settings: &DatabaseSettings{
				Type: "sqlite",
			},
			expectedError: false,
		},
		{
			name: "missing type",
			settings: &DatabaseSettings{
				DSN: "host=localhost",
			},
			expectedError: true,
		},
		{
			name: "unsupported type",
			settings: &DatabaseSettings{
				Type: "mysql",
				DSN:  "user:password@tcp(localhost:3306)/dbname",
			},
			expectedError: true,
		},
		{
			name: "postgres without dsn",
			settings: &DatabaseSettings{
				Type: "postgres",
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()

			if tt.expectedError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestKeyGenSettingsValidation(t *testing.T) {
	tests := []struct {
		name          string
		settings      *KeyGenSettings
		expectedError bool
	}{
		{
			name:          "valid 2048 bit request",
			settings:      &KeyGenSettings{KeySize: 2048, TimeoutSeconds: 30},
			expectedError: false,
		},
		{
			name:          "valid 7680 bit request without timeout",
			settings:      &KeyGenSettings{KeySize: 7680},
			expectedError: false,
		},
		{
			name:          "unsupported key size",
			settings:      &KeyGenSettings{KeySize: 1536},
			expectedError: true,
		},
		{
			name:          "missing key size",
			settings:      &KeyGenSettings{TimeoutSeconds: 30},
			expectedError: true,
		},
		{
			name:          "timeout out of range",
			settings:      &KeyGenSettings{KeySize: 2048, TimeoutSeconds: 7200},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()

			if tt.expectedError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
