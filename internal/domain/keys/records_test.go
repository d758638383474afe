//go:build unit
// +build unit

package keys

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicKeyRecordBounds(t *testing.T) {
	valid := &PublicKeyRecord{
		Modulus:  bytes.Repeat([]byte{1}, 10),
		Exponent: []byte{1, 0, 1},
	}
	assert.True(t, valid.IsValid())

	assert.False(t, (&PublicKeyRecord{Modulus: bytes.Repeat([]byte{1}, 9), Exponent: []byte{1, 0, 1}}).IsValid())
	assert.False(t, (&PublicKeyRecord{Modulus: bytes.Repeat([]byte{1}, 10), Exponent: []byte{3}}).IsValid())
	assert.False(t, (&PublicKeyRecord{}).IsValid())
}

func TestPrivateKeyRecordWipe(t *testing.T) {
	rec := &PrivateKeyRecord{
		Modulus:         []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		PublicExponent:  []byte{1, 0, 1},
		PrivateExponent: []byte{9, 9},
		Prime1:          []byte{5},
		Prime2:          []byte{7},
		Exponent1:       []byte{1},
		Exponent2:       []byte{2},
		Coefficient:     []byte{3},
	}
	require.True(t, rec.IsValid())

	// hold a reference to prove the backing bytes are really zeroed
	modulus := rec.Modulus

	rec.Wipe()
	assert.Equal(t, bytes.Repeat([]byte{0}, 10), modulus)
	assert.Nil(t, rec.Modulus)
	assert.False(t, rec.IsValid())
}

func TestKeyMetaValidate(t *testing.T) {
	meta := &KeyMeta{
		ID:              uuid.New().String(),
		KeyPairID:       uuid.New().String(),
		Type:            KeyTypePrivate,
		Algorithm:       "RSA",
		KeySize:         2048,
		DateTimeCreated: time.Now(),
	}
	assert.NoError(t, meta.Validate())

	bad := *meta
	bad.KeySize = 1536
	assert.Error(t, bad.Validate())

	bad = *meta
	bad.Type = "session"
	assert.Error(t, bad.Validate())

	bad = *meta
	bad.ID = "not-a-uuid"
	assert.Error(t, bad.Validate())
}

func TestKeyQueryValidate(t *testing.T) {
	query := NewKeyQuery()
	assert.NoError(t, query.Validate())

	query.Limit = 1000
	assert.Error(t, query.Validate())

	query = NewKeyQuery()
	query.SortBy = "secret_column"
	assert.Error(t, query.Validate())
}
