package models

import (
	"time"

	"rsa_engine_service/internal/domain/keys"
)

// RSAKeyModel is the GORM database model for stored RSA keys: one row
// per key half, metadata columns plus the PEM blob.
type RSAKeyModel struct {
	ID              string    `gorm:"primaryKey;type:uuid"`
	KeyPairID       string    `gorm:"not null;index;type:uuid"`
	Type            string    `gorm:"type:varchar(20)"`
	Algorithm       string    `gorm:"type:varchar(20)"`
	KeySize         uint32    `gorm:"type:integer"`
	DateTimeCreated time.Time `gorm:"not null"`
	PEM             []byte    `gorm:"type:bytea"`
}

// TableName specifies the table name for GORM
func (RSAKeyModel) TableName() string {
	return "rsa_keys"
}

// ToDomain converts GORM model to domain entity
func (m *RSAKeyModel) ToDomain() *keys.KeyMeta {
	return &keys.KeyMeta{
		ID:              m.ID,
		KeyPairID:       m.KeyPairID,
		Type:            m.Type,
		Algorithm:       m.Algorithm,
		KeySize:         m.KeySize,
		DateTimeCreated: m.DateTimeCreated,
	}
}

// FromDomain converts domain entity to GORM model
func (m *RSAKeyModel) FromDomain(k *keys.KeyMeta) {
	m.ID = k.ID
	m.KeyPairID = k.KeyPairID
	m.Type = k.Type
	m.Algorithm = k.Algorithm
	m.KeySize = k.KeySize
	m.DateTimeCreated = k.DateTimeCreated
}
