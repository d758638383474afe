// Package persistence implements the GORM-backed key store repository
// over SQLite or PostgreSQL.
package persistence
