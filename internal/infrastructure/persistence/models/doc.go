// Package models contains the GORM database models of the key store.
package models
