// Package cryptoalg defines the signature-algorithm adapter contract a
// higher-level cryptographic catalog consumes: opaque DER/PEM key
// handling with a fixed hash per registered name.
package cryptoalg
