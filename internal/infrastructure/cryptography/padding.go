package cryptography

import (
	"fmt"

	"rsa_engine_service/internal/infrastructure/entropy"
)

// PKCS#1 v1.5 padding, block type 1 for signatures and block type 2 for
// encryption. Type-2 filler bytes come from the same CSPRNG stream as
// prime generation. This is the classical scheme: it is not OAEP and
// offers no IND-CCA2 guarantee for encryption.

const pkcs1MinPadding = 8

// pkcs1Pad lays out msg into a buffer of modLen bytes:
//
//	00 01 FF..FF 00 msg        (sign, block type 1)
//	00 02 RR..RR 00 msg        (encrypt, block type 2, RR nonzero random)
//
// At least eight filler bytes are required.
func pkcs1Pad(msg []byte, modLen int, sign bool, rng *entropy.Source) ([]byte, error) {
	padLen := modLen - len(msg) - 3
	if padLen < pkcs1MinPadding {
		return nil, fmt.Errorf("message of %d bytes does not fit a %d byte modulus: %w",
			len(msg), modLen, ErrMisuse)
	}
	out := make([]byte, modLen)
	filler := out[2 : 2+padLen]
	if sign {
		out[1] = 0x01
		for i := range filler {
			filler[i] = 0xFF
		}
	} else {
		out[1] = 0x02
		if err := rng.NonZeroBytes(filler); err != nil {
			return nil, fmt.Errorf("padding randomness: %w", err)
		}
	}
	out[2+padLen] = 0x00
	copy(out[modLen-len(msg):], msg)
	return out, nil
}

// pkcs1Unpad strips the padding laid out by pkcs1Pad, expecting block
// type 1 when verify is true and block type 2 otherwise. Returns nil on
// any structural violation: wrong leading bytes, a filler run shorter
// than eight bytes, or a missing zero terminator.
func pkcs1Unpad(p []byte, verify bool) []byte {
	if len(p) < pkcs1MinPadding+3 || p[0] != 0x00 {
		return nil
	}
	i := 2
	if verify {
		if p[1] != 0x01 {
			return nil
		}
		for i < len(p) && p[i] == 0xFF {
			i++
		}
	} else {
		if p[1] != 0x02 {
			return nil
		}
		for i < len(p) && p[i] != 0x00 {
			i++
		}
	}
	if i-2 < pkcs1MinPadding || i == len(p) || p[i] != 0x00 {
		return nil
	}
	return p[i+1:]
}
