package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Digest selects the hash function blocks are sealed with.
type Digest string

const (
	SHA256     Digest = "sha256"
	SHA3_256   Digest = "sha3-256"
	BLAKE2b256 Digest = "blake2b-256"
)

// ParseDigest maps a configuration value to a Digest.
func ParseDigest(name string) (Digest, error) {
	switch d := Digest(strings.ToLower(strings.TrimSpace(name))); d {
	case SHA256, SHA3_256, BLAKE2b256:
		return d, nil
	case "":
		return SHA256, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDigest, name)
	}
}

// Sum returns the lowercase hex digest of data. Unknown digests hash with
// SHA-256; chains never hold one, see WithDigest.
func (d Digest) Sum(data []byte) string {
	var sum [32]byte
	switch d {
	case SHA3_256:
		sum = sha3.Sum256(data)
	case BLAKE2b256:
		sum = blake2b.Sum256(data)
	default:
		sum = sha256.Sum256(data)
	}
	return hex.EncodeToString(sum[:])
}

func (d Digest) String() string {
	return string(d)
}
