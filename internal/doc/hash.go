package doc

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainConfig prefixes every configuration hash. The version suffix allows
// the canonical form to change without colliding with old ledgers.
const DomainConfig = "cfgfuzz/config/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data) as hex.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash returns the content hash of o's canonical form.
func Hash(o *Object) (string, error) {
	canonical, err := MarshalCanonical(o)
	if err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}
	return hashWithDomain(DomainConfig, canonical), nil
}

// MustHash is like Hash but panics on error.
// Use only in tests or when o is known to contain valid values.
func MustHash(o *Object) string {
	h, err := Hash(o)
	if err != nil {
		panic(err)
	}
	return h
}
