package likes

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprinter derives a one-way caller identity from a network address and a
// server-side salt. The raw address is never stored or logged.
type Fingerprinter struct {
	salt string
}

// NewFingerprinter creates a fingerprinter with the given salt.
func NewFingerprinter(salt string) *Fingerprinter {
	return &Fingerprinter{salt: salt}
}

// FromIP returns the hex fingerprint for a client IP.
func (f *Fingerprinter) FromIP(ip string) string {
	sum := sha256.Sum256([]byte(f.salt + ":" + ip))
	return hex.EncodeToString(sum[:])
}
