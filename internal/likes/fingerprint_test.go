package likes

import (
	"strings"
	"testing"
)

func TestFingerprint_Deterministic(t *testing.T) {
	fp := NewFingerprinter("salt-a")
	if fp.FromIP("203.0.113.9") != fp.FromIP("203.0.113.9") {
		t.Error("same salt and IP must produce the same fingerprint")
	}
}

func TestFingerprint_VariesBySaltAndIP(t *testing.T) {
	a := NewFingerprinter("salt-a")
	b := NewFingerprinter("salt-b")
	if a.FromIP("203.0.113.9") == b.FromIP("203.0.113.9") {
		t.Error("different salts must produce different fingerprints")
	}
	if a.FromIP("203.0.113.9") == a.FromIP("203.0.113.10") {
		t.Error("different IPs must produce different fingerprints")
	}
}

func TestFingerprint_DoesNotLeakAddress(t *testing.T) {
	fp := NewFingerprinter("salt-a")
	got := fp.FromIP("203.0.113.9")
	if len(got) != 64 {
		t.Errorf("fingerprint length = %d, want 64 hex chars", len(got))
	}
	if strings.Contains(got, "203.0.113.9") {
		t.Error("fingerprint must not contain the raw address")
	}
}
