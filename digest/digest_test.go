package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestSum256HexMatchesStdlib(t *testing.T) {
	data := []byte("hello, taskcheck")
	want := sha256.Sum256(data)
	if got := Sum256Hex(data); got != hex.EncodeToString(want[:]) {
		t.Errorf("Sum256Hex = %s, want %s", got, hex.EncodeToString(want[:]))
	}
	if len(Sum256Hex(data)) != 64 {
		t.Errorf("Sum256Hex length = %d, want 64", len(Sum256Hex(data)))
	}
}

func TestSignDeterministic(t *testing.T) {
	a := Sign("s", "T", 42, 3)
	b := Sign("s", "T", 42, 3)
	if a != b {
		t.Errorf("Sign is not deterministic: %s != %s", a, b)
	}

	want := Sum256Hex([]byte("s:T:42:3"))
	if a != want {
		t.Errorf("Sign(%q) = %s, want %s", "s:T:42:3", a, want)
	}
}

func TestSignVariesByInput(t *testing.T) {
	base := Sign("s", "T", 42, 3)
	if Sign("s2", "T", 42, 3) == base {
		t.Error("Sign should vary with secret")
	}
	if Sign("s", "T2", 42, 3) == base {
		t.Error("Sign should vary with task")
	}
	if Sign("s", "T", 43, 3) == base {
		t.Error("Sign should vary with salt")
	}
	if Sign("s", "T", 42, 4) == base {
		t.Error("Sign should vary with result")
	}
}

func TestSignNegativeSalt(t *testing.T) {
	// Salt is a signed 32-bit integer; make sure negative values format
	// the same way strconv/fmt would for a signed decimal.
	got := Sign("s", "T", -7, 0)
	want := Sum256Hex([]byte("s:T:-7:0"))
	if got != want {
		t.Errorf("Sign with negative salt = %s, want %s", got, want)
	}
}
