// Package digest wraps the 256-bit digest primitive used to produce a
// check's tamper-evident signature code. The digest itself is treated
// as a black box per spec.md §1 ("the digest primitive itself"); we
// rely on crypto/sha256's SHA-256 semantics directly rather than an
// ecosystem hashing library, since the wire contract (spec.md §4.B,
// §6) names SHA-256 explicitly and any other primitive would produce
// a signature outside verifiers can't reproduce.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Sum256Hex returns the lowercase, fixed-width 64-character hex
// encoding of the SHA-256 digest of data.
func Sum256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Sign produces the signature code for a (secret, task, salt, result)
// tuple: the hex SHA-256 digest of
// "<secret>:<task>:<salt>:<result>", result formatted as a signed
// decimal integer (spec.md §4.H, §6).
func Sign(secret, task string, salt int32, result int) string {
	payload := fmt.Sprintf("%s:%s:%d:%d", secret, task, salt, result)
	return Sum256Hex([]byte(payload))
}
