package types

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/sha3"
)

// CommitmentHexLen is the length of a hex-encoded Keccak256 digest.
const CommitmentHexLen = 64

// Commitment returns hex(Keccak256(value || nonce)).
//
// The preimage is the plain string concatenation of value and nonce with no
// separator or length prefix. Off-chain clients must use exactly this encoding
// (see `guessd commitment`), so "ab"+"c" and "a"+"bc" commit to the same digest.
func Commitment(value, nonce string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(value + nonce))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyCommitment reports whether (value, nonce) opens commitment.
func VerifyCommitment(commitment, value, nonce string) bool {
	return Commitment(value, nonce) == commitment
}

// NormalizeCommitment validates a hex digest and returns its lowercase form.
func NormalizeCommitment(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) != CommitmentHexLen {
		return "", fmt.Errorf("commitment must be %d hex chars, got %d", CommitmentHexLen, len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", fmt.Errorf("commitment is not hex: %w", err)
	}
	return strings.ToLower(s), nil
}

// ValidatePreimage rejects a value or nonce that is not valid UTF-8. Revealed
// guesses are stored as JSON text, which cannot carry arbitrary bytes, and a
// stored guess must compare byte-for-byte equal to the resolving secret.
func ValidatePreimage(field, value, nonce string) error {
	if !utf8.ValidString(value) {
		return ErrValidation.Wrapf("%s is not valid UTF-8", field)
	}
	if !utf8.ValidString(nonce) {
		return ErrValidation.Wrap("nonce is not valid UTF-8")
	}
	return nil
}
