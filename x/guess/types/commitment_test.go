package types_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"onchainguess/x/guess/types"
)

func TestCommitment_KnownVectors(t *testing.T) {
	// Keccak256 (pre-NIST padding) digests.
	require.Equal(t, "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", types.Commitment("", ""))
	require.Equal(t, "4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45", types.Commitment("abc", ""))
}

func TestCommitment_PlainConcatenation(t *testing.T) {
	require.Equal(t, types.Commitment("ab", "c"), types.Commitment("a", "bc"))
	require.Equal(t, types.Commitment("abc", ""), types.Commitment("", "abc"))
	require.NotEqual(t, types.Commitment("42", "n1"), types.Commitment("42", "n2"))
}

func TestVerifyCommitment(t *testing.T) {
	c := types.Commitment("42", "salt")
	require.Len(t, c, types.CommitmentHexLen)
	require.True(t, types.VerifyCommitment(c, "42", "salt"))
	require.False(t, types.VerifyCommitment(c, "42", "pepper"))
	require.False(t, types.VerifyCommitment(c, "43", "salt"))
	require.False(t, types.VerifyCommitment(strings.ToUpper(c), "42", "salt"))
}

func TestNormalizeCommitment(t *testing.T) {
	c := types.Commitment("42", "salt")

	got, err := types.NormalizeCommitment(strings.ToUpper(c))
	require.NoError(t, err)
	require.Equal(t, c, got)

	_, err = types.NormalizeCommitment(c[:63])
	require.ErrorContains(t, err, "64 hex chars")

	_, err = types.NormalizeCommitment(strings.Repeat("z", 64))
	require.ErrorContains(t, err, "not hex")
}
