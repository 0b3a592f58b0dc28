package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-play/taskcheck/digest"
)

func mustInit(t *testing.T) *Handle {
	t.Helper()
	h, err := Init("testdata/manifest.txt")
	require.NoError(t, err)
	return h
}

func TestScenarioProximityOnly(t *testing.T) {
	h := mustInit(t)
	result, sig, err := Check(h, "T1", 42, "testdata/scenario1.log")
	require.NoError(t, err)
	assert.Equal(t, byte(0b0000_0001), result)
	assert.Len(t, sig, 64)
}

func TestScenarioOrderedPrecedence(t *testing.T) {
	h := mustInit(t)
	result, _, err := Check(h, "T2", 1, "testdata/scenario2.log")
	require.NoError(t, err)
	assert.Equal(t, byte(0b0000_0011), result)
}

func TestScenarioANDNesting(t *testing.T) {
	h := mustInit(t)
	result, _, err := Check(h, "T3", 1, "testdata/scenario3.log")
	require.NoError(t, err)
	assert.Equal(t, byte(0b0000_0001), result)
}

func TestScenarioWin(t *testing.T) {
	h := mustInit(t)
	result, _, err := Check(h, "T4", 1, "testdata/scenario4.log")
	require.NoError(t, err)
	assert.Equal(t, byte(0b0000_0001), result)
}

func TestScenarioSignatureStability(t *testing.T) {
	got := digest.Sign("s", "T", 42, 3)
	want := digest.Sum256Hex([]byte("s:T:42:3"))
	assert.Equal(t, want, got)
}

func TestScenarioBadLogIsFormatError(t *testing.T) {
	h := mustInit(t)
	result, sig, err := Check(h, "T1", 1, "testdata/scenario6_bad.log")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFormat)
	assert.Equal(t, 2, Code(err))
	assert.Equal(t, byte(0), result)
	assert.Empty(t, sig)
}

func TestCheckUnknownTaskIsBadParameters(t *testing.T) {
	h := mustInit(t)
	_, _, err := Check(h, "NoSuchTask", 1, "testdata/scenario1.log")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadParameters)
	assert.Equal(t, 1, Code(err))
}

func TestCheckIsIdempotent(t *testing.T) {
	h := mustInit(t)
	result1, sig1, err1 := Check(h, "T1", 42, "testdata/scenario1.log")
	require.NoError(t, err1)
	result2, sig2, err2 := Check(h, "T1", 42, "testdata/scenario1.log")
	require.NoError(t, err2)
	assert.Equal(t, result1, result2)
	assert.Equal(t, sig1, sig2)
}

func TestInitRejectsMissingManifest(t *testing.T) {
	_, err := Init("testdata/does_not_exist.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadParameters)
}
