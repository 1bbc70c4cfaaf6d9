package sys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnv(t *testing.T) {
	t.Setenv("LATER_SYS_TEST", "set")
	assert.Equal(t, "set", Env("LATER_SYS_TEST", "fallback"))
	assert.Equal(t, "fallback", Env("LATER_SYS_TEST_MISSING", "fallback"))
}

func TestBinExists(t *testing.T) {
	assert.True(t, BinExists("sh"))
	assert.False(t, BinExists("no-such-binary-anywhere"))
}

func TestOSArgs(t *testing.T) {
	args := OSArgs()
	require.NotEmpty(t, args)
	assert.NotEmpty(t, args[0])
}

func TestOpenFileWithoutOpener(t *testing.T) {
	t.Setenv("PATH", "")

	err := OpenFile("file.png")
	assert.ErrorIs(t, err, ErrNoOpener)
}
