package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataPathEnvOverride(t *testing.T) {
	t.Setenv(EnvHome, "/tmp/later-data")

	p, err := DataPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/later-data", p)
}
