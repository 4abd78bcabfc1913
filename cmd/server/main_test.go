package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanopolanes/lakehub-backend/internal/config"
)

func TestFallbackConfigMatchesDefaults(t *testing.T) {
	chdirTemp(t) // no config.yaml anywhere on the search path

	loaded, err := config.Load()
	require.NoError(t, err)

	fallback := fallbackConfig()
	assert.Equal(t, loaded, fallback)
	// The server reads its timeouts from here; zero would disable them.
	assert.Equal(t, 15, fallback.RequestTimeoutSec)
	assert.Equal(t, 10, fallback.ShutdownTimeoutSec)
}

// chdirTemp changes into a fresh temp dir for the test and restores the
// previous working directory afterwards (t.Chdir needs Go 1.24+).
func chdirTemp(t *testing.T) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
