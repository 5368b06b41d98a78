package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:54321", c.BackendURL)
	assert.Empty(t, c.AnonKey)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 6*time.Second, c.ErrorToastTimeout)
	assert.Equal(t, 4*time.Second, c.InfoToastTimeout)
	assert.Equal(t, 30, c.NotesPageSize)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	os.Args = []string{"testbin"}
	t.Cleanup(func() { os.Args = origArgs })

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:54321", cfg.BackendURL)
	assert.Equal(t, 30, cfg.NotesPageSize)
}
