package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
	assert.Equal(t, "dreamweaver.db", cfg.DatabasePath)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, time.Minute, cfg.RequestTimeout)
	assert.Equal(t, "gemini-2.5-flash", cfg.AnalysisModel)
	assert.Equal(t, "gemini-2.5-flash-image", cfg.ImageModel)
	assert.Equal(t, "gemini-2.5-flash", cfg.ChatModel)
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "placeholder") // register cleanup, then drop the var
	os.Unsetenv("GEMINI_API_KEY")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("ANALYSIS_MODEL", "gemini-exp")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "gemini-exp", cfg.AnalysisModel)
}
