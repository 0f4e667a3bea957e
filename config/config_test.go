package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nyaymitra-backend/models"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("INDIAN_KANOON_API_KEY", "ik-test")
	t.Setenv("GEMINI_API_KEY", "gm-test")
	t.Setenv("GROQ_API_KEY", "gq-test")
}

func TestParse_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.SearchTimeout)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Equal(t, int64(16*1024*1024), cfg.MaxUploadBytes())
	assert.Equal(t, "/static/audio", cfg.AudioURLPrefix)
}

func TestParse_MissingAPIKeys(t *testing.T) {
	t.Setenv("INDIAN_KANOON_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "gm-test")
	t.Setenv("GROQ_API_KEY", "gq-test")

	_, err := Parse()
	assert.Error(t, err)
}

func TestParse_RejectsUnknownStoreBackend(t *testing.T) {
	setRequired(t)
	t.Setenv("STORE_BACKEND", "sqlite")

	_, err := Parse()
	assert.ErrorContains(t, err, "unknown store backend")
}

func TestParse_S3RequiresBucket(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_TYPE", "s3")

	_, err := Parse()
	assert.ErrorContains(t, err, "AWS_S3_BUCKET")
}

func TestModelFor_KeepsCallSitesIndependent(t *testing.T) {
	setRequired(t)

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.0-flash-exp", cfg.ModelFor(models.CallSiteVerdict))
	assert.Equal(t, "gemini-2.5-flash", cfg.ModelFor(models.CallSiteChat))
	assert.Equal(t, "gemini-2.0-flash-exp", cfg.ModelFor(models.CallSiteChatWidget))
	assert.Equal(t, "llama-3.1-8b-instant", cfg.ModelFor(models.CallSiteVoice))
	assert.Equal(t, "llama-3.1-8b-instant", cfg.ModelFor(models.CallSiteDocument))
	assert.Empty(t, cfg.ModelFor(models.CallSite("unknown")))
}
