package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	require.Equal(t, "http://localhost:5000/api", cfg.APIBaseURL)
	require.Equal(t, 12, cfg.QuestionPageSize)
	require.Equal(t, 10, cfg.DashboardPageSize)
	require.Equal(t, 20, cfg.AdminPageSize)
	require.NotEmpty(t, cfg.IdentityBaseURL)
	require.NotEmpty(t, cfg.ImageKitUploadURL)
}

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv("QBANK_API_URL", "https://api.example.edu/api")
	t.Setenv("QBANK_IDENTITY_API_KEY", "key-123")
	t.Setenv("QBANK_PAGE_SIZE", "25")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	require.Equal(t, "https://api.example.edu/api", cfg.APIBaseURL)
	require.Equal(t, "key-123", cfg.IdentityAPIKey)
	require.Equal(t, 25, cfg.QuestionPageSize)
}

func TestParseEnv_IgnoresEmptyAndInvalid(t *testing.T) {
	t.Setenv("QBANK_API_URL", "")
	t.Setenv("QBANK_PAGE_SIZE", "not-a-number")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	require.Equal(t, "http://localhost:5000/api", cfg.APIBaseURL)
	require.Equal(t, 12, cfg.QuestionPageSize)
}
