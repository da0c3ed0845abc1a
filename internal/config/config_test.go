package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigRequiresDBConn(t *testing.T) {
	t.Setenv("DB_CONN", "")
	t.Setenv("SESSION_SECRET", "secret")

	_, err := NewConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_CONN")
}

func TestNewConfigRequiresSessionSecret(t *testing.T) {
	t.Setenv("DB_CONN", "host=localhost dbname=blog")
	t.Setenv("SESSION_SECRET", "")

	_, err := NewConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestNewConfigDefaults(t *testing.T) {
	t.Setenv("DB_CONN", "host=localhost dbname=blog")
	t.Setenv("SESSION_SECRET", "secret")
	// t.Setenv registers the restore; the vars must be absent for the test.
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")
	t.Setenv("SITE_URL", "")
	os.Unsetenv("SITE_URL")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:8080", cfg.SiteURL)
}
