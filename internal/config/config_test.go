package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("KHATA_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "local", cfg.Backend.Mode)
	require.Contains(t, cfg.Backend.LocalPath, "khata.db")
	require.Equal(t, "₹", cfg.UI.CurrencySymbol)
	require.Equal(t, "02/01/2006", cfg.UI.DateFormat)
	require.Equal(t, "Asia/Kolkata", cfg.UI.Timezone)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[backend]
mode = "remote"
remote_url = "https://api.example.com"
api_key = "k-123"

[ui]
currency_symbol = "$"
`), 0o644))
	t.Setenv("KHATA_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "remote", cfg.Backend.Mode)
	require.Equal(t, "https://api.example.com", cfg.Backend.RemoteURL)
	require.Equal(t, "k-123", cfg.Backend.APIKey)
	require.Equal(t, "$", cfg.UI.CurrencySymbol)
	// untouched keys keep their defaults
	require.Equal(t, "02/01/2006", cfg.UI.DateFormat)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("KHATA_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("KHATA_UI_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "UTC", cfg.UI.Timezone)
}

func TestLoadRejectsBadMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[backend]\nmode = \"cloud\"\n"), 0o644))
	t.Setenv("KHATA_CONFIG", path)

	_, err := Load()
	require.ErrorContains(t, err, "backend.mode")
}

func TestLoadRemoteRequiresURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[backend]\nmode = \"remote\"\n"), 0o644))
	t.Setenv("KHATA_CONFIG", path)

	_, err := Load()
	require.ErrorContains(t, err, "remote_url")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("KHATA_CONFIG", path)

	in, err := Load()
	require.NoError(t, err)
	in.UI.CurrencySymbol = "Rs "
	in.Backend.LocalPath = "/tmp/elsewhere.db"
	require.NoError(t, Save(in))

	out, err := Load()
	require.NoError(t, err)
	require.Equal(t, "Rs ", out.UI.CurrencySymbol)
	require.Equal(t, "/tmp/elsewhere.db", out.Backend.LocalPath)
}

func TestPathHonorsOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("KHATA_CONFIG", path)

	require.Equal(t, path, Path())
}
