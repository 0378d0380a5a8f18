package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("PG_TEST_BIND", "127.0.0.1:9999")
	cfg, err := LoadFromReader(strings.NewReader(`
server:
  bind: ${PG_TEST_BIND}
auth:
  mode: provider
  provider_url: https://ory.example.com
  cache_ttl: 30s
`))
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9999", cfg.Server.Bind)
	require.Equal(t, ModeProvider, cfg.Auth.Mode)
	require.Equal(t, Duration(30*time.Second), cfg.Auth.CacheTTL)
	// untouched sections keep their defaults
	require.Equal(t, "pregame.db", cfg.Database.Path)
}

func TestLoadRejectsInvalidModes(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader("auth:\n  mode: sorcery\n"))
	require.Error(t, err)

	_, err = LoadFromReader(strings.NewReader("auth:\n  mode: provider\n"))
	require.Error(t, err, "provider mode without provider_url must fail")

	_, err = LoadFromReader(strings.NewReader("auth:\n  mode: passcode\n"))
	require.Error(t, err, "passcode mode without key_envvar must fail")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, ModeSession, cfg.Auth.Mode)
	require.Equal(t, "localhost:7030", cfg.Server.Bind)
}
