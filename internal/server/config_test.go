package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.hcl")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	config, err := LoadConfig(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)

	assert.Equal(t, "localhost", config.Server.Address)
	assert.Equal(t, 8090, config.Server.Port)
	assert.Equal(t, 100, config.Game.Ante)
	assert.Equal(t, 2000, config.Game.MaxBet)
	assert.Equal(t, 15, config.Game.MaxRounds)
}

func TestLoadConfigParsesFile(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `
server {
  address   = "0.0.0.0"
  port      = 9000
  log_level = "debug"
}

game {
  ante       = 50
  max_bet    = 1000
  max_rounds = 10
  seed       = 42
}
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", config.Addr())
	assert.Equal(t, "debug", config.Server.LogLevel)
	assert.Equal(t, int64(42), config.Game.Seed)

	rules := config.Rules()
	assert.Equal(t, 50, rules.Ante)
	assert.Equal(t, 1000, rules.MaxBet)
	assert.Equal(t, 10, rules.MaxRounds)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"negative ante", "game {\n  ante = -5\n}"},
		{"max bet below ante", "game {\n  ante    = 500\n  max_bet = 100\n}"},
		{"negative rounds", "game {\n  max_rounds = -1\n}"},
		{"bad port", "server {\n  port = 99999\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadConfig(writeConfigFile(t, tt.body))
			require.Error(t, err)
		})
	}
}

func TestLoadConfigRejectsMalformedHCL(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(writeConfigFile(t, `server { address = `))
	require.Error(t, err)
}
