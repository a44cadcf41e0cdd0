package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "minimal valid config",
			content: `
chain:
  rpc_url: "http://localhost:8545"
  metaverse_address: "0x1B147Fa3b0533E9Ba3Ec5eb6446Ee2Cd1B4BCf1F"
db:
  path: "grabber.db"
`,
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				require.Equal(t, "WAL", cfg.DB.JournalMode)
				require.Equal(t, "NORMAL", cfg.DB.Synchronous)
				require.Equal(t, 30*time.Second, cfg.Grabber.Interval)
				require.Equal(t, "grabber.lock", cfg.Grabber.LockPath)
				require.False(t, cfg.Grabber.UseTransactions)
			},
		},
		{
			name: "full config",
			content: `
chain:
  rpc_url: "http://localhost:8545"
  metaverse_address: "0x1B147Fa3b0533E9Ba3Ec5eb6446Ee2Cd1B4BCf1F"
  currency_definition_plugin_address: "0x2f4E17B726F2B541eCBFE55C2a1DabD8B4BcF1aa"
db:
  path: "grabber.db"
  journal_mode: "DELETE"
grabber:
  use_transactions: true
  interval: 10s
  lock_path: "/tmp/grabber.lock"
logging:
  level: "debug"
metrics:
  enabled: true
api:
  enabled: true
  page_size: 25
`,
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				require.True(t, cfg.Grabber.UseTransactions)
				require.Equal(t, 10*time.Second, cfg.Grabber.Interval)
				require.Equal(t, "DELETE", cfg.DB.JournalMode)
				require.Equal(t, ":9090", cfg.Metrics.ListenAddress)
				require.Equal(t, "/metrics", cfg.Metrics.Path)
				require.Equal(t, 25, cfg.API.PageSize)
				require.Equal(t, ":8080", cfg.API.ListenAddress)
				require.Equal(t, []string{"*"}, cfg.API.AllowedOrigins)
			},
		},
		{
			name: "api allowed origins",
			content: `
chain:
  rpc_url: "http://localhost:8545"
  metaverse_address: "0x1B147Fa3b0533E9Ba3Ec5eb6446Ee2Cd1B4BCf1F"
db:
  path: "grabber.db"
api:
  enabled: true
  allowed_origins:
    - "https://app.example.com"
    - "https://admin.example.com"
`,
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				require.Equal(t,
					[]string{"https://app.example.com", "https://admin.example.com"},
					cfg.API.AllowedOrigins)
			},
		},
		{
			name: "missing rpc url",
			content: `
chain:
  metaverse_address: "0x1B147Fa3b0533E9Ba3Ec5eb6446Ee2Cd1B4BCf1F"
db:
  path: "grabber.db"
`,
			wantErr: "chain.rpc_url is required",
		},
		{
			name: "missing metaverse address",
			content: `
chain:
  rpc_url: "http://localhost:8545"
db:
  path: "grabber.db"
`,
			wantErr: "chain.metaverse_address is required",
		},
		{
			name: "bad metaverse address",
			content: `
chain:
  rpc_url: "http://localhost:8545"
  metaverse_address: "not-an-address"
db:
  path: "grabber.db"
`,
			wantErr: "not a valid address",
		},
		{
			name: "missing db path",
			content: `
chain:
  rpc_url: "http://localhost:8545"
  metaverse_address: "0x1B147Fa3b0533E9Ba3Ec5eb6446Ee2Cd1B4BCf1F"
`,
			wantErr: "db.path is required",
		},
		{
			name: "bad journal mode",
			content: `
chain:
  rpc_url: "http://localhost:8545"
  metaverse_address: "0x1B147Fa3b0533E9Ba3Ec5eb6446Ee2Cd1B4BCf1F"
db:
  path: "grabber.db"
  journal_mode: "BOGUS"
`,
			wantErr: "db.journal_mode",
		},
		{
			name: "bad log level",
			content: `
chain:
  rpc_url: "http://localhost:8545"
  metaverse_address: "0x1B147Fa3b0533E9Ba3Ec5eb6446Ee2Cd1B4BCf1F"
db:
  path: "grabber.db"
logging:
  level: "verbose"
`,
			wantErr: "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := LoadFromFile(writeConfig(t, tt.content))
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
