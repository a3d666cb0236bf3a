package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("LEDGER_TEST_TOKEN", "secret")

	assert.Equal(t, "Bearer secret", ExpandEnv("Bearer ${LEDGER_TEST_TOKEN}"))
	assert.Equal(t, "${LEDGER_TEST_UNSET_VAR}", ExpandEnv("${LEDGER_TEST_UNSET_VAR}"))
	assert.Equal(t, "$LEDGER_TEST_TOKEN", ExpandEnv("$LEDGER_TEST_TOKEN"))
	assert.Equal(t, "secret/secret", ExpandEnv("${LEDGER_TEST_TOKEN}/${LEDGER_TEST_TOKEN}"))
}

// clearOverrides blanks the variables applyEnv reads.
func clearOverrides(t *testing.T) {
	for _, name := range []string{"DATABASE_URL", "HOST", "PORT"} {
		t.Setenv(name, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearOverrides(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "0.0.0.0:8001", cfg.Server.Addr())
}

func TestLoadFile(t *testing.T) {
	clearOverrides(t)
	t.Setenv("LEDGER_TEST_API_KEY", "k-123")
	path := writeConfig(t, `
server:
  name: banking-server
  port: 9000
database:
  url: postgres://ledger@localhost/ledger
  lock_timeout: 2s
  seed: false
ledger:
  retries: 0
  history_limit: 25
log:
  level: debug
apis:
  - name: cherrypicks
    base_url: https://api.example.com/v1
    headers:
      Authorization: Bearer ${LEDGER_TEST_API_KEY}
    endpoints:
      - name: chat
        path: /chat-messages
        method: POST
        tool_name: get_cherrypicks_info
        parameters:
          - name: query
            type: string
            required: true
          - name: user
            type: string
            default: AI_Agent
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "postgres://ledger@localhost/ledger", cfg.Database.URL)
	assert.Equal(t, 2*time.Second, cfg.Database.LockTimeout)
	assert.Equal(t, 10*time.Second, cfg.Database.StatementTimeout)
	assert.False(t, cfg.Database.Seed)
	assert.Equal(t, 0, cfg.Ledger.Retries)
	assert.Equal(t, 25, cfg.Ledger.HistoryLimit)
	assert.Equal(t, "debug", cfg.Log.Level)

	require.Len(t, cfg.APIs, 1)
	api := cfg.APIs[0]
	assert.Equal(t, "Bearer k-123", api.Headers["Authorization"])
	require.Len(t, api.Endpoints, 1)
	assert.Equal(t, "get_cherrypicks_info", api.Endpoints[0].ToolName)
	require.Len(t, api.Endpoints[0].Parameters, 2)
	assert.True(t, api.Endpoints[0].Parameters[0].Required)
	assert.Equal(t, "AI_Agent", api.Endpoints[0].Parameters[1].Default)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env@db/ledger")
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "8100")
	path := writeConfig(t, "database:\n  url: postgres://file@db/ledger\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env@db/ledger", cfg.Database.URL)
	assert.Equal(t, "127.0.0.1:8100", cfg.Server.Addr())

	t.Setenv("PORT", "eighty")
	_, err = Load(path)
	assert.ErrorContains(t, err, "invalid PORT")
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	cases := map[string]string{
		"bad yaml":          "server: [",
		"bad log level":     "log:\n  level: verbose\n",
		"bad port":          "server:\n  port: 70000\n",
		"retries above one": "ledger:\n  retries: 3\n",
		"bad method": `
apis:
  - name: x
    base_url: https://x.example.com
    endpoints:
      - method: DELETE
        tool_name: x_tool
`,
		"missing base url": `
apis:
  - name: x
    endpoints:
      - method: GET
        tool_name: x_tool
`,
		"duplicate tool": `
apis:
  - name: x
    base_url: https://x.example.com
    endpoints:
      - method: GET
        tool_name: same
      - method: POST
        tool_name: same
`,
	}
	clearOverrides(t)
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}
