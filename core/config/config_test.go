package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abiproxy.toml")
	content := `
[client]
binary = "/opt/leap/bin/cleos"
wallet_url = "unix:///tmp/cleos-driver/keosd.sock"
timeout = "45s"

[proxy]
target = "meta.hg3"
max_pages = 20

[proxy.field_orders]
position = ["y", "x"]

[logging]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/leap/bin/cleos", cfg.Client.Binary)
	assert.Equal(t, "http://127.0.0.1:8888", cfg.Client.URL, "unset values keep their default")
	assert.Equal(t, "unix:///tmp/cleos-driver/keosd.sock", cfg.Client.WalletURL)
	assert.Equal(t, 45*time.Second, cfg.Client.Timeout.Duration())
	assert.Equal(t, "meta.hg3", cfg.Proxy.Target)
	assert.Equal(t, 20, cfg.Proxy.MaxPages)
	assert.Equal(t, []string{"y", "x"}, cfg.Proxy.FieldOrders["position"])
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	cases := map[string]struct {
		content string
		want    error
	}{
		"bad max pages": {"[proxy]\nmax_pages = 0\n", ErrInvalidMaxPages},
		"bad level":     {"[logging]\nlevel = \"loud\"\n", ErrInvalidLogLevel},
		"bad format":    {"[logging]\nformat = \"xml\"\n", ErrInvalidLogFormat},
		"empty binary":  {"[client]\nbinary = \"\"\n", ErrEmptyBinary},
		"empty order":   {"[proxy.field_orders]\nposition = []\n", ErrEmptyFieldOrder},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".toml")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o600))
			_, err := LoadConfig(path)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("bad duration", func(t *testing.T) {
		path := filepath.Join(dir, "duration.toml")
		require.NoError(t, os.WriteFile(path, []byte("[client]\ntimeout = \"soon\"\n"), 0o600))
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestWriteConfigFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.toml")
	cfg := DefaultConfig()
	cfg.Proxy.Target = "tcn.tc3"
	cfg.Client.Timeout = Duration(10 * time.Second)

	require.NoError(t, WriteConfigFile(path, cfg))
	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
