package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/walletgraph/pkg/errors"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	isolate(t)

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadPrecedence(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	doc := `
[server]
addr = ":7000"

[explorer]
page_size = 5

[cache]
backend = "redis"
ttl = "2m"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	t.Setenv("WALLETGRAPH_EXPLORER_PAGE_SIZE", "7")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("addr", "", "")
	require.NoError(t, flags.Parse([]string{"--addr", ":9000"}))

	l := NewLoader()
	require.NoError(t, l.BindPFlag("server.addr", flags.Lookup("addr")))
	require.NoError(t, l.BindPFlag("ignored", nil))

	cfg, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, l.Used())
	assert.Equal(t, ":9000", cfg.Server.Addr, "flag beats file")
	assert.Equal(t, 7, cfg.Explorer.PageSize, "env beats file")
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 10, cfg.Explorer.DetailsLimit, "default kept")
}

func TestLoadRejectsInvalid(t *testing.T) {
	isolate(t)
	t.Setenv("WALLETGRAPH_PROVIDER_NAME", "etherscan")

	_, err := NewLoader().Load("")
	assert.True(t, errs.Is(err, errs.ErrCodeUnsupported), "got %v", err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"blockcypher", func(c *Config) { c.Provider.Name = "blockcypher" }, false},
		{"bad backend", func(c *Config) { c.Cache.Backend = "memcached" }, true},
		{"page size zero", func(c *Config) { c.Explorer.PageSize = 0 }, true},
		{"details too large", func(c *Config) { c.Explorer.DetailsLimit = 51 }, true},
		{"negative rate", func(c *Config) { c.Provider.RateLimit = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRedacted(t *testing.T) {
	cfg := Default()
	cfg.Neo4j.Password = "secret"
	cfg.Provider.BlockCypherToken = "tok"

	r := cfg.Redacted()
	assert.Equal(t, "********", r.Neo4j.Password)
	assert.Equal(t, "********", r.Provider.BlockCypherToken)
	assert.Empty(t, r.Cache.RedisPassword)
	assert.Equal(t, "secret", cfg.Neo4j.Password, "original untouched")
}

func TestWriteFileRoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := Default()
	cfg.Server.Addr = ":8080"
	cfg.Kafka.Brokers = []string{"k1:9092", "k2:9092"}
	require.NoError(t, WriteFile(path, cfg, false))

	err := WriteFile(path, cfg, false)
	assert.Error(t, err, "existing file needs force")
	require.NoError(t, WriteFile(path, cfg, true))

	got, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Default()))
	assert.Contains(t, buf.String(), "[provider]")
	assert.Contains(t, buf.String(), `name = "blockstream"`)
}
