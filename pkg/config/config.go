// Package config loads walletgraph configuration.
//
// Values come from, in increasing precedence: built-in defaults, the TOML
// config file (~/.config/walletgraph/config.toml unless a path is given),
// WALLETGRAPH_* environment variables and bound command-line flags.
// Nested keys map to environment names with underscores, so cache.backend is
// read from WALLETGRAPH_CACHE_BACKEND.
//
//	l := config.NewLoader()
//	_ = l.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
//	cfg, err := l.Load(path)
package config

import (
	"fmt"
	"slices"
	"time"

	errs "github.com/matzehuels/walletgraph/pkg/errors"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheMongo = "mongo"
	CacheNone  = "none"
)

// Config is the complete walletgraph configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" toml:"server"`
	Explorer ExplorerConfig `mapstructure:"explorer" toml:"explorer"`
	Provider ProviderConfig `mapstructure:"provider" toml:"provider"`
	Cache    CacheConfig    `mapstructure:"cache" toml:"cache"`
	Neo4j    Neo4jConfig    `mapstructure:"neo4j" toml:"neo4j"`
	Kafka    KafkaConfig    `mapstructure:"kafka" toml:"kafka"`
}

// ServerConfig configures `walletgraph serve`.
type ServerConfig struct {
	Addr       string        `mapstructure:"addr" toml:"addr"`
	SessionTTL time.Duration `mapstructure:"session_ttl" toml:"session_ttl"`
}

// ExplorerConfig configures the graph engine.
type ExplorerConfig struct {
	// WalletAPI is the base URL of a running proxy. Empty runs the proxy
	// in-process against the configured provider.
	WalletAPI    string        `mapstructure:"wallet_api" toml:"wallet_api"`
	PageSize     int           `mapstructure:"page_size" toml:"page_size"`
	DetailsLimit int           `mapstructure:"details_limit" toml:"details_limit"`
	MaxNeighbors int           `mapstructure:"max_neighbors" toml:"max_neighbors"`
	Timeout      time.Duration `mapstructure:"timeout" toml:"timeout"`
}

// ProviderConfig selects the upstream block explorer.
type ProviderConfig struct {
	Name             string  `mapstructure:"name" toml:"name"`
	BaseURL          string  `mapstructure:"base_url" toml:"base_url"`
	BlockCypherToken string  `mapstructure:"blockcypher_token" toml:"blockcypher_token"`
	RateLimit        float64 `mapstructure:"rate_limit" toml:"rate_limit"` // requests per second, 0 for unlimited
	Burst            int     `mapstructure:"burst" toml:"burst"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend       string        `mapstructure:"backend" toml:"backend"`
	Dir           string        `mapstructure:"dir" toml:"dir"`
	TTL           time.Duration `mapstructure:"ttl" toml:"ttl"`
	RedisAddr     string        `mapstructure:"redis_addr" toml:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password" toml:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db" toml:"redis_db"`
	MongoURI      string        `mapstructure:"mongo_uri" toml:"mongo_uri"`
	MongoDatabase string        `mapstructure:"mongo_database" toml:"mongo_database"`
}

// Neo4jConfig configures `export --to neo4j`.
type Neo4jConfig struct {
	URI      string `mapstructure:"uri" toml:"uri"`
	Username string `mapstructure:"username" toml:"username"`
	Password string `mapstructure:"password" toml:"password"`
	Database string `mapstructure:"database" toml:"database"`
}

// KafkaConfig configures `export --to kafka`.
type KafkaConfig struct {
	Brokers       []string `mapstructure:"brokers" toml:"brokers"`
	VerticesTopic string   `mapstructure:"vertices_topic" toml:"vertices_topic"`
	EdgesTopic    string   `mapstructure:"edges_topic" toml:"edges_topic"`
}

// Validate checks values that would otherwise fail deep inside a command.
func (c Config) Validate() error {
	if !slices.Contains([]string{"", "blockstream", "blockcypher"}, c.Provider.Name) {
		return errs.New(errs.ErrCodeUnsupported, "unknown provider %q", c.Provider.Name)
	}
	if !slices.Contains([]string{CacheFile, CacheRedis, CacheMongo, CacheNone}, c.Cache.Backend) {
		return errs.New(errs.ErrCodeUnsupported, "unknown cache backend %q", c.Cache.Backend)
	}
	if err := errs.ValidateLimit(c.Explorer.PageSize, 50); err != nil {
		return fmt.Errorf("explorer.page_size: %w", err)
	}
	if err := errs.ValidateLimit(c.Explorer.DetailsLimit, 50); err != nil {
		return fmt.Errorf("explorer.details_limit: %w", err)
	}
	if c.Provider.RateLimit < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "provider.rate_limit must not be negative")
	}
	return nil
}

// Redacted returns a copy with secrets masked for display.
func (c Config) Redacted() Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "********"
	}
	c.Provider.BlockCypherToken = mask(c.Provider.BlockCypherToken)
	c.Cache.RedisPassword = mask(c.Cache.RedisPassword)
	c.Neo4j.Password = mask(c.Neo4j.Password)
	return c
}
