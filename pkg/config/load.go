package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	appName   = "walletgraph"
	envPrefix = "WALLETGRAPH"
	fileName  = "config.toml"
)

// Dir returns the config directory (~/.config/walletgraph/ or
// $XDG_CONFIG_HOME/walletgraph/).
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultPath returns the config file read when no path is given.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:       ":5000",
			SessionTTL: 30 * time.Minute,
		},
		Explorer: ExplorerConfig{
			PageSize:     2,
			DetailsLimit: 10,
			MaxNeighbors: 8,
			Timeout:      15 * time.Second,
		},
		Provider: ProviderConfig{
			Name:      "blockstream",
			RateLimit: 5,
			Burst:     5,
		},
		Cache: CacheConfig{
			Backend:       CacheFile,
			TTL:           time.Minute,
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: appName,
		},
		Neo4j: Neo4jConfig{
			URI:      "neo4j://localhost:7687",
			Username: "neo4j",
		},
		Kafka: KafkaConfig{
			Brokers:       []string{"localhost:9092"},
			VerticesTopic: "walletgraph.vertices",
			EdgesTopic:    "walletgraph.edges",
		},
	}
}

// Loader reads configuration through viper.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a Loader seeded with [Default] values and the
// environment.
func NewLoader() *Loader {
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.session_ttl", d.Server.SessionTTL)

	v.SetDefault("explorer.wallet_api", d.Explorer.WalletAPI)
	v.SetDefault("explorer.page_size", d.Explorer.PageSize)
	v.SetDefault("explorer.details_limit", d.Explorer.DetailsLimit)
	v.SetDefault("explorer.max_neighbors", d.Explorer.MaxNeighbors)
	v.SetDefault("explorer.timeout", d.Explorer.Timeout)

	v.SetDefault("provider.name", d.Provider.Name)
	v.SetDefault("provider.base_url", d.Provider.BaseURL)
	v.SetDefault("provider.blockcypher_token", d.Provider.BlockCypherToken)
	v.SetDefault("provider.rate_limit", d.Provider.RateLimit)
	v.SetDefault("provider.burst", d.Provider.Burst)

	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.redis_addr", d.Cache.RedisAddr)
	v.SetDefault("cache.redis_password", d.Cache.RedisPassword)
	v.SetDefault("cache.redis_db", d.Cache.RedisDB)
	v.SetDefault("cache.mongo_uri", d.Cache.MongoURI)
	v.SetDefault("cache.mongo_database", d.Cache.MongoDatabase)

	v.SetDefault("neo4j.uri", d.Neo4j.URI)
	v.SetDefault("neo4j.username", d.Neo4j.Username)
	v.SetDefault("neo4j.password", d.Neo4j.Password)
	v.SetDefault("neo4j.database", d.Neo4j.Database)

	v.SetDefault("kafka.brokers", d.Kafka.Brokers)
	v.SetDefault("kafka.vertices_topic", d.Kafka.VerticesTopic)
	v.SetDefault("kafka.edges_topic", d.Kafka.EdgesTopic)
}

// BindPFlag makes a command-line flag override key when it is set.
// A nil flag is ignored.
func (l *Loader) BindPFlag(key string, f *pflag.Flag) error {
	if f == nil {
		return nil
	}
	return l.v.BindPFlag(key, f)
}

// Load reads the config file at path, or the default path when path is
// empty, and returns the validated result. A missing default file is not
// an error; a missing explicit file is.
func (l *Loader) Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		l.v.SetConfigFile(path)
		l.v.SetConfigType("toml")
		if err := l.v.ReadInConfig(); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Used returns the config file that was read, or "" when none was.
func (l *Loader) Used() string {
	return l.v.ConfigFileUsed()
}
