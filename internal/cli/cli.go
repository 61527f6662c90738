// Package cli implements the walletgraph command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/walletgraph/pkg/buildinfo"
	"github.com/matzehuels/walletgraph/pkg/cache"
	"github.com/matzehuels/walletgraph/pkg/config"
	"github.com/matzehuels/walletgraph/pkg/integrations"
	"github.com/matzehuels/walletgraph/pkg/integrations/walletapi"
	"github.com/matzehuels/walletgraph/pkg/proxy"
	"github.com/matzehuels/walletgraph/pkg/txgraph"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "walletgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	loader     *config.Loader
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		loader: config.NewLoader(),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level. Debug level also registers the
// logging observability hooks.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		registerDebugHooks(c.Logger)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Walletgraph explores the transaction graph around a wallet address",
		Long:         `Walletgraph fetches transactions for a seed address from a block explorer and incrementally builds a graph of addresses connected by transactions, which can be explored in the terminal, served to browsers, rendered or exported.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/walletgraph/config.toml)")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// flagKeys maps command flags to the config keys they override.
var flagKeys = map[string]string{
	"addr":          "server.addr",
	"provider":      "provider.name",
	"base-url":      "provider.base_url",
	"wallet-api":    "explorer.wallet_api",
	"page-size":     "explorer.page_size",
	"max-neighbors": "explorer.max_neighbors",
	"cache-backend": "cache.backend",
	"neo4j-uri":     "neo4j.uri",
	"brokers":       "kafka.brokers",
}

// loadConfig binds the flags of the running command and loads the config.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	for name, key := range flagKeys {
		if err := c.loader.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("bind --%s: %w", name, err)
		}
	}

	cfg, err := c.loader.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	if used := c.loader.Used(); used != "" {
		c.Logger.Debug("loaded config", "path", used)
	}
	return nil
}

// =============================================================================
// Dependency Factories
// =============================================================================

// openCache opens the configured cache backend. noCache forces the null cache.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cc := c.cfg.Cache
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cc.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{Addr: cc.RedisAddr, Password: cc.RedisPassword, DB: cc.RedisDB})
	case config.CacheMongo:
		return cache.NewMongoCache(ctx, cache.MongoOptions{URI: cc.MongoURI, Database: cc.MongoDatabase})
	default:
		dir, err := c.cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// newProxy builds the explorer proxy for the configured provider.
func (c *CLI) newProxy(cch cache.Cache) (*proxy.Service, error) {
	pc := c.cfg.Provider
	cfg := proxy.ProviderConfig{
		BaseURL:          pc.BaseURL,
		BlockCypherToken: pc.BlockCypherToken,
	}
	if pc.RateLimit > 0 {
		cfg.Limiter = integrations.NewRateLimiter(pc.RateLimit, pc.Burst)
	}
	p, err := proxy.NewProvider(pc.Name, cfg)
	if err != nil {
		return nil, err
	}
	return proxy.New(p, proxy.Options{Cache: cch, TTL: c.cfg.Cache.TTL, Logger: c.Logger.WithPrefix("proxy")}), nil
}

// newSource returns the page source for the graph engine: a remote proxy
// when explorer.wallet_api is set, the in-process proxy otherwise. The
// returned closer releases the cache.
func (c *CLI) newSource(ctx context.Context, noCache bool) (txgraph.Source, func(), error) {
	if api := c.cfg.Explorer.WalletAPI; api != "" {
		c.Logger.Debug("using remote wallet API", "url", api)
		return walletapi.NewClient(api, c.cfg.Explorer.Timeout), func() {}, nil
	}

	cch, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}
	svc, err := c.newProxy(cch)
	if err != nil {
		cch.Close()
		return nil, nil, err
	}
	return svc, func() { cch.Close() }, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns cache.dir from the config, or the XDG cache directory
// (~/.cache/walletgraph/).
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
