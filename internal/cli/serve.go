package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/walletgraph/pkg/server"
	"github.com/matzehuels/walletgraph/pkg/session"
)

// serveCommand creates the serve command: explorer proxy plus session API.
func (c *CLI) serveCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the explorer proxy and session API",
		Long: `Run the HTTP server.

The server adapts the configured block explorer into the wallet page shape at
GET /api/wallet/{address} and runs explorer sessions for browser clients under
/api/sessions.`,
		Example: `  walletgraph serve --addr :5000
  walletgraph serve --provider blockcypher --cache-backend redis`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cch, err := c.openCache(ctx, noCache)
			if err != nil {
				return err
			}
			defer cch.Close()

			svc, err := c.newProxy(cch)
			if err != nil {
				return err
			}

			ec := c.cfg.Explorer
			sessions := session.NewRegistry(session.Options{
				Source:       svc,
				PageSize:     ec.PageSize,
				DetailsLimit: ec.DetailsLimit,
				MaxNeighbors: ec.MaxNeighbors,
				IdleTTL:      c.cfg.Server.SessionTTL,
				Logger:       c.Logger.WithPrefix("session"),
			})

			srv := server.New(server.Options{Proxy: svc, Sessions: sessions, Logger: c.Logger})
			addr := c.cfg.Server.Addr
			out := newUI(cmd.OutOrStdout())
			out.info("Serving the wallet explorer")
			out.keyValue("Provider", StyleHighlight.Render(svc.Provider().Name()))
			out.keyValue("Listen", addr)
			out.keyValue("Health", StyleLink.Render(localURL(addr)+"/healthz"))
			out.newline()
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().String("addr", server.DefaultAddr, "listen address")
	cmd.Flags().String("provider", "", "block explorer: blockstream or blockcypher")
	cmd.Flags().String("base-url", "", "override the block explorer base URL")
	cmd.Flags().String("cache-backend", "", "cache backend: file, redis, mongo or none")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// localURL turns a listen address like ":5000" into a browsable URL.
func localURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
