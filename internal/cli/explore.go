package cli

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/walletgraph/pkg/activity"
	"github.com/matzehuels/walletgraph/pkg/explorer"
	"github.com/matzehuels/walletgraph/pkg/txgraph"
)

// exploreCommand creates the interactive terminal explorer.
func (c *CLI) exploreCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "explore [address]",
		Short: "Explore a transaction graph interactively",
		Long: `Open the terminal explorer.

Addresses are listed with their edge counts. Expanding an address fetches its
next page of transactions and merges the new addresses into the graph; load
more continues an expanded address. The log panel shows every fetch.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, closeSrc, err := c.newSource(ctx, noCache)
			if err != nil {
				return err
			}
			defer closeSrc()

			// Operator logs would corrupt the alternate screen; the activity
			// log panel shows what matters.
			logger := newLogger(io.Discard, c.Logger.GetLevel())

			ec := c.cfg.Explorer
			entries := activity.New()
			fetcher := txgraph.NewFetcher(src, entries, logger).WithMaxNeighbors(ec.MaxNeighbors)
			store := explorer.NewMemoryStore()
			ctrl := explorer.New(fetcher, explorer.Options{
				Store:        store,
				Sink:         entries,
				Logger:       logger,
				PageSize:     ec.PageSize,
				DetailsLimit: ec.DetailsLimit,
			})

			seed := ""
			if len(args) == 1 {
				seed = args[0]
			}

			p := tea.NewProgram(NewExplorerModel(ctx, ctrl, entries, seed), tea.WithAltScreen(), tea.WithContext(ctx))

			// Store changes made by background commands trigger a redraw.
			store.OnChange(func(explorer.State) { go p.Send(redrawMsg{}) })

			if _, err := p.Run(); err != nil {
				return fmt.Errorf("explorer: %w", err)
			}

			v := ctrl.View()
			if v.Seed != "" {
				out := newUI(cmd.OutOrStdout())
				out.success("Explored %s", StyleHighlight.Render(v.Seed))
				out.stats(len(v.Graph.Nodes), len(v.Graph.Edges))
			}
			return nil
		},
	}

	cmd.Flags().Int("page-size", 0, "transactions per page (config explorer.page_size)")
	cmd.Flags().Int("max-neighbors", 0, "per-transaction address cap")
	cmd.Flags().String("wallet-api", "", "base URL of a running walletgraph proxy")
	cmd.Flags().String("provider", "", "block explorer: blockstream or blockcypher")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// redrawMsg asks the program to re-render after a state change.
type redrawMsg struct{}
