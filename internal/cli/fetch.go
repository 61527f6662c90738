package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/walletgraph/pkg/activity"
	"github.com/matzehuels/walletgraph/pkg/explorer"
	"github.com/matzehuels/walletgraph/pkg/export"
	"github.com/matzehuels/walletgraph/pkg/graph"
	"github.com/matzehuels/walletgraph/pkg/txgraph"
)

// crawlOptions bounds a non-interactive exploration.
type crawlOptions struct {
	Depth int // expansion rounds after the initial load
	Pages int // extra load-more pages per expanded address
}

// crawl explores from address the way a user would: initial load, then
// Depth rounds of expanding every address not yet expanded, each followed by
// up to Pages load-more calls while pages remain.
func crawl(ctx context.Context, ctrl *explorer.Controller, address string, opts crawlOptions) (explorer.State, error) {
	if err := ctrl.Submit(ctx, address); err != nil {
		return explorer.State{}, err
	}

	for range opts.Depth {
		s := ctrl.Store().Snapshot()
		var frontier []string
		for _, n := range s.Graph.Nodes {
			if !s.IsExpanded(n.ID) {
				frontier = append(frontier, n.ID)
			}
		}
		if len(frontier) == 0 {
			break
		}
		for _, id := range frontier {
			if err := ctx.Err(); err != nil {
				return ctrl.Store().Snapshot(), err
			}
			ctrl.ExpandIfNeeded(ctx, id)
			loadMore(ctx, ctrl, id, opts.Pages)
		}
	}
	return ctrl.Store().Snapshot(), nil
}

func loadMore(ctx context.Context, ctrl *explorer.Controller, id string, pages int) {
	for range pages {
		if !ctrl.HasMore()[id] {
			return
		}
		if r := ctrl.LoadMore(ctx, id); !r.OK() {
			return
		}
	}
}

// fetchCommand creates the fetch command.
func (c *CLI) fetchCommand() *cobra.Command {
	var (
		output  string
		format  string
		depth   int
		pages   int
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "fetch <address>",
		Short: "Build the transaction graph around an address",
		Long: `Fetch the first page of transactions for an address and build its graph.

With --depth the neighbors are expanded the way the interactive explorer
does, and --pages loads further pages for every expanded address.`,
		Example: `  walletgraph fetch bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq
  walletgraph fetch 1BoatSLRHtKNngkdXEeobR76b53LETtpyT --depth 1 -o graph.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g, err := c.fetchGraph(ctx, args[0], crawlOptions{Depth: depth, Pages: pages}, noCache)
			if err != nil {
				return err
			}

			f := export.FormatFromPath(output)
			if format != "" {
				if f, err = export.ParseFormat(format); err != nil {
					return err
				}
			}

			if output == "" {
				return export.Encode(cmd.OutOrStdout(), g, f)
			}
			if err := writeGraphFile(output, g, f); err != nil {
				return err
			}
			out := newUI(cmd.OutOrStdout())
			out.success("Fetched graph for %s", StyleHighlight.Render(args[0]))
			out.stats(len(g.Nodes), len(g.Edges))
			out.file(output)
			out.newline()
			out.nextStep("Render it", fmt.Sprintf("walletgraph render %s", output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json or yaml (from the file extension if empty)")
	cmd.Flags().IntVar(&depth, "depth", 0, "expansion rounds after the initial load")
	cmd.Flags().IntVar(&pages, "pages", 0, "extra pages per expanded address")
	cmd.Flags().Int("page-size", 0, "transactions per page (config explorer.page_size)")
	cmd.Flags().Int("max-neighbors", 0, "per-transaction address cap")
	cmd.Flags().String("wallet-api", "", "base URL of a running walletgraph proxy")
	cmd.Flags().String("provider", "", "block explorer: blockstream or blockcypher")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// fetchGraph crawls from address and returns the laid-out graph.
func (c *CLI) fetchGraph(ctx context.Context, address string, opts crawlOptions, noCache bool) (graph.Graph, error) {
	src, closeSrc, err := c.newSource(ctx, noCache)
	if err != nil {
		return graph.Graph{}, err
	}
	defer closeSrc()

	ec := c.cfg.Explorer
	sink := activity.New().Mirror(c.Logger)
	fetcher := txgraph.NewFetcher(src, sink, c.Logger).WithMaxNeighbors(ec.MaxNeighbors)
	ctrl := explorer.New(fetcher, explorer.Options{
		Sink:         sink,
		Logger:       c.Logger,
		PageSize:     ec.PageSize,
		DetailsLimit: ec.DetailsLimit,
	})

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Exploring %s...", address))
	spinner.Start()
	s, err := crawl(ctx, ctrl, address, opts)
	spinner.Stop()
	if err != nil {
		return graph.Graph{}, err
	}
	prog.done(fmt.Sprintf("Explored %d addresses", len(s.Graph.Nodes)))

	return explorer.ViewOf(s).Graph, nil
}

func writeGraphFile(path string, g graph.Graph, f export.Format) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.Encode(out, g, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// readGraphFile reads a JSON or YAML graph, picking the codec by extension.
func readGraphFile(path string) (graph.Graph, error) {
	in, err := os.Open(path)
	if err != nil {
		return graph.Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer in.Close()
	return export.Decode(in, export.FormatFromPath(path))
}
