package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/walletgraph/pkg/graph"
	"github.com/matzehuels/walletgraph/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file path (or base path for multiple formats)
	formats    []string // output formats: "svg", "pdf", "png", "dot"
	engine     string   // graphviz engine: "dot" or "neato"
	scale      float64  // PNG scale factor
	seed       string   // address to highlight
	edgeLabels bool     // show short txids on edges
	fullLabels bool     // show complete addresses
	noCache    bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{engine: render.EngineNeato, scale: 2}

	cmd := &cobra.Command{
		Use:   "render <graph.json|graph.yaml>",
		Short: "Render a graph to SVG, PDF, PNG or DOT",
		Long: `Render a graph written by "walletgraph fetch".

The neato engine keeps the positions computed by the explorer layout; the dot
engine ranks the graph top to bottom on its own. PDF and PNG need rsvg-convert.`,
		Example: `  walletgraph render graph.json
  walletgraph render graph.yaml -f svg,png --engine dot -o out/wallet`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			g, err := readGraphFile(args[0])
			if err != nil {
				return err
			}
			if opts.output == "" {
				opts.output = strings.TrimSuffix(args[0], filepath.Ext(args[0]))
			}
			return c.runRender(cmd, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path (extension added per format)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "comma-separated formats: svg, pdf, png, dot")
	cmd.Flags().StringVar(&opts.engine, "engine", opts.engine, "graphviz engine: dot or neato")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().StringVar(&opts.seed, "seed", "", "address to highlight")
	cmd.Flags().BoolVar(&opts.edgeLabels, "edge-labels", false, "label edges with short txids")
	cmd.Flags().BoolVar(&opts.fullLabels, "full-labels", false, "show complete addresses")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, g graph.Graph, opts renderOpts) error {
	ctx := cmd.Context()
	cch, err := c.openCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer cch.Close()

	r := render.NewRenderer(cch, c.Logger)
	prog := newProgress(c.Logger)

	var written []string
	for _, format := range opts.formats {
		data, err := r.Render(ctx, render.Request{
			Graph:  g,
			Format: format,
			Engine: opts.engine,
			Scale:  opts.scale,
			Options: render.Options{
				Seed:       opts.seed,
				EdgeLabels: opts.edgeLabels,
				FullLabels: opts.fullLabels,
			},
		})
		if err != nil {
			return fmt.Errorf("render %s: %w", format, err)
		}

		path := opts.output + "." + format
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	prog.done(fmt.Sprintf("Rendered %d file(s)", len(written)))

	out := newUI(cmd.OutOrStdout())
	out.success("Rendered %d addresses", len(g.Nodes))
	out.stats(len(g.Nodes), len(g.Edges))
	for _, p := range written {
		out.file(p)
	}
	return nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
