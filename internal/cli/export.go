package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/walletgraph/pkg/export"
)

// Export targets.
const (
	targetJSON  = "json"
	targetYAML  = "yaml"
	targetNeo4j = "neo4j"
	targetKafka = "kafka"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		to     string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export <graph.json|graph.yaml>",
		Short: "Export a graph to a file, Neo4j or Kafka",
		Long: `Export a graph written by "walletgraph fetch".

  json, yaml  convert the file (to stdout unless -o is given)
  neo4j       MERGE addresses and SENT_TO relationships (config [neo4j])
  kafka       publish vertices and edges as JSON messages (config [kafka])`,
		Example: `  walletgraph export graph.json --to yaml -o graph.yaml
  walletgraph export graph.json --to neo4j --neo4j-uri neo4j://localhost:7687
  walletgraph export graph.json --to kafka --brokers localhost:9092`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := newUI(cmd.OutOrStdout())
			g, err := readGraphFile(args[0])
			if err != nil {
				return err
			}

			switch to {
			case targetJSON, targetYAML:
				f, _ := export.ParseFormat(to)
				if output == "" {
					return export.Encode(cmd.OutOrStdout(), g, f)
				}
				if err := writeGraphFile(output, g, f); err != nil {
					return err
				}
				out.success("Exported %s", args[0])
				out.file(output)
				return nil
			case targetNeo4j, targetKafka:
			default:
				return fmt.Errorf("unknown export target %q (want json, yaml, neo4j or kafka)", to)
			}

			target, err := c.openTarget(ctx, to)
			if err != nil {
				return err
			}
			defer target.Close(ctx)

			spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Exporting to %s...", to))
			spinner.Start()
			st, err := target.Write(ctx, g)
			spinner.Stop()
			if err != nil {
				out.failure("Export to %s failed", to)
				return err
			}
			out.success("Exported to %s", to)
			out.stats(st.Nodes, st.Edges)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", targetJSON, "target: json, yaml, neo4j or kafka")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file for json and yaml")
	cmd.Flags().String("neo4j-uri", "", "Neo4j URI (config neo4j.uri)")
	cmd.Flags().StringSlice("brokers", nil, "Kafka brokers (config kafka.brokers)")

	return cmd
}

func (c *CLI) openTarget(ctx context.Context, to string) (export.Target, error) {
	switch to {
	case targetNeo4j:
		n := c.cfg.Neo4j
		return export.NewNeo4jWriter(ctx, export.Neo4jOptions{
			URI:      n.URI,
			Username: n.Username,
			Password: n.Password,
			Database: n.Database,
			Logger:   c.Logger,
		})
	default:
		k := c.cfg.Kafka
		return export.NewKafkaPublisher(export.KafkaOptions{
			Brokers:       k.Brokers,
			VerticesTopic: k.VerticesTopic,
			EdgesTopic:    k.EdgesTopic,
			Logger:        c.Logger,
		})
	}
}
