package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/walletgraph/pkg/graph"
)

// Format is a file encoding for graphs.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml and yml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
	}
}

// FormatFromPath infers the format from the file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Encode writes g to w.
func Encode(w io.Writer, g graph.Graph, f Format) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(g); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		return graph.WriteGraph(g, w)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

// Decode reads a graph from r and validates it.
func Decode(r io.Reader, f Format) (graph.Graph, error) {
	var g graph.Graph
	switch f {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&g); err != nil {
			return graph.Graph{}, fmt.Errorf("decode yaml: %w", err)
		}
		if err := graph.Validate(g); err != nil {
			return graph.Graph{}, err
		}
		return g, nil
	case FormatJSON, "":
		return graph.ReadGraph(r)
	default:
		return graph.Graph{}, fmt.Errorf("unknown format %q", f)
	}
}
