// Package render draws transaction graphs with Graphviz.
//
// # Overview
//
// [ToDOT] turns a [graph.Graph] into DOT source: one rounded box per address
// and one arrow per transaction edge, labeled with a short txid. Nodes that
// carry a position are pinned with pos="x,y!" so the neato engine reproduces
// the explorer's arrangement; the dot engine ignores positions and ranks the
// graph top to bottom.
//
//	dot := render.ToDOT(g, render.Options{Seed: "bc1q..."})
//	svg, err := render.RenderSVG(ctx, dot, render.EngineNeato)
//
// [Renderer] wraps the same steps with a render cache keyed by the graph
// content hash, format and engine.
//
// # Formats
//
// SVG is rendered in-process by [github.com/goccy/go-graphviz]. PDF and PNG
// are converted from the SVG with rsvg-convert from librsvg, see [ToPDF] and
// [ToPNG].
package render
