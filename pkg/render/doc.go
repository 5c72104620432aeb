// Package render draws small CSR graphs as Graphviz node-link diagrams.
//
// # Overview
//
// The package is meant for eyeballing toy inputs and test fixtures, not the
// benchmark datasets:
//
//   - [ToDOT] converts a [csr.Graph] into DOT source
//   - [RenderSVG] lays out DOT and renders it to SVG
//
// [ToDOT] refuses graphs with more than Options.MaxVertices vertices
// (default [DefaultMaxVertices]).
//
// # Edges
//
// Edges keep CSR order, so parallel edges appear once per occurrence and a
// self-loop is drawn as a loop. An edge whose destination is not a vertex
// of the graph (possible in a hand-made file, since the text format does not
// require destinations to appear as sources) is drawn dashed in red.
//
// # Usage
//
//	dot, err := render.ToDOT(g, render.Options{Offsets: true})
//	if err != nil {
//	    return err
//	}
//	svg, err := render.RenderSVG(ctx, dot)
//
// SVG rendering uses [github.com/goccy/go-graphviz], which embeds Graphviz
// as WebAssembly, so no Graphviz installation is needed.
//
// [csr.Graph]: github.com/matzehuels/csrgraph/pkg/csr.Graph
package render
