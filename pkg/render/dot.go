package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/csrgraph/pkg/csr"
	cerrors "github.com/matzehuels/csrgraph/pkg/errors"
)

// DefaultMaxVertices is the vertex limit used when Options.MaxVertices is 0.
const DefaultMaxVertices = 200

// Options configures DOT generation.
type Options struct {
	// MaxVertices is the largest graph ToDOT accepts.
	MaxVertices uint64

	// ShowIsolated includes vertices with no in- or out-edges.
	ShowIsolated bool

	// Offsets labels each vertex with its offsets range.
	Offsets bool
}

// ToDOT converts g to Graphviz DOT. Vertices are named by id and edges
// keep CSR order, so parallel edges appear once per occurrence.
func ToDOT(g *csr.Graph, opts Options) (string, error) {
	limit := opts.MaxVertices
	if limit == 0 {
		limit = DefaultMaxVertices
	}
	if g.N > limit {
		return "", cerrors.New(cerrors.ErrCodeInvalidInput, "graph has %d vertices; rendering is limited to %d", g.N, limit)
	}

	touched := make([]bool, g.N)
	for v := uint64(0); v < g.N; v++ {
		nbrs := g.Neighbors(v)
		if len(nbrs) > 0 {
			touched[v] = true
		}
		for _, u := range nbrs {
			if uint64(u) < g.N {
				touched[u] = true
			}
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for v := uint64(0); v < g.N; v++ {
		if !touched[v] && !opts.ShowIsolated {
			continue
		}
		label := fmt.Sprint(v)
		if opts.Offsets {
			label = fmt.Sprintf("%d\\n[%d,%d)", v, g.Offsets[v], g.Offsets[v+1])
		}
		fmt.Fprintf(&buf, "  %d [label=\"%s\"];\n", v, label)
	}

	buf.WriteString("\n")
	for v := uint64(0); v < g.N; v++ {
		for _, u := range g.Neighbors(v) {
			if uint64(u) >= g.N {
				fmt.Fprintf(&buf, "  %d -> %d [style=dashed, color=red];\n", v, u)
				continue
			}
			fmt.Fprintf(&buf, "  %d -> %d;\n", v, u)
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
