// Package stats summarizes the degree structure of a CSR graph.
package stats

import (
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/csrgraph/pkg/csr"
)

// Summary describes a graph's degree distribution.
type Summary struct {
	Vertices uint64
	Edges    uint64

	MinOut       uint64
	MaxOut       uint64
	MaxOutVertex uint64
	MeanOut      float64
	StdDevOut    float64
	MedianOut    float64

	MaxIn       uint64
	MaxInVertex uint64

	// Sinks counts vertices with no out-edges.
	Sinks uint64
	// SelfLoops counts edges from a vertex to itself.
	SelfLoops uint64
	// Dangling counts edges whose destination is not below Vertices.
	Dangling uint64
}

// Degrees computes the degree summary of g.
func Degrees(g *csr.Graph) Summary {
	s := Summary{Vertices: g.N, Edges: g.M}
	if g.N == 0 {
		return s
	}

	out := make([]float64, g.N)
	in := make([]uint64, g.N)
	s.MinOut = g.Degree(0)

	for v := uint64(0); v < g.N; v++ {
		d := g.Degree(v)
		out[v] = float64(d)
		if d < s.MinOut {
			s.MinOut = d
		}
		if d > s.MaxOut {
			s.MaxOut, s.MaxOutVertex = d, v
		}
		if d == 0 {
			s.Sinks++
		}
		for _, u := range g.Neighbors(v) {
			if uint64(u) == v {
				s.SelfLoops++
			}
			if uint64(u) >= g.N {
				s.Dangling++
				continue
			}
			in[u]++
		}
	}

	for v, d := range in {
		if d > s.MaxIn {
			s.MaxIn, s.MaxInVertex = d, uint64(v)
		}
	}

	s.MeanOut, s.StdDevOut = stat.MeanStdDev(out, nil)
	if g.N < 2 {
		s.StdDevOut = 0
	}
	slices.Sort(out)
	s.MedianOut = stat.Quantile(0.5, stat.Empirical, out, nil)
	return s
}
