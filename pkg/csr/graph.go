package csr

import (
	"math"
	"math/bits"

	"github.com/matzehuels/csrgraph/pkg/adjlist"
	cerrors "github.com/matzehuels/csrgraph/pkg/errors"
)

// HeaderSize is the byte size of the fixed header (n, m, total_size_bytes).
const HeaderSize = 3 * 8

// Header holds the three leading words of a CSR file.
type Header struct {
	N    uint64 // vertex count
	M    uint64 // edge count
	Size uint64 // total file size in bytes
}

// SizeBytes returns the file size for a graph with n vertices and m edges:
// (n+1)*8 for offsets, m*4 for edges and 24 for the header.
func SizeBytes(n, m uint64) uint64 {
	return (n+1)*8 + m*4 + HeaderSize
}

// checkedSize is SizeBytes with overflow detection, for untrusted headers.
func checkedSize(n, m uint64) (uint64, bool) {
	hi, offs := bits.Mul64(n+1, 8)
	if hi != 0 || n == math.MaxUint64 {
		return 0, false
	}
	hi, edges := bits.Mul64(m, 4)
	if hi != 0 {
		return 0, false
	}
	sum, carry := bits.Add64(offs, edges, 0)
	if carry != 0 {
		return 0, false
	}
	sum, carry = bits.Add64(sum, HeaderSize, 0)
	if carry != 0 {
		return 0, false
	}
	return sum, true
}

// Graph is a directed graph in CSR form.
type Graph struct {
	Header
	Offsets []uint64 // length N+1
	Edges   []uint32 // length M
}

// FromAdjacency builds the CSR form of adj. The result is a pure function
// of adj: offsets are prefix sums of the list lengths and edges are the
// lists concatenated in vertex order.
//
// It returns an *errors.EncodeError for the first destination id that does
// not fit in 32 bits.
func FromAdjacency(adj adjlist.List) (*Graph, error) {
	n := adj.Len()
	m := adj.EdgeCount()

	g := &Graph{
		Header:  Header{N: n, M: m, Size: SizeBytes(n, m)},
		Offsets: make([]uint64, n+1),
		Edges:   make([]uint32, 0, m),
	}
	for v, nbrs := range adj {
		for i, u := range nbrs {
			if u > math.MaxUint32 {
				return nil, cerrors.NewEdgeRangeError(uint64(v), i, u)
			}
			g.Edges = append(g.Edges, uint32(u))
		}
		g.Offsets[v+1] = g.Offsets[v] + uint64(len(nbrs))
	}
	return g, nil
}

// Neighbors returns vertex v's out-neighbors, or nil if v is out of range.
// The returned slice aliases g.Edges.
func (g *Graph) Neighbors(v uint64) []uint32 {
	if v >= g.N {
		return nil
	}
	return g.Edges[g.Offsets[v]:g.Offsets[v+1]]
}

// Degree returns vertex v's out-degree, or 0 if v is out of range.
func (g *Graph) Degree(v uint64) uint64 {
	if v >= g.N {
		return 0
	}
	return g.Offsets[v+1] - g.Offsets[v]
}

// Adjacency expands g back into an adjacency list.
func (g *Graph) Adjacency() adjlist.List {
	adj := make(adjlist.List, g.N)
	for v := range adj {
		nbrs := g.Neighbors(uint64(v))
		if len(nbrs) == 0 {
			continue
		}
		out := make([]uint64, len(nbrs))
		for i, u := range nbrs {
			out[i] = uint64(u)
		}
		adj[v] = out
	}
	return adj
}

// Validate checks the structural invariants of g: array lengths match the
// header, offsets start at 0, never decrease and end at M, and Size
// matches N and M.
func (g *Graph) Validate() error {
	size, ok := checkedSize(g.N, g.M)
	if !ok {
		return cerrors.New(cerrors.ErrCodeInvalidFormat, "size overflows for n=%d m=%d", g.N, g.M)
	}
	if g.Size != size {
		return cerrors.New(cerrors.ErrCodeInvalidFormat, "size mismatch: header declares %d, n and m require %d", g.Size, size)
	}
	if uint64(len(g.Offsets)) != g.N+1 {
		return cerrors.New(cerrors.ErrCodeInvalidFormat, "offsets has %d entries, want %d", len(g.Offsets), g.N+1)
	}
	if uint64(len(g.Edges)) != g.M {
		return cerrors.New(cerrors.ErrCodeInvalidFormat, "edges has %d entries, want %d", len(g.Edges), g.M)
	}
	if g.Offsets[0] != 0 {
		return cerrors.New(cerrors.ErrCodeInvalidFormat, "offsets[0] = %d, want 0", g.Offsets[0])
	}
	for i := 1; i < len(g.Offsets); i++ {
		if g.Offsets[i] < g.Offsets[i-1] {
			return cerrors.New(cerrors.ErrCodeInvalidFormat, "offsets decrease at vertex %d (%d < %d)", i-1, g.Offsets[i], g.Offsets[i-1])
		}
	}
	if last := g.Offsets[g.N]; last != g.M {
		return cerrors.New(cerrors.ErrCodeInvalidFormat, "offsets[%d] = %d, want m = %d", g.N, last, g.M)
	}
	return nil
}
