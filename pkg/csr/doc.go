// Package csr encodes and decodes graphs in the binary Compressed Sparse Row
// layout loaded by the BFS engines.
//
// # File Layout
//
// All fields are little-endian and written in this order:
//
//	offset        size       field
//	0             8          n                 vertex count (uint64)
//	8             8          m                 edge count (uint64)
//	16            8          total_size_bytes  (n+1)*8 + m*4 + 24 (uint64)
//	24            8*(n+1)    offsets           uint64 per vertex, plus one
//	24+8*(n+1)    4*m        edges             uint32 neighbor ids
//
// Vertex i's neighbors are edges[offsets[i]:offsets[i+1]]. offsets[0] is 0,
// offsets[n] is m and offsets never decrease. total_size_bytes is the size
// of the whole file, header included; loaders use it to preallocate and to
// reject truncated files.
//
// # Encoding
//
// [FromAdjacency] builds a [Graph] from an [adjlist.List]. Destination ids
// above math.MaxUint32 cannot be stored and are reported as an
// *errors.EncodeError naming the vertex and the value. [Write] streams a
// Graph to any io.Writer; [WriteFile] writes to a temporary file next to the
// destination and renames it into place, so a failed conversion never
// leaves a file that looks like a complete graph.
//
// # Decoding
//
// [ReadFile], [Read] and [ReadHeader] load files back, checking the declared
// size against n and m and validating the offsets array.
//
// [adjlist.List]: github.com/matzehuels/csrgraph/pkg/adjlist.List
package csr
