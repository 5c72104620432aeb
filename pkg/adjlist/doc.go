// Package adjlist reads and writes the textual adjacency-list format that
// csrgraph converts to CSR.
//
// # Format
//
// Each non-blank line holds whitespace-separated non-negative integers. The
// first integer is a source vertex id and the rest are its out-neighbors, in
// order. Duplicates and self-loops are kept as written:
//
//	0 1 2
//	2 0
//
// Vertices with no out-edges need not appear. The vertex count is derived
// from the input as one more than the largest source id, and every id below
// it that never appears as a source gets an empty neighbor list. In the
// example above there are three vertices and vertex 1 has no neighbors.
//
// Destination ids are not checked against the vertex count here; the CSR
// encoder rejects the ones that do not fit its 32-bit edge array.
//
// # Errors
//
// [Parse] and [ParseFile] return a *errors.ParseError naming the 1-based
// line and its content for any token that is not a non-negative integer,
// and for input with no data lines at all (the vertex count is undefined).
// Failures to open or read the input carry the IO_ERROR code.
package adjlist
