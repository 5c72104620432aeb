// Package pkg provides the libraries behind the csrgraph converter.
//
// # Overview
//
// csrgraph turns a directed graph stored as adjacency-list text into the
// Compressed Sparse Row (CSR) binary layout that graph engines load with a
// single read. The pkg directory is organized by stage:
//
//  1. [adjlist] - Text format: parse and write adjacency lists
//  2. [csr] - Binary format: build, encode and decode CSR graphs
//  3. [pipeline] - Orchestration (parse → encode → verify)
//  4. [dataset], [httputil] - Benchmark dataset catalog and downloads
//  5. [stats], [render] - Inspection: degree summaries and diagrams
//
// # Architecture
//
//	adjacency-list text
//	         ↓
//	    [adjlist] package (dense vertex-indexed lists)
//	         ↓
//	    [csr] package (offsets + edges, atomic write)
//	         ↓
//	    binary CSR file
//
// # Quick Start
//
//	adj, err := adjlist.ParseFile("graph.txt", adjlist.Options{})
//	if err != nil {
//	    return err
//	}
//	g, err := csr.FromAdjacency(adj)
//	if err != nil {
//	    return err
//	}
//	if err := csr.WriteFile("graph.bin", g); err != nil {
//	    return err
//	}
//
// [pipeline.Runner] wraps these steps with logging, run IDs, cancellation
// and observability hooks, and is what the CLI uses.
//
// # Errors
//
// All packages report failures through [errors], whose codes
// (PARSE_ERROR, ENCODE_ERROR, INVALID_FORMAT, ...) survive wrapping.
//
// [adjlist]: github.com/matzehuels/csrgraph/pkg/adjlist
// [csr]: github.com/matzehuels/csrgraph/pkg/csr
// [pipeline]: github.com/matzehuels/csrgraph/pkg/pipeline
// [pipeline.Runner]: github.com/matzehuels/csrgraph/pkg/pipeline.Runner
// [dataset]: github.com/matzehuels/csrgraph/pkg/dataset
// [httputil]: github.com/matzehuels/csrgraph/pkg/httputil
// [stats]: github.com/matzehuels/csrgraph/pkg/stats
// [render]: github.com/matzehuels/csrgraph/pkg/render
// [errors]: github.com/matzehuels/csrgraph/pkg/errors
package pkg
