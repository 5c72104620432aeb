// Package pipeline runs text-to-CSR conversions for the CLI.
//
// # Architecture
//
// A conversion has two stages:
//
//  1. Parse: read the text adjacency list into a dense [adjlist.List]
//  2. Encode: build the [csr.Graph] and write it atomically to the output
//
// An optional third stage re-reads the written file and compares it with
// the in-memory graph.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Convert(ctx, pipeline.Options{
//	    Input:  "graph.txt",
//	    Output: "graph.bin",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.N, result.M, result.Size)
//
// Every stage reports to the hooks registered in [observability] and logs
// through the Runner's logger with the run's ID attached.
//
// [adjlist.List]: github.com/matzehuels/csrgraph/pkg/adjlist.List
// [csr.Graph]: github.com/matzehuels/csrgraph/pkg/csr.Graph
// [observability]: github.com/matzehuels/csrgraph/pkg/observability
package pipeline

import (
	"path/filepath"
	"time"

	"github.com/matzehuels/csrgraph/pkg/adjlist"
	cerrors "github.com/matzehuels/csrgraph/pkg/errors"
)

// Options configures one conversion.
type Options struct {
	// Input is the text adjacency list to read.
	Input string

	// Output is the CSR file to create or replace.
	Output string

	// Parse is passed through to the parser.
	Parse adjlist.Options

	// Verify re-reads Output after writing and compares it with the
	// encoded graph.
	Verify bool
}

// Validate checks that the options describe a runnable conversion.
func (o Options) Validate() error {
	if o.Input == "" {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "input path is required")
	}
	if o.Output == "" {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "output path is required")
	}
	if filepath.Clean(o.Input) == filepath.Clean(o.Output) {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "input and output are the same file: %s", o.Input)
	}
	if o.Parse.MaxLineBytes < 0 {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "max line bytes cannot be negative")
	}
	return nil
}

// Result describes a finished conversion.
type Result struct {
	// ID identifies the run in logs and observability hooks.
	ID string

	Input  string
	Output string

	// N, M and Size are the header fields written to Output.
	N    uint64
	M    uint64
	Size uint64

	Stats Stats
}

// Stats holds stage timings.
type Stats struct {
	ParseTime  time.Duration
	EncodeTime time.Duration
	VerifyTime time.Duration
}

// Total returns the combined duration of all stages.
func (s Stats) Total() time.Duration {
	return s.ParseTime + s.EncodeTime + s.VerifyTime
}
