package pipeline

import (
	"context"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/csrgraph/pkg/adjlist"
	"github.com/matzehuels/csrgraph/pkg/csr"
	cerrors "github.com/matzehuels/csrgraph/pkg/errors"
	"github.com/matzehuels/csrgraph/pkg/observability"
)

// Runner executes conversions and loads CSR files.
//
// The Runner is stateless except for its logger, so one Runner can serve
// any number of sequential conversions.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Convert parses opts.Input and writes its CSR encoding to opts.Output.
//
// The context is checked between stages. A cancelled conversion, like a
// failed one, leaves opts.Output untouched, except that an output which
// fails verification is removed.
func (r *Runner) Convert(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	res := &Result{
		ID:     uuid.NewString(),
		Input:  opts.Input,
		Output: opts.Output,
	}
	logger := r.Logger.With("run", res.ID[:8])
	hooks := observability.Convert()

	// Stage 1: Parse
	hooks.OnParseStart(ctx, res.ID, opts.Input)
	start := time.Now()
	adj, err := adjlist.ParseFile(opts.Input, opts.Parse)
	res.Stats.ParseTime = time.Since(start)
	if err != nil {
		hooks.OnParseComplete(ctx, res.ID, opts.Input, 0, 0, res.Stats.ParseTime, err)
		return nil, fmt.Errorf("parse: %w", err)
	}
	res.N, res.M = adj.Len(), adj.EdgeCount()
	hooks.OnParseComplete(ctx, res.ID, opts.Input, res.N, res.M, res.Stats.ParseTime, nil)

	logger.Debug("parsed adjacency list",
		"input", opts.Input,
		"n", res.N,
		"m", res.M,
		"duration", res.Stats.ParseTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Encode and write
	hooks.OnEncodeStart(ctx, res.ID, opts.Output, res.N, res.M)
	start = time.Now()
	g, err := r.encode(ctx, adj, opts.Output)
	res.Stats.EncodeTime = time.Since(start)
	if err != nil {
		hooks.OnEncodeComplete(ctx, res.ID, opts.Output, 0, res.Stats.EncodeTime, err)
		return nil, err
	}
	res.Size = g.Size
	hooks.OnEncodeComplete(ctx, res.ID, opts.Output, res.Size, res.Stats.EncodeTime, nil)

	logger.Debug("wrote CSR graph",
		"output", opts.Output,
		"size", res.Size,
		"duration", res.Stats.EncodeTime)

	// Stage 3: Verify (optional)
	if opts.Verify {
		start = time.Now()
		if err := r.verify(ctx, opts.Output, g); err != nil {
			if rmErr := os.Remove(opts.Output); rmErr != nil && !os.IsNotExist(rmErr) {
				logger.Warn("could not remove unverified output", "output", opts.Output, "err", rmErr)
			}
			return nil, fmt.Errorf("verify: %w", err)
		}
		res.Stats.VerifyTime = time.Since(start)
		logger.Debug("verified output", "duration", res.Stats.VerifyTime)
	}

	return res, nil
}

func (r *Runner) encode(ctx context.Context, adj adjlist.List, output string) (*csr.Graph, error) {
	g, err := csr.FromAdjacency(adj)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := csr.WriteFile(output, g); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	return g, nil
}

// verify reloads path and checks that it holds exactly g.
func (r *Runner) verify(ctx context.Context, path string, g *csr.Graph) error {
	got, err := r.Load(ctx, path)
	if err != nil {
		return err
	}
	switch {
	case got.Header != g.Header:
		return cerrors.New(cerrors.ErrCodeInternal, "header mismatch: wrote %+v, read %+v", g.Header, got.Header)
	case !slices.Equal(got.Offsets, g.Offsets):
		return cerrors.New(cerrors.ErrCodeInternal, "offsets differ from the encoded graph")
	case !slices.Equal(got.Edges, g.Edges):
		return cerrors.New(cerrors.ErrCodeInternal, "edges differ from the encoded graph")
	}
	return nil
}

// Load reads and validates the CSR file at path.
func (r *Runner) Load(ctx context.Context, path string) (*csr.Graph, error) {
	start := time.Now()
	g, err := csr.ReadFile(path)
	elapsed := time.Since(start)

	var size uint64
	if g != nil {
		size = g.Size
	}
	observability.Decode().OnDecode(ctx, path, size, elapsed, err)
	if err != nil {
		return nil, err
	}

	r.Logger.Debug("loaded CSR graph", "path", path, "n", g.N, "m", g.M, "duration", elapsed)
	return g, nil
}

// LoadHeader reads only the header of the CSR file at path.
func (r *Runner) LoadHeader(ctx context.Context, path string) (csr.Header, error) {
	start := time.Now()
	h, err := csr.ReadFileHeader(path)
	observability.Decode().OnDecode(ctx, path, h.Size, time.Since(start), err)
	return h, err
}
