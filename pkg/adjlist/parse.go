package adjlist

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	cerrors "github.com/matzehuels/csrgraph/pkg/errors"
)

const (
	// DefaultMaxLineBytes is the longest line Parse accepts when
	// Options.MaxLineBytes is zero. A line holds one vertex's full neighbor
	// list, so hubs in large social graphs need a generous limit.
	DefaultMaxLineBytes = 64 << 20

	// HardMaxVertices caps the derived vertex count regardless of options.
	HardMaxVertices = 1 << 40

	// DefaultMaxVertices is the vertex limit when Options.MaxVertices is
	// zero. Edge ids are uint32, so no larger vertex can be referenced.
	DefaultMaxVertices = 1 << 32

	// Without an explicit MaxVertices, n may exceed the number of data lines
	// by at most DefaultSparseRatio, or reach DefaultSparseFloor, whichever
	// is larger. Each vertex costs a list header in memory, so a lone huge
	// source id would otherwise allocate far beyond the input's size.
	DefaultSparseRatio = 64
	DefaultSparseFloor = 1 << 24
)

// Options configures parsing.
type Options struct {
	// MaxVertices rejects inputs whose derived vertex count would exceed it.
	// Zero means DefaultMaxVertices together with the sparse-input check
	// (see DefaultSparseRatio); values above HardMaxVertices are clamped.
	MaxVertices uint64

	// MaxLineBytes bounds the length of a single line. Zero uses
	// DefaultMaxLineBytes.
	MaxLineBytes int

	// StrictSources rejects a source id that appears on more than one line.
	// By default the last such line wins.
	StrictSources bool
}

func (o Options) vertexLimit() uint64 {
	switch {
	case o.MaxVertices == 0:
		return DefaultMaxVertices
	case o.MaxVertices > HardMaxVertices:
		return HardMaxVertices
	}
	return o.MaxVertices
}

// sparseLimit bounds n relative to the number of data lines when no
// explicit vertex limit was given. Zero means unbounded.
func (o Options) sparseLimit(records int) uint64 {
	if o.MaxVertices != 0 {
		return 0
	}
	return max(uint64(records)*DefaultSparseRatio, DefaultSparseFloor)
}

// record is one parsed data line.
type record struct {
	src  uint64
	nbrs []uint64
}

// ParseFile parses the adjacency list stored at path.
// Parse errors carry path in their diagnostic.
func ParseFile(path string, opts Options) (List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()

	l, err := Parse(f, opts)
	if err != nil {
		var pe *cerrors.ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return l, nil
}

// Parse reads an adjacency list from r.
//
// Parsing happens in two passes. The first collects every data line and
// tracks the largest source id; the second allocates the dense list of
// max+1 entries and places each line's neighbors at its source index, so
// ids that never appear as a source keep an empty list.
func Parse(r io.Reader, opts Options) (List, error) {
	maxLine := opts.MaxLineBytes
	if maxLine <= 0 {
		maxLine = DefaultMaxLineBytes
	}
	limit := opts.vertexLimit()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, min(64*1024, maxLine)), maxLine)

	var (
		records []record
		maxSrc  uint64
		maxAt   int    // line of the largest source
		maxText string // content of that line
		seen    map[uint64]int
		lineNo  int
	)
	if opts.StrictSources {
		seen = make(map[uint64]int)
	}

	for sc.Scan() {
		lineNo++
		text := sc.Text()
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		ids, err := parseIDs(fields, lineNo, text)
		if err != nil {
			return nil, err
		}

		src := ids[0]
		if src >= limit {
			return nil, cerrors.NewParseError(lineNo, text,
				"source vertex %d exceeds the vertex limit of %d", src, limit)
		}
		if seen != nil {
			if prev, ok := seen[src]; ok {
				return nil, cerrors.NewParseError(lineNo, text,
					"source vertex %d already listed on line %d", src, prev)
			}
			seen[src] = lineNo
		}

		if len(records) == 0 || src > maxSrc {
			maxSrc, maxAt, maxText = src, lineNo, text
		}
		records = append(records, record{src: src, nbrs: ids[1:]})
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, cerrors.NewParseError(lineNo+1, "", "line longer than %d bytes", maxLine)
		}
		return nil, cerrors.Wrap(cerrors.ErrCodeIO, err, "read adjacency list")
	}

	if len(records) == 0 {
		return nil, cerrors.NewParseError(0, "", "no adjacency lines in input; vertex count is undefined")
	}

	if sparse := opts.sparseLimit(len(records)); sparse != 0 && maxSrc >= sparse {
		return nil, cerrors.NewParseError(maxAt, maxText,
			"source vertex %d implies %d vertices from only %d lines; set a vertex limit to allow such sparse input",
			maxSrc, maxSrc+1, len(records))
	}

	adj := make(List, maxSrc+1)
	for _, rec := range records {
		adj[rec.src] = rec.nbrs
	}
	return adj, nil
}

// parseIDs converts every field of a line to a vertex id.
func parseIDs(fields []string, lineNo int, text string) ([]uint64, error) {
	ids := make([]uint64, len(fields))
	for i, tok := range fields {
		v, err := strconv.ParseUint(tok, 10, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return nil, cerrors.NewParseError(lineNo, text, "vertex id %s out of range", tok)
			}
			return nil, cerrors.NewParseError(lineNo, text, "invalid vertex id %q", tok)
		}
		ids[i] = v
	}
	return ids, nil
}
