package csr

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/csrgraph/pkg/adjlist"
	cerrors "github.com/matzehuels/csrgraph/pkg/errors"
)

func mustParse(t *testing.T, s string) adjlist.List {
	t.Helper()
	l, err := adjlist.Parse(strings.NewReader(s), adjlist.Options{})
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", s, err)
	}
	return l
}

func TestFromAdjacency(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		n, m    uint64
		offsets []uint64
		edges   []uint32
		size    uint64
	}{
		{
			name:    "three cycle",
			input:   "0 1\n1 2\n2 0 1\n",
			n:       3,
			m:       4,
			offsets: []uint64{0, 1, 2, 4},
			edges:   []uint32{1, 2, 0, 1},
			size:    4*8 + 4*4 + 24,
		},
		{
			name:    "empty source",
			input:   "0 1 2\n2 0\n",
			n:       3,
			m:       3,
			offsets: []uint64{0, 2, 2, 3},
			edges:   []uint32{1, 2, 0},
			size:    4*8 + 3*4 + 24,
		},
		{
			name:    "single vertex no edges",
			input:   "0\n",
			n:       1,
			m:       0,
			offsets: []uint64{0, 0},
			edges:   []uint32{},
			size:    2*8 + 24,
		},
		{
			name:    "max uint32 destination",
			input:   "0 4294967295\n",
			n:       1,
			m:       1,
			offsets: []uint64{0, 1},
			edges:   []uint32{math.MaxUint32},
			size:    2*8 + 4 + 24,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := FromAdjacency(mustParse(t, tt.input))
			if err != nil {
				t.Fatalf("FromAdjacency() error: %v", err)
			}
			if g.N != tt.n || g.M != tt.m || g.Size != tt.size {
				t.Errorf("header = %+v, want n=%d m=%d size=%d", g.Header, tt.n, tt.m, tt.size)
			}
			if !slices.Equal(g.Offsets, tt.offsets) {
				t.Errorf("offsets = %v, want %v", g.Offsets, tt.offsets)
			}
			if !slices.Equal(g.Edges, tt.edges) {
				t.Errorf("edges = %v, want %v", g.Edges, tt.edges)
			}
			if err := g.Validate(); err != nil {
				t.Errorf("Validate() error: %v", err)
			}
		})
	}
}

func TestFromAdjacencyEdgeOverflow(t *testing.T) {
	adj := adjlist.List{{1}, {0, 1 << 32}}
	_, err := FromAdjacency(adj)
	if !cerrors.Is(err, cerrors.ErrCodeEncode) {
		t.Fatalf("error code = %q, want ENCODE_ERROR", cerrors.GetCode(err))
	}
	var ee *cerrors.EncodeError
	if !errors.As(err, &ee) {
		t.Fatalf("want *EncodeError, got %T", err)
	}
	if ee.Vertex != 1 || ee.Index != 1 || ee.Value != 1<<32 {
		t.Errorf("EncodeError = %+v", ee)
	}
}

func TestSizeBytes(t *testing.T) {
	for _, c := range []struct{ n, m uint64 }{{0, 0}, {1, 0}, {3, 4}, {1000, 123456}} {
		want := (c.n+1)*8 + c.m*4 + 24
		if got := SizeBytes(c.n, c.m); got != want {
			t.Errorf("SizeBytes(%d, %d) = %d, want %d", c.n, c.m, got, want)
		}
		if got, ok := checkedSize(c.n, c.m); !ok || got != want {
			t.Errorf("checkedSize(%d, %d) = %d, %v", c.n, c.m, got, ok)
		}
	}
	if _, ok := checkedSize(math.MaxUint64, 0); ok {
		t.Error("checkedSize should overflow for n = MaxUint64")
	}
	if _, ok := checkedSize(0, math.MaxUint64/2); ok {
		t.Error("checkedSize should overflow for huge m")
	}
}

func TestWriteLayout(t *testing.T) {
	g, err := FromAdjacency(mustParse(t, "0 1\n1 2\n2 0 1\n"))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	n, err := Write(&buf, g)
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if uint64(n) != g.Size || uint64(buf.Len()) != g.Size {
		t.Fatalf("wrote %d bytes (buffer %d), want %d", n, buf.Len(), g.Size)
	}

	b := buf.Bytes()
	u64 := func(off int) uint64 { return binary.LittleEndian.Uint64(b[off:]) }
	u32 := func(off int) uint32 { return binary.LittleEndian.Uint32(b[off:]) }

	if u64(0) != 3 || u64(8) != 4 || u64(16) != 72 {
		t.Errorf("header = %d %d %d, want 3 4 72", u64(0), u64(8), u64(16))
	}
	for i, want := range []uint64{0, 1, 2, 4} {
		if got := u64(24 + 8*i); got != want {
			t.Errorf("offsets[%d] = %d, want %d", i, got, want)
		}
	}
	edgeBase := 24 + 8*4
	for i, want := range []uint32{1, 2, 0, 1} {
		if got := u32(edgeBase + 4*i); got != want {
			t.Errorf("edges[%d] = %d, want %d", i, got, want)
		}
	}
}

func TestWriteRejectsInconsistentGraph(t *testing.T) {
	g := &Graph{
		Header:  Header{N: 2, M: 1, Size: SizeBytes(2, 1)},
		Offsets: []uint64{0, 2, 1},
		Edges:   []uint32{0},
	}
	var buf bytes.Buffer
	if _, err := Write(&buf, g); err == nil {
		t.Fatal("Write() should reject decreasing offsets")
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be written, got %d bytes", buf.Len())
	}
}

type failingWriter struct{ after int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if len(p) > w.after {
		return w.after, errors.New("disk full")
	}
	w.after -= len(p)
	return len(p), nil
}

func TestWritePropagatesWriterError(t *testing.T) {
	g, err := FromAdjacency(mustParse(t, "0 1\n1 0\n"))
	if err != nil {
		t.Fatal(err)
	}
	_, err = Write(&failingWriter{after: 10}, g)
	if !cerrors.Is(err, cerrors.ErrCodeEncode) {
		t.Fatalf("error = %v, want ENCODE_ERROR", err)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"0 1\n1 2\n2 0 1\n",
		"0 1 2\n2 0\n",
		"5 5 5 0\n",
		"0 3 3 1\n3 0\n1 2 1 0\n",
	}

	for _, in := range inputs {
		adj := mustParse(t, in)
		g, err := FromAdjacency(adj)
		if err != nil {
			t.Fatal(err)
		}

		var buf bytes.Buffer
		if _, err := Write(&buf, g); err != nil {
			t.Fatal(err)
		}
		got, err := Read(&buf)
		if err != nil {
			t.Fatalf("Read() error: %v", err)
		}
		if got.Header != g.Header {
			t.Errorf("header = %+v, want %+v", got.Header, g.Header)
		}

		back := got.Adjacency()
		if back.Len() != adj.Len() {
			t.Fatalf("vertex count = %d, want %d", back.Len(), adj.Len())
		}
		for v := range adj {
			if !slices.Equal(back[v], adj[v]) {
				t.Errorf("%q: vertex %d neighbors = %v, want %v", in, v, back[v], adj[v])
			}
		}
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.bin")

	g, err := FromAdjacency(mustParse(t, "0 1 2\n2 0\n"))
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(path, g); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if uint64(info.Size()) != g.Size {
		t.Errorf("file size = %d, want %d", info.Size(), g.Size)
	}
	if info.Mode().Perm() != 0o644 {
		t.Errorf("mode = %v, want 0644", info.Mode().Perm())
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !slices.Equal(got.Offsets, []uint64{0, 2, 2, 3}) || !slices.Equal(got.Edges, []uint32{1, 2, 0}) {
		t.Errorf("ReadFile() = %v %v", got.Offsets, got.Edges)
	}

	h, err := ReadFileHeader(path)
	if err != nil || h != g.Header {
		t.Errorf("ReadFileHeader() = %+v, %v", h, err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestWriteFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.bin")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := FromAdjacency(adjlist.List{{0}})
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(path, g); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	if _, err := ReadFile(path); err != nil {
		t.Errorf("ReadFile() after overwrite: %v", err)
	}
}

func TestWriteFileMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "graph.bin")
	g, err := FromAdjacency(adjlist.List{{0}})
	if err != nil {
		t.Fatal(err)
	}

	err = WriteFile(path, g)
	if !cerrors.Is(err, cerrors.ErrCodeEncode) {
		t.Fatalf("error = %v, want ENCODE_ERROR", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("error should unwrap to os.ErrNotExist")
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("no output file should exist")
	}
}

func TestWriteFileFailureLeavesDestination(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.bin")
	if err := os.WriteFile(path, []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}

	bad := &Graph{Header: Header{N: 1, M: 0, Size: 1}, Offsets: []uint64{0, 0}}
	if err := WriteFile(path, bad); err == nil {
		t.Fatal("WriteFile() should fail for inconsistent graph")
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "previous" {
		t.Errorf("destination changed: %q, %v", data, err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestReadErrors(t *testing.T) {
	g, err := FromAdjacency(mustParse(t, "0 1\n1 2\n2 0 1\n"))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if _, err := Write(&buf, g); err != nil {
		t.Fatal(err)
	}
	valid := buf.Bytes()

	corrupt := func(f func(b []byte) []byte) []byte {
		return f(slices.Clone(valid))
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short header", valid[:10]},
		{"size mismatch", corrupt(func(b []byte) []byte {
			binary.LittleEndian.PutUint64(b[16:], 99)
			return b
		})},
		{"truncated edges", valid[:len(valid)-2]},
		{"offsets do not start at zero", corrupt(func(b []byte) []byte {
			binary.LittleEndian.PutUint64(b[24:], 1)
			return b
		})},
		{"offsets decrease", corrupt(func(b []byte) []byte {
			binary.LittleEndian.PutUint64(b[24+8:], 3)
			return b
		})},
		{"huge n", corrupt(func(b []byte) []byte {
			binary.LittleEndian.PutUint64(b[0:], 1<<40)
			binary.LittleEndian.PutUint64(b[16:], SizeBytes(1<<40, 4))
			return b
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(bytes.NewReader(tt.data))
			if !cerrors.Is(err, cerrors.ErrCodeInvalidFormat) {
				t.Errorf("Read() error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestReadFileLengthMismatch(t *testing.T) {
	g, err := FromAdjacency(adjlist.List{{0}})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if _, err := Write(&buf, g); err != nil {
		t.Fatal(err)
	}
	buf.Write([]byte{0, 0, 0, 0})

	path := filepath.Join(t.TempDir(), "padded.bin")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(path); !cerrors.Is(err, cerrors.ErrCodeInvalidFormat) {
		t.Errorf("ReadFile() error = %v, want INVALID_FORMAT", err)
	}
	if _, err := ReadFileHeader(path); !cerrors.Is(err, cerrors.ErrCodeInvalidFormat) {
		t.Errorf("ReadFileHeader() error = %v, want INVALID_FORMAT", err)
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.bin")); !cerrors.Is(err, cerrors.ErrCodeIO) {
		t.Errorf("ReadFile(missing) error = %v, want IO_ERROR", err)
	}
}

func TestNeighborsAndDegree(t *testing.T) {
	g, err := FromAdjacency(mustParse(t, "0 1 2\n2 0\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got := g.Neighbors(0); !slices.Equal(got, []uint32{1, 2}) {
		t.Errorf("Neighbors(0) = %v", got)
	}
	if got := g.Neighbors(1); len(got) != 0 {
		t.Errorf("Neighbors(1) = %v, want empty", got)
	}
	if got := g.Neighbors(3); got != nil {
		t.Errorf("Neighbors(3) = %v, want nil", got)
	}
	if g.Degree(0) != 2 || g.Degree(1) != 0 || g.Degree(2) != 1 || g.Degree(9) != 0 {
		t.Errorf("Degree() mismatch")
	}
}

func TestOffsetsInvariants(t *testing.T) {
	adj := make(adjlist.List, 50)
	for v := range adj {
		for k := 0; k < v%7; k++ {
			adj[v] = append(adj[v], uint64((v*31+k)%50))
		}
	}
	g, err := FromAdjacency(adj)
	if err != nil {
		t.Fatal(err)
	}
	if g.Offsets[0] != 0 {
		t.Errorf("offsets[0] = %d", g.Offsets[0])
	}
	if g.Offsets[g.N] != g.M {
		t.Errorf("offsets[n] = %d, want m = %d", g.Offsets[g.N], g.M)
	}
	if !slices.IsSorted(g.Offsets) {
		t.Error("offsets must be non-decreasing")
	}
	if g.Size != (g.N+1)*8+g.M*4+24 {
		t.Errorf("size = %d", g.Size)
	}
}
