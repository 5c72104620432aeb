package csr

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"

	cerrors "github.com/matzehuels/csrgraph/pkg/errors"
)

// writeBufferSize is the buffer between the encoder and the destination.
const writeBufferSize = 1 << 20

// countingWriter records how many bytes reached the underlying writer.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// EncodeHeader returns the 24-byte little-endian encoding of h.
func EncodeHeader(h Header) []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint64(buf[0:8], h.N)
	binary.LittleEndian.PutUint64(buf[8:16], h.M)
	binary.LittleEndian.PutUint64(buf[16:24], h.Size)
	return buf
}

// Write encodes g to w: header, then offsets, then edges. It returns the
// number of bytes written, which equals g.Size on success.
//
// g is validated first, so a hand-built Graph with inconsistent fields is
// rejected before anything is written.
func Write(w io.Writer, g *Graph) (int64, error) {
	if err := g.Validate(); err != nil {
		return 0, cerrors.NewWriteError("", err, "refusing to encode inconsistent graph")
	}

	cw := &countingWriter{w: w}
	bw := bufio.NewWriterSize(cw, writeBufferSize)

	if _, err := bw.Write(EncodeHeader(g.Header)); err != nil {
		return cw.n, cerrors.NewWriteError("", err, "write header")
	}

	var scratch [8]byte
	for _, off := range g.Offsets {
		binary.LittleEndian.PutUint64(scratch[:], off)
		if _, err := bw.Write(scratch[:]); err != nil {
			return cw.n, cerrors.NewWriteError("", err, "write offsets")
		}
	}
	for _, e := range g.Edges {
		binary.LittleEndian.PutUint32(scratch[:4], e)
		if _, err := bw.Write(scratch[:4]); err != nil {
			return cw.n, cerrors.NewWriteError("", err, "write edges")
		}
	}
	if err := bw.Flush(); err != nil {
		return cw.n, cerrors.NewWriteError("", err, "flush")
	}

	if uint64(cw.n) != g.Size {
		return cw.n, cerrors.NewWriteError("", nil, "wrote %d bytes but header declares %d", cw.n, g.Size)
	}
	return cw.n, nil
}

// WriteFile writes g to path atomically.
//
// The graph is encoded into a temporary file in the same directory, synced
// and renamed over path. If anything fails the temporary file is removed
// and path is left as it was. The final file has mode 0644.
func WriteFile(path string, g *Graph) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	f, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return cerrors.NewWriteError(path, err, "create output")
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if _, err = Write(f, g); err != nil {
		var ee *cerrors.EncodeError
		if errors.As(err, &ee) && ee.Path == "" {
			ee.Path = path
		}
		return err
	}
	if err = f.Sync(); err != nil {
		return cerrors.NewWriteError(path, err, "sync")
	}
	if err = f.Chmod(0o644); err != nil {
		return cerrors.NewWriteError(path, err, "chmod")
	}
	if err = f.Close(); err != nil {
		return cerrors.NewWriteError(path, err, "close")
	}
	if err = os.Rename(tmp, path); err != nil {
		return cerrors.NewWriteError(path, err, "rename into place")
	}
	return nil
}
