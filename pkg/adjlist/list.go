package adjlist

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"

	cerrors "github.com/matzehuels/csrgraph/pkg/errors"
)

// List is a dense adjacency list: element i holds the out-neighbors of
// vertex i, in input order. Every index in [0, Len()) is present, possibly
// with an empty list.
type List [][]uint64

// Len returns the vertex count.
func (l List) Len() uint64 {
	return uint64(len(l))
}

// EdgeCount returns the total number of neighbor entries.
func (l List) EdgeCount() uint64 {
	var m uint64
	for _, nbrs := range l {
		m += uint64(len(nbrs))
	}
	return m
}

// Write emits l in the text format accepted by [Parse].
//
// Vertices without neighbors are omitted, except the last one, which is
// always written so that parsing the output yields the same vertex count.
func Write(w io.Writer, l List) error {
	bw := bufio.NewWriter(w)
	var buf []byte
	last := len(l) - 1
	for v, nbrs := range l {
		if len(nbrs) == 0 && v != last {
			continue
		}
		buf = strconv.AppendUint(buf[:0], uint64(v), 10)
		for _, u := range nbrs {
			buf = append(buf, ' ')
			buf = strconv.AppendUint(buf, u, 10)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes l to path in the text format. Like csr.WriteFile it
// writes a temporary sibling and renames it into place, so path is never
// left holding a partial list.
func WriteFile(path string, l List) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	f, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return cerrors.Wrap(cerrors.ErrCodeIO, err, "create %s", path)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if err = Write(f, l); err != nil {
		return cerrors.Wrap(cerrors.ErrCodeIO, err, "write %s", path)
	}
	if err = f.Chmod(0o644); err != nil {
		return cerrors.Wrap(cerrors.ErrCodeIO, err, "chmod %s", path)
	}
	if err = f.Close(); err != nil {
		return cerrors.Wrap(cerrors.ErrCodeIO, err, "close %s", path)
	}
	if err = os.Rename(tmp, path); err != nil {
		return cerrors.Wrap(cerrors.ErrCodeIO, err, "rename into %s", path)
	}
	return nil
}
