package csr

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	cerrors "github.com/matzehuels/csrgraph/pkg/errors"
)

// readChunk is how many array elements are decoded per read. Arrays grow
// chunk by chunk, so a corrupt header cannot force a huge allocation
// before the data backing it has actually been read.
const readChunk = 1 << 16

// DecodeHeader decodes the first HeaderSize bytes of buf.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, cerrors.New(cerrors.ErrCodeInvalidFormat, "header needs %d bytes, got %d", HeaderSize, len(buf))
	}
	return Header{
		N:    binary.LittleEndian.Uint64(buf[0:8]),
		M:    binary.LittleEndian.Uint64(buf[8:16]),
		Size: binary.LittleEndian.Uint64(buf[16:24]),
	}, nil
}

// ReadHeader reads and checks the header at the start of r.
// The declared size must equal SizeBytes(N, M).
func ReadHeader(r io.Reader) (Header, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, cerrors.Wrap(cerrors.ErrCodeInvalidFormat, err, "read header")
	}
	h, err := DecodeHeader(buf[:])
	if err != nil {
		return Header{}, err
	}
	want, ok := checkedSize(h.N, h.M)
	if !ok {
		return Header{}, cerrors.New(cerrors.ErrCodeInvalidFormat, "size overflows for n=%d m=%d", h.N, h.M)
	}
	if h.Size != want {
		return Header{}, cerrors.New(cerrors.ErrCodeInvalidFormat, "size mismatch: got %d, expected %d", h.Size, want)
	}
	return h, nil
}

// Read decodes a full graph from r and validates it.
func Read(r io.Reader) (*Graph, error) {
	br := bufio.NewReaderSize(r, writeBufferSize)
	h, err := ReadHeader(br)
	if err != nil {
		return nil, err
	}
	return readBody(br, h)
}

// ReadFile decodes the graph stored at path. The file length must match
// the size declared in its header.
func ReadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeIO, err, "stat %s", path)
	}

	br := bufio.NewReaderSize(f, writeBufferSize)
	h, err := ReadHeader(br)
	if err != nil {
		return nil, err
	}
	if uint64(info.Size()) != h.Size {
		return nil, cerrors.New(cerrors.ErrCodeInvalidFormat, "%s is %d bytes, header declares %d", path, info.Size(), h.Size)
	}
	return readBody(br, h)
}

// ReadFileHeader reads only the header of the graph stored at path and
// checks it against the file length, without loading the arrays.
func ReadFileHeader(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, cerrors.Wrap(cerrors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Header{}, cerrors.Wrap(cerrors.ErrCodeIO, err, "stat %s", path)
	}
	h, err := ReadHeader(f)
	if err != nil {
		return Header{}, err
	}
	if uint64(info.Size()) != h.Size {
		return Header{}, cerrors.New(cerrors.ErrCodeInvalidFormat, "%s is %d bytes, header declares %d", path, info.Size(), h.Size)
	}
	return h, nil
}

func readBody(r io.Reader, h Header) (*Graph, error) {
	offsets, err := readUint64s(r, h.N+1)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidFormat, err, "read offsets")
	}
	edges, err := readUint32s(r, h.M)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidFormat, err, "read edges")
	}
	g := &Graph{Header: h, Offsets: offsets, Edges: edges}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func readUint64s(r io.Reader, count uint64) ([]uint64, error) {
	out := make([]uint64, 0, min(count, readChunk))
	buf := make([]byte, 8*readChunk)
	for remaining := count; remaining > 0; {
		k := min(remaining, readChunk)
		chunk := buf[:8*k]
		if _, err := io.ReadFull(r, chunk); err != nil {
			return nil, err
		}
		for i := uint64(0); i < k; i++ {
			out = append(out, binary.LittleEndian.Uint64(chunk[8*i:]))
		}
		remaining -= k
	}
	return out, nil
}

func readUint32s(r io.Reader, count uint64) ([]uint32, error) {
	out := make([]uint32, 0, min(count, readChunk))
	buf := make([]byte, 4*readChunk)
	for remaining := count; remaining > 0; {
		k := min(remaining, readChunk)
		chunk := buf[:4*k]
		if _, err := io.ReadFull(r, chunk); err != nil {
			return nil, err
		}
		for i := uint64(0); i < k; i++ {
			out = append(out, binary.LittleEndian.Uint32(chunk[4*i:]))
		}
		remaining -= k
	}
	return out, nil
}
