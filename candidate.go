package mdconv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// readChunkSize bounds each read so cancellation is observed between chunks.
const readChunkSize = 32 << 10

var errNoSource = errors.New("candidate has no content source")

// ContentSource reads the full content of a candidate file.
type ContentSource interface {
	ReadContent(ctx context.Context) ([]byte, error)
}

// ContentSourceFunc adapts a function to ContentSource.
type ContentSourceFunc func(ctx context.Context) ([]byte, error)

// ReadContent calls f(ctx).
func (f ContentSourceFunc) ReadContent(ctx context.Context) ([]byte, error) {
	return f(ctx)
}

// CandidateFile is a file the user selected but that has not been validated.
// Size is the size reported by the host, which may differ from what Source
// actually yields.
type CandidateFile struct {
	Name   string
	Size   int64
	Source ContentSource
}

// NewCandidate wraps in-memory content.
func NewCandidate(name string, data []byte) CandidateFile {
	return CandidateFile{
		Name:   name,
		Size:   int64(len(data)),
		Source: bytesSource(data),
	}
}

// OpenCandidate stats path and returns a candidate that reads the file
// lazily on validation.
func OpenCandidate(path string) (CandidateFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return CandidateFile{}, fmt.Errorf("%w: %w", ErrReadFailure, err)
	}
	if info.IsDir() {
		return CandidateFile{}, fmt.Errorf("%w: %q is a directory", ErrReadFailure, path)
	}
	return CandidateFile{
		Name:   filepath.Base(path),
		Size:   info.Size(),
		Source: fileSource(path),
	}, nil
}

// CandidateFromReader buffers r so the candidate outlives it, as needed for
// multipart uploads whose temp files vanish with the request. At most
// MaxFileSize+1 bytes are buffered; a candidate whose reported size is
// already over the ceiling is not read at all.
func CandidateFromReader(name string, size int64, r io.Reader) (CandidateFile, error) {
	if size > MaxFileSize {
		return CandidateFile{
			Name: name,
			Size: size,
			Source: ContentSourceFunc(func(context.Context) ([]byte, error) {
				return nil, ErrSizeExceeded
			}),
		}, nil
	}
	data, err := readAllContext(context.Background(), r, MaxFileSize+1)
	if err != nil {
		return CandidateFile{}, fmt.Errorf("%w: %w", ErrReadFailure, err)
	}
	return CandidateFile{
		Name:   name,
		Size:   size,
		Source: bytesSource(data),
	}, nil
}

type bytesSource []byte

func (b bytesSource) ReadContent(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return bytes.Clone(b), nil
}

type fileSource string

func (p fileSource) ReadContent(ctx context.Context) ([]byte, error) {
	f, err := os.Open(string(p)) // #nosec G304 -- path chosen by the local user
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readAllContext(ctx, f, MaxFileSize+1)
}

// readAllContext reads r until EOF or limit bytes, checking ctx between chunks.
func readAllContext(ctx context.Context, r io.Reader, limit int64) ([]byte, error) {
	var buf bytes.Buffer
	lr := io.LimitReader(r, limit)
	chunk := make([]byte, readChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := lr.Read(chunk)
		buf.Write(chunk[:n])
		if errors.Is(err, io.EOF) {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
	}
}
