package stream

import (
	"errors"
	"io"
)

// ErrLimitExceeded is returned when a copy reads more than its byte limit.
var ErrLimitExceeded = errors.New("stream exceeds size limit")

// DefaultChunkSize is the read size used when none is given.
const DefaultChunkSize = 32 * 1024

// ChunkedReader provides chunked reading capability for large files
type ChunkedReader struct {
	reader    io.Reader
	chunkSize int
	buffer    []byte
	eof       bool
}

// NewChunkedReader creates a new chunked reader
func NewChunkedReader(reader io.Reader, chunkSize int) *ChunkedReader {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &ChunkedReader{
		reader:    reader,
		chunkSize: chunkSize,
		buffer:    make([]byte, chunkSize),
	}
}

// NextChunk reads up to one chunk. The returned slice is reused by the next
// call. io.EOF is returned once the source is drained.
func (cr *ChunkedReader) NextChunk() ([]byte, error) {
	if cr.eof {
		return nil, io.EOF
	}

	n, err := io.ReadFull(cr.reader, cr.buffer)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		cr.eof = true
		if n == 0 {
			return nil, io.EOF
		}
		return cr.buffer[:n], nil
	}
	if err != nil {
		return nil, err
	}

	return cr.buffer[:n], nil
}

// CopyLimited copies src to dst chunk by chunk and fails with
// ErrLimitExceeded as soon as more than limit bytes were read. A limit of
// zero or less disables the check.
func CopyLimited(dst io.Writer, src io.Reader, chunkSize int, limit int64) (int64, error) {
	cr := NewChunkedReader(src, chunkSize)

	var written int64
	for {
		chunk, err := cr.NextChunk()
		if errors.Is(err, io.EOF) {
			return written, nil
		}
		if err != nil {
			return written, err
		}

		if limit > 0 && written+int64(len(chunk)) > limit {
			return written, ErrLimitExceeded
		}

		n, err := dst.Write(chunk)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
}
