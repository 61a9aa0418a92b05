package chunkhash

import (
	"bytes"
	"errors"
	"io"
)

// gentleReader is a wrapper over seekable reader which sets Used
// if an underlying reader was used after returning an error.
// It is used in tests to check that iterator is well-behaved
// meaning it does not use provided source after any error.
type gentleReader struct {
	io.ReadSeeker
	Err  error
	Used bool
}

func newGentleReaderFromBuf(buf []byte) *gentleReader {
	return &gentleReader{
		ReadSeeker: bytes.NewReader(buf),
	}
}

// Read implements io.Reader interface.
func (r *gentleReader) Read(p []byte) (n int, err error) {
	if r.Err != nil {
		r.Used = true
	}

	n, r.Err = r.ReadSeeker.Read(p)

	return n, r.Err
}

// Seek implements io.Seeker interface.
func (r *gentleReader) Seek(offset int64, whence int) (int64, error) {
	if r.Err != nil {
		r.Used = true
	}

	var n int64
	n, r.Err = r.ReadSeeker.Seek(offset, whence)

	return n, r.Err
}

var (
	errRead = errors.New("error on read")
	errSeek = errors.New("error on seek")
)

// errorReader fails every operation touching data after byte `after`.
type errorReader struct {
	*bytes.Reader
	pos   int64
	after int64
	// seek makes Seek fail instead of Read.
	seek bool
}

func newErrorReaderFromBuf(after int64, seek bool, buf []byte) *errorReader {
	return &errorReader{
		Reader: bytes.NewReader(buf),
		after:  after,
		seek:   seek,
	}
}

// Seek implements io.Seeker interface.
func (r *errorReader) Seek(offset int64, whence int) (int64, error) {
	if r.seek && offset >= r.after {
		return 0, errSeek
	}

	n, err := r.Reader.Seek(offset, whence)
	r.pos = n

	return n, err
}

// Read implements io.Reader interface.
func (r *errorReader) Read(p []byte) (n int, err error) {
	if !r.seek && r.pos+int64(len(p)) > r.after {
		return 0, errRead
	}

	n, err = r.Reader.Read(p)
	r.pos += int64(n)

	return
}

// shortReader returns at most max bytes per Read.
type shortReader struct {
	io.ReadSeeker
	max int
}

// Read implements io.Reader interface.
func (r *shortReader) Read(p []byte) (int, error) {
	if len(p) > r.max {
		p = p[:r.max]
	}

	return r.ReadSeeker.Read(p)
}

// partialReader returns at most max bytes per Read together with errRead.
type partialReader struct {
	io.ReadSeeker
	max   int
	reads int
}

// Read implements io.Reader interface.
func (r *partialReader) Read(p []byte) (int, error) {
	r.reads++

	if len(p) > r.max {
		p = p[:r.max]
	}

	n, _ := r.ReadSeeker.Read(p)

	return n, errRead
}

// stuckReader never fills the buffer and never reports an error.
type stuckReader struct {
	io.ReadSeeker
}

// Read implements io.Reader interface.
func (r stuckReader) Read([]byte) (int, error) {
	return 0, nil
}
