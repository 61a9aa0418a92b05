package chunkhash

import (
	"fmt"
	"io"
	"iter"

	"go.uber.org/zap"
)

// StepError is returned by Iterator.Next when the source
// could not be seeked or read.
type StepError struct {
	// Op is either "seek" or "read".
	Op     string
	Index  int64
	Offset int64
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("chunk #%d: %s at offset %d: %v", e.Index, e.Op, e.Offset, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Iterator splits seekable stream into chunks and hashes each of them.
// Iterator is single-pass: it must not be shared and the source must not
// be used by anyone else until iteration is finished.
type Iterator struct {
	r      io.ReadSeeker
	hasher Hasher
	log    *zap.Logger

	chunkSize  int64
	streamSize int64
	nextChunk  int64
	readData   int64

	err error
}

// Option configures Iterator.
type Option func(*Iterator)

// WithLogger sets logger for iteration events.
func WithLogger(l *zap.Logger) Option {
	return func(it *Iterator) {
		if l != nil {
			it.log = l
		}
	}
}

// New returns iterator over the first streamSize bytes of r.
// streamSize is required because io.ReadSeeker can't report its length.
func New(r io.ReadSeeker, streamSize int64, p Policy, h Hasher, opts ...Option) (*Iterator, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil source", ErrInvalidArgument)
	}

	if h == nil {
		return nil, fmt.Errorf("%w: nil hasher", ErrInvalidArgument)
	}

	size, err := p.ChunkSize(streamSize)
	if err != nil {
		return nil, err
	}

	it := &Iterator{
		r:          r,
		hasher:     h,
		log:        zap.NewNop(),
		chunkSize:  size,
		streamSize: streamSize,
	}

	for _, opt := range opts {
		opt(it)
	}

	it.log = it.log.With(
		zap.String("hasher", h.Name()),
		zap.Stringer("policy", p),
		zap.Int64("chunk_size", it.chunkSize),
		zap.Int64("stream_size", it.streamSize),
	)

	return it, nil
}

// NewFixed returns iterator producing chunks of chunkSize bytes,
// the last chunk contains the remainder.
func NewFixed(r io.ReadSeeker, streamSize, chunkSize int64, h Hasher, opts ...Option) (*Iterator, error) {
	return New(r, streamSize, Fixed(chunkSize), h, opts...)
}

// NewDynamic returns iterator splitting stream into count chunks.
// If streamSize is not divisible by count, the remainder is put in its own chunk.
func NewDynamic(r io.ReadSeeker, streamSize, count int64, h Hasher, opts ...Option) (*Iterator, error) {
	return New(r, streamSize, Count(count), h, opts...)
}

// ChunkSize returns size of every chunk except the last one.
func (it *Iterator) ChunkSize() int64 { return it.chunkSize }

// ChunkCount returns number of chunks iterator is expected to produce.
func (it *Iterator) ChunkCount() int64 {
	n := it.streamSize / it.chunkSize
	if it.streamSize%it.chunkSize != 0 {
		n++
	}

	return n
}

// StreamSize returns stream size hint the iterator was created with.
func (it *Iterator) StreamSize() int64 { return it.streamSize }

// Consumed returns number of bytes read so far.
func (it *Iterator) Consumed() int64 { return it.readData }

// NextIndex returns index of the chunk to be produced by the next call to Next.
func (it *Iterator) NextIndex() int64 { return it.nextChunk }

// Err returns error which stopped the iteration, if any.
// It is nil while iteration is in progress and after the stream is exhausted.
func (it *Iterator) Err() error {
	if it.err == io.EOF {
		return nil
	}

	return it.err
}

// Next returns next chunk. It returns io.EOF after the whole stream
// was consumed and *StepError if the source has failed.
// Next returns nil error iff Chunk is not nil. After an error every
// subsequent call returns the same error without using the source.
func (it *Iterator) Next() (*Chunk, error) {
	if it.err != nil {
		return nil, it.err
	}

	if it.readData >= it.streamSize {
		it.log.Debug("stream exhausted",
			zap.Int64("chunks", it.nextChunk),
			zap.Int64("consumed", it.readData))

		it.err = io.EOF

		return nil, it.err
	}

	index := it.nextChunk
	offset := index * it.chunkSize

	if _, err := it.r.Seek(offset, io.SeekStart); err != nil {
		return nil, it.fail("seek", index, offset, err)
	}

	it.nextChunk++

	buf := make([]byte, it.chunkSize)

	n, err := it.r.Read(buf)
	switch {
	case n == 0 && err == io.EOF:
		err = io.ErrUnexpectedEOF
	case n == 0 && err == nil:
		err = io.ErrNoProgress
	case err == io.EOF:
		err = nil
	}

	if n == 0 {
		return nil, it.fail("read", index, offset, err)
	}

	it.readData += int64(n)

	it.log.Debug("chunk",
		zap.Int64("index", index),
		zap.Int("size", n),
		zap.Int64("offset", offset))

	c := &Chunk{
		Index: index,
		Size:  int64(n),
		Hash:  it.hasher.Sum(buf),
	}

	// Bytes read before an error still form a chunk,
	// the error is returned by the next call.
	if err != nil {
		_ = it.fail("read", index, offset, err)
	}

	return c, nil
}

func (it *Iterator) fail(op string, index, offset int64, err error) error {
	it.err = &StepError{Op: op, Index: index, Offset: offset, Err: err}

	it.log.Warn("chunk iteration failed",
		zap.String("op", op),
		zap.Int64("index", index),
		zap.Int64("offset", offset),
		zap.Int64("consumed", it.readData),
		zap.Error(err))

	return it.err
}

// Chunks returns sequence of the remaining chunks. A failure of the source
// ends the sequence the same way exhaustion does, use Err to tell them apart.
func (it *Iterator) Chunks() iter.Seq[Chunk] {
	return func(yield func(Chunk) bool) {
		for {
			c, err := it.Next()
			if err != nil {
				return
			}

			if !yield(*c) {
				return
			}
		}
	}
}

// Collect reads all remaining chunks. Unlike Chunks it returns the error
// which stopped the iteration along with the chunks produced before it.
func (it *Iterator) Collect() ([]Chunk, error) {
	chunks := make([]Chunk, 0, max(it.ChunkCount()-it.nextChunk, 0))

	for {
		c, err := it.Next()
		if err == io.EOF {
			return chunks, nil
		} else if err != nil {
			return chunks, err
		}

		chunks = append(chunks, *c)
	}
}
