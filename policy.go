package chunkhash

import (
	"fmt"
	"math"
	"strings"
)

// Mode selects how chunk size is derived from the stream size.
type Mode int

const (
	// FixedSize uses Policy.Value as chunk size in bytes.
	FixedSize Mode = iota
	// ChunkCount uses Policy.Value as the desired number of chunks.
	// Remainder of the division is not distributed: it forms
	// an additional shorter chunk at the end.
	ChunkCount
)

func (m Mode) String() string {
	switch m {
	case FixedSize:
		return "fixed"
	case ChunkCount:
		return "count"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Policy determines chunk boundaries.
type Policy struct {
	Mode  Mode
	Value int64
}

// Fixed returns policy producing chunks of size bytes.
func Fixed(size int64) Policy {
	return Policy{Mode: FixedSize, Value: size}
}

// Count returns policy producing n chunks (n+1 if stream size
// is not divisible by n).
func Count(n int64) Policy {
	return Policy{Mode: ChunkCount, Value: n}
}

// ParsePolicy constructs policy from its textual mode.
func ParsePolicy(mode string, value int64) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "fixed", "size":
		return Fixed(value), nil
	case "count", "dynamic":
		return Count(value), nil
	default:
		return Policy{}, fmt.Errorf("%w: unknown chunking mode %q", ErrInvalidArgument, mode)
	}
}

func (p Policy) String() string {
	return fmt.Sprintf("%s:%d", p.Mode, p.Value)
}

// ChunkSize returns effective chunk size for a stream of streamSize bytes.
func (p Policy) ChunkSize(streamSize int64) (int64, error) {
	if streamSize <= 0 {
		return 0, fmt.Errorf("%w: stream size must be greater than zero, got %d", ErrInvalidArgument, streamSize)
	}

	if p.Value <= 0 {
		return 0, fmt.Errorf("%w: %s value must be greater than zero, got %d", ErrInvalidArgument, p.Mode, p.Value)
	}

	var size int64

	switch p.Mode {
	case FixedSize:
		size = min(p.Value, streamSize)
	case ChunkCount:
		if p.Value <= streamSize {
			size = streamSize / p.Value
		} else {
			size = streamSize
		}
	default:
		return 0, fmt.Errorf("%w: unknown chunking mode %d", ErrInvalidArgument, int(p.Mode))
	}

	if size > math.MaxInt {
		return 0, fmt.Errorf("%w: chunk size %d doesn't fit in memory", ErrInvalidArgument, size)
	}

	return size, nil
}
