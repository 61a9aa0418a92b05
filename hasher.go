package chunkhash

import (
	"crypto/sha512"
	"fmt"
	"sort"
	"sync"

	sha256 "github.com/minio/sha256-simd"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"
)

// Hasher computes a digest of a byte slice.
// Implementations must be deterministic and safe for concurrent use:
// every Sum call works on its own hashing state.
type Hasher interface {
	// Name returns canonical algorithm name, e.g. "sha256".
	Name() string
	// Size returns digest size in bytes.
	Size() int
	// Sum returns digest of data. It never fails, empty data included.
	// The returned slice is owned by the caller and must not alias data.
	Sum(data []byte) []byte
}

type funcHasher struct {
	name string
	size int
	sum  func([]byte) []byte
}

// HasherFunc returns Hasher which uses sum to compute digests.
func HasherFunc(name string, size int, sum func(data []byte) []byte) Hasher {
	return &funcHasher{name: name, size: size, sum: sum}
}

func (h *funcHasher) Name() string { return h.name }

func (h *funcHasher) Size() int { return h.size }

func (h *funcHasher) Sum(data []byte) []byte { return h.sum(data) }

// Built-in hashers.
var (
	SHA256 = HasherFunc("sha256", sha256.Size, func(data []byte) []byte {
		s := sha256.Sum256(data)
		return s[:]
	})
	SHA512 = HasherFunc("sha512", sha512.Size, func(data []byte) []byte {
		s := sha512.Sum512(data)
		return s[:]
	})
	BLAKE2b256 = HasherFunc("blake2b-256", blake2b.Size256, func(data []byte) []byte {
		s := blake2b.Sum256(data)
		return s[:]
	})
	BLAKE2b512 = HasherFunc("blake2b-512", blake2b.Size, func(data []byte) []byte {
		s := blake2b.Sum512(data)
		return s[:]
	})
	SHA3_256 = HasherFunc("sha3-256", 32, func(data []byte) []byte {
		s := sha3.Sum256(data)
		return s[:]
	})
	SHA3_512 = HasherFunc("sha3-512", 64, func(data []byte) []byte {
		s := sha3.Sum512(data)
		return s[:]
	})
	BLAKE3 = HasherFunc("blake3", 32, func(data []byte) []byte {
		s := blake3.Sum256(data)
		return s[:]
	})
)

var (
	hashersMu sync.RWMutex
	hashers   = make(map[string]Hasher)
)

func init() {
	for _, h := range []Hasher{SHA256, SHA512, BLAKE2b256, BLAKE2b512, SHA3_256, SHA3_512, BLAKE3} {
		if err := RegisterHasher(h); err != nil {
			panic(err)
		}
	}
}

// RegisterHasher makes h available by its name via LookupHasher.
func RegisterHasher(h Hasher) error {
	if h == nil {
		return fmt.Errorf("%w: nil hasher", ErrInvalidArgument)
	}

	name := h.Name()
	if name == "" {
		return fmt.Errorf("%w: empty hasher name", ErrInvalidArgument)
	}

	hashersMu.Lock()
	defer hashersMu.Unlock()

	if _, ok := hashers[name]; ok {
		return fmt.Errorf("%w: hasher %q already registered", ErrInvalidArgument, name)
	}

	hashers[name] = h

	return nil
}

// LookupHasher returns hasher registered under name.
func LookupHasher(name string) (Hasher, error) {
	hashersMu.RLock()
	h, ok := hashers[name]
	hashersMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %v)", ErrUnknownHasher, name, Hashers())
	}

	return h, nil
}

// Hashers returns sorted names of all registered hashers.
func Hashers() []string {
	hashersMu.RLock()
	defer hashersMu.RUnlock()

	names := make([]string, 0, len(hashers))
	for name := range hashers {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
