package password

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand/v2"
	"sync"

	"github.com/hpungsan/passgen/internal/errors"
)

// Length and batch bounds accepted at the configuration surface.
const (
	MinLength     = 4
	MaxLength     = 32
	MinBatchCount = 1
	MaxBatchCount = 20
)

// Source yields uniform integers in [0, n).
type Source interface {
	IntN(n int) (int, error)
}

// CryptoSource draws from crypto/rand.
type CryptoSource struct{}

// IntN implements Source.
func (CryptoSource) IntN(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("read random index: %w", err)
	}
	return int(v.Int64()), nil
}

// SeededSource is a deterministic PCG source. It is safe for concurrent use.
type SeededSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededSource returns a SeededSource for the given seed pair.
func NewSeededSource(seed1, seed2 uint64) *SeededSource {
	return &SeededSource{rng: mrand.New(mrand.NewPCG(seed1, seed2))}
}

// IntN implements Source.
func (s *SeededSource) IntN(n int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n), nil
}

// Generator draws passwords from a charset using its Source.
type Generator struct {
	src Source
}

// NewGenerator returns a Generator. A nil src falls back to CryptoSource.
func NewGenerator(src Source) *Generator {
	if src == nil {
		src = CryptoSource{}
	}
	return &Generator{src: src}
}

// Generate returns a string of exactly length characters, each drawn
// independently and uniformly from charset.
func (g *Generator) Generate(charset string, length int) (string, error) {
	pool := []rune(charset)
	if len(pool) == 0 {
		return "", errors.NewInvalidConfiguration("charset must not be empty")
	}
	if length < 1 {
		return "", errors.NewInvalidConfiguration(fmt.Sprintf("length must be at least 1, got %d", length))
	}

	out := make([]rune, length)
	for i := range out {
		idx, err := g.src.IntN(len(pool))
		if err != nil {
			return "", errors.NewInternal(err)
		}
		out[i] = pool[idx]
	}
	return string(out), nil
}

// GenerateBatch calls Generate count times. Results are not deduplicated.
func (g *Generator) GenerateBatch(charset string, length, count int) ([]string, error) {
	if count < MinBatchCount || count > MaxBatchCount {
		return nil, errors.NewInvalidConfiguration(
			fmt.Sprintf("count must be between %d and %d, got %d", MinBatchCount, MaxBatchCount, count))
	}

	passwords := make([]string, 0, count)
	for i := 0; i < count; i++ {
		pw, err := g.Generate(charset, length)
		if err != nil {
			return nil, err
		}
		passwords = append(passwords, pw)
	}
	return passwords, nil
}

// ValidateLength checks length against the MinLength..MaxLength bounds.
func ValidateLength(length int) error {
	if length < MinLength || length > MaxLength {
		return errors.NewInvalidConfiguration(
			fmt.Sprintf("length must be between %d and %d, got %d", MinLength, MaxLength, length))
	}
	return nil
}
