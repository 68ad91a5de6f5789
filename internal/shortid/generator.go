// Package shortid turns the store's atomic counter into short, URL-safe
// and non-sequential link tokens.
package shortid

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"math/rand"

	"github.com/mr-tron/base58"

	customerrors "github.com/axellelanca/linkshortener/internal/errors"
)

const (
	DefaultJitterMin int64 = 9999
	DefaultJitterMax int64 = 999999
)

// Alphabet has no 0, O, I or l.
var Alphabet = base58.FlickrAlphabet

// Counter is the store's atomic increment.
type Counter interface {
	NextCounter(ctx context.Context) (int64, error)
}

type Generator struct {
	counter   Counter
	jitterMin int64
	span      int64
	intN      func(n int64) int64
}

type Option func(*Generator)

// WithJitter sets the range [min, max) the jitter is drawn from.
func WithJitter(min, max int64) Option {
	return func(g *Generator) {
		g.jitterMin = min
		g.span = max - min
	}
}

// WithRand replaces the jitter source; intN must return a value in [0, n).
func WithRand(intN func(n int64) int64) Option {
	return func(g *Generator) {
		g.intN = intN
	}
}

func New(counter Counter, opts ...Option) (*Generator, error) {
	g := &Generator{
		counter:   counter,
		jitterMin: DefaultJitterMin,
		span:      DefaultJitterMax - DefaultJitterMin,
		intN:      rand.Int63n,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.jitterMin < 0 || g.span <= 0 {
		return nil, fmt.Errorf("invalid jitter range [%d, %d)", g.jitterMin, g.jitterMin+g.span)
	}
	return g, nil
}

// NextID increments the counter once and encodes it with fresh jitter.
// It does not retry: a store failure is returned as is.
func (g *Generator) NextID(ctx context.Context) (string, error) {
	n, err := g.counter.NextCounter(ctx)
	if err != nil {
		return "", err
	}
	jitter := g.jitterMin + g.intN(g.span)
	return g.Encode(n, jitter)
}

// Encode mixes counter and jitter into one integer, counter*span + (jitter-min),
// and renders it in base58. Distinct counters always give distinct tokens.
func (g *Generator) Encode(counter, jitter int64) (string, error) {
	if counter < 1 {
		return "", fmt.Errorf("counter %d must be positive", counter)
	}
	if counter > (math.MaxInt64-g.span)/g.span {
		return "", fmt.Errorf("%w: counter %d", customerrors.ErrCounterExhausted, counter)
	}
	if jitter < g.jitterMin || jitter >= g.jitterMin+g.span {
		return "", fmt.Errorf("jitter %d outside [%d, %d)", jitter, g.jitterMin, g.jitterMin+g.span)
	}
	value := counter*g.span + (jitter - g.jitterMin)
	return base58.EncodeAlphabet(big.NewInt(value).Bytes(), Alphabet), nil
}

// Decode recovers the counter and jitter a token was built from.
func (g *Generator) Decode(token string) (counter, jitter int64, err error) {
	if token == "" {
		return 0, 0, customerrors.ErrInvalidHash
	}
	raw, err := base58.DecodeAlphabet(token, Alphabet)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", customerrors.ErrInvalidHash, err)
	}
	value := new(big.Int).SetBytes(raw)
	if !value.IsInt64() {
		return 0, 0, fmt.Errorf("%w: %q out of range", customerrors.ErrInvalidHash, token)
	}
	v := value.Int64()
	return v / g.span, v%g.span + g.jitterMin, nil
}
