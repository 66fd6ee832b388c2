// Package nonce issues and verifies short-lived tokens bound to an action
// name. A token is valid during the tick it was created in and the one after,
// a tick being half of the configured lifetime.
package nonce

import (
	"crypto/subtle"
	"encoding/hex"
	"math"
	"strconv"
	"time"

	"golang.org/x/crypto/blake2b"
)

const (
	nonceLength = 10
	// characters dropped from the end of the hex digest before truncating
	nonceOffset = 2
)

type Generator struct {
	key      []byte
	lifetime time.Duration
	now      func() time.Time
}

type Option func(g *Generator)

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

func NewGenerator(salt string, lifetime time.Duration, options ...Option) *Generator {
	g := &Generator{
		key:      []byte(salt),
		lifetime: lifetime,
		now:      time.Now,
	}

	// blake2b keys are limited to 64 bytes
	if len(g.key) > blake2b.Size {
		sum := blake2b.Sum512(g.key)
		g.key = sum[:]
	}

	for _, option := range options {
		option(g)
	}

	return g
}

func (g *Generator) tick() int64 {
	half := g.lifetime.Seconds() / 2
	return int64(math.Ceil(float64(g.now().Unix()) / half))
}

func (g *Generator) hash(tick int64, action string) string {
	mac, err := blake2b.New256(g.key)
	if err != nil {
		// only returned for keys longer than 64 bytes, see NewGenerator
		panic(err)
	}

	mac.Write([]byte(strconv.FormatInt(tick, 10) + "|" + action))
	digest := hex.EncodeToString(mac.Sum(nil))

	end := len(digest) - nonceOffset
	return digest[end-nonceLength : end]
}

// Create returns a token for action valid for the configured lifetime.
func (g *Generator) Create(action string) string {
	return g.hash(g.tick(), action)
}

// Verify returns 1 when the token was created in the current tick, 2 when it
// was created in the previous one and 0 when it is invalid or expired.
func (g *Generator) Verify(token string, action string) int {
	if len(token) != nonceLength {
		return 0
	}

	tick := g.tick()

	if subtle.ConstantTimeCompare([]byte(token), []byte(g.hash(tick, action))) == 1 {
		return 1
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(g.hash(tick-1, action))) == 1 {
		return 2
	}

	return 0
}

func (g *Generator) IsValid(token string, action string) bool {
	return g.Verify(token, action) > 0
}
