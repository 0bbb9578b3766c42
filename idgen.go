package mzidstream

import (
	"sync"

	"github.com/google/uuid"
)

// DocumentIDGenerator produces the identifier stamped on the MzIdentML root
// element when the caller does not supply one.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type DocumentIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 document identifiers.
//
// UUIDv7 embeds a timestamp in the most significant bits, so documents sort
// by creation time when identifiers are compared lexically.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined identifiers for testing.
//
// This enables deterministic document output and golden-file comparison.
//
// Thread-safety: FixedGenerator is safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next predetermined identifier.
//
// Panics if all identifiers have been consumed. This is a fail-fast
// approach: a test that asks for more documents than it planned for is
// broken and should say so immediately.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.ids) {
		panic("mzidstream: FixedGenerator exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
