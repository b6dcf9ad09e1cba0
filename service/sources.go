package service

import (
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Clock supplies wall-clock timestamps
type Clock interface {
	Now() time.Time
}

// IDGenerator supplies unique ids for transactions, withdrawals and requests
type IDGenerator interface {
	NewID() string
}

// Randomizer supplies outcome randomness for play
type Randomizer interface {
	// Float64 returns a number in [0, 1)
	Float64() float64
}

// Sources bundles the boundary effects a service depends on
type Sources struct {
	Clock Clock
	IDs   IDGenerator
	Rand  Randomizer
}

// DefaultSources returns the production clock, uuid ids and an unseeded random source
func DefaultSources() Sources {
	return Sources{
		Clock: SystemClock{},
		IDs:   UUIDGenerator{},
		Rand:  mathRandomizer{},
	}
}

// withDefaults fills any missing source with its production implementation
func (s Sources) withDefaults() Sources {
	d := DefaultSources()
	if s.Clock == nil {
		s.Clock = d.Clock
	}
	if s.IDs == nil {
		s.IDs = d.IDs
	}
	if s.Rand == nil {
		s.Rand = d.Rand
	}
	return s
}

// SystemClock reads the UTC wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// UUIDGenerator generates random (v4) uuids
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

type mathRandomizer struct{}

func (mathRandomizer) Float64() float64 {
	return rand.Float64()
}

// FixedClock always returns the same instant
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time {
	return c.At
}

// SequentialIDs hands out "<prefix>-1", "<prefix>-2", ...
type SequentialIDs struct {
	Prefix string

	mu   sync.Mutex
	next int
}

func (g *SequentialIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return g.Prefix + "-" + strconv.Itoa(g.next)
}

// FixedRandomizer returns the same draw every time
type FixedRandomizer float64

func (r FixedRandomizer) Float64() float64 {
	return float64(r)
}
