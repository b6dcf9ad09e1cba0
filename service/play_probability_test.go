package service_test

import (
	"context"
	"math"
	"math/rand/v2"
	"testing"

	"pointledger/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seededRand struct {
	r *rand.Rand
}

func (s seededRand) Float64() float64 {
	return s.r.Float64()
}

func TestGameConfig_ExpectedPayout(t *testing.T) {
	assert.Equal(t, 3.0, service.DefaultGameConfig().ExpectedPayout())
	assert.Equal(t, 2.0, service.GameConfig{WinProbability: 0.1, BasePayout: 1, BonusPayout: 10}.ExpectedPayout())
}

// Plays many rounds through the in-memory ledger and checks the observed win rate
// and balance against the configured payout table.
func TestPlay_WinRateMatchesProbability(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping simulation in short mode")
	}

	const plays = 20000
	ctx := context.Background()
	l := newLedger(seededRand{r: rand.New(rand.NewPCG(42, 1024))})

	wins := 0
	var last int64
	for n := 0; n < plays; n++ {
		result, err := l.game.Play(ctx, "u1")
		require.NoError(t, err)
		if result.Win {
			wins++
		}
		last = result.NewBalance
	}

	rate := float64(wins) / plays
	// Five standard deviations of a fair coin over 20k flips is about 0.018
	assert.InDelta(t, 0.5, rate, 0.02)

	want := int64(plays + 4*wins)
	assert.Equal(t, want, last)
	assert.Equal(t, want, balanceOf(t, l, "u1"))

	perPlay := float64(last) / plays
	assert.Less(t, math.Abs(perPlay-service.DefaultGameConfig().ExpectedPayout()), 0.1)
}
