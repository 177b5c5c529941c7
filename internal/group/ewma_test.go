package group

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEWMA_FirstSampleSeedsState(t *testing.T) {
	e := newEWMA(0.5)
	out := e.Next(10)
	assert.Equal(t, 10.0, out)
	out2 := e.Next(20)
	assert.InDelta(t, 15.0, out2, 1e-9, "EWMA(0.5) of 10 then 20 should be 15")
}

func TestEWMA_AlphaOne_NoSmoothing(t *testing.T) {
	e := newEWMA(1.0)
	e.Next(1)
	out := e.Next(5)
	assert.Equal(t, 5.0, out, "alpha=1 should track input exactly")
}

func TestEWMA_AlphaZero_HoldsInitialValue(t *testing.T) {
	e := newEWMA(0.0)
	e.Next(3)
	out := e.Next(99)
	assert.Equal(t, 3.0, out, "alpha=0 should never move off the seed value")
}

func TestEWMA_ConvergesToConstantInput(t *testing.T) {
	e := newEWMA(0.3)
	last := e.Next(1)
	for i := 0; i < 200; i++ {
		last = e.Next(7)
	}
	assert.InDelta(t, 7.0, last, 1e-6)
}
