package usecase

import (
	"math/rand"
	"sync"
)

// RandomWalk produces a bounded multiplicative random walk for simulated
// quotes. The source of randomness is injected so runs are reproducible.
type RandomWalk struct {
	mu         sync.Mutex
	rng        *rand.Rand
	price      float64
	volatility float64
	floor      float64
}

func NewRandomWalk(rng *rand.Rand, start, volatility float64) *RandomWalk {
	return &RandomWalk{
		rng:        rng,
		price:      start,
		volatility: volatility,
		floor:      0.01,
	}
}

// Next moves the price by at most volatility*price in either direction.
func (w *RandomWalk) Next() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	step := w.price * w.volatility * (w.rng.Float64()*2 - 1)
	w.price += step
	if w.price < w.floor {
		w.price = w.floor
	}
	return w.price
}

func (w *RandomWalk) Price() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.price
}
