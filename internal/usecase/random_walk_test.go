package usecase_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vitos/xau_money_management/internal/usecase"
)

func TestRandomWalk_BoundedAndReproducible(t *testing.T) {
	a := usecase.NewRandomWalk(rand.New(rand.NewSource(7)), 2350, 0.001)
	b := usecase.NewRandomWalk(rand.New(rand.NewSource(7)), 2350, 0.001)

	prev := a.Price()
	for i := 0; i < 500; i++ {
		pa, pb := a.Next(), b.Next()
		assert.Equal(t, pa, pb)
		assert.LessOrEqual(t, pa, prev*1.001+1e-9)
		assert.GreaterOrEqual(t, pa, prev*0.999-1e-9)
		prev = pa
	}
}

func TestRandomWalk_Floor(t *testing.T) {
	w := usecase.NewRandomWalk(rand.New(rand.NewSource(1)), 0.01, 0.9)
	for i := 0; i < 100; i++ {
		assert.GreaterOrEqual(t, w.Next(), 0.01)
	}
}
