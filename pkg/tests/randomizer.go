package tests

import (
	"fmt"
	"math/rand"
	"time"
)

type Randomizer struct {
	Float64 func() float64
	Bool    func() bool
	Intn    func(n int) int
}

func NewRandomizer() Randomizer {
	random := rand.New(rand.NewSource(time.Now().Unix())) //nolint:gosec // for tests

	return Randomizer{
		Float64: random.Float64,
		Bool:    func() bool { return random.Intn(2) == 0 }, //nolint:mnd // skip
		Intn:    random.Intn,
	}
}

// Price returns a money string with two decimals between 0 and max.
func (r Randomizer) Price(maxAmount int) string {
	return fmt.Sprintf("%.2f", r.Float64()*float64(maxAmount))
}
