package cpu

import "math/rand/v2"

// RandomSource provides the random numbers used by Cxkk.
type RandomSource interface {
	Uint32() uint32
}

// NewRandomSource returns a deterministic source for the given seed.
func NewRandomSource(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}

type globalSource struct{}

func (globalSource) Uint32() uint32 {
	return rand.Uint32()
}
