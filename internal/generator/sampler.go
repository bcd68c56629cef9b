package generator

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// sampler wraps the seeded random source with the draws the generator
// needs. All randomness flows through it so a fixed seed reproduces the
// same dataset.
type sampler struct {
	rand *rand.Rand
}

func newSampler(r *rand.Rand) *sampler {
	return &sampler{rand: r}
}

// intRange draws uniformly from [lo, hi], both ends inclusive.
func (s *sampler) intRange(lo, hi int) int {
	return lo + s.rand.Intn(hi-lo+1)
}

// uniform draws from [lo, hi).
func (s *sampler) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.rand.Float64()
}

// chance reports true with probability p.
func (s *sampler) chance(p float64) bool {
	return s.rand.Float64() < p
}

// money draws uniformly from [lo, hi) and rounds to cents.
func (s *sampler) money(lo, hi float64) decimal.Decimal {
	return decimal.NewFromFloat(s.uniform(lo, hi)).Round(2)
}

// date picks a whole number of days in [start, end] plus a random second
// offset within that day.
func (s *sampler) date(start, end time.Time) time.Time {
	days := int(end.Sub(start).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return start.AddDate(0, 0, s.intRange(0, days)).Add(time.Duration(s.intRange(0, 86400)) * time.Second)
}

// sample returns k distinct indexes out of [0, n).
func (s *sampler) sample(n, k int) []int {
	if k > n {
		k = n
	}
	return s.rand.Perm(n)[:k]
}

func pick[T any](s *sampler, choices []T) T {
	return choices[s.rand.Intn(len(choices))]
}

// weighted picks one of choices with the given relative weights.
func weighted[T any](s *sampler, choices []T, weights []float64) T {
	total := 0.0
	for _, w := range weights {
		total += w
	}

	x := s.rand.Float64() * total
	cum := 0.0
	for i, w := range weights {
		cum += w
		if x < cum {
			return choices[i]
		}
	}
	return choices[len(choices)-1]
}
