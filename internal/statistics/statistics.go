// Package statistics aggregates simulated hands: pot sizes, rake and how
// hands ended.
package statistics

import (
	"fmt"
	"math"
	"slices"
)

// HandSample is the outcome of one simulated hand
type HandSample struct {
	Pot      int64 // chips in the pots before rake
	Rake     int64
	Winnings int64 // chips paid out to players
	Showdown bool  // more than one player revealed
	Canceled bool  // too few players posted the forced bets
}

// Statistics tracks simulated hands. The zero value is ready to use.
type Statistics struct {
	Hands     int
	Canceled  int
	Showdowns int

	TotalPot      int64
	TotalRake     int64
	TotalWinnings int64
	MaxPot        int64

	SumPot  float64
	SumPot2 float64   // sum of squares for variance
	Pots    []float64 // every played pot, for median and percentiles
}

// Add incorporates a hand into the statistics
func (s *Statistics) Add(h HandSample) {
	s.Hands++
	if h.Canceled {
		s.Canceled++
		return
	}
	if h.Showdown {
		s.Showdowns++
	}
	s.TotalPot += h.Pot
	s.TotalRake += h.Rake
	s.TotalWinnings += h.Winnings
	s.MaxPot = max(s.MaxPot, h.Pot)

	pot := float64(h.Pot)
	s.SumPot += pot
	s.SumPot2 += pot * pot
	s.Pots = append(s.Pots, pot)
}

// Merge adds other's hands to s
func (s *Statistics) Merge(other *Statistics) {
	s.Hands += other.Hands
	s.Canceled += other.Canceled
	s.Showdowns += other.Showdowns
	s.TotalPot += other.TotalPot
	s.TotalRake += other.TotalRake
	s.TotalWinnings += other.TotalWinnings
	s.MaxPot = max(s.MaxPot, other.MaxPot)
	s.SumPot += other.SumPot
	s.SumPot2 += other.SumPot2
	s.Pots = append(s.Pots, other.Pots...)
}

// Played is the number of hands that reached a result
func (s *Statistics) Played() int {
	return s.Hands - s.Canceled
}

// Mean returns the mean pot size of played hands
func (s *Statistics) Mean() float64 {
	if s.Played() == 0 {
		return 0
	}
	return s.SumPot / float64(s.Played())
}

// Variance returns the sample variance of pot sizes
func (s *Statistics) Variance() float64 {
	n := s.Played()
	if n < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumPot2 - float64(n)*mean*mean) / float64(n-1)
}

// StdDev returns the sample standard deviation of pot sizes
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean pot
func (s *Statistics) StdError() float64 {
	if s.Played() == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Played()))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean pot
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median pot size
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the pot size at the given percentile (0.0 to 1.0),
// interpolating between neighbours
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Pots) == 0 {
		return 0
	}
	sorted := slices.Clone(s.Pots)
	slices.Sort(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// RakeRate is the share of all pots taken as rake
func (s *Statistics) RakeRate() float64 {
	if s.TotalPot == 0 {
		return 0
	}
	return float64(s.TotalRake) / float64(s.TotalPot)
}

// Validate checks that every chip put into a pot was paid out or raked.
func (s *Statistics) Validate() error {
	if s.TotalPot != s.TotalRake+s.TotalWinnings {
		return fmt.Errorf("ledger mismatch: pots=%d rake=%d winnings=%d", s.TotalPot, s.TotalRake, s.TotalWinnings)
	}
	if s.Canceled+s.Showdowns > s.Hands {
		return fmt.Errorf("canceled (%d) plus showdowns (%d) exceed hands (%d)", s.Canceled, s.Showdowns, s.Hands)
	}
	if len(s.Pots) != s.Played() {
		return fmt.Errorf("pot samples (%d) do not match played hands (%d)", len(s.Pots), s.Played())
	}
	return nil
}
