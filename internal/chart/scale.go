package chart

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrDomain is returned when a scale has no defined domain
var ErrDomain = errors.New("undefined scale domain")

// Linear maps a continuous domain onto a pixel range
type Linear struct {
	d0, d1 float64
	r0, r1 float64
	clamp  bool
}

// NewLinear builds a scale. Non-finite bounds are rejected.
func NewLinear(domain, rng [2]float64) (Linear, error) {
	for _, v := range []float64{domain[0], domain[1], rng[0], rng[1]} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Linear{}, fmt.Errorf("%w: domain %v range %v", ErrDomain, domain, rng)
		}
	}
	return Linear{d0: domain[0], d1: domain[1], r0: rng[0], r1: rng[1]}, nil
}

// Clamped returns a copy that pins out-of-domain input to the range ends
func (s Linear) Clamped() Linear {
	s.clamp = true
	return s
}

func (s Linear) Domain() [2]float64 { return [2]float64{s.d0, s.d1} }
func (s Linear) Range() [2]float64 { return [2]float64{s.r0, s.r1} }

// Map converts a domain value to a range value. A zero-width domain maps
// everything to the middle of the range.
func (s Linear) Map(v float64) float64 {
	if s.d0 == s.d1 {
		return (s.r0 + s.r1) / 2
	}
	t := (v - s.d0) / (s.d1 - s.d0)
	if s.clamp {
		t = math.Max(0, math.Min(1, t))
	}
	return s.r0 + t*(s.r1-s.r0)
}

// Ticks returns roughly count evenly spaced round values within the domain
func (s Linear) Ticks(count int) []float64 {
	lo, hi := s.d0, s.d1
	if lo > hi {
		lo, hi = hi, lo
	}
	return ticks(lo, hi, count)
}

// TickFormat formats tick values with the precision of the tick step
func (s Linear) TickFormat(count int) func(float64) string {
	lo, hi := s.d0, s.d1
	if lo > hi {
		lo, hi = hi, lo
	}
	step := tickStep(lo, hi, count)
	decimals := 0
	if step > 0 && step < 1 {
		decimals = int(math.Ceil(-math.Log10(step) - 1e-9))
	}
	return func(v float64) string {
		return strconv.FormatFloat(v, 'f', decimals, 64)
	}
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// tickSpec picks a 1, 2 or 5 times a power of ten step. inc < 0 means the
// step is 1/-inc, which keeps fractional steps exact.
func tickSpec(start, stop float64, count int) (i1, i2, inc float64) {
	step := (stop - start) / math.Max(0, float64(count))
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case e >= e10:
		factor = 10
	case e >= e5:
		factor = 5
	case e >= e2:
		factor = 2
	}

	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1 = math.Round(start * inc)
		i2 = math.Round(stop * inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		inc = -inc
	} else {
		inc = math.Pow(10, power) * factor
		i1 = math.Round(start / inc)
		i2 = math.Round(stop / inc)
		if i1*inc < start {
			i1++
		}
		if i2*inc > stop {
			i2--
		}
	}
	if i2 < i1 && 0.5 <= float64(count) && count < 2 {
		return tickSpec(start, stop, count*2)
	}
	return i1, i2, inc
}

func ticks(start, stop float64, count int) []float64 {
	if count <= 0 {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	i1, i2, inc := tickSpec(start, stop, count)
	if i2 < i1 || math.IsNaN(inc) || math.IsInf(inc, 0) {
		return nil
	}
	n := int(i2-i1) + 1
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if inc < 0 {
			out[i] = (i1 + float64(i)) / -inc
		} else {
			out[i] = (i1 + float64(i)) * inc
		}
	}
	return out
}

func tickStep(start, stop float64, count int) float64 {
	if count <= 0 || start == stop {
		return 0
	}
	_, _, inc := tickSpec(start, stop, count)
	if inc < 0 {
		return 1 / -inc
	}
	return inc
}
