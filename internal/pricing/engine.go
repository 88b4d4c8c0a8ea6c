package pricing

import (
	"math"
	"time"
)

// Source yields uniform values in [0, 1). *math/rand.Rand satisfies it, and
// tests substitute a fixed source for reproducible volatility.
type Source interface {
	Float64() float64
}

// Inputs are the demand signals a price is computed from.
type Inputs struct {
	BasePrice     float64
	Day           time.Weekday
	Occupancy     float64
	Hour          int
	PreviousPrice float64
	Traffic       int
}

// Quote is a computed price and its movement from the previous price.
type Quote struct {
	Price float64
	Delta float64
}

// Engine evaluates the price model for one profile. It holds no mutable
// state and is safe for concurrent use across units.
type Engine struct {
	profile Profile
}

func NewEngine(p Profile) *Engine {
	return &Engine{profile: p}
}

func (e *Engine) Profile() Profile {
	return e.profile
}

// BoundsFor returns the allowed price range for the given calendar day.
func (e *Engine) BoundsFor(day time.Weekday) Bounds {
	return e.profile.bucketBounds(day)
}

// Compute multiplies the base price by the occupancy, time-of-day, traffic,
// volatility and momentum factors, then clamps the result to the day bounds
// and rounds to the whole currency unit. It performs no I/O; out-of-range
// occupancy is clamped to [0, 1].
func (e *Engine) Compute(in Inputs, rng Source) Quote {
	occ := clamp01(in.Occupancy)

	price := in.BasePrice
	price *= stepValue(e.profile.occupancySteps(in.Day), occ)
	price *= e.profile.bandMultiplier(in.Hour)
	price *= e.profile.trafficMultiplier(in.Traffic)
	price *= e.volatility(rng)
	price *= e.momentum(in.PreviousPrice, in.BasePrice)

	bounds := e.profile.bucketBounds(in.Day)
	if price < bounds.Min {
		price = bounds.Min
	}
	if price > bounds.Max {
		price = bounds.Max
	}
	price = math.Round(price)

	return Quote{Price: price, Delta: price - in.PreviousPrice}
}

// volatility draws a bounded random multiplier from [1-v, 1+v].
func (e *Engine) volatility(rng Source) float64 {
	if rng == nil || e.profile.Volatility <= 0 {
		return 1.0
	}
	return 1.0 + e.profile.Volatility*(2*rng.Float64()-1)
}

// momentum damps oscillation around the base price: material drift above
// base pulls the next price down slightly, drift below pushes it up.
func (e *Engine) momentum(previous, base float64) float64 {
	if previous <= 0 || base <= 0 {
		return 1.0
	}
	ratio := previous / base
	switch {
	case ratio > e.profile.DriftHigh:
		return 1.0 - e.profile.Correction
	case ratio < e.profile.DriftLow:
		return 1.0 + e.profile.Correction
	default:
		return 1.0
	}
}

func stepValue(steps []Step, v float64) float64 {
	value := 1.0
	for _, s := range steps {
		if v >= s.Min {
			value = s.Value
		}
	}
	return value
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
