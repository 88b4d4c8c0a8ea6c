package pricing

import (
	"strings"
	"time"
)

// Bounds is the allowed price range for a calendar day.
type Bounds struct {
	Min float64
	Max float64
}

// Contains reports whether price lies inside the bounds.
func (b Bounds) Contains(price float64) bool {
	return price >= b.Min && price <= b.Max
}

// Step maps an occupancy threshold to a multiplier. Tables are ordered by
// ascending Min; the last step whose Min is <= the input wins.
type Step struct {
	Min   float64
	Value float64
}

// TrafficStep maps a concurrent-viewer threshold to a multiplier.
type TrafficStep struct {
	Min   int
	Value float64
}

// Band is a time-of-day multiplier window covering hours [From, To).
type Band struct {
	From       int
	To         int
	Multiplier float64
}

// Profile carries every tunable of the price model. Historical formula
// variants differ only in these tables, so a variant is plain data selected
// by name rather than a separate code path.
type Profile struct {
	Name string

	// HighDays marks higher-demand calendar days (bucket B); all other days
	// fall in the lower-demand bucket A.
	HighDays map[time.Weekday]bool

	LowBounds  Bounds
	HighBounds Bounds

	LowOccupancy  []Step
	HighOccupancy []Step

	TimeBands    []Band
	TrafficSteps []TrafficStep

	// Volatility is the half-width of the random multiplier range, e.g. 0.03
	// draws from [0.97, 1.03].
	Volatility float64

	// Momentum correction: when previous/base drifts above DriftHigh the
	// price is nudged down by Correction, below DriftLow nudged up.
	DriftHigh  float64
	DriftLow   float64
	Correction float64
}

// Default is the tuning in production use.
func Default() Profile {
	return Profile{
		Name: "default",
		HighDays: map[time.Weekday]bool{
			time.Friday:   true,
			time.Saturday: true,
			time.Sunday:   true,
		},
		LowBounds:  Bounds{Min: 75, Max: 99},
		HighBounds: Bounds{Min: 80, Max: 99},
		LowOccupancy: []Step{
			{Min: 0, Value: 0.90},
			{Min: 0.30, Value: 0.97},
			{Min: 0.60, Value: 1.02},
			{Min: 0.80, Value: 1.08},
		},
		HighOccupancy: []Step{
			{Min: 0, Value: 0.96},
			{Min: 0.30, Value: 1.00},
			{Min: 0.60, Value: 1.06},
			{Min: 0.80, Value: 1.15},
		},
		TimeBands: []Band{
			{From: 6, To: 11, Multiplier: 0.95},  // morning planning window
			{From: 12, To: 17, Multiplier: 1.10}, // afternoon peak booking
			{From: 17, To: 21, Multiplier: 1.04}, // evening same-day
			{From: 21, To: 24, Multiplier: 1.07}, // late-night urgency
		},
		TrafficSteps: []TrafficStep{
			{Min: 0, Value: 0.97},
			{Min: 10, Value: 1.00},
			{Min: 50, Value: 1.03},
			{Min: 120, Value: 1.06},
		},
		Volatility: 0.03,
		DriftHigh:  1.15,
		DriftLow:   0.85,
		Correction: 0.03,
	}
}

// Legacy reproduces the coarser tuning of earlier service iterations.
func Legacy() Profile {
	p := Default()
	p.Name = "legacy"
	p.LowOccupancy = []Step{
		{Min: 0, Value: 0.95},
		{Min: 0.50, Value: 1.00},
		{Min: 0.80, Value: 1.10},
	}
	p.HighOccupancy = []Step{
		{Min: 0, Value: 1.00},
		{Min: 0.50, Value: 1.05},
		{Min: 0.80, Value: 1.12},
	}
	p.TimeBands = []Band{
		{From: 12, To: 18, Multiplier: 1.08},
		{From: 20, To: 24, Multiplier: 1.05},
	}
	p.Volatility = 0.05
	p.Correction = 0.02
	return p
}

// ProfileByName resolves a configured profile name, defaulting to Default.
func ProfileByName(name string) (Profile, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return Default(), true
	case "legacy":
		return Legacy(), true
	default:
		return Default(), false
	}
}

func (p Profile) bucketBounds(day time.Weekday) Bounds {
	if p.HighDays[day] {
		return p.HighBounds
	}
	return p.LowBounds
}

func (p Profile) occupancySteps(day time.Weekday) []Step {
	if p.HighDays[day] {
		return p.HighOccupancy
	}
	return p.LowOccupancy
}

func (p Profile) bandMultiplier(hour int) float64 {
	for _, b := range p.TimeBands {
		if hour >= b.From && hour < b.To {
			return b.Multiplier
		}
	}
	return 1.0
}

func (p Profile) trafficMultiplier(viewers int) float64 {
	value := 1.0
	for _, s := range p.TrafficSteps {
		if viewers >= s.Min {
			value = s.Value
		}
	}
	return value
}
