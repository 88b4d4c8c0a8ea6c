package pricing

import (
	"math"
	"math/rand"
	"testing"
	"time"
)

// fixedSource returns the same value on every draw; 0.5 makes the
// volatility factor exactly neutral.
type fixedSource struct {
	v float64
}

func (f fixedSource) Float64() float64 {
	return f.v
}

var neutral = fixedSource{v: 0.5}

func TestCompute_WithinDayBounds(t *testing.T) {
	t.Parallel()

	for _, profile := range []Profile{Default(), Legacy()} {
		engine := NewEngine(profile)
		days := []time.Weekday{
			time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
			time.Thursday, time.Friday, time.Saturday,
		}
		for _, day := range days {
			for _, base := range []float64{40, 86, 150} {
				for _, occ := range []float64{-0.5, 0, 0.1, 0.45, 0.75, 0.95, 1, 1.5} {
					for hour := 0; hour < 24; hour++ {
						for _, traffic := range []int{0, 5, 25, 80, 500} {
							for _, draw := range []float64{0, 0.25, 0.5, 0.99} {
								q := engine.Compute(Inputs{
									BasePrice:     base,
									Day:           day,
									Occupancy:     occ,
									Hour:          hour,
									PreviousPrice: base * 1.4,
									Traffic:       traffic,
								}, fixedSource{v: draw})

								bounds := engine.BoundsFor(day)
								if q.Price < bounds.Min || q.Price > bounds.Max {
									t.Fatalf("profile %s day %s: price %v outside [%v, %v]",
										profile.Name, day, q.Price, bounds.Min, bounds.Max)
								}
								if q.Price != math.Round(q.Price) {
									t.Fatalf("price %v not rounded to whole unit", q.Price)
								}
							}
						}
					}
				}
			}
		}
	}
}

func TestCompute_DeterministicUnderSeed(t *testing.T) {
	t.Parallel()

	in := Inputs{
		BasePrice:     86,
		Day:           time.Wednesday,
		Occupancy:     0.5,
		Hour:          14,
		PreviousPrice: 88,
		Traffic:       40,
	}

	run := func() []float64 {
		engine := NewEngine(Default())
		rng := rand.New(rand.NewSource(42))
		out := make([]float64, 0, 20)
		for i := 0; i < 20; i++ {
			out = append(out, engine.Compute(in, rng).Price)
		}
		return out
	}

	first := run()
	second := run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("draw %d differs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestCompute_SaturdayPeakClampsAtCeiling(t *testing.T) {
	t.Parallel()

	engine := NewEngine(Default())
	q := engine.Compute(Inputs{
		BasePrice:     86,
		Day:           time.Saturday,
		Occupancy:     0.95,
		Hour:          15,
		PreviousPrice: 86,
		Traffic:       30,
	}, neutral)

	if q.Price != 99 {
		t.Fatalf("expected ceiling 99, got %v", q.Price)
	}
}

func TestCompute_MondayMorningFloors(t *testing.T) {
	t.Parallel()

	engine := NewEngine(Default())
	q := engine.Compute(Inputs{
		BasePrice:     86,
		Day:           time.Monday,
		Occupancy:     0.10,
		Hour:          9,
		PreviousPrice: 86,
		Traffic:       30,
	}, neutral)

	if q.Price != 75 {
		t.Fatalf("expected floor 75, got %v", q.Price)
	}
}

func TestCompute_TrafficMonotonic(t *testing.T) {
	t.Parallel()

	engine := NewEngine(Default())
	previous := 0.0
	for _, traffic := range []int{0, 9, 10, 49, 50, 119, 120, 400} {
		q := engine.Compute(Inputs{
			BasePrice:     86,
			Day:           time.Monday,
			Occupancy:     0.45,
			Hour:          3,
			PreviousPrice: 86,
			Traffic:       traffic,
		}, neutral)
		if q.Price < previous {
			t.Fatalf("price dropped from %v to %v at traffic %d", previous, q.Price, traffic)
		}
		previous = q.Price
	}
}

func TestCompute_MomentumCorrection(t *testing.T) {
	t.Parallel()

	engine := NewEngine(Default())
	base := Inputs{
		BasePrice:     86,
		Day:           time.Monday,
		Occupancy:     0.45,
		Hour:          3,
		Traffic:       30,
		PreviousPrice: 86,
	}

	steady := engine.Compute(base, neutral).Price

	drifted := base
	drifted.PreviousPrice = 120
	if got := engine.Compute(drifted, neutral).Price; got >= steady {
		t.Fatalf("expected downward correction below %v, got %v", steady, got)
	}

	sagged := base
	sagged.PreviousPrice = 60
	if got := engine.Compute(sagged, neutral).Price; got <= steady {
		t.Fatalf("expected upward correction above %v, got %v", steady, got)
	}
}

func TestCompute_DeltaReflectsMovement(t *testing.T) {
	t.Parallel()

	engine := NewEngine(Default())
	q := engine.Compute(Inputs{
		BasePrice:     86,
		Day:           time.Monday,
		Occupancy:     0.45,
		Hour:          3,
		PreviousPrice: 80,
		Traffic:       30,
	}, neutral)

	if q.Delta != q.Price-80 {
		t.Fatalf("expected delta %v, got %v", q.Price-80, q.Delta)
	}
}

func TestBoundsFor_Buckets(t *testing.T) {
	t.Parallel()

	engine := NewEngine(Default())
	if b := engine.BoundsFor(time.Monday); b.Min != 75 || b.Max != 99 {
		t.Fatalf("unexpected bucket-A bounds %+v", b)
	}
	if b := engine.BoundsFor(time.Saturday); b.Min != 80 || b.Max != 99 {
		t.Fatalf("unexpected bucket-B bounds %+v", b)
	}
}

func TestProfileByName(t *testing.T) {
	t.Parallel()

	if p, ok := ProfileByName("legacy"); !ok || p.Name != "legacy" {
		t.Fatalf("expected legacy profile, got %s ok=%v", p.Name, ok)
	}
	if p, ok := ProfileByName(""); !ok || p.Name != "default" {
		t.Fatalf("expected default profile for empty name, got %s ok=%v", p.Name, ok)
	}
	if p, ok := ProfileByName("unknown"); ok || p.Name != "default" {
		t.Fatalf("expected default fallback for unknown name, got %s ok=%v", p.Name, ok)
	}
}
