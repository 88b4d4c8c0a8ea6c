package domain

import "time"

// PricingPeriod labels which base price a unit is sold under.
type PricingPeriod string

const (
	PeriodMorning PricingPeriod = "morning"
	PeriodNight   PricingPeriod = "night"
)

// PricingUnit is one bookable room-type/period combination with its own
// price and availability count.
type PricingUnit struct {
	ID               string
	RoomType         string
	Period           PricingPeriod
	MorningBasePrice float64
	NightBasePrice   float64
	CurrentPrice     float64
	AvailableCount   int
	TotalCount       int
	// DemandSignal is a concurrent-viewer count fed by the traffic proxy.
	DemandSignal int
	Active       bool
	LastUpdateAt time.Time
	CreatedAt    time.Time
}

// BasePrice returns the base price matching the unit's pricing period.
func (u PricingUnit) BasePrice() float64 {
	if u.Period == PeriodNight {
		return u.NightBasePrice
	}
	return u.MorningBasePrice
}

// Occupancy is the fraction of total capacity currently unavailable.
func (u PricingUnit) Occupancy() float64 {
	if u.TotalCount <= 0 {
		return 0
	}
	occ := float64(u.TotalCount-u.AvailableCount) / float64(u.TotalCount)
	if occ < 0 {
		return 0
	}
	if occ > 1 {
		return 1
	}
	return occ
}
