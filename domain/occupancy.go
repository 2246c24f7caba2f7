package domain

import (
	"time"

	"disasterprep/model"
)

const DefaultSafeThresholdPercent = 90.0

// Signal is the observational tier of an occupancy reading.
type Signal string

const (
	SignalNone     Signal = ""
	SignalWarning  Signal = "warning"
	SignalCritical Signal = "critical"
)

type Classification struct {
	OccupancyPercent float64
	IsOverCapacity   bool
	Signal           Signal
}

// ClassifyOccupancy derives the over-capacity flag and signal tier from raw
// numbers. A shelter without capacity never alarms.
func ClassifyOccupancy(capacityTotal, currentOccupancy int, safeThresholdPercent float64) Classification {
	if capacityTotal <= 0 {
		return Classification{}
	}

	pct := float64(currentOccupancy) * 100 / float64(capacityTotal)
	c := Classification{
		OccupancyPercent: Round2(pct),
		IsOverCapacity:   pct >= safeThresholdPercent,
	}
	switch {
	case pct >= 100:
		c.Signal = SignalCritical
	case pct >= 80:
		c.Signal = SignalWarning
	}
	return c
}

// ApplyClassification recomputes the derived fields of snap in place.
func ApplyClassification(snap *model.OccupancySnapshot, safeThresholdPercent float64) Classification {
	c := ClassifyOccupancy(snap.CapacityTotal, snap.CurrentOccupancy, safeThresholdPercent)
	snap.OccupancyPercent = c.OccupancyPercent
	snap.IsOverCapacity = c.IsOverCapacity
	return c
}

// BaselineSnapshot is the snapshot assumed for a shelter that has never
// recorded occupancy: full capacity, nobody inside.
func BaselineSnapshot(shelter *model.Shelter, now time.Time) *model.OccupancySnapshot {
	return &model.OccupancySnapshot{
		ShelterID:     shelter.ID,
		CapacityTotal: shelter.CapacityTotal,
		RecordedAt:    now,
	}
}

// ValidateSnapshot checks the raw numbers of a new snapshot.
func ValidateSnapshot(s *model.OccupancySnapshot) error {
	if s.CapacityTotal < 0 {
		return Validation("capacityTotal must not be negative")
	}
	if s.CurrentOccupancy < 0 {
		return Validation("currentOccupancy must not be negative")
	}
	if s.Adults < 0 || s.Children < 0 || s.Elderly < 0 || s.Disabled < 0 {
		return Validation("demographic counts must not be negative")
	}
	if s.Adults+s.Children+s.Elderly > s.CurrentOccupancy {
		return Validation("adults, children and elderly exceed currentOccupancy")
	}
	if s.Disabled > s.CurrentOccupancy {
		return Validation("disabled exceeds currentOccupancy")
	}
	return nil
}
