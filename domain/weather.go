package domain

import (
	"fmt"
	"time"

	"disasterprep/model"
)

// Reading is the subset of a weather observation or forecast entry the
// risk rules look at.
type Reading struct {
	Time        time.Time
	Temperature float64
	WindSpeed   float64
	Rain1h      float64
	Rain3h      float64
}

type Risk struct {
	Type     model.DisasterCategory
	Severity model.Severity
	Reason   string
}

const WeatherAlertLifetime = 12 * time.Hour

// DeriveWeatherRisks inspects the current reading and the forecast and
// returns at most one risk per disaster type, keeping the most severe.
func DeriveWeatherRisks(current Reading, forecast []Reading) []Risk {
	best := map[model.DisasterCategory]Risk{}
	keep := func(r Risk) {
		if prev, ok := best[r.Type]; !ok || r.Severity.Rank() > prev.Severity.Rank() {
			best[r.Type] = r
		}
	}

	switch {
	case current.Rain1h >= 30:
		keep(Risk{model.CategoryFlood, model.SeverityCritical, fmt.Sprintf("rainfall %.1f mm in the last hour", current.Rain1h)})
	case current.Rain1h >= 10:
		keep(Risk{model.CategoryFlood, model.SeverityHigh, fmt.Sprintf("rainfall %.1f mm in the last hour", current.Rain1h)})
	}
	for _, f := range forecast {
		if f.Rain3h >= 20 {
			keep(Risk{model.CategoryFlood, model.SeverityHigh, fmt.Sprintf("forecast rainfall %.1f mm by %s", f.Rain3h, f.Time.UTC().Format(time.RFC3339))})
		}
	}

	for _, r := range append([]Reading{current}, forecast...) {
		switch {
		case r.WindSpeed >= 25:
			keep(Risk{model.CategoryStorm, model.SeverityCritical, fmt.Sprintf("wind speed %.1f m/s", r.WindSpeed)})
		case r.WindSpeed >= 17:
			keep(Risk{model.CategoryStorm, model.SeverityHigh, fmt.Sprintf("wind speed %.1f m/s", r.WindSpeed)})
		}
		switch {
		case r.Temperature >= 40:
			keep(Risk{model.CategoryDrought, model.SeverityHigh, fmt.Sprintf("temperature %.1f °C", r.Temperature)})
		case r.Temperature >= 35:
			keep(Risk{model.CategoryDrought, model.SeverityMedium, fmt.Sprintf("temperature %.1f °C", r.Temperature)})
		}
	}

	out := make([]Risk, 0, len(best))
	for _, t := range []model.DisasterCategory{model.CategoryFlood, model.CategoryStorm, model.CategoryDrought} {
		if r, ok := best[t]; ok {
			out = append(out, r)
		}
	}
	return out
}

// AlertFromRisk builds the weather alert for one derived risk.
func AlertFromRisk(r Risk, areaName string, loc model.Location, now time.Time) model.Alert {
	return model.Alert{
		Title:       fmt.Sprintf("%s risk (%s) in %s", r.Type, r.Severity, areaName),
		Description: r.Reason,
		Type:        r.Type,
		Severity:    r.Severity,
		AreaName:    areaName,
		Location:    loc,
		RadiusKm:    10,
		Source:      model.AlertWeather,
		IsActive:    true,
		IssuedAt:    now,
		ExpiresAt:   now.Add(WeatherAlertLifetime),
	}
}

// Notifiable reports whether an alert is severe enough to push.
func Notifiable(a model.Alert) bool {
	return a.Severity.Rank() >= model.SeverityHigh.Rank()
}
