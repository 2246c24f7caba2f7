package services

import (
	"context"
	"time"

	"disasterprep/domain"
	"disasterprep/model"
	"disasterprep/repository"

	"go.uber.org/zap"
)

// WeatherSource yields the readings the risk rules run on.
type WeatherSource interface {
	Readings(ctx context.Context, lat, lon float64) (domain.Reading, []domain.Reading, error)
}

// AlertGenerator turns weather readings into stored alerts and pushes the
// severe ones.
type AlertGenerator struct {
	alerts   repository.AlertRepository
	weather  WeatherSource
	notifier Notifier
	now      func() time.Time
	logger   *zap.Logger
}

// NewAlertGenerator wires the generator. weather may be nil when the
// weather provider is disabled.
func NewAlertGenerator(alerts repository.AlertRepository, weather WeatherSource, notifier Notifier, logger *zap.Logger) *AlertGenerator {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &AlertGenerator{alerts: alerts, weather: weather, notifier: notifier, now: time.Now, logger: logger}
}

// FromWeather derives risks at loc and stores one alert per new risk type.
// A live weather alert of the same type and area suppresses a duplicate.
func (g *AlertGenerator) FromWeather(ctx context.Context, areaName string, loc model.Location) ([]model.Alert, error) {
	if g.weather == nil {
		return nil, domain.Unavailable("weather provider is not configured")
	}
	current, forecast, err := g.weather.Readings(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		return nil, err
	}

	now := g.now()
	risks := domain.DeriveWeatherRisks(current, forecast)
	if len(risks) == 0 {
		return []model.Alert{}, nil
	}

	live, err := g.alerts.List(ctx, repository.AlertFilter{LiveAt: now, Source: model.AlertWeather, AreaName: areaName})
	if err != nil {
		return nil, err
	}
	active := make(map[model.DisasterCategory]bool, len(live))
	for _, a := range live {
		active[a.Type] = true
	}

	created := make([]model.Alert, 0, len(risks))
	for _, r := range risks {
		if active[r.Type] {
			continue
		}
		a := domain.AlertFromRisk(r, areaName, loc, now)
		if err := g.alerts.Create(ctx, &a); err != nil {
			return created, err
		}
		g.logger.Info("weather alert issued",
			zap.String("alert_id", a.ID),
			zap.String("area", areaName),
			zap.String("type", string(a.Type)),
			zap.String("severity", string(a.Severity)),
		)
		g.Publish(ctx, a)
		created = append(created, a)
	}
	return created, nil
}

// Publish pushes a to devices when it is severe enough. Push failures are
// logged and never returned.
func (g *AlertGenerator) Publish(ctx context.Context, a model.Alert) {
	if !domain.Notifiable(a) {
		return
	}
	if err := g.notifier.NotifyAlert(ctx, a); err != nil {
		g.logger.Error("alert push failed", zap.String("alert_id", a.ID), zap.Error(err))
	}
}

// SyncShelters runs FromWeather for every open shelter and returns the
// number of alerts created. One shelter failing does not stop the rest.
func (g *AlertGenerator) SyncShelters(ctx context.Context, shelters repository.ShelterRepository) (int, error) {
	list, err := shelters.List(ctx, repository.ShelterFilter{Statuses: []model.ShelterStatus{model.ShelterOpen}})
	if err != nil {
		return 0, err
	}
	total := 0
	for _, s := range list {
		created, err := g.FromWeather(ctx, s.Name, s.Location)
		if err != nil {
			g.logger.Warn("weather sync failed for shelter", zap.String("shelter_id", s.ID), zap.Error(err))
			continue
		}
		total += len(created)
	}
	return total, nil
}
