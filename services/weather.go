package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"disasterprep/config"
	"disasterprep/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type CurrentWeather struct {
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feelsLike"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"windSpeed"`
	Rain1h      float64   `json:"rain1h"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	City        string    `json:"city"`
	ObservedAt  time.Time `json:"observedAt"`
}

type ForecastEntry struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"windSpeed"`
	Rain3h      float64   `json:"rain3h"`
	Description string    `json:"description"`
}

type Forecast struct {
	City    string          `json:"city"`
	Entries []ForecastEntry `json:"entries"`
}

// OpenWeatherMap response shapes.
type owmCondition struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type owmCurrent struct {
	Weather []owmCondition `json:"weather"`
	Main    struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
	Name string `json:"name"`
	Dt   int64  `json:"dt"`
}

type owmForecast struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Weather []owmCondition `json:"weather"`
		Wind    struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Rain struct {
			ThreeHours float64 `json:"3h"`
		} `json:"rain"`
	} `json:"list"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
}

// WeatherClient reads current conditions and the 5-day forecast from
// OpenWeatherMap, caching responses in the KV store.
type WeatherClient struct {
	http   *resty.Client
	apiKey string
	units  string
	cache  KVStore
	ttl    time.Duration
	logger *zap.Logger
}

func NewWeatherClient(cfg config.Weather, cache KVStore, ttl time.Duration, logger *zap.Logger) (*WeatherClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("weather: api key is required")
	}
	if cache == nil {
		cache = NopKVStore{}
	}
	units := cfg.Units
	if units == "" {
		units = "metric"
	}
	return &WeatherClient{
		http:   newHTTPClient(cfg.BaseURL, defaultTimeout),
		apiKey: cfg.APIKey,
		units:  units,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}, nil
}

func (w *WeatherClient) Current(ctx context.Context, lat, lon float64) (*CurrentWeather, error) {
	var raw owmCurrent
	if err := w.fetch(ctx, "/data/2.5/weather", lat, lon, &raw); err != nil {
		return nil, err
	}
	out := &CurrentWeather{
		Temperature: raw.Main.Temp,
		FeelsLike:   raw.Main.FeelsLike,
		Humidity:    raw.Main.Humidity,
		WindSpeed:   raw.Wind.Speed,
		Rain1h:      raw.Rain.OneHour,
		City:        raw.Name,
		ObservedAt:  time.Unix(raw.Dt, 0).UTC(),
	}
	if len(raw.Weather) > 0 {
		out.Description = raw.Weather[0].Description
		out.Icon = raw.Weather[0].Icon
	}
	return out, nil
}

func (w *WeatherClient) Forecast(ctx context.Context, lat, lon float64) (*Forecast, error) {
	var raw owmForecast
	if err := w.fetch(ctx, "/data/2.5/forecast", lat, lon, &raw); err != nil {
		return nil, err
	}
	out := &Forecast{City: raw.City.Name, Entries: make([]ForecastEntry, 0, len(raw.List))}
	for _, e := range raw.List {
		fe := ForecastEntry{
			Time:        time.Unix(e.Dt, 0).UTC(),
			Temperature: e.Main.Temp,
			Humidity:    e.Main.Humidity,
			WindSpeed:   e.Wind.Speed,
			Rain3h:      e.Rain.ThreeHours,
		}
		if len(e.Weather) > 0 {
			fe.Description = e.Weather[0].Description
		}
		out.Entries = append(out.Entries, fe)
	}
	return out, nil
}

// Readings fetches current conditions and forecast concurrently and
// reduces them to the inputs of the weather risk rules.
func (w *WeatherClient) Readings(ctx context.Context, lat, lon float64) (domain.Reading, []domain.Reading, error) {
	var (
		cur *CurrentWeather
		fc  *Forecast
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cur, err = w.Current(gctx, lat, lon)
		return err
	})
	g.Go(func() error {
		var err error
		fc, err = w.Forecast(gctx, lat, lon)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Reading{}, nil, err
	}

	current := domain.Reading{
		Time:        cur.ObservedAt,
		Temperature: cur.Temperature,
		WindSpeed:   cur.WindSpeed,
		Rain1h:      cur.Rain1h,
	}
	forecast := make([]domain.Reading, 0, len(fc.Entries))
	for _, e := range fc.Entries {
		forecast = append(forecast, domain.Reading{
			Time:        e.Time,
			Temperature: e.Temperature,
			WindSpeed:   e.WindSpeed,
			Rain3h:      e.Rain3h,
		})
	}
	return current, forecast, nil
}

func (w *WeatherClient) fetch(ctx context.Context, path string, lat, lon float64, out any) error {
	key := fmt.Sprintf("weather:%s:%.3f:%.3f:%s", path, lat, lon, w.units)
	if cached, err := w.cache.Get(ctx, key); err == nil {
		if err := json.Unmarshal([]byte(cached), out); err == nil {
			return nil
		}
	} else if !errors.Is(err, ErrCacheMiss) {
		w.logger.Warn("weather cache read failed", zap.String("key", key), zap.Error(err))
	}

	resp, err := w.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat":   strconv.FormatFloat(lat, 'f', -1, 64),
			"lon":   strconv.FormatFloat(lon, 'f', -1, 64),
			"appid": w.apiKey,
			"units": w.units,
		}).
		Get(path)
	if err := checkResponse("weather", resp, err); err != nil {
		w.logger.Error("weather request failed", zap.String("path", path), zap.Error(err))
		return err
	}

	body := resp.Body()
	if err := json.Unmarshal(body, out); err != nil {
		return domain.Upstream("weather", fmt.Errorf("decode response: %w", err))
	}
	if w.ttl > 0 {
		if err := w.cache.Set(ctx, key, string(body), w.ttl); err != nil {
			w.logger.Warn("weather cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}
