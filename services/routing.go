package services

import (
	"context"
	"errors"
	"fmt"

	"disasterprep/config"
	"disasterprep/domain"
	"disasterprep/model"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// MaxMatrixDestinations bounds one matrix request.
const MaxMatrixDestinations = 25

// TravelEstimate is the road distance and time from the origin to one
// destination. Reachable is false when the router found no route.
type TravelEstimate struct {
	DurationSeconds float64
	DistanceKm      float64
	Reachable       bool
}

type orsMatrixRequest struct {
	Locations    [][2]float64 `json:"locations"`
	Sources      []int        `json:"sources"`
	Destinations []int        `json:"destinations"`
	Metrics      []string     `json:"metrics"`
	Units        string       `json:"units"`
}

type orsMatrixResponse struct {
	Durations [][]*float64 `json:"durations"`
	Distances [][]*float64 `json:"distances"`
}

// RoutingClient calls the openrouteservice matrix endpoint.
type RoutingClient struct {
	http    *resty.Client
	profile string
	logger  *zap.Logger
}

func NewRoutingClient(cfg config.Routing, logger *zap.Logger) (*RoutingClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("routing: api key is required")
	}
	profile := cfg.Profile
	if profile == "" {
		profile = "driving-car"
	}
	client := newHTTPClient(cfg.BaseURL, cfg.Timeout).
		SetHeader("Authorization", cfg.APIKey).
		SetHeader("Content-Type", "application/json")
	return &RoutingClient{http: client, profile: profile, logger: logger}, nil
}

// Matrix returns one estimate per destination, in input order.
func (r *RoutingClient) Matrix(ctx context.Context, origin model.Location, destinations []model.Location) ([]TravelEstimate, error) {
	if len(destinations) == 0 {
		return nil, nil
	}
	if len(destinations) > MaxMatrixDestinations {
		return nil, domain.Validation("at most %d destinations per request", MaxMatrixDestinations)
	}

	req := orsMatrixRequest{
		Locations: make([][2]float64, 0, len(destinations)+1),
		Sources:   []int{0},
		Metrics:   []string{"duration", "distance"},
		Units:     "km",
	}
	req.Locations = append(req.Locations, [2]float64{origin.Longitude, origin.Latitude})
	for i, d := range destinations {
		req.Locations = append(req.Locations, [2]float64{d.Longitude, d.Latitude})
		req.Destinations = append(req.Destinations, i+1)
	}

	var out orsMatrixResponse
	resp, err := r.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/v2/matrix/" + r.profile)
	if err := checkResponse("routing", resp, err); err != nil {
		r.logger.Error("routing matrix request failed", zap.Int("destinations", len(destinations)), zap.Error(err))
		return nil, err
	}
	if len(out.Durations) == 0 || len(out.Durations[0]) != len(destinations) {
		return nil, domain.Upstream("routing", fmt.Errorf("matrix has unexpected shape"))
	}

	estimates := make([]TravelEstimate, len(destinations))
	for i := range destinations {
		dur := out.Durations[0][i]
		var dist *float64
		if len(out.Distances) > 0 && len(out.Distances[0]) > i {
			dist = out.Distances[0][i]
		}
		if dur == nil {
			continue
		}
		estimates[i] = TravelEstimate{DurationSeconds: *dur, Reachable: true}
		if dist != nil {
			estimates[i].DistanceKm = *dist
		}
	}
	return estimates, nil
}
