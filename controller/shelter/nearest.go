package shelter

import (
	"context"
	"net/http"
	"sort"

	"disasterprep/controller"
	"disasterprep/domain"
	"disasterprep/dto"
	"disasterprep/model"
	"disasterprep/repository"
	"disasterprep/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultNearestLimit = 5
	travelStraightLine  = "straight_line"
	travelRoute         = "route"
)

// TravelMatrix estimates travel from one origin to many destinations.
type TravelMatrix interface {
	Matrix(ctx context.Context, origin model.Location, destinations []model.Location) ([]services.TravelEstimate, error)
}

// NearestShelters ranks open and standby shelters by great-circle distance
// and, when routing is configured, re-ranks the closest candidates by
// travel time.
func NearestShelters(c *gin.Context, store *repository.Store, routing TravelMatrix, logger *zap.Logger) {
	origin, err := controller.QueryCoords(c, "lat", "lng")
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	limit, err := controller.QueryInt(c, "limit", defaultNearestLimit)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	if limit == 0 {
		limit = defaultNearestLimit
	}
	if limit > services.MaxMatrixDestinations {
		limit = services.MaxMatrixDestinations
	}

	shelters, err := store.Shelters.List(c, repository.ShelterFilter{
		Statuses: []model.ShelterStatus{model.ShelterOpen, model.ShelterStandby},
	})
	if err != nil {
		controller.RespondError(c, err)
		return
	}

	results := make([]dto.NearestShelter, 0, len(shelters))
	for _, s := range shelters {
		results = append(results, dto.NearestShelter{
			Shelter:    s,
			DistanceKm: domain.Round2(domain.DistanceKm(origin, s.Location)),
			TravelMode: travelStraightLine,
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].DistanceKm < results[j].DistanceKm })
	if len(results) > services.MaxMatrixDestinations {
		results = results[:services.MaxMatrixDestinations]
	}

	mode := travelStraightLine
	if routing != nil && len(results) > 0 {
		if err := rankByTravelTime(c, routing, origin, results); err != nil {
			logger.Error("routing matrix failed", zap.Error(err))
			controller.RespondError(c, domain.Unavailable("routing service is unavailable"))
			return
		}
		mode = travelRoute
	}
	if len(results) > limit {
		results = results[:limit]
	}
	c.JSON(http.StatusOK, gin.H{"shelters": results, "count": len(results), "travelMode": mode})
}

// rankByTravelTime fills route fields in place and sorts reachable
// shelters by duration ahead of unreachable ones.
func rankByTravelTime(ctx context.Context, routing TravelMatrix, origin model.Location, results []dto.NearestShelter) error {
	dests := make([]model.Location, len(results))
	for i, r := range results {
		dests[i] = r.Shelter.Location
	}
	estimates, err := routing.Matrix(ctx, origin, dests)
	if err != nil {
		return err
	}

	for i := range results {
		if i >= len(estimates) || !estimates[i].Reachable {
			continue
		}
		d, km := estimates[i].DurationSeconds, estimates[i].DistanceKm
		results[i].DurationSeconds = &d
		results[i].RouteDistanceKm = &km
		results[i].TravelMode = travelRoute
	}
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].DurationSeconds, results[j].DurationSeconds
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return *a < *b
	})
	return nil
}
