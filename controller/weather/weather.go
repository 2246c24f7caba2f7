package weather

import (
	"context"
	"net/http"

	"disasterprep/controller"
	"disasterprep/domain"
	"disasterprep/services"

	"github.com/gin-gonic/gin"
)

type Provider interface {
	Current(ctx context.Context, lat, lon float64) (*services.CurrentWeather, error)
	Forecast(ctx context.Context, lat, lon float64) (*services.Forecast, error)
}

// WeatherController serves current conditions and forecasts. provider is
// nil when the weather integration is disabled.
func WeatherController(router *gin.Engine, provider Provider) {
	routes := router.Group("/api/weather")
	{
		routes.GET("/current", func(c *gin.Context) {
			Current(c, provider)
		})
		routes.GET("/forecast", func(c *gin.Context) {
			Forecast(c, provider)
		})
	}
}

func Current(c *gin.Context, provider Provider) {
	if provider == nil {
		controller.RespondError(c, domain.Unavailable("weather service is not configured"))
		return
	}
	loc, err := controller.QueryCoords(c, "lat", "lon")
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	w, err := provider.Current(c, loc.Latitude, loc.Longitude)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func Forecast(c *gin.Context, provider Provider) {
	if provider == nil {
		controller.RespondError(c, domain.Unavailable("weather service is not configured"))
		return
	}
	loc, err := controller.QueryCoords(c, "lat", "lon")
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	f, err := provider.Forecast(c, loc.Latitude, loc.Longitude)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}
