package alert

import (
	"net/http"
	"strings"
	"time"

	"disasterprep/controller"
	"disasterprep/domain"
	"disasterprep/dto"
	"disasterprep/middleware"
	"disasterprep/model"
	"disasterprep/repository"
	"disasterprep/services"

	"github.com/gin-gonic/gin"
)

func AlertController(router *gin.Engine, tm *middleware.TokenManager, store *repository.Store, generator *services.AlertGenerator) {
	routes := router.Group("/api/alerts")
	{
		routes.GET("", func(c *gin.Context) {
			ListAlerts(c, store)
		})
		routes.GET("/:id", func(c *gin.Context) {
			GetAlert(c, store)
		})
		routes.POST("", tm.AccessTokenMiddleware(), middleware.AdminMiddleware(), func(c *gin.Context) {
			CreateAlert(c, store, generator)
		})
		routes.PUT("/:id", tm.AccessTokenMiddleware(), middleware.AdminMiddleware(), func(c *gin.Context) {
			UpdateAlert(c, store)
		})
		routes.DELETE("/:id", tm.AccessTokenMiddleware(), middleware.AdminMiddleware(), func(c *gin.Context) {
			DeleteAlert(c, store)
		})
		routes.POST("/weather", tm.AccessTokenMiddleware(), middleware.AdminMiddleware(), func(c *gin.Context) {
			WeatherAlerts(c, generator)
		})
	}
}

// ListAlerts returns alerts that are active and not yet expired.
func ListAlerts(c *gin.Context, store *repository.Store) {
	limit, err := controller.QueryInt(c, "limit", 0)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	f := repository.AlertFilter{
		LiveAt:   time.Now(),
		Type:     model.DisasterCategory(strings.ToUpper(c.Query("type"))),
		Source:   model.AlertSource(strings.ToUpper(c.Query("source"))),
		AreaName: strings.TrimSpace(c.Query("area")),
		Limit:    limit,
	}
	alerts, err := store.Alerts.List(c, f)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "count": len(alerts)})
}

func GetAlert(c *gin.Context, store *repository.Store) {
	a, err := store.Alerts.Get(c, c.Param("id"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alert": a})
}

func applyRequest(a *model.Alert, req dto.AlertRequest) error {
	a.Title = strings.TrimSpace(req.Title)
	a.Description = strings.TrimSpace(req.Description)
	a.Type = model.DisasterCategory(strings.ToUpper(string(req.Type)))
	a.Severity = req.Severity
	a.AreaName = strings.TrimSpace(req.AreaName)
	a.Location = req.Location.Model()
	a.RadiusKm = req.RadiusKm
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}
	a.ExpiresAt = time.Time{}
	if req.ExpiresAt != nil {
		a.ExpiresAt = req.ExpiresAt.UTC()
	}

	if a.Title == "" {
		return domain.Validation("title is required")
	}
	if !domain.ValidCategory(a.Type) {
		return domain.Validation("unknown alert type %q", req.Type)
	}
	if err := domain.ValidateLocation(a.Location); err != nil {
		return err
	}
	if !a.ExpiresAt.IsZero() && !a.ExpiresAt.After(a.IssuedAt) {
		return domain.Validation("expiresAt must be after issuedAt")
	}
	return nil
}

func CreateAlert(c *gin.Context, store *repository.Store, generator *services.AlertGenerator) {
	var req dto.AlertRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	a := &model.Alert{
		Source:    model.AlertManual,
		IsActive:  true,
		IssuedAt:  time.Now().UTC(),
		CreatedBy: middleware.UserKey(c),
	}
	if err := applyRequest(a, req); err != nil {
		controller.RespondError(c, err)
		return
	}
	if err := store.Alerts.Create(c, a); err != nil {
		controller.RespondError(c, err)
		return
	}
	generator.Publish(c, *a)
	c.JSON(http.StatusCreated, gin.H{"message": "Alert created successfully", "alert": a})
}

func UpdateAlert(c *gin.Context, store *repository.Store) {
	var req dto.AlertRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	a, err := store.Alerts.Mutate(c, c.Param("id"), func(a *model.Alert) error {
		return applyRequest(a, req)
	})
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Alert updated successfully", "alert": a})
}

func DeleteAlert(c *gin.Context, store *repository.Store) {
	if err := store.Alerts.Delete(c, c.Param("id")); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Alert deleted successfully"})
}

// WeatherAlerts derives risk alerts from the weather at a location.
func WeatherAlerts(c *gin.Context, generator *services.AlertGenerator) {
	var req dto.WeatherAlertRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	loc := model.Location{Latitude: *req.Latitude, Longitude: *req.Longitude}
	created, err := generator.FromWeather(c, strings.TrimSpace(req.AreaName), loc)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"alerts": created, "count": len(created)})
}
