package alert

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"disasterprep/controller/controllertest"
	"disasterprep/domain"
	"disasterprep/model"
	"disasterprep/repository"
	"disasterprep/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubWeather struct{ current domain.Reading }

func (s stubWeather) Readings(context.Context, float64, float64) (domain.Reading, []domain.Reading, error) {
	return s.current, nil, nil
}

type recorder struct {
	mu   sync.Mutex
	sent []model.Alert
}

func (r *recorder) NotifyAlert(_ context.Context, a model.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, a)
	return nil
}

type fixture struct {
	router *gin.Engine
	store  *repository.Store
	pushed *recorder
	admin  string
	user   string
}

func setup(t *testing.T, weather services.WeatherSource) *fixture {
	t.Helper()
	tm := controllertest.Tokens()
	store := repository.NewMemoryStore()
	pushed := &recorder{}
	router := gin.New()
	AlertController(router, tm, store, services.NewAlertGenerator(store.Alerts, weather, pushed, zap.NewNop()))
	return &fixture{
		router: router,
		store:  store,
		pushed: pushed,
		admin:  controllertest.Token(t, tm, 9, model.RoleAdmin),
		user:   controllertest.Token(t, tm, 1, model.RoleUser),
	}
}

func alertBody(severity string) gin.H {
	return gin.H{
		"title":    "River overflow",
		"type":     "flood",
		"severity": severity,
		"areaName": "Riverside",
		"location": gin.H{"latitude": 13.7, "longitude": 100.5},
		"radiusKm": 5,
	}
}

func TestCreateAlert(t *testing.T) {
	f := setup(t, nil)

	w := controllertest.Do(f.router, http.MethodPost, "/api/alerts", alertBody("HIGH"), f.user)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = controllertest.Do(f.router, http.MethodPost, "/api/alerts", alertBody("HIGH"), f.admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var a model.Alert
	controllertest.DecodeInto(t, w, "alert", &a)
	assert.Equal(t, model.AlertManual, a.Source)
	assert.Equal(t, model.CategoryFlood, a.Type)
	assert.True(t, a.IsActive)
	require.Len(t, f.pushed.sent, 1, "HIGH alerts are pushed")

	w = controllertest.Do(f.router, http.MethodPost, "/api/alerts", alertBody("LOW"), f.admin)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, f.pushed.sent, 1, "LOW alerts are not pushed")

	past := alertBody("LOW")
	past["expiresAt"] = time.Now().Add(-time.Hour).Format(time.RFC3339)
	w = controllertest.Do(f.router, http.MethodPost, "/api/alerts", past, f.admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	bad := alertBody("LOW")
	bad["type"] = "ZOMBIES"
	w = controllertest.Do(f.router, http.MethodPost, "/api/alerts", bad, f.admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListAlerts_OnlyLive(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, f.store.Alerts.Create(ctx, &model.Alert{Title: "live", Type: model.CategoryFlood, AreaName: "A", Source: model.AlertManual, IsActive: true, IssuedAt: now.Add(-time.Hour), ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, f.store.Alerts.Create(ctx, &model.Alert{Title: "expired", Type: model.CategoryFlood, AreaName: "A", Source: model.AlertManual, IsActive: true, IssuedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, f.store.Alerts.Create(ctx, &model.Alert{Title: "inactive", Type: model.CategoryStorm, AreaName: "B", Source: model.AlertWeather, IssuedAt: now}))
	require.NoError(t, f.store.Alerts.Create(ctx, &model.Alert{Title: "storm", Type: model.CategoryStorm, AreaName: "B", Source: model.AlertWeather, IsActive: true, IssuedAt: now}))

	w := controllertest.Do(f.router, http.MethodGet, "/api/alerts", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, controllertest.Decode(t, w)["count"])

	w = controllertest.Do(f.router, http.MethodGet, "/api/alerts?type=storm", nil, "")
	var got []model.Alert
	controllertest.DecodeInto(t, w, "alerts", &got)
	require.Len(t, got, 1)
	assert.Equal(t, "storm", got[0].Title)

	w = controllertest.Do(f.router, http.MethodGet, "/api/alerts?source=manual&area=A", nil, "")
	assert.EqualValues(t, 1, controllertest.Decode(t, w)["count"])
}

func TestUpdateAndDeleteAlert(t *testing.T) {
	f := setup(t, nil)
	w := controllertest.Do(f.router, http.MethodPost, "/api/alerts", alertBody("MEDIUM"), f.admin)
	require.Equal(t, http.StatusCreated, w.Code)
	var a model.Alert
	controllertest.DecodeInto(t, w, "alert", &a)

	body := alertBody("CRITICAL")
	body["isActive"] = false
	w = controllertest.Do(f.router, http.MethodPut, "/api/alerts/"+a.ID, body, f.admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	controllertest.DecodeInto(t, w, "alert", &a)
	assert.Equal(t, model.SeverityCritical, a.Severity)
	assert.False(t, a.IsActive)
	assert.Equal(t, model.AlertManual, a.Source)

	w = controllertest.Do(f.router, http.MethodGet, "/api/alerts/"+a.ID, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = controllertest.Do(f.router, http.MethodDelete, "/api/alerts/"+a.ID, nil, f.admin)
	require.Equal(t, http.StatusOK, w.Code)
	w = controllertest.Do(f.router, http.MethodGet, "/api/alerts/"+a.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWeatherAlerts(t *testing.T) {
	f := setup(t, stubWeather{current: domain.Reading{Rain1h: 40}})
	body := gin.H{"latitude": 13.7, "longitude": 100.5, "areaName": "Riverside"}

	w := controllertest.Do(f.router, http.MethodPost, "/api/alerts/weather", body, f.admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created []model.Alert
	controllertest.DecodeInto(t, w, "alerts", &created)
	require.Len(t, created, 1)
	assert.Equal(t, model.AlertWeather, created[0].Source)
	assert.Equal(t, model.SeverityCritical, created[0].Severity)

	w = controllertest.Do(f.router, http.MethodPost, "/api/alerts/weather", body, f.admin)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.EqualValues(t, 0, controllertest.Decode(t, w)["count"])
}

func TestWeatherAlerts_Disabled(t *testing.T) {
	f := setup(t, nil)
	w := controllertest.Do(f.router, http.MethodPost, "/api/alerts/weather",
		gin.H{"latitude": 1, "longitude": 1, "areaName": "x"}, f.admin)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
