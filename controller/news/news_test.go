package news

import (
	"context"
	"errors"
	"net/http"
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

type fakeFetcher struct {
	items []model.ClimateNews
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(context.Context) ([]model.ClimateNews, error) {
	f.calls++
	return f.items, f.err
}

func setup(t *testing.T, fetcher services.NewsFetcher) (*gin.Engine, *repository.Store, string) {
	t.Helper()
	tm := controllertest.Tokens()
	store := repository.NewMemoryStore()
	router := gin.New()
	NewsController(router, tm, services.NewClimateNewsService(store.News, fetcher, time.Hour, zap.NewNop()))
	return router, store, controllertest.Token(t, tm, 9, model.RoleAdmin)
}

func TestClimateNews(t *testing.T) {
	now := time.Now()
	f := &fakeFetcher{items: []model.ClimateNews{
		{Title: "Flood warnings across the north", URL: "https://n.test/1", PublishedAt: now.Add(-time.Hour)},
		{Title: "Drought hits rice farmers", URL: "https://n.test/2", PublishedAt: now.Add(-2 * time.Hour)},
		{Title: "Transfer window gossip", URL: "https://n.test/3", PublishedAt: now},
	}}
	router, _, admin := setup(t, f)

	w := controllertest.Do(router, http.MethodGet, "/api/news/climate?limit=1", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var items []model.ClimateNews
	controllertest.DecodeInto(t, w, "items", &items)
	require.Len(t, items, 1)
	assert.Equal(t, "Flood warnings across the north", items[0].Title)
	assert.Equal(t, false, controllertest.Decode(t, w)["stale"])

	w = controllertest.Do(router, http.MethodGet, "/api/news/climate", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	controllertest.DecodeInto(t, w, "items", &items)
	assert.Len(t, items, 2)
	assert.Equal(t, 1, f.calls, "fresh cache is served without refetching")

	w = controllertest.Do(router, http.MethodPost, "/api/news/climate/refresh", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = controllertest.Do(router, http.MethodPost, "/api/news/climate/refresh", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, controllertest.Decode(t, w)["count"])
	assert.Equal(t, 2, f.calls)
}

func TestClimateNews_Failures(t *testing.T) {
	router, _, admin := setup(t, &fakeFetcher{err: domain.Upstream("news", errors.New("rate limited"))})
	w := controllertest.Do(router, http.MethodGet, "/api/news/climate", nil, "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	w = controllertest.Do(router, http.MethodPost, "/api/news/climate/refresh", nil, admin)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	router, _, _ = setup(t, nil)
	w = controllertest.Do(router, http.MethodGet, "/api/news/climate", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
