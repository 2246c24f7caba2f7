package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"disasterprep/config"
	"disasterprep/domain"
	"disasterprep/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeKVStore is an in-memory KV with TTL.
type fakeKVStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeKVStore() *fakeKVStore { return &fakeKVStore{data: map[string]string{}} }

func (f *fakeKVStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", ErrCacheMiss
	}
	return v, nil
}

func (f *fakeKVStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestAdapters_RequireAPIKey(t *testing.T) {
	log := zap.NewNop()
	_, err := NewWeatherClient(config.Weather{}, nil, 0, log)
	assert.Error(t, err)
	_, err = NewRoutingClient(config.Routing{}, log)
	assert.Error(t, err)
	_, err = NewYouTubeClient(config.YouTube{}, log)
	assert.Error(t, err)
	_, err = NewNewsClient(config.News{}, log)
	assert.Error(t, err)
}

func TestWeatherClient_CurrentIsCached(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		assert.Equal(t, "k", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		writeJSON(w, 200, `{"weather":[{"description":"heavy rain","icon":"10d"}],"main":{"temp":27.5,"feels_like":30.1,"humidity":90},"wind":{"speed":6.2},"rain":{"1h":12.4},"name":"Bangkok","dt":1700000000}`)
	}))
	defer srv.Close()

	wc, err := NewWeatherClient(config.Weather{APIKey: "k", BaseURL: srv.URL}, newFakeKVStore(), time.Minute, zap.NewNop())
	require.NoError(t, err)

	cur, err := wc.Current(context.Background(), 13.75, 100.5)
	require.NoError(t, err)
	assert.Equal(t, 27.5, cur.Temperature)
	assert.Equal(t, 12.4, cur.Rain1h)
	assert.Equal(t, "heavy rain", cur.Description)
	assert.Equal(t, "Bangkok", cur.City)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), cur.ObservedAt)

	_, err = wc.Current(context.Background(), 13.75, 100.5)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second call served from cache")
}

func TestWeatherClient_Readings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/2.5/weather":
			writeJSON(w, 200, `{"main":{"temp":36},"wind":{"speed":3},"rain":{"1h":0},"dt":1700000000}`)
		case "/data/2.5/forecast":
			writeJSON(w, 200, `{"city":{"name":"Hat Yai"},"list":[{"dt":1700010800,"main":{"temp":30},"wind":{"speed":18},"rain":{"3h":25},"weather":[{"description":"storm"}]}]}`)
		default:
			w.WriteHeader(404)
		}
	}))
	defer srv.Close()

	wc, err := NewWeatherClient(config.Weather{APIKey: "k", BaseURL: srv.URL}, nil, 0, zap.NewNop())
	require.NoError(t, err)

	cur, fc, err := wc.Readings(context.Background(), 7, 100.4)
	require.NoError(t, err)
	assert.Equal(t, 36.0, cur.Temperature)
	require.Len(t, fc, 1)
	assert.Equal(t, 25.0, fc[0].Rain3h)
	assert.Equal(t, 18.0, fc[0].WindSpeed)
}

func TestWeatherClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 401, `{"cod":401,"message":"Invalid API key"}`)
	}))
	defer srv.Close()

	wc, err := NewWeatherClient(config.Weather{APIKey: "bad", BaseURL: srv.URL}, nil, 0, zap.NewNop())
	require.NoError(t, err)
	_, err = wc.Forecast(context.Background(), 1, 1)
	assert.Equal(t, domain.KindUpstream, domain.KindOf(err))
}

func TestRoutingClient_Matrix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/matrix/driving-car", r.URL.Path)
		assert.Equal(t, "ors-key", r.Header.Get("Authorization"))
		var body orsMatrixRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []int{0}, body.Sources)
		assert.Equal(t, []int{1, 2}, body.Destinations)
		assert.Equal(t, [2]float64{100.5, 13.7}, body.Locations[0], "ORS takes lon,lat")
		writeJSON(w, 200, `{"durations":[[600.5,null]],"distances":[[4.2,null]]}`)
	}))
	defer srv.Close()

	rc, err := NewRoutingClient(config.Routing{APIKey: "ors-key", BaseURL: srv.URL, Timeout: time.Second}, zap.NewNop())
	require.NoError(t, err)

	est, err := rc.Matrix(context.Background(),
		model.Location{Latitude: 13.7, Longitude: 100.5},
		[]model.Location{{Latitude: 13.8, Longitude: 100.6}, {Latitude: 14, Longitude: 101}})
	require.NoError(t, err)
	require.Len(t, est, 2)
	assert.True(t, est[0].Reachable)
	assert.Equal(t, 600.5, est[0].DurationSeconds)
	assert.Equal(t, 4.2, est[0].DistanceKm)
	assert.False(t, est[1].Reachable)
}

func TestRoutingClient_TooManyDestinations(t *testing.T) {
	rc, err := NewRoutingClient(config.Routing{APIKey: "k", BaseURL: "http://127.0.0.1:0"}, zap.NewNop())
	require.NoError(t, err)
	_, err = rc.Matrix(context.Background(), model.Location{}, make([]model.Location, MaxMatrixDestinations+1))
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestYouTubeClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/youtube/v3/search", r.URL.Path)
		assert.Equal(t, "flood safety", r.URL.Query().Get("q"))
		assert.Equal(t, "3", r.URL.Query().Get("maxResults"))
		writeJSON(w, 200, `{"items":[
			{"id":{"videoId":"abc"},"snippet":{"title":"Flood tips","channelTitle":"Red Cross","publishedAt":"2024-05-01T10:00:00Z","thumbnails":{"default":{"url":"d.jpg"},"medium":{"url":"m.jpg"}}}},
			{"id":{},"snippet":{"title":"channel result"}}
		]}`)
	}))
	defer srv.Close()

	yc, err := NewYouTubeClient(config.YouTube{APIKey: "k", BaseURL: srv.URL, MaxResults: 3}, zap.NewNop())
	require.NoError(t, err)

	videos, err := yc.Search(context.Background(), " flood safety ")
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "abc", videos[0].VideoID)
	assert.Equal(t, "m.jpg", videos[0].ThumbnailURL)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", videos[0].URL)

	_, err = yc.Search(context.Background(), "  ")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestNewsClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/everything", r.URL.Path)
		assert.Equal(t, "news-key", r.Header.Get("X-Api-Key"))
		writeJSON(w, 200, `{"status":"ok","articles":[{"source":{"name":"Reuters"},"title":"Floods hit coast","description":"d","url":"https://x.test/1","urlToImage":"i.png","publishedAt":"2024-06-01T00:00:00Z"}]}`)
	}))
	defer srv.Close()

	nc, err := NewNewsClient(config.News{APIKey: "news-key", BaseURL: srv.URL, Query: "flood"}, zap.NewNop())
	require.NoError(t, err)

	items, err := nc.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Reuters", items[0].Source)
	assert.Equal(t, "i.png", items[0].ImageURL)
}

func TestNewsClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"status":"error","code":"rateLimited","message":"too many requests"}`)
	}))
	defer srv.Close()

	nc, err := NewNewsClient(config.News{APIKey: "k", BaseURL: srv.URL}, zap.NewNop())
	require.NoError(t, err)
	_, err = nc.Fetch(context.Background())
	assert.Equal(t, domain.KindUpstream, domain.KindOf(err))
}
