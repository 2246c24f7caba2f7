package article

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"disasterprep/controller/controllertest"
	"disasterprep/model"
	"disasterprep/repository"
	"disasterprep/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeVideos struct {
	videos []services.Video
	err    error
	query  string
}

func (f *fakeVideos) Search(_ context.Context, q string) ([]services.Video, error) {
	f.query = q
	return f.videos, f.err
}

type fixture struct {
	router  *gin.Engine
	store   *repository.Store
	manager string
	user    string
}

func setup(t *testing.T, videos VideoSearcher) *fixture {
	t.Helper()
	tm := controllertest.Tokens()
	store := repository.NewMemoryStore()
	router := gin.New()
	ArticleController(router, tm, store, videos, zap.NewNop())
	return &fixture{
		router:  router,
		store:   store,
		manager: controllertest.Token(t, tm, 3, model.RoleContentManager),
		user:    controllertest.Token(t, tm, 1, model.RoleUser),
	}
}

func TestArticleLifecycle(t *testing.T) {
	f := setup(t, nil)

	body := gin.H{"title": "Flood kit basics", "content": "Pack water.", "category": "flood", "published": false}
	w := controllertest.Do(f.router, http.MethodPost, "/api/articles", body, f.user)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = controllertest.Do(f.router, http.MethodPost, "/api/articles", body, f.manager)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var a model.Article
	controllertest.DecodeInto(t, w, "article", &a)
	assert.Equal(t, "3", a.AuthorID)
	assert.Empty(t, a.QuizID)

	w = controllertest.Do(f.router, http.MethodGet, "/api/articles/"+a.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code, "drafts are hidden from the public")
	w = controllertest.Do(f.router, http.MethodGet, "/api/articles/"+a.ID, nil, f.manager)
	assert.Equal(t, http.StatusOK, w.Code)

	w = controllertest.Do(f.router, http.MethodGet, "/api/articles", nil, "")
	assert.EqualValues(t, 0, controllertest.Decode(t, w)["count"])
	w = controllertest.Do(f.router, http.MethodGet, "/api/articles?all=true", nil, f.user)
	assert.EqualValues(t, 0, controllertest.Decode(t, w)["count"])
	w = controllertest.Do(f.router, http.MethodGet, "/api/articles?all=true", nil, f.manager)
	assert.EqualValues(t, 1, controllertest.Decode(t, w)["count"])

	_, err := f.store.Articles.Mutate(context.Background(), a.ID, func(a *model.Article) error {
		a.QuizID = "q1"
		return nil
	})
	require.NoError(t, err)

	body["published"] = true
	body["title"] = "Flood kit essentials"
	w = controllertest.Do(f.router, http.MethodPut, "/api/articles/"+a.ID, body, f.manager)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	controllertest.DecodeInto(t, w, "article", &a)
	assert.Equal(t, "q1", a.QuizID, "updates keep the quiz link")
	assert.True(t, a.Published)

	w = controllertest.Do(f.router, http.MethodGet, "/api/articles?category=FLOOD", nil, "")
	assert.EqualValues(t, 1, controllertest.Decode(t, w)["count"])

	w = controllertest.Do(f.router, http.MethodPut, "/api/articles/"+a.ID, gin.H{"title": "x", "content": "   "}, f.manager)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = controllertest.Do(f.router, http.MethodDelete, "/api/articles/"+a.ID, nil, f.manager)
	require.Equal(t, http.StatusOK, w.Code)
	w = controllertest.Do(f.router, http.MethodGet, "/api/articles/"+a.ID, nil, f.manager)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetArticle_RelatedVideos(t *testing.T) {
	videos := &fakeVideos{videos: []services.Video{{VideoID: "abc", Title: "Evacuation drill"}}}
	f := setup(t, videos)
	a := &model.Article{Title: "Evacuation", Content: "Go uphill.", Published: true, VideoQuery: "evacuation drill"}
	require.NoError(t, f.store.Articles.Create(context.Background(), a))

	w := controllertest.Do(f.router, http.MethodGet, "/api/articles/"+a.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var related []services.Video
	controllertest.DecodeInto(t, w, "relatedVideos", &related)
	require.Len(t, related, 1)
	assert.Equal(t, "evacuation drill", videos.query)

	videos.err = errors.New("quota exceeded")
	w = controllertest.Do(f.router, http.MethodGet, "/api/articles/"+a.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	controllertest.DecodeInto(t, w, "relatedVideos", &related)
	assert.Empty(t, related)
	assert.Contains(t, w.Body.String(), `"relatedVideos":[]`)
}

func TestGetArticle_NoVideoProvider(t *testing.T) {
	f := setup(t, nil)
	a := &model.Article{Title: "Heatwave", Content: "Drink water.", Published: true}
	require.NoError(t, f.store.Articles.Create(context.Background(), a))

	w := controllertest.Do(f.router, http.MethodGet, "/api/articles/"+a.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"relatedVideos":[]`)
}

func TestGetArticle_InvalidTokenRejected(t *testing.T) {
	f := setup(t, nil)
	w := controllertest.Do(f.router, http.MethodGet, "/api/articles", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
