package quiz

import (
	"context"
	"net/http"
	"testing"

	"disasterprep/controller/controllertest"
	"disasterprep/dto"
	"disasterprep/model"
	"disasterprep/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	router  *gin.Engine
	store   *repository.Store
	manager string
	user    string
	article *model.Article
}

func setup(t *testing.T) *fixture {
	t.Helper()
	tm := controllertest.Tokens()
	store := repository.NewMemoryStore()
	router := gin.New()
	QuizController(router, tm, store)

	a := &model.Article{Title: "Earthquake safety", Content: "Drop, cover, hold on.", Published: true}
	require.NoError(t, store.Articles.Create(context.Background(), a))
	return &fixture{
		router:  router,
		store:   store,
		manager: controllertest.Token(t, tm, 3, model.RoleContentManager),
		user:    controllertest.Token(t, tm, 1, model.RoleUser),
		article: a,
	}
}

func question(text string, correct int) gin.H {
	return gin.H{"question": text, "options": []string{"a", "b", "c", "d"}, "correctAnswer": correct, "explanation": "because"}
}

func (f *fixture) createQuiz(t *testing.T) model.Quiz {
	t.Helper()
	w := controllertest.Do(f.router, http.MethodPost, "/api/quizzes", gin.H{
		"title":     "Earthquake quiz",
		"articleId": f.article.ID,
		"questions": []gin.H{question("First?", 0), question("Second?", 1), question("Third?", 2)},
	}, f.manager)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var q model.Quiz
	controllertest.DecodeInto(t, w, "quiz", &q)
	var linked model.Article
	controllertest.DecodeInto(t, w, "linkedArticle", &linked)
	require.Equal(t, q.ID, linked.QuizID)
	return q
}

func TestCreateQuiz_LinksArticle(t *testing.T) {
	f := setup(t)
	q := f.createQuiz(t)
	assert.Equal(t, 60.0, q.PassingScore)
	assert.Equal(t, "3", q.CreatedBy)

	w := controllertest.Do(f.router, http.MethodPost, "/api/quizzes", gin.H{
		"title": "Second quiz", "articleId": f.article.ID, "questions": []gin.H{question("Q?", 0)},
	}, f.manager)
	require.Equal(t, http.StatusBadRequest, w.Code)
	details, _ := controllertest.Decode(t, w)["details"].(map[string]any)
	assert.Equal(t, q.ID, details["existingQuizId"])

	w = controllertest.Do(f.router, http.MethodPost, "/api/quizzes", gin.H{
		"title": "Orphan", "articleId": "missing", "questions": []gin.H{question("Q?", 0)},
	}, f.manager)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateQuiz_Validation(t *testing.T) {
	f := setup(t)

	cases := map[string]gin.H{
		"three options": {"title": "T", "articleId": f.article.ID,
			"questions": []gin.H{{"question": "Q", "options": []string{"a", "b", "c"}, "correctAnswer": 0}}},
		"answer out of range": {"title": "T", "articleId": f.article.ID, "questions": []gin.H{question("Q", 4)}},
		"no questions":        {"title": "T", "articleId": f.article.ID, "questions": []gin.H{}},
		"passing score":       {"title": "T", "articleId": f.article.ID, "questions": []gin.H{question("Q", 0)}, "passingScore": 120},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := controllertest.Do(f.router, http.MethodPost, "/api/quizzes", body, f.manager)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	w := controllertest.Do(f.router, http.MethodPost, "/api/quizzes", cases["no questions"], f.user)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLearnerFlow(t *testing.T) {
	f := setup(t)
	q := f.createQuiz(t)
	base := "/api/articles/" + f.article.ID + "/quiz"

	w := controllertest.Do(f.router, http.MethodGet, base, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "correctAnswer")
	var public dto.PublicQuiz
	controllertest.DecodeInto(t, w, "quiz", &public)
	assert.Len(t, public.Questions, 3)

	w = controllertest.Do(f.router, http.MethodPost, base+"/submit", gin.H{"answers": []int{0, 1}}, f.user)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = controllertest.Do(f.router, http.MethodPost, base+"/submit", gin.H{"answers": []int{0, 1, 3}}, f.user)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Quiz passed", controllertest.Decode(t, w)["message"])
	var attempt model.QuizAttempt
	controllertest.DecodeInto(t, w, "attempt", &attempt)
	assert.Equal(t, 2, attempt.Score)
	assert.Equal(t, 66.67, attempt.Percentage)
	assert.Equal(t, q.ID, attempt.QuizID)
	assert.False(t, attempt.Results[2].IsCorrect)

	w = controllertest.Do(f.router, http.MethodPost, base+"/submit", gin.H{"answers": []int{3, 3, 3}}, f.user)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Quiz not passed", controllertest.Decode(t, w)["message"])

	w = controllertest.Do(f.router, http.MethodGet, base+"/attempts", nil, f.user)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, controllertest.Decode(t, w)["count"])

	other := controllertest.Token(t, controllertest.Tokens(), 2, model.RoleUser)
	w = controllertest.Do(f.router, http.MethodGet, base+"/attempts", nil, other)
	assert.EqualValues(t, 0, controllertest.Decode(t, w)["count"])
}

func TestUpdateAndDeleteQuiz(t *testing.T) {
	f := setup(t)
	q := f.createQuiz(t)

	w := controllertest.Do(f.router, http.MethodPut, "/api/quizzes/"+q.ID, gin.H{"passingScore": 100, "articleId": "elsewhere"}, f.manager)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated model.Quiz
	controllertest.DecodeInto(t, w, "quiz", &updated)
	assert.Equal(t, 100.0, updated.PassingScore)
	assert.Equal(t, f.article.ID, updated.ArticleID, "the article link cannot be moved")

	w = controllertest.Do(f.router, http.MethodDelete, "/api/quizzes/"+q.ID, nil, f.manager)
	require.Equal(t, http.StatusOK, w.Code)

	a, err := f.store.Articles.Get(context.Background(), f.article.ID)
	require.NoError(t, err)
	assert.Empty(t, a.QuizID)

	w = controllertest.Do(f.router, http.MethodGet, "/api/articles/"+f.article.ID+"/quiz", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = controllertest.Do(f.router, http.MethodGet, "/api/quizzes/"+q.ID, nil, f.manager)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateQuiz_AfterArticleDeleted(t *testing.T) {
	f := setup(t)
	q := f.createQuiz(t)
	require.NoError(t, f.store.Articles.Delete(context.Background(), f.article.ID))

	orphan, err := f.store.Quizzes.Get(context.Background(), q.ID)
	require.NoError(t, err)
	require.Empty(t, orphan.ArticleID)

	w := controllertest.Do(f.router, http.MethodPut, "/api/quizzes/"+q.ID, gin.H{"title": "Renamed"}, f.manager)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated model.Quiz
	controllertest.DecodeInto(t, w, "quiz", &updated)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Empty(t, updated.ArticleID)
}

func TestCreateQuiz_ZeroPassingScore(t *testing.T) {
	f := setup(t)
	w := controllertest.Do(f.router, http.MethodPost, "/api/quizzes", gin.H{
		"title": "Practice round", "articleId": f.article.ID, "questions": []gin.H{question("Q?", 0)}, "passingScore": 0,
	}, f.manager)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var q model.Quiz
	controllertest.DecodeInto(t, w, "quiz", &q)
	assert.Equal(t, 0.0, q.PassingScore)
}
