package quiz

import (
	"net/http"
	"strings"

	"disasterprep/controller"
	"disasterprep/domain"
	"disasterprep/dto"
	"disasterprep/middleware"
	"disasterprep/model"
	"disasterprep/repository"

	"github.com/gin-gonic/gin"
)

func QuizController(router *gin.Engine, tm *middleware.TokenManager, store *repository.Store) {
	manager := middleware.RoleMiddleware(model.RoleContentManager, model.RoleAdmin)

	routes := router.Group("/api/quizzes", tm.AccessTokenMiddleware(), manager)
	{
		routes.POST("", func(c *gin.Context) {
			CreateQuiz(c, store)
		})
		routes.GET("/:id", func(c *gin.Context) {
			GetQuiz(c, store)
		})
		routes.PUT("/:id", func(c *gin.Context) {
			UpdateQuiz(c, store)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeleteQuiz(c, store)
		})
	}

	learner := router.Group("/api/articles/:id/quiz")
	{
		learner.GET("", func(c *gin.Context) {
			GetArticleQuiz(c, store)
		})
		learner.POST("/submit", tm.AccessTokenMiddleware(), func(c *gin.Context) {
			SubmitQuiz(c, store)
		})
		learner.GET("/attempts", tm.AccessTokenMiddleware(), func(c *gin.Context) {
			ListAttempts(c, store)
		})
	}
}

// CreateQuiz creates the quiz and links it to its article in one step.
// An article that already has a quiz is rejected with the existing id.
func CreateQuiz(c *gin.Context, store *repository.Store) {
	var req dto.CreateQuizRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	q := &model.Quiz{
		Title:        req.Title,
		ArticleID:    strings.TrimSpace(req.ArticleID),
		Questions:    dto.Questions(req.Questions),
		CreatedBy:    middleware.UserKey(c),
		PassingScore: domain.DefaultPassingScore,
	}
	if req.PassingScore != nil {
		q.PassingScore = *req.PassingScore
	}
	if err := domain.ValidateQuiz(q); err != nil {
		controller.RespondError(c, err)
		return
	}

	if err := store.Quizzes.CreateLinked(c, q); err != nil {
		controller.RespondError(c, err)
		return
	}
	linked, err := store.Articles.Get(c, q.ArticleID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Quiz created successfully", "quiz": q, "linkedArticle": linked})
}

func GetQuiz(c *gin.Context, store *repository.Store) {
	q, err := store.Quizzes.Get(c, c.Param("id"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quiz": q})
}

func UpdateQuiz(c *gin.Context, store *repository.Store) {
	var req dto.UpdateQuizRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	q, err := store.Quizzes.Mutate(c, c.Param("id"), func(q *model.Quiz) error {
		if req.Title != nil {
			q.Title = *req.Title
		}
		if req.Questions != nil {
			q.Questions = dto.Questions(req.Questions)
		}
		if req.PassingScore != nil {
			q.PassingScore = *req.PassingScore
		}
		return domain.ValidateQuizContent(q)
	})
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quiz updated successfully", "quiz": q})
}

// DeleteQuiz removes the quiz and clears its article's link.
func DeleteQuiz(c *gin.Context, store *repository.Store) {
	if err := store.Quizzes.DeleteLinked(c, c.Param("id")); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quiz deleted successfully"})
}
