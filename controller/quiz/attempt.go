package quiz

import (
	"net/http"
	"time"

	"disasterprep/controller"
	"disasterprep/domain"
	"disasterprep/dto"
	"disasterprep/middleware"
	"disasterprep/model"
	"disasterprep/repository"

	"github.com/gin-gonic/gin"
)

// GetArticleQuiz returns the article's quiz with the answers withheld.
func GetArticleQuiz(c *gin.Context, store *repository.Store) {
	q, err := store.Quizzes.GetByArticle(c, c.Param("id"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quiz": dto.NewPublicQuiz(q)})
}

// SubmitQuiz grades the caller's answers and stores the attempt. Every
// submission is kept.
func SubmitQuiz(c *gin.Context, store *repository.Store) {
	var req dto.SubmitQuizRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	q, err := store.Quizzes.GetByArticle(c, c.Param("id"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	score, err := domain.ScoreQuiz(q, req.Answers)
	if err != nil {
		controller.RespondError(c, err)
		return
	}

	attempt := &model.QuizAttempt{
		QuizID:      q.ID,
		ArticleID:   q.ArticleID,
		UserID:      middleware.UserKey(c),
		Answers:     req.Answers,
		Results:     score.Results,
		Score:       score.Score,
		Total:       score.Total,
		Percentage:  score.Percentage,
		Passed:      score.Passed,
		SubmittedAt: time.Now(),
	}
	if err := store.Attempts.Create(c, attempt); err != nil {
		controller.RespondError(c, err)
		return
	}

	message := "Quiz not passed"
	if attempt.Passed {
		message = "Quiz passed"
	}
	c.JSON(http.StatusCreated, gin.H{"message": message, "attempt": attempt})
}

func ListAttempts(c *gin.Context, store *repository.Store) {
	q, err := store.Quizzes.GetByArticle(c, c.Param("id"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	attempts, err := store.Attempts.ListByUser(c, middleware.UserKey(c), q.ID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempts": attempts, "count": len(attempts)})
}
