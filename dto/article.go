package dto

import (
	"disasterprep/domain"
	"disasterprep/model"
)

type ArticleRequest struct {
	Title      string   `json:"title" binding:"required,max=300"`
	Summary    string   `json:"summary" binding:"max=1000"`
	Content    string   `json:"content" binding:"required"`
	Category   string   `json:"category" binding:"max=100"`
	Tags       []string `json:"tags"`
	ImageURL   string   `json:"imageUrl" binding:"omitempty,url"`
	Published  bool     `json:"published"`
	VideoQuery string   `json:"videoQuery" binding:"max=200"`
}

type QuestionRequest struct {
	Question      string   `json:"question" binding:"required"`
	Options       []string `json:"options" binding:"required"`
	CorrectAnswer *int     `json:"correctAnswer" binding:"required"`
	Explanation   string   `json:"explanation"`
}

func Questions(in []QuestionRequest) []model.Question {
	out := make([]model.Question, len(in))
	for i, q := range in {
		out[i] = model.Question{Question: q.Question, Options: q.Options, Explanation: q.Explanation}
		if q.CorrectAnswer != nil {
			out[i].CorrectAnswer = *q.CorrectAnswer
		}
	}
	return out
}

type CreateQuizRequest struct {
	Title        string            `json:"title" binding:"required,max=300"`
	ArticleID    string            `json:"articleId" binding:"required"`
	Questions    []QuestionRequest `json:"questions" binding:"required,min=1,dive"`
	PassingScore *float64          `json:"passingScore" binding:"omitempty,gte=0,lte=100"`
}

type UpdateQuizRequest struct {
	Title        *string           `json:"title" binding:"omitempty,min=1,max=300"`
	Questions    []QuestionRequest `json:"questions" binding:"omitempty,min=1,dive"`
	PassingScore *float64          `json:"passingScore" binding:"omitempty,gte=0,lte=100"`
}

type SubmitQuizRequest struct {
	Answers []int `json:"answers" binding:"required"`
}

// PublicQuiz is what a learner sees before submitting.
type PublicQuiz struct {
	ID           string                  `json:"id"`
	Title        string                  `json:"title"`
	ArticleID    string                  `json:"articleId"`
	PassingScore float64                 `json:"passingScore"`
	Questions    []domain.PublicQuestion `json:"questions"`
}

func NewPublicQuiz(q *model.Quiz) PublicQuiz {
	return PublicQuiz{
		ID:           q.ID,
		Title:        q.Title,
		ArticleID:    q.ArticleID,
		PassingScore: q.PassingScore,
		Questions:    domain.HideAnswers(q.Questions),
	}
}
