package model

import "time"

type Article struct {
	ID         string    `firestore:"-" json:"id"`
	Title      string    `firestore:"title" json:"title"`
	Summary    string    `firestore:"summary" json:"summary"`
	Content    string    `firestore:"content" json:"content"`
	Category   string    `firestore:"category" json:"category"`
	Tags       []string  `firestore:"tags" json:"tags"`
	ImageURL   string    `firestore:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	AuthorID   string    `firestore:"authorId" json:"authorId"`
	Published  bool      `firestore:"published" json:"published"`
	QuizID     string    `firestore:"quizId" json:"quizId"`
	VideoQuery string    `firestore:"videoQuery,omitempty" json:"videoQuery,omitempty"`
	CreatedAt  time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `firestore:"updatedAt" json:"updatedAt"`
}

type Question struct {
	Question      string   `firestore:"question" json:"question"`
	Options       []string `firestore:"options" json:"options"`
	CorrectAnswer int      `firestore:"correctAnswer" json:"correctAnswer"`
	Explanation   string   `firestore:"explanation,omitempty" json:"explanation,omitempty"`
}

type Quiz struct {
	ID           string     `firestore:"-" json:"id"`
	Title        string     `firestore:"title" json:"title"`
	ArticleID    string     `firestore:"articleId" json:"articleId"`
	Questions    []Question `firestore:"questions" json:"questions"`
	PassingScore float64    `firestore:"passingScore" json:"passingScore"`
	CreatedBy    string     `firestore:"createdBy" json:"createdBy"`
	CreatedAt    time.Time  `firestore:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time  `firestore:"updatedAt" json:"updatedAt"`
}

type QuestionResult struct {
	QuestionIndex  int    `firestore:"questionIndex" json:"questionIndex"`
	SelectedAnswer int    `firestore:"selectedAnswer" json:"selectedAnswer"`
	CorrectAnswer  int    `firestore:"correctAnswer" json:"correctAnswer"`
	IsCorrect      bool   `firestore:"isCorrect" json:"isCorrect"`
	Explanation    string `firestore:"explanation,omitempty" json:"explanation,omitempty"`
}

// QuizAttempt is written once per submission and never updated.
type QuizAttempt struct {
	ID          string           `firestore:"-" json:"id"`
	QuizID      string           `firestore:"quizId" json:"quizId"`
	ArticleID   string           `firestore:"articleId" json:"articleId"`
	UserID      string           `firestore:"userId" json:"userId"`
	Answers     []int            `firestore:"answers" json:"answers"`
	Results     []QuestionResult `firestore:"results" json:"results"`
	Score       int              `firestore:"score" json:"score"`
	Total       int              `firestore:"total" json:"total"`
	Percentage  float64          `firestore:"percentage" json:"percentage"`
	Passed      bool             `firestore:"passed" json:"passed"`
	SubmittedAt time.Time        `firestore:"submittedAt" json:"submittedAt"`
}
