package domain

import (
	"fmt"
	"strings"

	"disasterprep/model"
)

const (
	DefaultPassingScore = 60.0
	OptionsPerQuestion  = 4
)

// ValidateQuiz checks a new quiz: its article reference plus everything
// ValidateQuizContent checks.
func ValidateQuiz(q *model.Quiz) error {
	if strings.TrimSpace(q.ArticleID) == "" {
		return Validation("articleId is required")
	}
	return ValidateQuizContent(q)
}

// ValidateQuizContent checks the editable fields of a quiz. The article
// reference is not among them; a quiz whose article was deleted stays editable.
func ValidateQuizContent(q *model.Quiz) error {
	q.Title = strings.TrimSpace(q.Title)
	if q.Title == "" {
		return Validation("title is required")
	}
	if err := ValidateQuestions(q.Questions); err != nil {
		return err
	}
	if q.PassingScore < 0 || q.PassingScore > 100 {
		return Validation("passingScore must be between 0 and 100")
	}
	return nil
}

func ValidateQuestions(questions []model.Question) error {
	if len(questions) == 0 {
		return Validation("at least one question is required")
	}
	for i, qu := range questions {
		if strings.TrimSpace(qu.Question) == "" {
			return Validation("question %d: text is required", i+1).With("questionIndex", i)
		}
		if len(qu.Options) != OptionsPerQuestion {
			return Validation("question %d: exactly %d options are required", i+1, OptionsPerQuestion).With("questionIndex", i)
		}
		for j, opt := range qu.Options {
			if strings.TrimSpace(opt) == "" {
				return Validation("question %d: option %d is empty", i+1, j+1).With("questionIndex", i)
			}
		}
		if qu.CorrectAnswer < 0 || qu.CorrectAnswer >= OptionsPerQuestion {
			return Validation("question %d: correctAnswer must be between 0 and %d", i+1, OptionsPerQuestion-1).With("questionIndex", i)
		}
	}
	return nil
}

// ErrArticleHasQuiz is returned when linking a quiz to an article that
// already has one; the existing quiz id is carried in Details.
func ErrArticleHasQuiz(articleID, existingQuizID string) *Error {
	return Validation("article %s already has a quiz", articleID).With("existingQuizId", existingQuizID)
}

type QuizScore struct {
	Score      int
	Total      int
	Percentage float64
	Passed     bool
	Results    []model.QuestionResult
}

// ScoreQuiz grades answers against quiz. answers must hold one entry per question.
func ScoreQuiz(quiz *model.Quiz, answers []int) (QuizScore, error) {
	total := len(quiz.Questions)
	if len(answers) != total {
		return QuizScore{}, Validation("expected %d answers, got %d", total, len(answers))
	}
	if total == 0 {
		return QuizScore{}, Validation("quiz has no questions")
	}

	s := QuizScore{Total: total, Results: make([]model.QuestionResult, total)}
	for i, qu := range quiz.Questions {
		ok := answers[i] == qu.CorrectAnswer
		if ok {
			s.Score++
		}
		s.Results[i] = model.QuestionResult{
			QuestionIndex:  i,
			SelectedAnswer: answers[i],
			CorrectAnswer:  qu.CorrectAnswer,
			IsCorrect:      ok,
			Explanation:    qu.Explanation,
		}
	}
	s.Percentage = Round2(float64(s.Score) * 100 / float64(total))
	s.Passed = s.Percentage >= quiz.PassingScore
	return s, nil
}

// PublicQuestion is a question with the answer withheld.
type PublicQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

func HideAnswers(questions []model.Question) []PublicQuestion {
	out := make([]PublicQuestion, len(questions))
	for i, q := range questions {
		out[i] = PublicQuestion{Question: q.Question, Options: q.Options}
	}
	return out
}

type LinkFixAction string

const (
	FixClearArticleQuiz LinkFixAction = "clear_article_quiz"
	FixClearQuizArticle LinkFixAction = "clear_quiz_article"
	FixLinkArticle      LinkFixAction = "link_article"
)

type LinkFix struct {
	Action    LinkFixAction `json:"action"`
	ArticleID string        `json:"articleId"`
	QuizID    string        `json:"quizId"`
	Reason    string        `json:"reason"`
}

// ReconcileQuizLinks finds article/quiz pairs whose one-to-one link is
// broken and returns the writes that restore it.
func ReconcileQuizLinks(articles []model.Article, quizzes []model.Quiz) []LinkFix {
	articleByID := make(map[string]*model.Article, len(articles))
	for i := range articles {
		articleByID[articles[i].ID] = &articles[i]
	}
	quizByID := make(map[string]*model.Quiz, len(quizzes))
	for i := range quizzes {
		quizByID[quizzes[i].ID] = &quizzes[i]
	}

	var fixes []LinkFix
	linkedTo := make(map[string]string)

	for _, a := range articles {
		if a.QuizID == "" {
			continue
		}
		q, ok := quizByID[a.QuizID]
		switch {
		case !ok:
			fixes = append(fixes, LinkFix{FixClearArticleQuiz, a.ID, a.QuizID, "quiz does not exist"})
		case q.ArticleID != a.ID:
			fixes = append(fixes, LinkFix{FixClearArticleQuiz, a.ID, a.QuizID, fmt.Sprintf("quiz belongs to article %q", q.ArticleID)})
		default:
			linkedTo[a.ID] = q.ID
		}
	}

	for _, q := range quizzes {
		if q.ArticleID == "" {
			continue
		}
		if _, ok := articleByID[q.ArticleID]; !ok {
			fixes = append(fixes, LinkFix{FixClearQuizArticle, q.ArticleID, q.ID, "article does not exist"})
			continue
		}
		if cur, ok := linkedTo[q.ArticleID]; ok {
			if cur != q.ID {
				fixes = append(fixes, LinkFix{FixClearQuizArticle, q.ArticleID, q.ID, "article is linked to another quiz"})
			}
			continue
		}
		// Any stale pointer on this article was cleared above.
		fixes = append(fixes, LinkFix{FixLinkArticle, q.ArticleID, q.ID, "article is not linked to its quiz"})
		linkedTo[q.ArticleID] = q.ID
	}
	return fixes
}
