package repository

import (
	"context"
	"time"

	"disasterprep/domain"
	"disasterprep/model"
)

// Collection names shared by the Firestore implementation and index setup.
const (
	colReports    = "Reports"
	colVotes      = "Votes"
	colComments   = "Comments"
	colShelters   = "Shelters"
	colOccupancy  = "ShelterOccupancy"
	colArticles   = "Articles"
	colQuizzes    = "Quizzes"
	colAttempts   = "QuizAttempts"
	colChecklists = "Checklists"
	colProgress   = "UserChecklistProgress"
	colAlerts     = "Alerts"
	colNews       = "ClimateNews"
	colNewsMeta   = "ClimateNewsMeta"
	newsMetaDoc   = "latest"
)

const defaultListLimit = 100

type ReportFilter struct {
	Category   model.DisasterCategory
	Status     model.ReportStatus
	Severity   model.Severity
	ReporterID string
	Limit      int
}

type ReportRepository interface {
	Create(ctx context.Context, r *model.Report) error
	Get(ctx context.Context, id string) (*model.Report, error)
	List(ctx context.Context, f ReportFilter) ([]model.Report, error)
	// Mutate runs fn on the stored report and persists the result atomically.
	Mutate(ctx context.Context, id string, fn func(r *model.Report) error) (*model.Report, error)
}

type VoteRepository interface {
	// Cast applies one vote request and the matching counter change as a
	// single atomic step, returning the updated report.
	Cast(ctx context.Context, reportID, userID string, voteType model.VoteType) (domain.VoteOutcome, *model.Report, error)
	// Get returns the user's current vote, or nil when there is none.
	Get(ctx context.Context, reportID, userID string) (*model.Vote, error)
}

type CommentRepository interface {
	Create(ctx context.Context, c *model.Comment) error
	Get(ctx context.Context, reportID, id string) (*model.Comment, error)
	ListByReport(ctx context.Context, reportID string) ([]model.Comment, error)
	Delete(ctx context.Context, reportID, id string) error
}

type ShelterFilter struct {
	Statuses []model.ShelterStatus
}

type ShelterRepository interface {
	Create(ctx context.Context, s *model.Shelter) error
	Get(ctx context.Context, id string) (*model.Shelter, error)
	List(ctx context.Context, f ShelterFilter) ([]model.Shelter, error)
	Mutate(ctx context.Context, id string, fn func(s *model.Shelter) error) (*model.Shelter, error)
	Delete(ctx context.Context, id string) error
}

// OccupancyUpdate receives the shelter and its latest snapshot (nil when
// none exists) and returns the snapshot to store. A snapshot with an empty
// ID is inserted, otherwise the existing one is overwritten.
type OccupancyUpdate func(shelter *model.Shelter, latest *model.OccupancySnapshot) (*model.OccupancySnapshot, error)

type OccupancyRepository interface {
	Create(ctx context.Context, snap *model.OccupancySnapshot) error
	Latest(ctx context.Context, shelterID string) (*model.OccupancySnapshot, error)
	History(ctx context.Context, shelterID string, limit int) ([]model.OccupancySnapshot, error)
	UpdateLatest(ctx context.Context, shelterID string, fn OccupancyUpdate) (*model.OccupancySnapshot, error)
}

type ArticleFilter struct {
	PublishedOnly bool
	Category      string
	Limit         int
}

type ArticleRepository interface {
	Create(ctx context.Context, a *model.Article) error
	Get(ctx context.Context, id string) (*model.Article, error)
	List(ctx context.Context, f ArticleFilter) ([]model.Article, error)
	Mutate(ctx context.Context, id string, fn func(a *model.Article) error) (*model.Article, error)
	// Delete removes the article and clears the linked quiz's articleId.
	Delete(ctx context.Context, id string) error
}

type QuizRepository interface {
	// CreateLinked stores q and points its article at it. It fails when the
	// article is missing or already linked to a quiz.
	CreateLinked(ctx context.Context, q *model.Quiz) error
	Get(ctx context.Context, id string) (*model.Quiz, error)
	GetByArticle(ctx context.Context, articleID string) (*model.Quiz, error)
	List(ctx context.Context) ([]model.Quiz, error)
	Mutate(ctx context.Context, id string, fn func(q *model.Quiz) error) (*model.Quiz, error)
	// DeleteLinked removes the quiz and clears its article's quizId.
	DeleteLinked(ctx context.Context, id string) error
	ApplyLinkFixes(ctx context.Context, fixes []domain.LinkFix) error
}

type QuizAttemptRepository interface {
	Create(ctx context.Context, a *model.QuizAttempt) error
	ListByUser(ctx context.Context, userID, quizID string) ([]model.QuizAttempt, error)
}

type ChecklistRepository interface {
	Create(ctx context.Context, c *model.Checklist) error
	Get(ctx context.Context, id string) (*model.Checklist, error)
	List(ctx context.Context, activeOnly bool) ([]model.Checklist, error)
	Mutate(ctx context.Context, id string, fn func(c *model.Checklist) error) (*model.Checklist, error)
	// Delete removes the checklist together with every user's progress on it.
	Delete(ctx context.Context, id string) error
}

type ProgressRepository interface {
	GetOrCreate(ctx context.Context, userID string, c *model.Checklist) (*model.ChecklistProgress, error)
	// Find returns nil when the user has no progress on the checklist.
	Find(ctx context.Context, userID, checklistID string) (*model.ChecklistProgress, error)
	ListByUser(ctx context.Context, userID string) ([]model.ChecklistProgress, error)
	Toggle(ctx context.Context, userID string, c *model.Checklist, itemID string) (*model.ChecklistProgress, bool, error)
	// Reset unchecks every entry; it does not create missing progress.
	Reset(ctx context.Context, userID, checklistID string) (*model.ChecklistProgress, error)
}

type AlertFilter struct {
	LiveAt   time.Time
	Type     model.DisasterCategory
	Source   model.AlertSource
	AreaName string
	Limit    int
}

type AlertRepository interface {
	Create(ctx context.Context, a *model.Alert) error
	Get(ctx context.Context, id string) (*model.Alert, error)
	List(ctx context.Context, f AlertFilter) ([]model.Alert, error)
	Mutate(ctx context.Context, id string, fn func(a *model.Alert) error) (*model.Alert, error)
	Delete(ctx context.Context, id string) error
}

type NewsRepository interface {
	// Replace swaps the cached items for items and records fetchedAt.
	Replace(ctx context.Context, items []model.ClimateNews, fetchedAt time.Time) error
	// List returns cached items, newest first, and the time they were fetched.
	List(ctx context.Context, limit int) ([]model.ClimateNews, time.Time, error)
}

// Store groups the document repositories.
type Store struct {
	Reports    ReportRepository
	Votes      VoteRepository
	Comments   CommentRepository
	Shelters   ShelterRepository
	Occupancy  OccupancyRepository
	Articles   ArticleRepository
	Quizzes    QuizRepository
	Attempts   QuizAttemptRepository
	Checklists ChecklistRepository
	Progress   ProgressRepository
	Alerts     AlertRepository
	News       NewsRepository
}

func limitOr(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}
