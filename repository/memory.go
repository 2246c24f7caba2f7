package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"disasterprep/domain"
	"disasterprep/model"

	"github.com/google/uuid"
)

// memDB holds every collection behind one lock, so operations spanning
// several documents are atomic the same way a Firestore transaction is.
type memDB struct {
	mu  sync.RWMutex
	now func() time.Time

	reports    map[string]model.Report
	votes      map[string]model.Vote
	comments   map[string]model.Comment
	shelters   map[string]model.Shelter
	occupancy  map[string]model.OccupancySnapshot
	articles   map[string]model.Article
	quizzes    map[string]model.Quiz
	attempts   map[string]model.QuizAttempt
	checklists map[string]model.Checklist
	progress   map[string]model.ChecklistProgress
	alerts     map[string]model.Alert
	news       map[string]model.ClimateNews
	newsAt     time.Time
}

type MemoryOption func(*memDB)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) MemoryOption {
	return func(db *memDB) { db.now = now }
}

// NewMemoryStore returns a Store kept in process memory. It backs local
// development and controller tests.
func NewMemoryStore(opts ...MemoryOption) *Store {
	db := &memDB{
		now:        time.Now,
		reports:    map[string]model.Report{},
		votes:      map[string]model.Vote{},
		comments:   map[string]model.Comment{},
		shelters:   map[string]model.Shelter{},
		occupancy:  map[string]model.OccupancySnapshot{},
		articles:   map[string]model.Article{},
		quizzes:    map[string]model.Quiz{},
		attempts:   map[string]model.QuizAttempt{},
		checklists: map[string]model.Checklist{},
		progress:   map[string]model.ChecklistProgress{},
		alerts:     map[string]model.Alert{},
		news:       map[string]model.ClimateNews{},
	}
	for _, o := range opts {
		o(db)
	}
	return &Store{
		Reports:    memReports{db},
		Votes:      memVotes{db},
		Comments:   memComments{db},
		Shelters:   memShelters{db},
		Occupancy:  memOccupancy{db},
		Articles:   memArticles{db},
		Quizzes:    memQuizzes{db},
		Attempts:   memAttempts{db},
		Checklists: memChecklists{db},
		Progress:   memProgress{db},
		Alerts:     memAlerts{db},
		News:       memNews{db},
	}
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append([]T(nil), s...)
}

func truncate[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}

// ---- reports ----

type memReports struct{ db *memDB }

func (m memReports) Create(_ context.Context, r *model.Report) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := m.db.now()
	r.CreatedAt, r.UpdatedAt = now, now
	m.db.reports[r.ID] = *r
	return nil
}

func (m memReports) Get(_ context.Context, id string) (*model.Report, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	r, ok := m.db.reports[id]
	if !ok {
		return nil, domain.NotFound("report %s not found", id)
	}
	return &r, nil
}

func (m memReports) List(_ context.Context, f ReportFilter) ([]model.Report, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	out := make([]model.Report, 0)
	for _, r := range m.db.reports {
		if f.Category != "" && r.Category != f.Category {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.Severity != "" && r.Severity != f.Severity {
			continue
		}
		if f.ReporterID != "" && r.ReporterID != f.ReporterID {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return truncate(out, limitOr(f.Limit, defaultListLimit)), nil
}

func (m memReports) Mutate(_ context.Context, id string, fn func(*model.Report) error) (*model.Report, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	r, ok := m.db.reports[id]
	if !ok {
		return nil, domain.NotFound("report %s not found", id)
	}
	if err := fn(&r); err != nil {
		return nil, err
	}
	r.ID = id
	r.UpdatedAt = m.db.now()
	m.db.reports[id] = r
	return &r, nil
}

// ---- votes ----

type memVotes struct{ db *memDB }

func (m memVotes) Cast(_ context.Context, reportID, userID string, voteType model.VoteType) (domain.VoteOutcome, *model.Report, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	r, ok := m.db.reports[reportID]
	if !ok {
		return "", nil, domain.NotFound("report %s not found", reportID)
	}
	if !domain.CanVote(r.Status) {
		return "", nil, domain.Forbidden("report %s is not open for voting", reportID)
	}

	id := model.VoteID(reportID, userID)
	var existing *model.VoteType
	prev, had := m.db.votes[id]
	if had {
		existing = &prev.VoteType
	}
	t, err := domain.NextVote(existing, voteType)
	if err != nil {
		return "", nil, err
	}

	now := m.db.now()
	switch {
	case t.Next == nil:
		delete(m.db.votes, id)
	case had:
		prev.VoteType = *t.Next
		prev.UpdatedAt = now
		m.db.votes[id] = prev
	default:
		m.db.votes[id] = model.Vote{ID: id, ReportID: reportID, UserID: userID, VoteType: *t.Next, CreatedAt: now, UpdatedAt: now}
	}

	r.ConfirmCount, r.DenyCount = t.ApplyCounts(r.ConfirmCount, r.DenyCount)
	r.UpdatedAt = now
	m.db.reports[reportID] = r
	return t.Outcome, &r, nil
}

func (m memVotes) Get(_ context.Context, reportID, userID string) (*model.Vote, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	v, ok := m.db.votes[model.VoteID(reportID, userID)]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

// ---- comments ----

type memComments struct{ db *memDB }

func (m memComments) Create(_ context.Context, c *model.Comment) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.reports[c.ReportID]; !ok {
		return domain.NotFound("report %s not found", c.ReportID)
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = m.db.now()
	m.db.comments[c.ID] = *c
	return nil
}

func (m memComments) Get(_ context.Context, reportID, id string) (*model.Comment, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	c, ok := m.db.comments[id]
	if !ok || c.ReportID != reportID {
		return nil, domain.NotFound("comment %s not found", id)
	}
	return &c, nil
}

func (m memComments) ListByReport(_ context.Context, reportID string) ([]model.Comment, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	out := make([]model.Comment, 0)
	for _, c := range m.db.comments {
		if c.ReportID == reportID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m memComments) Delete(_ context.Context, reportID, id string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	c, ok := m.db.comments[id]
	if !ok || c.ReportID != reportID {
		return domain.NotFound("comment %s not found", id)
	}
	delete(m.db.comments, id)
	return nil
}

// ---- shelters ----

type memShelters struct{ db *memDB }

func cloneShelter(s model.Shelter) model.Shelter {
	s.Facilities = cloneSlice(s.Facilities)
	s.ReliefItems = cloneSlice(s.ReliefItems)
	return s
}

func (m memShelters) Create(_ context.Context, s *model.Shelter) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := m.db.now()
	s.CreatedAt, s.UpdatedAt = now, now
	m.db.shelters[s.ID] = cloneShelter(*s)
	return nil
}

func (m memShelters) Get(_ context.Context, id string) (*model.Shelter, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	s, ok := m.db.shelters[id]
	if !ok {
		return nil, domain.NotFound("shelter %s not found", id)
	}
	s = cloneShelter(s)
	return &s, nil
}

func (m memShelters) List(_ context.Context, f ShelterFilter) ([]model.Shelter, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	out := make([]model.Shelter, 0)
	for _, s := range m.db.shelters {
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, s.Status) {
			continue
		}
		out = append(out, cloneShelter(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func containsStatus(list []model.ShelterStatus, s model.ShelterStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (m memShelters) Mutate(_ context.Context, id string, fn func(*model.Shelter) error) (*model.Shelter, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	s, ok := m.db.shelters[id]
	if !ok {
		return nil, domain.NotFound("shelter %s not found", id)
	}
	s = cloneShelter(s)
	if err := fn(&s); err != nil {
		return nil, err
	}
	s.ID = id
	s.UpdatedAt = m.db.now()
	m.db.shelters[id] = cloneShelter(s)
	return &s, nil
}

func (m memShelters) Delete(_ context.Context, id string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.shelters[id]; !ok {
		return domain.NotFound("shelter %s not found", id)
	}
	delete(m.db.shelters, id)
	return nil
}

// ---- occupancy ----

type memOccupancy struct{ db *memDB }

func (m memOccupancy) Create(_ context.Context, snap *model.OccupancySnapshot) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.shelters[snap.ShelterID]; !ok {
		return domain.NotFound("shelter %s not found", snap.ShelterID)
	}
	m.insertLocked(snap)
	return nil
}

func (m memOccupancy) insertLocked(snap *model.OccupancySnapshot) {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.RecordedAt.IsZero() {
		snap.RecordedAt = m.db.now()
	}
	m.db.occupancy[snap.ID] = *snap
}

// historyLocked returns the shelter's snapshots, newest first.
func (m memOccupancy) historyLocked(shelterID string) []model.OccupancySnapshot {
	out := make([]model.OccupancySnapshot, 0)
	for _, s := range m.db.occupancy {
		if s.ShelterID == shelterID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	return out
}

func (m memOccupancy) Latest(_ context.Context, shelterID string) (*model.OccupancySnapshot, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	h := m.historyLocked(shelterID)
	if len(h) == 0 {
		return nil, domain.NotFound("no occupancy recorded for shelter %s", shelterID)
	}
	return &h[0], nil
}

func (m memOccupancy) History(_ context.Context, shelterID string, limit int) ([]model.OccupancySnapshot, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	return truncate(m.historyLocked(shelterID), limitOr(limit, defaultListLimit)), nil
}

func (m memOccupancy) UpdateLatest(_ context.Context, shelterID string, fn OccupancyUpdate) (*model.OccupancySnapshot, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	s, ok := m.db.shelters[shelterID]
	if !ok {
		return nil, domain.NotFound("shelter %s not found", shelterID)
	}
	s = cloneShelter(s)

	var latest *model.OccupancySnapshot
	if h := m.historyLocked(shelterID); len(h) > 0 {
		latest = &h[0]
	}
	next, err := fn(&s, latest)
	if err != nil {
		return nil, err
	}
	next.ShelterID = shelterID
	m.insertLocked(next)
	return next, nil
}

// ---- articles ----

type memArticles struct{ db *memDB }

func (m memArticles) Create(_ context.Context, a *model.Article) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := m.db.now()
	a.CreatedAt, a.UpdatedAt = now, now
	a.Tags = cloneSlice(a.Tags)
	m.db.articles[a.ID] = *a
	return nil
}

func (m memArticles) Get(_ context.Context, id string) (*model.Article, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	a, ok := m.db.articles[id]
	if !ok {
		return nil, domain.NotFound("article %s not found", id)
	}
	a.Tags = cloneSlice(a.Tags)
	return &a, nil
}

func (m memArticles) List(_ context.Context, f ArticleFilter) ([]model.Article, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	out := make([]model.Article, 0)
	for _, a := range m.db.articles {
		if f.PublishedOnly && !a.Published {
			continue
		}
		if f.Category != "" && !strings.EqualFold(a.Category, f.Category) {
			continue
		}
		a.Tags = cloneSlice(a.Tags)
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return truncate(out, f.Limit), nil
}

func (m memArticles) Mutate(_ context.Context, id string, fn func(*model.Article) error) (*model.Article, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	a, ok := m.db.articles[id]
	if !ok {
		return nil, domain.NotFound("article %s not found", id)
	}
	a.Tags = cloneSlice(a.Tags)
	if err := fn(&a); err != nil {
		return nil, err
	}
	a.ID = id
	a.UpdatedAt = m.db.now()
	m.db.articles[id] = a
	return &a, nil
}

func (m memArticles) Delete(_ context.Context, id string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	a, ok := m.db.articles[id]
	if !ok {
		return domain.NotFound("article %s not found", id)
	}
	if q, ok := m.db.quizzes[a.QuizID]; ok && q.ArticleID == id {
		q.ArticleID = ""
		q.UpdatedAt = m.db.now()
		m.db.quizzes[q.ID] = q
	}
	delete(m.db.articles, id)
	return nil
}

// ---- quizzes ----

type memQuizzes struct{ db *memDB }

func cloneQuiz(q model.Quiz) model.Quiz {
	qs := make([]model.Question, len(q.Questions))
	for i, qu := range q.Questions {
		qu.Options = cloneSlice(qu.Options)
		qs[i] = qu
	}
	q.Questions = qs
	return q
}

func (m memQuizzes) CreateLinked(_ context.Context, q *model.Quiz) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	a, ok := m.db.articles[q.ArticleID]
	if !ok {
		return domain.NotFound("article %s not found", q.ArticleID)
	}
	if a.QuizID != "" {
		return domain.ErrArticleHasQuiz(a.ID, a.QuizID)
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	now := m.db.now()
	q.CreatedAt, q.UpdatedAt = now, now
	m.db.quizzes[q.ID] = cloneQuiz(*q)

	a.QuizID = q.ID
	a.UpdatedAt = now
	m.db.articles[a.ID] = a
	return nil
}

func (m memQuizzes) Get(_ context.Context, id string) (*model.Quiz, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	q, ok := m.db.quizzes[id]
	if !ok {
		return nil, domain.NotFound("quiz %s not found", id)
	}
	q = cloneQuiz(q)
	return &q, nil
}

func (m memQuizzes) GetByArticle(_ context.Context, articleID string) (*model.Quiz, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	a, ok := m.db.articles[articleID]
	if !ok {
		return nil, domain.NotFound("article %s not found", articleID)
	}
	q, ok := m.db.quizzes[a.QuizID]
	if a.QuizID == "" || !ok {
		return nil, domain.NotFound("article %s has no quiz", articleID)
	}
	q = cloneQuiz(q)
	return &q, nil
}

func (m memQuizzes) List(_ context.Context) ([]model.Quiz, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	out := make([]model.Quiz, 0, len(m.db.quizzes))
	for _, q := range m.db.quizzes {
		out = append(out, cloneQuiz(q))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m memQuizzes) Mutate(_ context.Context, id string, fn func(*model.Quiz) error) (*model.Quiz, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	q, ok := m.db.quizzes[id]
	if !ok {
		return nil, domain.NotFound("quiz %s not found", id)
	}
	q = cloneQuiz(q)
	articleID := q.ArticleID
	if err := fn(&q); err != nil {
		return nil, err
	}
	q.ID = id
	q.ArticleID = articleID
	q.UpdatedAt = m.db.now()
	m.db.quizzes[id] = cloneQuiz(q)
	return &q, nil
}

func (m memQuizzes) DeleteLinked(_ context.Context, id string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	q, ok := m.db.quizzes[id]
	if !ok {
		return domain.NotFound("quiz %s not found", id)
	}
	if a, ok := m.db.articles[q.ArticleID]; ok && a.QuizID == id {
		a.QuizID = ""
		a.UpdatedAt = m.db.now()
		m.db.articles[a.ID] = a
	}
	delete(m.db.quizzes, id)
	return nil
}

func (m memQuizzes) ApplyLinkFixes(_ context.Context, fixes []domain.LinkFix) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	now := m.db.now()
	for _, f := range fixes {
		switch f.Action {
		case domain.FixClearArticleQuiz:
			if a, ok := m.db.articles[f.ArticleID]; ok && a.QuizID == f.QuizID {
				a.QuizID, a.UpdatedAt = "", now
				m.db.articles[a.ID] = a
			}
		case domain.FixClearQuizArticle:
			if q, ok := m.db.quizzes[f.QuizID]; ok && q.ArticleID == f.ArticleID {
				q.ArticleID, q.UpdatedAt = "", now
				m.db.quizzes[q.ID] = q
			}
		case domain.FixLinkArticle:
			if a, ok := m.db.articles[f.ArticleID]; ok {
				a.QuizID, a.UpdatedAt = f.QuizID, now
				m.db.articles[a.ID] = a
			}
		}
	}
	return nil
}

// ---- attempts ----

type memAttempts struct{ db *memDB }

func (m memAttempts) Create(_ context.Context, a *model.QuizAttempt) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.SubmittedAt.IsZero() {
		a.SubmittedAt = m.db.now()
	}
	cp := *a
	cp.Answers = cloneSlice(a.Answers)
	cp.Results = cloneSlice(a.Results)
	m.db.attempts[a.ID] = cp
	return nil
}

func (m memAttempts) ListByUser(_ context.Context, userID, quizID string) ([]model.QuizAttempt, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	out := make([]model.QuizAttempt, 0)
	for _, a := range m.db.attempts {
		if a.UserID != userID || (quizID != "" && a.QuizID != quizID) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

// ---- checklists ----

type memChecklists struct{ db *memDB }

func (m memChecklists) Create(_ context.Context, c *model.Checklist) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := m.db.now()
	c.CreatedAt, c.UpdatedAt = now, now
	cp := *c
	cp.Items = cloneSlice(c.Items)
	m.db.checklists[c.ID] = cp
	return nil
}

func (m memChecklists) Get(_ context.Context, id string) (*model.Checklist, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	c, ok := m.db.checklists[id]
	if !ok {
		return nil, domain.NotFound("checklist %s not found", id)
	}
	c.Items = cloneSlice(c.Items)
	return &c, nil
}

func (m memChecklists) List(_ context.Context, activeOnly bool) ([]model.Checklist, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	out := make([]model.Checklist, 0)
	for _, c := range m.db.checklists {
		if activeOnly && !c.IsActive {
			continue
		}
		c.Items = cloneSlice(c.Items)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m memChecklists) Mutate(_ context.Context, id string, fn func(*model.Checklist) error) (*model.Checklist, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	c, ok := m.db.checklists[id]
	if !ok {
		return nil, domain.NotFound("checklist %s not found", id)
	}
	c.Items = cloneSlice(c.Items)
	if err := fn(&c); err != nil {
		return nil, err
	}
	c.ID = id
	c.UpdatedAt = m.db.now()
	stored := c
	stored.Items = cloneSlice(c.Items)
	m.db.checklists[id] = stored
	return &c, nil
}

func (m memChecklists) Delete(_ context.Context, id string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.checklists[id]; !ok {
		return domain.NotFound("checklist %s not found", id)
	}
	delete(m.db.checklists, id)
	for pid, p := range m.db.progress {
		if p.ChecklistID == id {
			delete(m.db.progress, pid)
		}
	}
	return nil
}

// ---- progress ----

type memProgress struct{ db *memDB }

func cloneProgress(p model.ChecklistProgress) model.ChecklistProgress {
	p.Items = cloneSlice(p.Items)
	return p
}

func (m memProgress) getOrCreateLocked(userID string, c *model.Checklist) model.ChecklistProgress {
	id := model.ProgressID(userID, c.ID)
	if p, ok := m.db.progress[id]; ok {
		return cloneProgress(p)
	}
	p := *domain.NewProgress(userID, c, m.db.now())
	m.db.progress[id] = cloneProgress(p)
	return p
}

func (m memProgress) GetOrCreate(_ context.Context, userID string, c *model.Checklist) (*model.ChecklistProgress, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	p := m.getOrCreateLocked(userID, c)
	return &p, nil
}

func (m memProgress) Find(_ context.Context, userID, checklistID string) (*model.ChecklistProgress, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	p, ok := m.db.progress[model.ProgressID(userID, checklistID)]
	if !ok {
		return nil, nil
	}
	p = cloneProgress(p)
	return &p, nil
}

func (m memProgress) ListByUser(_ context.Context, userID string) ([]model.ChecklistProgress, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	out := make([]model.ChecklistProgress, 0)
	for _, p := range m.db.progress {
		if p.UserID == userID {
			out = append(out, cloneProgress(p))
		}
	}
	return out, nil
}

func (m memProgress) Toggle(_ context.Context, userID string, c *model.Checklist, itemID string) (*model.ChecklistProgress, bool, error) {
	if !domain.HasItem(c, itemID) {
		return nil, false, domain.NotFound("item %s not found in checklist %s", itemID, c.ID)
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	p := m.getOrCreateLocked(userID, c)
	checked := domain.ToggleEntry(&p, itemID, m.db.now())
	m.db.progress[p.ID] = cloneProgress(p)
	return &p, checked, nil
}

func (m memProgress) Reset(_ context.Context, userID, checklistID string) (*model.ChecklistProgress, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	id := model.ProgressID(userID, checklistID)
	p, ok := m.db.progress[id]
	if !ok {
		return nil, domain.NotFound("no progress on checklist %s", checklistID)
	}
	p = cloneProgress(p)
	domain.ResetEntries(&p, m.db.now())
	m.db.progress[id] = cloneProgress(p)
	return &p, nil
}

// ---- alerts ----

type memAlerts struct{ db *memDB }

func (m memAlerts) Create(_ context.Context, a *model.Alert) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.IssuedAt.IsZero() {
		a.IssuedAt = m.db.now()
	}
	m.db.alerts[a.ID] = *a
	return nil
}

func (m memAlerts) Get(_ context.Context, id string) (*model.Alert, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	a, ok := m.db.alerts[id]
	if !ok {
		return nil, domain.NotFound("alert %s not found", id)
	}
	return &a, nil
}

func (m memAlerts) List(_ context.Context, f AlertFilter) ([]model.Alert, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	out := make([]model.Alert, 0)
	for _, a := range m.db.alerts {
		if !f.LiveAt.IsZero() && !a.Live(f.LiveAt) {
			continue
		}
		if f.Type != "" && a.Type != f.Type {
			continue
		}
		if f.Source != "" && a.Source != f.Source {
			continue
		}
		if f.AreaName != "" && !strings.EqualFold(a.AreaName, f.AreaName) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssuedAt.After(out[j].IssuedAt) })
	return truncate(out, limitOr(f.Limit, defaultListLimit)), nil
}

func (m memAlerts) Mutate(_ context.Context, id string, fn func(*model.Alert) error) (*model.Alert, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	a, ok := m.db.alerts[id]
	if !ok {
		return nil, domain.NotFound("alert %s not found", id)
	}
	if err := fn(&a); err != nil {
		return nil, err
	}
	a.ID = id
	m.db.alerts[id] = a
	return &a, nil
}

func (m memAlerts) Delete(_ context.Context, id string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.alerts[id]; !ok {
		return domain.NotFound("alert %s not found", id)
	}
	delete(m.db.alerts, id)
	return nil
}

// ---- news ----

type memNews struct{ db *memDB }

func (m memNews) Replace(_ context.Context, items []model.ClimateNews, fetchedAt time.Time) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.news = make(map[string]model.ClimateNews, len(items))
	for _, it := range items {
		m.db.news[it.ID] = it
	}
	m.db.newsAt = fetchedAt
	return nil
}

func (m memNews) List(_ context.Context, limit int) ([]model.ClimateNews, time.Time, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	out := make([]model.ClimateNews, 0, len(m.db.news))
	for _, n := range m.db.news {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	return truncate(out, limit), m.db.newsAt, nil
}
