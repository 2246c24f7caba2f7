package repository

import (
	"context"
	"sort"
	"strings"
	"time"

	"disasterprep/domain"
	"disasterprep/model"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore caps a write batch at 500 operations.
const maxBatchWrites = 450

type fsDB struct {
	client *firestore.Client
	now    func() time.Time
}

// NewFirestoreStore returns a Store backed by Firestore. Multi-document
// operations run inside RunTransaction.
//
// Required composite indexes:
//
//	ShelterOccupancy: shelterId ASC, recordedAt DESC
//	QuizAttempts:     userId ASC, quizId ASC, submittedAt DESC
//	Reports:          <filter field> ASC, createdAt DESC
func NewFirestoreStore(client *firestore.Client) *Store {
	db := &fsDB{client: client, now: time.Now}
	return &Store{
		Reports:    fsReports{db},
		Votes:      fsVotes{db},
		Comments:   fsComments{db},
		Shelters:   fsShelters{db},
		Occupancy:  fsOccupancy{db},
		Articles:   fsArticles{db},
		Quizzes:    fsQuizzes{db},
		Attempts:   fsAttempts{db},
		Checklists: fsChecklists{db},
		Progress:   fsProgress{db},
		Alerts:     fsAlerts{db},
		News:       fsNews{db},
	}
}

func (f *fsDB) col(name string) *firestore.CollectionRef { return f.client.Collection(name) }

func isNotFound(err error) bool { return status.Code(err) == codes.NotFound }

func decode[T any](snap *firestore.DocumentSnapshot, setID func(*T, string)) (*T, error) {
	var v T
	if err := snap.DataTo(&v); err != nil {
		return nil, err
	}
	setID(&v, snap.Ref.ID)
	return &v, nil
}

func collect[T any](it *firestore.DocumentIterator, setID func(*T, string)) ([]T, error) {
	defer it.Stop()
	out := make([]T, 0)
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		v, err := decode(doc, setID)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func getDoc[T any](ctx context.Context, ref *firestore.DocumentRef, what string, setID func(*T, string)) (*T, error) {
	snap, err := ref.Get(ctx)
	if isNotFound(err) {
		return nil, domain.NotFound("%s %s not found", what, ref.ID)
	}
	if err != nil {
		return nil, err
	}
	return decode(snap, setID)
}

func getTx[T any](tx *firestore.Transaction, ref *firestore.DocumentRef, what string, setID func(*T, string)) (*T, error) {
	snap, err := tx.Get(ref)
	if isNotFound(err) {
		return nil, domain.NotFound("%s %s not found", what, ref.ID)
	}
	if err != nil {
		return nil, err
	}
	return decode(snap, setID)
}

// mutateDoc reads ref, applies fn and writes the result back in one
// transaction. finish stamps derived fields after fn succeeds.
func mutateDoc[T any](ctx context.Context, f *fsDB, ref *firestore.DocumentRef, what string, setID func(*T, string), fn func(*T) error, finish func(*T, time.Time)) (*T, error) {
	var out *T
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		v, err := getTx(tx, ref, what, setID)
		if err != nil {
			return err
		}
		if err := fn(v); err != nil {
			return err
		}
		setID(v, ref.ID)
		if finish != nil {
			finish(v, f.now())
		}
		out = v
		return tx.Set(ref, v)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func deleteDoc(ctx context.Context, ref *firestore.DocumentRef, what string) error {
	if _, err := ref.Get(ctx); err != nil {
		if isNotFound(err) {
			return domain.NotFound("%s %s not found", what, ref.ID)
		}
		return err
	}
	_, err := ref.Delete(ctx)
	return err
}

func setReportID(r *model.Report, id string) { r.ID = id }
func setVoteID(v *model.Vote, id string) { v.ID = id }
func setCommentID(c *model.Comment, id string) { c.ID = id }
func setShelterID(s *model.Shelter, id string) { s.ID = id }
func setSnapshotID(s *model.OccupancySnapshot, id string) { s.ID = id }
func setArticleID(a *model.Article, id string) { a.ID = id }
func setQuizID(q *model.Quiz, id string) { q.ID = id }
func setAttemptID(a *model.QuizAttempt, id string) { a.ID = id }
func setChecklistID(c *model.Checklist, id string) { c.ID = id }
func setProgressID(p *model.ChecklistProgress, id string) { p.ID = id }
func setAlertID(a *model.Alert, id string) { a.ID = id }
func setNewsID(n *model.ClimateNews, id string) { n.ID = id }

// ---- reports ----

type fsReports struct{ db *fsDB }

func (r fsReports) Create(ctx context.Context, rep *model.Report) error {
	ref := r.db.col(colReports).NewDoc()
	now := r.db.now()
	rep.ID = ref.ID
	rep.CreatedAt, rep.UpdatedAt = now, now
	_, err := ref.Create(ctx, rep)
	return err
}

func (r fsReports) Get(ctx context.Context, id string) (*model.Report, error) {
	return getDoc(ctx, r.db.col(colReports).Doc(id), "report", setReportID)
}

func (r fsReports) List(ctx context.Context, f ReportFilter) ([]model.Report, error) {
	q := r.db.col(colReports).Query
	if f.Category != "" {
		q = q.Where("category", "==", string(f.Category))
	}
	if f.Status != "" {
		q = q.Where("status", "==", string(f.Status))
	}
	if f.Severity != "" {
		q = q.Where("severity", "==", string(f.Severity))
	}
	if f.ReporterID != "" {
		q = q.Where("reporterId", "==", f.ReporterID)
	}
	q = q.OrderBy("createdAt", firestore.Desc).Limit(limitOr(f.Limit, defaultListLimit))
	return collect(q.Documents(ctx), setReportID)
}

func (r fsReports) Mutate(ctx context.Context, id string, fn func(*model.Report) error) (*model.Report, error) {
	return mutateDoc(ctx, r.db, r.db.col(colReports).Doc(id), "report", setReportID, fn,
		func(rep *model.Report, now time.Time) { rep.UpdatedAt = now })
}

// ---- votes ----

type fsVotes struct{ db *fsDB }

func (v fsVotes) Cast(ctx context.Context, reportID, userID string, voteType model.VoteType) (domain.VoteOutcome, *model.Report, error) {
	var (
		outcome domain.VoteOutcome
		report  *model.Report
	)
	reportRef := v.db.col(colReports).Doc(reportID)
	voteRef := v.db.col(colVotes).Doc(model.VoteID(reportID, userID))

	err := v.db.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		r, err := getTx(tx, reportRef, "report", setReportID)
		if err != nil {
			return err
		}
		if !domain.CanVote(r.Status) {
			return domain.Forbidden("report %s is not open for voting", reportID)
		}

		var existing *model.VoteType
		snap, err := tx.Get(voteRef)
		switch {
		case err == nil:
			prev, err := decode(snap, setVoteID)
			if err != nil {
				return err
			}
			existing = &prev.VoteType
		case !isNotFound(err):
			return err
		}

		t, err := domain.NextVote(existing, voteType)
		if err != nil {
			return err
		}

		now := v.db.now()
		switch {
		case t.Next == nil:
			err = tx.Delete(voteRef)
		case existing != nil:
			err = tx.Update(voteRef, []firestore.Update{
				{Path: "voteType", Value: string(*t.Next)},
				{Path: "updatedAt", Value: now},
			})
		default:
			err = tx.Create(voteRef, model.Vote{ReportID: reportID, UserID: userID, VoteType: *t.Next, CreatedAt: now, UpdatedAt: now})
		}
		if err != nil {
			return err
		}

		r.ConfirmCount, r.DenyCount = t.ApplyCounts(r.ConfirmCount, r.DenyCount)
		r.UpdatedAt = now
		outcome, report = t.Outcome, r
		return tx.Update(reportRef, []firestore.Update{
			{Path: "confirmCount", Value: r.ConfirmCount},
			{Path: "denyCount", Value: r.DenyCount},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		return "", nil, err
	}
	return outcome, report, nil
}

func (v fsVotes) Get(ctx context.Context, reportID, userID string) (*model.Vote, error) {
	vote, err := getDoc(ctx, v.db.col(colVotes).Doc(model.VoteID(reportID, userID)), "vote", setVoteID)
	if domain.IsNotFound(err) {
		return nil, nil
	}
	return vote, err
}

// ---- comments ----

type fsComments struct{ db *fsDB }

func (c fsComments) Create(ctx context.Context, cm *model.Comment) error {
	if _, err := getDoc(ctx, c.db.col(colReports).Doc(cm.ReportID), "report", setReportID); err != nil {
		return err
	}
	ref := c.db.col(colComments).NewDoc()
	cm.ID = ref.ID
	cm.CreatedAt = c.db.now()
	_, err := ref.Create(ctx, cm)
	return err
}

func (c fsComments) Get(ctx context.Context, reportID, id string) (*model.Comment, error) {
	cm, err := getDoc(ctx, c.db.col(colComments).Doc(id), "comment", setCommentID)
	if err != nil {
		return nil, err
	}
	if cm.ReportID != reportID {
		return nil, domain.NotFound("comment %s not found", id)
	}
	return cm, nil
}

func (c fsComments) ListByReport(ctx context.Context, reportID string) ([]model.Comment, error) {
	out, err := collect(c.db.col(colComments).Where("reportId", "==", reportID).Documents(ctx), setCommentID)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (c fsComments) Delete(ctx context.Context, reportID, id string) error {
	if _, err := c.Get(ctx, reportID, id); err != nil {
		return err
	}
	_, err := c.db.col(colComments).Doc(id).Delete(ctx)
	return err
}

// ---- shelters ----

type fsShelters struct{ db *fsDB }

func (s fsShelters) Create(ctx context.Context, sh *model.Shelter) error {
	ref := s.db.col(colShelters).NewDoc()
	now := s.db.now()
	sh.ID = ref.ID
	sh.CreatedAt, sh.UpdatedAt = now, now
	_, err := ref.Create(ctx, sh)
	return err
}

func (s fsShelters) Get(ctx context.Context, id string) (*model.Shelter, error) {
	return getDoc(ctx, s.db.col(colShelters).Doc(id), "shelter", setShelterID)
}

func (s fsShelters) List(ctx context.Context, f ShelterFilter) ([]model.Shelter, error) {
	q := s.db.col(colShelters).Query
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, st := range f.Statuses {
			statuses[i] = string(st)
		}
		q = q.Where("status", "in", statuses)
	}
	out, err := collect(q.Documents(ctx), setShelterID)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s fsShelters) Mutate(ctx context.Context, id string, fn func(*model.Shelter) error) (*model.Shelter, error) {
	return mutateDoc(ctx, s.db, s.db.col(colShelters).Doc(id), "shelter", setShelterID, fn,
		func(sh *model.Shelter, now time.Time) { sh.UpdatedAt = now })
}

func (s fsShelters) Delete(ctx context.Context, id string) error {
	return deleteDoc(ctx, s.db.col(colShelters).Doc(id), "shelter")
}

// ---- occupancy ----

type fsOccupancy struct{ db *fsDB }

func (o fsOccupancy) latestQuery(shelterID string) firestore.Query {
	return o.db.col(colOccupancy).Where("shelterId", "==", shelterID).OrderBy("recordedAt", firestore.Desc)
}

func (o fsOccupancy) Create(ctx context.Context, snap *model.OccupancySnapshot) error {
	if _, err := getDoc(ctx, o.db.col(colShelters).Doc(snap.ShelterID), "shelter", setShelterID); err != nil {
		return err
	}
	ref := o.db.col(colOccupancy).NewDoc()
	snap.ID = ref.ID
	if snap.RecordedAt.IsZero() {
		snap.RecordedAt = o.db.now()
	}
	_, err := ref.Create(ctx, snap)
	return err
}

func (o fsOccupancy) Latest(ctx context.Context, shelterID string) (*model.OccupancySnapshot, error) {
	out, err := collect(o.latestQuery(shelterID).Limit(1).Documents(ctx), setSnapshotID)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, domain.NotFound("no occupancy recorded for shelter %s", shelterID)
	}
	return &out[0], nil
}

func (o fsOccupancy) History(ctx context.Context, shelterID string, limit int) ([]model.OccupancySnapshot, error) {
	return collect(o.latestQuery(shelterID).Limit(limitOr(limit, defaultListLimit)).Documents(ctx), setSnapshotID)
}

func (o fsOccupancy) UpdateLatest(ctx context.Context, shelterID string, fn OccupancyUpdate) (*model.OccupancySnapshot, error) {
	var out *model.OccupancySnapshot
	err := o.db.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		shelter, err := getTx(tx, o.db.col(colShelters).Doc(shelterID), "shelter", setShelterID)
		if err != nil {
			return err
		}
		found, err := collect(tx.Documents(o.latestQuery(shelterID).Limit(1)), setSnapshotID)
		if err != nil {
			return err
		}
		var latest *model.OccupancySnapshot
		if len(found) > 0 {
			latest = &found[0]
		}

		next, err := fn(shelter, latest)
		if err != nil {
			return err
		}
		next.ShelterID = shelterID
		if next.RecordedAt.IsZero() {
			next.RecordedAt = o.db.now()
		}
		var ref *firestore.DocumentRef
		if next.ID == "" {
			ref = o.db.col(colOccupancy).NewDoc()
			next.ID = ref.ID
		} else {
			ref = o.db.col(colOccupancy).Doc(next.ID)
		}
		out = next
		return tx.Set(ref, next)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ---- articles ----

type fsArticles struct{ db *fsDB }

func (a fsArticles) Create(ctx context.Context, art *model.Article) error {
	ref := a.db.col(colArticles).NewDoc()
	now := a.db.now()
	art.ID = ref.ID
	art.CreatedAt, art.UpdatedAt = now, now
	_, err := ref.Create(ctx, art)
	return err
}

func (a fsArticles) Get(ctx context.Context, id string) (*model.Article, error) {
	return getDoc(ctx, a.db.col(colArticles).Doc(id), "article", setArticleID)
}

func (a fsArticles) List(ctx context.Context, f ArticleFilter) ([]model.Article, error) {
	q := a.db.col(colArticles).Query
	if f.PublishedOnly {
		q = q.Where("published", "==", true)
	}
	out, err := collect(q.Documents(ctx), setArticleID)
	if err != nil {
		return nil, err
	}
	filtered := out[:0]
	for _, art := range out {
		if f.Category == "" || strings.EqualFold(art.Category, f.Category) {
			filtered = append(filtered, art)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].CreatedAt.After(filtered[j].CreatedAt) })
	return truncate(filtered, f.Limit), nil
}

func (a fsArticles) Mutate(ctx context.Context, id string, fn func(*model.Article) error) (*model.Article, error) {
	return mutateDoc(ctx, a.db, a.db.col(colArticles).Doc(id), "article", setArticleID, fn,
		func(art *model.Article, now time.Time) { art.UpdatedAt = now })
}

func (a fsArticles) Delete(ctx context.Context, id string) error {
	articleRef := a.db.col(colArticles).Doc(id)
	return a.db.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		art, err := getTx(tx, articleRef, "article", setArticleID)
		if err != nil {
			return err
		}
		var quizRef *firestore.DocumentRef
		if art.QuizID != "" {
			ref := a.db.col(colQuizzes).Doc(art.QuizID)
			q, err := getTx(tx, ref, "quiz", setQuizID)
			switch {
			case err == nil && q.ArticleID == id:
				quizRef = ref
			case err != nil && !domain.IsNotFound(err):
				return err
			}
		}
		if quizRef != nil {
			if err := tx.Update(quizRef, []firestore.Update{
				{Path: "articleId", Value: ""},
				{Path: "updatedAt", Value: a.db.now()},
			}); err != nil {
				return err
			}
		}
		return tx.Delete(articleRef)
	})
}

// ---- quizzes ----

type fsQuizzes struct{ db *fsDB }

func (q fsQuizzes) CreateLinked(ctx context.Context, quiz *model.Quiz) error {
	articleRef := q.db.col(colArticles).Doc(quiz.ArticleID)
	quizRef := q.db.col(colQuizzes).NewDoc()
	return q.db.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		art, err := getTx(tx, articleRef, "article", setArticleID)
		if err != nil {
			return err
		}
		if art.QuizID != "" {
			return domain.ErrArticleHasQuiz(art.ID, art.QuizID)
		}
		now := q.db.now()
		quiz.ID = quizRef.ID
		quiz.CreatedAt, quiz.UpdatedAt = now, now
		if err := tx.Create(quizRef, quiz); err != nil {
			return err
		}
		return tx.Update(articleRef, []firestore.Update{
			{Path: "quizId", Value: quizRef.ID},
			{Path: "updatedAt", Value: now},
		})
	})
}

func (q fsQuizzes) Get(ctx context.Context, id string) (*model.Quiz, error) {
	return getDoc(ctx, q.db.col(colQuizzes).Doc(id), "quiz", setQuizID)
}

func (q fsQuizzes) GetByArticle(ctx context.Context, articleID string) (*model.Quiz, error) {
	art, err := getDoc(ctx, q.db.col(colArticles).Doc(articleID), "article", setArticleID)
	if err != nil {
		return nil, err
	}
	if art.QuizID == "" {
		return nil, domain.NotFound("article %s has no quiz", articleID)
	}
	quiz, err := q.Get(ctx, art.QuizID)
	if domain.IsNotFound(err) {
		return nil, domain.NotFound("article %s has no quiz", articleID)
	}
	return quiz, err
}

func (q fsQuizzes) List(ctx context.Context) ([]model.Quiz, error) {
	return collect(q.db.col(colQuizzes).OrderBy("createdAt", firestore.Desc).Documents(ctx), setQuizID)
}

func (q fsQuizzes) Mutate(ctx context.Context, id string, fn func(*model.Quiz) error) (*model.Quiz, error) {
	var articleID string
	keep := func(quiz *model.Quiz) error {
		articleID = quiz.ArticleID
		return fn(quiz)
	}
	return mutateDoc(ctx, q.db, q.db.col(colQuizzes).Doc(id), "quiz", setQuizID, keep,
		func(quiz *model.Quiz, now time.Time) {
			quiz.ArticleID = articleID
			quiz.UpdatedAt = now
		})
}

func (q fsQuizzes) DeleteLinked(ctx context.Context, id string) error {
	quizRef := q.db.col(colQuizzes).Doc(id)
	return q.db.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		quiz, err := getTx(tx, quizRef, "quiz", setQuizID)
		if err != nil {
			return err
		}
		var articleRef *firestore.DocumentRef
		if quiz.ArticleID != "" {
			ref := q.db.col(colArticles).Doc(quiz.ArticleID)
			art, err := getTx(tx, ref, "article", setArticleID)
			switch {
			case err == nil && art.QuizID == id:
				articleRef = ref
			case err != nil && !domain.IsNotFound(err):
				return err
			}
		}
		if articleRef != nil {
			if err := tx.Update(articleRef, []firestore.Update{
				{Path: "quizId", Value: ""},
				{Path: "updatedAt", Value: q.db.now()},
			}); err != nil {
				return err
			}
		}
		return tx.Delete(quizRef)
	})
}

func (q fsQuizzes) ApplyLinkFixes(ctx context.Context, fixes []domain.LinkFix) error {
	now := q.db.now()
	for _, f := range fixes {
		var (
			ref *firestore.DocumentRef
			upd []firestore.Update
		)
		switch f.Action {
		case domain.FixClearArticleQuiz:
			ref, upd = q.db.col(colArticles).Doc(f.ArticleID), []firestore.Update{{Path: "quizId", Value: ""}}
		case domain.FixClearQuizArticle:
			ref, upd = q.db.col(colQuizzes).Doc(f.QuizID), []firestore.Update{{Path: "articleId", Value: ""}}
		case domain.FixLinkArticle:
			ref, upd = q.db.col(colArticles).Doc(f.ArticleID), []firestore.Update{{Path: "quizId", Value: f.QuizID}}
		default:
			continue
		}
		upd = append(upd, firestore.Update{Path: "updatedAt", Value: now})
		if _, err := ref.Update(ctx, upd); err != nil && !isNotFound(err) {
			return err
		}
	}
	return nil
}

// ---- attempts ----

type fsAttempts struct{ db *fsDB }

func (a fsAttempts) Create(ctx context.Context, at *model.QuizAttempt) error {
	ref := a.db.col(colAttempts).NewDoc()
	at.ID = ref.ID
	if at.SubmittedAt.IsZero() {
		at.SubmittedAt = a.db.now()
	}
	_, err := ref.Create(ctx, at)
	return err
}

func (a fsAttempts) ListByUser(ctx context.Context, userID, quizID string) ([]model.QuizAttempt, error) {
	q := a.db.col(colAttempts).Where("userId", "==", userID)
	if quizID != "" {
		q = q.Where("quizId", "==", quizID)
	}
	return collect(q.OrderBy("submittedAt", firestore.Desc).Documents(ctx), setAttemptID)
}

// ---- checklists ----

type fsChecklists struct{ db *fsDB }

func (c fsChecklists) Create(ctx context.Context, cl *model.Checklist) error {
	ref := c.db.col(colChecklists).NewDoc()
	now := c.db.now()
	cl.ID = ref.ID
	cl.CreatedAt, cl.UpdatedAt = now, now
	_, err := ref.Create(ctx, cl)
	return err
}

func (c fsChecklists) Get(ctx context.Context, id string) (*model.Checklist, error) {
	return getDoc(ctx, c.db.col(colChecklists).Doc(id), "checklist", setChecklistID)
}

func (c fsChecklists) List(ctx context.Context, activeOnly bool) ([]model.Checklist, error) {
	q := c.db.col(colChecklists).Query
	if activeOnly {
		q = q.Where("isActive", "==", true)
	}
	out, err := collect(q.Documents(ctx), setChecklistID)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (c fsChecklists) Mutate(ctx context.Context, id string, fn func(*model.Checklist) error) (*model.Checklist, error) {
	return mutateDoc(ctx, c.db, c.db.col(colChecklists).Doc(id), "checklist", setChecklistID, fn,
		func(cl *model.Checklist, now time.Time) { cl.UpdatedAt = now })
}

func (c fsChecklists) Delete(ctx context.Context, id string) error {
	ref := c.db.col(colChecklists).Doc(id)
	return c.db.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := getTx(tx, ref, "checklist", setChecklistID); err != nil {
			return err
		}
		docs, err := tx.Documents(c.db.col(colProgress).Where("checklistId", "==", id)).GetAll()
		if err != nil {
			return err
		}
		for _, d := range docs {
			if err := tx.Delete(d.Ref); err != nil {
				return err
			}
		}
		return tx.Delete(ref)
	})
}

// ---- progress ----

type fsProgress struct{ db *fsDB }

func (p fsProgress) ref(userID, checklistID string) *firestore.DocumentRef {
	return p.db.col(colProgress).Doc(model.ProgressID(userID, checklistID))
}

// loadTx returns the stored progress or a fresh one; created reports which.
func (p fsProgress) loadTx(tx *firestore.Transaction, userID string, c *model.Checklist) (*model.ChecklistProgress, bool, error) {
	prog, err := getTx(tx, p.ref(userID, c.ID), "progress", setProgressID)
	if domain.IsNotFound(err) {
		return domain.NewProgress(userID, c, p.db.now()), true, nil
	}
	return prog, false, err
}

func (p fsProgress) GetOrCreate(ctx context.Context, userID string, c *model.Checklist) (*model.ChecklistProgress, error) {
	var out *model.ChecklistProgress
	err := p.db.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		prog, created, err := p.loadTx(tx, userID, c)
		if err != nil {
			return err
		}
		out = prog
		if created {
			return tx.Create(p.ref(userID, c.ID), prog)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (p fsProgress) Find(ctx context.Context, userID, checklistID string) (*model.ChecklistProgress, error) {
	prog, err := getDoc(ctx, p.ref(userID, checklistID), "progress", setProgressID)
	if domain.IsNotFound(err) {
		return nil, nil
	}
	return prog, err
}

func (p fsProgress) ListByUser(ctx context.Context, userID string) ([]model.ChecklistProgress, error) {
	return collect(p.db.col(colProgress).Where("userId", "==", userID).Documents(ctx), setProgressID)
}

func (p fsProgress) Toggle(ctx context.Context, userID string, c *model.Checklist, itemID string) (*model.ChecklistProgress, bool, error) {
	if !domain.HasItem(c, itemID) {
		return nil, false, domain.NotFound("item %s not found in checklist %s", itemID, c.ID)
	}
	var (
		out     *model.ChecklistProgress
		checked bool
	)
	err := p.db.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		prog, _, err := p.loadTx(tx, userID, c)
		if err != nil {
			return err
		}
		checked = domain.ToggleEntry(prog, itemID, p.db.now())
		out = prog
		return tx.Set(p.ref(userID, c.ID), prog)
	})
	if err != nil {
		return nil, false, err
	}
	return out, checked, nil
}

func (p fsProgress) Reset(ctx context.Context, userID, checklistID string) (*model.ChecklistProgress, error) {
	prog, err := mutateDoc(ctx, p.db, p.ref(userID, checklistID), "progress", setProgressID,
		func(prog *model.ChecklistProgress) error {
			domain.ResetEntries(prog, p.db.now())
			return nil
		}, nil)
	if domain.IsNotFound(err) {
		return nil, domain.NotFound("no progress on checklist %s", checklistID)
	}
	return prog, err
}

// ---- alerts ----

type fsAlerts struct{ db *fsDB }

func (a fsAlerts) Create(ctx context.Context, al *model.Alert) error {
	ref := a.db.col(colAlerts).NewDoc()
	al.ID = ref.ID
	if al.IssuedAt.IsZero() {
		al.IssuedAt = a.db.now()
	}
	_, err := ref.Create(ctx, al)
	return err
}

func (a fsAlerts) Get(ctx context.Context, id string) (*model.Alert, error) {
	return getDoc(ctx, a.db.col(colAlerts).Doc(id), "alert", setAlertID)
}

func (a fsAlerts) List(ctx context.Context, f AlertFilter) ([]model.Alert, error) {
	q := a.db.col(colAlerts).Query
	if !f.LiveAt.IsZero() {
		q = q.Where("isActive", "==", true)
	}
	if f.Type != "" {
		q = q.Where("type", "==", string(f.Type))
	}
	if f.Source != "" {
		q = q.Where("source", "==", string(f.Source))
	}
	all, err := collect(q.Documents(ctx), setAlertID)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, al := range all {
		if !f.LiveAt.IsZero() && !al.Live(f.LiveAt) {
			continue
		}
		if f.AreaName != "" && !strings.EqualFold(al.AreaName, f.AreaName) {
			continue
		}
		out = append(out, al)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssuedAt.After(out[j].IssuedAt) })
	return truncate(out, limitOr(f.Limit, defaultListLimit)), nil
}

func (a fsAlerts) Mutate(ctx context.Context, id string, fn func(*model.Alert) error) (*model.Alert, error) {
	return mutateDoc(ctx, a.db, a.db.col(colAlerts).Doc(id), "alert", setAlertID, fn, nil)
}

func (a fsAlerts) Delete(ctx context.Context, id string) error {
	return deleteDoc(ctx, a.db.col(colAlerts).Doc(id), "alert")
}

// ---- news ----

type fsNews struct{ db *fsDB }

type newsMeta struct {
	FetchedAt time.Time `firestore:"fetchedAt"`
	Count     int       `firestore:"count"`
}

func (n fsNews) Replace(ctx context.Context, items []model.ClimateNews, fetchedAt time.Time) error {
	col := n.db.col(colNews)
	existing, err := col.Select().Documents(ctx).GetAll()
	if err != nil {
		return err
	}

	keep := make(map[string]bool, len(items))
	for _, it := range items {
		keep[it.ID] = true
	}

	batch := n.db.client.Batch()
	ops := 0
	flush := func(force bool) error {
		if ops == 0 || (!force && ops < maxBatchWrites) {
			return nil
		}
		if _, err := batch.Commit(ctx); err != nil {
			return err
		}
		batch, ops = n.db.client.Batch(), 0
		return nil
	}

	for _, d := range existing {
		if keep[d.Ref.ID] {
			continue
		}
		batch.Delete(d.Ref)
		ops++
		if err := flush(false); err != nil {
			return err
		}
	}
	for _, it := range items {
		batch.Set(col.Doc(it.ID), it)
		ops++
		if err := flush(false); err != nil {
			return err
		}
	}
	batch.Set(n.db.col(colNewsMeta).Doc(newsMetaDoc), newsMeta{FetchedAt: fetchedAt, Count: len(items)})
	ops++
	return flush(true)
}

func (n fsNews) List(ctx context.Context, limit int) ([]model.ClimateNews, time.Time, error) {
	var fetchedAt time.Time
	snap, err := n.db.col(colNewsMeta).Doc(newsMetaDoc).Get(ctx)
	switch {
	case err == nil:
		var meta newsMeta
		if err := snap.DataTo(&meta); err != nil {
			return nil, time.Time{}, err
		}
		fetchedAt = meta.FetchedAt
	case !isNotFound(err):
		return nil, time.Time{}, err
	}

	q := n.db.col(colNews).OrderBy("publishedAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	items, err := collect(q.Documents(ctx), setNewsID)
	if err != nil {
		return nil, time.Time{}, err
	}
	return items, fetchedAt, nil
}
