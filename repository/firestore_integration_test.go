//go:build integration
// +build integration

package repository

import (
	"context"
	"os"
	"sync"
	"testing"

	"disasterprep/domain"
	"disasterprep/model"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getTestFirestore connects to the emulator named by FIRESTORE_EMULATOR_HOST.
func getTestFirestore(t *testing.T) *Store {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skipf("FIRESTORE_EMULATOR_HOST not set, skipping Firestore integration test")
	}
	client, err := firestore.NewClient(context.Background(), "disasterprep-test-"+uuid.NewString()[:8])
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewFirestoreStore(client)
}

func TestFirestoreVoteCast_ConcurrentUsers(t *testing.T) {
	ctx := context.Background()
	s := getTestFirestore(t)

	r := &model.Report{Title: "Bridge out", Category: model.CategoryFlood, Severity: model.SeverityHigh, Status: model.ReportAdminVerified}
	require.NoError(t, s.Reports.Create(ctx, r))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(user string) {
			defer wg.Done()
			_, _, err := s.Votes.Cast(ctx, r.ID, user, model.VoteUp)
			assert.NoError(t, err)
		}(uuid.NewString())
	}
	wg.Wait()

	got, err := s.Reports.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.ConfirmCount)
}

func TestFirestoreQuizLinkage(t *testing.T) {
	ctx := context.Background()
	s := getTestFirestore(t)

	art := &model.Article{Title: "Earthquake drill"}
	require.NoError(t, s.Articles.Create(ctx, art))
	q := &model.Quiz{Title: "Drill quiz", ArticleID: art.ID, PassingScore: 60}
	require.NoError(t, s.Quizzes.CreateLinked(ctx, q))

	err := s.Quizzes.CreateLinked(ctx, &model.Quiz{Title: "second", ArticleID: art.ID})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	require.NoError(t, s.Quizzes.DeleteLinked(ctx, q.ID))
	got, err := s.Articles.Get(ctx, art.ID)
	require.NoError(t, err)
	assert.Empty(t, got.QuizID)
}

func TestFirestoreChecklistCascade(t *testing.T) {
	ctx := context.Background()
	s := getTestFirestore(t)

	c := &model.Checklist{Title: "Kit", IsActive: true, Items: []model.ChecklistItem{{ID: "a", Text: "Water"}}}
	require.NoError(t, s.Checklists.Create(ctx, c))
	_, _, err := s.Progress.Toggle(ctx, "u1", c, "a")
	require.NoError(t, err)

	require.NoError(t, s.Checklists.Delete(ctx, c.ID))
	p, err := s.Progress.Find(ctx, "u1", c.ID)
	require.NoError(t, err)
	assert.Nil(t, p)
}
