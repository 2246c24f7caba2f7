package checklist

import (
	"context"
	"net/http"
	"testing"

	"disasterprep/controller/controllertest"
	"disasterprep/domain"
	"disasterprep/model"
	"disasterprep/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	router *gin.Engine
	store  *repository.Store
	admin  string
	user   string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	tm := controllertest.Tokens()
	store := repository.NewMemoryStore()
	router := gin.New()
	ChecklistController(router, tm, store)
	return &fixture{
		router: router,
		store:  store,
		admin:  controllertest.Token(t, tm, 9, model.RoleAdmin),
		user:   controllertest.Token(t, tm, 1, model.RoleUser),
	}
}

func (f *fixture) create(t *testing.T, title string, active bool) model.Checklist {
	t.Helper()
	w := controllertest.Do(f.router, http.MethodPost, "/api/checklists", gin.H{
		"title":    title,
		"isActive": active,
		"items": []gin.H{
			{"text": "Torch", "order": 2},
			{"text": "Water", "order": 1},
			{"text": "First aid kit", "order": 3},
			{"text": "Radio", "order": 4},
		},
	}, f.admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var cl model.Checklist
	controllertest.DecodeInto(t, w, "checklist", &cl)
	return cl
}

func TestChecklistAdmin(t *testing.T) {
	f := setup(t)

	w := controllertest.Do(f.router, http.MethodGet, "/api/checklists", nil, f.user)
	assert.Equal(t, http.StatusForbidden, w.Code)

	cl := f.create(t, "Go bag", true)
	require.Len(t, cl.Items, 4)
	assert.Equal(t, "Water", cl.Items[0].Text, "items are ordered")
	assert.NotEmpty(t, cl.Items[0].ID)
	f.create(t, "Retired list", false)

	w = controllertest.Do(f.router, http.MethodGet, "/api/checklists", nil, f.admin)
	assert.EqualValues(t, 2, controllertest.Decode(t, w)["count"])
	w = controllertest.Do(f.router, http.MethodGet, "/api/checklists?active=true", nil, f.admin)
	assert.EqualValues(t, 1, controllertest.Decode(t, w)["count"])

	w = controllertest.Do(f.router, http.MethodPost, "/api/checklists", gin.H{"title": "Empty", "items": []gin.H{}}, f.admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = controllertest.Do(f.router, http.MethodPost, "/api/checklists", gin.H{
		"title": "Dup", "items": []gin.H{{"id": "a", "text": "x"}, {"id": "a", "text": "y"}},
	}, f.admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func find(t *testing.T, items []domain.MergedItem, text string) domain.MergedItem {
	t.Helper()
	for _, it := range items {
		if it.Text == text {
			return it
		}
	}
	t.Fatalf("item %q not found", text)
	return domain.MergedItem{}
}

func TestUserProgress(t *testing.T) {
	f := setup(t)
	cl := f.create(t, "Go bag", true)
	f.create(t, "Retired list", false)
	water := cl.Items[0].ID

	w := controllertest.Do(f.router, http.MethodGet, "/api/user-checklists", nil, f.user)
	require.Equal(t, http.StatusOK, w.Code)
	var merged []domain.MergedChecklist
	controllertest.DecodeInto(t, w, "checklists", &merged)
	require.Len(t, merged, 1, "only active checklists are listed")
	assert.Equal(t, 0, merged[0].Progress.Checked)
	p, err := f.store.Progress.Find(context.Background(), "1", cl.ID)
	require.NoError(t, err)
	assert.Nil(t, p, "listing does not create progress")

	w = controllertest.Do(f.router, http.MethodPost, "/api/user-checklists/"+cl.ID+"/reset", nil, f.user)
	assert.Equal(t, http.StatusNotFound, w.Code)

	toggle := "/api/user-checklists/" + cl.ID + "/items/" + water + "/toggle"
	w = controllertest.Do(f.router, http.MethodPatch, toggle, nil, f.user)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := controllertest.Decode(t, w)
	assert.Equal(t, true, body["isChecked"])
	assert.Equal(t, "Item checked", body["message"])
	var summary domain.ChecklistSummary
	controllertest.DecodeInto(t, w, "progress", &summary)
	assert.Equal(t, domain.ChecklistSummary{Total: 4, Checked: 1, Unchecked: 3, Percentage: 25}, summary)

	w = controllertest.Do(f.router, http.MethodPatch, toggle, nil, f.user)
	assert.Equal(t, false, controllertest.Decode(t, w)["isChecked"])
	w = controllertest.Do(f.router, http.MethodPatch, toggle, nil, f.user)
	require.Equal(t, http.StatusOK, w.Code)

	w = controllertest.Do(f.router, http.MethodPatch, "/api/user-checklists/"+cl.ID+"/items/nope/toggle", nil, f.user)
	assert.Equal(t, http.StatusNotFound, w.Code)

	other := controllertest.Token(t, controllertest.Tokens(), 2, model.RoleUser)
	w = controllertest.Do(f.router, http.MethodGet, "/api/user-checklists/"+cl.ID, nil, other)
	require.Equal(t, http.StatusOK, w.Code)
	var mine domain.MergedChecklist
	controllertest.DecodeInto(t, w, "checklist", &mine)
	assert.Equal(t, 0, mine.Progress.Checked, "progress is per user")

	w = controllertest.Do(f.router, http.MethodGet, "/api/user-checklists/"+cl.ID, nil, f.user)
	controllertest.DecodeInto(t, w, "checklist", &mine)
	assert.True(t, find(t, mine.Items, "Water").IsChecked)

	w = controllertest.Do(f.router, http.MethodPost, "/api/user-checklists/"+cl.ID+"/reset", nil, f.user)
	require.Equal(t, http.StatusOK, w.Code)
	controllertest.DecodeInto(t, w, "checklist", &mine)
	assert.Equal(t, 0, mine.Progress.Checked)
}

func TestUpdateChecklist_KeepsProgressForKeptItems(t *testing.T) {
	f := setup(t)
	cl := f.create(t, "Go bag", true)
	water, torch := cl.Items[0].ID, cl.Items[1].ID

	for _, id := range []string{water, torch} {
		w := controllertest.Do(f.router, http.MethodPatch, "/api/user-checklists/"+cl.ID+"/items/"+id+"/toggle", nil, f.user)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := controllertest.Do(f.router, http.MethodPut, "/api/checklists/"+cl.ID, gin.H{
		"title": "Go bag v2",
		"items": []gin.H{{"id": water, "text": "Water (3 days)", "order": 1}, {"text": "Whistle", "order": 2}},
	}, f.admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = controllertest.Do(f.router, http.MethodGet, "/api/user-checklists/"+cl.ID, nil, f.user)
	var merged domain.MergedChecklist
	controllertest.DecodeInto(t, w, "checklist", &merged)
	assert.Equal(t, "Go bag v2", merged.Title)
	assert.Equal(t, domain.ChecklistSummary{Total: 2, Checked: 1, Unchecked: 1, Percentage: 50}, merged.Progress)
	assert.True(t, find(t, merged.Items, "Water (3 days)").IsChecked)
	assert.False(t, find(t, merged.Items, "Whistle").IsChecked)

	w = controllertest.Do(f.router, http.MethodDelete, "/api/checklists/"+cl.ID, nil, f.admin)
	require.Equal(t, http.StatusOK, w.Code)
	p, err := f.store.Progress.Find(context.Background(), "1", cl.ID)
	require.NoError(t, err)
	assert.Nil(t, p)
}
