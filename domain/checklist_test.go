package domain

import (
	"testing"
	"time"

	"disasterprep/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func threeItemChecklist() *model.Checklist {
	return &model.Checklist{
		ID:    "c1",
		Title: "Go bag",
		Items: []model.ChecklistItem{
			{ID: "water", Text: "Water", Order: 1},
			{ID: "torch", Text: "Torch", Order: 2},
			{ID: "meds", Text: "Medicine", Order: 3},
		},
	}
}

func TestMergeChecklist_Percentages(t *testing.T) {
	c := threeItemChecklist()
	p := NewProgress("u1", c, t0)

	ToggleEntry(p, "water", t0)
	m := MergeChecklist(c, p)
	assert.Equal(t, 3, m.Progress.Total)
	assert.Equal(t, 1, m.Progress.Checked)
	assert.Equal(t, 2, m.Progress.Unchecked)
	assert.Equal(t, 33.33, m.Progress.Percentage)
	assert.False(t, m.Progress.IsComplete)

	ToggleEntry(p, "torch", t0)
	ToggleEntry(p, "meds", t0)
	m = MergeChecklist(c, p)
	assert.Equal(t, 100.0, m.Progress.Percentage)
	assert.True(t, m.Progress.IsComplete)
}

func TestMergeChecklist_ItemAddedAfterProgress(t *testing.T) {
	c := threeItemChecklist()
	p := NewProgress("u1", c, t0)
	for _, e := range c.Items {
		ToggleEntry(p, e.ID, t0)
	}
	c.Items = append(c.Items, model.ChecklistItem{ID: "radio", Text: "Radio", Order: 4})

	m := MergeChecklist(c, p)
	require.Len(t, m.Items, 4)
	assert.False(t, m.Items[3].IsChecked)
	assert.False(t, m.Progress.IsComplete)

	assert.True(t, ToggleEntry(p, "radio", t0), "first toggle of a late item checks it")
	assert.True(t, MergeChecklist(c, p).Progress.IsComplete)
}

func TestMergeChecklist_EmptyIsNeverComplete(t *testing.T) {
	m := MergeChecklist(&model.Checklist{ID: "c"}, nil)
	assert.Zero(t, m.Progress.Total)
	assert.Zero(t, m.Progress.Percentage)
	assert.False(t, m.Progress.IsComplete)
}

func TestToggleAndReset(t *testing.T) {
	c := threeItemChecklist()
	p := NewProgress("u1", c, t0)
	assert.Equal(t, "u1_c1", p.ID)

	assert.True(t, ToggleEntry(p, "water", t0))
	assert.False(t, ToggleEntry(p, "water", t0))
	ToggleEntry(p, "meds", t0)

	later := t0.Add(time.Hour)
	ResetEntries(p, later)
	for _, e := range p.Items {
		assert.False(t, e.IsChecked)
	}
	assert.Equal(t, later, p.UpdatedAt)
}

func TestNormalizeChecklist(t *testing.T) {
	c := &model.Checklist{
		Title: " Kit ",
		Items: []model.ChecklistItem{
			{Text: "second", Order: 2},
			{ID: "keep", Text: " first ", Order: 1},
		},
	}
	require.NoError(t, NormalizeChecklist(c))
	assert.Equal(t, "Kit", c.Title)
	assert.Equal(t, "keep", c.Items[0].ID)
	assert.Equal(t, "first", c.Items[0].Text)
	assert.NotEmpty(t, c.Items[1].ID)

	dup := &model.Checklist{Title: "x", Items: []model.ChecklistItem{{ID: "a", Text: "1"}, {ID: "a", Text: "2"}}}
	assert.Error(t, NormalizeChecklist(dup))
	assert.Error(t, NormalizeChecklist(&model.Checklist{Title: "x"}))
	assert.True(t, HasItem(c, "keep"))
	assert.False(t, HasItem(c, "nope"))
}
