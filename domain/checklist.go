package domain

import (
	"sort"
	"strings"
	"time"

	"disasterprep/model"

	"github.com/google/uuid"
)

// NormalizeChecklist trims text, assigns ids to new items, rejects
// duplicates and sorts items by Order.
func NormalizeChecklist(c *model.Checklist) error {
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return Validation("title is required")
	}
	if len(c.Items) == 0 {
		return Validation("at least one item is required")
	}

	seen := make(map[string]bool, len(c.Items))
	for i := range c.Items {
		it := &c.Items[i]
		it.Text = strings.TrimSpace(it.Text)
		if it.Text == "" {
			return Validation("item %d: text is required", i+1)
		}
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		if seen[it.ID] {
			return Validation("duplicate item id %q", it.ID)
		}
		seen[it.ID] = true
	}
	sort.SliceStable(c.Items, func(i, j int) bool { return c.Items[i].Order < c.Items[j].Order })
	return nil
}

func HasItem(c *model.Checklist, itemID string) bool {
	for _, it := range c.Items {
		if it.ID == itemID {
			return true
		}
	}
	return false
}

// NewProgress is the overlay materialised on first access: every item unchecked.
func NewProgress(userID string, c *model.Checklist, now time.Time) *model.ChecklistProgress {
	p := &model.ChecklistProgress{
		ID:          model.ProgressID(userID, c.ID),
		UserID:      userID,
		ChecklistID: c.ID,
		Items:       make([]model.ProgressEntry, 0, len(c.Items)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, it := range c.Items {
		p.Items = append(p.Items, model.ProgressEntry{ItemID: it.ID})
	}
	return p
}

// ToggleEntry flips itemID in p and returns the new state. Items added to
// the template after p was created get an entry on first toggle.
func ToggleEntry(p *model.ChecklistProgress, itemID string, now time.Time) bool {
	p.UpdatedAt = now
	for i := range p.Items {
		if p.Items[i].ItemID == itemID {
			p.Items[i].IsChecked = !p.Items[i].IsChecked
			return p.Items[i].IsChecked
		}
	}
	p.Items = append(p.Items, model.ProgressEntry{ItemID: itemID, IsChecked: true})
	return true
}

func ResetEntries(p *model.ChecklistProgress, now time.Time) {
	for i := range p.Items {
		p.Items[i].IsChecked = false
	}
	p.UpdatedAt = now
}

type MergedItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Order     int    `json:"order"`
	IsChecked bool   `json:"isChecked"`
}

type ChecklistSummary struct {
	Total      int     `json:"total"`
	Checked    int     `json:"checked"`
	Unchecked  int     `json:"unchecked"`
	Percentage float64 `json:"percentage"`
	IsComplete bool    `json:"isComplete"`
}

type MergedChecklist struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Items       []MergedItem     `json:"items"`
	Progress    ChecklistSummary `json:"progress"`
}

// MergeChecklist overlays p onto the template c. p may be nil, in which
// case every item is unchecked. Progress entries for items no longer in
// the template are ignored.
func MergeChecklist(c *model.Checklist, p *model.ChecklistProgress) MergedChecklist {
	checked := make(map[string]bool)
	if p != nil {
		for _, e := range p.Items {
			checked[e.ItemID] = e.IsChecked
		}
	}

	m := MergedChecklist{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category,
		Items:       make([]MergedItem, 0, len(c.Items)),
	}
	for _, it := range c.Items {
		mi := MergedItem{ID: it.ID, Text: it.Text, Order: it.Order, IsChecked: checked[it.ID]}
		if mi.IsChecked {
			m.Progress.Checked++
		}
		m.Items = append(m.Items, mi)
	}

	m.Progress.Total = len(c.Items)
	m.Progress.Unchecked = m.Progress.Total - m.Progress.Checked
	if m.Progress.Total > 0 {
		m.Progress.Percentage = Round2(float64(m.Progress.Checked) * 100 / float64(m.Progress.Total))
	}
	m.Progress.IsComplete = m.Progress.Total > 0 && m.Progress.Checked == m.Progress.Total
	return m
}
