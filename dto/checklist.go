package dto

import "disasterprep/model"

type ChecklistItemRequest struct {
	ID    string `json:"id"`
	Text  string `json:"text" binding:"required,max=500"`
	Order int    `json:"order"`
}

type ChecklistRequest struct {
	Title       string                 `json:"title" binding:"required,max=200"`
	Description string                 `json:"description" binding:"max=2000"`
	Category    string                 `json:"category" binding:"max=100"`
	Items       []ChecklistItemRequest `json:"items" binding:"required,min=1,dive"`
	IsActive    *bool                  `json:"isActive"`
}

func (r ChecklistRequest) ChecklistItems() []model.ChecklistItem {
	out := make([]model.ChecklistItem, len(r.Items))
	for i, it := range r.Items {
		out[i] = model.ChecklistItem{ID: it.ID, Text: it.Text, Order: it.Order}
	}
	return out
}
