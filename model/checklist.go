// model/checklist.go
package model

import "time"

type ChecklistItem struct {
	ID    string `firestore:"id" json:"id"`
	Text  string `firestore:"text" json:"text"`
	Order int    `firestore:"order" json:"order"`
}

// Checklist is an admin-authored template.
type Checklist struct {
	ID          string          `firestore:"-" json:"id"`
	Title       string          `firestore:"title" json:"title"`
	Description string          `firestore:"description" json:"description"`
	Category    string          `firestore:"category" json:"category"`
	Items       []ChecklistItem `firestore:"items" json:"items"`
	IsActive    bool            `firestore:"isActive" json:"isActive"`
	CreatedBy   string          `firestore:"createdBy" json:"createdBy"`
	CreatedAt   time.Time       `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time       `firestore:"updatedAt" json:"updatedAt"`
}

type ProgressEntry struct {
	ItemID    string `firestore:"itemId" json:"itemId"`
	IsChecked bool   `firestore:"isChecked" json:"isChecked"`
}

// ChecklistProgress is the per-user overlay on a Checklist, one per (user, checklist).
type ChecklistProgress struct {
	ID          string          `firestore:"-" json:"id"`
	UserID      string          `firestore:"userId" json:"userId"`
	ChecklistID string          `firestore:"checklistId" json:"checklistId"`
	Items       []ProgressEntry `firestore:"items" json:"items"`
	CreatedAt   time.Time       `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time       `firestore:"updatedAt" json:"updatedAt"`
}

func ProgressID(userID, checklistID string) string {
	return userID + "_" + checklistID
}
