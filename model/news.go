package model

import "time"

type ClimateNews struct {
	ID          string    `firestore:"-" json:"id"`
	Title       string    `firestore:"title" json:"title"`
	Description string    `firestore:"description" json:"description"`
	URL         string    `firestore:"url" json:"url"`
	ImageURL    string    `firestore:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Source      string    `firestore:"source" json:"source"`
	PublishedAt time.Time `firestore:"publishedAt" json:"publishedAt"`
	FetchedAt   time.Time `firestore:"fetchedAt" json:"fetchedAt"`
}
