package model

import "time"

type VoteType string

const (
	VoteUp   VoteType = "UP"
	VoteDown VoteType = "DOWN"
)

// Vote is keyed by (ReportID, UserID); see VoteID.
type Vote struct {
	ID        string    `firestore:"-" json:"id"`
	ReportID  string    `firestore:"reportId" json:"reportId"`
	UserID    string    `firestore:"userId" json:"userId"`
	VoteType  VoteType  `firestore:"voteType" json:"voteType"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// VoteID is the document id of the single vote a user may hold on a report.
func VoteID(reportID, userID string) string {
	return reportID + "_" + userID
}
