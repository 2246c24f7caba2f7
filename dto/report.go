package dto

import "disasterprep/model"

type CreateReportRequest struct {
	Title       string                 `json:"title" binding:"required,max=200"`
	Description string                 `json:"description" binding:"max=5000"`
	Category    model.DisasterCategory `json:"category" binding:"required"`
	Severity    model.Severity         `json:"severity" binding:"required,oneof=LOW MEDIUM HIGH CRITICAL"`
	Location    Location               `json:"location" binding:"required"`
}

type UpdateReportStatusRequest struct {
	Status    model.ReportStatus `json:"status" binding:"required"`
	AdminNote string             `json:"adminNote" binding:"max=1000"`
}

type VoteRequest struct {
	VoteType model.VoteType `json:"voteType" binding:"required,oneof=UP DOWN"`
}

type CommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=1000"`
}
