// model/report.go
package model

import "time"

type DisasterCategory string

const (
	CategoryFlood      DisasterCategory = "FLOOD"
	CategoryEarthquake DisasterCategory = "EARTHQUAKE"
	CategoryFire       DisasterCategory = "FIRE"
	CategoryLandslide  DisasterCategory = "LANDSLIDE"
	CategoryStorm      DisasterCategory = "STORM"
	CategoryTsunami    DisasterCategory = "TSUNAMI"
	CategoryVolcano    DisasterCategory = "VOLCANO"
	CategoryDrought    DisasterCategory = "DROUGHT"
	CategoryOther      DisasterCategory = "OTHER"
)

type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Rank orders severities from LOW (1) to CRITICAL (4); unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	}
	return 0
}

type ReportStatus string

const (
	ReportPending            ReportStatus = "PENDING"
	ReportCommunityConfirmed ReportStatus = "COMMUNITY_CONFIRMED"
	ReportAdminVerified      ReportStatus = "ADMIN_VERIFIED"
	ReportRejected           ReportStatus = "REJECTED"
	ReportResolved           ReportStatus = "RESOLVED"
)

type Location struct {
	Latitude  float64 `firestore:"latitude" json:"latitude"`
	Longitude float64 `firestore:"longitude" json:"longitude"`
	Address   string  `firestore:"address,omitempty" json:"address,omitempty"`
}

type Report struct {
	ID           string           `firestore:"-" json:"id"`
	Title        string           `firestore:"title" json:"title"`
	Description  string           `firestore:"description" json:"description"`
	Category     DisasterCategory `firestore:"category" json:"category"`
	Severity     Severity         `firestore:"severity" json:"severity"`
	Location     Location         `firestore:"location" json:"location"`
	Status       ReportStatus     `firestore:"status" json:"status"`
	ConfirmCount int              `firestore:"confirmCount" json:"confirmCount"`
	DenyCount    int              `firestore:"denyCount" json:"denyCount"`
	ReporterID   string           `firestore:"reporterId" json:"reporterId"`
	ReporterName string           `firestore:"reporterName" json:"reporterName"`
	AdminNote    string           `firestore:"adminNote,omitempty" json:"adminNote,omitempty"`
	VerifiedBy   string           `firestore:"verifiedBy,omitempty" json:"verifiedBy,omitempty"`
	CreatedAt    time.Time        `firestore:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time        `firestore:"updatedAt" json:"updatedAt"`
}

type Comment struct {
	ID        string    `firestore:"-" json:"id"`
	ReportID  string    `firestore:"reportId" json:"reportId"`
	UserID    string    `firestore:"userId" json:"userId"`
	UserName  string    `firestore:"userName" json:"userName"`
	Content   string    `firestore:"content" json:"content"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}
