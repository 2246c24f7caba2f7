package model

import "time"

type AlertSource string

const (
	AlertManual  AlertSource = "MANUAL"
	AlertWeather AlertSource = "WEATHER"
)

type Alert struct {
	ID          string           `firestore:"-" json:"id"`
	Title       string           `firestore:"title" json:"title"`
	Description string           `firestore:"description" json:"description"`
	Type        DisasterCategory `firestore:"type" json:"type"`
	Severity    Severity         `firestore:"severity" json:"severity"`
	AreaName    string           `firestore:"areaName" json:"areaName"`
	Location    Location         `firestore:"location" json:"location"`
	RadiusKm    float64          `firestore:"radiusKm" json:"radiusKm"`
	Source      AlertSource      `firestore:"source" json:"source"`
	IsActive    bool             `firestore:"isActive" json:"isActive"`
	IssuedAt    time.Time        `firestore:"issuedAt" json:"issuedAt"`
	ExpiresAt   time.Time        `firestore:"expiresAt" json:"expiresAt"`
	CreatedBy   string           `firestore:"createdBy,omitempty" json:"createdBy,omitempty"`
}

// Live reports whether the alert is active and not yet expired at now.
// A zero ExpiresAt never expires.
func (a Alert) Live(now time.Time) bool {
	return a.IsActive && (a.ExpiresAt.IsZero() || a.ExpiresAt.After(now))
}
