package dto

import (
	"time"

	"disasterprep/model"
)

type AlertRequest struct {
	Title       string                 `json:"title" binding:"required,max=200"`
	Description string                 `json:"description" binding:"max=5000"`
	Type        model.DisasterCategory `json:"type" binding:"required"`
	Severity    model.Severity         `json:"severity" binding:"required,oneof=LOW MEDIUM HIGH CRITICAL"`
	AreaName    string                 `json:"areaName" binding:"required,max=200"`
	Location    Location               `json:"location" binding:"required"`
	RadiusKm    float64                `json:"radiusKm" binding:"gte=0"`
	IsActive    *bool                  `json:"isActive"`
	ExpiresAt   *time.Time             `json:"expiresAt"`
}

type WeatherAlertRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	AreaName  string   `json:"areaName" binding:"required,max=200"`
}
