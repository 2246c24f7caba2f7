package dto

import "disasterprep/model"

type ShelterRequest struct {
	Name          string              `json:"name" binding:"required,max=200"`
	Address       string              `json:"address" binding:"max=500"`
	Location      Location            `json:"location" binding:"required"`
	CapacityTotal *int                `json:"capacityTotal" binding:"required,gte=0"`
	Facilities    []string            `json:"facilities"`
	ContactPhone  string              `json:"contactPhone" binding:"max=50"`
	ManagerID     string              `json:"managerId"`
	Status        model.ShelterStatus `json:"status" binding:"omitempty,oneof=planned standby open closed"`
	ReliefItems   []ReliefItemRequest `json:"reliefItems" binding:"omitempty,dive"`
}

type ShelterStatusRequest struct {
	Status model.ShelterStatus `json:"status" binding:"required,oneof=planned standby open closed"`
}

type ReliefItemRequest struct {
	Name          string               `json:"name" binding:"required,max=100"`
	Category      model.ReliefCategory `json:"category"`
	Quantity      *int                 `json:"quantity" binding:"required,gte=0"`
	Unit          string               `json:"unit" binding:"max=30"`
	PriorityLevel model.Severity       `json:"priorityLevel"`
}

func (r ReliefItemRequest) Model() model.ReliefItem {
	it := model.ReliefItem{
		Name:          r.Name,
		Category:      r.Category,
		Unit:          r.Unit,
		PriorityLevel: r.PriorityLevel,
	}
	if r.Quantity != nil {
		it.Quantity = *r.Quantity
	}
	return it
}

// ReliefItemPatch changes only the fields that are present.
type ReliefItemPatch struct {
	Name          *string               `json:"name" binding:"omitempty,min=1,max=100"`
	Category      *model.ReliefCategory `json:"category"`
	Quantity      *int                  `json:"quantity" binding:"omitempty,gte=0"`
	Unit          *string               `json:"unit" binding:"omitempty,max=30"`
	PriorityLevel *model.Severity       `json:"priorityLevel"`
}

type OccupancyRequest struct {
	CapacityTotal    *int `json:"capacityTotal" binding:"omitempty,gte=0"`
	CurrentOccupancy *int `json:"currentOccupancy" binding:"required,gte=0"`
	Adults           int  `json:"adults" binding:"gte=0"`
	Children         int  `json:"children" binding:"gte=0"`
	Elderly          int  `json:"elderly" binding:"gte=0"`
	Disabled         int  `json:"disabled" binding:"gte=0"`
}

type CurrentOccupancyRequest struct {
	CurrentOccupancy *int `json:"currentOccupancy" binding:"required,gte=0"`
}

type CurrentOccupancyResponse struct {
	ShelterID        string  `json:"shelterId"`
	CurrentOccupancy int     `json:"currentOccupancy"`
	CapacityTotal    int     `json:"capacityTotal"`
	OccupancyPercent float64 `json:"occupancyPercent"`
	IsOverCapacity   bool    `json:"isOverCapacity"`
}

type NearestShelter struct {
	Shelter         model.Shelter `json:"shelter"`
	DistanceKm      float64       `json:"distanceKm"`
	TravelMode      string        `json:"travelMode"`
	DurationSeconds *float64      `json:"durationSeconds,omitempty"`
	RouteDistanceKm *float64      `json:"routeDistanceKm,omitempty"`
}
