package model

import "time"

type ShelterStatus string

const (
	ShelterPlanned ShelterStatus = "planned"
	ShelterStandby ShelterStatus = "standby"
	ShelterOpen    ShelterStatus = "open"
	ShelterClosed  ShelterStatus = "closed"
)

type ReliefCategory string

const (
	ReliefFood     ReliefCategory = "FOOD"
	ReliefWater    ReliefCategory = "WATER"
	ReliefMedicine ReliefCategory = "MEDICINE"
	ReliefClothing ReliefCategory = "CLOTHING"
	ReliefHygiene  ReliefCategory = "HYGIENE"
	ReliefBedding  ReliefCategory = "BEDDING"
	ReliefOther    ReliefCategory = "OTHER"
)

type ReliefItem struct {
	Name          string         `firestore:"name" json:"name"`
	Category      ReliefCategory `firestore:"category" json:"category"`
	Quantity      int            `firestore:"quantity" json:"quantity"`
	Unit          string         `firestore:"unit" json:"unit"`
	PriorityLevel Severity       `firestore:"priorityLevel" json:"priorityLevel"`
	UpdatedAt     time.Time      `firestore:"updatedAt" json:"updatedAt"`
}

type Shelter struct {
	ID            string        `firestore:"-" json:"id"`
	Name          string        `firestore:"name" json:"name"`
	Address       string        `firestore:"address" json:"address"`
	Location      Location      `firestore:"location" json:"location"`
	CapacityTotal int           `firestore:"capacityTotal" json:"capacityTotal"`
	Facilities    []string      `firestore:"facilities" json:"facilities"`
	ContactPhone  string        `firestore:"contactPhone,omitempty" json:"contactPhone,omitempty"`
	ManagerID     string        `firestore:"managerId,omitempty" json:"managerId,omitempty"`
	Status        ShelterStatus `firestore:"status" json:"status"`
	ReliefItems   []ReliefItem  `firestore:"reliefItems" json:"reliefItems"`
	CreatedAt     time.Time     `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time     `firestore:"updatedAt" json:"updatedAt"`
}

// OccupancySnapshot is one timestamped headcount for a shelter.
// OccupancyPercent and IsOverCapacity are derived, never taken from input.
type OccupancySnapshot struct {
	ID               string    `firestore:"-" json:"id"`
	ShelterID        string    `firestore:"shelterId" json:"shelterId"`
	CapacityTotal    int       `firestore:"capacityTotal" json:"capacityTotal"`
	CurrentOccupancy int       `firestore:"currentOccupancy" json:"currentOccupancy"`
	Adults           int       `firestore:"adults" json:"adults"`
	Children         int       `firestore:"children" json:"children"`
	Elderly          int       `firestore:"elderly" json:"elderly"`
	Disabled         int       `firestore:"disabled" json:"disabled"`
	OccupancyPercent float64   `firestore:"occupancyPercent" json:"occupancyPercent"`
	IsOverCapacity   bool      `firestore:"isOverCapacity" json:"isOverCapacity"`
	RecordedAt       time.Time `firestore:"recordedAt" json:"recordedAt"`
	RecordedBy       string    `firestore:"recordedBy,omitempty" json:"recordedBy,omitempty"`
}
