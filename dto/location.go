package dto

import "disasterprep/model"

// Location uses pointers so that a coordinate of 0 still satisfies required.
type Location struct {
	Latitude  *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	Address   string   `json:"address" binding:"max=500"`
}

func (l Location) Model() model.Location {
	loc := model.Location{Address: l.Address}
	if l.Latitude != nil {
		loc.Latitude = *l.Latitude
	}
	if l.Longitude != nil {
		loc.Longitude = *l.Longitude
	}
	return loc
}
