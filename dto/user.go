package dto

import "disasterprep/model"

// UpdateProfileRequest changes the caller's name and, when Password is
// set, their password. CurrentPassword must match for a password change.
type UpdateProfileRequest struct {
	Name            string `json:"name" binding:"omitempty,max=255"`
	Password        string `json:"password" binding:"omitempty,min=8,max=72"`
	CurrentPassword string `json:"currentPassword" binding:"required_with=Password"`
}

type UpdateRoleRequest struct {
	Role model.Role `json:"role" binding:"required,oneof=USER ADMIN CONTENT_MANAGER SHELTER_MANAGER"`
}
