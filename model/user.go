package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleUser           Role = "USER"
	RoleAdmin          Role = "ADMIN"
	RoleContentManager Role = "CONTENT_MANAGER"
	RoleShelterManager Role = "SHELTER_MANAGER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleContentManager, RoleShelterManager:
		return true
	}
	return false
}

type User struct {
	UserID         uint      `gorm:"column:user_id;primaryKey;autoIncrement" json:"userId"`
	Email          string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	Name           string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	HashedPassword string    `gorm:"column:hashed_password;type:varchar(255);not null" json:"-"`
	Role           Role      `gorm:"column:role;type:varchar(32);default:USER;not null" json:"role"`
	IsActive       bool      `gorm:"column:is_active;default:true;not null" json:"isActive"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

type AccessClaims struct {
	UserID uint   `json:"userId"`
	Role   Role   `json:"role"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	UserID uint `json:"userId"`
	jwt.RegisteredClaims
}
