package user

import (
	"net/http"
	"strings"

	"disasterprep/controller"
	"disasterprep/controller/auth"
	"disasterprep/domain"
	"disasterprep/dto"
	"disasterprep/middleware"
	"disasterprep/repository"

	"github.com/gin-gonic/gin"
)

func UserController(router *gin.Engine, tm *middleware.TokenManager, users *repository.UserRepository) {
	routes := router.Group("/user", tm.AccessTokenMiddleware())
	{
		routes.GET("/profile", func(c *gin.Context) {
			ReadProfile(c, users)
		})
		routes.PUT("/profile", func(c *gin.Context) {
			UpdateProfile(c, users)
		})
	}
}

func ReadProfile(c *gin.Context, users *repository.UserRepository) {
	user, err := users.FindByID(c, middleware.UserID(c))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func UpdateProfile(c *gin.Context, users *repository.UserRepository) {
	userId := middleware.UserID(c)
	var req dto.UpdateProfileRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" && req.Password == "" {
		controller.RespondError(c, domain.Validation("nothing to update"))
		return
	}

	current, err := users.FindByID(c, userId)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	if req.Password != "" {
		if !auth.CheckPassword(current.HashedPassword, req.CurrentPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
			return
		}
		hashed, err := auth.HashPassword(req.Password)
		if err != nil {
			controller.RespondError(c, err)
			return
		}
		if current, err = users.UpdatePassword(c, userId, hashed); err != nil {
			controller.RespondError(c, err)
			return
		}
	}
	if name != "" {
		if current, err = users.UpdateProfile(c, userId, name); err != nil {
			controller.RespondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": current})
}
