package admin

import (
	"net/http"
	"strconv"

	"disasterprep/controller"
	"disasterprep/domain"
	"disasterprep/dto"
	"disasterprep/middleware"
	"disasterprep/model"
	"disasterprep/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func AdminController(router *gin.Engine, tm *middleware.TokenManager, users *repository.UserRepository, store *repository.Store, logger *zap.Logger) {
	routes := router.Group("/admin", tm.AccessTokenMiddleware(), middleware.AdminMiddleware())
	{
		routes.GET("/users", func(c *gin.Context) {
			ListUsers(c, users)
		})
		routes.PUT("/users/:id/role", func(c *gin.Context) {
			UpdateRole(c, users)
		})
		routes.PUT("/users/:id/disableactive", func(c *gin.Context) {
			DisableUser(c, users)
		})
		routes.POST("/reconcile/quiz-links", func(c *gin.Context) {
			ReconcileQuizLinks(c, store, logger)
		})
	}
}

func userIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return 0, false
	}
	return uint(id), true
}

func ListUsers(c *gin.Context, users *repository.UserRepository) {
	role := model.Role(c.Query("role"))
	if role != "" && !role.Valid() {
		controller.RespondError(c, domain.Validation("unknown role %q", role))
		return
	}
	list, err := users.List(c, role)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": list})
}

func UpdateRole(c *gin.Context, users *repository.UserRepository) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	var req dto.UpdateRoleRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	if id == middleware.UserID(c) && req.Role != model.RoleAdmin {
		controller.RespondError(c, domain.Validation("admins cannot remove their own admin role"))
		return
	}

	user, err := users.UpdateRole(c, id, req.Role)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated successfully", "user": user})
}

// DisableUser toggles the account's active flag.
func DisableUser(c *gin.Context, users *repository.UserRepository) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	if id == middleware.UserID(c) {
		controller.RespondError(c, domain.Validation("admins cannot disable their own account"))
		return
	}

	current, err := users.FindByID(c, id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	user, err := users.SetActive(c, id, !current.IsActive)
	if err != nil {
		controller.RespondError(c, err)
		return
	}

	message := "User enabled successfully"
	if !user.IsActive {
		message = "User disabled successfully"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "isActive": user.IsActive})
}

// ReconcileQuizLinks repairs article/quiz pairs whose link was left
// half-written and reports what it changed.
func ReconcileQuizLinks(c *gin.Context, store *repository.Store, logger *zap.Logger) {
	articles, err := store.Articles.List(c, repository.ArticleFilter{})
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	quizzes, err := store.Quizzes.List(c)
	if err != nil {
		controller.RespondError(c, err)
		return
	}

	fixes := domain.ReconcileQuizLinks(articles, quizzes)
	if err := store.Quizzes.ApplyLinkFixes(c, fixes); err != nil {
		controller.RespondError(c, err)
		return
	}
	if len(fixes) > 0 {
		logger.Info("quiz links reconciled", zap.Int("fixes", len(fixes)))
	}
	c.JSON(http.StatusOK, gin.H{"fixes": fixes, "count": len(fixes)})
}
