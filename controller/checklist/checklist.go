package checklist

import (
	"net/http"
	"strings"

	"disasterprep/controller"
	"disasterprep/domain"
	"disasterprep/dto"
	"disasterprep/middleware"
	"disasterprep/model"
	"disasterprep/repository"

	"github.com/gin-gonic/gin"
)

func ChecklistController(router *gin.Engine, tm *middleware.TokenManager, store *repository.Store) {
	manager := middleware.RoleMiddleware(model.RoleContentManager, model.RoleAdmin)

	routes := router.Group("/api/checklists", tm.AccessTokenMiddleware(), manager)
	{
		routes.GET("", func(c *gin.Context) {
			ListChecklists(c, store)
		})
		routes.POST("", func(c *gin.Context) {
			CreateChecklist(c, store)
		})
		routes.GET("/:id", func(c *gin.Context) {
			GetChecklist(c, store)
		})
		routes.PUT("/:id", func(c *gin.Context) {
			UpdateChecklist(c, store)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeleteChecklist(c, store)
		})
	}

	user := router.Group("/api/user-checklists", tm.AccessTokenMiddleware())
	{
		user.GET("", func(c *gin.Context) {
			ListUserChecklists(c, store)
		})
		user.GET("/:checklistId", func(c *gin.Context) {
			GetUserChecklist(c, store)
		})
		user.PATCH("/:checklistId/items/:itemId/toggle", func(c *gin.Context) {
			ToggleItem(c, store)
		})
		user.POST("/:checklistId/reset", func(c *gin.Context) {
			ResetProgress(c, store)
		})
	}
}

func ListChecklists(c *gin.Context, store *repository.Store) {
	lists, err := store.Checklists.List(c, c.Query("active") == "true")
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"checklists": lists, "count": len(lists)})
}

func GetChecklist(c *gin.Context, store *repository.Store) {
	cl, err := store.Checklists.Get(c, c.Param("id"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"checklist": cl})
}

func applyRequest(cl *model.Checklist, req dto.ChecklistRequest) error {
	cl.Title = req.Title
	cl.Description = strings.TrimSpace(req.Description)
	cl.Category = strings.TrimSpace(req.Category)
	cl.Items = req.ChecklistItems()
	if req.IsActive != nil {
		cl.IsActive = *req.IsActive
	}
	return domain.NormalizeChecklist(cl)
}

func CreateChecklist(c *gin.Context, store *repository.Store) {
	var req dto.ChecklistRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	cl := &model.Checklist{IsActive: true, CreatedBy: middleware.UserKey(c)}
	if err := applyRequest(cl, req); err != nil {
		controller.RespondError(c, err)
		return
	}
	if err := store.Checklists.Create(c, cl); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Checklist created successfully", "checklist": cl})
}

// UpdateChecklist replaces the template. Items sent with an existing id
// keep their users' progress.
func UpdateChecklist(c *gin.Context, store *repository.Store) {
	var req dto.ChecklistRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	cl, err := store.Checklists.Mutate(c, c.Param("id"), func(cl *model.Checklist) error {
		return applyRequest(cl, req)
	})
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Checklist updated successfully", "checklist": cl})
}

// DeleteChecklist removes the template and every user's progress on it.
func DeleteChecklist(c *gin.Context, store *repository.Store) {
	if err := store.Checklists.Delete(c, c.Param("id")); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Checklist deleted successfully"})
}
