package checklist

import (
	"net/http"

	"disasterprep/controller"
	"disasterprep/domain"
	"disasterprep/middleware"
	"disasterprep/model"
	"disasterprep/repository"

	"github.com/gin-gonic/gin"
)

// ListUserChecklists merges every active checklist with the caller's
// progress. Missing progress is shown as unchecked but not created.
func ListUserChecklists(c *gin.Context, store *repository.Store) {
	lists, err := store.Checklists.List(c, true)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	progress, err := store.Progress.ListByUser(c, middleware.UserKey(c))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	byChecklist := make(map[string]*model.ChecklistProgress, len(progress))
	for i := range progress {
		byChecklist[progress[i].ChecklistID] = &progress[i]
	}

	merged := make([]domain.MergedChecklist, 0, len(lists))
	for i := range lists {
		merged = append(merged, domain.MergeChecklist(&lists[i], byChecklist[lists[i].ID]))
	}
	c.JSON(http.StatusOK, gin.H{"checklists": merged, "count": len(merged)})
}

// GetUserChecklist materialises the caller's progress on first access.
func GetUserChecklist(c *gin.Context, store *repository.Store) {
	cl, err := store.Checklists.Get(c, c.Param("checklistId"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	p, err := store.Progress.GetOrCreate(c, middleware.UserKey(c), cl)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"checklist": domain.MergeChecklist(cl, p)})
}

func ToggleItem(c *gin.Context, store *repository.Store) {
	cl, err := store.Checklists.Get(c, c.Param("checklistId"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	itemID := c.Param("itemId")
	p, checked, err := store.Progress.Toggle(c, middleware.UserKey(c), cl, itemID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}

	message := "Item unchecked"
	if checked {
		message = "Item checked"
	}
	merged := domain.MergeChecklist(cl, p)
	c.JSON(http.StatusOK, gin.H{
		"itemId":    itemID,
		"isChecked": checked,
		"message":   message,
		"progress":  merged.Progress,
	})
}

// ResetProgress unchecks every item. It fails when the caller has no
// progress on the checklist yet.
func ResetProgress(c *gin.Context, store *repository.Store) {
	cl, err := store.Checklists.Get(c, c.Param("checklistId"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	p, err := store.Progress.Reset(c, middleware.UserKey(c), cl.ID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Checklist progress reset", "checklist": domain.MergeChecklist(cl, p)})
}
