package shelter

import (
	"net/http"
	"time"

	"disasterprep/controller"
	"disasterprep/domain"
	"disasterprep/dto"
	"disasterprep/model"
	"disasterprep/repository"

	"github.com/gin-gonic/gin"
)

func ListReliefItems(c *gin.Context, store *repository.Store) {
	s, err := store.Shelters.Get(c, c.Param("id"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	items := s.ReliefItems
	if items == nil {
		items = []model.ReliefItem{}
	}
	c.JSON(http.StatusOK, gin.H{"shelterId": s.ID, "reliefItems": items, "count": len(items)})
}

func CriticalReliefItems(c *gin.Context, store *repository.Store) {
	s, err := store.Shelters.Get(c, c.Param("id"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	items := domain.CriticalReliefItems(s.ReliefItems)
	c.JSON(http.StatusOK, gin.H{"shelterId": s.ID, "reliefItems": items, "count": len(items)})
}

func AddReliefItem(c *gin.Context, store *repository.Store) {
	var req dto.ReliefItemRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	var added model.ReliefItem
	_, err := store.Shelters.Mutate(c, c.Param("id"), func(s *model.Shelter) error {
		it, err := domain.AddReliefItem(s, req.Model(), time.Now())
		if err != nil {
			return err
		}
		added = *it
		return nil
	})
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Relief item added", "reliefItem": added})
}

func UpdateReliefItem(c *gin.Context, store *repository.Store) {
	var req dto.ReliefItemPatch
	if !controller.BindJSON(c, &req) {
		return
	}
	patch := domain.ReliefPatch{
		Name:          req.Name,
		Category:      req.Category,
		Quantity:      req.Quantity,
		Unit:          req.Unit,
		PriorityLevel: req.PriorityLevel,
	}
	var updated model.ReliefItem
	_, err := store.Shelters.Mutate(c, c.Param("id"), func(s *model.Shelter) error {
		it, err := domain.UpdateReliefItem(s, c.Param("name"), patch, time.Now())
		if err != nil {
			return err
		}
		updated = *it
		return nil
	})
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Relief item updated", "reliefItem": updated})
}

func DeleteReliefItem(c *gin.Context, store *repository.Store) {
	_, err := store.Shelters.Mutate(c, c.Param("id"), func(s *model.Shelter) error {
		return domain.RemoveReliefItem(s, c.Param("name"))
	})
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Relief item removed"})
}
