package shelter

import (
	"net/http"
	"strings"

	"disasterprep/config"
	"disasterprep/controller"
	"disasterprep/domain"
	"disasterprep/dto"
	"disasterprep/middleware"
	"disasterprep/model"
	"disasterprep/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func ShelterController(router *gin.Engine, tm *middleware.TokenManager, store *repository.Store, routing TravelMatrix, cfg config.Occupancy, logger *zap.Logger) {
	manager := middleware.RoleMiddleware(model.RoleShelterManager, model.RoleAdmin)
	occ := &occupancyHandler{store: store, threshold: cfg.SafeThresholdPercent, logger: logger}

	routes := router.Group("/api/shelters")
	{
		routes.GET("", func(c *gin.Context) {
			ListShelters(c, store)
		})
		routes.GET("/nearest", func(c *gin.Context) {
			NearestShelters(c, store, routing, logger)
		})
		routes.GET("/:id", func(c *gin.Context) {
			GetShelter(c, store)
		})
		routes.POST("", tm.AccessTokenMiddleware(), manager, func(c *gin.Context) {
			CreateShelter(c, store)
		})
		routes.PUT("/:id", tm.AccessTokenMiddleware(), manager, func(c *gin.Context) {
			UpdateShelter(c, store)
		})
		routes.PATCH("/:id/status", tm.AccessTokenMiddleware(), manager, func(c *gin.Context) {
			UpdateShelterStatus(c, store)
		})
		routes.DELETE("/:id", tm.AccessTokenMiddleware(), manager, func(c *gin.Context) {
			DeleteShelter(c, store)
		})

		routes.GET("/:id/relief-items", func(c *gin.Context) {
			ListReliefItems(c, store)
		})
		routes.GET("/:id/relief-items/critical", func(c *gin.Context) {
			CriticalReliefItems(c, store)
		})
		routes.POST("/:id/relief-items", tm.AccessTokenMiddleware(), manager, func(c *gin.Context) {
			AddReliefItem(c, store)
		})
		routes.PUT("/:id/relief-items/:name", tm.AccessTokenMiddleware(), manager, func(c *gin.Context) {
			UpdateReliefItem(c, store)
		})
		routes.DELETE("/:id/relief-items/:name", tm.AccessTokenMiddleware(), manager, func(c *gin.Context) {
			DeleteReliefItem(c, store)
		})

		routes.GET("/:id/occupancy", occ.history)
		routes.GET("/:id/occupancy/latest", occ.latest)
		routes.POST("/:id/occupancy", tm.AccessTokenMiddleware(), manager, occ.create)
		routes.PUT("/:id/occupancy/current", tm.AccessTokenMiddleware(), manager, occ.updateCurrent)
	}
}

func ListShelters(c *gin.Context, store *repository.Store) {
	var f repository.ShelterFilter
	for _, s := range strings.Split(c.Query("status"), ",") {
		status := model.ShelterStatus(strings.ToLower(strings.TrimSpace(s)))
		if status == "" {
			continue
		}
		if !domain.ValidShelterStatus(status) {
			controller.RespondError(c, domain.Validation("unknown shelter status %q", status))
			return
		}
		f.Statuses = append(f.Statuses, status)
	}

	shelters, err := store.Shelters.List(c, f)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shelters": shelters, "count": len(shelters)})
}

func GetShelter(c *gin.Context, store *repository.Store) {
	s, err := store.Shelters.Get(c, c.Param("id"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shelter": s})
}

func shelterFromRequest(req dto.ShelterRequest) *model.Shelter {
	s := &model.Shelter{
		Name:         req.Name,
		Address:      strings.TrimSpace(req.Address),
		Location:     req.Location.Model(),
		Facilities:   req.Facilities,
		ContactPhone: strings.TrimSpace(req.ContactPhone),
		ManagerID:    req.ManagerID,
		Status:       req.Status,
	}
	if req.CapacityTotal != nil {
		s.CapacityTotal = *req.CapacityTotal
	}
	if s.Facilities == nil {
		s.Facilities = []string{}
	}
	s.ReliefItems = make([]model.ReliefItem, 0, len(req.ReliefItems))
	for _, it := range req.ReliefItems {
		s.ReliefItems = append(s.ReliefItems, it.Model())
	}
	return s
}

func CreateShelter(c *gin.Context, store *repository.Store) {
	var req dto.ShelterRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	s := shelterFromRequest(req)
	if s.ManagerID == "" && middleware.HasRole(c, model.RoleShelterManager) {
		s.ManagerID = middleware.UserKey(c)
	}
	if err := domain.ValidateShelter(s); err != nil {
		controller.RespondError(c, err)
		return
	}
	if err := store.Shelters.Create(c, s); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Shelter created successfully", "shelter": s})
}

// UpdateShelter replaces the editable fields. Status changes go through
// UpdateShelterStatus and relief items through their own routes.
func UpdateShelter(c *gin.Context, store *repository.Store) {
	var req dto.ShelterRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	in := shelterFromRequest(req)

	s, err := store.Shelters.Mutate(c, c.Param("id"), func(s *model.Shelter) error {
		s.Name = in.Name
		s.Address = in.Address
		s.Location = in.Location
		s.CapacityTotal = in.CapacityTotal
		s.Facilities = in.Facilities
		s.ContactPhone = in.ContactPhone
		if in.ManagerID != "" {
			s.ManagerID = in.ManagerID
		}
		if in.Status != "" {
			if err := domain.TransitionShelter(s, in.Status); err != nil {
				return err
			}
		}
		return domain.ValidateShelter(s)
	})
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shelter updated successfully", "shelter": s})
}

func UpdateShelterStatus(c *gin.Context, store *repository.Store) {
	var req dto.ShelterStatusRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	s, err := store.Shelters.Mutate(c, c.Param("id"), func(s *model.Shelter) error {
		return domain.TransitionShelter(s, req.Status)
	})
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shelter status updated", "shelter": s})
}

func DeleteShelter(c *gin.Context, store *repository.Store) {
	if err := store.Shelters.Delete(c, c.Param("id")); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shelter deleted successfully"})
}
