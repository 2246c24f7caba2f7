package shelter

import (
	"net/http"
	"time"

	"disasterprep/controller"
	"disasterprep/domain"
	"disasterprep/dto"
	"disasterprep/middleware"
	"disasterprep/model"
	"disasterprep/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type occupancyHandler struct {
	store     *repository.Store
	threshold float64
	logger    *zap.Logger
}

// classify recomputes the derived fields of snap.
// Signals never change what is stored or returned.
func (h *occupancyHandler) classify(snap *model.OccupancySnapshot) domain.Classification {
	threshold := h.threshold
	if threshold <= 0 {
		threshold = domain.DefaultSafeThresholdPercent
	}
	return domain.ApplyClassification(snap, threshold)
}

// signal logs the warning or critical level of a stored snapshot.
func (h *occupancyHandler) signal(snap *model.OccupancySnapshot, cls domain.Classification) {
	fields := []zap.Field{
		zap.String("shelter_id", snap.ShelterID),
		zap.Float64("occupancy_percent", cls.OccupancyPercent),
		zap.Int("current_occupancy", snap.CurrentOccupancy),
		zap.Int("capacity_total", snap.CapacityTotal),
	}
	switch cls.Signal {
	case domain.SignalCritical:
		h.logger.Error("shelter at or over full capacity", fields...)
	case domain.SignalWarning:
		h.logger.Warn("shelter nearing capacity", fields...)
	}
}

func (h *occupancyHandler) history(c *gin.Context) {
	limit, err := controller.QueryInt(c, "limit", 0)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	shelterID := c.Param("id")
	if _, err := h.store.Shelters.Get(c, shelterID); err != nil {
		controller.RespondError(c, err)
		return
	}
	snaps, err := h.store.Occupancy.History(c, shelterID, limit)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shelterId": shelterID, "snapshots": snaps, "count": len(snaps)})
}

func (h *occupancyHandler) latest(c *gin.Context) {
	shelterID := c.Param("id")
	if _, err := h.store.Shelters.Get(c, shelterID); err != nil {
		controller.RespondError(c, err)
		return
	}
	snap, err := h.store.Occupancy.Latest(c, shelterID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshot": snap})
}

// create records a new snapshot, keeping the full history.
func (h *occupancyHandler) create(c *gin.Context) {
	var req dto.OccupancyRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	shelter, err := h.store.Shelters.Get(c, c.Param("id"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}

	snap := &model.OccupancySnapshot{
		ShelterID:        shelter.ID,
		CapacityTotal:    shelter.CapacityTotal,
		CurrentOccupancy: *req.CurrentOccupancy,
		Adults:           req.Adults,
		Children:         req.Children,
		Elderly:          req.Elderly,
		Disabled:         req.Disabled,
		RecordedAt:       time.Now(),
		RecordedBy:       middleware.UserKey(c),
	}
	if req.CapacityTotal != nil {
		snap.CapacityTotal = *req.CapacityTotal
	}
	if err := domain.ValidateSnapshot(snap); err != nil {
		controller.RespondError(c, err)
		return
	}
	cls := h.classify(snap)

	if err := h.store.Occupancy.Create(c, snap); err != nil {
		controller.RespondError(c, err)
		return
	}
	h.signal(snap, cls)
	c.JSON(http.StatusCreated, gin.H{"message": "Occupancy recorded", "snapshot": snap})
}

// updateCurrent overwrites the headcount on the latest snapshot, seeding
// one from the shelter's capacity when none exists.
func (h *occupancyHandler) updateCurrent(c *gin.Context) {
	var req dto.CurrentOccupancyRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	recordedBy := middleware.UserKey(c)

	// The closure may run more than once under a transaction retry; only the
	// committed classification is logged.
	var cls domain.Classification
	snap, err := h.store.Occupancy.UpdateLatest(c, c.Param("id"), func(shelter *model.Shelter, latest *model.OccupancySnapshot) (*model.OccupancySnapshot, error) {
		now := time.Now()
		if latest == nil {
			latest = domain.BaselineSnapshot(shelter, now)
		}
		latest.CurrentOccupancy = *req.CurrentOccupancy
		latest.RecordedAt = now
		latest.RecordedBy = recordedBy
		cls = h.classify(latest)
		return latest, nil
	})
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	h.signal(snap, cls)

	c.JSON(http.StatusOK, dto.CurrentOccupancyResponse{
		ShelterID:        snap.ShelterID,
		CurrentOccupancy: snap.CurrentOccupancy,
		CapacityTotal:    snap.CapacityTotal,
		OccupancyPercent: snap.OccupancyPercent,
		IsOverCapacity:   snap.IsOverCapacity,
	})
}
