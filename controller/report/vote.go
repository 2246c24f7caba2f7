package report

import (
	"net/http"

	"disasterprep/controller"
	"disasterprep/dto"
	"disasterprep/middleware"
	"disasterprep/repository"

	"github.com/gin-gonic/gin"
)

// CastVote adds, removes or switches the caller's vote on a report.
func CastVote(c *gin.Context, store *repository.Store) {
	var req dto.VoteRequest
	if !controller.BindJSON(c, &req) {
		return
	}

	outcome, r, err := store.Votes.Cast(c, c.Param("id"), middleware.UserKey(c), req.VoteType)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      outcome.Message(),
		"result":       outcome,
		"confirmCount": r.ConfirmCount,
		"denyCount":    r.DenyCount,
	})
}

func MyVote(c *gin.Context, store *repository.Store) {
	reportID := c.Param("id")
	if _, err := store.Reports.Get(c, reportID); err != nil {
		controller.RespondError(c, err)
		return
	}
	v, err := store.Votes.Get(c, reportID, middleware.UserKey(c))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	if v == nil {
		c.JSON(http.StatusOK, gin.H{"voteType": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"voteType": v.VoteType})
}
