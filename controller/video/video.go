package video

import (
	"context"
	"net/http"

	"disasterprep/controller"
	"disasterprep/domain"
	"disasterprep/services"

	"github.com/gin-gonic/gin"
)

type Searcher interface {
	Search(ctx context.Context, query string) ([]services.Video, error)
}

func VideoController(router *gin.Engine, searcher Searcher) {
	router.GET("/api/videos", func(c *gin.Context) {
		SearchVideos(c, searcher)
	})
}

func SearchVideos(c *gin.Context, searcher Searcher) {
	if searcher == nil {
		controller.RespondError(c, domain.Unavailable("video search is not configured"))
		return
	}
	videos, err := searcher.Search(c, c.Query("q"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"videos": videos, "count": len(videos)})
}
