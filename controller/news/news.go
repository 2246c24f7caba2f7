package news

import (
	"net/http"

	"disasterprep/controller"
	"disasterprep/middleware"
	"disasterprep/services"

	"github.com/gin-gonic/gin"
)

func NewsController(router *gin.Engine, tm *middleware.TokenManager, feed *services.ClimateNewsService) {
	routes := router.Group("/api/news")
	{
		routes.GET("/climate", func(c *gin.Context) {
			ClimateNews(c, feed)
		})
		routes.POST("/climate/refresh", tm.AccessTokenMiddleware(), middleware.AdminMiddleware(), func(c *gin.Context) {
			RefreshClimateNews(c, feed)
		})
	}
}

// ClimateNews serves the cached feed, refreshing it first when stale.
func ClimateNews(c *gin.Context, feed *services.ClimateNewsService) {
	limit, err := controller.QueryInt(c, "limit", 0)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	f, err := feed.Latest(c, limit)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func RefreshClimateNews(c *gin.Context, feed *services.ClimateNewsService) {
	n, err := feed.Refresh(c)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Climate news refreshed", "count": n})
}
