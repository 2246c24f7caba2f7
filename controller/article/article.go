package article

import (
	"context"
	"net/http"
	"strings"

	"disasterprep/controller"
	"disasterprep/domain"
	"disasterprep/dto"
	"disasterprep/middleware"
	"disasterprep/model"
	"disasterprep/repository"
	"disasterprep/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VideoSearcher finds videos related to an article.
type VideoSearcher interface {
	Search(ctx context.Context, query string) ([]services.Video, error)
}

func ArticleController(router *gin.Engine, tm *middleware.TokenManager, store *repository.Store, videos VideoSearcher, logger *zap.Logger) {
	manager := middleware.RoleMiddleware(model.RoleContentManager, model.RoleAdmin)

	routes := router.Group("/api/articles")
	{
		routes.GET("", tm.OptionalAccessTokenMiddleware(), func(c *gin.Context) {
			ListArticles(c, store)
		})
		routes.GET("/:id", tm.OptionalAccessTokenMiddleware(), func(c *gin.Context) {
			GetArticle(c, store, videos, logger)
		})
		routes.POST("", tm.AccessTokenMiddleware(), manager, func(c *gin.Context) {
			CreateArticle(c, store)
		})
		routes.PUT("/:id", tm.AccessTokenMiddleware(), manager, func(c *gin.Context) {
			UpdateArticle(c, store)
		})
		routes.DELETE("/:id", tm.AccessTokenMiddleware(), manager, func(c *gin.Context) {
			DeleteArticle(c, store)
		})
	}
}

func isManager(c *gin.Context) bool {
	return middleware.HasRole(c, model.RoleContentManager, model.RoleAdmin)
}

func ListArticles(c *gin.Context, store *repository.Store) {
	limit, err := controller.QueryInt(c, "limit", 0)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	f := repository.ArticleFilter{
		PublishedOnly: !(c.Query("all") == "true" && isManager(c)),
		Category:      strings.TrimSpace(c.Query("category")),
		Limit:         limit,
	}
	articles, err := store.Articles.List(c, f)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles, "count": len(articles)})
}

// GetArticle returns the article with related videos. A failing or
// disabled video provider yields an empty list, never an error.
func GetArticle(c *gin.Context, store *repository.Store, videos VideoSearcher, logger *zap.Logger) {
	a, err := store.Articles.Get(c, c.Param("id"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	if !a.Published && !isManager(c) {
		controller.RespondError(c, domain.NotFound("article %s not found", a.ID))
		return
	}

	related := []services.Video{}
	if videos != nil {
		query := a.VideoQuery
		if query == "" {
			query = a.Title
		}
		found, err := videos.Search(c, query)
		if err != nil {
			logger.Warn("related videos unavailable", zap.String("article_id", a.ID), zap.Error(err))
		} else if found != nil {
			related = found
		}
	}
	c.JSON(http.StatusOK, gin.H{"article": a, "relatedVideos": related})
}

func applyRequest(a *model.Article, req dto.ArticleRequest) error {
	a.Title = strings.TrimSpace(req.Title)
	a.Summary = strings.TrimSpace(req.Summary)
	a.Content = req.Content
	a.Category = strings.TrimSpace(req.Category)
	a.Tags = req.Tags
	if a.Tags == nil {
		a.Tags = []string{}
	}
	a.ImageURL = req.ImageURL
	a.Published = req.Published
	a.VideoQuery = strings.TrimSpace(req.VideoQuery)
	if a.Title == "" {
		return domain.Validation("title is required")
	}
	if strings.TrimSpace(a.Content) == "" {
		return domain.Validation("content is required")
	}
	return nil
}

func CreateArticle(c *gin.Context, store *repository.Store) {
	var req dto.ArticleRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	a := &model.Article{AuthorID: middleware.UserKey(c)}
	if err := applyRequest(a, req); err != nil {
		controller.RespondError(c, err)
		return
	}
	if err := store.Articles.Create(c, a); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Article created successfully", "article": a})
}

// UpdateArticle leaves the quiz link and author untouched.
func UpdateArticle(c *gin.Context, store *repository.Store) {
	var req dto.ArticleRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	a, err := store.Articles.Mutate(c, c.Param("id"), func(a *model.Article) error {
		return applyRequest(a, req)
	})
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Article updated successfully", "article": a})
}

func DeleteArticle(c *gin.Context, store *repository.Store) {
	if err := store.Articles.Delete(c, c.Param("id")); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Article deleted successfully"})
}
