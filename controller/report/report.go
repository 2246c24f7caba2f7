package report

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

func ReportController(router *gin.Engine, tm *middleware.TokenManager, store *repository.Store) {
	routes := router.Group("/api/reports")
	{
		routes.GET("", func(c *gin.Context) {
			ListReports(c, store)
		})
		routes.GET("/mine", tm.AccessTokenMiddleware(), func(c *gin.Context) {
			MyReports(c, store)
		})
		routes.GET("/:id", func(c *gin.Context) {
			GetReport(c, store)
		})
		routes.POST("", tm.AccessTokenMiddleware(), func(c *gin.Context) {
			CreateReport(c, store)
		})
		routes.PATCH("/:id/status", tm.AccessTokenMiddleware(), middleware.AdminMiddleware(), func(c *gin.Context) {
			UpdateReportStatus(c, store)
		})
		routes.POST("/:id/vote", tm.AccessTokenMiddleware(), func(c *gin.Context) {
			CastVote(c, store)
		})
		routes.GET("/:id/vote", tm.AccessTokenMiddleware(), func(c *gin.Context) {
			MyVote(c, store)
		})
		routes.GET("/:id/comments", func(c *gin.Context) {
			ListComments(c, store)
		})
		routes.POST("/:id/comments", tm.AccessTokenMiddleware(), func(c *gin.Context) {
			CreateComment(c, store)
		})
		routes.DELETE("/:id/comments/:commentId", tm.AccessTokenMiddleware(), func(c *gin.Context) {
			DeleteComment(c, store)
		})
	}
}

func reportFilter(c *gin.Context) (repository.ReportFilter, error) {
	f := repository.ReportFilter{
		Category: model.DisasterCategory(strings.ToUpper(c.Query("category"))),
		Status:   model.ReportStatus(strings.ToUpper(c.Query("status"))),
		Severity: model.Severity(strings.ToUpper(c.Query("severity"))),
	}
	if f.Category != "" && !domain.ValidCategory(f.Category) {
		return f, domain.Validation("unknown category %q", f.Category)
	}
	if f.Severity != "" && !domain.ValidSeverity(f.Severity) {
		return f, domain.Validation("unknown severity %q", f.Severity)
	}
	limit, err := controller.QueryInt(c, "limit", 0)
	if err != nil {
		return f, err
	}
	f.Limit = limit
	return f, nil
}

func ListReports(c *gin.Context, store *repository.Store) {
	f, err := reportFilter(c)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	reports, err := store.Reports.List(c, f)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports, "count": len(reports)})
}

func MyReports(c *gin.Context, store *repository.Store) {
	f, err := reportFilter(c)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	f.ReporterID = middleware.UserKey(c)
	reports, err := store.Reports.List(c, f)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports, "count": len(reports)})
}

func GetReport(c *gin.Context, store *repository.Store) {
	r, err := store.Reports.Get(c, c.Param("id"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": r})
}

func CreateReport(c *gin.Context, store *repository.Store) {
	var req dto.CreateReportRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	r := &model.Report{
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		Category:     model.DisasterCategory(strings.ToUpper(string(req.Category))),
		Severity:     req.Severity,
		Location:     req.Location.Model(),
		Status:       model.ReportPending,
		ReporterID:   middleware.UserKey(c),
		ReporterName: middleware.UserName(c),
	}
	if r.Title == "" {
		controller.RespondError(c, domain.Validation("title is required"))
		return
	}
	if !domain.ValidCategory(r.Category) {
		controller.RespondError(c, domain.Validation("unknown category %q", req.Category))
		return
	}
	if err := domain.ValidateLocation(r.Location); err != nil {
		controller.RespondError(c, err)
		return
	}

	if err := store.Reports.Create(c, r); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Report created successfully", "report": r})
}

func UpdateReportStatus(c *gin.Context, store *repository.Store) {
	var req dto.UpdateReportStatusRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	adminID := middleware.UserKey(c)
	to := model.ReportStatus(strings.ToUpper(string(req.Status)))

	r, err := store.Reports.Mutate(c, c.Param("id"), func(r *model.Report) error {
		return domain.TransitionReport(r, to, adminID, req.AdminNote)
	})
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report status updated", "report": r})
}
