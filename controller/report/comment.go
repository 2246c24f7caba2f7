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

func ListComments(c *gin.Context, store *repository.Store) {
	reportID := c.Param("id")
	if _, err := store.Reports.Get(c, reportID); err != nil {
		controller.RespondError(c, err)
		return
	}
	comments, err := store.Comments.ListByReport(c, reportID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments, "count": len(comments)})
}

func CreateComment(c *gin.Context, store *repository.Store) {
	var req dto.CommentRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		controller.RespondError(c, domain.Validation("content is required"))
		return
	}

	comment := &model.Comment{
		ReportID: c.Param("id"),
		UserID:   middleware.UserKey(c),
		UserName: middleware.UserName(c),
		Content:  content,
	}
	if err := store.Comments.Create(c, comment); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Comment added", "comment": comment})
}

// DeleteComment is allowed for the comment's author and for admins.
func DeleteComment(c *gin.Context, store *repository.Store) {
	reportID, commentID := c.Param("id"), c.Param("commentId")
	comment, err := store.Comments.Get(c, reportID, commentID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	if comment.UserID != middleware.UserKey(c) && !middleware.HasRole(c, model.RoleAdmin) {
		controller.RespondError(c, domain.Forbidden("only the author or an admin can delete this comment"))
		return
	}
	if err := store.Comments.Delete(c, reportID, commentID); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
