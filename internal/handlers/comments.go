package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"cmt-tasks/internal/database"
	"cmt-tasks/internal/middleware"
	"cmt-tasks/internal/models"

	"github.com/gin-gonic/gin"
)

type commentDTO struct {
	CommentID      uint      `json:"comment_id"`
	TaskID         uint      `json:"task_id"`
	UserID         uint      `json:"user_id"`
	UserName       string    `json:"user_name"`
	CommentText    string    `json:"comment_text"`
	IsIntervention bool      `json:"is_intervention"`
	CreatedAt      time.Time `json:"created_at"`
}

func toCommentDTO(comment models.TaskComment) commentDTO {
	return commentDTO{
		CommentID:      comment.ID,
		TaskID:         comment.TaskID,
		UserID:         comment.UserID,
		UserName:       comment.User.FullName,
		CommentText:    comment.CommentText,
		IsIntervention: comment.IsIntervention,
		CreatedAt:      comment.CreatedAt,
	}
}

func ListTaskComments(c *gin.Context) {
	var task models.Task
	if err := database.DB.First(&task, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	var comments []models.TaskComment
	if err := database.DB.Preload("User").
		Where("task_id = ?", task.ID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		logger.Error("comment listing failed", slog.Any("err", err), slog.Uint64("task_id", uint64(task.ID)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while retrieving comments."})
		return
	}

	dtos := make([]commentDTO, 0, len(comments))
	for _, comment := range comments {
		dtos = append(dtos, toCommentDTO(comment))
	}
	c.JSON(http.StatusOK, dtos)
}

type createCommentRequest struct {
	CommentText    string `json:"comment_text" binding:"required"`
	IsIntervention bool   `json:"is_intervention"`
}

func CreateTaskComment(c *gin.Context) {
	caller, _ := middleware.CallerFrom(c)

	var task models.Task
	if err := database.DB.First(&task, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// interventions are a leadership marker
	isIntervention := req.IsIntervention &&
		(caller.Role == models.RoleTeamLeader || caller.Role == models.RoleDirector)

	comment := models.TaskComment{
		TaskID:         task.ID,
		UserID:         caller.ID,
		CommentText:    req.CommentText,
		IsIntervention: isIntervention,
	}
	if err := database.DB.Create(&comment).Error; err != nil {
		logger.Error("comment create failed", slog.Any("err", err), slog.Uint64("task_id", uint64(task.ID)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while adding the comment."})
		return
	}

	if err := database.DB.Preload("User").First(&comment, comment.ID).Error; err == nil {
		c.JSON(http.StatusCreated, toCommentDTO(comment))
		return
	}
	c.JSON(http.StatusCreated, toCommentDTO(comment))
}
