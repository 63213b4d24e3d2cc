package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"cmt-tasks/internal/database"
	"cmt-tasks/internal/models"

	"github.com/gin-gonic/gin"
)

type attachmentDTO struct {
	AttachmentID uint      `json:"attachment_id"`
	TaskID       uint      `json:"task_id"`
	FilePath     string    `json:"file_path"`
	FileName     string    `json:"file_name"`
	FileType     string    `json:"file_type,omitempty"`
	UploadedBy   *string   `json:"uploaded_by,omitempty"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

func ListTaskAttachments(c *gin.Context) {
	var task models.Task
	if err := database.DB.First(&task, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	var attachments []models.TaskAttachment
	if err := database.DB.Preload("UploadedByUser").
		Where("task_id = ?", task.ID).
		Order("uploaded_at ASC").
		Find(&attachments).Error; err != nil {
		logger.Error("attachment listing failed", slog.Any("err", err), slog.Uint64("task_id", uint64(task.ID)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while retrieving attachments."})
		return
	}

	dtos := make([]attachmentDTO, 0, len(attachments))
	for _, a := range attachments {
		dto := attachmentDTO{
			AttachmentID: a.ID,
			TaskID:       a.TaskID,
			FilePath:     a.FilePath,
			FileName:     a.FileName,
			FileType:     a.FileType,
			UploadedAt:   a.UploadedAt,
		}
		if a.UploadedByUser != nil {
			dto.UploadedBy = &a.UploadedByUser.FullName
		}
		dtos = append(dtos, dto)
	}
	c.JSON(http.StatusOK, dtos)
}
