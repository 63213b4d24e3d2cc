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

type notificationDTO struct {
	NotificationID uint      `json:"notification_id"`
	Message        string    `json:"message"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

func ListNotifications(c *gin.Context) {
	caller, _ := middleware.CallerFrom(c)

	var notifications []models.Notification
	if err := database.DB.
		Where("user_id = ?", caller.ID).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		logger.Error("notification listing failed", slog.Any("err", err), slog.Uint64("user_id", uint64(caller.ID)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while retrieving notifications."})
		return
	}

	dtos := make([]notificationDTO, 0, len(notifications))
	for _, n := range notifications {
		dtos = append(dtos, notificationDTO{
			NotificationID: n.ID,
			Message:        n.Message,
			IsRead:         n.IsRead,
			CreatedAt:      n.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, dtos)
}

func MarkNotificationRead(c *gin.Context) {
	caller, _ := middleware.CallerFrom(c)

	var notification models.Notification
	if err := database.DB.
		Where("id = ? AND user_id = ?", c.Param("id"), caller.ID).
		First(&notification).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}

	notification.IsRead = true
	if err := database.DB.Save(&notification).Error; err != nil {
		logger.Error("notification update failed", slog.Any("err", err), slog.Uint64("notification_id", uint64(notification.ID)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while updating the notification."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func MarkAllNotificationsRead(c *gin.Context) {
	caller, _ := middleware.CallerFrom(c)

	if err := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", caller.ID, false).
		Update("is_read", true).Error; err != nil {
		logger.Error("notification bulk update failed", slog.Any("err", err), slog.Uint64("user_id", uint64(caller.ID)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while updating notifications."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
