package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"cmt-tasks/internal/database"
	"cmt-tasks/internal/middleware"
	"cmt-tasks/internal/models"

	"github.com/gin-gonic/gin"
)

func ListUsers(c *gin.Context) {
	var users []models.User
	if err := database.DB.Preload("Shop").Order("full_name ASC").Find(&users).Error; err != nil {
		logger.Error("user listing failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while retrieving users."})
		return
	}

	dtos := make([]userDTO, 0, len(users))
	for _, user := range users {
		dtos = append(dtos, toUserDTO(user))
	}
	c.JSON(http.StatusOK, dtos)
}

// ListEngineers feeds assignment pickers: active engineers only.
func ListEngineers(c *gin.Context) {
	var engineers []models.User
	if err := database.DB.
		Where("role = ? AND status = ?", models.RoleEngineer, models.UserActive).
		Order("full_name ASC").
		Find(&engineers).Error; err != nil {
		logger.Error("engineer listing failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while retrieving engineers."})
		return
	}

	dtos := make([]userDTO, 0, len(engineers))
	for _, user := range engineers {
		dtos = append(dtos, toUserDTO(user))
	}
	c.JSON(http.StatusOK, dtos)
}

type setSupervisorRequest struct {
	SupervisorID *uint `json:"supervisor_id"`
}

// SetSupervisor assigns or clears a user's supervisor. Self-reference and
// assignments that would close a cycle in the hierarchy are rejected.
func SetSupervisor(c *gin.Context) {
	var user models.User
	if err := database.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	var req setSupervisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.SupervisorID != nil {
		if *req.SupervisorID == user.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "a user cannot supervise themselves"})
			return
		}

		var supervisor models.User
		if err := database.DB.First(&supervisor, *req.SupervisorID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "supervisor not found"})
			return
		}

		// walk up from the proposed supervisor; reaching the user means
		// the assignment would close a cycle
		current := supervisor
		for current.SupervisorID != nil {
			if *current.SupervisorID == user.ID {
				c.JSON(http.StatusBadRequest, gin.H{"error": "assignment would create a supervision cycle"})
				return
			}
			var next models.User
			if err := database.DB.First(&next, *current.SupervisorID).Error; err != nil {
				break
			}
			current = next
		}
	}

	if err := database.DB.Model(&user).Update("supervisor_id", req.SupervisorID).Error; err != nil {
		logger.Error("supervisor update failed", slog.Any("err", err), slog.Uint64("user_id", uint64(user.ID)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while updating the user."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type metricsDTO struct {
	UserID            uint      `json:"user_id"`
	CompletionRate    float64   `json:"completion_rate"`
	AvgDelayDays      float64   `json:"avg_delay_days"`
	TasksCompleted    int       `json:"tasks_completed"`
	PendingTasksCount int       `json:"pending_tasks_count"`
	LastUpdated       time.Time `json:"last_updated"`
}

// GetUserMetrics returns a user's performance row: own metrics for anyone,
// anyone's metrics for leadership.
func GetUserMetrics(c *gin.Context) {
	caller, _ := middleware.CallerFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if uint(id) != caller.ID &&
		caller.Role != models.RoleTeamLeader && caller.Role != models.RoleDirector {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	var metrics models.PerformanceMetrics
	if err := database.DB.First(&metrics, "user_id = ?", uint(id)).Error; err != nil {
		// no row yet: an all-zero report, not an error
		c.JSON(http.StatusOK, metricsDTO{UserID: uint(id)})
		return
	}

	c.JSON(http.StatusOK, metricsDTO{
		UserID:            metrics.UserID,
		CompletionRate:    metrics.CompletionRate,
		AvgDelayDays:      metrics.AvgDelayDays,
		TasksCompleted:    metrics.TasksCompleted,
		PendingTasksCount: metrics.PendingTasksCount,
		LastUpdated:       metrics.LastUpdated,
	})
}
