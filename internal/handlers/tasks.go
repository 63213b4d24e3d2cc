package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"cmt-tasks/internal/database"
	"cmt-tasks/internal/middleware"
	"cmt-tasks/internal/models"
	"cmt-tasks/internal/policy"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type taskDTO struct {
	TaskID                  uint       `json:"task_id"`
	SerialNumber            string     `json:"serial_number,omitempty"`
	PartNumber              string     `json:"part_number,omitempty"`
	PoNumber                string     `json:"po_number,omitempty"`
	Description             string     `json:"description"`
	CategoryName            string     `json:"category_name"`
	SubTypeName             *string    `json:"sub_type_name,omitempty"`
	RequestTypeName         *string    `json:"request_type_name,omitempty"`
	Status                  string     `json:"status"`
	Comments                string     `json:"comments,omitempty"`
	AssignedEngineer        string     `json:"assigned_engineer"`
	PriorityLevelName       string     `json:"priority_level_name"`
	EstimatedCompletionDate time.Time  `json:"estimated_completion_date"`
	TargetCompletionDate    *time.Time `json:"target_completion_date,omitempty"`
	ActualCompletionDate    *time.Time `json:"actual_completion_date,omitempty"`
	AttachmentPath          string     `json:"attachment_path,omitempty"`
	AmendmentRequest        bool       `json:"amendment_request"`
	AmendmentStatus         *string    `json:"amendment_status,omitempty"`
	TlReviewerName          *string    `json:"tl_reviewer_name,omitempty"`
	RevisionNotes           string     `json:"revision_notes,omitempty"`
	ShowRevisionAlert       bool       `json:"show_revision_alert"`
	CreatorName             string     `json:"creator_name"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
	IsDuplicate             bool       `json:"is_duplicate"`
	DuplicateJustification  string     `json:"duplicate_justification,omitempty"`
	IsOverdue               bool       `json:"is_overdue"`
}

// isOverdue: a completed task is never overdue, and a task with no target
// date cannot be.
func isOverdue(task *models.Task, now time.Time) bool {
	return task.Status != models.StatusCompleted &&
		task.TargetCompletionDate != nil &&
		task.TargetCompletionDate.Before(now)
}

func toTaskDTO(task *models.Task) taskDTO {
	dto := taskDTO{
		TaskID:                  task.ID,
		SerialNumber:            task.SerialNumber,
		PartNumber:              task.PartNumber,
		PoNumber:                task.PoNumber,
		Description:             task.Description,
		CategoryName:            task.Category.Name,
		Status:                  string(task.Status),
		Comments:                task.Comments,
		AssignedEngineer:        task.AssignedEngineer,
		PriorityLevelName:       task.Priority.LevelName,
		EstimatedCompletionDate: task.EstimatedCompletionDate,
		TargetCompletionDate:    task.TargetCompletionDate,
		ActualCompletionDate:    task.ActualCompletionDate,
		AttachmentPath:          task.AttachmentPath,
		AmendmentRequest:        task.AmendmentRequest,
		RevisionNotes:           task.RevisionNotes,
		ShowRevisionAlert:       task.ShowRevisionAlert,
		CreatorName:             task.Creator.FullName,
		CreatedAt:               task.CreatedAt,
		UpdatedAt:               task.UpdatedAt,
		IsDuplicate:             task.IsDuplicate,
		DuplicateJustification:  task.DuplicateJustification,
		IsOverdue:               isOverdue(task, time.Now().UTC()),
	}
	if task.SubType != nil {
		dto.SubTypeName = &task.SubType.Name
	}
	if task.RequestType != nil {
		dto.RequestTypeName = &task.RequestType.Name
	}
	if task.AmendmentStatus != nil {
		s := string(*task.AmendmentStatus)
		dto.AmendmentStatus = &s
	}
	if task.AmendmentReviewedByTl != nil {
		dto.TlReviewerName = &task.AmendmentReviewedByTl.FullName
	}
	return dto
}

func boolQuery(c *gin.Context, key string) bool {
	v, _ := strconv.ParseBool(c.Query(key))
	return v
}

func taskQuery() *gorm.DB {
	return database.DB.Model(&models.Task{}).
		Preload("Category").
		Preload("SubType").
		Preload("RequestType").
		Preload("Priority").
		Preload("Creator").
		Preload("AmendmentReviewedByTl")
}

func ListTasks(c *gin.Context) {
	caller, _ := middleware.CallerFrom(c)

	filter := policy.TaskFilter{
		Search:         c.Query("search"),
		Status:         c.Query("status"),
		ViewCompleted:  boolQuery(c, "viewCompleted"),
		ShowDuplicates: boolQuery(c, "showDuplicates"),
		SortBy:         c.Query("sortBy"),
		FilterMyTasks:  boolQuery(c, "filterMyTasks"),
	}

	var reportIDs []uint
	if caller.Role == models.RoleShopTL {
		if err := database.DB.Model(&models.User{}).
			Where("supervisor_id = ?", caller.ID).
			Pluck("id", &reportIDs).Error; err != nil {
			logger.Error("report lookup failed", slog.Any("err", err), slog.Uint64("user_id", uint64(caller.ID)))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while retrieving tasks."})
			return
		}
	}

	var tasks []models.Task
	err := taskQuery().
		Joins("JOIN task_priority_levels ON task_priority_levels.id = tasks.priority_id").
		Scopes(
			policy.For(caller, reportIDs).Scope(filter),
			policy.SearchScope(filter.Search),
			policy.StatusScope(filter.Status),
			policy.MyTasksScope(caller, filter.FilterMyTasks),
		).
		Order(policy.OrderClause(filter.SortBy)).
		Find(&tasks).Error
	if err != nil {
		logger.Error("task listing failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while retrieving tasks."})
		return
	}

	dtos := make([]taskDTO, 0, len(tasks))
	for i := range tasks {
		dtos = append(dtos, toTaskDTO(&tasks[i]))
	}
	c.JSON(http.StatusOK, dtos)
}

func GetTask(c *gin.Context) {
	id := c.Param("id")

	var task models.Task
	if err := taskQuery().First(&task, "tasks.id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	c.JSON(http.StatusOK, toTaskDTO(&task))
}

type createTaskRequest struct {
	SerialNumber            string     `json:"serial_number"`
	PartNumber              string     `json:"part_number" binding:"required"`
	PoNumber                string     `json:"po_number"`
	Description             string     `json:"description" binding:"required"`
	CategoryID              uint       `json:"category_id" binding:"required"`
	SubTypeID               *uint      `json:"sub_type_id"`
	RequestTypeID           *uint      `json:"request_type_id"`
	Comments                string     `json:"comments"`
	AssignedEngineer        string     `json:"assigned_engineer"`
	PriorityID              uint       `json:"priority_id" binding:"required"`
	EstimatedCompletionDate time.Time  `json:"estimated_completion_date" binding:"required"`
	TargetCompletionDate    *time.Time `json:"target_completion_date"`
	IsDuplicate             bool       `json:"is_duplicate"`
	DuplicateJustification  string     `json:"duplicate_justification"`
	ShopID                  *uint      `json:"shop_id"`
}

func CreateTask(c *gin.Context) {
	caller, _ := middleware.CallerFrom(c)

	if !policy.CanCreateTask(caller.Role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to create tasks."})
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.AssignedEngineer == "" {
		req.AssignedEngineer = models.UnassignedEngineer
	}

	task := models.Task{
		SerialNumber:            req.SerialNumber,
		PartNumber:              req.PartNumber,
		PoNumber:                req.PoNumber,
		Description:             req.Description,
		CategoryID:              req.CategoryID,
		SubTypeID:               req.SubTypeID,
		RequestTypeID:           req.RequestTypeID,
		Comments:                req.Comments,
		AssignedEngineer:        req.AssignedEngineer,
		PriorityID:              req.PriorityID,
		EstimatedCompletionDate: req.EstimatedCompletionDate,
		TargetCompletionDate:    req.TargetCompletionDate,
		IsDuplicate:             req.IsDuplicate,
		DuplicateJustification:  req.DuplicateJustification,
		ShopID:                  req.ShopID,
		CreatedBy:               caller.ID,
	}

	// default the target date from the category SLA when none was given
	if task.TargetCompletionDate == nil && task.CategoryID > 0 {
		var sla models.TaskCategoryTargetDays
		err := database.DB.Where("category_id = ?", task.CategoryID).First(&sla).Error
		if err == nil && sla.TargetDays > 0 {
			target := task.EstimatedCompletionDate.AddDate(0, 0, sla.TargetDays)
			task.TargetCompletionDate = &target
		}
	}

	if err := database.DB.Create(&task).Error; err != nil {
		logger.Error("task create failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while creating the task."})
		return
	}
	tasksCreatedTotal.Inc()

	// fan-out happens after the insert committed; losing a notification
	// never loses the task
	notificationsFannedTotal.Add(float64(database.NotifyTaskCreated(&task)))

	var created models.Task
	if err := taskQuery().First(&created, "tasks.id = ?", task.ID).Error; err != nil {
		logger.Error("task reload failed", slog.Any("err", err), slog.Uint64("task_id", uint64(task.ID)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while creating the task."})
		return
	}

	c.Header("Location", fmt.Sprintf("/api/tasks/%d", created.ID))
	c.JSON(http.StatusCreated, toTaskDTO(&created))
}

type updateTaskRequest struct {
	TaskID               uint       `json:"task_id" binding:"required"`
	Status               string     `json:"status" binding:"required"`
	Comments             string     `json:"comments"`
	AssignedEngineer     string     `json:"assigned_engineer"`
	TargetCompletionDate *time.Time `json:"target_completion_date"`
	RevisionNotes        string     `json:"revision_notes"`
	ShowRevisionAlert    bool       `json:"show_revision_alert"`
}

func UpdateTask(c *gin.Context) {
	caller, _ := middleware.CallerFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if uint(id) != req.TaskID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task ID mismatch."})
		return
	}

	var task models.Task
	if err := database.DB.First(&task, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	if !policy.CanUpdateTask(&task, caller, req.Status) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to update this task."})
		return
	}

	prevStatus := task.Status

	if status, ok := models.ParseTaskStatus(req.Status); ok {
		task.Status = status
	}
	task.Comments = req.Comments

	if task.Status == models.StatusCompleted {
		now := time.Now().UTC()
		task.ActualCompletionDate = &now
		// a completed task no longer carries an open amendment request
		task.AmendmentRequest = false
	}

	if policy.CanEditAssignment(caller.Role) {
		if req.AssignedEngineer != "" {
			task.AssignedEngineer = req.AssignedEngineer
		}
		if req.TargetCompletionDate != nil {
			task.TargetCompletionDate = req.TargetCompletionDate
		}
	}

	if policy.CanEditRevision(caller.Role) {
		task.RevisionNotes = req.RevisionNotes
		task.ShowRevisionAlert = req.ShowRevisionAlert
	}

	if err := database.DB.Save(&task).Error; err != nil {
		logger.Error("task update failed", slog.Any("err", err), slog.Uint64("task_id", uint64(task.ID)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while updating the task."})
		return
	}
	taskUpdatesTotal.Inc()

	if task.Status != prevStatus {
		notificationsFannedTotal.Add(float64(database.NotifyStatusChanged(&task, caller.ID, caller.FullName)))
	}
	if task.Status == models.StatusCompleted && prevStatus != models.StatusCompleted {
		database.RecomputeMetricsForAssignees(&task)
	}

	var updated models.Task
	if err := taskQuery().First(&updated, "tasks.id = ?", task.ID).Error; err != nil {
		logger.Error("task reload failed", slog.Any("err", err), slog.Uint64("task_id", uint64(task.ID)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while updating the task."})
		return
	}

	c.JSON(http.StatusOK, toTaskDTO(&updated))
}
