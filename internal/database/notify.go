package database

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"cmt-tasks/internal/models"

	"gorm.io/gorm/clause"
)

var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SplitEngineers breaks the comma-separated AssignedEngineer field into
// trimmed names. The Unassigned sentinel yields no names.
func SplitEngineers(assigned string) []string {
	if assigned == "" || assigned == models.UnassignedEngineer {
		return nil
	}
	var names []string
	for _, part := range strings.Split(assigned, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// truncateDescription cuts on a rune boundary so a multi-byte character is
// never split mid-sequence.
func truncateDescription(desc string, max int) string {
	if len(desc) <= max {
		return desc
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(desc[cut]) {
		cut--
	}
	return desc[:cut]
}

// NotifyTaskCreated writes one notification per assigned engineer that
// matches a known user. Best-effort: runs after the task's own transaction
// has committed, and a failed insert only loses that notification. Returns
// the number of rows written.
func NotifyTaskCreated(task *models.Task) int {
	if DB == nil {
		return 0
	}
	names := SplitEngineers(task.AssignedEngineer)
	if len(names) == 0 {
		return 0
	}

	var engineers []models.User
	if err := DB.Where("full_name IN ?", names).Find(&engineers).Error; err != nil {
		logger.Error("fan-out engineer lookup failed", slog.Any("err", err), slog.Uint64("task_id", uint64(task.ID)))
		return 0
	}

	msg := fmt.Sprintf("New task assigned to you: %s... (ID: TC-%d)",
		truncateDescription(task.Description, 50), task.ID)

	written := 0
	for _, engineer := range engineers {
		n := models.Notification{UserID: engineer.ID, Message: msg}
		if err := DB.Create(&n).Error; err != nil {
			logger.Error("fan-out insert failed", slog.Any("err", err), slog.Uint64("user_id", uint64(engineer.ID)))
			continue
		}
		written++
	}
	return written
}

// NotifyStatusChanged notifies every matching assigned engineer except the
// actor, plus the creator when the creator is not the actor. Same
// best-effort contract as NotifyTaskCreated.
func NotifyStatusChanged(task *models.Task, actorID uint, actorName string) int {
	if DB == nil {
		return 0
	}

	msg := fmt.Sprintf("Task TC-%d status changed to %s by %s.", task.ID, task.Status, actorName)
	written := 0

	if names := SplitEngineers(task.AssignedEngineer); len(names) > 0 {
		var engineers []models.User
		if err := DB.Where("full_name IN ? AND id <> ?", names, actorID).Find(&engineers).Error; err != nil {
			logger.Error("fan-out engineer lookup failed", slog.Any("err", err), slog.Uint64("task_id", uint64(task.ID)))
		} else {
			for _, engineer := range engineers {
				n := models.Notification{UserID: engineer.ID, Message: msg}
				if err := DB.Create(&n).Error; err != nil {
					logger.Error("fan-out insert failed", slog.Any("err", err), slog.Uint64("user_id", uint64(engineer.ID)))
					continue
				}
				written++
			}
		}
	}

	if task.CreatedBy != actorID {
		n := models.Notification{UserID: task.CreatedBy, Message: msg}
		if err := DB.Create(&n).Error; err != nil {
			logger.Error("fan-out insert failed", slog.Any("err", err), slog.Uint64("user_id", uint64(task.CreatedBy)))
		} else {
			written++
		}
	}
	return written
}

// RecomputeMetricsForAssignees refreshes the performance row of every user
// named in the task's AssignedEngineer field.
func RecomputeMetricsForAssignees(task *models.Task) {
	names := SplitEngineers(task.AssignedEngineer)
	if len(names) == 0 {
		return
	}
	var engineers []models.User
	if err := DB.Where("full_name IN ?", names).Find(&engineers).Error; err != nil {
		logger.Error("metrics engineer lookup failed", slog.Any("err", err), slog.Uint64("task_id", uint64(task.ID)))
		return
	}
	for _, engineer := range engineers {
		RecomputeMetrics(engineer.ID)
	}
}

// RecomputeMetrics rebuilds one user's PerformanceMetrics row from the
// tasks assigned to them. Best-effort, logged on failure.
func RecomputeMetrics(userID uint) {
	if DB == nil {
		return
	}

	var user models.User
	if err := DB.First(&user, userID).Error; err != nil {
		logger.Error("metrics user lookup failed", slog.Any("err", err), slog.Uint64("user_id", uint64(userID)))
		return
	}

	var tasks []models.Task
	if err := DB.Where("assigned_engineer LIKE ?", "%"+user.FullName+"%").Find(&tasks).Error; err != nil {
		logger.Error("metrics task query failed", slog.Any("err", err), slog.Uint64("user_id", uint64(userID)))
		return
	}

	var completed, pending int
	var delaySum float64
	var delayCount int
	for _, t := range tasks {
		switch t.Status {
		case models.StatusCompleted:
			completed++
			if t.TargetCompletionDate != nil && t.ActualCompletionDate != nil {
				delaySum += t.ActualCompletionDate.Sub(*t.TargetCompletionDate).Hours() / 24
				delayCount++
			}
		case models.StatusCancelled:
			// terminal but not productive, counted in neither bucket
		default:
			pending++
		}
	}

	metrics := models.PerformanceMetrics{
		UserID:            userID,
		TasksCompleted:    completed,
		PendingTasksCount: pending,
		LastUpdated:       time.Now().UTC(),
	}
	if len(tasks) > 0 {
		metrics.CompletionRate = float64(completed) / float64(len(tasks))
	}
	if delayCount > 0 {
		metrics.AvgDelayDays = delaySum / float64(delayCount)
	}

	if err := DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&metrics).Error; err != nil {
		logger.Error("metrics save failed", slog.Any("err", err), slog.Uint64("user_id", uint64(userID)))
	}
}
