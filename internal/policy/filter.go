package policy

import (
	"strings"

	"cmt-tasks/internal/models"

	"gorm.io/gorm"
)

// SearchScope matches a case-insensitive substring against serial number,
// part number, or description. Empty search filters nothing.
func SearchScope(search string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if search == "" {
			return db
		}
		p := "%" + strings.ToLower(search) + "%"
		return db.Where(
			"LOWER(tasks.serial_number) LIKE ? OR LOWER(tasks.part_number) LIKE ? OR LOWER(tasks.description) LIKE ?",
			p, p, p,
		)
	}
}

// StatusScope filters on a status string parsed with spaces stripped.
// Unrecognized values filter nothing rather than erroring.
func StatusScope(status string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if status == "" {
			return db
		}
		st, ok := models.ParseTaskStatus(status)
		if !ok {
			return db
		}
		return db.Where("tasks.status = ?", st)
	}
}

// MyTasksScope restricts to tasks the caller created or is assigned to.
func MyTasksScope(caller Caller, enabled bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !enabled {
			return db
		}
		return db.Where("tasks.created_by = ? OR tasks.assigned_engineer LIKE ?",
			caller.ID, "%"+caller.FullName+"%")
	}
}

// OrderClause maps a sort key to its ordering. Priority rank 1 is the most
// urgent, so "priority_desc" orders rank ascending. Every non-chronological
// ordering tie-breaks newest first. Unknown keys fall back to the default.
func OrderClause(sortBy string) string {
	switch strings.ToLower(sortBy) {
	case "newest":
		return "tasks.created_at DESC"
	case "oldest":
		return "tasks.created_at ASC"
	case "priority_asc":
		return "task_priority_levels.order_rank DESC, tasks.created_at DESC"
	case "estimated_asc":
		return "tasks.estimated_completion_date ASC, tasks.created_at DESC"
	case "estimated_desc":
		return "tasks.estimated_completion_date DESC, tasks.created_at DESC"
	default: // includes priority_desc
		return "task_priority_levels.order_rank ASC, tasks.created_at DESC"
	}
}
