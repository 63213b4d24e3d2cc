package policy

import (
	"strings"

	"cmt-tasks/internal/models"
)

// CanCreateTask reports whether the role may create tasks at all.
func CanCreateTask(role models.UserRole) bool {
	switch role {
	case models.RoleTeamLeader, models.RoleDirector,
		models.RoleCustomerPersonnel, models.RoleShopTL:
		return true
	}
	return false
}

// CanUpdateTask is the per-role update permission predicate.
// requestedStatus is the raw status string from the request; customer
// personnel may never move their own task into Completed.
func CanUpdateTask(task *models.Task, caller Caller, requestedStatus string) bool {
	switch caller.Role {
	case models.RoleTeamLeader:
		return task.Status != models.StatusCompleted
	case models.RoleDirector:
		if task.Status != models.StatusCompleted {
			return true
		}
		return task.AmendmentRequest &&
			task.AmendmentStatus != nil &&
			*task.AmendmentStatus == models.AmendmentForwardedToDirector
	case models.RoleEngineer:
		return task.Status != models.StatusCompleted &&
			strings.Contains(task.AssignedEngineer, caller.FullName)
	case models.RoleCustomerPersonnel:
		return task.Status != models.StatusCompleted &&
			task.CreatedBy == caller.ID &&
			requestedStatus != string(models.StatusCompleted)
	}
	return false
}

// CanEditAssignment gates AssignedEngineer and TargetCompletionDate edits.
func CanEditAssignment(role models.UserRole) bool {
	return role == models.RoleTeamLeader || role == models.RoleDirector
}

// CanEditRevision gates RevisionNotes and ShowRevisionAlert edits.
func CanEditRevision(role models.UserRole) bool {
	return role == models.RoleEngineer || role == models.RoleTeamLeader
}
