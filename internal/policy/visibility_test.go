package policy

import (
	"testing"

	"cmt-tasks/internal/models"

	"github.com/stretchr/testify/assert"
)

func amendment(s models.AmendmentStatus) *models.AmendmentStatus {
	return &s
}

func TestCustomerVisibility(t *testing.T) {
	v := For(Caller{ID: 1, Role: models.RoleCustomer}, nil)

	assert.True(t, v.Allows(&models.Task{Status: models.StatusCompleted}, TaskFilter{}))
	assert.False(t, v.Allows(&models.Task{Status: models.StatusPending}, TaskFilter{}))
	assert.False(t, v.Allows(&models.Task{Status: models.StatusInProgress}, TaskFilter{}))
}

func TestEngineerVisibility(t *testing.T) {
	caller := Caller{ID: 2, FullName: "Jane Doe", Role: models.RoleEngineer}
	v := For(caller, nil)

	mine := &models.Task{Status: models.StatusInProgress, AssignedEngineer: "John Smith, Jane Doe"}
	notMine := &models.Task{Status: models.StatusInProgress, AssignedEngineer: "John Smith"}
	mineDone := &models.Task{Status: models.StatusCompleted, AssignedEngineer: "Jane Doe"}

	assert.True(t, v.Allows(mine, TaskFilter{}))
	assert.False(t, v.Allows(notMine, TaskFilter{}))
	assert.False(t, v.Allows(mineDone, TaskFilter{}), "completed hidden without viewCompleted")
	assert.True(t, v.Allows(mineDone, TaskFilter{ViewCompleted: true}))
	assert.False(t, v.Allows(mine, TaskFilter{ViewCompleted: true}))
}

func TestCustomerPersonnelVisibility(t *testing.T) {
	caller := Caller{ID: 3, Role: models.RoleCustomerPersonnel}
	v := For(caller, nil)

	own := &models.Task{Status: models.StatusPending, CreatedBy: 3}
	other := &models.Task{Status: models.StatusPending, CreatedBy: 4}
	ownDone := &models.Task{Status: models.StatusCompleted, CreatedBy: 3}

	assert.True(t, v.Allows(own, TaskFilter{}))
	assert.False(t, v.Allows(other, TaskFilter{}))
	assert.False(t, v.Allows(ownDone, TaskFilter{}))
	assert.True(t, v.Allows(ownDone, TaskFilter{ViewCompleted: true}))
}

func TestShopTLVisibility(t *testing.T) {
	caller := Caller{ID: 5, Role: models.RoleShopTL}
	v := For(caller, []uint{6, 7})

	assert.True(t, v.Allows(&models.Task{Status: models.StatusPending, CreatedBy: 5}, TaskFilter{}))
	assert.True(t, v.Allows(&models.Task{Status: models.StatusPending, CreatedBy: 6}, TaskFilter{}))
	assert.True(t, v.Allows(&models.Task{Status: models.StatusPending, CreatedBy: 7}, TaskFilter{}))
	assert.False(t, v.Allows(&models.Task{Status: models.StatusPending, CreatedBy: 8}, TaskFilter{}))
	assert.False(t, v.Allows(&models.Task{Status: models.StatusCompleted, CreatedBy: 6}, TaskFilter{}))
	assert.True(t, v.Allows(&models.Task{Status: models.StatusCompleted, CreatedBy: 6}, TaskFilter{ViewCompleted: true}))
}

func TestLeadershipVisibility(t *testing.T) {
	for _, role := range []models.UserRole{models.RoleDirector, models.RoleTeamLeader} {
		v := For(Caller{ID: 9, Role: role}, nil)

		open := &models.Task{Status: models.StatusPending}
		done := &models.Task{Status: models.StatusCompleted}
		doneAmended := &models.Task{Status: models.StatusCompleted, AmendmentRequest: true}
		dup := &models.Task{Status: models.StatusPending, IsDuplicate: true}

		assert.True(t, v.Allows(open, TaskFilter{}), role)
		assert.False(t, v.Allows(done, TaskFilter{}), role)
		assert.True(t, v.Allows(doneAmended, TaskFilter{}), "amendment requests surface in the open view")
		assert.True(t, v.Allows(done, TaskFilter{ViewCompleted: true}), role)
		assert.False(t, v.Allows(open, TaskFilter{ViewCompleted: true}), role)
		assert.True(t, v.Allows(dup, TaskFilter{ShowDuplicates: true}), role)
		assert.False(t, v.Allows(open, TaskFilter{ShowDuplicates: true}), role)
	}
}

func TestUnknownRoleSeesNothing(t *testing.T) {
	v := For(Caller{ID: 1, Role: "Intern"}, nil)
	assert.False(t, v.Allows(&models.Task{Status: models.StatusCompleted}, TaskFilter{}))
	assert.False(t, v.Allows(&models.Task{Status: models.StatusPending}, TaskFilter{}))
}

func TestCanUpdateTask(t *testing.T) {
	open := &models.Task{Status: models.StatusInProgress, CreatedBy: 10, AssignedEngineer: "Jane Doe"}
	done := &models.Task{Status: models.StatusCompleted, CreatedBy: 10, AssignedEngineer: "Jane Doe"}
	doneForwarded := &models.Task{
		Status:           models.StatusCompleted,
		AmendmentRequest: true,
		AmendmentStatus:  amendment(models.AmendmentForwardedToDirector),
	}
	doneTLReview := &models.Task{
		Status:           models.StatusCompleted,
		AmendmentRequest: true,
		AmendmentStatus:  amendment(models.AmendmentPendingTLReview),
	}

	tl := Caller{ID: 1, Role: models.RoleTeamLeader}
	director := Caller{ID: 2, Role: models.RoleDirector}
	engineer := Caller{ID: 3, FullName: "Jane Doe", Role: models.RoleEngineer}
	otherEngineer := Caller{ID: 4, FullName: "John Smith", Role: models.RoleEngineer}
	personnel := Caller{ID: 10, Role: models.RoleCustomerPersonnel}
	customer := Caller{ID: 11, Role: models.RoleCustomer}

	assert.True(t, CanUpdateTask(open, tl, "Blocked"))
	assert.False(t, CanUpdateTask(done, tl, "Pending"))

	assert.True(t, CanUpdateTask(open, director, "Blocked"))
	assert.True(t, CanUpdateTask(doneForwarded, director, "InProgress"), "forwarded amendments reopen for the director")
	assert.False(t, CanUpdateTask(doneTLReview, director, "InProgress"))

	assert.True(t, CanUpdateTask(open, engineer, "InProgress"))
	assert.False(t, CanUpdateTask(open, otherEngineer, "InProgress"), "engineer not named in the assignment")
	assert.False(t, CanUpdateTask(done, engineer, "InProgress"))

	assert.True(t, CanUpdateTask(open, personnel, "OnHold"))
	assert.False(t, CanUpdateTask(open, personnel, "Completed"), "personnel may not complete their own tasks")
	assert.False(t, CanUpdateTask(open, Caller{ID: 12, Role: models.RoleCustomerPersonnel}, "OnHold"), "not the creator")

	assert.False(t, CanUpdateTask(open, customer, "Pending"))
}

func TestCanCreateTask(t *testing.T) {
	assert.True(t, CanCreateTask(models.RoleTeamLeader))
	assert.True(t, CanCreateTask(models.RoleDirector))
	assert.True(t, CanCreateTask(models.RoleCustomerPersonnel))
	assert.True(t, CanCreateTask(models.RoleShopTL))
	assert.False(t, CanCreateTask(models.RoleEngineer))
	assert.False(t, CanCreateTask(models.RoleCustomer))
}

func TestFieldEditGates(t *testing.T) {
	assert.True(t, CanEditAssignment(models.RoleTeamLeader))
	assert.True(t, CanEditAssignment(models.RoleDirector))
	assert.False(t, CanEditAssignment(models.RoleEngineer))

	assert.True(t, CanEditRevision(models.RoleEngineer))
	assert.True(t, CanEditRevision(models.RoleTeamLeader))
	assert.False(t, CanEditRevision(models.RoleDirector))
	assert.False(t, CanEditRevision(models.RoleCustomerPersonnel))
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "tasks.created_at DESC", OrderClause("newest"))
	assert.Equal(t, "tasks.created_at ASC", OrderClause("oldest"))
	assert.Equal(t,
		"task_priority_levels.order_rank ASC, tasks.created_at DESC",
		OrderClause("priority_desc"))
	assert.Equal(t,
		"task_priority_levels.order_rank DESC, tasks.created_at DESC",
		OrderClause("priority_asc"))
	assert.Equal(t,
		"tasks.estimated_completion_date ASC, tasks.created_at DESC",
		OrderClause("estimated_asc"))

	// unknown keys fall back to the default instead of erroring
	assert.Equal(t, OrderClause("priority_desc"), OrderClause("bogus"))
	assert.Equal(t, OrderClause("priority_desc"), OrderClause(""))

	assert.Equal(t, OrderClause("newest"), OrderClause("NEWEST"), "sort keys are case-insensitive")
}
