package policy

import (
	"strings"

	"cmt-tasks/internal/models"

	"gorm.io/gorm"
)

// Caller is the authenticated identity a request acts as.
type Caller struct {
	ID       uint
	FullName string
	Role     models.UserRole
	ShopID   *uint
}

// TaskFilter mirrors the task listing query parameters.
type TaskFilter struct {
	Search         string
	Status         string
	ViewCompleted  bool
	ShowDuplicates bool
	SortBy         string
	FilterMyTasks  bool
}

// Visibility decides which tasks a caller may see. Allows is the pure
// predicate; Scope applies the same restriction to a query.
type Visibility interface {
	Allows(task *models.Task, f TaskFilter) bool
	Scope(f TaskFilter) func(*gorm.DB) *gorm.DB
}

// For returns the visibility policy for the caller's role. reportIDs are
// the caller's direct reports; only ShopTL uses them.
func For(caller Caller, reportIDs []uint) Visibility {
	switch caller.Role {
	case models.RoleCustomer:
		return customerVisibility{}
	case models.RoleEngineer:
		return engineerVisibility{caller: caller}
	case models.RoleCustomerPersonnel:
		return personnelVisibility{caller: caller}
	case models.RoleShopTL:
		return shopTLVisibility{caller: caller, reportIDs: reportIDs}
	case models.RoleDirector, models.RoleTeamLeader:
		return leadershipVisibility{}
	}
	return noVisibility{}
}

// Customers only ever see completed work.
type customerVisibility struct{}

func (customerVisibility) Allows(t *models.Task, _ TaskFilter) bool {
	return t.Status == models.StatusCompleted
}

func (customerVisibility) Scope(_ TaskFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tasks.status = ?", models.StatusCompleted)
	}
}

// Engineers see tasks naming them in AssignedEngineer, split between
// completed and open by the ViewCompleted flag.
type engineerVisibility struct {
	caller Caller
}

func (v engineerVisibility) Allows(t *models.Task, f TaskFilter) bool {
	if !strings.Contains(t.AssignedEngineer, v.caller.FullName) {
		return false
	}
	if f.ViewCompleted {
		return t.Status == models.StatusCompleted
	}
	return t.Status != models.StatusCompleted
}

func (v engineerVisibility) Scope(f TaskFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("tasks.assigned_engineer LIKE ?", "%"+v.caller.FullName+"%")
		return splitCompleted(db, f.ViewCompleted)
	}
}

// CustomerPersonnel see only tasks they created.
type personnelVisibility struct {
	caller Caller
}

func (v personnelVisibility) Allows(t *models.Task, f TaskFilter) bool {
	if t.CreatedBy != v.caller.ID {
		return false
	}
	if f.ViewCompleted {
		return t.Status == models.StatusCompleted
	}
	return t.Status != models.StatusCompleted
}

func (v personnelVisibility) Scope(f TaskFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("tasks.created_by = ?", v.caller.ID)
		return splitCompleted(db, f.ViewCompleted)
	}
}

// Shop team leads see tasks created by themselves or their direct reports.
type shopTLVisibility struct {
	caller    Caller
	reportIDs []uint
}

func (v shopTLVisibility) creatorIDs() []uint {
	return append([]uint{v.caller.ID}, v.reportIDs...)
}

func (v shopTLVisibility) Allows(t *models.Task, f TaskFilter) bool {
	found := false
	for _, id := range v.creatorIDs() {
		if t.CreatedBy == id {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	if f.ViewCompleted {
		return t.Status == models.StatusCompleted
	}
	return t.Status != models.StatusCompleted
}

func (v shopTLVisibility) Scope(f TaskFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("tasks.created_by IN ?", v.creatorIDs())
		return splitCompleted(db, f.ViewCompleted)
	}
}

// Directors and team leaders see everything open plus amendment requests,
// with dedicated duplicate and completed views.
type leadershipVisibility struct{}

func (leadershipVisibility) Allows(t *models.Task, f TaskFilter) bool {
	if f.ShowDuplicates {
		return t.IsDuplicate
	}
	if f.ViewCompleted {
		return t.Status == models.StatusCompleted
	}
	return t.Status != models.StatusCompleted || t.AmendmentRequest
}

func (leadershipVisibility) Scope(f TaskFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.ShowDuplicates {
			return db.Where("tasks.is_duplicate = ?", true)
		}
		if f.ViewCompleted {
			return db.Where("tasks.status = ?", models.StatusCompleted)
		}
		return db.Where("tasks.status <> ? OR tasks.amendment_request = ?",
			models.StatusCompleted, true)
	}
}

type noVisibility struct{}

func (noVisibility) Allows(_ *models.Task, _ TaskFilter) bool { return false }

func (noVisibility) Scope(_ TaskFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("1 = 0")
	}
}

func splitCompleted(db *gorm.DB, viewCompleted bool) *gorm.DB {
	if viewCompleted {
		return db.Where("tasks.status = ?", models.StatusCompleted)
	}
	return db.Where("tasks.status <> ?", models.StatusCompleted)
}
