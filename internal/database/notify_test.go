package database

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"cmt-tasks/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))
	DB = db
	t.Cleanup(func() {
		DB = nil
		_ = sqlDB.Close()
	})
}

func seedUser(t *testing.T, fullName string, role models.UserRole) models.User {
	t.Helper()
	user := models.User{
		Username:     fullName,
		PasswordHash: "x",
		Email:        fullName + "@cmt.local",
		FullName:     fullName,
		Role:         role,
		Status:       models.UserActive,
	}
	require.NoError(t, DB.Create(&user).Error)
	return user
}

func TestSplitEngineers(t *testing.T) {
	assert.Nil(t, SplitEngineers(""))
	assert.Nil(t, SplitEngineers(models.UnassignedEngineer))
	assert.Equal(t, []string{"Jane Doe"}, SplitEngineers("Jane Doe"))
	assert.Equal(t, []string{"Jane Doe", "John Smith"}, SplitEngineers("Jane Doe, John Smith"))
	assert.Equal(t, []string{"Jane Doe"}, SplitEngineers("Jane Doe, "))
}

func TestTruncateDescription(t *testing.T) {
	assert.Equal(t, "short", truncateDescription("short", 50))
	assert.Equal(t, "abcde", truncateDescription("abcdefgh", 5))

	// 30 two-byte runes; byte 51 lands mid-rune, so the cut backs up to 50
	accented := strings.Repeat("é", 30)
	got := truncateDescription(accented, 51)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", 25), got)
}

func TestNotifyTaskCreated(t *testing.T) {
	setupTestDB(t)

	jane := seedUser(t, "Jane Doe", models.RoleEngineer)
	seedUser(t, "John Smith", models.RoleEngineer)

	task := models.Task{
		Description:      "Check fixture alignment on line 2",
		AssignedEngineer: "Jane Doe, Nobody Known",
		Status:           models.StatusPending,
		CreatedBy:        jane.ID,
	}
	task.ID = 11

	written := NotifyTaskCreated(&task)
	assert.Equal(t, 1, written, "only known users receive notifications")

	var notifications []models.Notification
	require.NoError(t, DB.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, jane.ID, notifications[0].UserID)
	assert.Contains(t, notifications[0].Message, "New task assigned to you")
	assert.Contains(t, notifications[0].Message, "TC-11")
	assert.False(t, notifications[0].IsRead)
}

func TestNotifyTaskCreatedUnassigned(t *testing.T) {
	setupTestDB(t)
	seedUser(t, "Jane Doe", models.RoleEngineer)

	task := models.Task{Description: "d", AssignedEngineer: models.UnassignedEngineer}
	assert.Equal(t, 0, NotifyTaskCreated(&task))

	var count int64
	require.NoError(t, DB.Model(&models.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestNotifyStatusChangedExcludesActor(t *testing.T) {
	setupTestDB(t)

	jane := seedUser(t, "Jane Doe", models.RoleEngineer)
	john := seedUser(t, "John Smith", models.RoleEngineer)
	creator := seedUser(t, "Carl Creator", models.RoleCustomerPersonnel)

	task := models.Task{
		Description:      "d",
		AssignedEngineer: "Jane Doe, John Smith",
		Status:           models.StatusInProgress,
		CreatedBy:        creator.ID,
	}
	task.ID = 21

	// Jane is the actor: John and the creator get notified, Jane does not.
	written := NotifyStatusChanged(&task, jane.ID, "Jane Doe")
	assert.Equal(t, 2, written)

	var notifications []models.Notification
	require.NoError(t, DB.Order("user_id").Find(&notifications).Error)
	require.Len(t, notifications, 2)

	recipients := []uint{notifications[0].UserID, notifications[1].UserID}
	assert.Contains(t, recipients, john.ID)
	assert.Contains(t, recipients, creator.ID)
	assert.NotContains(t, recipients, jane.ID)
	assert.Contains(t, notifications[0].Message, "status changed to InProgress by Jane Doe")
}

func TestNotifyStatusChangedActorIsCreator(t *testing.T) {
	setupTestDB(t)

	creator := seedUser(t, "Carl Creator", models.RoleTeamLeader)

	task := models.Task{
		Description:      "d",
		AssignedEngineer: models.UnassignedEngineer,
		Status:           models.StatusBlocked,
		CreatedBy:        creator.ID,
	}
	task.ID = 22

	assert.Equal(t, 0, NotifyStatusChanged(&task, creator.ID, "Carl Creator"))
}

func TestRecomputeMetrics(t *testing.T) {
	setupTestDB(t)

	jane := seedUser(t, "Jane Doe", models.RoleEngineer)

	category := models.TaskCategory{Name: "Machining"}
	require.NoError(t, DB.Create(&category).Error)
	priority := models.TaskPriorityLevel{LevelName: "High", OrderRank: 1}
	require.NoError(t, DB.Create(&priority).Error)

	target := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	actual := target.Add(48 * time.Hour) // two days late

	tasks := []models.Task{
		{Description: "a", AssignedEngineer: "Jane Doe", Status: models.StatusCompleted,
			TargetCompletionDate: &target, ActualCompletionDate: &actual, CreatedBy: jane.ID, CategoryID: category.ID, PriorityID: priority.ID},
		{Description: "b", AssignedEngineer: "Jane Doe", Status: models.StatusInProgress,
			CreatedBy: jane.ID, CategoryID: category.ID, PriorityID: priority.ID},
		{Description: "c", AssignedEngineer: "Jane Doe", Status: models.StatusCancelled,
			CreatedBy: jane.ID, CategoryID: category.ID, PriorityID: priority.ID},
	}
	for i := range tasks {
		require.NoError(t, DB.Create(&tasks[i]).Error)
	}

	RecomputeMetrics(jane.ID)

	var metrics models.PerformanceMetrics
	require.NoError(t, DB.First(&metrics, "user_id = ?", jane.ID).Error)
	assert.Equal(t, 1, metrics.TasksCompleted)
	assert.Equal(t, 1, metrics.PendingTasksCount, "cancelled tasks count in neither bucket")
	assert.InDelta(t, 1.0/3.0, metrics.CompletionRate, 1e-9)
	assert.InDelta(t, 2.0, metrics.AvgDelayDays, 1e-9)
	assert.False(t, metrics.LastUpdated.IsZero())
}
