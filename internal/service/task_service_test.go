package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskhub-backend/internal/models"
	"taskhub-backend/internal/pagination"
	"taskhub-backend/internal/repository"
	"taskhub-backend/internal/service"
	"taskhub-backend/internal/testutil"
)

func setupTaskService(t *testing.T) (*service.TaskService, *gorm.DB) {
	t.Helper()

	testDB := testutil.SetupTestDatabase(t)
	t.Cleanup(func() { testDB.Teardown(t) })

	return service.NewTaskService(repository.NewTaskRepository(testDB.DB)), testDB.DB
}

func TestTaskService_CreateAndGet(t *testing.T) {
	taskService, db := setupTaskService(t)
	owner := seedUser(t, db, "Ann Lee", "ann", "ann@x.com", models.RoleUser)

	created, err := taskService.Create(owner.ID, service.TaskInput{
		Title:       "  Water plants  ",
		Description: "Kitchen and balcony",
	})
	require.NoError(t, err)
	assert.Equal(t, "Water plants", created.Title, "Title is trimmed")
	assert.Equal(t, owner.ID, created.UserID)

	found, err := taskService.Get(created.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestTaskService_OwnerScoping(t *testing.T) {
	taskService, db := setupTaskService(t)
	owner := seedUser(t, db, "Ann Lee", "ann", "ann@x.com", models.RoleUser)
	other := seedUser(t, db, "Bob Ray", "bob", "bob@x.com", models.RoleUser)

	created, err := taskService.Create(owner.ID, service.TaskInput{Title: "Private"})
	require.NoError(t, err)

	// Another user's task behaves as if it does not exist.
	_, err = taskService.Get(created.ID, other.ID)
	assert.ErrorIs(t, err, service.ErrTaskNotFound)

	_, err = taskService.Update(created.ID, other.ID, service.TaskInput{Title: "Hijacked"})
	assert.ErrorIs(t, err, service.ErrTaskNotFound)

	assert.ErrorIs(t, taskService.Delete(created.ID, other.ID), service.ErrTaskNotFound)

	// The owner still sees the untouched task.
	found, err := taskService.Get(created.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Private", found.Title)
}

func TestTaskService_Validation(t *testing.T) {
	taskService, db := setupTaskService(t)
	owner := seedUser(t, db, "Ann Lee", "ann", "ann@x.com", models.RoleUser)

	var validationErr *service.ValidationError

	_, err := taskService.Create(owner.ID, service.TaskInput{Title: "   "})
	assert.ErrorAs(t, err, &validationErr)

	_, err = taskService.Create(owner.ID, service.TaskInput{Title: "Run", Repeating: true})
	assert.ErrorAs(t, err, &validationErr, "repeating without recurrence")

	_, err = taskService.Create(owner.ID, service.TaskInput{
		Title:      "Run",
		Repeating:  true,
		Recurrence: &models.Recurrence{Type: "fortnightly"},
	})
	assert.ErrorAs(t, err, &validationErr, "unknown recurrence type")

	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := start.Add(-24 * time.Hour)
	_, err = taskService.Create(owner.ID, service.TaskInput{
		Title:     "Trip",
		StartDate: &start,
		EndDate:   &end,
	})
	assert.ErrorAs(t, err, &validationErr, "end before start")
}

func TestTaskService_RecurrenceDefaults(t *testing.T) {
	taskService, db := setupTaskService(t)
	owner := seedUser(t, db, "Ann Lee", "ann", "ann@x.com", models.RoleUser)

	created, err := taskService.Create(owner.ID, service.TaskInput{
		Title:      "Gym",
		Repeating:  true,
		Recurrence: &models.Recurrence{Type: models.RecurrenceWeekly, DaysOfWeek: []string{"monday", "wednesday", "friday"}},
	})
	require.NoError(t, err)
	require.NotNil(t, created.Recurrence)
	assert.Equal(t, 1, created.Recurrence.Interval, "Interval defaults to 1")

	// Turning repeating off drops the recurrence.
	updated, err := taskService.Update(created.ID, owner.ID, service.TaskInput{
		Title:     "Gym",
		Repeating: false,
		Recurrence: &models.Recurrence{
			Type: models.RecurrenceWeekly,
		},
	})
	require.NoError(t, err)
	assert.Nil(t, updated.Recurrence)
}

func TestTaskService_ListAndSearch(t *testing.T) {
	taskService, db := setupTaskService(t)
	owner := seedUser(t, db, "Ann Lee", "ann", "ann@x.com", models.RoleUser)
	other := seedUser(t, db, "Bob Ray", "bob", "bob@x.com", models.RoleUser)

	for _, title := range []string{"Buy groceries", "Water plants", "Plan trip"} {
		_, err := taskService.Create(owner.ID, service.TaskInput{Title: title})
		require.NoError(t, err)
	}
	_, err := taskService.Create(other.ID, service.TaskInput{Title: "Water plants too"})
	require.NoError(t, err)

	tasks, meta, err := taskService.List(owner.ID, pagination.Params{Page: 1, Limit: 10, Sort: "-created_at"})
	require.NoError(t, err)
	assert.Len(t, tasks, 3, "Only the owner's tasks are listed")
	assert.Equal(t, int64(3), meta.Total)

	tasks, meta, err = taskService.List(owner.ID, pagination.Params{Page: 1, Limit: 10, Sort: "-created_at", Search: "plan"})
	require.NoError(t, err)
	assert.Len(t, tasks, 2, "Search matches title case-insensitively")
	assert.Equal(t, int64(2), meta.Total)

	tasks, meta, err = taskService.List(owner.ID, pagination.Params{Page: 2, Limit: 2, Sort: "-created_at"})
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, int64(3), meta.Total)
	assert.False(t, meta.HasNextPage)
	assert.True(t, meta.HasPrevPage)
}

func TestTaskService_Delete(t *testing.T) {
	taskService, db := setupTaskService(t)
	owner := seedUser(t, db, "Ann Lee", "ann", "ann@x.com", models.RoleUser)

	created, err := taskService.Create(owner.ID, service.TaskInput{Title: "Temporary"})
	require.NoError(t, err)

	require.NoError(t, taskService.Delete(created.ID, owner.ID))

	_, err = taskService.Get(created.ID, owner.ID)
	assert.ErrorIs(t, err, service.ErrTaskNotFound)

	assert.ErrorIs(t, taskService.Delete(created.ID, owner.ID), service.ErrTaskNotFound)
}
