package services

import (
	"testing"

	"tracker-bot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTasksByProjectCarriesRowNumbers(t *testing.T) {
	repo := newFakeRepo()
	repo.data["Tasks!A2:E1000"] = [][]string{
		{"P1", "Fix login bug", "In Progress", "Jonathan", ""},
		{"P2", "Other project task", "Done", "", ""},
		{"P1", "Write docs", "Not Done", "Stefan, Denys", "draft"},
	}

	tasks, err := NewTaskService(repo).GetTasksByProject("P1")
	require.NoError(t, err)

	require.Len(t, tasks, 2)
	assert.Equal(t, 2, tasks[0].Row)
	assert.Equal(t, 4, tasks[1].Row)
	assert.Equal(t, []string{"Stefan", "Denys"}, tasks[1].Assignees)
}

func TestCreateTaskAppendsFullRow(t *testing.T) {
	repo := newFakeRepo()
	svc := NewTaskService(repo)

	err := svc.CreateTask(models.Task{
		ProjectID:   "P1",
		Description: "Fix login bug",
		Status:      "In Progress",
		Assignees:   []string{"Jonathan"},
	})
	require.NoError(t, err)

	require.Len(t, repo.appends, 1)
	assert.Equal(t, "Tasks!A:E", repo.appends[0].appendRange)
	assert.Equal(t, []string{"P1", "Fix login bug", "In Progress", "Jonathan", ""}, repo.appends[0].row)
}

func TestUpdateTaskLeavesProjectColumnAlone(t *testing.T) {
	repo := newFakeRepo()
	svc := NewTaskService(repo)

	err := svc.UpdateTask(models.Task{
		ProjectID:   "P1",
		Description: "Fix login bug",
		Status:      "Done",
		Assignees:   []string{"Jonathan", "Stefan"},
		Notes:       "verified",
		Row:         5,
	})
	require.NoError(t, err)

	require.Len(t, repo.updates, 1)
	assert.Equal(t, "Tasks!B5:E5", repo.updates[0].updateRange)
	assert.Equal(t, [][]string{{"Fix login bug", "Done", "Jonathan, Stefan", "verified"}}, repo.updates[0].values)
}

func TestUpdateTaskRejectsUnresolvedRow(t *testing.T) {
	repo := newFakeRepo()
	err := NewTaskService(repo).UpdateTask(models.Task{Row: 0})

	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.Empty(t, repo.updates)
}
