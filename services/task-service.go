package services

import (
	"errors"
	"fmt"

	"tracker-bot/models"
	"tracker-bot/repositories"
)

const (
	tasksReadRange   = "Tasks!A2:E1000"
	tasksAppendRange = "Tasks!A:E"
)

var ErrTaskNotFound = errors.New("task not found")

type TaskService struct {
	repo repositories.RecordRepository
}

func NewTaskService(repo repositories.RecordRepository) *TaskService {
	return &TaskService{repo: repo}
}

// GetTasksByProject returns the project's tasks with their current sheet
// row numbers. Callers that edit in place must use the returned rows
// immediately; they go stale as soon as another writer appends.
func (s *TaskService) GetTasksByProject(projectID string) ([]models.Task, error) {
	rows, err := s.repo.ReadRange(tasksReadRange)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %v", err)
	}

	var tasks []models.Task
	for idx, row := range rows {
		task, ok := models.TaskFromRow(row, idx+2)
		if !ok || task.ProjectID != projectID {
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// CreateTask appends the task as a new row at the bottom of the Tasks
// sheet.
func (s *TaskService) CreateTask(task models.Task) error {
	if err := s.repo.AppendRow(tasksAppendRange, task.SheetRow()); err != nil {
		return fmt.Errorf("failed to create task: %v", err)
	}
	return nil
}

// UpdateTask rewrites columns B:E of the task's row. Column A, the project
// id, is left untouched.
func (s *TaskService) UpdateTask(task models.Task) error {
	if task.Row < 2 {
		return fmt.Errorf("invalid task row %d: %w", task.Row, ErrTaskNotFound)
	}
	updateRange := fmt.Sprintf("Tasks!B%d:E%d", task.Row, task.Row)
	if err := s.repo.UpdateRange(updateRange, [][]string{task.EditRow()}); err != nil {
		return fmt.Errorf("failed to update task: %v", err)
	}
	return nil
}
