package services

import (
	"errors"
	"fmt"

	"tracker-bot/logging"
	"tracker-bot/models"
	"tracker-bot/repositories"
)

const (
	projectsReadRange = "Projects!A2:F1000"
	projectsIDRange   = "Projects!A2:A1000"
	projectsNameRange = "Projects!A2:B1000"
)

// ErrProjectNotFound is returned when a project id no longer resolves to a
// row, e.g. after a concurrent rewrite of the sheet.
var ErrProjectNotFound = errors.New("project not found")

type ProjectService struct {
	repo repositories.RecordRepository
}

func NewProjectService(repo repositories.RecordRepository) *ProjectService {
	return &ProjectService{repo: repo}
}

// GetAllProjects returns every listable project, in sheet order. Rows
// without an id or a name are skipped.
func (s *ProjectService) GetAllProjects() ([]models.Project, error) {
	rows, err := s.repo.ReadRange(projectsReadRange)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve projects: %v", err)
	}

	var projects []models.Project
	for _, row := range rows {
		if p, ok := models.ProjectFromRow(row); ok {
			projects = append(projects, p)
		}
	}
	return projects, nil
}

func (s *ProjectService) GetProjectByID(projectID string) (models.Project, error) {
	projects, err := s.GetAllProjects()
	if err != nil {
		return models.Project{}, err
	}
	for _, p := range projects {
		if p.ID == projectID {
			return p, nil
		}
	}
	return models.Project{}, ErrProjectNotFound
}

// findProjectRow resolves the 2-based sheet row holding the project id.
// Always a fresh scan: row numbers are not stable identifiers.
func (s *ProjectService) findProjectRow(projectID string) (int, error) {
	rows, err := s.repo.ReadRange(projectsIDRange)
	if err != nil {
		return 0, fmt.Errorf("failed to scan project ids: %v", err)
	}
	for idx, row := range rows {
		if len(row) > 0 && row[0] == projectID {
			return idx + 2, nil
		}
	}
	return 0, ErrProjectNotFound
}

// UpdateProjectField writes a single value into exactly one column of the
// project's row. No other cell is touched.
func (s *ProjectService) UpdateProjectField(projectID string, field models.ProjectField, value string) error {
	rowNum, err := s.findProjectRow(projectID)
	if err != nil {
		return err
	}

	updateRange := fmt.Sprintf("Projects!%s%d", field.Column(), rowNum)
	if err := s.repo.UpdateRange(updateRange, [][]string{{value}}); err != nil {
		return fmt.Errorf("failed to update project %s: %v", string(field), err)
	}
	return nil
}

// GetProjectName resolves a display name for notifications. Falls back to
// the raw id when the lookup fails so a broken read never blocks a
// broadcast.
func (s *ProjectService) GetProjectName(projectID string) string {
	rows, err := s.repo.ReadRange(projectsNameRange)
	if err != nil {
		logging.Logger.Warnf("Event ID: PROJECT_NAME_LOOKUP_FAILED, Description: Could not resolve name for project %s: %v", projectID, err)
		return fmt.Sprintf("Project ID %s", projectID)
	}
	for _, row := range rows {
		if len(row) >= 1 && row[0] == projectID {
			if len(row) >= 2 {
				return row[1]
			}
			break
		}
	}
	return fmt.Sprintf("Project ID %s", projectID)
}
