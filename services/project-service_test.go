package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appendCall struct {
	appendRange string
	row         []string
}

type updateCall struct {
	updateRange string
	values      [][]string
}

// fakeRepo serves canned rows per range and records every write.
type fakeRepo struct {
	data    map[string][][]string
	readErr error
	appends []appendCall
	updates []updateCall

	appendErr error
	updateErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{data: make(map[string][][]string)}
}

func (r *fakeRepo) ReadRange(readRange string) ([][]string, error) {
	if r.readErr != nil {
		return nil, r.readErr
	}
	return r.data[readRange], nil
}

func (r *fakeRepo) AppendRow(appendRange string, row []string) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.appends = append(r.appends, appendCall{appendRange: appendRange, row: row})
	return nil
}

func (r *fakeRepo) UpdateRange(updateRange string, values [][]string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updates = append(r.updates, updateCall{updateRange: updateRange, values: values})
	return nil
}

func TestGetAllProjectsSkipsPartialRows(t *testing.T) {
	repo := newFakeRepo()
	repo.data["Projects!A2:F1000"] = [][]string{
		{"P1", "Apollo", "Denys", "high", "In Progress", ""},
		{"", "orphan"},
		{"P2", "Borealis"},
	}

	projects, err := NewProjectService(repo).GetAllProjects()
	require.NoError(t, err)

	require.Len(t, projects, 2)
	assert.Equal(t, "Apollo", projects[0].Name)
	assert.Equal(t, "Borealis", projects[1].Name)
}

func TestGetProjectByIDNotFound(t *testing.T) {
	repo := newFakeRepo()
	repo.data["Projects!A2:F1000"] = [][]string{{"P1", "Apollo"}}

	_, err := NewProjectService(repo).GetProjectByID("P9")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestUpdateProjectFieldTargetsExactlyOneCell(t *testing.T) {
	repo := newFakeRepo()
	repo.data["Projects!A2:A1000"] = [][]string{{"P1"}, {"P2"}, {"P3"}}

	svc := NewProjectService(repo)
	require.NoError(t, svc.UpdateProjectField("P2", "priority", "High"))

	require.Len(t, repo.updates, 1)
	assert.Equal(t, "Projects!D3", repo.updates[0].updateRange)
	assert.Equal(t, [][]string{{"High"}}, repo.updates[0].values)
	assert.Empty(t, repo.appends)
}

func TestUpdateProjectFieldResolvesRowFreshly(t *testing.T) {
	repo := newFakeRepo()
	repo.data["Projects!A2:A1000"] = [][]string{{"P2"}}

	svc := NewProjectService(repo)
	require.NoError(t, svc.UpdateProjectField("P2", "notes", "check supplier"))
	assert.Equal(t, "Projects!F2", repo.updates[0].updateRange)

	// project moved down a row between edits
	repo.data["Projects!A2:A1000"] = [][]string{{"P1"}, {"P2"}}
	require.NoError(t, svc.UpdateProjectField("P2", "notes", "done"))
	assert.Equal(t, "Projects!F3", repo.updates[1].updateRange)
}

func TestUpdateProjectFieldUnknownID(t *testing.T) {
	repo := newFakeRepo()
	repo.data["Projects!A2:A1000"] = [][]string{{"P1"}}

	err := NewProjectService(repo).UpdateProjectField("P9", "priority", "High")
	assert.ErrorIs(t, err, ErrProjectNotFound)
	assert.Empty(t, repo.updates)
}

func TestGetProjectNameFallsBackToID(t *testing.T) {
	repo := newFakeRepo()
	repo.data["Projects!A2:B1000"] = [][]string{{"P1", "Apollo"}}

	svc := NewProjectService(repo)
	assert.Equal(t, "Apollo", svc.GetProjectName("P1"))
	assert.Equal(t, "Project ID P9", svc.GetProjectName("P9"))

	repo.readErr = errors.New("quota exceeded")
	assert.Equal(t, "Project ID P1", svc.GetProjectName("P1"))
}
