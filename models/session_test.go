package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleAddsAndRemoves(t *testing.T) {
	form := &TaskForm{}

	form.Toggle("Jonathan")
	assert.True(t, form.IsSelected("Jonathan"))

	form.Toggle("Jonathan")
	assert.False(t, form.IsSelected("Jonathan"))
	assert.Empty(t, form.Selected)
}

func TestToggleTwiceRestoresOriginalSet(t *testing.T) {
	form := &TaskForm{}
	form.Toggle("Stefan")
	original := append([]string(nil), form.Selected...)

	form.Toggle("Jonathan")
	form.Toggle("Jonathan")

	assert.Equal(t, original, form.Selected)
}

func TestTogglePreservesInsertionOrder(t *testing.T) {
	form := &TaskForm{}
	form.Toggle("Jonathan")
	form.Toggle("Stefan")
	form.Toggle("Denys")
	form.Toggle("Stefan")

	assert.Equal(t, []string{"Jonathan", "Denys"}, form.Selected)
}

func TestConfirmAssigneesFreezesSelectionAndAdvances(t *testing.T) {
	form := &TaskForm{Step: StepAssignees}
	form.Toggle("Jonathan")
	form.Toggle("Stefan")

	form.ConfirmAssignees()

	require.Equal(t, StepNotes, form.Step)
	assert.Equal(t, []string{"Jonathan", "Stefan"}, form.Assignees)

	// later toggles must not reach the frozen value
	form.Toggle("Denys")
	assert.Equal(t, []string{"Jonathan", "Stefan"}, form.Assignees)
}

func TestConfirmEmptySelectionYieldsEmptyCell(t *testing.T) {
	form := &TaskForm{Step: StepAssignees}
	form.ConfirmAssignees()

	assert.Equal(t, StepNotes, form.Step)
	assert.Equal(t, "", form.Task().AssigneeCell())
}

func TestTaskBuildsSheetRow(t *testing.T) {
	form := &TaskForm{
		ProjectID:   "P1",
		Description: "Fix login bug",
		Status:      StatusInProgress,
	}
	form.Toggle("Jonathan")
	form.ConfirmAssignees()

	task := form.Task()
	assert.Equal(t, []string{"P1", "Fix login bug", "In Progress", "Jonathan", ""}, task.SheetRow())
	assert.Equal(t, []string{"Fix login bug", "In Progress", "Jonathan", ""}, task.EditRow())
}

func TestTaskFromRowParsesAssigneeList(t *testing.T) {
	task, ok := TaskFromRow([]string{"P1", "Ship it", "Done", "Jonathan, Stefan", "urgent"}, 4)
	require.True(t, ok)

	assert.Equal(t, 4, task.Row)
	assert.Equal(t, []string{"Jonathan", "Stefan"}, task.Assignees)
	assert.Equal(t, "Jonathan, Stefan", task.AssigneeCell())
}

func TestProjectFromRowSkipsUnlistableRows(t *testing.T) {
	_, ok := ProjectFromRow([]string{"", "Nameless"})
	assert.False(t, ok)

	_, ok = ProjectFromRow([]string{"P1"})
	assert.False(t, ok)

	p, ok := ProjectFromRow([]string{"P1", "Apollo", "Denys", "high"})
	require.True(t, ok)
	assert.Equal(t, "Apollo", p.Name)
	assert.Equal(t, "🔴", Priority(p.Priority).Icon())
}

func TestProjectFieldColumns(t *testing.T) {
	assert.Equal(t, "C", FieldAssignee.Column())
	assert.Equal(t, "D", FieldPriority.Column())
	assert.Equal(t, "E", FieldStatus.Column())
	assert.Equal(t, "F", FieldNotes.Column())
}
