package models

import "strings"

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
	PriorityUnset  Priority = "Unset"
)

// Icon returns the colored circle shown next to a project in the list.
func (p Priority) Icon() string {
	switch strings.ToLower(string(p)) {
	case "high":
		return "🔴"
	case "medium":
		return "🟡"
	case "low":
		return "🟢"
	default:
		return "⚪"
	}
}

type ProjectStatus string

const (
	ProjectNotStarted ProjectStatus = "Not Started"
	ProjectInProgress ProjectStatus = "In Progress"
	ProjectCompleted  ProjectStatus = "Completed"
	ProjectOnHold     ProjectStatus = "On Hold"
)

// ProjectField names an editable project column.
type ProjectField string

const (
	FieldName     ProjectField = "name"
	FieldAssignee ProjectField = "assignee"
	FieldPriority ProjectField = "priority"
	FieldStatus   ProjectField = "status"
	FieldNotes    ProjectField = "notes"
)

// Column returns the sheet column letter backing the field.
func (f ProjectField) Column() string {
	switch f {
	case FieldName:
		return "B"
	case FieldAssignee:
		return "C"
	case FieldPriority:
		return "D"
	case FieldStatus:
		return "E"
	case FieldNotes:
		return "F"
	}
	return ""
}

// Project mirrors one row of the Projects sheet, columns A through F.
// Row 1 is the header; data rows start at row 2.
type Project struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Assignee string `json:"assignee"`
	Priority string `json:"priority"`
	Status   string `json:"status"`
	Notes    string `json:"notes"`
}

// ProjectFromRow decodes a sheet row. Rows missing an id or a name are not
// listable; callers skip them when ok is false.
func ProjectFromRow(row []string) (Project, bool) {
	if len(row) < 2 || row[0] == "" || row[1] == "" {
		return Project{}, false
	}
	p := Project{ID: row[0], Name: row[1]}
	if len(row) > 2 {
		p.Assignee = row[2]
	}
	if len(row) > 3 {
		p.Priority = row[3]
	}
	if len(row) > 4 {
		p.Status = row[4]
	}
	if len(row) > 5 {
		p.Notes = row[5]
	}
	return p, true
}
