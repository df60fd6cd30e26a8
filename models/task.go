package models

import "strings"

type TaskStatus string

const (
	StatusNotDone    TaskStatus = "Not Done"
	StatusInProgress TaskStatus = "In Progress"
	StatusDone       TaskStatus = "Done"
)

// TaskStatuses lists the values offered on the status keyboard, in order.
var TaskStatuses = []TaskStatus{StatusNotDone, StatusInProgress, StatusDone}

// Task mirrors one row of the Tasks sheet, columns A through E. The project
// id in column A is the foreign key; it is never touched by edits.
type Task struct {
	ProjectID   string   `json:"projectId"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Assignees   []string `json:"assignees"`
	Notes       string   `json:"notes"`

	// Row is the 2-based sheet row the task was read from. Row numbers are
	// not stable across writers, so it must be resolved freshly before an
	// in-place edit.
	Row int `json:"row"`
}

// AssigneeCell renders the assignee list the way the sheet stores it.
func (t Task) AssigneeCell() string {
	return strings.Join(t.Assignees, ", ")
}

// SheetRow encodes the task as a full A:E row for appending.
func (t Task) SheetRow() []string {
	return []string{t.ProjectID, t.Description, t.Status, t.AssigneeCell(), t.Notes}
}

// EditRow encodes the editable columns B:E for an in-place update.
func (t Task) EditRow() []string {
	return []string{t.Description, t.Status, t.AssigneeCell(), t.Notes}
}

// TaskFromRow decodes a sheet row read at the given 2-based row number.
func TaskFromRow(row []string, rowNum int) (Task, bool) {
	if len(row) < 1 || row[0] == "" {
		return Task{}, false
	}
	t := Task{ProjectID: row[0], Row: rowNum}
	if len(row) > 1 {
		t.Description = row[1]
	}
	if len(row) > 2 {
		t.Status = row[2]
	}
	if len(row) > 3 && strings.TrimSpace(row[3]) != "" {
		for _, name := range strings.Split(row[3], ",") {
			t.Assignees = append(t.Assignees, strings.TrimSpace(name))
		}
	}
	if len(row) > 4 {
		t.Notes = row[4]
	}
	return t, true
}
