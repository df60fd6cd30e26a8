package models

type Section string

const (
	SectionNone    Section = ""
	SectionProject Section = "project"
)

// FlowStep is the position inside a task form's fixed step sequence.
type FlowStep int

const (
	StepDescription FlowStep = iota
	StepStatus
	StepAssignees
	StepNotes
)

func (s FlowStep) String() string {
	switch s {
	case StepDescription:
		return "description"
	case StepStatus:
		return "status"
	case StepAssignees:
		return "assignees"
	case StepNotes:
		return "notes"
	}
	return "unknown"
}

// Flow is the tagged variant for a session's in-flight form. A session
// holds either nil or exactly one of AddTaskFlow, EditTaskFlow,
// EditProjectFieldFlow.
type Flow interface {
	flow()
	// Kind names the flow for logs.
	Kind() string
}

// TaskForm carries the state shared by the add-task and edit-task flows:
// the current step and the fields collected so far.
type TaskForm struct {
	ProjectID   string
	Step        FlowStep
	Description string
	Status      TaskStatus
	Selected    []string // working set while Step == StepAssignees
	Assignees   []string // frozen copy, set by ConfirmAssignees
	Notes       string
}

// Toggle adds the name to the working selection if absent, removes it if
// present. Insertion order is preserved.
func (f *TaskForm) Toggle(name string) {
	for i, have := range f.Selected {
		if have == name {
			f.Selected = append(f.Selected[:i], f.Selected[i+1:]...)
			return
		}
	}
	f.Selected = append(f.Selected, name)
}

// IsSelected reports whether the name is in the working selection.
func (f *TaskForm) IsSelected(name string) bool {
	for _, have := range f.Selected {
		if have == name {
			return true
		}
	}
	return false
}

// ConfirmAssignees freezes the working selection into the form's assignee
// value and advances to the notes step. An empty selection is allowed and
// yields an empty assignee cell.
func (f *TaskForm) ConfirmAssignees() {
	f.Assignees = append([]string(nil), f.Selected...)
	f.Step = StepNotes
}

// Task builds the record the form has collected.
func (f *TaskForm) Task() Task {
	return Task{
		ProjectID:   f.ProjectID,
		Description: f.Description,
		Status:      string(f.Status),
		Assignees:   f.Assignees,
		Notes:       f.Notes,
	}
}

// AddTaskFlow appends a new task to the target project on finalize.
type AddTaskFlow struct {
	TaskForm
}

func (*AddTaskFlow) flow() {}
func (*AddTaskFlow) Kind() string { return "add_task" }

// EditTaskFlow rewrites an existing task row on finalize. Row is the sheet
// row resolved when the flow started.
type EditTaskFlow struct {
	TaskForm
	Row int
}

func (*EditTaskFlow) flow() {}
func (*EditTaskFlow) Kind() string { return "edit_task" }

// EditProjectFieldFlow updates exactly one project column on finalize.
// Single-step: the next valid input (text or button, depending on Field)
// completes it.
type EditProjectFieldFlow struct {
	ProjectID string
	Field     ProjectField
}

func (*EditProjectFieldFlow) flow() {}
func (f *EditProjectFieldFlow) Kind() string { return "edit_project_" + string(f.Field) }

// Session is the per-chat conversational state.
type Session struct {
	ChatID  int64
	Section Section
	Flow    Flow
}
