package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tracker-bot/logging"
	"tracker-bot/models"
	"tracker-bot/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// FlowHandler is the form engine. It drives one multi-step flow per
// session: starters install a flow, Text and Callback advance it step by
// step, finalize commits the collected fields in a single repository write
// and always clears the flow afterwards.
type FlowHandler struct {
	api           BotAPI
	sessions      *services.SessionStore
	projects      *services.ProjectService
	tasks         *services.TaskService
	notifications *services.NotificationService
	roster        []string
}

func NewFlowHandler(api BotAPI, sessions *services.SessionStore, projects *services.ProjectService, tasks *services.TaskService, notifications *services.NotificationService, roster []string) *FlowHandler {
	return &FlowHandler{
		api:           api,
		sessions:      sessions,
		projects:      projects,
		tasks:         tasks,
		notifications: notifications,
		roster:        roster,
	}
}

// ---- flow starters ----

// StartAddTask handles projadd_<projectID>.
func (h *FlowHandler) StartAddTask(update tgbotapi.Update) error {
	call := update.CallbackQuery
	chatID := call.Message.Chat.ID
	projectID := strings.SplitN(call.Data, "_", 2)[1]

	h.sessions.BeginFlow(chatID, &models.AddTaskFlow{TaskForm: models.TaskForm{
		ProjectID: projectID,
		Step:      models.StepDescription,
	}})

	h.api.Request(tgbotapi.NewCallback(call.ID, "Let's add a new task."))
	_, err := h.api.Send(tgbotapi.NewMessage(chatID, "Enter new task Description:"))
	return err
}

// StartEditTask handles edittask_<projectID>_<row>.
func (h *FlowHandler) StartEditTask(update tgbotapi.Update) error {
	call := update.CallbackQuery
	chatID := call.Message.Chat.ID

	parts := strings.Split(call.Data, "_")
	if len(parts) < 3 {
		_, err := h.api.Request(tgbotapi.NewCallback(call.ID, "Invalid edit task callback."))
		return err
	}
	row, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || row < 2 {
		_, err := h.api.Request(tgbotapi.NewCallback(call.ID, "Invalid edit task callback."))
		return err
	}
	projectID := strings.Join(parts[1:len(parts)-1], "_")

	h.sessions.BeginFlow(chatID, &models.EditTaskFlow{
		TaskForm: models.TaskForm{ProjectID: projectID, Step: models.StepDescription},
		Row:      row,
	})

	h.api.Request(tgbotapi.NewCallback(call.ID, "Editing task."))
	_, err = h.api.Send(tgbotapi.NewMessage(chatID, "Enter new task Description:"))
	return err
}

// StartEditProjectField handles proj_edit<field>_<projectID> for all four
// single-step project flows.
func (h *FlowHandler) StartEditProjectField(update tgbotapi.Update) error {
	call := update.CallbackQuery
	chatID := call.Message.Chat.ID

	parts := strings.SplitN(call.Data, "_", 3)
	if len(parts) < 3 {
		_, err := h.api.Request(tgbotapi.NewCallback(call.ID, "Invalid callback."))
		return err
	}
	projectID := parts[2]

	var field models.ProjectField
	switch parts[1] {
	case "editnotes":
		field = models.FieldNotes
	case "editpriority":
		field = models.FieldPriority
	case "editstatus":
		field = models.FieldStatus
	case "editassignee":
		field = models.FieldAssignee
	default:
		_, err := h.api.Request(tgbotapi.NewCallback(call.ID, "Invalid callback."))
		return err
	}

	h.sessions.BeginFlow(chatID, &models.EditProjectFieldFlow{ProjectID: projectID, Field: field})

	switch field {
	case models.FieldNotes:
		h.api.Request(tgbotapi.NewCallback(call.ID, "Enter new project notes:"))
		_, err := h.api.Send(tgbotapi.NewMessage(chatID, "Please enter new project notes:"))
		return err
	case models.FieldPriority:
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, call.Message.MessageID, "Select new project priority:", priorityKeyboard())
		if _, err := h.api.Send(edit); err != nil {
			return err
		}
	case models.FieldStatus:
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, call.Message.MessageID, "Select new project status:", projectStatusKeyboard())
		if _, err := h.api.Send(edit); err != nil {
			return err
		}
	case models.FieldAssignee:
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, call.Message.MessageID, "Select new project assignee:", selectAssigneeKeyboard(h.roster))
		if _, err := h.api.Send(edit); err != nil {
			return err
		}
	}
	_, err := h.api.Request(tgbotapi.NewCallback(call.ID, ""))
	return err
}

// ---- routing predicates ----

// WantsText reports whether the chat's active flow expects free text right
// now. Free-text messages reach the form engine only via this check; all
// other text falls through to the menu handlers.
func (h *FlowHandler) WantsText(chatID int64) bool {
	switch f := h.sessions.ActiveFlow(chatID).(type) {
	case *models.AddTaskFlow:
		return f.Step == models.StepDescription || f.Step == models.StepNotes
	case *models.EditTaskFlow:
		return f.Step == models.StepDescription || f.Step == models.StepNotes
	case *models.EditProjectFieldFlow:
		return f.Field == models.FieldNotes
	}
	return false
}

// WantsCallback reports whether the payload belongs to the active
// flow+step's choice namespace. Non-matching callbacks fall through to the
// stateless handlers.
func (h *FlowHandler) WantsCallback(chatID int64, data string) bool {
	switch f := h.sessions.ActiveFlow(chatID).(type) {
	case *models.AddTaskFlow:
		return taskFormWants(&f.TaskForm, data)
	case *models.EditTaskFlow:
		return taskFormWants(&f.TaskForm, data)
	case *models.EditProjectFieldFlow:
		switch f.Field {
		case models.FieldPriority:
			return strings.HasPrefix(data, "priority_")
		case models.FieldStatus:
			return strings.HasPrefix(data, "status_")
		case models.FieldAssignee:
			return strings.HasPrefix(data, "select_assignee_")
		}
	}
	return false
}

func taskFormWants(form *models.TaskForm, data string) bool {
	switch form.Step {
	case models.StepStatus:
		return strings.HasPrefix(data, "task_status_")
	case models.StepAssignees:
		return strings.HasPrefix(data, "toggle_assignee_") || data == "assignee_confirm"
	case models.StepNotes:
		return data == "notes_none"
	}
	return false
}

// ---- step handlers ----

// Text advances a flow whose current step expects free text. Only called
// after WantsText said yes.
func (h *FlowHandler) Text(update tgbotapi.Update) error {
	msg := update.Message
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)
	username := msg.From.UserName

	switch f := h.sessions.ActiveFlow(chatID).(type) {
	case *models.AddTaskFlow:
		return h.taskFormText(chatID, username, &f.TaskForm, text, false)
	case *models.EditTaskFlow:
		return h.taskFormText(chatID, username, &f.TaskForm, text, true)
	case *models.EditProjectFieldFlow:
		if text == "" {
			_, err := h.api.Send(tgbotapi.NewMessage(chatID, "Please enter new project notes:"))
			return err
		}
		return h.finalizeProjectField(chatID, username, f, text)
	}
	return nil
}

func (h *FlowHandler) taskFormText(chatID int64, username string, form *models.TaskForm, text string, editing bool) error {
	switch form.Step {
	case models.StepDescription:
		if text == "" {
			// step stays put until the actor gives a usable value
			_, err := h.api.Send(tgbotapi.NewMessage(chatID, "Enter new task Description:"))
			return err
		}
		form.Description = text
		form.Step = models.StepStatus

		prompt := "Select task status:"
		if editing {
			prompt = "Select new task status:"
		}
		msg := tgbotapi.NewMessage(chatID, prompt)
		msg.ReplyMarkup = taskStatusKeyboard()
		_, err := h.api.Send(msg)
		return err

	case models.StepNotes:
		form.Notes = text
		return h.finalizeTask(chatID, username)
	}
	return nil
}

// Callback advances a flow whose current step expects a button choice.
// Only called after WantsCallback said yes.
func (h *FlowHandler) Callback(update tgbotapi.Update) error {
	call := update.CallbackQuery
	chatID := call.Message.Chat.ID
	username := call.From.UserName
	data := call.Data

	switch f := h.sessions.ActiveFlow(chatID).(type) {
	case *models.AddTaskFlow:
		return h.taskFormCallback(call, &f.TaskForm, false)
	case *models.EditTaskFlow:
		return h.taskFormCallback(call, &f.TaskForm, true)
	case *models.EditProjectFieldFlow:
		var value string
		switch f.Field {
		case models.FieldPriority:
			value = strings.TrimPrefix(data, "priority_")
		case models.FieldStatus:
			value = strings.TrimPrefix(data, "status_")
		case models.FieldAssignee:
			value = strings.TrimPrefix(data, "select_assignee_")
		}
		if err := h.finalizeProjectField(chatID, username, f, value); err != nil {
			return err
		}
		_, err := h.api.Request(tgbotapi.NewCallback(call.ID, ""))
		return err
	}
	return nil
}

func (h *FlowHandler) taskFormCallback(call *tgbotapi.CallbackQuery, form *models.TaskForm, editing bool) error {
	chatID := call.Message.Chat.ID
	data := call.Data

	switch form.Step {
	case models.StepStatus:
		value := strings.TrimPrefix(data, "task_status_")
		if !validTaskStatus(value) {
			// step not advanced; actor picks again
			_, err := h.api.Request(tgbotapi.NewCallback(call.ID, "Unknown task status."))
			return err
		}
		form.Status = models.TaskStatus(value)
		form.Step = models.StepAssignees
		form.Selected = nil

		prompt := "Select assignee(s) for the task:"
		if editing {
			prompt = "Select new assignee(s) for the task:"
		}
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, call.Message.MessageID, prompt, assigneeKeyboard(form, h.roster))
		if _, err := h.api.Send(edit); err != nil {
			return err
		}
		_, err := h.api.Request(tgbotapi.NewCallback(call.ID, ""))
		return err

	case models.StepAssignees:
		if data == "assignee_confirm" {
			form.ConfirmAssignees()

			prompt := "Enter additional notes for the task (or click 'No Notes'):"
			if editing {
				prompt = "Enter new additional notes (or click 'No Notes'):"
			}
			edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, call.Message.MessageID, prompt, noNotesKeyboard())
			if _, err := h.api.Send(edit); err != nil {
				return err
			}
			_, err := h.api.Request(tgbotapi.NewCallback(call.ID, ""))
			return err
		}

		name := strings.TrimPrefix(data, "toggle_assignee_")
		if !h.onRoster(name) {
			_, err := h.api.Request(tgbotapi.NewCallback(call.ID, "Unknown assignee."))
			return err
		}
		form.Toggle(name)

		edit := tgbotapi.NewEditMessageReplyMarkup(chatID, call.Message.MessageID, assigneeKeyboard(form, h.roster))
		if _, err := h.api.Send(edit); err != nil {
			return err
		}
		_, err := h.api.Request(tgbotapi.NewCallback(call.ID, ""))
		return err

	case models.StepNotes:
		// notes_none
		form.Notes = ""
		if err := h.finalizeTask(chatID, call.From.UserName); err != nil {
			return err
		}
		toast := "Task added with no notes."
		if editing {
			toast = "Task updated with no notes."
		}
		_, err := h.api.Request(tgbotapi.NewCallback(call.ID, toast))
		return err
	}
	return nil
}

func validTaskStatus(value string) bool {
	for _, status := range models.TaskStatuses {
		if string(status) == value {
			return true
		}
	}
	return false
}

func (h *FlowHandler) onRoster(name string) bool {
	for _, have := range h.roster {
		if have == name {
			return true
		}
	}
	return false
}

// ---- finalize ----

// finalizeTask commits the collected task form as a single repository
// write. The flow is cleared whether the write succeeds or not, so a
// failure cannot leave the session stuck or leak fields into a later
// flow; the collected values are lost, which is the accepted tradeoff.
func (h *FlowHandler) finalizeTask(chatID int64, username string) error {
	flow := h.sessions.ActiveFlow(chatID)
	defer h.sessions.ClearFlow(chatID)

	switch f := flow.(type) {
	case *models.AddTaskFlow:
		task := f.Task()
		if err := h.tasks.CreateTask(task); err != nil {
			return h.reply(chatID, fmt.Sprintf("Error adding task: %v", err))
		}
		if err := h.reply(chatID, "Task added successfully."); err != nil {
			return err
		}
		projectName := h.projects.GetProjectName(f.ProjectID)
		h.notifications.Publish(fmt.Sprintf("🔔 @%s added task '%s' to project '%s'", username, task.Description, projectName))

	case *models.EditTaskFlow:
		task := f.Task()
		task.Row = f.Row
		if err := h.tasks.UpdateTask(task); err != nil {
			return h.reply(chatID, fmt.Sprintf("Error updating task: %v", err))
		}
		if err := h.reply(chatID, "Task updated successfully."); err != nil {
			return err
		}
		projectName := h.projects.GetProjectName(f.ProjectID)
		h.notifications.Publish(fmt.Sprintf("🔔 @%s updated task '%s' in project '%s'", username, task.Description, projectName))

	default:
		logging.Logger.Warnf("Event ID: FINALIZE_WITHOUT_FLOW, Description: Chat %d reached task finalize with no task flow", chatID)
	}
	return nil
}

// finalizeProjectField writes exactly one project column, and like the
// task finalize it clears the flow on every outcome.
func (h *FlowHandler) finalizeProjectField(chatID int64, username string, f *models.EditProjectFieldFlow, value string) error {
	defer h.sessions.ClearFlow(chatID)

	if err := h.projects.UpdateProjectField(f.ProjectID, f.Field, value); err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			return h.reply(chatID, "Project ID not found.")
		}
		return h.reply(chatID, fmt.Sprintf("Error updating project: %v", err))
	}

	if err := h.reply(chatID, fmt.Sprintf("Project %s updated.", string(f.Field))); err != nil {
		return err
	}

	projectName := h.projects.GetProjectName(f.ProjectID)
	h.notifications.Publish(fmt.Sprintf("🔔 @%s changed %s of project '%s' to '%s'", username, string(f.Field), projectName, value))
	return nil
}

// reply sends a plain message with the project-tracking menu attached.
func (h *FlowHandler) reply(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = projectTrackingMenu()
	_, err := h.api.Send(msg)
	return err
}
