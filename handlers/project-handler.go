package handlers

import (
	"errors"
	"fmt"
	"strings"

	"tracker-bot/logging"
	"tracker-bot/middleware"
	"tracker-bot/models"
	"tracker-bot/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotAPI is the outbound Telegram surface the handlers use: send new
// messages, edit old ones, answer callbacks. *tgbotapi.BotAPI satisfies
// it; tests plug in a fake.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// ProjectHandler covers the stateless browsing side: /start, the section
// menus, the project list and the project detail view.
type ProjectHandler struct {
	api           BotAPI
	sessions      *services.SessionStore
	projects      *services.ProjectService
	tasks         *services.TaskService
	notifications *services.NotificationService
	allowed       map[string]struct{}
}

func NewProjectHandler(api BotAPI, sessions *services.SessionStore, projects *services.ProjectService, tasks *services.TaskService, notifications *services.NotificationService, allowed map[string]struct{}) *ProjectHandler {
	return &ProjectHandler{
		api:           api,
		sessions:      sessions,
		projects:      projects,
		tasks:         tasks,
		notifications: notifications,
		allowed:       allowed,
	}
}

// Start handles /start. It gates inline instead of relying on the auth
// middleware because the outcome also decides membership in the active
// set: authorized chats join it, unauthorized ones are removed.
func (h *ProjectHandler) Start(update tgbotapi.Update) error {
	user := update.SentFrom()
	chatID := update.Message.Chat.ID

	if !middleware.Authorized(user, h.allowed) {
		middleware.Deny(h.api, update)
		h.notifications.Deactivate(chatID)
		return nil
	}

	h.notifications.Activate(chatID)
	logging.Logger.Infof("Event ID: SESSION_ACTIVATED, Description: User @%s started, chat %d is now active", user.UserName, chatID)

	h.sessions.Reset(chatID, models.SectionProject)

	welcome := tgbotapi.NewMessage(chatID, "Welcome to Project Tracking Bot! This bot helps you manage your projects and tasks in Google Sheets.")
	welcome.ReplyMarkup = projectTrackingMenu()
	if _, err := h.api.Send(welcome); err != nil {
		return err
	}

	return h.ListProjects(chatID)
}

// EnterProjectTracking handles the "Project Tracking" reply-menu button.
func (h *ProjectHandler) EnterProjectTracking(update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	h.sessions.SetSection(chatID, models.SectionProject)

	msg := tgbotapi.NewMessage(chatID, "Welcome to Project Tracking!")
	msg.ReplyMarkup = projectTrackingMenu()
	_, err := h.api.Send(msg)
	return err
}

// BackToMain handles the "Back to Main" reply-menu button.
func (h *ProjectHandler) BackToMain(update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	h.sessions.SetSection(chatID, models.SectionNone)

	msg := tgbotapi.NewMessage(chatID, "Returning to main menu.")
	msg.ReplyMarkup = initialMenu()
	_, err := h.api.Send(msg)
	return err
}

// ProjectStatus handles the "Project Status" reply-menu button.
func (h *ProjectHandler) ProjectStatus(update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	h.sessions.SetSection(chatID, models.SectionProject)
	return h.ListProjects(chatID)
}

// ListProjects sends the full project list as one message with an inline
// button per project.
func (h *ProjectHandler) ListProjects(chatID int64) error {
	projects, err := h.projects.GetAllProjects()
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Error listing projects: %v", err))
		msg.ReplyMarkup = projectTrackingMenu()
		h.api.Send(msg)
		return nil
	}

	if len(projects) == 0 {
		msg := tgbotapi.NewMessage(chatID, "No projects found.")
		msg.ReplyMarkup = projectTrackingMenu()
		_, err := h.api.Send(msg)
		return err
	}

	msg := tgbotapi.NewMessage(chatID, "*All Projects:*")
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = projectsKeyboard(projects)
	_, err = h.api.Send(msg)
	return err
}

// ProjectDetail handles projdetail_<id>: renders the project's fields and
// task rollup by editing the tapped message in place.
func (h *ProjectHandler) ProjectDetail(update tgbotapi.Update) error {
	call := update.CallbackQuery
	projectID := strings.SplitN(call.Data, "_", 2)[1]

	project, err := h.projects.GetProjectByID(projectID)
	if errors.Is(err, services.ErrProjectNotFound) {
		h.api.Request(tgbotapi.NewCallback(call.ID, "Project not found."))
		return nil
	}
	if err != nil {
		h.api.Request(tgbotapi.NewCallback(call.ID, fmt.Sprintf("Error retrieving project: %v", err)))
		return nil
	}

	tasks, err := h.tasks.GetTasksByProject(projectID)
	if err != nil {
		h.api.Request(tgbotapi.NewCallback(call.ID, fmt.Sprintf("Error retrieving project: %v", err)))
		return nil
	}

	detail := projectDetailText(project, tasks)

	edit := tgbotapi.NewEditMessageTextAndMarkup(call.Message.Chat.ID, call.Message.MessageID, detail, projectDetailKeyboard(projectID))
	edit.ParseMode = tgbotapi.ModeMarkdown
	if _, err := h.api.Send(edit); err != nil {
		return err
	}
	_, err = h.api.Request(tgbotapi.NewCallback(call.ID, ""))
	return err
}

func projectDetailText(project models.Project, tasks []models.Task) string {
	orPlaceholder := func(v, placeholder string) string {
		if strings.TrimSpace(v) == "" {
			return placeholder
		}
		return v
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("*Project:* %s\n", project.Name))
	b.WriteString(fmt.Sprintf("*Assignee:* %s\n", orPlaceholder(project.Assignee, "Not assigned")))
	b.WriteString(fmt.Sprintf("*Priority:* %s\n", orPlaceholder(project.Priority, "Not set")))
	b.WriteString(fmt.Sprintf("*Status:* %s\n", orPlaceholder(project.Status, "Unknown")))
	b.WriteString(fmt.Sprintf("*Notes:* %s\n\n", orPlaceholder(project.Notes, "No notes")))
	b.WriteString("*Tasks:*\n")

	if len(tasks) == 0 {
		b.WriteString("No tasks found.")
		return b.String()
	}

	lines := make([]string, 0, len(tasks))
	for _, task := range tasks {
		notes := ""
		if strings.TrimSpace(task.Notes) != "" {
			notes = fmt.Sprintf(" (Notes: %s)", task.Notes)
		}
		lines = append(lines, fmt.Sprintf("• %s [%s]%s", orPlaceholder(task.Description, "No description"), orPlaceholder(task.Status, "Not set"), notes))
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

// BackToProjects handles projback.
func (h *ProjectHandler) BackToProjects(update tgbotapi.Update) error {
	call := update.CallbackQuery
	if err := h.ListProjects(call.Message.Chat.ID); err != nil {
		return err
	}
	_, err := h.api.Request(tgbotapi.NewCallback(call.ID, ""))
	return err
}

// EditTasksPicker handles projedit_<id>: lists the project's tasks as
// buttons carrying their freshly resolved row numbers.
func (h *ProjectHandler) EditTasksPicker(update tgbotapi.Update) error {
	call := update.CallbackQuery
	projectID := strings.SplitN(call.Data, "_", 2)[1]

	tasks, err := h.tasks.GetTasksByProject(projectID)
	if err != nil {
		h.api.Request(tgbotapi.NewCallback(call.ID, fmt.Sprintf("Error listing tasks for editing: %v", err)))
		return nil
	}
	if len(tasks) == 0 {
		_, err := h.api.Request(tgbotapi.NewCallback(call.ID, "No tasks to edit for this project."))
		return err
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, task := range tasks {
		desc := task.Description
		if desc == "" {
			desc = "No description"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Edit: "+desc, fmt.Sprintf("edittask_%s_%d", projectID, task.Row)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Back to Project", "projdetail_"+projectID),
	))

	edit := tgbotapi.NewEditMessageTextAndMarkup(call.Message.Chat.ID, call.Message.MessageID, "Select a task to edit:", tgbotapi.NewInlineKeyboardMarkup(rows...))
	if _, err := h.api.Send(edit); err != nil {
		return err
	}
	_, err = h.api.Request(tgbotapi.NewCallback(call.ID, ""))
	return err
}
