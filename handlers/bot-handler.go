package handlers

import (
	"strings"

	"tracker-bot/logging"
	"tracker-bot/middleware"
	"tracker-bot/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotHandler routes inbound updates. Free text goes to the form engine
// when the session's active flow expects text, otherwise to the menu
// handlers; callbacks go to the form engine when the payload matches the
// active flow+step namespace, otherwise to the stateless handlers by
// prefix. Updates matching nothing are dropped.
type BotHandler struct {
	api      BotAPI
	flows    *FlowHandler
	projects *ProjectHandler

	auth  middleware.Middleware
	rate  middleware.Middleware
	guard middleware.Middleware
}

func NewBotHandler(api BotAPI, sessions *services.SessionStore, projectSvc *services.ProjectService, taskSvc *services.TaskService, notifications *services.NotificationService, allowed map[string]struct{}, limiter *middleware.ActorLimiter, roster []string) *BotHandler {
	return &BotHandler{
		api:      api,
		flows:    NewFlowHandler(api, sessions, projectSvc, taskSvc, notifications, roster),
		projects: NewProjectHandler(api, sessions, projectSvc, taskSvc, notifications, allowed),
		auth:     middleware.Auth(api, allowed),
		rate:     middleware.RateLimit(api, limiter),
		guard:    middleware.ErrorBoundary(api),
	}
}

// Run consumes the update stream until it closes. Updates are handled one
// at a time: flow state is only ever mutated from this loop.
func (h *BotHandler) Run(updates <-chan tgbotapi.Update) {
	logging.Logger.Info("Event ID: DISPATCH_LOOP_STARTED, Description: Update dispatch loop running")
	for update := range updates {
		h.HandleUpdate(update)
	}
}

func (h *BotHandler) HandleUpdate(update tgbotapi.Update) {
	if handler := h.route(update); handler != nil {
		handler(update)
	}
}

func (h *BotHandler) route(update tgbotapi.Update) middleware.HandlerFunc {
	switch {
	case update.Message != nil:
		return h.routeMessage(update.Message)
	case update.CallbackQuery != nil:
		return h.routeCallback(update.CallbackQuery)
	}
	return nil
}

func (h *BotHandler) routeMessage(msg *tgbotapi.Message) middleware.HandlerFunc {
	// /start gates inline so it can manage the active set; no auth
	// middleware in front of it.
	if msg.IsCommand() && msg.Command() == "start" {
		return middleware.Chain(h.projects.Start, h.guard, h.rate)
	}

	if h.flows.WantsText(msg.Chat.ID) {
		return middleware.Chain(h.flows.Text, h.auth, h.guard, h.rate)
	}

	switch strings.TrimSpace(msg.Text) {
	case "Project Tracking":
		return middleware.Chain(h.projects.EnterProjectTracking, h.auth, h.guard, h.rate)
	case "Project Status":
		return middleware.Chain(h.projects.ProjectStatus, h.auth, h.guard, h.rate)
	case "Back to Main":
		return middleware.Chain(h.projects.BackToMain, h.auth, h.guard, h.rate)
	}
	return nil
}

func (h *BotHandler) routeCallback(call *tgbotapi.CallbackQuery) middleware.HandlerFunc {
	if call.Message == nil {
		return nil
	}
	data := call.Data

	if h.flows.WantsCallback(call.Message.Chat.ID, data) {
		return middleware.Chain(h.flows.Callback, h.auth, h.guard)
	}

	switch {
	case strings.HasPrefix(data, "projdetail_"):
		return middleware.Chain(h.projects.ProjectDetail, h.auth, h.guard)
	case data == "projback":
		return middleware.Chain(h.projects.BackToProjects, h.auth, h.guard)
	case strings.HasPrefix(data, "projadd_"):
		return middleware.Chain(h.flows.StartAddTask, h.auth, h.guard)
	case strings.HasPrefix(data, "projedit_"):
		return middleware.Chain(h.projects.EditTasksPicker, h.auth, h.guard)
	case strings.HasPrefix(data, "edittask_"):
		return middleware.Chain(h.flows.StartEditTask, h.auth, h.guard)
	case strings.HasPrefix(data, "proj_editnotes_"),
		strings.HasPrefix(data, "proj_editpriority_"),
		strings.HasPrefix(data, "proj_editstatus_"),
		strings.HasPrefix(data, "proj_editassignee_"):
		return middleware.Chain(h.flows.StartEditProjectField, h.auth, h.guard)
	}
	return nil
}
