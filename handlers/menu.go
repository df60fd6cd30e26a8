package handlers

import (
	"fmt"

	"tracker-bot/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func initialMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton("Project Tracking")),
	)
}

func projectTrackingMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton("Project Status")),
	)
}

func projectsKeyboard(projects []models.Project) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, p := range projects {
		label := fmt.Sprintf("%s %s", models.Priority(p.Priority).Icon(), p.Name)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "projdetail_"+p.ID),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func projectDetailKeyboard(projectID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Add Task", "projadd_"+projectID),
			tgbotapi.NewInlineKeyboardButtonData("Edit Tasks", "projedit_"+projectID),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Add Notes", "proj_editnotes_"+projectID),
			tgbotapi.NewInlineKeyboardButtonData("Change Priority", "proj_editpriority_"+projectID),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Change Status", "proj_editstatus_"+projectID),
			tgbotapi.NewInlineKeyboardButtonData("Change Assignee", "proj_editassignee_"+projectID),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Back to Projects", "projback"),
		),
	)
}

func taskStatusKeyboard() tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(models.TaskStatuses))
	for _, status := range models.TaskStatuses {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(string(status), "task_status_"+string(status)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// assigneeKeyboard renders the multi-select toggle board: one button per
// roster name marked ✅ or ❌, plus a confirm row. The board is edited in
// place on every toggle.
func assigneeKeyboard(form *models.TaskForm, roster []string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, name := range roster {
		mark := "❌"
		if form.IsSelected(name) {
			mark = "✅"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s %s", mark, name), "toggle_assignee_"+name),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✓ Confirm Selection", "assignee_confirm"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func noNotesKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("No Notes", "notes_none"),
		),
	)
}

func priorityKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("High 🔴", "priority_High"),
			tgbotapi.NewInlineKeyboardButtonData("Medium 🟡", "priority_Medium"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Low 🟢", "priority_Low"),
			tgbotapi.NewInlineKeyboardButtonData("Unset ⚪", "priority_Unset"),
		),
	)
}

func projectStatusKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Not Started", "status_Not Started"),
			tgbotapi.NewInlineKeyboardButtonData("In Progress", "status_In Progress"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Completed", "status_Completed"),
			tgbotapi.NewInlineKeyboardButtonData("On Hold", "status_On Hold"),
		),
	)
}

func selectAssigneeKeyboard(roster []string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, name := range roster {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(name, "select_assignee_"+name),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
