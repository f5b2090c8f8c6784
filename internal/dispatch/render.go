// internal/dispatch/render.go
package dispatch

import (
	"fmt"
	"strings"

	"voice-assistant/internal/models"
)

// availableCommands is the spoken-command catalog returned with HELP.
var availableCommands = []string{
	"Create a todo to <task>",
	"Show my todos",
	"Complete <task>",
	"Create a note about <text>",
	"Show my notes",
	"Delete the note about <text>",
	"Assign task <task> to <name>",
	"Show tasks assigned to <name>",
	"Mark the task <task> as blocked because <reason>",
	"Show blocked tasks",
	"Unblock the task <task>",
	"Help",
}

const helpResponse = "I can manage your todos and notes, assign tasks to teammates, and track blocked tasks. Here is everything you can say:"

const otherResponse = "I'm a voice productivity assistant. I can manage todos, notes, task assignments and blocked tasks. Say \"help\" for the full list of commands."

func renderTodoList(items []models.TodoItem) string {
	if len(items) == 0 {
		return "You have no todo items"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You have %d todo %s:", len(items), pluralize("item", len(items)))
	for i, item := range items {
		fmt.Fprintf(&b, " %d. %s", i+1, item.Text)
	}
	return b.String()
}

func renderNoteList(items []models.NoteItem) string {
	if len(items) == 0 {
		return "You have no notes"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You have %d %s:", len(items), pluralize("note", len(items)))
	for i, item := range items {
		fmt.Fprintf(&b, " %d. %s", i+1, item.Text)
	}
	return b.String()
}

func renderAssignedList(name string, tasks []models.AssignedTask) string {
	if len(tasks) == 0 {
		return fmt.Sprintf("No tasks assigned to %s", name)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Tasks assigned to %s:", name)
	for i, task := range tasks {
		fmt.Fprintf(&b, " %d. %s (%s)", i+1, task.TaskDescription, task.Status)
	}
	return b.String()
}

func renderBlockedList(tasks []models.BlockedTask) string {
	if len(tasks) == 0 {
		return "You have no blocked tasks"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You have %d blocked %s:", len(tasks), pluralize("task", len(tasks)))
	for i, task := range tasks {
		fmt.Fprintf(&b, " %d. %s - %s", i+1, task.TaskTitle, task.Reason)
	}
	return b.String()
}

// renderNoMatch builds the "did you mean" response for a failed fuzzy
// resolution.
func renderNoMatch(kind, fragment string, suggestions []string) string {
	if len(suggestions) == 0 {
		return fmt.Sprintf("No %s found matching %q", kind, fragment)
	}
	return fmt.Sprintf("No %s found matching %q. Did you mean: %s?", kind, fragment, strings.Join(suggestions, ", "))
}

func renderUnknown(transcript string) string {
	return fmt.Sprintf("I didn't understand %q. Try saying something like \"Create a todo to buy milk\", or say \"help\" for everything I can do.", transcript)
}

func pluralize(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func todoTexts(items []models.TodoItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Text)
	}
	return out
}

func noteTexts(items []models.NoteItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Text)
	}
	return out
}

func blockedTitles(tasks []models.BlockedTask) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.TaskTitle)
	}
	return out
}
