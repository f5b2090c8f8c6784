// Package dispatch is the voice orchestrator: it takes a transcript plus
// caller identity, classifies it, validates the fields the intent requires,
// runs the matching executor and assembles the uniform response envelope.
// Every outcome, including failures, leaves as a well-formed envelope.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	stderrors "voice-assistant/internal/common/errors"
	"voice-assistant/internal/common/logger"
	"voice-assistant/internal/common/metrics"
	"voice-assistant/internal/common/observability"
	"voice-assistant/internal/executors"
	"voice-assistant/internal/models"
)

// VoiceResponse is the envelope returned for every dispatched transcript.
type VoiceResponse struct {
	Success           bool        `json:"success"`
	Intent            string      `json:"intent"`
	Transcription     string      `json:"transcription"`
	Response          string      `json:"response"`
	Data              interface{} `json:"data,omitempty"`
	Suggestions       []string    `json:"suggestions,omitempty"`
	Count             *int        `json:"count,omitempty"`
	TodoList          []string    `json:"todoList,omitempty"`
	AvailableCommands []string    `json:"availableCommands,omitempty"`
	AIGenerated       bool        `json:"aiGenerated"`
	Confidence        float64     `json:"confidence"`
	Error             string      `json:"error,omitempty"`
	Message           string      `json:"message,omitempty"`
}

// Classifier is the slice of the intent classifier the dispatcher needs.
type Classifier interface {
	Classify(ctx context.Context, text, callerID string) models.IntentResult
}

// Dispatcher coordinates classification and execution for one transcript.
type Dispatcher struct {
	classifier Classifier
	todos      *executors.TodoExecutor
	notes      *executors.NoteExecutor
	assigned   *executors.AssignedExecutor
	blocked    *executors.BlockedExecutor
	obs        *observability.Observability
	log        logger.Logger
}

func New(classifier Classifier, todos *executors.TodoExecutor, notes *executors.NoteExecutor,
	assigned *executors.AssignedExecutor, blocked *executors.BlockedExecutor,
	obs *observability.Observability, log logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Dispatcher{
		classifier: classifier,
		todos:      todos,
		notes:      notes,
		assigned:   assigned,
		blocked:    blocked,
		obs:        obs,
		log:        log,
	}
}

// Handle runs the full pipeline for one transcript. The caller identity is
// checked before anything else; the classifier is never invoked without it.
func (d *Dispatcher) Handle(ctx context.Context, transcript, callerID string) VoiceResponse {
	if strings.TrimSpace(callerID) == "" {
		return VoiceResponse{
			Success:       false,
			Transcription: transcript,
			Response:      "Caller identity is required",
			Error:         string(stderrors.ErrCodeMissingCaller),
			Message:       "Caller identity is required",
		}
	}

	start := time.Now()
	result := d.classifier.Classify(ctx, transcript, callerID)

	resp := d.dispatch(ctx, transcript, callerID, result)

	elapsed := time.Since(start)
	outcome := "ok"
	if !resp.Success {
		outcome = "error"
	}
	metrics.DispatchesTotal.WithLabelValues(string(result.Intent), outcome).Inc()
	metrics.DispatchDuration.WithLabelValues(string(result.Intent)).Observe(elapsed.Seconds())
	if d.obs != nil {
		d.obs.RecordRequestProcessed(ctx, string(result.Intent), resp.Success)
		d.obs.RecordRequestDuration(ctx, elapsed, string(result.Intent))
	}
	d.log.Info("transcript dispatched", map[string]interface{}{
		"caller_id":  callerID,
		"intent":     string(result.Intent),
		"success":    resp.Success,
		"source":     string(result.Source),
		"elapsed_ms": elapsed.Milliseconds(),
	})
	return resp
}

func (d *Dispatcher) dispatch(ctx context.Context, transcript, callerID string, result models.IntentResult) VoiceResponse {
	if prompt := missingFieldPrompt(result); prompt != "" {
		resp := d.envelope(transcript, result)
		resp.Success = false
		resp.Response = prompt
		resp.Message = prompt
		return resp
	}

	switch result.Intent {
	case models.IntentCreateTodo:
		return d.createTodo(ctx, transcript, callerID, result)
	case models.IntentShowTodos:
		return d.showTodos(ctx, transcript, callerID, result)
	case models.IntentCompleteTodo:
		return d.completeTodo(ctx, transcript, callerID, result)
	case models.IntentCreateNote:
		return d.createNote(ctx, transcript, callerID, result)
	case models.IntentShowNotes:
		return d.showNotes(ctx, transcript, callerID, result)
	case models.IntentDeleteNote:
		return d.deleteNote(ctx, transcript, callerID, result)
	case models.IntentAssignTask:
		return d.assignTask(ctx, transcript, callerID, result)
	case models.IntentShowAssignedTo:
		return d.showAssignedTo(ctx, transcript, result)
	case models.IntentMarkBlocked:
		return d.markBlocked(ctx, transcript, callerID, result)
	case models.IntentShowBlocked:
		return d.showBlocked(ctx, transcript, callerID, result)
	case models.IntentUnblockTask:
		return d.unblockTask(ctx, transcript, callerID, result)
	case models.IntentHelp:
		resp := d.success(transcript, result, helpResponse)
		resp.AvailableCommands = availableCommands
		return resp
	case models.IntentOther:
		text := strings.TrimSpace(result.Entity)
		if text == "" {
			text = otherResponse
		}
		return d.success(transcript, result, text)
	default:
		return d.success(transcript, result, renderUnknown(transcript))
	}
}

// missingFieldPrompt returns the field-specific prompt for an intent whose
// required fields are absent, or "" when the intent can be executed.
func missingFieldPrompt(result models.IntentResult) string {
	entity := strings.TrimSpace(result.Entity) != ""
	assignedTo := strings.TrimSpace(result.AssignedTo) != ""
	reason := strings.TrimSpace(result.Reason) != ""

	switch result.Intent {
	case models.IntentCreateTodo:
		if !entity {
			return "Please specify what todo item you want to create"
		}
	case models.IntentCompleteTodo:
		if !entity {
			return "Please specify which todo item you completed"
		}
	case models.IntentCreateNote:
		if !entity {
			return "Please specify what note you want to create"
		}
	case models.IntentDeleteNote:
		if !entity {
			return "Please specify which note you want to delete"
		}
	case models.IntentAssignTask:
		if !entity {
			return "Please specify what task you want to assign"
		}
		if !assignedTo {
			return "Please specify who you want to assign the task to"
		}
	case models.IntentShowAssignedTo:
		if !assignedTo {
			return "Please specify whose tasks you want to see"
		}
	case models.IntentMarkBlocked:
		if !entity {
			return "Please specify which task is blocked"
		}
		if !reason {
			return "Please specify why the task is blocked"
		}
	case models.IntentUnblockTask:
		if !entity {
			return "Please specify which task you want to unblock"
		}
	}
	return ""
}

// --- Per-intent handlers ---

func (d *Dispatcher) createTodo(ctx context.Context, transcript, callerID string, result models.IntentResult) VoiceResponse {
	item, err := d.todos.Create(ctx, callerID, result.Entity)
	if err != nil {
		return d.failure(transcript, result, err)
	}
	resp := d.success(transcript, result, fmt.Sprintf("Created todo: %q", item.Text))
	resp.Data = item
	return resp
}

func (d *Dispatcher) showTodos(ctx context.Context, transcript, callerID string, result models.IntentResult) VoiceResponse {
	items, err := d.todos.List(ctx, callerID)
	if err != nil {
		return d.failure(transcript, result, err)
	}
	resp := d.success(transcript, result, renderTodoList(items))
	resp.Data = items
	resp.TodoList = todoTexts(items)
	count := len(items)
	resp.Count = &count
	return resp
}

func (d *Dispatcher) completeTodo(ctx context.Context, transcript, callerID string, result models.IntentResult) VoiceResponse {
	outcome, err := d.todos.Complete(ctx, callerID, result.Entity)
	if err != nil {
		return d.failure(transcript, result, err)
	}
	if outcome.Completed != nil {
		resp := d.success(transcript, result, fmt.Sprintf("Completed todo: %q", outcome.Completed.Text))
		resp.Data = outcome.Completed
		return resp
	}
	suggestions := todoTexts(outcome.Suggestions)
	resp := d.envelope(transcript, result)
	resp.Success = false
	resp.Response = renderNoMatch("todo", result.Entity, suggestions)
	resp.Message = resp.Response
	resp.Suggestions = suggestions
	return resp
}

func (d *Dispatcher) createNote(ctx context.Context, transcript, callerID string, result models.IntentResult) VoiceResponse {
	item, err := d.notes.Create(ctx, callerID, result.Entity)
	if err != nil {
		return d.failure(transcript, result, err)
	}
	resp := d.success(transcript, result, fmt.Sprintf("Created note: %q", item.Text))
	resp.Data = item
	return resp
}

func (d *Dispatcher) showNotes(ctx context.Context, transcript, callerID string, result models.IntentResult) VoiceResponse {
	items, err := d.notes.List(ctx, callerID)
	if err != nil {
		return d.failure(transcript, result, err)
	}
	resp := d.success(transcript, result, renderNoteList(items))
	resp.Data = items
	count := len(items)
	resp.Count = &count
	return resp
}

func (d *Dispatcher) deleteNote(ctx context.Context, transcript, callerID string, result models.IntentResult) VoiceResponse {
	outcome, err := d.notes.Delete(ctx, callerID, result.Entity)
	if err != nil {
		return d.failure(transcript, result, err)
	}
	if outcome.Deleted != nil {
		resp := d.success(transcript, result, fmt.Sprintf("Deleted note: %q", outcome.Deleted.Text))
		resp.Data = outcome.Deleted
		return resp
	}
	suggestions := noteTexts(outcome.Suggestions)
	resp := d.envelope(transcript, result)
	resp.Success = false
	resp.Response = renderNoMatch("note", result.Entity, suggestions)
	resp.Message = resp.Response
	resp.Suggestions = suggestions
	return resp
}

func (d *Dispatcher) assignTask(ctx context.Context, transcript, callerID string, result models.IntentResult) VoiceResponse {
	task, err := d.assigned.Assign(ctx, callerID, result.AssignedTo, result.Entity)
	if err != nil {
		return d.failure(transcript, result, err)
	}
	resp := d.success(transcript, result, fmt.Sprintf("Assigned task %q to %s", task.TaskDescription, task.AssignedTo))
	resp.Data = task
	return resp
}

func (d *Dispatcher) showAssignedTo(ctx context.Context, transcript string, result models.IntentResult) VoiceResponse {
	tasks, err := d.assigned.Query(ctx, models.AssignedTaskFilter{AssignedTo: result.AssignedTo})
	if err != nil {
		return d.failure(transcript, result, err)
	}
	resp := d.success(transcript, result, renderAssignedList(result.AssignedTo, tasks))
	resp.Data = tasks
	count := len(tasks)
	resp.Count = &count
	return resp
}

func (d *Dispatcher) markBlocked(ctx context.Context, transcript, callerID string, result models.IntentResult) VoiceResponse {
	task, alreadyBlocked, err := d.blocked.MarkBlocked(ctx, callerID, result.Entity, result.Reason)
	if err != nil {
		return d.failure(transcript, result, err)
	}
	text := fmt.Sprintf("Marked task %q as blocked: %s", task.TaskTitle, task.Reason)
	if alreadyBlocked {
		text = fmt.Sprintf("Task %q is already marked as blocked", task.TaskTitle)
	}
	resp := d.success(transcript, result, text)
	resp.Data = task
	return resp
}

func (d *Dispatcher) showBlocked(ctx context.Context, transcript, callerID string, result models.IntentResult) VoiceResponse {
	tasks, err := d.blocked.List(ctx, callerID)
	if err != nil {
		return d.failure(transcript, result, err)
	}
	resp := d.success(transcript, result, renderBlockedList(tasks))
	resp.Data = tasks
	count := len(tasks)
	resp.Count = &count
	return resp
}

func (d *Dispatcher) unblockTask(ctx context.Context, transcript, callerID string, result models.IntentResult) VoiceResponse {
	outcome, err := d.blocked.Unblock(ctx, callerID, result.Entity)
	if err != nil {
		return d.failure(transcript, result, err)
	}
	switch {
	case outcome.Unblocked != nil:
		resp := d.success(transcript, result, fmt.Sprintf("Unblocked task: %q", outcome.Unblocked.TaskTitle))
		resp.Data = outcome.Unblocked
		return resp
	case outcome.AlreadyUnblocked != nil:
		resp := d.success(transcript, result, fmt.Sprintf("Task %q is already unblocked", outcome.AlreadyUnblocked.TaskTitle))
		resp.Data = outcome.AlreadyUnblocked
		return resp
	default:
		suggestions := blockedTitles(outcome.Suggestions)
		resp := d.envelope(transcript, result)
		resp.Success = false
		resp.Response = renderNoMatch("blocked task", result.Entity, suggestions)
		resp.Message = resp.Response
		resp.Suggestions = suggestions
		return resp
	}
}

// --- Envelope helpers ---

func (d *Dispatcher) envelope(transcript string, result models.IntentResult) VoiceResponse {
	return VoiceResponse{
		Intent:        string(result.Intent),
		Transcription: transcript,
		AIGenerated:   result.AIGenerated(),
		Confidence:    result.Confidence,
	}
}

func (d *Dispatcher) success(transcript string, result models.IntentResult, response string) VoiceResponse {
	resp := d.envelope(transcript, result)
	resp.Success = true
	resp.Response = response
	return resp
}

func (d *Dispatcher) failure(transcript string, result models.IntentResult, err error) VoiceResponse {
	resp := d.envelope(transcript, result)
	resp.Success = false
	resp.Response = "Something went wrong handling that request"
	resp.Message = err.Error()

	var stdErr *stderrors.StandardError
	if errors.As(err, &stdErr) {
		resp.Error = string(stdErr.Code)
		resp.Message = stdErr.Message
	}
	return resp
}
