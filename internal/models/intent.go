// internal/models/intent.go
package models

// Intent is the closed-set classification of what action an utterance requests.
type Intent string

const (
	IntentCreateTodo     Intent = "CREATE_TODO"
	IntentShowTodos      Intent = "SHOW_TODOS"
	IntentCompleteTodo   Intent = "COMPLETE_TODO"
	IntentCreateNote     Intent = "CREATE_NOTE"
	IntentShowNotes      Intent = "SHOW_NOTES"
	IntentDeleteNote     Intent = "DELETE_NOTE"
	IntentAssignTask     Intent = "ASSIGN_TASK"
	IntentShowAssignedTo Intent = "SHOW_ASSIGNED_TO"
	IntentMarkBlocked    Intent = "MARK_BLOCKED"
	IntentShowBlocked    Intent = "SHOW_BLOCKED"
	IntentUnblockTask    Intent = "UNBLOCK_TASK"
	IntentHelp           Intent = "HELP"
	IntentOther          Intent = "OTHER"
	IntentUnknown        Intent = "UNKNOWN"
)

// AllIntents lists every member of the closed intent set.
var AllIntents = []Intent{
	IntentCreateTodo, IntentShowTodos, IntentCompleteTodo,
	IntentCreateNote, IntentShowNotes, IntentDeleteNote,
	IntentAssignTask, IntentShowAssignedTo,
	IntentMarkBlocked, IntentShowBlocked, IntentUnblockTask,
	IntentHelp, IntentOther, IntentUnknown,
}

// Valid reports whether the intent is a member of the closed set.
func (i Intent) Valid() bool {
	switch i {
	case IntentCreateTodo, IntentShowTodos, IntentCompleteTodo,
		IntentCreateNote, IntentShowNotes, IntentDeleteNote,
		IntentAssignTask, IntentShowAssignedTo,
		IntentMarkBlocked, IntentShowBlocked, IntentUnblockTask,
		IntentHelp, IntentOther, IntentUnknown:
		return true
	}
	return false
}

// Source flags where an IntentResult came from.
type Source string

const (
	SourceAI        Source = "AI"
	SourceRuleBased Source = "RULE_BASED"
)

// IntentResult is the structured output of classification. Intent is always
// a member of the closed set; unrecognized classifier output degrades to
// IntentUnknown before it leaves the classifier.
type IntentResult struct {
	Intent     Intent  `json:"intent"`
	Entity     string  `json:"entity,omitempty"`
	AssignedTo string  `json:"assignedTo,omitempty"`
	Reason     string  `json:"reason,omitempty"`
	Confidence float64 `json:"confidence"`
	Source     Source  `json:"source"`
}

// AIGenerated reports whether the result came from the AI path.
func (r IntentResult) AIGenerated() bool {
	return r.Source == SourceAI
}
