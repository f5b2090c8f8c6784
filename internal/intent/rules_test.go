// internal/intent/rules_test.go
package intent

import (
	"testing"

	"voice-assistant/internal/models"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Rule Table Tests
// ==========================

func TestClassifyRuleBased_IntentTable(t *testing.T) {
	tests := []struct {
		name               string
		text               string
		expectedIntent     models.Intent
		expectedEntity     string
		expectedAssignedTo string
		expectedReason     string
		expectedConfidence float64
	}{
		{
			name:               "create todo with noun phrase",
			text:               "Create todo buy milk",
			expectedIntent:     models.IntentCreateTodo,
			expectedEntity:     "buy milk",
			expectedConfidence: 0.7,
		},
		{
			name:               "create todo with article and filler",
			text:               "Create a todo to buy milk",
			expectedIntent:     models.IntentCreateTodo,
			expectedEntity:     "buy milk",
			expectedConfidence: 0.7,
		},
		{
			name:               "add reminder",
			text:               "Add a reminder to call mom",
			expectedIntent:     models.IntentCreateTodo,
			expectedEntity:     "call mom",
			expectedConfidence: 0.7,
		},
		{
			name:               "complete todo",
			text:               "I completed the grocery shopping",
			expectedIntent:     models.IntentCompleteTodo,
			expectedEntity:     "i the grocery shopping",
			expectedConfidence: 0.7,
		},
		{
			name:               "show todos",
			text:               "Show my todos",
			expectedIntent:     models.IntentShowTodos,
			expectedConfidence: 0.7,
		},
		{
			name:               "list tasks",
			text:               "List my tasks please",
			expectedIntent:     models.IntentShowTodos,
			expectedConfidence: 0.7,
		},
		{
			name:               "create note",
			text:               "Create a note about the wifi password",
			expectedIntent:     models.IntentCreateNote,
			expectedEntity:     "the wifi password",
			expectedConfidence: 0.7,
		},
		{
			name:               "show notes",
			text:               "Show my notes",
			expectedIntent:     models.IntentShowNotes,
			expectedConfidence: 0.7,
		},
		{
			name:               "delete note",
			text:               "Delete the note about parking",
			expectedIntent:     models.IntentDeleteNote,
			expectedEntity:     "about parking",
			expectedConfidence: 0.7,
		},
		{
			name:               "assign task",
			text:               "Assign task API testing to Arjun",
			expectedIntent:     models.IntentAssignTask,
			expectedEntity:     "api testing",
			expectedAssignedTo: "arjun",
			expectedConfidence: 0.7,
		},
		{
			name:               "show assigned to",
			text:               "Show tasks assigned to Priya",
			expectedIntent:     models.IntentShowAssignedTo,
			expectedAssignedTo: "priya",
			expectedConfidence: 0.7,
		},
		{
			name:               "mark blocked with reason",
			text:               "Mark the task fix login API as blocked because API is not responding",
			expectedIntent:     models.IntentMarkBlocked,
			expectedEntity:     "fix login api",
			expectedReason:     "api is not responding",
			expectedConfidence: 0.7,
		},
		{
			name:               "show blocked",
			text:               "Show my blocked tasks",
			expectedIntent:     models.IntentShowBlocked,
			expectedConfidence: 0.7,
		},
		{
			name:               "unblock task",
			text:               "Unblock the task fix login API",
			expectedIntent:     models.IntentUnblockTask,
			expectedEntity:     "fix login api",
			expectedConfidence: 0.7,
		},
		{
			name:               "help",
			text:               "What can you do",
			expectedIntent:     models.IntentHelp,
			expectedConfidence: 0.8,
		},
		{
			name:               "unknown keeps original text",
			text:               "Sing me a song",
			expectedIntent:     models.IntentUnknown,
			expectedEntity:     "Sing me a song",
			expectedConfidence: 0.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClassifyRuleBased(tt.text)

			assert.Equal(t, tt.expectedIntent, result.Intent)
			assert.Equal(t, tt.expectedEntity, result.Entity)
			assert.Equal(t, tt.expectedAssignedTo, result.AssignedTo)
			assert.Equal(t, tt.expectedReason, result.Reason)
			assert.Equal(t, tt.expectedConfidence, result.Confidence)
			assert.Equal(t, models.SourceRuleBased, result.Source)
		})
	}
}

func TestClassifyRuleBased_RuleOrdering(t *testing.T) {
	// "Show" contains "how", so HELP must only win when nothing earlier did.
	result := ClassifyRuleBased("Show my todos")
	assert.Equal(t, models.IntentShowTodos, result.Intent)

	// "note" in a create phrase must beat the todo rule.
	result = ClassifyRuleBased("Add a note about task deadlines")
	assert.Equal(t, models.IntentCreateNote, result.Intent)

	// "done" with "create" in the same utterance is a create, not a complete.
	result = ClassifyRuleBased("Create a todo to get this done")
	assert.Equal(t, models.IntentCreateTodo, result.Intent)
}

func TestClassifyRuleBased_ClosedSetProperty(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"banana",
		"assign to",
		"mark task as blocked",
		"unblock everything",
		"{}{}{}",
		"create",
		"show",
	}

	for _, text := range inputs {
		result := ClassifyRuleBased(text)
		assert.True(t, result.Intent.Valid(), "intent %q for input %q is outside the closed set", result.Intent, text)
	}
}
