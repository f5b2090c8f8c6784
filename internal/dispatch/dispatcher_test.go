// internal/dispatch/dispatcher_test.go
package dispatch

import (
	"context"
	"testing"

	"voice-assistant/internal/common/logger"
	"voice-assistant/internal/executors"
	"voice-assistant/internal/models"
	"voice-assistant/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Fixture
// ==========================

// stubClassifier returns canned results and counts invocations.
type stubClassifier struct {
	results map[string]models.IntentResult
	calls   int
}

func (s *stubClassifier) Classify(ctx context.Context, text, callerID string) models.IntentResult {
	s.calls++
	if result, ok := s.results[text]; ok {
		return result
	}
	return models.IntentResult{
		Intent:     models.IntentUnknown,
		Entity:     text,
		Confidence: 0.3,
		Source:     models.SourceRuleBased,
	}
}

type fixture struct {
	dispatcher *Dispatcher
	classifier *stubClassifier
	stores     store.Stores
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	classifier := &stubClassifier{results: map[string]models.IntentResult{}}
	stores := store.NewMemoryStores().Bundle()
	log := logger.NewTestLogger(t)

	dispatcher := New(
		classifier,
		executors.NewTodoExecutor(stores.Todos, log),
		executors.NewNoteExecutor(stores.Notes, log),
		executors.NewAssignedExecutor(stores.Assigned, nil, log),
		executors.NewBlockedExecutor(stores.Blocked, log),
		nil,
		log,
	)
	return &fixture{dispatcher: dispatcher, classifier: classifier, stores: stores}
}

func (f *fixture) expect(text string, result models.IntentResult) {
	f.classifier.results[text] = result
}

func aiResult(intent models.Intent, entity, assignedTo, reason string) models.IntentResult {
	return models.IntentResult{
		Intent:     intent,
		Entity:     entity,
		AssignedTo: assignedTo,
		Reason:     reason,
		Confidence: 0.95,
		Source:     models.SourceAI,
	}
}

// ==========================
// End-to-End Scenarios
// ==========================

func TestHandle_CreateTodo(t *testing.T) {
	f := newFixture(t)
	f.expect("Create a todo to buy milk", aiResult(models.IntentCreateTodo, "buy milk", "", ""))

	resp := f.dispatcher.Handle(context.Background(), "Create a todo to buy milk", "u1")

	assert.True(t, resp.Success)
	assert.Equal(t, "CREATE_TODO", resp.Intent)
	assert.Equal(t, `Created todo: "buy milk"`, resp.Response)
	assert.Equal(t, "Create a todo to buy milk", resp.Transcription)
	assert.True(t, resp.AIGenerated)
	assert.Equal(t, 0.95, resp.Confidence)
	assert.NotNil(t, resp.Data)
}

func TestHandle_ShowTodosEmpty(t *testing.T) {
	f := newFixture(t)
	f.expect("Show my todos", aiResult(models.IntentShowTodos, "", "", ""))

	resp := f.dispatcher.Handle(context.Background(), "Show my todos", "u1")

	assert.True(t, resp.Success)
	assert.Equal(t, "SHOW_TODOS", resp.Intent)
	assert.Equal(t, "You have no todo items", resp.Response)
	require.NotNil(t, resp.Count)
	assert.Equal(t, 0, *resp.Count)
}

func TestHandle_ShowTodosListsInCreationOrder(t *testing.T) {
	f := newFixture(t)
	f.expect("first", aiResult(models.IntentCreateTodo, "buy milk", "", ""))
	f.expect("second", aiResult(models.IntentCreateTodo, "walk the dog", "", ""))
	f.expect("Show my todos", aiResult(models.IntentShowTodos, "", "", ""))

	ctx := context.Background()
	f.dispatcher.Handle(ctx, "first", "u1")
	f.dispatcher.Handle(ctx, "second", "u1")

	resp := f.dispatcher.Handle(ctx, "Show my todos", "u1")

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Count)
	assert.Equal(t, 2, *resp.Count)
	assert.Equal(t, []string{"buy milk", "walk the dog"}, resp.TodoList)
	assert.Contains(t, resp.Response, "1. buy milk")
	assert.Contains(t, resp.Response, "2. walk the dog")
}

func TestHandle_AssignTask(t *testing.T) {
	f := newFixture(t)
	f.expect("Assign task API testing to Arjun", aiResult(models.IntentAssignTask, "API testing", "Arjun", ""))

	resp := f.dispatcher.Handle(context.Background(), "Assign task API testing to Arjun", "u1")

	assert.True(t, resp.Success)
	assert.Equal(t, `Assigned task "API testing" to Arjun`, resp.Response)

	tasks, err := f.stores.Assigned.Query(context.Background(), models.AssignedTaskFilter{AssignedTo: "arjun"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "u1", tasks[0].AssignedBy)
	assert.Equal(t, "Arjun", tasks[0].AssignedTo)
	assert.Equal(t, "API testing", tasks[0].TaskDescription)
	assert.Equal(t, models.StatusPending, tasks[0].Status)
}

func TestHandle_MarkBlocked(t *testing.T) {
	f := newFixture(t)
	transcript := "Mark the task fix login API as blocked because API is not responding"
	f.expect(transcript, aiResult(models.IntentMarkBlocked, "fix login API", "", "API is not responding"))

	resp := f.dispatcher.Handle(context.Background(), transcript, "u1")
	assert.True(t, resp.Success)
	assert.Contains(t, resp.Response, "Marked task")

	// Second identical request reuses the existing record.
	resp = f.dispatcher.Handle(context.Background(), transcript, "u1")
	assert.True(t, resp.Success)
	assert.Contains(t, resp.Response, "already marked as blocked")

	tasks, err := f.stores.Blocked.Query(context.Background(), models.BlockedTaskFilter{UserID: "u1"})
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, "API is not responding", tasks[0].Reason)
}

func TestHandle_MissingCallerSkipsClassifier(t *testing.T) {
	f := newFixture(t)

	resp := f.dispatcher.Handle(context.Background(), "Create a todo to buy milk", "")

	assert.False(t, resp.Success)
	assert.Equal(t, "MISSING_CALLER", resp.Error)
	assert.Equal(t, 0, f.classifier.calls)
}

// ==========================
// Validation Tests
// ==========================

func TestHandle_MissingFieldPrompts(t *testing.T) {
	tests := []struct {
		name           string
		result         models.IntentResult
		expectedPrompt string
	}{
		{
			name:           "create todo without entity",
			result:         aiResult(models.IntentCreateTodo, "", "", ""),
			expectedPrompt: "Please specify what todo item you want to create",
		},
		{
			name:           "complete todo without entity",
			result:         aiResult(models.IntentCompleteTodo, "", "", ""),
			expectedPrompt: "Please specify which todo item you completed",
		},
		{
			name:           "assign task without assignee",
			result:         aiResult(models.IntentAssignTask, "API testing", "", ""),
			expectedPrompt: "Please specify who you want to assign the task to",
		},
		{
			name:           "mark blocked without reason",
			result:         aiResult(models.IntentMarkBlocked, "fix login API", "", ""),
			expectedPrompt: "Please specify why the task is blocked",
		},
		{
			name:           "unblock without entity",
			result:         aiResult(models.IntentUnblockTask, "", "", ""),
			expectedPrompt: "Please specify which task you want to unblock",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.expect("something", tt.result)

			resp := f.dispatcher.Handle(context.Background(), "something", "u1")

			assert.False(t, resp.Success)
			assert.Equal(t, tt.expectedPrompt, resp.Message)
			assert.Equal(t, "something", resp.Transcription)
			assert.True(t, resp.AIGenerated)

			// No executor ran, so nothing was stored.
			todos, err := f.stores.Todos.ListByUser(context.Background(), "u1")
			require.NoError(t, err)
			assert.Empty(t, todos)
		})
	}
}

// ==========================
// Fuzzy and Catch-All Paths
// ==========================

func TestHandle_CompleteTodoSuggestions(t *testing.T) {
	f := newFixture(t)
	f.expect("add", aiResult(models.IntentCreateTodo, "fix login API", "", ""))
	f.expect("done", aiResult(models.IntentCompleteTodo, "fix nonexistent", "", ""))

	ctx := context.Background()
	f.dispatcher.Handle(ctx, "add", "u1")

	resp := f.dispatcher.Handle(ctx, "done", "u1")

	assert.False(t, resp.Success)
	assert.Equal(t, []string{"fix login API"}, resp.Suggestions)
	assert.Contains(t, resp.Response, "Did you mean")
}

func TestHandle_HelpCarriesCommandCatalog(t *testing.T) {
	f := newFixture(t)
	f.expect("help", models.IntentResult{Intent: models.IntentHelp, Confidence: 0.8, Source: models.SourceRuleBased})

	resp := f.dispatcher.Handle(context.Background(), "help", "u1")

	assert.True(t, resp.Success)
	assert.Equal(t, availableCommands, resp.AvailableCommands)
	assert.False(t, resp.AIGenerated)
}

func TestHandle_OtherEchoesEntity(t *testing.T) {
	f := newFixture(t)
	f.expect("tell me a joke", aiResult(models.IntentOther, "tell me a joke", "", ""))

	resp := f.dispatcher.Handle(context.Background(), "tell me a joke", "u1")

	assert.True(t, resp.Success)
	assert.Equal(t, "tell me a joke", resp.Response)
}

func TestHandle_UnknownEchoesTranscript(t *testing.T) {
	f := newFixture(t)

	resp := f.dispatcher.Handle(context.Background(), "flibbertigibbet", "u1")

	assert.True(t, resp.Success)
	assert.Equal(t, "UNKNOWN", resp.Intent)
	assert.Contains(t, resp.Response, `"flibbertigibbet"`)
}
