// internal/intent/rules.go
package intent

import (
	"regexp"
	"strings"

	"voice-assistant/internal/models"
)

// Rule-path confidence is fixed: keyword rules cannot grade match quality,
// so every hit reports the same score.
const (
	ruleConfidence    = 0.7
	helpConfidence    = 0.8
	unknownConfidence = 0.3
)

var (
	createTodoStripRe = regexp.MustCompile(`^(create|add)\s+(me\s+)?(an?\s+)?(todo|task|reminder)(\s+(to|called|for))?\s*`)
	createVerbStripRe = regexp.MustCompile(`^(create|add)\s*`)
	completeStripRes  = []*regexp.Regexp{
		regexp.MustCompile(`completed?\s*`),
		regexp.MustCompile(`done\s*(with)?\s*`),
		regexp.MustCompile(`finished?\s*`),
		regexp.MustCompile(`complete\s*`),
		regexp.MustCompile(`task\s*`),
		regexp.MustCompile(`todo\s*`),
		regexp.MustCompile(`this\s*`),
	}
	createNoteStripRe  = regexp.MustCompile(`^(create|add|make)\s*(me\s+)?(a\s+)?note\s*(called|about)?\s*`)
	deleteNoteStripRe  = regexp.MustCompile(`^(delete|remove)\s*(the\s+)?note\s*`)
	assignRe           = regexp.MustCompile(`(assign|give)\s*(task)?\s*(.+?)\s+to\s+(.+)`)
	assignedToRe       = regexp.MustCompile(`assigned\s+to\s+(my\s+name\s+)?(.+)`)
	markBlockedRe      = regexp.MustCompile(`mark\s+(the\s+)?task\s+(.+?)\s+as\s+(blocked|stuck)\s+because\s+(.+)`)
	markBlockedShortRe = regexp.MustCompile(`mark\s+task\s+(.+?)\s+(blocked|stuck)\s+because\s+(.+)`)
	unblockRe          = regexp.MustCompile(`unblock\s+(the\s+)?task\s+(.+)`)
)

// ClassifyRuleBased is the deterministic lexical fallback. It applies an
// ordered sequence of keyword tests; the first rule whose gate and pattern
// both hold wins. Extraction here is best-effort word stripping, not a
// faithful parse. This is the degraded-mode path used when the AI classifier
// is unavailable.
func ClassifyRuleBased(text string) models.IntentResult {
	lower := strings.ToLower(text)

	// 1. Create todo
	if containsAny(lower, "create", "add") && containsAny(lower, "todo", "task", "reminder") &&
		!containsAny(lower, "note") {
		entity := strings.TrimSpace(createTodoStripRe.ReplaceAllString(lower, ""))
		if entity == "" || entity == lower {
			entity = strings.TrimSpace(createVerbStripRe.ReplaceAllString(lower, ""))
		}
		return ruleResult(models.IntentCreateTodo, entity, "", "")
	}

	// 2. Complete todo
	if containsAny(lower, "completed", "done", "finished", "complete") && !strings.Contains(lower, "create") {
		entity := lower
		for _, re := range completeStripRes {
			entity = re.ReplaceAllString(entity, "")
		}
		return ruleResult(models.IntentCompleteTodo, strings.TrimSpace(entity), "", "")
	}

	// 3. Show todos
	if containsAny(lower, "show", "list", "get", "see") && containsAny(lower, "todo", "task", "reminder") &&
		!strings.Contains(lower, "assigned") && !containsAny(lower, "blocked", "stuck") {
		return ruleResult(models.IntentShowTodos, "", "", "")
	}

	// 4. Create note
	if containsAny(lower, "create", "add", "make") && strings.Contains(lower, "note") {
		entity := strings.TrimSpace(createNoteStripRe.ReplaceAllString(lower, ""))
		return ruleResult(models.IntentCreateNote, entity, "", "")
	}

	// 5. Show notes
	if containsAny(lower, "show", "list", "get", "fetch", "see") && strings.Contains(lower, "note") {
		return ruleResult(models.IntentShowNotes, "", "", "")
	}

	// 6. Delete note
	if containsAny(lower, "delete", "remove") && strings.Contains(lower, "note") {
		entity := strings.TrimSpace(deleteNoteStripRe.ReplaceAllString(lower, ""))
		return ruleResult(models.IntentDeleteNote, entity, "", "")
	}

	// 7. Assign task: both captures are required, otherwise evaluation
	// continues with the rules below. "assigned" belongs to rule 8; without
	// the exclusion the assign pattern would eat "show tasks assigned to X".
	if containsAny(lower, "assign", "give") && containsAny(lower, "task", "to") &&
		!strings.Contains(lower, "assigned") {
		if m := assignRe.FindStringSubmatch(lower); m != nil {
			return ruleResult(models.IntentAssignTask, strings.TrimSpace(m[3]), strings.TrimSpace(m[4]), "")
		}
	}

	// 8. Show tasks assigned to a person
	if containsAny(lower, "show", "list", "get", "fetch") && strings.Contains(lower, "assigned") &&
		strings.Contains(lower, "to") {
		if m := assignedToRe.FindStringSubmatch(lower); m != nil {
			return ruleResult(models.IntentShowAssignedTo, "", strings.TrimSpace(m[2]), "")
		}
	}

	// 9. Mark task blocked
	if containsAny(lower, "mark", "set") && strings.Contains(lower, "task") &&
		containsAny(lower, "blocked", "stuck") && containsAny(lower, "because", "as") {
		if m := markBlockedRe.FindStringSubmatch(lower); m != nil {
			return ruleResult(models.IntentMarkBlocked, strings.TrimSpace(m[2]), "", strings.TrimSpace(m[4]))
		}
		if m := markBlockedShortRe.FindStringSubmatch(lower); m != nil {
			return ruleResult(models.IntentMarkBlocked, strings.TrimSpace(m[1]), "", strings.TrimSpace(m[3]))
		}
	}

	// 10. Show blocked tasks
	if containsAny(lower, "show", "list", "get", "fetch") && containsAny(lower, "blocked", "stuck") &&
		strings.Contains(lower, "task") {
		return ruleResult(models.IntentShowBlocked, "", "", "")
	}

	// 11. Unblock task
	if strings.Contains(lower, "unblock") && strings.Contains(lower, "task") {
		if m := unblockRe.FindStringSubmatch(lower); m != nil {
			return ruleResult(models.IntentUnblockTask, strings.TrimSpace(m[2]), "", "")
		}
	}

	// 12. Help
	if containsAny(lower, "what can", "help", "how") {
		return models.IntentResult{
			Intent:     models.IntentHelp,
			Confidence: helpConfidence,
			Source:     models.SourceRuleBased,
		}
	}

	// 13. Unknown: keep the original text so the caller can echo it back.
	return models.IntentResult{
		Intent:     models.IntentUnknown,
		Entity:     text,
		Confidence: unknownConfidence,
		Source:     models.SourceRuleBased,
	}
}

func ruleResult(in models.Intent, entity, assignedTo, reason string) models.IntentResult {
	return models.IntentResult{
		Intent:     in,
		Entity:     entity,
		AssignedTo: assignedTo,
		Reason:     reason,
		Confidence: ruleConfidence,
		Source:     models.SourceRuleBased,
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
