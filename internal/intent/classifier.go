// Package intent turns a raw transcript into a structured IntentResult from
// the closed intent set. The primary path asks a generative backend and
// validates its JSON against a schema; every failure along that path degrades
// to the deterministic rule table, so classification itself never errors.
package intent

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"voice-assistant/internal/common/logger"
	"voice-assistant/internal/common/metrics"
	"voice-assistant/internal/genai"
	"voice-assistant/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	// defaultAIConfidence is assigned when the model omits a confidence score.
	defaultAIConfidence = 0.8

	// Overload retry contract for the AI call.
	aiMaxRetries     = 3
	aiInitialDelay   = 2 * time.Second
	cacheKeyPrefix   = "intent:"
	defaultCacheTTL  = time.Hour
)

// Classifier resolves transcripts to intents. A nil generator puts it
// permanently in rule-based mode; a nil cache disables result caching.
type Classifier struct {
	generator genai.Generator
	cache     *redis.Client
	cacheTTL  time.Duration
	log       logger.Logger
}

func New(generator genai.Generator, cache *redis.Client, cacheTTL time.Duration, log logger.Logger) *Classifier {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Classifier{
		generator: generator,
		cache:     cache,
		cacheTTL:  cacheTTL,
		log:       log,
	}
}

// Classify maps one utterance to an IntentResult. callerID is carried for
// log correlation only; it never influences the classification.
func (c *Classifier) Classify(ctx context.Context, text, callerID string) models.IntentResult {
	if c.generator == nil {
		return c.ruleBased(text)
	}

	key := cacheKey(text)
	if cached, ok := c.cacheGet(ctx, key); ok {
		c.log.Debug("intent cache hit", map[string]interface{}{
			"caller_id": callerID,
			"intent":    string(cached.Intent),
		})
		metrics.ClassificationsTotal.WithLabelValues("cache").Inc()
		return cached
	}

	prompt := BuildPrompt(text)
	raw, err := genai.RetryWithBackoff(ctx, func() (string, error) {
		return c.generator.GenerateText(ctx, prompt)
	}, aiMaxRetries, aiInitialDelay, func() {
		c.log.Warn("ai backend overloaded, retrying classification", map[string]interface{}{
			"caller_id": callerID,
		})
	})
	if err != nil {
		return c.fallback(text, callerID, "backend_error", err)
	}

	sanitized := sanitizeAIResponse(raw)
	if err := validateAIResponse(sanitized); err != nil {
		return c.fallback(text, callerID, "invalid_response", err)
	}

	var payload aiPayload
	if err := json.Unmarshal([]byte(sanitized), &payload); err != nil {
		return c.fallback(text, callerID, "invalid_response", err)
	}

	result := payload.toResult()
	if !result.Intent.Valid() {
		return c.fallback(text, callerID, "unexpected_intent", nil)
	}

	c.cacheSet(ctx, key, result)
	metrics.ClassificationsTotal.WithLabelValues(string(models.SourceAI)).Inc()
	c.log.Info("classified via ai", map[string]interface{}{
		"caller_id":  callerID,
		"intent":     string(result.Intent),
		"confidence": result.Confidence,
	})
	return result
}

// aiPayload is the model's JSON shape. Pointer fields tolerate explicit
// nulls, which the schema permits.
type aiPayload struct {
	Intent     string   `json:"intent"`
	Entity     *string  `json:"entity"`
	AssignedTo *string  `json:"assignedTo"`
	Reason     *string  `json:"reason"`
	Confidence *float64 `json:"confidence"`
}

func (p aiPayload) toResult() models.IntentResult {
	result := models.IntentResult{
		Intent:     models.Intent(p.Intent),
		Confidence: defaultAIConfidence,
		Source:     models.SourceAI,
	}
	if p.Entity != nil {
		result.Entity = strings.TrimSpace(*p.Entity)
	}
	if p.AssignedTo != nil {
		result.AssignedTo = strings.TrimSpace(*p.AssignedTo)
	}
	if p.Reason != nil {
		result.Reason = strings.TrimSpace(*p.Reason)
	}
	if p.Confidence != nil && *p.Confidence > 0 {
		result.Confidence = *p.Confidence
	}
	return result
}

func (c *Classifier) ruleBased(text string) models.IntentResult {
	metrics.ClassificationsTotal.WithLabelValues(string(models.SourceRuleBased)).Inc()
	return ClassifyRuleBased(text)
}

func (c *Classifier) fallback(text, callerID, reason string, cause error) models.IntentResult {
	fields := map[string]interface{}{
		"caller_id": callerID,
		"reason":    reason,
	}
	if cause != nil {
		fields["error"] = cause.Error()
	}
	c.log.Warn("ai classification failed, using rule-based fallback", fields)
	metrics.ClassifierFallbacks.WithLabelValues(reason).Inc()
	return c.ruleBased(text)
}

// sanitizeAIResponse strips markdown code fences, which models add despite
// instructions not to.
func sanitizeAIResponse(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// cacheKey hashes the normalized utterance so arbitrarily long transcripts
// produce fixed-size keys.
func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(text))))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *Classifier) cacheGet(ctx context.Context, key string) (models.IntentResult, bool) {
	if c.cache == nil {
		return models.IntentResult{}, false
	}
	data, err := c.cache.Get(ctx, key).Bytes()
	if err != nil {
		return models.IntentResult{}, false
	}
	var result models.IntentResult
	if err := json.Unmarshal(data, &result); err != nil || !result.Intent.Valid() {
		return models.IntentResult{}, false
	}
	return result, true
}

func (c *Classifier) cacheSet(ctx context.Context, key string, result models.IntentResult) {
	if c.cache == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, data, c.cacheTTL).Err(); err != nil {
		c.log.Debug("intent cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
