package moderation

import (
	"sort"
	"strings"

	"github.com/havenspace/backend/internal/models"
)

// AnalysisResult is the output of the synchronous analyzer. It is
// recomputed from scratch every time content changes.
type AnalysisResult struct {
	Blocked             bool     `json:"blocked"`
	Flagged             bool     `json:"flagged"`
	RiskLevel           string   `json:"risk_level"`
	NeedsTriggerWarning bool     `json:"needs_trigger_warning"`
	SuggestedTriggers   []string `json:"suggested_triggers,omitempty"`
	Reason              string   `json:"reason,omitempty"`
}

// Analyze classifies plain text against the pattern library. It is
// pure and deterministic: no I/O, no clock, safe to call concurrently.
//
// The blocking cascade is evaluated in priority order with the first
// match winning; the trigger-topic scan runs independently over the
// whole text.
func Analyze(text string) AnalysisResult {
	lower := strings.ToLower(text)
	result := AnalysisResult{RiskLevel: models.RiskNone}

	switch {
	case matchesCompoundCritical(lower):
		result.Blocked = true
		result.RiskLevel = models.RiskCritical
		result.Reason = "method-seeking or quick/painless suicide request"

	case containsAny(lower, suicideMethodPhrases) != "" || containsAny(lower, selfHarmMethodPhrases) != "":
		result.Blocked = true
		result.RiskLevel = models.RiskCritical
		result.Reason = "prohibited suicide or self-harm methods"

	case containsAny(lower, harassmentPhrases) != "":
		if containsAny(lower, criticalHarassmentPhrases) != "" {
			result.Blocked = true
			result.RiskLevel = models.RiskCritical
			result.Reason = "harassment directing self-harm"
		} else {
			result.Flagged = true
			result.RiskLevel = models.RiskHigh
			result.Reason = "harassing or abusive language"
		}

	case containsAny(lower, spamPhrases) != "":
		result.Flagged = true
		result.RiskLevel = models.RiskMedium
		result.Reason = "spam or scam content"

	case containsAny(lower, medicalAdvicePhrases) != "":
		result.Flagged = true
		result.RiskLevel = models.RiskMedium
		result.Reason = "unqualified medical advice"

	case containsAny(lower, highRiskIdeationPhrases) != "":
		result.RiskLevel = models.RiskHigh
		result.Reason = "high-risk ideation"
	}

	// Blocking always implies flagged; high risk flags on its own.
	if result.Blocked || result.RiskLevel == models.RiskHigh {
		result.Flagged = true
	}

	scanTriggerTopics(lower, &result)

	return result
}

// matchesCompoundCritical detects an explicit suicide-intent phrase
// combined with a method-seeking or quick/painless-method phrase, which
// blocks even when neither half matches a critical keyword on its own.
func matchesCompoundCritical(lower string) bool {
	if containsAny(lower, suicideIntentPhrases) == "" {
		return false
	}
	return containsAny(lower, methodSeekingPhrases) != "" ||
		containsAny(lower, painlessMethodPhrases) != ""
}

// scanTriggerTopics checks the whole text against the trigger-topic
// map. Topics already named in an existing trigger-warning prefix are
// considered covered and not re-suggested.
func scanTriggerTopics(lower string, result *AnalysisResult) {
	covered := make(map[string]bool)
	for _, t := range existingTriggerTopics(lower) {
		covered[t] = true
	}

	keys := make([]string, 0, len(triggerTopics))
	for key := range triggerTopics {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		topic := triggerTopics[key]
		if containsAny(lower, topic.Phrases) == "" {
			continue
		}
		if covered[strings.ToLower(topic.DisplayName)] {
			continue
		}
		result.NeedsTriggerWarning = true
		result.SuggestedTriggers = append(result.SuggestedTriggers, topic.DisplayName)
	}
}
