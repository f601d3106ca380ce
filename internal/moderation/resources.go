package moderation

import (
	"sort"
	"strings"
)

// CrisisResourcesText is the fixed crisis-resource block. It is
// reproduced verbatim wherever a blocked or high/critical-risk outcome
// is surfaced, so do not reword it casually.
const CrisisResourcesText = `If you are in crisis, please reach out for help right now:
• Call or text 988 (Suicide & Crisis Lifeline, 24/7)
• Text HOME to 741741 (Crisis Text Line)
• If you are in immediate danger, call 911 or go to your nearest emergency room
• Tap "Support Chat" in the app to talk with a trained listener`

// BlockedContentMessage is shown to an author whose submission matched
// a critical pattern. The crisis resources are always appended.
const BlockedContentMessage = "Your post could not be published because it contains content " +
	"that may be harmful to you or others. This community is a place for support, " +
	"and we want to make sure you get the help you deserve."

const triggerWarningMarker = "⚠️ trigger warning:"

// TriggerWarningPrefix formats the warning line prepended to content
// that touches sensitive topics.
func TriggerWarningPrefix(topics []string) string {
	return "⚠️ Trigger Warning: " + strings.Join(topics, ", ") + "\n\n"
}

// existingTriggerTopics extracts the topics already declared in a
// trigger-warning prefix, lower-cased. Returns nil when the text has no
// warning line.
func existingTriggerTopics(text string) []string {
	lower := strings.ToLower(strings.TrimSpace(text))
	if !strings.HasPrefix(lower, triggerWarningMarker) {
		return nil
	}
	line := lower[len(triggerWarningMarker):]
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	var topics []string
	for _, part := range strings.Split(line, ",") {
		if t := strings.TrimSpace(part); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}

// mergeTriggers unions suggested and author-declared trigger topics,
// preserving suggestion order and de-duplicating case-insensitively.
func mergeTriggers(suggested, declared []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range suggested {
		key := strings.ToLower(t)
		if !seen[key] {
			seen[key] = true
			out = append(out, t)
		}
	}
	extra := make([]string, 0, len(declared))
	for _, t := range declared {
		key := strings.ToLower(strings.TrimSpace(t))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		extra = append(extra, strings.TrimSpace(t))
	}
	sort.Strings(extra)
	return append(out, extra...)
}
