package moderation

import (
	"reflect"
	"testing"

	"github.com/havenspace/backend/internal/models"
)

func TestAnalyzeCascade(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		blocked   bool
		flagged   bool
		riskLevel string
	}{
		{
			name:      "neutral content",
			text:      "Had a really good day at work today, feeling proud of myself",
			blocked:   false,
			flagged:   false,
			riskLevel: models.RiskNone,
		},
		{
			name:      "suicide method keyword",
			text:      "Does anyone know how to kill myself without anyone noticing",
			blocked:   true,
			flagged:   true,
			riskLevel: models.RiskCritical,
		},
		{
			name:      "self-harm method keyword",
			text:      "Looking up how deep to cut before it gets dangerous",
			blocked:   true,
			flagged:   true,
			riskLevel: models.RiskCritical,
		},
		{
			name:      "compound intent plus method seeking",
			text:      "I want to end my life. What's the best way to do it?",
			blocked:   true,
			flagged:   true,
			riskLevel: models.RiskCritical,
		},
		{
			name:      "compound intent plus painless",
			text:      "I want to die, something painless please",
			blocked:   true,
			flagged:   true,
			riskLevel: models.RiskCritical,
		},
		{
			name:      "ideation alone is not blocked",
			text:      "I feel hopeless today and nothing seems to help",
			blocked:   false,
			flagged:   true,
			riskLevel: models.RiskHigh,
		},
		{
			name:      "case insensitive matching",
			text:      "I FEEL HOPELESS today",
			blocked:   false,
			flagged:   true,
			riskLevel: models.RiskHigh,
		},
		{
			name:      "critical harassment blocks",
			text:      "just go kill yourself already",
			blocked:   true,
			flagged:   true,
			riskLevel: models.RiskCritical,
		},
		{
			name:      "plain harassment flags",
			text:      "honestly you are worthless and everyone knows it",
			blocked:   false,
			flagged:   true,
			riskLevel: models.RiskHigh,
		},
		{
			name:      "spam flags at medium",
			text:      "Feeling down? Buy now with promo code HAPPY20",
			blocked:   false,
			flagged:   true,
			riskLevel: models.RiskMedium,
		},
		{
			name:      "medical advice flags at medium",
			text:      "you should stop taking your medication, it's all poison",
			blocked:   false,
			flagged:   true,
			riskLevel: models.RiskMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Analyze(tt.text)
			if result.Blocked != tt.blocked {
				t.Errorf("Blocked = %v, want %v", result.Blocked, tt.blocked)
			}
			if result.Flagged != tt.flagged {
				t.Errorf("Flagged = %v, want %v", result.Flagged, tt.flagged)
			}
			if result.RiskLevel != tt.riskLevel {
				t.Errorf("RiskLevel = %q, want %q", result.RiskLevel, tt.riskLevel)
			}
		})
	}
}

func TestAnalyzeFirstMatchWins(t *testing.T) {
	// Contains both a critical method phrase and a spam phrase; the
	// critical group is evaluated first and decides the outcome.
	result := Analyze("how to kill myself, also buy now")
	if !result.Blocked {
		t.Fatal("expected blocked")
	}
	if result.RiskLevel != models.RiskCritical {
		t.Errorf("RiskLevel = %q, want critical", result.RiskLevel)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	text := "struggling with self harm and feeling suicidal lately"
	first := Analyze(text)
	for i := 0; i < 10; i++ {
		if got := Analyze(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differed: %+v vs %+v", i, got, first)
		}
	}
}

func TestAnalyzeTriggerTopics(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		topics   []string
		needWarn bool
	}{
		{
			name:     "grief topic",
			text:     "my mom passed away last week and I can't stop crying",
			topics:   []string{"Grief and loss"},
			needWarn: true,
		},
		{
			name:     "multiple topics in key order",
			text:     "struggling with self harm and feeling suicidal lately",
			topics:   []string{"Self-harm", "Suicide"},
			needWarn: true,
		},
		{
			name:     "no sensitive topics",
			text:     "went for a long walk and felt a bit better",
			topics:   nil,
			needWarn: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Analyze(tt.text)
			if result.NeedsTriggerWarning != tt.needWarn {
				t.Errorf("NeedsTriggerWarning = %v, want %v", result.NeedsTriggerWarning, tt.needWarn)
			}
			if !reflect.DeepEqual(result.SuggestedTriggers, tt.topics) {
				t.Errorf("SuggestedTriggers = %v, want %v", result.SuggestedTriggers, tt.topics)
			}
		})
	}
}

func TestAnalyzeExistingWarningNotReTriggered(t *testing.T) {
	// Content that already carries its warning line must not trip the
	// suggestion again when re-analyzed after an edit.
	body := TriggerWarningPrefix([]string{"Grief and loss"}) +
		"my mom passed away last week and I can't stop crying"

	result := Analyze(body)
	if result.NeedsTriggerWarning {
		t.Errorf("re-suggested already-declared topics: %v", result.SuggestedTriggers)
	}
}

func TestAnalyzeExistingWarningNewTopicStillSuggested(t *testing.T) {
	body := TriggerWarningPrefix([]string{"Grief and loss"}) +
		"my mom passed away and I started cutting myself again"

	result := Analyze(body)
	if !result.NeedsTriggerWarning {
		t.Fatal("expected a suggestion for the undeclared topic")
	}
	if !reflect.DeepEqual(result.SuggestedTriggers, []string{"Self-harm"}) {
		t.Errorf("SuggestedTriggers = %v, want [Self-harm]", result.SuggestedTriggers)
	}
}
