package moderation

import "strings"

// The pattern library is static configuration: ordered groups of
// lower-case substring phrases evaluated by the analyzer. There is no
// semantic analysis here; matching is case-insensitive containment.

// suicideMethodPhrases and selfHarmMethodPhrases are the critical
// groups. Any match blocks the submission outright.
var suicideMethodPhrases = []string{
	"how to kill myself",
	"ways to kill myself",
	"how to end my life",
	"best way to commit suicide",
	"how to commit suicide",
	"painless way to die",
	"lethal dose of",
	"how many pills does it take",
	"how to hang myself",
	"how to overdose",
}

var selfHarmMethodPhrases = []string{
	"how to cut myself",
	"best way to cut",
	"how to hurt myself",
	"self harm techniques",
	"how deep to cut",
	"where to cut so",
	"how to burn myself",
	"how to hide cuts",
}

// Compound critical check: an explicit intent phrase combined with a
// method-seeking or quick/painless phrase blocks even when neither
// alone matches a critical keyword.
var suicideIntentPhrases = []string{
	"i want to kill myself",
	"i want to die",
	"i am going to kill myself",
	"i'm going to kill myself",
	"going to end my life",
	"i want to end my life",
	"ready to end it",
}

var methodSeekingPhrases = []string{
	"how do i",
	"how to",
	"what is the best way",
	"what's the best way",
	"which method",
	"tell me how",
	"looking for a way",
}

var painlessMethodPhrases = []string{
	"painless",
	"painlessly",
	"quick and easy",
	"quickest way",
	"without pain",
	"won't hurt",
}

// highRiskIdeationPhrases flag but never block. A match propagates a
// high risk level so the caller attaches crisis resources.
var highRiskIdeationPhrases = []string{
	"i want to die",
	"i wish i was dead",
	"i wish i were dead",
	"don't want to be here anymore",
	"better off without me",
	"better off dead",
	"no reason to live",
	"nothing to live for",
	"can't do this anymore",
	"feel hopeless",
	"feeling hopeless",
	"want it all to end",
	"thinking about ending it",
}

// harassmentPhrases flag as high risk; the critical subset (direct
// commands to self-harm or to leave) blocks instead.
var harassmentPhrases = []string{
	"kill yourself",
	"go kill yourself",
	"you should die",
	"go cut yourself",
	"nobody would miss you",
	"nobody likes you",
	"you are worthless",
	"you're worthless",
	"you are pathetic",
	"you're pathetic",
	"everyone hates you",
	"leave this app and never come back",
}

var criticalHarassmentPhrases = []string{
	"kill yourself",
	"go kill yourself",
	"you should die",
	"go cut yourself",
	"leave this app and never come back",
}

var spamPhrases = []string{
	"buy now",
	"click this link",
	"click here to",
	"limited time offer",
	"make money fast",
	"work from home and earn",
	"dm me for a reading",
	"crypto investment",
	"promo code",
	"free followers",
}

var medicalAdvicePhrases = []string{
	"stop taking your medication",
	"stop taking your meds",
	"you don't need medication",
	"you don't need meds",
	"quit your antidepressants",
	"medication is poison",
	"therapy is a scam",
	"this supplement cures",
	"cure your depression with",
	"big pharma doesn't want",
}

// triggerTopic maps a topic key to its display name and the phrases
// that suggest it. Used only for warning suggestion, never blocking.
type triggerTopic struct {
	DisplayName string
	Phrases     []string
}

var triggerTopics = map[string]triggerTopic{
	"self_harm": {
		DisplayName: "Self-harm",
		Phrases:     []string{"self harm", "self-harm", "cutting myself", "cut myself", "relapsed on cutting"},
	},
	"suicide": {
		DisplayName: "Suicide",
		Phrases:     []string{"suicide", "suicidal", "took his own life", "took her own life"},
	},
	"eating_disorders": {
		DisplayName: "Eating disorders",
		Phrases:     []string{"eating disorder", "anorexia", "bulimia", "purging", "binge eating"},
	},
	"abuse": {
		DisplayName: "Abuse",
		Phrases:     []string{"abusive relationship", "domestic violence", "sexual assault", "was abused"},
	},
	"substance_use": {
		DisplayName: "Substance use",
		Phrases:     []string{"overdose", "relapse", "drinking again", "addiction"},
	},
	"grief": {
		DisplayName: "Grief and loss",
		Phrases:     []string{"passed away", "lost my mom", "lost my dad", "funeral", "grieving"},
	},
}

// containsAny returns the first phrase from the group found in text, or
// "" when none match. text must already be lower-cased.
func containsAny(text string, phrases []string) string {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return p
		}
	}
	return ""
}
