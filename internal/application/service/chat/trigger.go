package chat

import "strings"

// TriggerPolicy decides whether a user message should be stored as a
// long-term memory. It is a pluggable policy so the heuristic can be
// localized or replaced without touching the orchestrator.
type TriggerPolicy interface {
	ShouldRemember(userMessage string) bool
}

// frenchTriggerWords are the substrings meaning "remember / retain /
// important / note" for the French-speaking assistant. This is a
// best-effort heuristic, not a classifier; false positives and negatives
// are expected.
var frenchTriggerWords = []string{"rappelle", "retiens", "important", "note"}

// KeywordTrigger matches any of a fixed word list, case-insensitively
type KeywordTrigger struct {
	words []string
}

// NewFrenchKeywordTrigger creates the default French trigger policy
func NewFrenchKeywordTrigger() *KeywordTrigger {
	return &KeywordTrigger{words: frenchTriggerWords}
}

// NewKeywordTrigger creates a trigger policy over a custom word list
func NewKeywordTrigger(words []string) *KeywordTrigger {
	return &KeywordTrigger{words: words}
}

// ShouldRemember reports whether the message contains any trigger word
func (t *KeywordTrigger) ShouldRemember(userMessage string) bool {
	lowered := strings.ToLower(userMessage)
	for _, word := range t.words {
		if strings.Contains(lowered, word) {
			return true
		}
	}
	return false
}
