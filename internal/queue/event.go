// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// TranslationSavedEvent is published after a save batch commits.  It carries
// enough information for downstream consumers to log or feed analytics
// without querying the primary database.
type TranslationSavedEvent struct {
    UserID        uint64 `json:"user_id"`
    IdiomsWords   int    `json:"idioms_words"`
    Sentences     int    `json:"sentences"`
    SentenceWords int    `json:"sentence_words"`
    SavedAt       string `json:"saved_at"`
}
