package model

import "time"

// IdiomWord mirrors the `idioms_words` table: one idiom or vocabulary word a
// user has encountered, with its Japanese meaning.  A user resubmitting the
// same (text, type) pair does not create a new row; the existing row's Count
// is incremented instead, so Count is a usage tally that only ever grows.
//
// Fields:
//  ID        – primary key identifier.
//  Text      – the idiom or word itself.
//  Type      – grammatical type (e.g. "idiom", "noun").
//  MeaningJa – Japanese meaning.
//  Count     – how many times the user has saved this entry (starts at 1).
//  UserID    – owner of the row.
//  CreatedAt – set on first insert, never changed afterwards.
//  UpdatedAt – refreshed on every save that touches the row.
type IdiomWord struct {
    ID        uint64    `json:"id"`
    Text      string    `json:"text"`
    Type      string    `json:"type"`
    MeaningJa string    `json:"meaning_ja"`
    Count     uint32    `json:"count"`
    UserID    uint64    `json:"user_id"`
    CreatedAt time.Time `json:"created_at"`
    UpdatedAt time.Time `json:"updated_at"`
}

// Sentence mirrors the `sentences` table: an example sentence with its
// Japanese translation.  Deduplicated per user on Text, with the same
// count-incrementing behavior as IdiomWord.
type Sentence struct {
    ID            uint64    `json:"id"`
    Text          string    `json:"text"`
    TranslationJa string    `json:"translation_ja"`
    Count         uint32    `json:"count"`
    UserID        uint64    `json:"user_id"`
    CreatedAt     time.Time `json:"created_at"`
    UpdatedAt     time.Time `json:"updated_at"`
}

// SentenceWord mirrors the `sentence_words` table.  It records that an
// idiom/word occurs in a sentence, scoped to the owning user.  Links carry
// no usage counter; resubmitting an existing link only refreshes UpdatedAt.
type SentenceWord struct {
    ID          uint64    `json:"id"`
    SentenceID  uint64    `json:"sentence_id"`
    IdiomWordID uint64    `json:"idiom_word_id"`
    UserID      uint64    `json:"user_id"`
    CreatedAt   time.Time `json:"created_at"`
    UpdatedAt   time.Time `json:"updated_at"`
}
