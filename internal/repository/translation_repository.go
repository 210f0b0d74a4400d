package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/translation-trainer/internal/database"
	"github.com/iliyamo/translation-trainer/internal/model"
)

// TranslationRepo persists the three vocabulary entities.  Writes are
// upserts keyed on each entity's natural key: the UNIQUE constraints in the
// schema make the insert-or-increment decision inside a single statement,
// so there is no race window between a lookup and a later insert.  Every
// statement runs under the busy Retryer because save batches execute their
// upserts concurrently against the same file.
//
// The *Tx methods operate inside a caller-owned transaction; the caller
// must commit or roll back.
type TranslationRepo struct {
	DB    *sql.DB
	Retry *database.Retryer
}

func NewTranslationRepo(db *sql.DB, retry *database.Retryer) *TranslationRepo {
	return &TranslationRepo{DB: db, Retry: retry}
}

// UpsertIdiomWordTx inserts the entry or, when the user already has a row
// with the same text and type, increments its count.  Both paths set
// updated_at to now; created_at is written only on first insert.  The
// record's ID and Count are populated from the row that was touched.
func (r *TranslationRepo) UpsertIdiomWordTx(ctx context.Context, tx *sql.Tx, w *model.IdiomWord, now time.Time) error {
	const q = `INSERT INTO idioms_words (text, type, meaning_ja, count, user_id, created_at, updated_at)
	           VALUES (?, ?, ?, 1, ?, ?, ?)
	           ON CONFLICT(text, type, user_id) DO UPDATE SET
	               count = count + 1,
	               updated_at = excluded.updated_at
	           RETURNING id, count`
	return r.Retry.Do(ctx, func() error {
		return tx.QueryRowContext(ctx, q, w.Text, w.Type, w.MeaningJa, w.UserID, now, now).
			Scan(&w.ID, &w.Count)
	})
}

// UpsertSentenceTx is the sentence counterpart of UpsertIdiomWordTx, keyed
// on (text, user_id).
func (r *TranslationRepo) UpsertSentenceTx(ctx context.Context, tx *sql.Tx, s *model.Sentence, now time.Time) error {
	const q = `INSERT INTO sentences (text, translation_ja, count, user_id, created_at, updated_at)
	           VALUES (?, ?, 1, ?, ?, ?)
	           ON CONFLICT(text, user_id) DO UPDATE SET
	               count = count + 1,
	               updated_at = excluded.updated_at
	           RETURNING id, count`
	return r.Retry.Do(ctx, func() error {
		return tx.QueryRowContext(ctx, q, s.Text, s.TranslationJa, s.UserID, now, now).
			Scan(&s.ID, &s.Count)
	})
}

// UpsertSentenceWordTx records that an idiom/word occurs in a sentence.
// Links carry no counter, so a resubmitted link only refreshes updated_at.
// A sentence_id or idiom_word_id that does not exist fails the foreign key
// check; such errors are not retried and abort the caller's transaction.
func (r *TranslationRepo) UpsertSentenceWordTx(ctx context.Context, tx *sql.Tx, sw *model.SentenceWord, now time.Time) error {
	const q = `INSERT INTO sentence_words (sentence_id, idiom_word_id, user_id, created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?)
	           ON CONFLICT(sentence_id, idiom_word_id, user_id) DO UPDATE SET
	               updated_at = excluded.updated_at
	           RETURNING id`
	return r.Retry.Do(ctx, func() error {
		return tx.QueryRowContext(ctx, q, sw.SentenceID, sw.IdiomWordID, sw.UserID, now, now).
			Scan(&sw.ID)
	})
}

// ListIdiomWords returns every idiom/word entry owned by the user, newest
// first.
func (r *TranslationRepo) ListIdiomWords(ctx context.Context, userID uint64) ([]model.IdiomWord, error) {
	const q = `SELECT id, text, type, meaning_ja, count, user_id, created_at, updated_at
	           FROM idioms_words WHERE user_id = ? ORDER BY updated_at DESC, id DESC`
	var out []model.IdiomWord
	err := r.Retry.Do(ctx, func() error {
		rows, err := r.DB.QueryContext(ctx, q, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		out = out[:0]
		for rows.Next() {
			var w model.IdiomWord
			if err := rows.Scan(&w.ID, &w.Text, &w.Type, &w.MeaningJa, &w.Count, &w.UserID, &w.CreatedAt, &w.UpdatedAt); err != nil {
				return err
			}
			out = append(out, w)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListSentences returns every sentence owned by the user, newest first.
func (r *TranslationRepo) ListSentences(ctx context.Context, userID uint64) ([]model.Sentence, error) {
	const q = `SELECT id, text, translation_ja, count, user_id, created_at, updated_at
	           FROM sentences WHERE user_id = ? ORDER BY updated_at DESC, id DESC`
	var out []model.Sentence
	err := r.Retry.Do(ctx, func() error {
		rows, err := r.DB.QueryContext(ctx, q, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		out = out[:0]
		for rows.Next() {
			var s model.Sentence
			if err := rows.Scan(&s.ID, &s.Text, &s.TranslationJa, &s.Count, &s.UserID, &s.CreatedAt, &s.UpdatedAt); err != nil {
				return err
			}
			out = append(out, s)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListSentenceWords returns every sentence↔word link owned by the user.
func (r *TranslationRepo) ListSentenceWords(ctx context.Context, userID uint64) ([]model.SentenceWord, error) {
	const q = `SELECT id, sentence_id, idiom_word_id, user_id, created_at, updated_at
	           FROM sentence_words WHERE user_id = ? ORDER BY id`
	var out []model.SentenceWord
	err := r.Retry.Do(ctx, func() error {
		rows, err := r.DB.QueryContext(ctx, q, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		out = out[:0]
		for rows.Next() {
			var sw model.SentenceWord
			if err := rows.Scan(&sw.ID, &sw.SentenceID, &sw.IdiomWordID, &sw.UserID, &sw.CreatedAt, &sw.UpdatedAt); err != nil {
				return err
			}
			out = append(out, sw)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
