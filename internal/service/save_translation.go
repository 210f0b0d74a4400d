// Package service coordinates multi-entity operations that span several
// repository calls, and publishes domain events after they succeed.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/translation-trainer/internal/model"
	"github.com/iliyamo/translation-trainer/internal/repository"
)

// ErrInvalidBatch marks a batch rejected before any database interaction.
// Errors wrapping it carry the offending record's position and field, and
// handlers translate them into HTTP 400.
var ErrInvalidBatch = errors.New("invalid batch")

// Batch is one save-translation request: three groups of records persisted
// for a single user as a unit.
type Batch struct {
	IdiomsWords   []model.IdiomWord
	Sentences     []model.Sentence
	SentenceWords []model.SentenceWord
}

// TranslationSaver applies save batches atomically.  All records of a batch
// land as insert-or-increment inside one transaction, or none do.
type TranslationSaver struct {
	DB   *sql.DB
	Repo *repository.TranslationRepo
}

func NewTranslationSaver(db *sql.DB, repo *repository.TranslationRepo) *TranslationSaver {
	return &TranslationSaver{DB: db, Repo: repo}
}

// Save validates the batch, then upserts every record of all three groups
// concurrently inside a single transaction.  One timestamp is captured for
// the whole batch so every row saved together carries the same created_at /
// updated_at, which keeps a study session's entries co-dated.  The first
// failing upsert cancels the remaining ones and rolls everything back.
func (s *TranslationSaver) Save(ctx context.Context, userID uint64, b Batch) error {
	if userID == 0 {
		return fmt.Errorf("%w: user_id is required", ErrInvalidBatch)
	}
	if err := validateBatch(b); err != nil {
		return err
	}

	now := time.Now().UTC()

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	// Rollback after a successful commit is a no-op (sql.ErrTxDone).
	defer func() { _ = tx.Rollback() }()

	g, gctx := errgroup.WithContext(ctx)
	for i := range b.IdiomsWords {
		w := &b.IdiomsWords[i]
		w.UserID = userID
		g.Go(func() error {
			return s.Repo.UpsertIdiomWordTx(gctx, tx, w, now)
		})
	}
	for i := range b.Sentences {
		sen := &b.Sentences[i]
		sen.UserID = userID
		g.Go(func() error {
			return s.Repo.UpsertSentenceTx(gctx, tx, sen, now)
		})
	}
	for i := range b.SentenceWords {
		sw := &b.SentenceWords[i]
		sw.UserID = userID
		g.Go(func() error {
			return s.Repo.UpsertSentenceWordTx(gctx, tx, sw, now)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return tx.Commit()
}

// validateBatch enforces the required-field shape of every record before
// any store interaction: a single malformed record rejects the whole batch.
func validateBatch(b Batch) error {
	for i, w := range b.IdiomsWords {
		if w.Text == "" {
			return fmt.Errorf("%w: idiomsWords[%d]: text is required", ErrInvalidBatch, i)
		}
		if w.Type == "" {
			return fmt.Errorf("%w: idiomsWords[%d]: type is required", ErrInvalidBatch, i)
		}
		if w.MeaningJa == "" {
			return fmt.Errorf("%w: idiomsWords[%d]: meaning_ja is required", ErrInvalidBatch, i)
		}
	}
	for i, s := range b.Sentences {
		if s.Text == "" {
			return fmt.Errorf("%w: sentences[%d]: text is required", ErrInvalidBatch, i)
		}
		if s.TranslationJa == "" {
			return fmt.Errorf("%w: sentences[%d]: translation_ja is required", ErrInvalidBatch, i)
		}
	}
	for i, sw := range b.SentenceWords {
		if sw.SentenceID == 0 {
			return fmt.Errorf("%w: sentenceWords[%d]: sentence_id is required", ErrInvalidBatch, i)
		}
		if sw.IdiomWordID == 0 {
			return fmt.Errorf("%w: sentenceWords[%d]: idiom_word_id is required", ErrInvalidBatch, i)
		}
	}
	return nil
}
