package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/translation-trainer/internal/model"
	"github.com/iliyamo/translation-trainer/internal/queue"
	"github.com/iliyamo/translation-trainer/internal/repository"
	"github.com/iliyamo/translation-trainer/internal/service"
)

// TranslationHandler serves the save-translation endpoint and the per-user
// list endpoints over the vocabulary tables.
type TranslationHandler struct {
	Saver *service.TranslationSaver
	Repo  *repository.TranslationRepo
}

func NewTranslationHandler(saver *service.TranslationSaver, repo *repository.TranslationRepo) *TranslationHandler {
	if saver == nil || repo == nil {
		panic("nil dependency passed to NewTranslationHandler")
	}
	return &TranslationHandler{Saver: saver, Repo: repo}
}

// ----- DTOs -----

type idiomWordItem struct {
	Text      string `json:"text"`
	Type      string `json:"type"`
	MeaningJa string `json:"meaning_ja"`
}
type sentenceItem struct {
	Text          string `json:"text"`
	TranslationJa string `json:"translation_ja"`
}
type sentenceWordItem struct {
	SentenceID  uint64 `json:"sentence_id"`
	IdiomWordID uint64 `json:"idiom_word_id"`
}

type saveTranslationReq struct {
	UserID        uint64             `json:"user_id"`
	IdiomsWords   []idiomWordItem    `json:"idiomsWords"`
	Sentences     []sentenceItem     `json:"sentences"`
	SentenceWords []sentenceWordItem `json:"sentenceWords"`
}

// SaveTranslation handles POST /api/save-translation.  The request carries
// three record groups for one user; they are applied atomically as
// insert-or-increment upserts.  Malformed input is rejected with 400 before
// the store is touched.  Store failures return a generic 500 — the detail
// is logged, not returned, so storage internals never leak to clients.
func (h *TranslationHandler) SaveTranslation(c echo.Context) error {
	var req saveTranslationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	batch := service.Batch{
		IdiomsWords:   make([]model.IdiomWord, len(req.IdiomsWords)),
		Sentences:     make([]model.Sentence, len(req.Sentences)),
		SentenceWords: make([]model.SentenceWord, len(req.SentenceWords)),
	}
	for i, it := range req.IdiomsWords {
		batch.IdiomsWords[i] = model.IdiomWord{Text: it.Text, Type: it.Type, MeaningJa: it.MeaningJa}
	}
	for i, it := range req.Sentences {
		batch.Sentences[i] = model.Sentence{Text: it.Text, TranslationJa: it.TranslationJa}
	}
	for i, it := range req.SentenceWords {
		batch.SentenceWords[i] = model.SentenceWord{SentenceID: it.SentenceID, IdiomWordID: it.IdiomWordID}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Saver.Save(ctx, req.UserID, batch); err != nil {
		if errors.Is(err, service.ErrInvalidBatch) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		c.Logger().Errorf("save translation: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save translation data"})
	}

	// Best effort: a broker outage must not fail a committed save.
	_ = service.PublishTranslationSaved(ctx, queue.TranslationSavedEvent{
		UserID:        req.UserID,
		IdiomsWords:   len(req.IdiomsWords),
		Sentences:     len(req.Sentences),
		SentenceWords: len(req.SentenceWords),
		SavedAt:       time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{"message": "translation data saved"})
}

// ListIdiomsWords handles GET /api/idioms_words for the authenticated user.
func (h *TranslationHandler) ListIdiomsWords(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Repo.ListIdiomWords(ctx, uid)
	if err != nil {
		c.Logger().Errorf("list idioms_words: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load data"})
	}
	if items == nil {
		items = []model.IdiomWord{}
	}
	return c.JSON(http.StatusOK, items)
}

// ListSentences handles GET /api/sentences for the authenticated user.
func (h *TranslationHandler) ListSentences(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Repo.ListSentences(ctx, uid)
	if err != nil {
		c.Logger().Errorf("list sentences: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load data"})
	}
	if items == nil {
		items = []model.Sentence{}
	}
	return c.JSON(http.StatusOK, items)
}

// ListSentenceWords handles GET /api/sentence_words for the authenticated user.
func (h *TranslationHandler) ListSentenceWords(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Repo.ListSentenceWords(ctx, uid)
	if err != nil {
		c.Logger().Errorf("list sentence_words: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load data"})
	}
	if items == nil {
		items = []model.SentenceWord{}
	}
	return c.JSON(http.StatusOK, items)
}
