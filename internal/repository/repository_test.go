package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/iliyamo/translation-trainer/internal/database"
	"github.com/iliyamo/translation-trainer/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", "file::memory:?_fk=1")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	// Ensure single connection to avoid separate in-memory DBs per connection.
	db.SetMaxOpenConns(1)
	if err := database.Init(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return db
}

func testRetryer() *database.Retryer {
	return database.NewRetryer(database.DefaultBusyAttempts, time.Millisecond)
}

func createTestUser(t *testing.T, db *sql.DB, username string) uint64 {
	t.Helper()
	// bcrypt.MinCost keeps test runs fast.
	id, err := NewUserRepo(db, testRetryer()).Create(context.Background(), username, "secret", 4)
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return id
}

func TestUserCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db, testRetryer())
	ctx := context.Background()

	id, err := repo.Create(ctx, "alice", "secret", 4)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero id")
	}

	u, err := repo.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if u.ID != id || u.Username != "alice" {
		t.Fatalf("unexpected user %+v", u)
	}
	if u.Password == "secret" {
		t.Fatal("password stored in plain text")
	}
	if u.CreatedAt.IsZero() || u.UpdatedAt.IsZero() {
		t.Fatal("timestamps not populated")
	}
}

func TestUserDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db, testRetryer())
	ctx := context.Background()

	if _, err := repo.Create(ctx, "bob", "secret", 4); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := repo.Create(ctx, "bob", "other", 4); err != ErrUsernameExists {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}
}

func TestUserGetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db, testRetryer())

	if _, err := repo.GetByUsername(context.Background(), "nobody"); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func inTx(t *testing.T, db *sql.DB, fn func(tx *sql.Tx) error) {
	t.Helper()
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		t.Fatalf("tx body: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
}

func TestUpsertIdiomWordIncrementsCount(t *testing.T) {
	db := setupTestDB(t)
	uid := createTestUser(t, db, "alice")
	repo := NewTranslationRepo(db, testRetryer())
	ctx := context.Background()

	first := model.IdiomWord{Text: "break the ice", Type: "idiom", MeaningJa: "緊張を解く", UserID: uid}
	inTx(t, db, func(tx *sql.Tx) error {
		return repo.UpsertIdiomWordTx(ctx, tx, &first, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	})
	if first.Count != 1 {
		t.Fatalf("expected count 1 on first save, got %d", first.Count)
	}

	second := model.IdiomWord{Text: "break the ice", Type: "idiom", MeaningJa: "緊張を解く", UserID: uid}
	inTx(t, db, func(tx *sql.Tx) error {
		return repo.UpsertIdiomWordTx(ctx, tx, &second, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	})
	if second.ID != first.ID {
		t.Fatalf("expected same row, got ids %d and %d", first.ID, second.ID)
	}
	if second.Count != 2 {
		t.Fatalf("expected count 2 after re-save, got %d", second.Count)
	}

	var rows int
	if err := db.QueryRow("SELECT COUNT(*) FROM idioms_words").Scan(&rows); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row, got %d", rows)
	}

	var created, updated time.Time
	if err := db.QueryRow("SELECT created_at, updated_at FROM idioms_words WHERE id=?", first.ID).Scan(&created, &updated); err != nil {
		t.Fatalf("read timestamps: %v", err)
	}
	if !created.Before(updated) {
		t.Fatalf("expected created_at %s to stay behind updated_at %s", created, updated)
	}
}

func TestUpsertDistinguishesType(t *testing.T) {
	db := setupTestDB(t)
	uid := createTestUser(t, db, "alice")
	repo := NewTranslationRepo(db, testRetryer())
	ctx := context.Background()
	now := time.Now().UTC()

	asIdiom := model.IdiomWord{Text: "run", Type: "idiom", MeaningJa: "経営する", UserID: uid}
	asVerb := model.IdiomWord{Text: "run", Type: "verb", MeaningJa: "走る", UserID: uid}
	inTx(t, db, func(tx *sql.Tx) error {
		if err := repo.UpsertIdiomWordTx(ctx, tx, &asIdiom, now); err != nil {
			return err
		}
		return repo.UpsertIdiomWordTx(ctx, tx, &asVerb, now)
	})
	if asIdiom.ID == asVerb.ID {
		t.Fatal("different types must not collapse into one row")
	}
}

func TestUpsertPerUserIsolation(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	repo := NewTranslationRepo(db, testRetryer())
	ctx := context.Background()
	now := time.Now().UTC()

	forAlice := model.IdiomWord{Text: "break the ice", Type: "idiom", MeaningJa: "緊張を解く", UserID: alice}
	forBob := model.IdiomWord{Text: "break the ice", Type: "idiom", MeaningJa: "緊張を解く", UserID: bob}
	inTx(t, db, func(tx *sql.Tx) error {
		if err := repo.UpsertIdiomWordTx(ctx, tx, &forAlice, now); err != nil {
			return err
		}
		return repo.UpsertIdiomWordTx(ctx, tx, &forBob, now)
	})
	if forAlice.ID == forBob.ID {
		t.Fatal("users must not share rows")
	}

	// Alice saving again must not touch Bob's counter.
	again := model.IdiomWord{Text: "break the ice", Type: "idiom", MeaningJa: "緊張を解く", UserID: alice}
	inTx(t, db, func(tx *sql.Tx) error {
		return repo.UpsertIdiomWordTx(ctx, tx, &again, now)
	})
	var bobCount uint32
	if err := db.QueryRow("SELECT count FROM idioms_words WHERE id=?", forBob.ID).Scan(&bobCount); err != nil {
		t.Fatalf("read bob's count: %v", err)
	}
	if bobCount != 1 {
		t.Fatalf("bob's count changed to %d", bobCount)
	}
}

func TestUpsertSentenceWordHasNoCounter(t *testing.T) {
	db := setupTestDB(t)
	uid := createTestUser(t, db, "alice")
	repo := NewTranslationRepo(db, testRetryer())
	ctx := context.Background()
	now := time.Now().UTC()

	word := model.IdiomWord{Text: "break the ice", Type: "idiom", MeaningJa: "緊張を解く", UserID: uid}
	sentence := model.Sentence{Text: "He broke the ice.", TranslationJa: "彼は緊張を解いた。", UserID: uid}
	inTx(t, db, func(tx *sql.Tx) error {
		if err := repo.UpsertIdiomWordTx(ctx, tx, &word, now); err != nil {
			return err
		}
		return repo.UpsertSentenceTx(ctx, tx, &sentence, now)
	})

	link := model.SentenceWord{SentenceID: sentence.ID, IdiomWordID: word.ID, UserID: uid}
	inTx(t, db, func(tx *sql.Tx) error {
		return repo.UpsertSentenceWordTx(ctx, tx, &link, now)
	})
	relink := model.SentenceWord{SentenceID: sentence.ID, IdiomWordID: word.ID, UserID: uid}
	inTx(t, db, func(tx *sql.Tx) error {
		return repo.UpsertSentenceWordTx(ctx, tx, &relink, now.Add(time.Hour))
	})
	if relink.ID != link.ID {
		t.Fatalf("expected same link row, got ids %d and %d", link.ID, relink.ID)
	}

	var rows int
	if err := db.QueryRow("SELECT COUNT(*) FROM sentence_words").Scan(&rows); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 link row, got %d", rows)
	}
}

func TestUpsertSentenceWordRejectsDanglingReference(t *testing.T) {
	db := setupTestDB(t)
	uid := createTestUser(t, db, "alice")
	repo := NewTranslationRepo(db, testRetryer())
	ctx := context.Background()

	link := model.SentenceWord{SentenceID: 999, IdiomWordID: 999, UserID: uid}
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback()
	if err := repo.UpsertSentenceWordTx(ctx, tx, &link, time.Now().UTC()); err == nil {
		t.Fatal("expected foreign key violation")
	}
}

func TestListScopedToUser(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	repo := NewTranslationRepo(db, testRetryer())
	ctx := context.Background()
	now := time.Now().UTC()

	for _, w := range []model.IdiomWord{
		{Text: "break the ice", Type: "idiom", MeaningJa: "緊張を解く", UserID: alice},
		{Text: "on the ball", Type: "idiom", MeaningJa: "有能な", UserID: alice},
		{Text: "call it a day", Type: "idiom", MeaningJa: "切り上げる", UserID: bob},
	} {
		w := w
		inTx(t, db, func(tx *sql.Tx) error {
			return repo.UpsertIdiomWordTx(ctx, tx, &w, now)
		})
	}

	got, err := repo.ListIdiomWords(ctx, alice)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries for alice, got %d", len(got))
	}
	for _, w := range got {
		if w.UserID != alice {
			t.Fatalf("row %d belongs to user %d", w.ID, w.UserID)
		}
	}
}
