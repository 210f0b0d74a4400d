package database

// schemaSQL is the relational layout of the translation store: one users
// table plus the three vocabulary tables, each row owned by a user.  Natural
// keys carry real UNIQUE constraints so the repositories can upsert with
// ON CONFLICT instead of looking up before inserting.  created_at is written
// once; updated_at advances on every touch.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT UNIQUE NOT NULL,
	password TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS idioms_words (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	text TEXT NOT NULL,
	type TEXT NOT NULL,
	meaning_ja TEXT NOT NULL,
	count INTEGER NOT NULL DEFAULT 1,
	user_id INTEGER NOT NULL REFERENCES users(id),
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	UNIQUE (text, type, user_id)
);

CREATE TABLE IF NOT EXISTS sentences (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	text TEXT NOT NULL,
	translation_ja TEXT NOT NULL,
	count INTEGER NOT NULL DEFAULT 1,
	user_id INTEGER NOT NULL REFERENCES users(id),
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	UNIQUE (text, user_id)
);

CREATE TABLE IF NOT EXISTS sentence_words (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	sentence_id INTEGER NOT NULL REFERENCES sentences(id),
	idiom_word_id INTEGER NOT NULL REFERENCES idioms_words(id),
	user_id INTEGER NOT NULL REFERENCES users(id),
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	UNIQUE (sentence_id, idiom_word_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_idioms_words_user ON idioms_words(user_id);
CREATE INDEX IF NOT EXISTS idx_sentences_user ON sentences(user_id);
CREATE INDEX IF NOT EXISTS idx_sentence_words_user ON sentence_words(user_id)
`
