package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/translation-trainer/internal/database"
	"github.com/iliyamo/translation-trainer/internal/model"
	"github.com/iliyamo/translation-trainer/internal/utils"
)

type UserRepo struct {
	DB    *sql.DB
	Retry *database.Retryer
}

func NewUserRepo(db *sql.DB, retry *database.Retryer) *UserRepo {
	return &UserRepo{DB: db, Retry: retry}
}

// Create hashes the password, inserts the user and returns its ID.
// A duplicate username maps to ErrUsernameExists.
func (r *UserRepo) Create(ctx context.Context, username, password string, cost int) (uint64, error) {
	username = strings.TrimSpace(username)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	var res sql.Result
	err = r.Retry.Do(ctx, func() error {
		var execErr error
		res, execErr = r.DB.ExecContext(ctx,
			"INSERT INTO users (username, password, created_at, updated_at) VALUES (?,?,?,?)",
			username, hash, now, now)
		return execErr
	})
	if err != nil {
		if isUniqueErr(err) {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a user by its trimmed username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	username = strings.TrimSpace(username)
	var u model.User
	err := r.Retry.Do(ctx, func() error {
		return r.DB.QueryRowContext(ctx,
			"SELECT id,username,password,created_at,updated_at FROM users WHERE username=? LIMIT 1",
			username).Scan(&u.ID, &u.Username, &u.Password, &u.CreatedAt, &u.UpdatedAt)
	})
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.Retry.Do(ctx, func() error {
		return r.DB.QueryRowContext(ctx,
			"SELECT id,username,password,created_at,updated_at FROM users WHERE id=? LIMIT 1",
			id).Scan(&u.ID, &u.Username, &u.Password, &u.CreatedAt, &u.UpdatedAt)
	})
	return u, err
}
