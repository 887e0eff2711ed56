package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sreecharan-desu/echo.Ink/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Users interface at compile time.
var _ Users = (*UserRepository)(nil)

const (
	insertUserSQL       = `INSERT INTO users (username, password_hash, created_on) VALUES (?, ?, ?)`
	selectUserByNameSQL = `SELECT id, username, password_hash, created_on FROM users WHERE username = ?`
	selectUserByIDSQL   = `SELECT id, username, password_hash, created_on FROM users WHERE id = ?`
)

// Create inserts a new user and returns its ID. A UNIQUE violation on the
// username column is reported as ErrDuplicateUsername so callers can treat a
// lost signup race the same as a failed pre-check.
func (r *UserRepository) Create(ctx context.Context, username, passwordHash string) (int, error) {
	res, err := r.db.ExecContext(ctx, insertUserSQL, username, passwordHash, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateUsername
		}
		return 0, fmt.Errorf("insert user %q: %w", username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", username, err)
	}
	return int(lastID), nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := r.scanUser(r.db.QueryRowContext(ctx, selectUserByNameSQL, username))
	if err != nil {
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return u, nil
}

// GetByID fetches a user by id. Returns (nil, nil) if not found.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, err := r.scanUser(r.db.QueryRowContext(ctx, selectUserByIDSQL, id))
	if err != nil {
		return nil, fmt.Errorf("select user id=%d: %w", id, err)
	}
	return u, nil
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.CreatedOn = u.CreatedOn.UTC()
	return &u, nil
}

// isUniqueViolation matches the modernc sqlite error text for constraint 2067.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
