package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sreecharan-desu/echo.Ink/internal/models"
)

// ErrDuplicateUsername is returned by Users.Create when the username is
// already taken, including when a concurrent signup won the race.
var ErrDuplicateUsername = errors.New("username already taken")

type Users interface {
	Create(ctx context.Context, username, passwordHash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
}

type Posts interface {
	Create(ctx context.Context, p models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	ListByAuthor(ctx context.Context, authorID int) ([]models.Post, error)
	Update(ctx context.Context, p models.Post) error
	Delete(ctx context.Context, id string) error
}

type Repository struct {
	Users Users
	Posts Posts
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users: NewUserRepository(db),
		Posts: NewPostRepository(db),
	}
}
