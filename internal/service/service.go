package service

import (
	"context"
	"time"

	"github.com/sreecharan-desu/echo.Ink/internal/models"
	"github.com/sreecharan-desu/echo.Ink/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
	CurrentUser(ctx context.Context, userID int) (*models.Profile, error)
}

// Posts exposes article CRUD; mutations take the authenticated user id and
// enforce authorship before touching the store.
type Posts interface {
	Create(ctx context.Context, authorID int, in PostInput) (*models.Post, error)
	Get(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	Update(ctx context.Context, userID int, id string, in PostInput) error
	Delete(ctx context.Context, userID int, id string) error
	Profile(ctx context.Context, username string) (*models.Profile, error)
}

// Feed fans post lifecycle events out to live subscribers (the /ws socket).
type Feed interface {
	Subscribe() (<-chan FeedEvent, func())
	Publish(ev FeedEvent)
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Authorization
	Posts
	Feed
}

// AuthConfig carries the token signing material; the key is read from config
// at startup and never leaves the process.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

// NewService wires repository layer into concrete services.
func NewService(repos *repository.Repository, auth AuthConfig) *Service {
	feed := NewFeedService()
	return &Service{
		Authorization: NewAuthService(repos.Users, repos.Posts, auth),
		Posts:         NewPostService(repos.Posts, repos.Users, feed),
		Feed:          feed,
	}
}

// storeTimeout bounds every repository round-trip so a wedged store surfaces
// as an error instead of hanging the request.
const storeTimeout = 5 * time.Second

func withStoreTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, storeTimeout)
}
