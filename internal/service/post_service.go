package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sreecharan-desu/echo.Ink/internal/models"
	"github.com/sreecharan-desu/echo.Ink/internal/repository"
)

// Domain errors for post flows.
var (
	ErrPostNotFound = errors.New("post not found")
	ErrForbidden    = errors.New("not the author of this post")
	ErrEmptyPost    = errors.New("title and data are required")
)

// PostInput is the mutable part of a post supplied by clients.
type PostInput struct {
	Title string
	Data  string
	Tags  []string
}

type PostService struct {
	posts repository.Posts
	users repository.Users
	feed  Feed
}

func NewPostService(posts repository.Posts, users repository.Users, feed Feed) *PostService {
	return &PostService{posts: posts, users: users, feed: feed}
}

// canMutate is the single ownership predicate applied before every mutation.
func canMutate(userID int, p *models.Post) bool {
	return p != nil && p.AuthorID == userID
}

// Create stores a new post for authorID and announces it on the feed.
func (s *PostService) Create(ctx context.Context, authorID int, in PostInput) (*models.Post, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	p := models.Post{
		ID:       uuid.NewString(),
		Title:    strings.TrimSpace(in.Title),
		Data:     in.Data,
		Tags:     in.Tags,
		AuthorID: authorID,
		PostedOn: time.Now().UTC(),
	}

	ctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}

	// Re-read to pick up the author join for the feed payload; best-effort.
	if full, err := s.posts.GetByID(ctx, p.ID); err == nil && full != nil {
		p = *full
	}
	s.feed.Publish(FeedEvent{Type: EventPostCreated, Post: &p})
	return &p, nil
}

// Get fetches a single post with its author.
func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	ctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPostNotFound
	}
	return p, nil
}

// List returns all posts, newest first.
func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	ctx, cancel := withStoreTimeout(ctx)
	defer cancel()
	return s.posts.List(ctx)
}

// Update rewrites a post after checking the caller authored it. The check
// runs on the fetched row, before the UPDATE is issued; the store's own
// constraints are never relied on for authorization.
func (s *PostService) Update(ctx context.Context, userID int, id string, in PostInput) error {
	if err := validateInput(in); err != nil {
		return err
	}

	ctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	existing, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrPostNotFound
	}
	if !canMutate(userID, existing) {
		return ErrForbidden
	}

	updated := *existing
	updated.Title = strings.TrimSpace(in.Title)
	updated.Data = in.Data
	updated.Tags = in.Tags

	if err := s.posts.Update(ctx, updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPostNotFound
		}
		return err
	}

	s.feed.Publish(FeedEvent{Type: EventPostUpdated, Post: &updated})
	return nil
}

// Delete removes a post after the same fetch-then-check ownership gate.
func (s *PostService) Delete(ctx context.Context, userID int, id string) error {
	ctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	existing, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrPostNotFound
	}
	if !canMutate(userID, existing) {
		return ErrForbidden
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPostNotFound
		}
		return err
	}

	s.feed.Publish(FeedEvent{Type: EventPostDeleted, PostID: id})
	return nil
}

// Profile returns a public author page: user info plus posts, newest first.
func (s *PostService) Profile(ctx context.Context, username string) (*models.Profile, error) {
	ctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	posts, err := s.posts.ListByAuthor(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &models.Profile{Author: u.Public(), Posts: posts}, nil
}

func validateInput(in PostInput) error {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Data) == "" {
		return ErrEmptyPost
	}
	return nil
}
