package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sreecharan-desu/echo.Ink/internal/models"
)

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository { return &PostRepository{db: db} }

var _ Posts = (*PostRepository)(nil)

const (
	insertPostSQL = `INSERT INTO posts (id, title, data, tags, author_id, posted_on) VALUES (?, ?, ?, ?, ?, ?)`
	updatePostSQL = `UPDATE posts SET title = ?, data = ?, tags = ?, posted_on = ? WHERE id = ?`
	deletePostSQL = `DELETE FROM posts WHERE id = ?`

	selectPostSQL = `SELECT p.id, p.title, p.data, p.tags, p.author_id, p.posted_on,
       u.id, u.username, u.created_on
FROM posts p JOIN users u ON u.id = p.author_id`

	selectPostByIDSQL     = selectPostSQL + ` WHERE p.id = ?`
	selectPostsSQL        = selectPostSQL + ` ORDER BY p.posted_on DESC`
	selectPostsByAuthrSQL = selectPostSQL + ` WHERE p.author_id = ? ORDER BY p.posted_on DESC`
)

// Create inserts a new post. If ID or PostedOn are empty, they’re set.
func (r *PostRepository) Create(ctx context.Context, p models.Post) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.PostedOn.IsZero() {
		p.PostedOn = time.Now().UTC()
	} else {
		p.PostedOn = p.PostedOn.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertPostSQL,
		p.ID, p.Title, p.Data, marshalTags(p.Tags), p.AuthorID, p.PostedOn)
	if err != nil {
		return fmt.Errorf("insert post %q: %w", p.ID, err)
	}
	return nil
}

// GetByID fetches a post with its author. Returns (nil, nil) if not found.
func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	rows, err := r.db.QueryContext(ctx, selectPostByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("select post %q: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("select post %q: %w", id, err)
		}
		return nil, nil
	}
	p, err := scanPost(rows)
	if err != nil {
		return nil, fmt.Errorf("scan post %q: %w", id, err)
	}
	return p, rows.Err()
}

// List returns all posts with authors, newest first.
func (r *PostRepository) List(ctx context.Context) ([]models.Post, error) {
	return r.queryPosts(ctx, selectPostsSQL)
}

// ListByAuthor returns one author's posts, newest first.
func (r *PostRepository) ListByAuthor(ctx context.Context, authorID int) ([]models.Post, error) {
	return r.queryPosts(ctx, selectPostsByAuthrSQL, authorID)
}

// Update rewrites title/data/tags and bumps posted_on so edited posts
// resurface at the top of the listing.
func (r *PostRepository) Update(ctx context.Context, p models.Post) error {
	res, err := r.db.ExecContext(ctx, updatePostSQL,
		p.Title, p.Data, marshalTags(p.Tags), time.Now().UTC(), p.ID)
	if err != nil {
		return fmt.Errorf("update post %q: %w", p.ID, err)
	}
	return requireRowAffected(res, "update", p.ID)
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deletePostSQL, id)
	if err != nil {
		return fmt.Errorf("delete post %q: %w", id, err)
	}
	return requireRowAffected(res, "delete", id)
}

func (r *PostRepository) queryPosts(ctx context.Context, q string, args ...any) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select posts: %w", err)
	}
	defer rows.Close()

	out := make([]models.Post, 0, 32)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan posts: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select posts: %w", err)
	}
	return out, nil
}

func scanPost(rows *sql.Rows) (*models.Post, error) {
	var (
		p       models.Post
		a       models.Author
		tagsStr sql.NullString
	)
	if err := rows.Scan(
		&p.ID, &p.Title, &p.Data, &tagsStr, &p.AuthorID, &p.PostedOn,
		&a.ID, &a.Username, &a.CreatedOn,
	); err != nil {
		return nil, err
	}
	p.PostedOn = p.PostedOn.UTC()
	a.CreatedOn = a.CreatedOn.UTC()
	p.Author = &a

	if tagsStr.Valid && tagsStr.String != "" {
		var tags []string
		if err := json.Unmarshal([]byte(tagsStr.String), &tags); err == nil {
			p.Tags = tags
		}
	}
	return &p, nil
}

// marshalTags stores tags as a JSON array column; nil keeps the column NULL.
func marshalTags(tags []string) *string {
	if len(tags) == 0 {
		return nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

// requireRowAffected maps zero-row mutations to sql.ErrNoRows so services can
// distinguish "gone" from store faults.
func requireRowAffected(res sql.Result, op, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s post %q: rows affected: %w", op, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s post %q: %w", op, id, sql.ErrNoRows)
	}
	return nil
}
