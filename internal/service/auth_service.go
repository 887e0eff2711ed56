package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/sreecharan-desu/echo.Ink/internal/models"
	"github.com/sreecharan-desu/echo.Ink/internal/repository"
)

// Credential shape limits, matching the signup form.
const (
	minUsernameLen = 3
	maxUsernameLen = 20
	minPasswordLen = 8
	maxPasswordLen = 20
)

// bcryptCost is pinned rather than bcrypt.DefaultCost so hashes stay
// compatible with accounts created by earlier deployments.
const bcryptCost = 10

// Domain errors for auth flows.
var (
	ErrValidation      = errors.New("invalid input")
	ErrUserExists      = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user does not exist")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidToken    = errors.New("invalid token")
)

// AuthService handles user auth logic
type AuthService struct {
	users repository.Users
	posts repository.Posts
	cfg   AuthConfig
}

func NewAuthService(users repository.Users, posts repository.Posts, cfg AuthConfig) *AuthService {
	return &AuthService{users: users, posts: posts, cfg: cfg}
}

// SignUp validates the credentials, hashes the password and creates the user.
// A lost race on the username UNIQUE constraint is reported as ErrUserExists,
// same as the pre-check.
func (s *AuthService) SignUp(ctx context.Context, username, password string) (int, error) {
	if err := validateCredentials(username, password); err != nil {
		return 0, err
	}

	ctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, ErrUserExists
	}

	hash, err := hashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.users.Create(ctx, username, hash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return 0, ErrUserExists
		}
		return 0, err
	}
	return id, nil
}

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
	UserID int `json:"id"`
}

// GenerateToken validates credentials and returns a signed JWT.
func (s *AuthService) GenerateToken(ctx context.Context, username, password string) (string, error) {
	ctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrUserNotFound
	}

	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return "", ErrInvalidPassword
	}

	return s.issueToken(u.ID)
}

// ParseToken verifies signature, algorithm and expiry, and returns the userID.
func (s *AuthService) ParseToken(accessToken string) (int, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SigningKey), nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}

	return claims.UserID, nil
}

// CurrentUser loads the authenticated user's profile with their posts.
func (s *AuthService) CurrentUser(ctx context.Context, userID int) (*models.Profile, error) {
	ctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		// Token outlived its account; treat as a bad credential.
		return nil, ErrUserNotFound
	}

	posts, err := s.posts.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.Profile{Author: u.Public(), Posts: posts}, nil
}

// validateCredentials enforces the signup shape constraints.
func validateCredentials(username, password string) error {
	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		return fmt.Errorf("%w: username must be %d-%d characters", ErrValidation, minUsernameLen, maxUsernameLen)
	}
	if n := utf8.RuneCountInString(password); n < minPasswordLen || n > maxPasswordLen {
		return fmt.Errorf("%w: password must be %d-%d characters", ErrValidation, minPasswordLen, maxPasswordLen)
	}
	return nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// helper: verify password against hash. A malformed stored hash is a
// mismatch, never a fatal error.
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// helper: issue a signed JWT for a user
func (s *AuthService) issueToken(userID int) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
	})
	return token.SignedString([]byte(s.cfg.SigningKey))
}
