package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sreecharan-desu/echo.Ink/internal/models"
	"github.com/sreecharan-desu/echo.Ink/internal/repository"
	"github.com/sreecharan-desu/echo.Ink/internal/service"
)

// ---- in-memory stores implementing the repository interfaces ----

type memUsers struct {
	mu     sync.Mutex
	nextID int
	byName map[string]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{nextID: 1, byName: make(map[string]*models.User)}
}

func (m *memUsers) Create(ctx context.Context, username, hash string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[username]; ok {
		return 0, repository.ErrDuplicateUsername
	}
	u := &models.User{ID: m.nextID, Username: username, PasswordHash: hash, CreatedOn: time.Now().UTC()}
	m.nextID++
	m.byName[username] = u
	return u.ID, nil
}

func (m *memUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byName[username]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memUsers) GetByID(ctx context.Context, id int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byName {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

type memPosts struct {
	mu   sync.Mutex
	byID map[string]*models.Post
}

func newMemPosts() *memPosts { return &memPosts{byID: make(map[string]*models.Post)} }

func (m *memPosts) Create(ctx context.Context, p models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memPosts) GetByID(ctx context.Context, id string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *memPosts) List(ctx context.Context) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Post, 0, len(m.byID))
	for _, p := range m.byID {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PostedOn.After(out[j].PostedOn) })
	return out, nil
}

func (m *memPosts) ListByAuthor(ctx context.Context, authorID int) ([]models.Post, error) {
	all, _ := m.List(ctx)
	out := make([]models.Post, 0, len(all))
	for _, p := range all {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPosts) Update(ctx context.Context, p models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[p.ID]; !ok {
		return fmt.Errorf("update post %q: %w", p.ID, sql.ErrNoRows)
	}
	cp := p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memPosts) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return fmt.Errorf("delete post %q: %w", id, sql.ErrNoRows)
	}
	delete(m.byID, id)
	return nil
}

// ---- the full signup → signin → me → mutate flow over real services ----

func newRealRouter() *gin.Engine {
	repos := &repository.Repository{Users: newMemUsers(), Posts: newMemPosts()}
	services := service.NewService(repos, service.AuthConfig{
		SigningKey: "integration-secret",
		TokenTTL:   time.Hour,
	})
	gin.SetMode(gin.TestMode)
	return NewHandler(services, nil).InitRoutes()
}

func postJSON(t *testing.T, r http.Handler, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func signupAndSignin(t *testing.T, r http.Handler, username, password string) string {
	t.Helper()
	creds := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)

	if w := postJSON(t, r, "/signup", creds, ""); w.Code != http.StatusOK {
		t.Fatalf("signup %s: status=%d body=%s", username, w.Code, w.Body.String())
	}

	w := postJSON(t, r, "/signin", creds, "")
	if w.Code != http.StatusOK {
		t.Fatalf("signin %s: status=%d body=%s", username, w.Code, w.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal signin: %v", err)
	}
	if out.Token == "" {
		t.Fatalf("signin %s returned empty token", username)
	}
	return out.Token
}

func TestEndToEnd_AuthAndOwnership(t *testing.T) {
	r := newRealRouter()

	aliceToken := signupAndSignin(t, r, "alice", "password1")
	bobToken := signupAndSignin(t, r, "bob", "password2")

	// Duplicate signup conflicts and creates no second account.
	if w := postJSON(t, r, "/signup", `{"username":"alice","password":"password9"}`, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate signup: status=%d body=%s", w.Code, w.Body.String())
	}

	// Wrong password and unknown user map to distinct statuses.
	if w := postJSON(t, r, "/signin", `{"username":"alice","password":"wrongpass1"}`, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: status=%d body=%s", w.Code, w.Body.String())
	}
	if w := postJSON(t, r, "/signin", `{"username":"nobody","password":"password1"}`, ""); w.Code != http.StatusNotFound {
		t.Fatalf("unknown user: status=%d body=%s", w.Code, w.Body.String())
	}

	// /me reflects the token's identity.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+aliceToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("/me: status=%d body=%s", w.Code, w.Body.String())
	}
	var meOut struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &meOut)
	if meOut.User.Username != "alice" {
		t.Fatalf("/me returned %q, want alice", meOut.User.Username)
	}

	// Bob writes a post.
	w = postJSON(t, r, "/post", `{"title":"bobs post","data":"# hello","tags":["go"]}`, bobToken)
	if w.Code != http.StatusOK {
		t.Fatalf("create: status=%d body=%s", w.Code, w.Body.String())
	}

	// Find its id via the public listing.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/posts", nil)
	r.ServeHTTP(w, req)
	var listOut struct {
		Posts []models.Post `json:"posts"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &listOut)
	if len(listOut.Posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(listOut.Posts))
	}
	postID := listOut.Posts[0].ID

	// Alice must not be able to touch Bob's post.
	update := `{"title":"hijacked","data":"x"}`
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/post/"+postID, bytes.NewBufferString(update))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+aliceToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("cross-user update: status=%d body=%s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/post/"+postID, nil)
	req.Header.Set("Authorization", "Bearer "+aliceToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("cross-user delete: status=%d body=%s", w.Code, w.Body.String())
	}

	// Bob can.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/post/"+postID, bytes.NewBufferString(update))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bobToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("owner update: status=%d body=%s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/post/"+postID, nil)
	req.Header.Set("Authorization", "Bearer "+bobToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("owner delete: status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestEndToEnd_TokenFromDifferentSecretRejected(t *testing.T) {
	r := newRealRouter()
	_ = signupAndSignin(t, r, "alice", "password1")

	// Token minted by another deployment with a different signing key.
	otherRepos := &repository.Repository{Users: newMemUsers(), Posts: newMemPosts()}
	other := service.NewService(otherRepos, service.AuthConfig{
		SigningKey: "some-other-secret",
		TokenTTL:   time.Hour,
	})
	if w := postJSON(t, r, "/signup", `{"username":"mallory","password":"password1"}`, ""); w.Code != http.StatusOK {
		t.Fatalf("signup mallory: %d", w.Code)
	}
	foreignToken, err := other.GenerateToken(context.Background(), "x", "y")
	if err == nil {
		t.Fatalf("expected no account in the other deployment, got token %q", foreignToken)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.real-token")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("garbled token: status=%d body=%s", w.Code, w.Body.String())
	}
}
