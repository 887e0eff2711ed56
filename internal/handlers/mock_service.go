package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sreecharan-desu/echo.Ink/internal/models"
	"github.com/sreecharan-desu/echo.Ink/internal/service"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error
	profile       *models.Profile
	profileErr    error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
	lastCurrentUserID  int
}

func (m *mockAuth) SignUp(ctx context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}

func (m *mockAuth) GenerateToken(ctx context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}

func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

func (m *mockAuth) CurrentUser(ctx context.Context, userID int) (*models.Profile, error) {
	m.lastCurrentUserID = userID
	return m.profile, m.profileErr
}

type mockPosts struct {
	createPost *models.Post
	createErr  error
	getPost    *models.Post
	getErr     error
	listResp   []models.Post
	listErr    error
	updateErr  error
	deleteErr  error
	profile    *models.Profile
	profileErr error

	lastCreateAuthorID int
	lastCreateInput    service.PostInput
	lastGetID          string
	lastUpdateUserID   int
	lastUpdateID       string
	lastUpdateInput    service.PostInput
	lastDeleteUserID   int
	lastDeleteID       string
	lastProfileName    string

	createCalls int
	updateCalls int
	deleteCalls int
}

func (m *mockPosts) Create(ctx context.Context, authorID int, in service.PostInput) (*models.Post, error) {
	m.createCalls++
	m.lastCreateAuthorID = authorID
	m.lastCreateInput = in
	return m.createPost, m.createErr
}

func (m *mockPosts) Get(ctx context.Context, id string) (*models.Post, error) {
	m.lastGetID = id
	return m.getPost, m.getErr
}

func (m *mockPosts) List(ctx context.Context) ([]models.Post, error) {
	return m.listResp, m.listErr
}

func (m *mockPosts) Update(ctx context.Context, userID int, id string, in service.PostInput) error {
	m.updateCalls++
	m.lastUpdateUserID = userID
	m.lastUpdateID = id
	m.lastUpdateInput = in
	return m.updateErr
}

func (m *mockPosts) Delete(ctx context.Context, userID int, id string) error {
	m.deleteCalls++
	m.lastDeleteUserID = userID
	m.lastDeleteID = id
	return m.deleteErr
}

func (m *mockPosts) Profile(ctx context.Context, username string) (*models.Profile, error) {
	m.lastProfileName = username
	return m.profile, m.profileErr
}

type mockFeed struct {
	published []service.FeedEvent
	events    chan service.FeedEvent
}

func newMockFeed() *mockFeed {
	return &mockFeed{events: make(chan service.FeedEvent, 8)}
}

func (m *mockFeed) Subscribe() (<-chan service.FeedEvent, func()) {
	return m.events, func() {}
}

func (m *mockFeed) Publish(ev service.FeedEvent) {
	m.published = append(m.published, ev)
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
