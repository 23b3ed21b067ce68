package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	httptransport "github.com/spec-kit/restaurant-service/internal/api/http"
	"github.com/spec-kit/restaurant-service/internal/api/http/handlers"
	"github.com/spec-kit/restaurant-service/internal/auth"
	"github.com/spec-kit/restaurant-service/internal/config"
	"github.com/spec-kit/restaurant-service/internal/domain"
	"github.com/spec-kit/restaurant-service/internal/events"
	"github.com/spec-kit/restaurant-service/internal/persistence"
	"github.com/spec-kit/restaurant-service/internal/service"
)

type memoryRepo struct {
	byEmail map[string]*domain.Account
	nextID  int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byEmail: make(map[string]*domain.Account)}
}

func (m *memoryRepo) Create(_ context.Context, account *domain.Account) error {
	m.nextID++
	account.ID = "acct-" + strconv.Itoa(m.nextID)
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	m.byEmail[account.Email] = account
	return nil
}

func (m *memoryRepo) Update(_ context.Context, account *domain.Account) error {
	m.byEmail[account.Email] = account
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	for _, account := range m.byEmail {
		if account.ID == id {
			return account, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	account, ok := m.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return account, nil
}

func (m *memoryRepo) UpdateApprovalStatus(_ context.Context, id string, status domain.ApprovalStatus) error {
	for _, account := range m.byEmail {
		if account.ID == id {
			account.ApprovalStatus = status
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *memoryRepo) ListByStatus(_ context.Context, status domain.ApprovalStatus, _, _ int) ([]*domain.Account, error) {
	var out []*domain.Account
	for _, account := range m.byEmail {
		if account.ApprovalStatus == status {
			out = append(out, account)
		}
	}
	return out, nil
}

func newTestApp(t *testing.T, repo *memoryRepo) *fiber.App {
	t.Helper()

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "router-test-secret",
			AccessTokenTTLMinutes: 5,
			BcryptCost:            bcrypt.MinCost,
			PublicPathPrefixes:    []string{"/auth/register", "/auth/login"},
		},
	}

	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher()
	limiter := service.NewLoginLimiter(nil, logger, 0, time.Minute)
	authService := service.NewAuthService(cfg, service.AuthDependencies{
		AccountRepo: repo,
		Limiter:     limiter,
		Dispatcher:  dispatcher,
	})
	accountService := service.NewAccountService(repo, dispatcher)
	gate := auth.NewRequestGate(authService.TokenManager(), repo, logger, cfg.Auth.PublicPathPrefixes)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, nil, 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler("test", "dev", &persistence.Postgres{}, &persistence.Redis{}),
		Auth:    handlers.NewAuthHandler(authService),
		Profile: handlers.NewProfileHandler(),
		Admin:   handlers.NewAdminHandler(accountService),
		Gate:    gate,
	})
	return app
}

func seedAdmin(t *testing.T, repo *memoryRepo) {
	t.Helper()
	hash, err := auth.HashPassword("admin-pass", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing admin password: %v", err)
	}
	if err := repo.Create(context.Background(), &domain.Account{
		Name:           "Admin",
		Email:          "admin@example.com",
		PasswordHash:   hash,
		Role:           domain.RoleAdmin,
		ApprovalStatus: domain.ApprovalStatusApproved,
	}); err != nil {
		t.Fatalf("seeding admin: %v", err)
	}
}

func jsonRequest(t *testing.T, app *fiber.App, method, path, bearer string, payload any) (*http.Response, map[string]any) {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshaling payload: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}

	var parsed map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&parsed)
	return resp, parsed
}

func loginToken(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	resp, body := jsonRequest(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status = %d, body: %v", email, resp.StatusCode, body)
	}
	data := body["data"].(map[string]any)
	authData := data["auth"].(map[string]any)
	return authData["token"].(string)
}

func TestRegistrationApprovalAdmissionFlow(t *testing.T) {
	t.Parallel()

	repo := newMemoryRepo()
	seedAdmin(t, repo)
	app := newTestApp(t, repo)

	// Registration is public and creates a PENDING account.
	resp, body := jsonRequest(t, app, http.MethodPost, "/auth/register", "", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "s3cret",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: status = %d, body: %v", resp.StatusCode, body)
	}
	accountData := body["data"].(map[string]any)["account"].(map[string]any)
	accountID := accountData["id"].(string)
	if accountData["approval_status"] != "PENDING" {
		t.Fatalf("approval_status = %v, want PENDING", accountData["approval_status"])
	}

	// Login works before approval, but the token is useless at the gate.
	aliceToken := loginToken(t, app, "alice@example.com", "s3cret")

	resp, body = jsonRequest(t, app, http.MethodGet, "/api/profile", aliceToken, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("pending profile: status = %d, want 401; body: %v", resp.StatusCode, body)
	}
	if code := body["error"].(map[string]any)["code"]; code != "APPROVAL_PENDING" {
		t.Fatalf("error code = %v, want APPROVAL_PENDING", code)
	}

	// Admin approves the account.
	adminToken := loginToken(t, app, "admin@example.com", "admin-pass")
	resp, body = jsonRequest(t, app, http.MethodPost, "/api/admin/accounts/"+accountID+"/approval", adminToken, map[string]string{
		"status": "APPROVED",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("approval: status = %d, body: %v", resp.StatusCode, body)
	}

	// The same token is now admitted; approval state is re-read per request.
	resp, body = jsonRequest(t, app, http.MethodGet, "/api/profile", aliceToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("approved profile: status = %d, body: %v", resp.StatusCode, body)
	}
	profile := body["data"].(map[string]any)["account"].(map[string]any)
	if profile["email"] != "alice@example.com" {
		t.Errorf("profile email = %v, want alice@example.com", profile["email"])
	}
}

func TestAdminEndpointsRequireAuthority(t *testing.T) {
	t.Parallel()

	repo := newMemoryRepo()
	seedAdmin(t, repo)

	hash, err := auth.HashPassword("s3cret", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	if err := repo.Create(context.Background(), &domain.Account{
		Name:           "Carol",
		Email:          "carol@example.com",
		PasswordHash:   hash,
		Role:           domain.RoleCustomer,
		ApprovalStatus: domain.ApprovalStatusApproved,
	}); err != nil {
		t.Fatalf("seeding customer: %v", err)
	}

	app := newTestApp(t, repo)

	carolToken := loginToken(t, app, "carol@example.com", "s3cret")
	resp, _ := jsonRequest(t, app, http.MethodGet, "/api/admin/accounts", carolToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("customer on admin route: status = %d, want 403", resp.StatusCode)
	}

	// Anonymous requests pass the gate but fail the downstream guard.
	resp, _ = jsonRequest(t, app, http.MethodGet, "/api/admin/accounts", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("anonymous on admin route: status = %d, want 401", resp.StatusCode)
	}

	adminToken := loginToken(t, app, "admin@example.com", "admin-pass")
	resp, body := jsonRequest(t, app, http.MethodGet, "/api/admin/accounts?status=APPROVED", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin list: status = %d, body: %v", resp.StatusCode, body)
	}
}

func TestProfileRequiresIdentity(t *testing.T) {
	t.Parallel()

	repo := newMemoryRepo()
	app := newTestApp(t, repo)

	resp, body := jsonRequest(t, app, http.MethodGet, "/api/profile", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous profile: status = %d, want 401; body: %v", resp.StatusCode, body)
	}
}

func TestHealthLive(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, newMemoryRepo())
	resp, body := jsonRequest(t, app, http.MethodGet, "/health/live", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("live: status = %d, body: %v", resp.StatusCode, body)
	}
	if body["status"] != "alive" {
		t.Errorf("status field = %v, want alive", body["status"])
	}
}
