package integration

import (
	"context"
	"database/sql"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/projectcostai/projectcostai/internal/api/handlers"
	"github.com/projectcostai/projectcostai/internal/api/middleware"
	"github.com/projectcostai/projectcostai/internal/api/router"
	"github.com/projectcostai/projectcostai/internal/auth"
	"github.com/projectcostai/projectcostai/internal/config"
	"github.com/projectcostai/projectcostai/internal/domain/user"
	"github.com/projectcostai/projectcostai/internal/estimation"
	"github.com/projectcostai/projectcostai/internal/pkg/logger"
	"github.com/projectcostai/projectcostai/internal/pkg/validator"
	"github.com/projectcostai/projectcostai/internal/ratelimit"
	"github.com/projectcostai/projectcostai/internal/repository/postgres"
	"github.com/projectcostai/projectcostai/internal/services"
	"github.com/projectcostai/projectcostai/internal/settings"
	"github.com/projectcostai/projectcostai/internal/storage"
	"github.com/projectcostai/projectcostai/internal/testutil"
	"github.com/projectcostai/projectcostai/pkg/client"
)

const testSecret = "integration-test-secret"

type testServer struct {
	URL     string
	db      *sql.DB
	limiter *ratelimit.MemoryStore
}

// newTestServer runs the full router against an in-memory database and
// the heuristic estimator. The estimation window allows limit requests
// per minute.
func newTestServer(t *testing.T, limit int) *testServer {
	t.Helper()
	return newTestServerWith(t, serverOptions{limit: limit})
}

type serverOptions struct {
	limit      int
	trustProxy bool
}

func newTestServerWith(t *testing.T, opts serverOptions) *testServer {
	t.Helper()

	db := testutil.NewTestDB(t)
	log := logger.New(logger.Config{Level: "disabled"})
	val := validator.New()
	ttl := time.Hour

	users := postgres.NewUserRepository(db)
	predictions := postgres.NewPredictionRepository(db)
	tokens := auth.NewTokenIssuer(testSecret, ttl)

	userService := services.NewUserService(users, tokens, 4, log)
	predictionService := services.NewPredictionService(predictions, users, estimation.NewHeuristic(0), log)

	uploadDir := t.TempDir()
	uploads, err := storage.NewLocal(uploadDir, "/uploads")
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}

	h := &router.Handlers{
		Health:     handlers.NewHealthHandler(map[string]handlers.Pinger{"database": db}, log),
		Auth:       handlers.NewAuthHandler(userService, log, val, ttl, false),
		Prediction: handlers.NewPredictionHandler(predictionService, log, val),
		History:    handlers.NewHistoryHandler(predictionService),
		Report:     handlers.NewReportHandler(predictionService, log),
		Admin:      handlers.NewAdminHandler(userService, predictionService),
		Settings:   handlers.NewSettingsHandler(settings.NewStore()),
		User:       handlers.NewUserHandler(userService, val),
		Upload:     handlers.NewUploadHandler(uploads, 1<<20, log),
	}

	limiter := ratelimit.NewMemoryStore(ratelimit.Config{Max: opts.limit, Window: time.Minute})
	cfg := &config.Config{Server: config.ServerConfig{
		FrontendURL: "http://localhost:3000",
		TrustProxy:  opts.trustProxy,
	}}

	ts := httptest.NewServer(router.New(cfg, log, h, router.Guards{
		Tokens:    tokens,
		Roles:     userService,
		Window:    limiter,
		Flood:     middleware.NewFloodGuard(1000, 1000),
		UploadDir: uploadDir,
	}))
	t.Cleanup(ts.Close)

	return &testServer{URL: ts.URL, db: db, limiter: limiter}
}

func (s *testServer) client() *client.Client {
	return client.NewClient(client.Config{BaseURL: s.URL, Timeout: 10 * time.Second})
}

// signup registers a fresh account and returns a client holding its token
func (s *testServer) signup(t *testing.T, name, email string) (*client.Client, *client.User) {
	t.Helper()

	c := s.client()
	resp, err := c.Signup(context.Background(), client.SignupRequest{Name: name, Email: email, Password: "secret1"})
	if err != nil {
		t.Fatalf("Signup(%s) error = %v", email, err)
	}
	return c, resp.User
}

// admin inserts an admin account directly and logs it in
func (s *testServer) admin(t *testing.T) *client.Client {
	t.Helper()

	hash, err := auth.HashPassword("rootpass", 4)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	u := &user.User{Name: "Root", Email: "root@gmail.com", PasswordHash: hash, Role: user.RoleAdmin, Provider: user.ProviderLocal}
	if err := postgres.NewUserRepository(s.db).Create(context.Background(), u); err != nil {
		t.Fatalf("Create admin error = %v", err)
	}

	c := s.client()
	if _, err := c.Login(context.Background(), "root@gmail.com", "rootpass"); err != nil {
		t.Fatalf("admin Login() error = %v", err)
	}
	return c
}

func referenceInput() client.ProjectInput {
	return client.ProjectInput{
		HoursSpent:  150,
		TaskCount:   25,
		Budget:      5000,
		Priority:    "Medium",
		Title:       "Billing revamp",
		TeamMembers: 4,
	}
}

func referenceParams() client.ProjectParams {
	return client.ProjectParams{
		Title:            "Warehouse portal",
		ProjectType:      "Software",
		TeamSize:         5,
		EstimatedHours:   600,
		ComplexityLevel:  "High",
		ExperienceLevel:  "Mid",
		NumberOfFeatures: 12,
		TechStack:        []string{"Go", "React"},
	}
}
