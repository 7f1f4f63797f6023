package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/projectcostai/projectcostai/internal/api/middleware"
	"github.com/projectcostai/projectcostai/internal/auth"
	"github.com/projectcostai/projectcostai/internal/domain/prediction"
	"github.com/projectcostai/projectcostai/internal/domain/user"
	"github.com/projectcostai/projectcostai/internal/estimation"
	"github.com/projectcostai/projectcostai/internal/pkg/logger"
	"github.com/projectcostai/projectcostai/internal/services"
	"github.com/projectcostai/projectcostai/internal/testutil"
)

var (
	alice = auth.Identity{UserID: "alice", Email: "alice@gmail.com", Role: user.RoleUser}
	bob   = auth.Identity{UserID: "bob", Email: "bob@gmail.com", Role: user.RoleUser}
	admin = auth.Identity{UserID: "root", Email: "root@gmail.com", Role: user.RoleAdmin}
)

func newTestLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "disabled", Format: "json"})
}

func newTestPredictionService(est estimation.Estimator) (prediction.Service, *testutil.MockPredictionRepository, *testutil.MockUserRepository) {
	repo := testutil.NewMockPredictionRepository()
	users := testutil.NewMockUserRepository()
	return services.NewPredictionService(repo, users, est, newTestLogger()), repo, users
}

// serve routes one request through a chi router so URL params resolve. A
// nil identity sends the request unauthenticated.
func serve(t *testing.T, method, pattern, target string, h http.HandlerFunc, id *auth.Identity, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(data)
	}

	r := chi.NewRouter()
	r.Method(method, pattern, h)

	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), *id))
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return out
}

func errorMessage(t *testing.T, body map[string]interface{}) string {
	t.Helper()
	e, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no error object: %v", body)
	}
	msg, _ := e["message"].(string)
	return msg
}

func seedPrediction(t *testing.T, repo *testutil.MockPredictionRepository, owner string) *prediction.Prediction {
	t.Helper()
	p := &prediction.Prediction{
		UserID:      owner,
		Title:       "Checkout rewrite",
		ProjectType: prediction.ProjectTypeSoftware,
		Inputs:      map[string]interface{}{"hoursSpent": 150.0, "budget": 5000.0},
		Outputs: prediction.Outputs{
			Cost:     &prediction.CostEstimate{EstimatedCost: 11500, Currency: "USD", Confidence: 85},
			Timeline: &prediction.Timeline{EstimatedDurationDays: 234.4},
		},
		Status:    prediction.StatusCompleted,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("Failed to seed prediction: %v", err)
	}
	return p
}
