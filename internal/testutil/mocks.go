package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/projectcostai/projectcostai/internal/domain/prediction"
	"github.com/projectcostai/projectcostai/internal/domain/user"
	"github.com/projectcostai/projectcostai/internal/pkg/errors"
)

// MockUserRepository is an in-memory user.Repository. The *Error fields
// force the matching method to fail.
type MockUserRepository struct {
	mu          sync.Mutex
	Users       map[string]*user.User
	EmailIndex  map[string]*user.User
	CreateError error
	GetError    error
	UpdateError error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:      make(map[string]*user.User),
		EmailIndex: make(map[string]*user.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateError != nil {
		return m.CreateError
	}
	if _, taken := m.EmailIndex[u.Email]; taken {
		return errors.Conflict("Email exists")
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = user.RoleUser
	}
	if u.Provider == "" {
		u.Provider = user.ProviderLocal
	}
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	m.Users[u.ID] = u
	m.EmailIndex[u.Email] = u
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	u, ok := m.Users[id]
	if !ok {
		return nil, errors.NotFound("User")
	}
	return u, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	u, ok := m.EmailIndex[email]
	if !ok {
		return nil, errors.NotFound("User")
	}
	return u, nil
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateError != nil {
		return m.UpdateError
	}
	old, ok := m.Users[u.ID]
	if !ok {
		return errors.NotFound("User")
	}
	delete(m.EmailIndex, old.Email)
	u.UpdatedAt = time.Now().UTC()
	m.Users[u.ID] = u
	m.EmailIndex[u.Email] = u
	return nil
}

func (m *MockUserRepository) IncrementLoginCount(ctx context.Context, id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateError != nil {
		return 0, m.UpdateError
	}
	u, ok := m.Users[id]
	if !ok {
		return 0, errors.NotFound("User")
	}
	u.LoginCount++
	return u.LoginCount, nil
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*user.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*user.User, 0, len(m.Users))
	for _, u := range m.Users {
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return page(result, limit, offset), int64(len(result)), nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return 0, m.GetError
	}
	return int64(len(m.Users)), nil
}

// MockPredictionRepository is an in-memory prediction.Repository
type MockPredictionRepository struct {
	mu          sync.Mutex
	Predictions map[string]*prediction.Prediction
	CreateError error
	UpdateError error
	GetError    error
	DeleteError error

	// Updates counts successful Update calls
	Updates int
}

func NewMockPredictionRepository() *MockPredictionRepository {
	return &MockPredictionRepository{
		Predictions: make(map[string]*prediction.Prediction),
	}
}

func (m *MockPredictionRepository) Create(ctx context.Context, p *prediction.Prediction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateError != nil {
		return m.CreateError
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.Predictions[p.ID] = &cp
	return nil
}

func (m *MockPredictionRepository) GetByID(ctx context.Context, id string) (*prediction.Prediction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	p, ok := m.Predictions[id]
	if !ok {
		return nil, errors.NotFound("Prediction")
	}
	cp := *p
	return &cp, nil
}

func (m *MockPredictionRepository) Update(ctx context.Context, p *prediction.Prediction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateError != nil {
		return m.UpdateError
	}
	stored, ok := m.Predictions[p.ID]
	if !ok {
		return errors.NotFound("Prediction")
	}
	p.UpdatedAt = time.Now().UTC()
	stored.Outputs = p.Outputs
	stored.Status = p.Status
	stored.UpdatedAt = p.UpdatedAt
	m.Updates++
	return nil
}

func (m *MockPredictionRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DeleteError != nil {
		return m.DeleteError
	}
	if _, ok := m.Predictions[id]; !ok {
		return errors.NotFound("Prediction")
	}
	delete(m.Predictions, id)
	return nil
}

func (m *MockPredictionRepository) List(ctx context.Context, f prediction.Filter) ([]*prediction.Prediction, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []*prediction.Prediction
	for _, p := range m.Predictions {
		if f.UserID != "" && p.UserID != f.UserID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		cp := *p
		result = append(result, &cp)
	}
	sortNewestFirst(result)
	return page(result, f.Limit, f.Offset), int64(len(result)), nil
}

func (m *MockPredictionRepository) ListByIDsForUser(ctx context.Context, ids []string, userID string) ([]*prediction.Prediction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := []*prediction.Prediction{}
	for _, id := range ids {
		if p, ok := m.Predictions[id]; ok && p.UserID == userID {
			cp := *p
			result = append(result, &cp)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (m *MockPredictionRepository) CountByStatus(ctx context.Context, status prediction.Status) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, p := range m.Predictions {
		if p.Status == status {
			n++
		}
	}
	return n, nil
}

// Get returns the stored record without copying, or nil
func (m *MockPredictionRepository) Get(id string) *prediction.Prediction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Predictions[id]
}

func sortNewestFirst(list []*prediction.Prediction) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// FailingEstimator fails every call with Err, or a generic upstream error
type FailingEstimator struct {
	Err error
}

func (f *FailingEstimator) err() error {
	if f.Err != nil {
		return f.Err
	}
	return fmt.Errorf("estimation service unavailable")
}

func (f *FailingEstimator) PredictRisk(ctx context.Context, in prediction.ProjectParams) (*prediction.RiskAssessment, error) {
	return nil, f.err()
}

func (f *FailingEstimator) PredictCost(ctx context.Context, in prediction.ProjectParams) (*prediction.CostEstimate, error) {
	return nil, f.err()
}

func (f *FailingEstimator) PredictTimeline(ctx context.Context, in prediction.ProjectParams) (*prediction.Timeline, error) {
	return nil, f.err()
}

func (f *FailingEstimator) GenerateRecommendations(ctx context.Context, in prediction.ProjectParams) ([]string, error) {
	return nil, f.err()
}

func (f *FailingEstimator) PredictProject(ctx context.Context, in prediction.NumericInput) (*prediction.NumericEstimate, error) {
	return nil, f.err()
}
