package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/projectcostai/projectcostai/internal/domain/prediction"
	"github.com/projectcostai/projectcostai/internal/pkg/errors"
	"github.com/projectcostai/projectcostai/internal/testutil"
)

func newPrediction(userID, title string, created time.Time) *prediction.Prediction {
	return &prediction.Prediction{
		UserID:      userID,
		Title:       title,
		ProjectType: prediction.ProjectTypeSoftware,
		Inputs:      map[string]interface{}{"hoursSpent": 150.0, "priority": "Medium"},
		Status:      prediction.StatusPendingML,
		CreatedAt:   created,
	}
}

func TestPredictionRepository_CreateGetUpdate(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPredictionRepository(db)
	ctx := context.Background()

	p := newPrediction("u-1", "Billing", time.Now())
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.ID == "" {
		t.Fatal("Create() did not set ID")
	}

	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != prediction.StatusPendingML || !got.Outputs.IsEmpty() {
		t.Errorf("pending record = %+v", got)
	}
	if got.Inputs["priority"] != "Medium" || got.Inputs["hoursSpent"] != 150.0 {
		t.Errorf("Inputs = %v", got.Inputs)
	}

	got.Status = prediction.StatusCompleted
	got.Outputs.Cost = &prediction.CostEstimate{EstimatedCost: 11500, Currency: "USD"}
	got.Outputs.Timeline = &prediction.Timeline{EstimatedDurationDays: 234.4}
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	reloaded, _ := repo.GetByID(ctx, p.ID)
	if reloaded.Status != prediction.StatusCompleted {
		t.Errorf("Status = %s", reloaded.Status)
	}
	if reloaded.Outputs.Cost == nil || reloaded.Outputs.Cost.EstimatedCost != 11500 {
		t.Errorf("Cost = %+v", reloaded.Outputs.Cost)
	}
	if reloaded.Outputs.Risk != nil {
		t.Errorf("Risk = %+v, want nil", reloaded.Outputs.Risk)
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("GetByID(missing) error = %v", err)
	}
}

func TestPredictionRepository_ListAndCompare(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPredictionRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	p1 := newPrediction("alice", "first", base)
	p2 := newPrediction("alice", "second", base.Add(time.Minute))
	p3 := newPrediction("bob", "other", base.Add(2*time.Minute))
	for _, p := range []*prediction.Prediction{p1, p2, p3} {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	list, total, err := repo.List(ctx, prediction.Filter{UserID: "alice"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Fatalf("List(alice) = %d items, total %d", len(list), total)
	}
	if list[0].ID != p2.ID {
		t.Errorf("List() not newest first: %s", list[0].Title)
	}

	all, total, _ := repo.List(ctx, prediction.Filter{Limit: 1})
	if total != 3 || len(all) != 1 || all[0].ID != p3.ID {
		t.Errorf("List(limit 1) = %d items, total %d", len(all), total)
	}

	cmp, err := repo.ListByIDsForUser(ctx, []string{p1.ID, p3.ID, "missing"}, "alice")
	if err != nil {
		t.Fatalf("ListByIDsForUser() error = %v", err)
	}
	if len(cmp) != 1 || cmp[0].ID != p1.ID {
		t.Errorf("ListByIDsForUser() = %v", cmp)
	}

	n, err := repo.CountByStatus(ctx, prediction.StatusPendingML)
	if err != nil || n != 3 {
		t.Errorf("CountByStatus() = %d, %v", n, err)
	}
}

func TestPredictionRepository_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPredictionRepository(db)
	ctx := context.Background()

	p := newPrediction("alice", "doomed", time.Now())
	_ = repo.Create(ctx, p)

	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(ctx, p.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("second Delete() error = %v, want not found", err)
	}
}
