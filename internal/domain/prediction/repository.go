package prediction

import "context"

// Repository defines the interface for prediction persistence. Every
// method is a single independent write or read.
type Repository interface {
	Create(ctx context.Context, p *Prediction) error

	GetByID(ctx context.Context, id string) (*Prediction, error)

	// Update replaces outputs, status and updatedAt of an existing record.
	Update(ctx context.Context, p *Prediction) error

	Delete(ctx context.Context, id string) error

	// List returns predictions matching f, newest first, plus the total
	// number of matches ignoring Limit and Offset.
	List(ctx context.Context, f Filter) ([]*Prediction, int64, error)

	// ListByIDsForUser returns the predictions among ids owned by userID.
	ListByIDsForUser(ctx context.Context, ids []string, userID string) ([]*Prediction, error)

	CountByStatus(ctx context.Context, status Status) (int64, error)
}
