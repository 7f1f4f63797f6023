package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/projectcostai/projectcostai/internal/domain/prediction"
	"github.com/projectcostai/projectcostai/internal/pkg/errors"
)

const predictionColumns = `id, user_id, title, project_type, inputs, outputs, status, created_at, updated_at`

// PredictionRepository implements prediction.Repository. Inputs and outputs
// are stored as JSON text.
type PredictionRepository struct {
	db *sql.DB
}

func NewPredictionRepository(db *sql.DB) prediction.Repository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) Create(ctx context.Context, p *prediction.Prediction) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.UpdatedAt = p.CreatedAt

	inputs, outputs, err := marshalPayload(p)
	if err != nil {
		return errors.Internal("Failed to encode prediction", err)
	}

	query := `
		INSERT INTO predictions (` + predictionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.db.ExecContext(ctx, query,
		p.ID, p.UserID, p.Title, string(p.ProjectType), inputs, outputs, string(p.Status),
		toMillis(p.CreatedAt), toMillis(p.UpdatedAt),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create prediction", err)
	}
	return nil
}

func (r *PredictionRepository) GetByID(ctx context.Context, id string) (*prediction.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE id = $1`
	p, err := scanPrediction(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Prediction")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get prediction", err)
	}
	return p, nil
}

func (r *PredictionRepository) Update(ctx context.Context, p *prediction.Prediction) error {
	p.UpdatedAt = time.Now().UTC()

	_, outputs, err := marshalPayload(p)
	if err != nil {
		return errors.Internal("Failed to encode prediction", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE predictions SET outputs = $1, status = $2, updated_at = $3 WHERE id = $4`,
		outputs, string(p.Status), toMillis(p.UpdatedAt), p.ID,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update prediction", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errors.NotFound("Prediction")
	}
	return nil
}

func (r *PredictionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM predictions WHERE id = $1`, id)
	if err != nil {
		return errors.DatabaseError("Failed to delete prediction", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errors.NotFound("Prediction")
	}
	return nil
}

func (r *PredictionRepository) List(ctx context.Context, f prediction.Filter) ([]*prediction.Prediction, int64, error) {
	var where []string
	var args []interface{}
	if f.UserID != "" {
		args = append(args, f.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM predictions`+clause, args...).Scan(&total); err != nil {
		return nil, 0, errors.DatabaseError("Failed to count predictions", err)
	}

	query := `SELECT ` + predictionColumns + ` FROM predictions` + clause + ` ORDER BY created_at DESC, id DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	list, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *PredictionRepository) ListByIDsForUser(ctx context.Context, ids []string, userID string) ([]*prediction.Prediction, error) {
	if len(ids) == 0 {
		return []*prediction.Prediction{}, nil
	}

	args := []interface{}{userID}
	placeholders := make([]string, len(ids))
	for i, id := range ids {
		args = append(args, id)
		placeholders[i] = fmt.Sprintf("$%d", i+2)
	}

	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE user_id = $1 AND id IN (` +
		strings.Join(placeholders, ", ") + `) ORDER BY created_at DESC, id DESC`
	return r.query(ctx, query, args...)
}

func (r *PredictionRepository) CountByStatus(ctx context.Context, status prediction.Status) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM predictions WHERE status = $1`, string(status)).Scan(&n)
	if err != nil {
		return 0, errors.DatabaseError("Failed to count predictions", err)
	}
	return n, nil
}

func (r *PredictionRepository) query(ctx context.Context, query string, args ...interface{}) ([]*prediction.Prediction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list predictions", err)
	}
	defer rows.Close()

	list := []*prediction.Prediction{}
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan prediction", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to list predictions", err)
	}
	return list, nil
}

func marshalPayload(p *prediction.Prediction) (string, string, error) {
	inputs := p.Inputs
	if inputs == nil {
		inputs = map[string]interface{}{}
	}
	in, err := json.Marshal(inputs)
	if err != nil {
		return "", "", err
	}
	out, err := json.Marshal(p.Outputs)
	if err != nil {
		return "", "", err
	}
	return string(in), string(out), nil
}

func scanPrediction(s rowScanner) (*prediction.Prediction, error) {
	var p prediction.Prediction
	var projectType, status, inputs, outputs string
	var createdAt, updatedAt int64

	err := s.Scan(&p.ID, &p.UserID, &p.Title, &projectType, &inputs, &outputs, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	p.ProjectType = prediction.ProjectType(projectType)
	p.Status = prediction.Status(status)
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)

	if err := json.Unmarshal([]byte(inputs), &p.Inputs); err != nil {
		return nil, fmt.Errorf("decode inputs: %w", err)
	}
	if err := json.Unmarshal([]byte(outputs), &p.Outputs); err != nil {
		return nil, fmt.Errorf("decode outputs: %w", err)
	}
	return &p, nil
}
