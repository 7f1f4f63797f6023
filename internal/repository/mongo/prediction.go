package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/projectcostai/projectcostai/internal/domain/prediction"
	"github.com/projectcostai/projectcostai/internal/pkg/errors"
)

// predictionDocument stores outputs as a nested document. The estimate
// structs use bson's default lowercased field names.
type predictionDocument struct {
	ID          string                 `bson:"_id"`
	UserID      string                 `bson:"user_id"`
	Title       string                 `bson:"title"`
	ProjectType string                 `bson:"project_type"`
	Inputs      map[string]interface{} `bson:"inputs"`
	Outputs     outputsDocument        `bson:"outputs"`
	Status      string                 `bson:"status"`
	CreatedAt   time.Time              `bson:"created_at"`
	UpdatedAt   time.Time              `bson:"updated_at"`
}

type outputsDocument struct {
	Cost            *prediction.CostEstimate   `bson:"cost,omitempty"`
	Timeline        *prediction.Timeline       `bson:"timeline,omitempty"`
	Risk            *prediction.RiskAssessment `bson:"risk,omitempty"`
	Recommendations []string                   `bson:"recommendations,omitempty"`
}

func toPredictionDocument(p *prediction.Prediction) predictionDocument {
	inputs := p.Inputs
	if inputs == nil {
		inputs = map[string]interface{}{}
	}
	return predictionDocument{
		ID:          p.ID,
		UserID:      p.UserID,
		Title:       p.Title,
		ProjectType: string(p.ProjectType),
		Inputs:      inputs,
		Outputs: outputsDocument{
			Cost:            p.Outputs.Cost,
			Timeline:        p.Outputs.Timeline,
			Risk:            p.Outputs.Risk,
			Recommendations: p.Outputs.Recommendations,
		},
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (d predictionDocument) toPrediction() *prediction.Prediction {
	return &prediction.Prediction{
		ID:          d.ID,
		UserID:      d.UserID,
		Title:       d.Title,
		ProjectType: prediction.ProjectType(d.ProjectType),
		Inputs:      d.Inputs,
		Outputs: prediction.Outputs{
			Cost:            d.Outputs.Cost,
			Timeline:        d.Outputs.Timeline,
			Risk:            d.Outputs.Risk,
			Recommendations: d.Outputs.Recommendations,
		},
		Status:    prediction.Status(d.Status),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// PredictionRepository implements prediction.Repository on a mongo collection
type PredictionRepository struct {
	coll *mongo.Collection
}

func NewPredictionRepository(db *mongo.Database) prediction.Repository {
	return &PredictionRepository{coll: db.Collection(predictionsCollection)}
}

func (r *PredictionRepository) Create(ctx context.Context, p *prediction.Prediction) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.CreatedAt = p.CreatedAt.Truncate(time.Millisecond)
	p.UpdatedAt = p.CreatedAt

	if _, err := r.coll.InsertOne(ctx, toPredictionDocument(p)); err != nil {
		return errors.DatabaseError("Failed to create prediction", err)
	}
	return nil
}

func (r *PredictionRepository) GetByID(ctx context.Context, id string) (*prediction.Prediction, error) {
	var doc predictionDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFound("Prediction")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get prediction", err)
	}
	return doc.toPrediction(), nil
}

func (r *PredictionRepository) Update(ctx context.Context, p *prediction.Prediction) error {
	p.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	doc := toPredictionDocument(p)

	res, err := r.coll.UpdateByID(ctx, p.ID, bson.M{"$set": bson.M{
		"outputs":    doc.Outputs,
		"status":     doc.Status,
		"updated_at": doc.UpdatedAt,
	}})
	if err != nil {
		return errors.DatabaseError("Failed to update prediction", err)
	}
	if res.MatchedCount == 0 {
		return errors.NotFound("Prediction")
	}
	return nil
}

func (r *PredictionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.DatabaseError("Failed to delete prediction", err)
	}
	if res.DeletedCount == 0 {
		return errors.NotFound("Prediction")
	}
	return nil
}

func (r *PredictionRepository) List(ctx context.Context, f prediction.Filter) ([]*prediction.Prediction, int64, error) {
	filter := bson.M{}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to count predictions", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit)).SetSkip(int64(f.Offset))
	}
	list, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *PredictionRepository) ListByIDsForUser(ctx context.Context, ids []string, userID string) ([]*prediction.Prediction, error) {
	if len(ids) == 0 {
		return []*prediction.Prediction{}, nil
	}
	filter := bson.M{"user_id": userID, "_id": bson.M{"$in": ids}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	return r.find(ctx, filter, opts)
}

func (r *PredictionRepository) CountByStatus(ctx context.Context, status prediction.Status) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"status": string(status)})
	if err != nil {
		return 0, errors.DatabaseError("Failed to count predictions", err)
	}
	return n, nil
}

func (r *PredictionRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*prediction.Prediction, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list predictions", err)
	}

	var docs []predictionDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.DatabaseError("Failed to decode predictions", err)
	}

	list := make([]*prediction.Prediction, 0, len(docs))
	for _, d := range docs {
		list = append(list, d.toPrediction())
	}
	return list, nil
}
