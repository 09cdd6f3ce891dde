package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/newswired/livedesk/internal/domain"
	"github.com/newswired/livedesk/internal/persistence/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type updateRepository struct {
	db  *mongo.Database
	seq atomic.Int64
}

func NewUpdateRepository(database *mongo.Database) domain.UpdateRepository {
	return &updateRepository{
		db: database,
	}
}

// Append stamps the ordering timestamp at acceptance. The monotonic seq
// breaks ties between writes landing in the same millisecond from this
// process; across processes the _id sort keeps the order stable.
func (r *updateRepository) Append(ctx context.Context, update *domain.Update) error {
	collection := r.db.Collection(db.LiveUpdatesCollection)

	update.Timestamp = time.Now().UTC()
	update.Seq = r.seq.Add(1)

	_, err := collection.InsertOne(ctx, update)
	return err
}

func (r *updateRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.Update, error) {
	collection := r.db.Collection(db.LiveUpdatesCollection)

	filter := bson.M{"event_id": eventID}
	opts := options.Find().SetSort(bson.D{
		{Key: "timestamp", Value: -1},
		{Key: "seq", Value: -1},
		{Key: "_id", Value: -1},
	})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var updates []domain.Update
	if err := cursor.All(ctx, &updates); err != nil {
		return nil, err
	}

	return updates, nil
}

func (r *updateRepository) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	collection := r.db.Collection(db.LiveUpdatesCollection)

	return collection.CountDocuments(ctx, bson.M{"event_id": eventID})
}
