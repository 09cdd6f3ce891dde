package repository

import (
	"context"
	"errors"
	"time"

	"github.com/newswired/livedesk/internal/domain"
	"github.com/newswired/livedesk/internal/persistence/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type eventRepository struct {
	db *mongo.Database
}

func NewEventRepository(database *mongo.Database) domain.EventRepository {
	return &eventRepository{
		db: database,
	}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	collection := r.db.Collection(db.LiveEventsCollection)

	// Server-assigned creation timestamp
	event.StartTime = time.Now().UTC()

	_, err := collection.InsertOne(ctx, event)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrSlugTaken
	}
	return err
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	collection := r.db.Collection(db.LiveEventsCollection)

	var event domain.Event
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}

	return &event, nil
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	collection := r.db.Collection(db.LiveEventsCollection)

	var event domain.Event
	err := collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}

	return &event, nil
}

func (r *eventRepository) List(ctx context.Context) ([]domain.Event, error) {
	collection := r.db.Collection(db.LiveEventsCollection)

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: -1}})

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []domain.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *eventRepository) SetStatus(ctx context.Context, id string, status domain.EventStatus, endedAt *time.Time) error {
	collection := r.db.Collection(db.LiveEventsCollection)

	set := bson.M{"status": status}
	if endedAt != nil {
		set["ended_at"] = endedAt
	}

	result, err := collection.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	collection := r.db.Collection(db.LiveEventsCollection)

	result, err := collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}
