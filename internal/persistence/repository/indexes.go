package repository

import (
	"context"

	"github.com/newswired/livedesk/internal/persistence/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes both repositories rely on. Called once
// at startup.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	events := database.Collection(db.LiveEventsCollection)

	eventIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "start_time", Value: -1}},
		},
	}

	if _, err := events.Indexes().CreateMany(ctx, eventIndexes); err != nil {
		return err
	}

	updates := database.Collection(db.LiveUpdatesCollection)

	updateIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "event_id", Value: 1},
				{Key: "timestamp", Value: -1},
				{Key: "seq", Value: -1},
			},
		},
	}

	_, err := updates.Indexes().CreateMany(ctx, updateIndexes)
	return err
}
