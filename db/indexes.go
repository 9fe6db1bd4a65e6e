package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// indexes lists the secondary indexes each collection needs.
var indexes = map[string][]mongo.IndexModel{
	CarouselCollection: {
		{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "order", Value: 1}}},
		{Keys: bson.D{{Key: "metadata.category", Value: 1}}},
	},
	MessagesCollection: {
		{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "messageType", Value: 1}, {Key: "order", Value: 1}}},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	},
	SegmentsCollection: {
		{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "order", Value: 1}}},
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "metadata.category", Value: 1}}},
	},
}

// UniquePaths returns the paths a collection enforces uniqueness on.
func UniquePaths(collection string) []string {
	var paths []string
	for _, m := range indexes[collection] {
		if m.Options == nil || m.Options.Unique == nil || !*m.Options.Unique {
			continue
		}
		for _, k := range m.Keys.(bson.D) {
			paths = append(paths, k.Key)
		}
	}
	return paths
}

// EnsureIndexes creates the indexes above. Creating an existing index is a no-op.
func EnsureIndexes(ctx context.Context, s *Store) error {
	for name, specs := range indexes {
		if _, err := s.Collection(name).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
