package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	MembersCollection  = "members"
	EventsCollection   = "events"
	FAQsCollection     = "faqs"
	GalleryCollection  = "galleries"
	CarouselCollection = "carousels"
	MessagesCollection = "messages"
	SegmentsCollection = "segments"
)

// Store holds the Mongo client and the database every collection lives in.
type Store struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// Connect dials Mongo and pings the primary before returning.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &Store{
		Client:   client,
		Database: client.Database(database),
	}, nil
}

func (s *Store) Collection(name string) *mongo.Collection {
	return s.Database.Collection(name)
}

func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}
