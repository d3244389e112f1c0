package database

import (
	"context"
	"fmt"

	"product-catalog/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Service wraps the process-wide MongoDB client. It is created once at
// startup, shared by every request, and torn down at shutdown; the driver
// handles connection pooling internally.
type Service struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// New connects to MongoDB and verifies the connection with a ping.
func New(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*Service, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Service{
		client: client,
		db:     client.Database(cfg.Database),
		logger: logger,
	}, nil
}

// Collection returns a handle to the named collection.
func (s *Service) Collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// Health reports whether the store is reachable.
func (s *Service) Health(ctx context.Context) map[string]string {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		s.logger.Error("MongoDB health check failed", zap.Error(err))
		return map[string]string{"status": "down", "message": "store unreachable"}
	}
	return map[string]string{"status": "up"}
}

// EnsureIndexes creates the collection indexes at startup. The store is
// schema-less; indexes are the only structure it carries.
func (s *Service) EnsureIndexes(ctx context.Context, collection string) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	names, err := s.db.Collection(collection).Indexes().CreateMany(ctx, models)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	s.logger.Info("Collection indexes ensured",
		zap.String("collection", collection),
		zap.Strings("indexes", names),
	)
	return nil
}

// Close disconnects the client. Called once at process shutdown.
func (s *Service) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
