package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/itempipe/core"
	"github.com/poiesic/itempipe/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	// Scheme is the standard MongoDB connection string scheme.
	Scheme = "mongodb"
	// SRVScheme is the DNS seed list connection string scheme.
	SRVScheme = "mongodb+srv"

	nameField         = "name"
	disconnectTimeout = 10 * time.Second
)

// MovieRepository implements storage.MovieRepository for a MongoDB collection.
type MovieRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
	ownsClient bool
	logger     *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

var _ storage.MovieRepository = (*MovieRepository)(nil)

// NewMovieRepository wraps an existing collection.
// Closing the repository leaves the collection's client connected.
func NewMovieRepository(collection *mongo.Collection) *MovieRepository {
	return &MovieRepository{
		client:     collection.Database().Client(),
		collection: collection,
		logger:     slog.Default().With("component", "mongo"),
	}
}

// Open implements storage.Opener for mongodb:// and mongodb+srv:// connection strings.
// The returned repository owns its client and disconnects it on Close.
func Open(ctx context.Context, cfg storage.Config) (storage.MovieRepository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if scheme := cfg.Scheme(); scheme != Scheme && scheme != SRVScheme {
		return nil, fmt.Errorf("%w: %q", storage.ErrUnsupportedScheme, cfg.ConnectionString)
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.ConnectionString))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}

	repo := NewMovieRepository(client.Database(cfg.Database).Collection(cfg.Collection))
	repo.ownsClient = true
	repo.prepare(ctx)
	return repo, nil
}

// prepare creates the name index when it can. A collection that already holds
// duplicate names rejects a unique index; upserts still match by name, so the
// failure is logged and the repository stays usable.
func (r *MovieRepository) prepare(ctx context.Context) bool {
	if err := r.EnsureNameIndex(ctx); err != nil {
		r.logger.Warn("name index not created, duplicate names will not be rejected",
			"collection", r.collection.Name(),
			"err", err)
		return false
	}
	return true
}

// EnsureNameIndex creates the unique index on the name field if it is missing.
func (r *MovieRepository) EnsureNameIndex(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: nameField, Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create name index: %w", err)
	}
	return nil
}

// UpsertMovie replaces the fields of the document named record.Name,
// inserting it when absent.
func (r *MovieRepository) UpsertMovie(ctx context.Context, record *core.Record) error {
	if err := core.ValidateRecord(record); err != nil {
		return err
	}

	filter := bson.D{{Key: nameField, Value: record.Name}}
	update := bson.D{{Key: "$set", Value: record}}
	res, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return err
	}

	r.logger.Debug("movie upserted",
		"name", record.Name,
		"matched", res.MatchedCount,
		"upserted", res.UpsertedCount)
	return nil
}

// GetMovie retrieves a movie by name.
func (r *MovieRepository) GetMovie(ctx context.Context, name string) (*core.Record, error) {
	var record core.Record
	err := r.collection.FindOne(ctx, bson.D{{Key: nameField, Value: name}}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// CountMovies counts the documents in the collection.
func (r *MovieRepository) CountMovies(ctx context.Context) (int, error) {
	n, err := r.collection.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Close disconnects the client if this repository connected it.
func (r *MovieRepository) Close() error {
	r.closeOnce.Do(func() {
		if !r.ownsClient {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
		defer cancel()
		r.closeErr = r.client.Disconnect(ctx)
	})
	return r.closeErr
}
