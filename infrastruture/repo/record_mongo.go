package repo

import (
	"context"
	"fmt"

	"github.com/beka-birhanu/vinom-gather/game"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRecordRepo keeps records in a MongoDB collection.
// Implements i.RecordRepo.
type MongoRecordRepo struct {
	collection *mongo.Collection
}

type recordDoc struct {
	ID         string `bson:"_id"`
	Name       string `bson:"name"`
	Score      int    `bson:"score"`
	PlayTimeMs int64  `bson:"playTimeMs"`
}

// rankSort orders records best first.
var rankSort = bson.D{
	{Key: "score", Value: -1},
	{Key: "playTimeMs", Value: 1},
	{Key: "name", Value: 1},
}

// MongoClientOptions returns the client options for uri with a connection
// pool of at most maxConns connections. A non-positive maxConns keeps the
// driver default.
func MongoClientOptions(uri string, maxConns int) *options.ClientOptions {
	opts := options.Client().ApplyURI(uri)
	if maxConns > 0 {
		opts.SetMaxPoolSize(uint64(maxConns))
	}
	return opts
}

// NewMongoRecordRepo creates a new MongoRecordRepo with the given MongoDB client, database name, and collection name.
func NewMongoRecordRepo(client *mongo.Client, dbName, collectionName string) *MongoRecordRepo {
	collection := client.Database(dbName).Collection(collectionName)
	return &MongoRecordRepo{
		collection: collection,
	}
}

// EnsureIndexes creates the ranking index used by GetRecords.
func (r *MongoRecordRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    rankSort,
		Options: options.Index().SetName("rank"),
	})
	if err != nil {
		return fmt.Errorf("creating rank index: %w", err)
	}
	return nil
}

// SaveRecords inserts every record. The insert is ordered and stops at the
// first failure.
func (r *MongoRecordRepo) SaveRecords(ctx context.Context, records []game.Record) error {
	if len(records) == 0 {
		return nil
	}

	docs := make([]any, 0, len(records))
	for _, rec := range records {
		docs = append(docs, recordDoc{
			ID:         rec.ID.String(),
			Name:       rec.Name,
			Score:      rec.Score,
			PlayTimeMs: rec.PlayTime.Milliseconds(),
		})
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("record id conflict in batch of %d: %w", len(records), err)
		}
		return fmt.Errorf("inserting %d records: %w", len(records), err)
	}
	return nil
}

// GetRecords returns up to limit records starting at start, best first.
func (r *MongoRecordRepo) GetRecords(ctx context.Context, start, limit int) ([]game.Record, error) {
	opts := options.Find().
		SetSort(rankSort).
		SetSkip(int64(start)).
		SetLimit(int64(limit))

	cur, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer cur.Close(ctx)

	var records []game.Record
	for cur.Next(ctx) {
		var doc recordDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding record: %w", err)
		}
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("parsing record id %q: %w", doc.ID, err)
		}
		records = append(records, game.Record{
			ID:       id,
			Name:     doc.Name,
			Score:    doc.Score,
			PlayTime: fromMillis(doc.PlayTimeMs),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}
