package store

import (
	"context" // Context for driver calls
	"fmt"     // Error wrapping
	"time"    // Timestamps and timeouts

	"go.mongodb.org/mongo-driver/bson"           // Filters and sort documents
	"go.mongodb.org/mongo-driver/bson/primitive" // ObjectID
	"go.mongodb.org/mongo-driver/mongo"          // MongoDB driver
	"go.mongodb.org/mongo-driver/mongo/options"  // Client and find options
	"go.mongodb.org/mongo-driver/mongo/readpref" // Ping target

	"geopaylog/internal/domain" // Importing domain models
)

const transactionsCollection = "transactions"

// mongoTransaction is the stored document shape.
type mongoTransaction struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`  // Driver assigned id
	DeviceID  string             `bson:"deviceId"`       // Owner device
	Amount    float64            `bson:"amount"`         // Amount spent
	Note      string             `bson:"note,omitempty"` // Optional note
	Location  domain.Location    `bson:"location"`       // Coordinates
	Timestamp time.Time          `bson:"timestamp"`      // Creation time
}

func (d mongoTransaction) toDomain() domain.Transaction {
	return domain.Transaction{
		ID:        d.ID.Hex(),
		DeviceID:  d.DeviceID,
		Amount:    d.Amount,
		Note:      d.Note,
		Location:  d.Location,
		CreatedAt: d.Timestamp.UTC(),
	}
}

// MongoStore keeps transactions in a MongoDB collection.
type MongoStore struct {
	client  *mongo.Client     // Connected client
	coll    *mongo.Collection // transactions collection
	timeout time.Duration     // Bound on each call
}

// NewMongoStore connects to uri, pings the primary and makes sure the
// per-device index exists. The whole attempt is bounded by ctx.
func NewMongoStore(ctx context.Context, uri, database string, timeout time.Duration) (*MongoStore, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	coll := client.Database(database).Collection(transactionsCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "deviceId", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo index: %w", err)
	}
	return &MongoStore{client: client, coll: coll, timeout: timeout}, nil
}

func (s *MongoStore) Save(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	doc := mongoTransaction{
		ID:        primitive.NewObjectID(),
		DeviceID:  tx.DeviceID,
		Amount:    tx.Amount,
		Note:      tx.Note,
		Location:  tx.Location,
		Timestamp: tx.CreatedAt,
	}
	if doc.Timestamp.IsZero() {
		doc.Timestamp = time.Now().UTC()
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: mongo insert: %v", ErrBackendUnavailable, err)
	}
	return doc.toDomain(), nil
}

func (s *MongoStore) ListByOwner(ctx context.Context, deviceID string) ([]domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	findOpts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.M{"deviceId": deviceID}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: mongo find: %v", ErrBackendUnavailable, err)
	}
	var docs []mongoTransaction
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: mongo decode: %v", ErrBackendUnavailable, err)
	}

	out := make([]domain.Transaction, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
