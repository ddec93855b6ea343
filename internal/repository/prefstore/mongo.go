package prefstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository implements Repository on top of MongoDB.
type MongoRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

type preferenceDoc struct {
	UserID    string    `bson:"user_id"`
	Key       string    `bson:"key"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoRepository connects to MongoDB and verifies the connection.
func NewMongoRepository(ctx context.Context, uri, dbName string) (*MongoRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoRepository{
		client:   client,
		dbName:   dbName,
		collName: "preferences",
	}, nil
}

func (r *MongoRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// Get returns the stored blob for the user/key pair, or ErrNotFound.
func (r *MongoRepository) Get(ctx context.Context, userID, key string) ([]byte, error) {
	var doc preferenceDoc
	err := r.collection().FindOne(ctx, bson.M{"user_id": userID, "key": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load preference %s: %w", key, err)
	}
	return doc.Value, nil
}

// Put replaces the stored blob wholesale, creating it on first write.
func (r *MongoRepository) Put(ctx context.Context, userID, key string, value []byte) error {
	filter := bson.M{"user_id": userID, "key": key}
	update := bson.M{"$set": preferenceDoc{
		UserID:    userID,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}}

	_, err := r.collection().UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to store preference %s: %w", key, err)
	}
	return nil
}

// Delete removes the stored blob; deleting an absent key is not an error.
func (r *MongoRepository) Delete(ctx context.Context, userID, key string) error {
	_, err := r.collection().DeleteOne(ctx, bson.M{"user_id": userID, "key": key})
	if err != nil {
		return fmt.Errorf("failed to delete preference %s: %w", key, err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
