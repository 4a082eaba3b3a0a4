package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/exp/slices"

	"github.com/Agurato/moviestore/internal/model"
)

type MongoDB struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoDB connects to the MongoDB deployment at uri and uses the dbName database
func NewMongoDB(ctx context.Context, uri, dbName string) (*MongoDB, error) {
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := mongoClient.Ping(ctx, readpref.Primary()); err != nil {
		mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("could not reach MongoDB: %w", err)
	}
	log.Info().Str("database", dbName).Msg("Connected to MongoDB")

	return NewMongoDBFromDatabase(mongoClient.Database(dbName)), nil
}

// NewMongoDBFromDatabase wraps an already connected database
func NewMongoDBFromDatabase(db *mongo.Database) *MongoDB {
	return &MongoDB{
		client: db.Client(),
		db:     db,
	}
}

// keyFilter matches a document key, whether it was stored as an ObjectID or as a string
func keyFilter(id string) primitive.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{oid, id}}}
	}
	return bson.M{"_id": id}
}

// documentFromRaw copies a raw document and extracts its key
func documentFromRaw(raw bson.Raw) (model.Document, error) {
	key, err := raw.LookupErr("_id")
	if err != nil {
		return model.Document{}, fmt.Errorf("document has no key: %w", err)
	}
	doc := model.Document{Data: slices.Clone(raw)}
	switch key.Type {
	case bson.TypeObjectID:
		doc.ID = key.ObjectID().Hex()
	case bson.TypeString:
		doc.ID = key.StringValue()
	default:
		doc.ID = key.String()
	}
	return doc, nil
}

// Close closes the MongoDB connection
func (m MongoDB) Close() error {
	return m.client.Disconnect(context.Background())
}

// CreateDocument inserts a document and returns the key generated for it
func (m MongoDB) CreateDocument(ctx context.Context, collection string, record any) (string, error) {
	res, err := m.db.Collection(collection).InsertOne(ctx, record)
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected document key type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// GetDocuments returns all the documents of a collection
func (m MongoDB) GetDocuments(ctx context.Context, collection string) ([]model.Document, error) {
	cur, err := m.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	docs := []model.Document{}
	for cur.Next(ctx) {
		doc, err := documentFromRaw(cur.Current)
		if err != nil {
			return nil, fmt.Errorf("error while decoding document from %s: %w", collection, err)
		}
		docs = append(docs, doc)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// GetDocumentByID returns a document from its key, or nil if there is none
func (m MongoDB) GetDocumentByID(ctx context.Context, collection, id string) (*model.Document, error) {
	var raw bson.Raw
	err := m.db.Collection(collection).FindOne(ctx, keyFilter(id)).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	doc, err := documentFromRaw(raw)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// UpdateDocument replaces the whole document stored under id
func (m MongoDB) UpdateDocument(ctx context.Context, collection, id string, record any) error {
	res, err := m.db.Collection(collection).ReplaceOne(ctx, keyFilter(id), record)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return &model.NotFoundError{Collection: collection, ID: id}
	}
	return nil
}

// DeleteDocument deletes the document stored under id
func (m MongoDB) DeleteDocument(ctx context.Context, collection, id string) error {
	res, err := m.db.Collection(collection).DeleteOne(ctx, keyFilter(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return &model.NotFoundError{Collection: collection, ID: id}
	}
	return nil
}
