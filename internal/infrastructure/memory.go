package infrastructure

import (
	"context"
	"sync"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slices"

	"github.com/Agurato/moviestore/internal/model"
)

// MemoryStore keeps documents in memory. Data is lost on restart.
// Safe for concurrent use.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]bson.Raw
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]bson.Raw),
	}
}

// CreateDocument stores a new document and returns its generated key
func (m *MemoryStore) CreateDocument(_ context.Context, collection string, record any) (string, error) {
	data, err := bson.Marshal(record)
	if err != nil {
		return "", err
	}
	id := primitive.NewObjectID().Hex()

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[collection]; !ok {
		m.collections[collection] = make(map[string]bson.Raw)
	}
	m.collections[collection][id] = data
	return id, nil
}

// GetDocuments returns copies of all the documents of a collection, sorted by key
func (m *MemoryStore) GetDocuments(_ context.Context, collection string) ([]model.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	coll := m.collections[collection]
	keys := lo.Keys(coll)
	slices.Sort(keys)
	return lo.Map(keys, func(key string, _ int) model.Document {
		return model.Document{ID: key, Data: slices.Clone(coll[key])}
	}), nil
}

// GetDocumentByID returns a copy of a document, or nil if it does not exist
func (m *MemoryStore) GetDocumentByID(_ context.Context, collection, id string) (*model.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.collections[collection][id]
	if !ok {
		return nil, nil
	}
	return &model.Document{ID: id, Data: slices.Clone(data)}, nil
}

// UpdateDocument replaces an existing document
func (m *MemoryStore) UpdateDocument(_ context.Context, collection, id string, record any) error {
	data, err := bson.Marshal(record)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[collection][id]; !ok {
		return &model.NotFoundError{Collection: collection, ID: id}
	}
	m.collections[collection][id] = data
	return nil
}

// DeleteDocument removes an existing document
func (m *MemoryStore) DeleteDocument(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[collection][id]; !ok {
		return &model.NotFoundError{Collection: collection, ID: id}
	}
	delete(m.collections[collection], id)
	return nil
}

// Close is a no-op, it lets MemoryStore be used wherever a store is closed on exit
func (m *MemoryStore) Close() error {
	return nil
}
