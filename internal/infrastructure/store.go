package infrastructure

import (
	"context"
	"fmt"

	"github.com/Agurato/moviestore/internal/model"
)

// Supported store backends
const (
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// DocumentStore is implemented by every backend
type DocumentStore interface {
	CreateDocument(ctx context.Context, collection string, record any) (string, error)
	GetDocuments(ctx context.Context, collection string) ([]model.Document, error)
	GetDocumentByID(ctx context.Context, collection, id string) (*model.Document, error)
	UpdateDocument(ctx context.Context, collection, id string, record any) error
	DeleteDocument(ctx context.Context, collection, id string) error
	Close() error
}

type StoreConfig struct {
	Backend    string
	MongoURI   string
	MongoDB    string
	SQLitePath string
}

// NewDocumentStore opens the store of the configured backend
func NewDocumentStore(ctx context.Context, cfg StoreConfig) (DocumentStore, error) {
	switch cfg.Backend {
	case BackendMongo, "":
		db, err := NewMongoDB(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		return db, nil
	case BackendSQLite:
		s, err := NewSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q (supported: %s, %s, %s)", cfg.Backend, BackendMongo, BackendSQLite, BackendMemory)
	}
}
