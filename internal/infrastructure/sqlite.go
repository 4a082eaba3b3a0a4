package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/glebarez/go-sqlite"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Agurato/moviestore/internal/model"
)

const createDocumentsTable = `CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	key TEXT NOT NULL,
	data BLOB NOT NULL,
	PRIMARY KEY (collection, key)
)`

// SQLite stores the documents of all collections in a single SQLite database,
// BSON encoded in the documents(collection, key, data) table
type SQLite struct {
	mu sync.RWMutex
	db *sql.DB
}

// NewSQLite opens (and creates if needed) the SQLite database at dbPath
func NewSQLite(dbPath string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	s, err := NewSQLiteFromDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	log.Info().Str("path", dbPath).Msg("Using SQLite database")
	return s, nil
}

// NewSQLiteFromDB uses an already opened database, creating the documents table if needed
func NewSQLiteFromDB(db *sql.DB) (*SQLite, error) {
	if _, err := db.Exec(createDocumentsTable); err != nil {
		return nil, fmt.Errorf("could not create documents table: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database
func (s *SQLite) Close() error {
	return s.db.Close()
}

// CreateDocument stores a new document and returns its generated key
func (s *SQLite) CreateDocument(ctx context.Context, collection string, record any) (string, error) {
	data, err := bson.Marshal(record)
	if err != nil {
		return "", err
	}
	id := primitive.NewObjectID().Hex()

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO documents (collection, key, data) VALUES (?, ?, ?)",
		collection, id, []byte(data))
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetDocuments returns all the documents of a collection, in insertion order
func (s *SQLite) GetDocuments(ctx context.Context, collection string) ([]model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx,
		"SELECT key, data FROM documents WHERE collection = ? ORDER BY rowid",
		collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []model.Document{}
	for rows.Next() {
		var (
			key  string
			data []byte
		)
		if err := rows.Scan(&key, &data); err != nil {
			return nil, fmt.Errorf("error while reading document from %s: %w", collection, err)
		}
		docs = append(docs, model.Document{ID: key, Data: bson.Raw(data)})
	}
	return docs, rows.Err()
}

// GetDocumentByID returns a document from its key, or nil if there is none
func (s *SQLite) GetDocumentByID(ctx context.Context, collection, id string) (*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var data []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM documents WHERE collection = ? AND key = ?",
		collection, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &model.Document{ID: id, Data: bson.Raw(data)}, nil
}

// UpdateDocument replaces the whole document stored under id
func (s *SQLite) UpdateDocument(ctx context.Context, collection, id string, record any) error {
	data, err := bson.Marshal(record)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx,
		"UPDATE documents SET data = ? WHERE collection = ? AND key = ?",
		[]byte(data), collection, id)
	if err != nil {
		return err
	}
	return checkAffected(res, collection, id)
}

// DeleteDocument deletes the document stored under id
func (s *SQLite) DeleteDocument(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = ? AND key = ?",
		collection, id)
	if err != nil {
		return err
	}
	return checkAffected(res, collection, id)
}

func checkAffected(res sql.Result, collection, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &model.NotFoundError{Collection: collection, ID: id}
	}
	return nil
}
