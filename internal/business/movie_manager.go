package business

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Agurato/moviestore/internal/model"
)

// DocumentStorer gives access to the documents of named collections.
// GetDocumentByID returns a nil document and no error when the key does not exist.
type DocumentStorer interface {
	CreateDocument(ctx context.Context, collection string, record any) (string, error)
	GetDocuments(ctx context.Context, collection string) ([]model.Document, error)
	GetDocumentByID(ctx context.Context, collection, id string) (*model.Document, error)
	UpdateDocument(ctx context.Context, collection, id string, record any) error
	DeleteDocument(ctx context.Context, collection, id string) error
}

type MovieManagerConfig struct {
	CollectionName string
	// Now stamps the creation time of new movies, defaults to time.Now
	Now func() time.Time
}

type MovieManager struct {
	DocumentStorer
	collection string
	now        func() time.Time
}

func NewMovieManager(ds DocumentStorer, cfg MovieManagerConfig) *MovieManager {
	if cfg.CollectionName == "" {
		cfg.CollectionName = model.MoviesCollection
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &MovieManager{
		DocumentStorer: ds,
		collection:     cfg.CollectionName,
		now:            cfg.Now,
	}
}

// GetMovies returns every movie of the collection, in the order given by the store
func (mm MovieManager) GetMovies(ctx context.Context) ([]model.Movie, error) {
	docs, err := mm.DocumentStorer.GetDocuments(ctx, mm.collection)
	if err != nil {
		return nil, err
	}
	movies := make([]model.Movie, 0, len(docs))
	for _, doc := range docs {
		movie, err := movieFromDocument(doc)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *movie)
	}
	return movies, nil
}

// GetMovie returns a movie from its ID
func (mm MovieManager) GetMovie(ctx context.Context, id string) (*model.Movie, error) {
	doc, err := mm.DocumentStorer.GetDocumentByID(ctx, mm.collection, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, &model.NotFoundError{Collection: mm.collection, ID: id}
	}
	movie, err := movieFromDocument(*doc)
	if err != nil {
		return nil, err
	}
	return movie.Copy(), nil
}

// CreateMovie stores a new movie and returns it with the ID assigned by the store
func (mm MovieManager) CreateMovie(ctx context.Context, input model.MovieInput) (*model.Movie, error) {
	// BSON datetimes hold milliseconds
	movie := input.ToMovie(mm.now().UTC().Truncate(time.Millisecond))
	id, err := mm.DocumentStorer.CreateDocument(ctx, mm.collection, movie)
	if err != nil {
		return nil, err
	}
	movie.ID = id
	log.Debug().Str("movieID", id).Str("title", movie.Title).Msg("Movie created")
	return movie.Copy(), nil
}

// UpdateMovie applies the fields set in update to an existing movie.
// The whole merged movie replaces the stored document.
func (mm MovieManager) UpdateMovie(ctx context.Context, id string, update model.MovieUpdate) (*model.Movie, error) {
	movie, err := mm.GetMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	update.ApplyTo(movie)
	if err := mm.DocumentStorer.UpdateDocument(ctx, mm.collection, id, movie); err != nil {
		return nil, err
	}
	log.Debug().Str("movieID", id).Msg("Movie updated")
	return movie.Copy(), nil
}

// DeleteMovie removes an existing movie
func (mm MovieManager) DeleteMovie(ctx context.Context, id string) error {
	if _, err := mm.GetMovie(ctx, id); err != nil {
		return err
	}
	if err := mm.DocumentStorer.DeleteDocument(ctx, mm.collection, id); err != nil {
		return err
	}
	log.Debug().Str("movieID", id).Msg("Movie deleted")
	return nil
}

func movieFromDocument(doc model.Document) (*model.Movie, error) {
	var movie model.Movie
	if err := doc.DataTo(&movie); err != nil {
		return nil, err
	}
	movie.ID = doc.ID
	return &movie, nil
}
