package model

import "time"

// MoviesCollection is the default name of the collection holding movies
const MoviesCollection = "movies"

// Movie is a movie record as stored in the movies collection.
// ID is the document key and is never written inside the document itself.
type Movie struct {
	ID          string    `bson:"-" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	Genre       string    `bson:"genre" json:"genre"`
	Rating      *float64  `bson:"rating,omitempty" json:"rating,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

// Copy returns a movie that shares no memory with m
func (m Movie) Copy() *Movie {
	c := m
	if m.Rating != nil {
		rating := *m.Rating
		c.Rating = &rating
	}
	return &c
}

// MovieInput holds the caller supplied fields of a new movie
type MovieInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Genre       string   `json:"genre"`
	Rating      *float64 `json:"rating,omitempty"`
}

// ToMovie builds the record to persist, stamped with its creation time
func (mi MovieInput) ToMovie(createdAt time.Time) Movie {
	movie := Movie{
		Title:       mi.Title,
		Description: mi.Description,
		Genre:       mi.Genre,
		CreatedAt:   createdAt,
	}
	if mi.Rating != nil {
		rating := *mi.Rating
		movie.Rating = &rating
	}
	return movie
}

// MovieUpdate is a partial update: nil fields are left untouched
type MovieUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Genre       *string `json:"genre,omitempty"`
}

// ApplyTo overwrites the fields of movie that are set in the update
func (mu MovieUpdate) ApplyTo(movie *Movie) {
	if mu.Title != nil {
		movie.Title = *mu.Title
	}
	if mu.Description != nil {
		movie.Description = *mu.Description
	}
	if mu.Genre != nil {
		movie.Genre = *mu.Genre
	}
}

// IsEmpty returns true if the update does not set any field
func (mu MovieUpdate) IsEmpty() bool {
	return mu.Title == nil && mu.Description == nil && mu.Genre == nil
}
