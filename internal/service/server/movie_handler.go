package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Agurato/moviestore/internal/model"
)

type MovieManager interface {
	GetMovies(ctx context.Context) ([]model.Movie, error)
	GetMovie(ctx context.Context, id string) (*model.Movie, error)
	CreateMovie(ctx context.Context, input model.MovieInput) (*model.Movie, error)
	UpdateMovie(ctx context.Context, id string, update model.MovieUpdate) (*model.Movie, error)
	DeleteMovie(ctx context.Context, id string) error
}

type MovieHandler struct {
	MovieManager
}

func NewMovieHandler(mm MovieManager) *MovieHandler {
	return &MovieHandler{
		MovieManager: mm,
	}
}

// GETMovies lists all the movies
func (mh MovieHandler) GETMovies(c *gin.Context) {
	movies, err := mh.MovieManager.GetMovies(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, movies)
}

// GETMovie returns a single movie
func (mh MovieHandler) GETMovie(c *gin.Context) {
	movie, err := mh.MovieManager.GetMovie(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, movie)
}

// POSTMovie creates a movie from the JSON body
func (mh MovieHandler) POSTMovie(c *gin.Context) {
	var input model.MovieInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	movie, err := mh.MovieManager.CreateMovie(c.Request.Context(), input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, movie)
}

// PATCHMovie updates the fields present in the JSON body
func (mh MovieHandler) PATCHMovie(c *gin.Context) {
	var update model.MovieUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	movie, err := mh.MovieManager.UpdateMovie(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, movie)
}

// DELETEMovie deletes a movie
func (mh MovieHandler) DELETEMovie(c *gin.Context) {
	if err := mh.MovieManager.DeleteMovie(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// abortWithError answers 404 for missing movies and 500 for anything else
func abortWithError(c *gin.Context, err error) {
	if errors.Is(err, model.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Movie store request failed")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
