package infrastructure_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/Agurato/moviestore/internal/infrastructure"
	"github.com/Agurato/moviestore/internal/model"
)

const moviesNS = "moviestore.movies"

func TestMongoDB(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	ctx := context.Background()
	createdAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mt.Run("CreateDocument", func(mt *mtest.T) {
		db := infrastructure.NewMongoDBFromDatabase(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		id, err := db.CreateDocument(ctx, model.MoviesCollection, model.Movie{Title: "Dune", CreatedAt: createdAt})
		assert.NoError(mt, err)
		_, err = primitive.ObjectIDFromHex(id)
		assert.NoError(mt, err)
	})

	mt.Run("CreateDocument duplicate key", func(mt *mtest.T) {
		db := infrastructure.NewMongoDBFromDatabase(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		id, err := db.CreateDocument(ctx, model.MoviesCollection, model.Movie{Title: "Dune"})
		assert.Empty(mt, id)
		assert.True(mt, mongo.IsDuplicateKeyError(err))
	})

	mt.Run("GetDocuments", func(mt *mtest.T) {
		db := infrastructure.NewMongoDBFromDatabase(mt.DB)
		first, second := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, moviesNS, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: first}, {Key: "title", Value: "Dune"}, {Key: "createdAt", Value: createdAt}},
			bson.D{{Key: "_id", Value: second}, {Key: "title", Value: "Alien"}, {Key: "rating", Value: 8.4}},
			bson.D{{Key: "_id", Value: "legacy-key"}, {Key: "title", Value: "Heat"}},
		))

		docs, err := db.GetDocuments(ctx, model.MoviesCollection)
		require.NoError(mt, err)
		require.Len(mt, docs, 3)
		assert.Equal(mt, first.Hex(), docs[0].ID)
		assert.Equal(mt, second.Hex(), docs[1].ID)
		assert.Equal(mt, "legacy-key", docs[2].ID)

		var movie model.Movie
		require.NoError(mt, docs[1].DataTo(&movie))
		assert.Equal(mt, "Alien", movie.Title)
		assert.Equal(mt, 8.4, *movie.Rating)
	})

	mt.Run("GetDocuments empty", func(mt *mtest.T) {
		db := infrastructure.NewMongoDBFromDatabase(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, moviesNS, mtest.FirstBatch))

		docs, err := db.GetDocuments(ctx, model.MoviesCollection)
		assert.NoError(mt, err)
		assert.NotNil(mt, docs)
		assert.Empty(mt, docs)
	})

	mt.Run("GetDocuments failure", func(mt *mtest.T) {
		db := infrastructure.NewMongoDBFromDatabase(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "not authorized on moviestore",
		}))

		docs, err := db.GetDocuments(ctx, model.MoviesCollection)
		assert.Nil(mt, docs)
		var cmdErr mongo.CommandError
		require.True(mt, errors.As(err, &cmdErr))
		assert.Equal(mt, int32(13), cmdErr.Code)
	})

	mt.Run("GetDocumentByID", func(mt *mtest.T) {
		db := infrastructure.NewMongoDBFromDatabase(mt.DB)
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, moviesNS, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: oid}, {Key: "title", Value: "Dune"}, {Key: "genre", Value: "Sci-Fi"}},
		))

		doc, err := db.GetDocumentByID(ctx, model.MoviesCollection, oid.Hex())
		require.NoError(mt, err)
		require.NotNil(mt, doc)
		assert.Equal(mt, oid.Hex(), doc.ID)

		var movie model.Movie
		require.NoError(mt, doc.DataTo(&movie))
		assert.Equal(mt, "Sci-Fi", movie.Genre)
	})

	mt.Run("GetDocumentByID missing", func(mt *mtest.T) {
		db := infrastructure.NewMongoDBFromDatabase(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, moviesNS, mtest.FirstBatch))

		doc, err := db.GetDocumentByID(ctx, model.MoviesCollection, primitive.NewObjectID().Hex())
		assert.NoError(mt, err)
		assert.Nil(mt, doc)
	})

	mt.Run("UpdateDocument", func(mt *mtest.T) {
		db := infrastructure.NewMongoDBFromDatabase(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := db.UpdateDocument(ctx, model.MoviesCollection, primitive.NewObjectID().Hex(), model.Movie{Title: "Dune"})
		assert.NoError(mt, err)
	})

	mt.Run("UpdateDocument missing", func(mt *mtest.T) {
		db := infrastructure.NewMongoDBFromDatabase(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := db.UpdateDocument(ctx, model.MoviesCollection, "not-a-key", model.Movie{Title: "Dune"})
		assert.ErrorIs(mt, err, model.ErrNotFound)
	})

	mt.Run("DeleteDocument", func(mt *mtest.T) {
		db := infrastructure.NewMongoDBFromDatabase(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		assert.NoError(mt, db.DeleteDocument(ctx, model.MoviesCollection, primitive.NewObjectID().Hex()))
	})

	mt.Run("DeleteDocument missing", func(mt *mtest.T) {
		db := infrastructure.NewMongoDBFromDatabase(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := db.DeleteDocument(ctx, model.MoviesCollection, primitive.NewObjectID().Hex())
		var nfErr *model.NotFoundError
		require.True(mt, errors.As(err, &nfErr))
		assert.Equal(mt, model.MoviesCollection, nfErr.Collection)
	})
}
