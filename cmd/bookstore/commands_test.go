package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"bookstore/internal/book"
	"bookstore/internal/mocks"
	"bookstore/pkg/model"
	"bookstore/pkg/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func reportService(t *testing.T) (*book.BookService, *mocks.MockRepository[model.Book]) {
	repo := &mocks.MockRepository[model.Book]{}
	plan, err := bson.Marshal(bson.D{{Key: "queryPlanner", Value: bson.D{{Key: "namespace", Value: "plp_bookstore.books"}}}})
	require.NoError(t, err)

	repo.On("GetAll", mock.Anything, mock.Anything, mock.Anything).Return([]model.Book{}, nil)
	repo.On("FindInto", mock.Anything, mock.Anything, mock.Anything).Return([]model.PartialBook{}, nil)
	repo.On("Aggregate", mock.Anything, mock.Anything).Return(nil, nil)
	repo.On("ListIndexes", mock.Anything).Return([]mongo.IndexSpecification{}, nil)
	repo.On("Explain", mock.Anything, mock.Anything, book.DefaultExplainVerbosity).Return(bson.Raw(plan), nil)

	return book.NewBookServiceWithRepository(repo, book.Options{Logger: zerolog.Nop()}), repo
}

func TestRunReport(t *testing.T) {
	svc, repo := reportService(t)
	var out bytes.Buffer

	err := runReport(context.Background(), &out, svc, reportOptions{
		genre: "Fiction", author: "Harper Lee", after: 2010, title: "The Great Gatsby", perPage: 5,
	})

	require.NoError(t, err)
	for _, section := range []string{
		"== books in genre Fiction",
		"== books published after 2010",
		"== page 2",
		"== author with most books\nnull",
		"== books by decade",
		"== explain title lookup",
		`"namespace": "plp_bookstore.books"`,
	} {
		assert.Contains(t, out.String(), section)
	}
	repo.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "DeleteOne", mock.Anything, mock.Anything)
}

func TestRunReportMutations(t *testing.T) {
	svc, repo := reportService(t)
	repo.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)
	repo.On("DeleteOne", mock.Anything, mock.Anything).Return(&mongo.DeleteResult{DeletedCount: 1}, nil)
	var out bytes.Buffer

	err := runReport(context.Background(), &out, svc, reportOptions{
		title: "The Great Gatsby", price: 12.99, remove: "To Kill a Mockingbird", mutate: true, perPage: 5,
	})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "== update price of The Great Gatsby")
	assert.Contains(t, out.String(), `"deleted": 1`)
}

func TestRunReportStopsOnError(t *testing.T) {
	repo := &mocks.MockRepository[model.Book]{}
	unavailable := &repository.OpError{Op: "find", Kind: repository.ErrStoreUnavailable, Err: errors.New("connection refused")}
	repo.On("GetAll", mock.Anything, mock.Anything, mock.Anything).Return(nil, unavailable)
	svc := book.NewBookServiceWithRepository(repo, book.Options{Logger: zerolog.Nop()})

	err := runReport(context.Background(), &bytes.Buffer{}, svc, reportOptions{genre: "Fiction", perPage: 5})

	assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "books in genre Fiction")
}

func TestRootCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"serve", "seed", "report", "indexes"} {
		assert.True(t, names[name], name)
	}
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("mongodb-uri"))
}
