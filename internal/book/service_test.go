package book

import (
	"context"
	"errors"
	"testing"

	"bookstore/internal/mocks"
	"bookstore/pkg/model"
	"bookstore/pkg/query"
	"bookstore/pkg/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func setupBookService(opts Options) (*BookService, *mocks.MockRepository[model.Book]) {
	repo := &mocks.MockRepository[model.Book]{}
	opts.Logger = zerolog.Nop()
	return NewBookServiceWithRepository(repo, opts), repo
}

func TestBookService_Finders(t *testing.T) {
	ctx := context.Background()
	gatsby := model.NewBook("The Great Gatsby", "F. Scott Fitzgerald", "Fiction", 1925, 9.99, true)

	t.Run("by genre", func(t *testing.T) {
		svc, repo := setupBookService(Options{})
		repo.On("GetAll", ctx, query.Eq(query.Genre, "Fiction"), query.FindOptions{}).Return([]model.Book{gatsby}, nil)

		books, err := svc.FindByGenre(ctx, "Fiction")

		require.NoError(t, err)
		assert.Equal(t, []model.Book{gatsby}, books)
		repo.AssertExpectations(t)
	})

	t.Run("published after is strict", func(t *testing.T) {
		svc, repo := setupBookService(Options{})
		repo.On("GetAll", ctx, query.Gt(query.PublishedYear, 2010), query.FindOptions{}).Return([]model.Book{}, nil)

		books, err := svc.FindPublishedAfter(ctx, 2010)

		require.NoError(t, err)
		assert.Empty(t, books)
		assert.NotNil(t, books)
		repo.AssertExpectations(t)
	})

	t.Run("by author", func(t *testing.T) {
		svc, repo := setupBookService(Options{})
		repo.On("GetAll", ctx, query.Eq(query.Author, "Harper Lee"), query.FindOptions{}).Return([]model.Book{}, nil)

		_, err := svc.FindByAuthor(ctx, "Harper Lee")

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("in stock after", func(t *testing.T) {
		svc, repo := setupBookService(Options{})
		filter := query.And{query.Eq(query.InStock, true), query.Gt(query.PublishedYear, 2010)}
		repo.On("GetAll", ctx, filter, query.FindOptions{}).Return([]model.Book{}, nil)

		_, err := svc.FindInStockAfter(ctx, 2010)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("store unavailable surfaces", func(t *testing.T) {
		svc, repo := setupBookService(Options{})
		storeErr := &repository.OpError{Op: "find", Kind: repository.ErrStoreUnavailable, Err: context.DeadlineExceeded}
		repo.On("GetAll", ctx, query.Eq(query.Genre, "Fiction"), query.FindOptions{}).Return(nil, storeErr)

		_, err := svc.FindByGenre(ctx, "Fiction")

		assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
	})
}

func TestBookService_UpdatePrice(t *testing.T) {
	ctx := context.Background()
	filter := query.Eq(query.Title, "The Great Gatsby")

	t.Run("modified", func(t *testing.T) {
		svc, repo := setupBookService(Options{})
		repo.On("UpdateOne", ctx, filter, query.SetField(query.Price, 12.99)).
			Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

		n, err := svc.UpdatePrice(ctx, "The Great Gatsby", 12.99)

		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		repo.AssertExpectations(t)
	})

	t.Run("same price matches without modifying", func(t *testing.T) {
		svc, repo := setupBookService(Options{})
		repo.On("UpdateOne", ctx, filter, query.SetField(query.Price, 12.99)).
			Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 0}, nil)

		count, err := svc.UpdatePriceCount(ctx, "The Great Gatsby", 12.99)

		require.NoError(t, err)
		assert.Equal(t, model.UpdateCount{Matched: 1, Modified: 0}, count)
	})

	t.Run("missing title is zero", func(t *testing.T) {
		svc, repo := setupBookService(Options{})
		repo.On("UpdateOne", ctx, query.Eq(query.Title, "Nope"), query.SetField(query.Price, 5.0)).
			Return(&mongo.UpdateResult{}, nil)

		n, err := svc.UpdatePrice(ctx, "Nope", 5.0)

		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("negative price rejected before the store", func(t *testing.T) {
		svc, repo := setupBookService(Options{})

		_, err := svc.UpdatePrice(ctx, "The Great Gatsby", -1)

		assert.ErrorIs(t, err, repository.ErrQueryRejected)
		repo.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestBookService_DeleteByTitle(t *testing.T) {
	ctx := context.Background()
	svc, repo := setupBookService(Options{})
	filter := query.Eq(query.Title, "To Kill a Mockingbird")

	repo.On("DeleteOne", ctx, filter).Return(&mongo.DeleteResult{DeletedCount: 1}, nil).Once()
	repo.On("DeleteOne", ctx, filter).Return(&mongo.DeleteResult{DeletedCount: 0}, nil).Once()

	first, err := svc.DeleteByTitle(ctx, "To Kill a Mockingbird")
	require.NoError(t, err)
	second, err := svc.DeleteByTitle(ctx, "To Kill a Mockingbird")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(0), second)
	repo.AssertExpectations(t)
}

func TestBookService_ProjectFields(t *testing.T) {
	ctx := context.Background()
	svc, repo := setupBookService(Options{})
	projection := query.Include(query.Title, query.Author, query.Price)

	title, author, price := "1984", "George Orwell", 10.99
	rows := []model.PartialBook{{Title: &title, Author: &author, Price: &price}}
	repo.On("FindInto", ctx, query.All{}, query.FindOptions{Projection: &projection}).Return(rows, nil)

	books, err := svc.ProjectFields(ctx, query.Title, query.Author, query.Price)

	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Nil(t, books[0].Id)
	assert.Nil(t, books[0].Genre)
	assert.Equal(t, "1984", *books[0].Title)
	repo.AssertExpectations(t)
}

func TestBookService_SortedByPrice(t *testing.T) {
	ctx := context.Background()
	svc, repo := setupBookService(Options{})

	repo.On("GetAll", ctx, query.All{}, query.FindOptions{Sort: query.Sort{query.Asc(query.Price)}}).Return([]model.Book{}, nil)
	repo.On("GetAll", ctx, query.All{}, query.FindOptions{Sort: query.Sort{query.Desc(query.Price)}}).Return([]model.Book{}, nil)

	_, err := svc.SortedByPrice(ctx, true)
	require.NoError(t, err)
	_, err = svc.SortedByPrice(ctx, false)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestBookService_Paginate(t *testing.T) {
	ctx := context.Background()

	t.Run("second page", func(t *testing.T) {
		svc, repo := setupBookService(Options{})
		opts := query.FindOptions{Sort: query.Sort{query.Asc(query.ID)}, Skip: 5, Limit: 5}
		repo.On("GetAll", ctx, query.All{}, opts).Return([]model.Book{}, nil)

		_, err := svc.Paginate(ctx, 5, 5)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	for name, tc := range map[string]struct{ skip, limit int64 }{
		"negative skip":  {skip: -1, limit: 5},
		"zero limit":     {skip: 0, limit: 0},
		"negative limit": {skip: 0, limit: -3},
	} {
		t.Run(name, func(t *testing.T) {
			svc, repo := setupBookService(Options{})

			books, err := svc.Paginate(ctx, tc.skip, tc.limit)

			assert.ErrorIs(t, err, repository.ErrQueryRejected)
			assert.Empty(t, books)
			repo.AssertNotCalled(t, "GetAll", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestBookService_Insert(t *testing.T) {
	ctx := context.Background()

	t.Run("valid book", func(t *testing.T) {
		svc, repo := setupBookService(Options{})
		book := model.NewBook("Dune", "Frank Herbert", "Science Fiction", 1965, 9.99, true)
		repo.On("Insert", ctx, book).Return(book.Id, nil)

		id, err := svc.Insert(ctx, book)

		require.NoError(t, err)
		assert.Equal(t, book.Id, id)
	})

	t.Run("missing title rejected", func(t *testing.T) {
		svc, repo := setupBookService(Options{})

		_, err := svc.Insert(ctx, model.Book{Author: "Anon", Genre: "Fiction"})

		assert.ErrorIs(t, err, repository.ErrQueryRejected)
		repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})
}

func TestBookService_Reset(t *testing.T) {
	ctx := context.Background()
	svc, repo := setupBookService(Options{})
	repo.On("DeleteMany", ctx, query.All{}).Return(int64(15), nil)

	n, err := svc.Reset(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(15), n)
}

func TestBookService_Seed(t *testing.T) {
	ctx := context.Background()
	svc, repo := setupBookService(Options{})
	books := SampleBooks()[:3]

	repo.On("Upsert", ctx, books[1], query.Eq(query.Title, books[1].Title)).
		Return(&mongo.UpdateResult{MatchedCount: 1}, nil)
	repo.On("Upsert", ctx, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{UpsertedCount: 1}, nil)

	inserted, err := svc.Seed(ctx, books, false)

	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	repo.AssertNumberOfCalls(t, "Upsert", 3)
	repo.AssertNotCalled(t, "DeleteMany", mock.Anything, mock.Anything)
}

func TestBookService_SeedDropFailure(t *testing.T) {
	ctx := context.Background()
	svc, repo := setupBookService(Options{})
	repo.On("DeleteMany", ctx, query.All{}).Return(int64(0), errors.New("boom"))

	_, err := svc.Seed(ctx, SampleBooks(), true)

	assert.Error(t, err)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}

func TestSampleBooksAreValid(t *testing.T) {
	svc, _ := setupBookService(Options{})
	titles := map[string]bool{}
	for _, b := range SampleBooks() {
		assert.NoError(t, svc.Service.Validator.Validate(b), b.Title)
		assert.False(t, titles[b.Title], "duplicate title %s", b.Title)
		titles[b.Title] = true
	}
}
