package service_test

import (
	"context"
	"errors"
	"testing"

	"bookstore/internal/mocks"
	"bookstore/pkg/model"
	"bookstore/pkg/query"
	"bookstore/pkg/repository"
	"bookstore/pkg/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Helper function to create a test service with mocked dependencies
func setupTestService() (*service.BaseService[model.Book, model.BookUpdateRequest], *mocks.MockRepository[model.Book], *mocks.MockValidationService[model.Book, model.BookUpdateRequest]) {
	mockRepo := &mocks.MockRepository[model.Book]{}
	mockValidator := &mocks.MockValidationService[model.Book, model.BookUpdateRequest]{}

	svc := service.NewBaseService[model.Book, model.BookUpdateRequest](mockRepo, zerolog.Nop())
	svc.Validator = mockValidator

	return svc, mockRepo, mockValidator
}

func TestNewBaseService(t *testing.T) {
	svc := service.NewBaseService[model.Book, model.BookUpdateRequest](&mocks.MockRepository[model.Book]{}, zerolog.Nop())

	assert.NotNil(t, svc.Repo)
	assert.NotNil(t, svc.Validator)
}

func TestBaseService_List(t *testing.T) {
	svc, mockRepo, _ := setupTestService()
	ctx := context.Background()
	filter := query.Eq(query.Genre, "Fiction")
	opts := query.FindOptions{Limit: 10}

	expected := []model.Book{
		model.NewBook("The Great Gatsby", "F. Scott Fitzgerald", "Fiction", 1925, 9.99, true),
	}

	t.Run("successful list", func(t *testing.T) {
		mockRepo.On("GetAll", ctx, filter, opts).Return(expected, nil).Once()

		result, err := svc.List(ctx, filter, opts)

		assert.NoError(t, err)
		assert.Equal(t, expected, result)
		mockRepo.AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo.On("GetAll", ctx, filter, opts).Return([]model.Book{}, errors.New("database error")).Once()

		result, err := svc.List(ctx, filter, opts)

		assert.Error(t, err)
		assert.Empty(t, result)
		assert.Contains(t, err.Error(), "database error")
	})
}

func TestBaseService_Create(t *testing.T) {
	svc, mockRepo, mockValidator := setupTestService()
	ctx := context.Background()
	book := model.NewBook("1984", "George Orwell", "Dystopian", 1949, 10.99, true)

	t.Run("successful create", func(t *testing.T) {
		mockValidator.On("Validate", book).Return(nil).Once()
		mockRepo.On("Insert", ctx, book).Return(book.Id, nil).Once()

		id, err := svc.Create(ctx, book)

		assert.NoError(t, err)
		assert.Equal(t, book.Id, id)
		mockValidator.AssertExpectations(t)
		mockRepo.AssertExpectations(t)
	})

	t.Run("validation error", func(t *testing.T) {
		validationErr := errors.New("validation failed")
		mockValidator.On("Validate", book).Return(validationErr).Once()

		_, err := svc.Create(ctx, book)

		assert.ErrorIs(t, err, repository.ErrQueryRejected)
		assert.ErrorIs(t, err, validationErr)
		mockRepo.AssertNumberOfCalls(t, "Insert", 1)
	})
}

func TestBaseService_CreateIfAbsent(t *testing.T) {
	svc, mockRepo, mockValidator := setupTestService()
	ctx := context.Background()
	book := model.NewBook("1984", "George Orwell", "Dystopian", 1949, 10.99, true)
	filter := query.Eq(query.Title, "1984")

	mockValidator.On("Validate", book).Return(nil)
	mockRepo.On("Upsert", ctx, book, filter).Return(&mongo.UpdateResult{UpsertedCount: 1}, nil).Once()
	mockRepo.On("Upsert", ctx, book, filter).Return(&mongo.UpdateResult{MatchedCount: 1}, nil).Once()

	inserted, err := svc.CreateIfAbsent(ctx, book, filter)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = svc.CreateIfAbsent(ctx, book, filter)
	require.NoError(t, err)
	assert.False(t, inserted)
}

func TestBaseService_Update(t *testing.T) {
	svc, mockRepo, mockValidator := setupTestService()
	ctx := context.Background()
	filter := query.Eq(query.Title, "The Great Gatsby")
	updateData := map[string]interface{}{"price": 12.99, "in_stock": false}

	t.Run("successful update builds sorted $set", func(t *testing.T) {
		mockValidator.On("ValidateUpdateRequest", updateData).Return(updateData, nil).Once()
		want := query.SetField(query.InStock, false).And(query.Price, 12.99)
		mockRepo.On("UpdateOne", ctx, filter, want).Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil).Once()

		result, err := svc.Update(ctx, filter, updateData)

		require.NoError(t, err)
		assert.Equal(t, int64(1), result.ModifiedCount)
		mockRepo.AssertExpectations(t)
	})

	t.Run("validation error", func(t *testing.T) {
		validationErr := errors.New("validation failed")
		mockValidator.On("ValidateUpdateRequest", updateData).Return(nil, validationErr).Once()

		result, err := svc.Update(ctx, filter, updateData)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, repository.ErrQueryRejected)
		mockRepo.AssertNumberOfCalls(t, "UpdateOne", 1)
	})
}

func TestBaseService_DeleteAll(t *testing.T) {
	svc, mockRepo, _ := setupTestService()
	ctx := context.Background()
	mockRepo.On("DeleteMany", ctx, query.All{}).Return(int64(12), nil).Once()

	n, err := svc.DeleteAll(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
}

func TestBaseService_BulkInsert(t *testing.T) {
	svc, mockRepo, mockValidator := setupTestService()
	ctx := context.Background()
	books := []model.Book{
		model.NewBook("The Hobbit", "J.R.R. Tolkien", "Fantasy", 1937, 14.99, true),
		model.NewBook("Moby Dick", "Herman Melville", "Adventure", 1851, 12.50, false),
	}

	t.Run("successful bulk insert", func(t *testing.T) {
		for _, b := range books {
			mockValidator.On("Validate", b).Return(nil).Once()
		}
		mockRepo.On("BulkInsert", ctx, books).Return([]any{books[0].Id, books[1].Id}, nil).Once()

		ids, err := svc.BulkInsert(ctx, books)

		assert.NoError(t, err)
		assert.Len(t, ids, 2)
	})

	t.Run("one invalid entity stops the insert", func(t *testing.T) {
		mockValidator.On("Validate", books[0]).Return(errors.New("title required")).Once()

		_, err := svc.BulkInsert(ctx, books)

		assert.ErrorIs(t, err, repository.ErrQueryRejected)
		mockRepo.AssertNumberOfCalls(t, "BulkInsert", 1)
	})
}

func TestBaseService_ExistsAndCount(t *testing.T) {
	svc, mockRepo, _ := setupTestService()
	ctx := context.Background()
	filter := query.Eq(query.Author, "Harper Lee")

	mockRepo.On("DataExists", ctx, filter).Return(true, nil).Once()
	mockRepo.On("Count", ctx, filter).Return(int64(1), nil).Once()

	exists, err := svc.Exists(ctx, filter)
	require.NoError(t, err)
	assert.True(t, exists)

	n, err := svc.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	mockRepo.AssertExpectations(t)
}

func TestBaseService_Aggregate(t *testing.T) {
	svc, mockRepo, _ := setupTestService()
	ctx := context.Background()
	pipeline := query.NewPipeline().Group(query.Ref(query.Author), query.Count("totalBooks"))
	mockRepo.On("Aggregate", ctx, pipeline).Return([]model.AuthorBookCount{{Author: "George Orwell", TotalBooks: 2}}, nil)

	var out []model.AuthorBookCount
	err := svc.Aggregate(ctx, pipeline, &out)

	require.NoError(t, err)
	assert.Equal(t, "George Orwell", out[0].Author)
	mockRepo.AssertCalled(t, "Aggregate", ctx, mock.Anything)
}
