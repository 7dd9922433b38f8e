package mocks

import (
	"context"

	"bookstore/pkg/model"
	"bookstore/pkg/query"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Mock books service for HTTP tests
type MockBookService struct {
	mock.Mock
}

func (m *MockBookService) books(args mock.Arguments) ([]model.Book, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Book), args.Error(1)
}

func (m *MockBookService) FindByGenre(ctx context.Context, genre string) ([]model.Book, error) {
	return m.books(m.Called(ctx, genre))
}

func (m *MockBookService) FindPublishedAfter(ctx context.Context, year int) ([]model.Book, error) {
	return m.books(m.Called(ctx, year))
}

func (m *MockBookService) FindByAuthor(ctx context.Context, author string) ([]model.Book, error) {
	return m.books(m.Called(ctx, author))
}

func (m *MockBookService) FindInStockAfter(ctx context.Context, year int) ([]model.Book, error) {
	return m.books(m.Called(ctx, year))
}

func (m *MockBookService) UpdatePriceCount(ctx context.Context, title string, price float64) (model.UpdateCount, error) {
	args := m.Called(ctx, title, price)
	return args.Get(0).(model.UpdateCount), args.Error(1)
}

func (m *MockBookService) DeleteByTitle(ctx context.Context, title string) (int64, error) {
	args := m.Called(ctx, title)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookService) ProjectFields(ctx context.Context, fields ...query.Field) ([]model.PartialBook, error) {
	args := m.Called(ctx, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PartialBook), args.Error(1)
}

func (m *MockBookService) SortedByPrice(ctx context.Context, ascending bool) ([]model.Book, error) {
	return m.books(m.Called(ctx, ascending))
}

func (m *MockBookService) Paginate(ctx context.Context, skip, limit int64) ([]model.Book, error) {
	return m.books(m.Called(ctx, skip, limit))
}

func (m *MockBookService) Insert(ctx context.Context, book model.Book) (any, error) {
	args := m.Called(ctx, book)
	return args.Get(0), args.Error(1)
}

func (m *MockBookService) AveragePriceByGenre(ctx context.Context) (map[string]float64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]float64), args.Error(1)
}

func (m *MockBookService) AuthorWithMostBooks(ctx context.Context) (model.AuthorBookCount, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.AuthorBookCount), args.Error(1)
}

func (m *MockBookService) BooksByDecade(ctx context.Context) ([]model.DecadeCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DecadeCount), args.Error(1)
}

func (m *MockBookService) CreateIndex(ctx context.Context, keys ...query.Key) (string, error) {
	args := m.Called(ctx, keys)
	return args.String(0), args.Error(1)
}

func (m *MockBookService) ListIndexes(ctx context.Context) ([]model.IndexInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.IndexInfo), args.Error(1)
}

func (m *MockBookService) ExplainTitleLookup(ctx context.Context, title, verbosity string) (bson.Raw, error) {
	args := m.Called(ctx, title, verbosity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(bson.Raw), args.Error(1)
}
