package mocks

import (
	"context"
	"reflect"

	"bookstore/pkg/query"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Mock repository for testing
type MockRepository[K any] struct {
	mock.Mock
}

func (m *MockRepository[K]) GetAll(ctx context.Context, filter query.Filter, opts query.FindOptions) ([]K, error) {
	args := m.Called(ctx, filter, opts)
	if args.Get(0) == nil {
		return []K{}, args.Error(1)
	}
	return args.Get(0).([]K), args.Error(1)
}

// FindInto copies the slice registered as the first return value into out.
func (m *MockRepository[K]) FindInto(ctx context.Context, filter query.Filter, opts query.FindOptions, out any) error {
	args := m.Called(ctx, filter, opts)
	fill(out, args.Get(0))
	return args.Error(1)
}

func (m *MockRepository[K]) Find(ctx context.Context, filter query.Filter) (*K, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*K), args.Error(1)
}

func (m *MockRepository[K]) Insert(ctx context.Context, entity K) (any, error) {
	args := m.Called(ctx, entity)
	return args.Get(0), args.Error(1)
}

func (m *MockRepository[K]) BulkInsert(ctx context.Context, entities []K) ([]any, error) {
	args := m.Called(ctx, entities)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]any), args.Error(1)
}

func (m *MockRepository[K]) Upsert(ctx context.Context, entity K, filter query.Filter) (*mongo.UpdateResult, error) {
	args := m.Called(ctx, entity, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mongo.UpdateResult), args.Error(1)
}

func (m *MockRepository[K]) UpdateOne(ctx context.Context, filter query.Filter, update query.Update) (*mongo.UpdateResult, error) {
	args := m.Called(ctx, filter, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mongo.UpdateResult), args.Error(1)
}

func (m *MockRepository[K]) DeleteOne(ctx context.Context, filter query.Filter) (*mongo.DeleteResult, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mongo.DeleteResult), args.Error(1)
}

func (m *MockRepository[K]) DeleteMany(ctx context.Context, filter query.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository[K]) DataExists(ctx context.Context, filter query.Filter) (bool, error) {
	args := m.Called(ctx, filter)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository[K]) Count(ctx context.Context, filter query.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// Aggregate copies the slice registered as the first return value into out.
func (m *MockRepository[K]) Aggregate(ctx context.Context, pipeline *query.Pipeline, out any) error {
	args := m.Called(ctx, pipeline)
	fill(out, args.Get(0))
	return args.Error(1)
}

func (m *MockRepository[K]) CreateIndex(ctx context.Context, spec query.IndexSpec) (string, error) {
	args := m.Called(ctx, spec)
	return args.String(0), args.Error(1)
}

func (m *MockRepository[K]) ListIndexes(ctx context.Context) ([]mongo.IndexSpecification, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]mongo.IndexSpecification), args.Error(1)
}

func (m *MockRepository[K]) Explain(ctx context.Context, filter query.Filter, verbosity string) (bson.Raw, error) {
	args := m.Called(ctx, filter, verbosity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(bson.Raw), args.Error(1)
}

func fill(out any, value any) {
	if value == nil || out == nil {
		return
	}
	reflect.ValueOf(out).Elem().Set(reflect.ValueOf(value))
}

// Mock validation service for testing
type MockValidationService[K any, V any] struct {
	mock.Mock
}

func (m *MockValidationService[K, V]) Validate(entity K) error {
	args := m.Called(entity)
	return args.Error(0)
}

func (m *MockValidationService[K, V]) ValidateUpdateRequest(payload map[string]interface{}) (map[string]interface{}, error) {
	args := m.Called(payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}
