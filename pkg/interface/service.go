package interfaces

import (
	"context"

	"bookstore/pkg/query"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

type ServiceInterface[K any, V any] interface {
	List(ctx context.Context, filter query.Filter, opts query.FindOptions) ([]K, error)
	ListInto(ctx context.Context, filter query.Filter, opts query.FindOptions, out any) error
	Find(ctx context.Context, filter query.Filter) (*K, error)
	Create(ctx context.Context, entity K) (any, error)
	CreateIfAbsent(ctx context.Context, entity K, filter query.Filter) (bool, error)
	BulkInsert(ctx context.Context, entities []K) ([]any, error)
	Update(ctx context.Context, filter query.Filter, update map[string]interface{}) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, filter query.Filter) (*mongo.DeleteResult, error)
	DeleteAll(ctx context.Context) (int64, error)
	Exists(ctx context.Context, filter query.Filter) (bool, error)
	Count(ctx context.Context, filter query.Filter) (int64, error)
	Aggregate(ctx context.Context, pipeline *query.Pipeline, out any) error
}
