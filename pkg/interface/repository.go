package interfaces

import (
	"context"

	"bookstore/pkg/query"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type RepositoryInterface[K any] interface {
	GetAll(ctx context.Context, filter query.Filter, opts query.FindOptions) ([]K, error)
	FindInto(ctx context.Context, filter query.Filter, opts query.FindOptions, out any) error
	Find(ctx context.Context, filter query.Filter) (*K, error)
	Insert(ctx context.Context, entity K) (any, error)
	BulkInsert(ctx context.Context, entities []K) ([]any, error)
	Upsert(ctx context.Context, entity K, filter query.Filter) (*mongo.UpdateResult, error)
	UpdateOne(ctx context.Context, filter query.Filter, update query.Update) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter query.Filter) (*mongo.DeleteResult, error)
	DeleteMany(ctx context.Context, filter query.Filter) (int64, error)
	DataExists(ctx context.Context, filter query.Filter) (bool, error)
	Count(ctx context.Context, filter query.Filter) (int64, error)
	Aggregate(ctx context.Context, pipeline *query.Pipeline, out any) error
	CreateIndex(ctx context.Context, spec query.IndexSpec) (string, error)
	ListIndexes(ctx context.Context) ([]mongo.IndexSpecification, error)
	Explain(ctx context.Context, filter query.Filter, verbosity string) (bson.Raw, error)
}
