package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"bookstore/pkg/metrics"
	"bookstore/pkg/query"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type Options struct {
	// Timeout bounds every request on top of the caller's context.
	// Zero leaves the caller's deadline alone.
	Timeout time.Duration
	Logger  zerolog.Logger
}

type BaseRepository[K any] struct {
	Collection     Collection
	Indexes        IndexView
	Commander      Commander
	CollectionName string
	Timeout        time.Duration
	logger         zerolog.Logger
}

func NewRepository[K any](database *mongo.Database, collection_name string, opts Options) *BaseRepository[K] {
	coll := database.Collection(collection_name)
	return newRepository[K](coll, coll.Indexes(), database, opts)
}

func newRepository[K any](coll Collection, indexes IndexView, commander Commander, opts Options) *BaseRepository[K] {
	return &BaseRepository[K]{
		Collection:     coll,
		Indexes:        indexes,
		Commander:      commander,
		CollectionName: coll.Name(),
		Timeout:        opts.Timeout,
		logger:         opts.Logger.With().Str("component", "repository").Str("collection", coll.Name()).Logger(),
	}
}

func (r *BaseRepository[K]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.Timeout)
}

func (r *BaseRepository[K]) finish(op string, start time.Time, err error) error {
	err = wrap(op, err)
	metrics.ObserveStoreOperation(op, outcome(err), start)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		r.logger.Error().Err(err).Str("op", op).Msg("store operation failed")
	} else {
		r.logger.Debug().Str("op", op).Dur("took", time.Since(start)).Msg("store operation")
	}
	return err
}

func (r *BaseRepository[K]) GetAll(ctx context.Context, filter query.Filter, opts query.FindOptions) ([]K, error) {
	results := []K{}
	if err := r.FindInto(ctx, filter, opts, &results); err != nil {
		return []K{}, err
	}
	return results, nil
}

// FindInto decodes every matching document into out, which must be a
// pointer to a slice. It is used when a projection changes the shape.
func (r *BaseRepository[K]) FindInto(ctx context.Context, filter query.Filter, opts query.FindOptions, out any) error {
	const op = "find"
	start := time.Now()
	if err := filter.Validate(); err != nil {
		return r.finish(op, start, Rejected(op, err))
	}
	if err := opts.Validate(); err != nil {
		return r.finish(op, start, Rejected(op, err))
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cursor, err := r.Collection.Find(ctx, filter.Document(), opts.Builder())
	if err != nil {
		return r.finish(op, start, err)
	}
	defer cursor.Close(ctx)

	return r.finish(op, start, cursor.All(ctx, out))
}

// Find returns the first match. mongo.ErrNoDocuments is returned as is.
func (r *BaseRepository[K]) Find(ctx context.Context, filter query.Filter) (*K, error) {
	const op = "find_one"
	start := time.Now()
	var result K
	if err := filter.Validate(); err != nil {
		return nil, r.finish(op, start, Rejected(op, err))
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.Collection.FindOne(ctx, filter.Document()).Decode(&result)
	if err != nil {
		return nil, r.finish(op, start, err)
	}
	return &result, r.finish(op, start, nil)
}

func (r *BaseRepository[K]) Insert(ctx context.Context, obj K) (any, error) {
	const op = "insert_one"
	start := time.Now()
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.Collection.InsertOne(ctx, obj)
	if err != nil {
		return nil, r.finish(op, start, err)
	}
	return result.InsertedID, r.finish(op, start, nil)
}

func (r *BaseRepository[K]) BulkInsert(ctx context.Context, objs []K) ([]any, error) {
	const op = "insert_many"
	start := time.Now()
	if len(objs) == 0 {
		return []any{}, nil
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.Collection.InsertMany(ctx, objs)
	if err != nil {
		return nil, r.finish(op, start, err)
	}
	return result.InsertedIDs, r.finish(op, start, nil)
}

// UpdateOne applies update to the first document matching filter. Which
// document is first is up to the store when several match.
func (r *BaseRepository[K]) UpdateOne(ctx context.Context, filter query.Filter, update query.Update) (*mongo.UpdateResult, error) {
	const op = "update_one"
	start := time.Now()
	if err := filter.Validate(); err != nil {
		return nil, r.finish(op, start, Rejected(op, err))
	}
	if err := update.Validate(); err != nil {
		return nil, r.finish(op, start, Rejected(op, err))
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.Collection.UpdateOne(ctx, filter.Document(), update.Document())
	if err != nil {
		return nil, r.finish(op, start, err)
	}
	return result, r.finish(op, start, nil)
}

func (r *BaseRepository[K]) DeleteOne(ctx context.Context, filter query.Filter) (*mongo.DeleteResult, error) {
	const op = "delete_one"
	start := time.Now()
	if err := filter.Validate(); err != nil {
		return nil, r.finish(op, start, Rejected(op, err))
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.Collection.DeleteOne(ctx, filter.Document())
	if err != nil {
		return nil, r.finish(op, start, err)
	}
	return result, r.finish(op, start, nil)
}

func (r *BaseRepository[K]) DeleteMany(ctx context.Context, filter query.Filter) (int64, error) {
	const op = "delete_many"
	start := time.Now()
	if err := filter.Validate(); err != nil {
		return 0, r.finish(op, start, Rejected(op, err))
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.Collection.DeleteMany(ctx, filter.Document())
	if err != nil {
		return 0, r.finish(op, start, err)
	}
	return result.DeletedCount, r.finish(op, start, nil)
}

func (r *BaseRepository[K]) Count(ctx context.Context, filter query.Filter) (int64, error) {
	const op = "count"
	start := time.Now()
	if err := filter.Validate(); err != nil {
		return 0, r.finish(op, start, Rejected(op, err))
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	n, err := r.Collection.CountDocuments(ctx, filter.Document())
	return n, r.finish(op, start, err)
}

func (r *BaseRepository[K]) DataExists(ctx context.Context, filter query.Filter) (bool, error) {
	const op = "exists"
	start := time.Now()
	if err := filter.Validate(); err != nil {
		return false, r.finish(op, start, Rejected(op, err))
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	var result bson.M
	err := r.Collection.FindOne(ctx, filter.Document(), opts).Decode(&result)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, r.finish(op, start, nil)
	}
	if err != nil {
		return false, r.finish(op, start, fmt.Errorf("failed to check data existence: %w", err))
	}

	return true, r.finish(op, start, nil)
}

// Upsert inserts data when nothing matches filter and leaves an existing
// match untouched.
func (r *BaseRepository[K]) Upsert(ctx context.Context, data K, filter query.Filter) (*mongo.UpdateResult, error) {
	const op = "upsert"
	start := time.Now()
	if err := filter.Validate(); err != nil {
		return nil, r.finish(op, start, Rejected(op, err))
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.UpdateOne().SetUpsert(true)
	result, err := r.Collection.UpdateOne(
		ctx,
		filter.Document(),
		bson.M{"$setOnInsert": r.buildUpdateDocument(data)},
		opts,
	)
	if err != nil {
		return nil, r.finish(op, start, err)
	}
	return result, r.finish(op, start, nil)
}

// Aggregate runs the pipeline and decodes every output document into out,
// a pointer to a slice.
func (r *BaseRepository[K]) Aggregate(ctx context.Context, pipeline *query.Pipeline, out any) error {
	const op = "aggregate"
	start := time.Now()
	if err := pipeline.Validate(); err != nil {
		return r.finish(op, start, Rejected(op, err))
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cursor, err := r.Collection.Aggregate(ctx, pipeline.Build())
	if err != nil {
		return r.finish(op, start, err)
	}
	defer cursor.Close(ctx)

	return r.finish(op, start, cursor.All(ctx, out))
}

func (r *BaseRepository[K]) CreateIndex(ctx context.Context, spec query.IndexSpec) (string, error) {
	const op = "create_index"
	start := time.Now()
	if err := spec.Validate(); err != nil {
		return "", r.finish(op, start, Rejected(op, err))
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	name, err := r.Indexes.CreateOne(ctx, spec.Model())
	return name, r.finish(op, start, err)
}

func (r *BaseRepository[K]) ListIndexes(ctx context.Context) ([]mongo.IndexSpecification, error) {
	const op = "list_indexes"
	start := time.Now()
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	specs, err := r.Indexes.ListSpecifications(ctx)
	if err != nil {
		return nil, r.finish(op, start, err)
	}
	return specs, r.finish(op, start, nil)
}

var explainVerbosities = map[string]bool{
	"queryPlanner":      true,
	"executionStats":    true,
	"allPlansExecution": true,
}

// Explain runs a find for filter in explain mode and returns the store's
// diagnostic document unmodified.
func (r *BaseRepository[K]) Explain(ctx context.Context, filter query.Filter, verbosity string) (bson.Raw, error) {
	const op = "explain"
	start := time.Now()
	if !explainVerbosities[verbosity] {
		return nil, r.finish(op, start, Rejected(op, fmt.Errorf("unknown verbosity %q", verbosity)))
	}
	if err := filter.Validate(); err != nil {
		return nil, r.finish(op, start, Rejected(op, err))
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cmd := bson.D{
		{Key: "explain", Value: bson.D{
			{Key: "find", Value: r.CollectionName},
			{Key: "filter", Value: filter.Document()},
		}},
		{Key: "verbosity", Value: verbosity},
	}
	raw, err := r.Commander.RunCommand(ctx, cmd).Raw()
	if err != nil {
		return nil, r.finish(op, start, err)
	}
	return raw, r.finish(op, start, nil)
}

// buildUpdateDocument maps the bson-tagged fields of data into a document.
// Zero values of omitempty fields are left out so the store can assign
// them (e.g. _id).
func (r *BaseRepository[K]) buildUpdateDocument(data K) bson.M {
	update := bson.M{}
	v := reflect.ValueOf(data)
	t := reflect.TypeOf(data)
	if t.Kind() != reflect.Struct {
		return update
	}

	for i := 0; i < t.NumField(); i++ {
		structField := t.Field(i)
		valueField := v.Field(i)

		bsonTag := structField.Tag.Get("bson")
		if bsonTag == "-" || bsonTag == "" {
			continue
		}

		fieldName, flags, _ := strings.Cut(bsonTag, ",")
		if fieldName == "" {
			fieldName = strings.ToLower(structField.Name)
		}
		if strings.Contains(flags, "omitempty") && valueField.IsZero() {
			continue
		}

		update[fieldName] = valueField.Interface()
	}

	return update
}
