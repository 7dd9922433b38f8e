package service

import (
	"context"
	"sort"

	interfaces "bookstore/pkg/interface"
	"bookstore/pkg/query"
	"bookstore/pkg/repository"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type BaseService[K any, V any] struct {
	Repo      interfaces.RepositoryInterface[K]
	Validator interfaces.ValidatorInterface[K, V]
	logger    zerolog.Logger
}

func NewBaseService[K any, V any](repository interfaces.RepositoryInterface[K], logger zerolog.Logger) *BaseService[K, V] {
	return &BaseService[K, V]{
		Repo:      repository,
		Validator: NewValidationService[K, V](),
		logger:    logger.With().Str("component", "service").Logger(),
	}
}

func (s *BaseService[K, V]) List(ctx context.Context, filter query.Filter, opts query.FindOptions) ([]K, error) {
	return s.Repo.GetAll(ctx, filter, opts)
}

func (s *BaseService[K, V]) ListInto(ctx context.Context, filter query.Filter, opts query.FindOptions, out any) error {
	return s.Repo.FindInto(ctx, filter, opts, out)
}

func (s *BaseService[K, V]) Find(ctx context.Context, filter query.Filter) (*K, error) {
	return s.Repo.Find(ctx, filter)
}

func (s *BaseService[K, V]) Create(ctx context.Context, entity K) (any, error) {
	if err := s.Validator.Validate(entity); err != nil {
		s.logger.Warn().Err(err).Msg("rejected invalid entity")
		return nil, repository.Rejected("validate", err)
	}

	return s.Repo.Insert(ctx, entity)
}

// CreateIfAbsent inserts entity unless a document matches filter. It
// reports whether an insert happened.
func (s *BaseService[K, V]) CreateIfAbsent(ctx context.Context, entity K, filter query.Filter) (bool, error) {
	if err := s.Validator.Validate(entity); err != nil {
		s.logger.Warn().Err(err).Msg("rejected invalid entity")
		return false, repository.Rejected("validate", err)
	}

	result, err := s.Repo.Upsert(ctx, entity, filter)
	if err != nil {
		return false, err
	}
	return result.UpsertedCount > 0, nil
}

func (s *BaseService[K, V]) BulkInsert(ctx context.Context, entities []K) ([]any, error) {
	for _, entity := range entities {
		if err := s.Validator.Validate(entity); err != nil {
			s.logger.Warn().Err(err).Msg("rejected invalid entity")
			return nil, repository.Rejected("validate", err)
		}
	}

	return s.Repo.BulkInsert(ctx, entities)
}

// Update validates the payload against V and applies it as a $set to the
// first document matching filter.
func (s *BaseService[K, V]) Update(ctx context.Context, filter query.Filter, update map[string]interface{}) (*mongo.UpdateResult, error) {
	payload, err := s.Validator.ValidateUpdateRequest(update)
	if err != nil {
		return nil, repository.Rejected("validate", err)
	}

	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	set := query.Set{}
	for _, k := range keys {
		set = set.And(query.Field(k), payload[k])
	}

	return s.Repo.UpdateOne(ctx, filter, set)
}

func (s *BaseService[K, V]) Delete(ctx context.Context, filter query.Filter) (*mongo.DeleteResult, error) {
	return s.Repo.DeleteOne(ctx, filter)
}

func (s *BaseService[K, V]) DeleteAll(ctx context.Context) (int64, error) {
	return s.Repo.DeleteMany(ctx, query.All{})
}

func (s *BaseService[K, V]) Exists(ctx context.Context, filter query.Filter) (bool, error) {
	return s.Repo.DataExists(ctx, filter)
}

func (s *BaseService[K, V]) Count(ctx context.Context, filter query.Filter) (int64, error) {
	return s.Repo.Count(ctx, filter)
}

func (s *BaseService[K, V]) Aggregate(ctx context.Context, pipeline *query.Pipeline, out any) error {
	return s.Repo.Aggregate(ctx, pipeline, out)
}
