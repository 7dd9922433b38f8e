package book

import (
	"context"

	"bookstore/pkg/model"
	"bookstore/pkg/query"
	"bookstore/pkg/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const DefaultExplainVerbosity = "executionStats"

// CreateIndex builds an index over keys and returns the name the store
// assigned. Creating an index that already exists is a no-op.
func (s *BookService) CreateIndex(ctx context.Context, keys ...query.Key) (string, error) {
	return s.CreateIndexSpec(ctx, query.NewIndex(keys...))
}

func (s *BookService) CreateIndexSpec(ctx context.Context, spec query.IndexSpec) (string, error) {
	name, err := s.Repository.CreateIndex(ctx, spec)
	if err != nil {
		return "", err
	}
	s.logger.Info().Str("index", name).Bool("unique", spec.Unique).Msg("index ensured")
	return name, nil
}

// EnsureIndexes creates the title index and the compound author/year
// index. The title index is unique only when UniqueTitles is set.
func (s *BookService) EnsureIndexes(ctx context.Context) ([]string, error) {
	specs := []query.IndexSpec{
		{Keys: []query.Key{query.Asc(query.Title)}, Unique: s.UniqueTitles},
		query.NewIndex(query.Asc(query.Author), query.Desc(query.PublishedYear)),
	}

	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		name, err := s.CreateIndexSpec(ctx, spec)
		if err != nil {
			return names, err
		}
		names = append(names, name)
	}
	return names, nil
}

func (s *BookService) ListIndexes(ctx context.Context) ([]model.IndexInfo, error) {
	specs, err := s.Repository.ListIndexes(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]model.IndexInfo, 0, len(specs))
	for _, spec := range specs {
		info, err := toIndexInfo(spec)
		if err != nil {
			return nil, repository.Rejected("list_indexes", err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func toIndexInfo(spec mongo.IndexSpecification) (model.IndexInfo, error) {
	var keys bson.D
	if err := bson.Unmarshal(spec.KeysDocument, &keys); err != nil {
		return model.IndexInfo{}, err
	}

	info := model.IndexInfo{
		Name:   spec.Name,
		Keys:   make([]model.IndexKey, 0, len(keys)),
		Unique: spec.Unique != nil && *spec.Unique,
	}
	for _, key := range keys {
		info.Keys = append(info.Keys, model.IndexKey{Field: key.Key, Direction: key.Value})
	}
	return info, nil
}

// Explain returns the store's plan for a find with filter. An empty
// verbosity means executionStats.
func (s *BookService) Explain(ctx context.Context, filter query.Filter, verbosity string) (bson.Raw, error) {
	if verbosity == "" {
		verbosity = DefaultExplainVerbosity
	}
	return s.Repository.Explain(ctx, filter, verbosity)
}

func (s *BookService) ExplainTitleLookup(ctx context.Context, title, verbosity string) (bson.Raw, error) {
	return s.Explain(ctx, query.Eq(query.Title, title), verbosity)
}
