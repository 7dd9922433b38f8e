package book

import (
	"context"

	"bookstore/pkg/model"
	"bookstore/pkg/query"
	"bookstore/pkg/utils"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

const (
	cacheKeyAveragePrice = "books:stats:average_price_by_genre"
	cacheKeyTopAuthor    = "books:stats:top_author"
	cacheKeyDecades      = "books:stats:decades"
	// bumped on every invalidation
	cacheKeyGeneration = "books:stats:gen"
)

var summaryKeys = []string{cacheKeyAveragePrice, cacheKeyTopAuthor, cacheKeyDecades}

func AveragePriceByGenrePipeline() *query.Pipeline {
	return query.NewPipeline().
		Group(query.Ref(query.Genre), query.Avg("avgPrice", query.Ref(query.Price))).
		Sort(query.Asc(query.ID))
}

// AuthorWithMostBooksPipeline breaks ties on the author name, so the
// alphabetically first of equally prolific authors wins.
func AuthorWithMostBooksPipeline() *query.Pipeline {
	return query.NewPipeline().
		Group(query.Ref(query.Author), query.Count("totalBooks")).
		Sort(query.Desc("totalBooks"), query.Asc(query.ID)).
		Limit(1)
}

// BooksByDecadePipeline groups on floor(published_year / 10) and labels
// each group "<decade>s", oldest first.
func BooksByDecadePipeline() *query.Pipeline {
	decade := query.Floor(query.Divide(query.Ref(query.PublishedYear), query.Lit(10)))
	label := query.Concat(query.ToString(query.Multiply(query.Ref(query.ID), query.Lit(10))), query.Lit("s"))

	return query.NewPipeline().
		Group(decade, query.Count("count")).
		Sort(query.Asc(query.ID)).
		Project(
			query.Compute("decade", label),
			query.Keep("count"),
			query.Drop("_id"),
		)
}

func (s *BookService) AveragePriceByGenre(ctx context.Context) (map[string]float64, error) {
	return cachedSummary(ctx, s, cacheKeyAveragePrice, func() (map[string]float64, error) {
		var rows []model.GenreAveragePrice
		if err := s.Service.Aggregate(ctx, AveragePriceByGenrePipeline(), &rows); err != nil {
			return nil, err
		}

		averages := make(map[string]float64, len(rows))
		for _, row := range rows {
			averages[row.Genre] = row.AveragePrice
		}
		return averages, nil
	})
}

// AuthorWithMostBooks returns mongo.ErrNoDocuments when the collection is
// empty.
func (s *BookService) AuthorWithMostBooks(ctx context.Context) (model.AuthorBookCount, error) {
	return cachedSummary(ctx, s, cacheKeyTopAuthor, func() (model.AuthorBookCount, error) {
		var rows []model.AuthorBookCount
		if err := s.Service.Aggregate(ctx, AuthorWithMostBooksPipeline(), &rows); err != nil {
			return model.AuthorBookCount{}, err
		}
		if len(rows) == 0 {
			return model.AuthorBookCount{}, mongo.ErrNoDocuments
		}
		return rows[0], nil
	})
}

func (s *BookService) BooksByDecade(ctx context.Context) ([]model.DecadeCount, error) {
	return cachedSummary(ctx, s, cacheKeyDecades, func() ([]model.DecadeCount, error) {
		rows := []model.DecadeCount{}
		if err := s.Service.Aggregate(ctx, BooksByDecadePipeline(), &rows); err != nil {
			return nil, err
		}
		return rows, nil
	})
}

// cachedSummary serves key from the cache or computes it. The computed
// value is stored only if no invalidation happened since the generation
// was read, so a summary built from pre-mutation data is never cached.
func cachedSummary[K any](ctx context.Context, s *BookService, key string, compute func() (K, error)) (K, error) {
	if cached, ok := utils.GetCachedData[K](ctx, s.Cache, s.logger, key); ok {
		return *cached, nil
	}

	gen, cacheable := utils.CacheGeneration(ctx, s.Cache, s.logger, cacheKeyGeneration)
	value, err := compute()
	if err != nil {
		return value, err
	}
	if cacheable {
		utils.SetCachedData(ctx, s.Cache, s.logger, cacheKeyGeneration, gen, key, value, s.CacheTTL)
	}
	return value, nil
}

func (s *BookService) invalidateSummaries(ctx context.Context) {
	utils.InvalidateGeneration(ctx, s.Cache, s.logger, cacheKeyGeneration, summaryKeys...)
}
