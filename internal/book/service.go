package book

import (
	"context"
	"fmt"
	"time"

	interfaces "bookstore/pkg/interface"
	"bookstore/pkg/model"
	"bookstore/pkg/query"
	"bookstore/pkg/repository"
	"bookstore/pkg/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type Options struct {
	// Cache holds aggregation summaries; nil disables caching.
	Cache    *redis.Client
	CacheTTL time.Duration
	// UniqueTitles makes EnsureIndexes create the title index as unique.
	UniqueTitles bool
	Timeout      time.Duration
	Logger       zerolog.Logger
}

// BookService exposes the typed operations on the books collection.
type BookService struct {
	Service      *service.BaseService[model.Book, model.BookUpdateRequest]
	Repository   interfaces.RepositoryInterface[model.Book]
	Cache        *redis.Client
	CacheTTL     time.Duration
	UniqueTitles bool
	logger       zerolog.Logger
}

func NewBookService(database *mongo.Database, collection_name string, opts Options) *BookService {
	repo := NewBookRepository(database, collection_name, repository.Options{
		Timeout: opts.Timeout,
		Logger:  opts.Logger,
	})
	return NewBookServiceWithRepository(&repo.Repository, opts)
}

func NewBookServiceWithRepository(repo interfaces.RepositoryInterface[model.Book], opts Options) *BookService {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &BookService{
		Service:      service.NewBaseService[model.Book, model.BookUpdateRequest](repo, opts.Logger),
		Repository:   repo,
		Cache:        opts.Cache,
		CacheTTL:     ttl,
		UniqueTitles: opts.UniqueTitles,
		logger:       opts.Logger.With().Str("component", "books").Logger(),
	}
}

func (s *BookService) FindByGenre(ctx context.Context, genre string) ([]model.Book, error) {
	return s.Service.List(ctx, query.Eq(query.Genre, genre), query.FindOptions{})
}

func (s *BookService) FindPublishedAfter(ctx context.Context, year int) ([]model.Book, error) {
	return s.Service.List(ctx, query.Gt(query.PublishedYear, year), query.FindOptions{})
}

func (s *BookService) FindByAuthor(ctx context.Context, author string) ([]model.Book, error) {
	return s.Service.List(ctx, query.Eq(query.Author, author), query.FindOptions{})
}

func (s *BookService) FindInStockAfter(ctx context.Context, year int) ([]model.Book, error) {
	filter := query.And{query.Eq(query.InStock, true), query.Gt(query.PublishedYear, year)}
	return s.Service.List(ctx, filter, query.FindOptions{})
}

// UpdatePrice sets the price of the first book titled title and returns
// the number of modified books. Zero means no match or an unchanged price.
func (s *BookService) UpdatePrice(ctx context.Context, title string, price float64) (int64, error) {
	count, err := s.UpdatePriceCount(ctx, title, price)
	return count.Modified, err
}

func (s *BookService) UpdatePriceCount(ctx context.Context, title string, price float64) (model.UpdateCount, error) {
	result, err := s.Service.Update(ctx, query.Eq(query.Title, title), map[string]interface{}{
		string(query.Price): price,
	})
	if err != nil {
		return model.UpdateCount{}, err
	}

	if result.ModifiedCount > 0 {
		s.invalidateSummaries(ctx)
	}
	s.logger.Info().Str("title", title).Float64("price", price).
		Int64("matched", result.MatchedCount).Int64("modified", result.ModifiedCount).
		Msg("price updated")
	return model.UpdateCount{Matched: result.MatchedCount, Modified: result.ModifiedCount}, nil
}

// DeleteByTitle removes the first book titled title and returns the
// number of removed books.
func (s *BookService) DeleteByTitle(ctx context.Context, title string) (int64, error) {
	result, err := s.Service.Delete(ctx, query.Eq(query.Title, title))
	if err != nil {
		return 0, err
	}

	if result.DeletedCount > 0 {
		s.invalidateSummaries(ctx)
	}
	s.logger.Info().Str("title", title).Int64("deleted", result.DeletedCount).Msg("book deleted")
	return result.DeletedCount, nil
}

// ProjectFields returns every book reduced to fields. _id is left out
// unless it is listed.
func (s *BookService) ProjectFields(ctx context.Context, fields ...query.Field) ([]model.PartialBook, error) {
	projection := query.Include(fields...)
	results := []model.PartialBook{}
	err := s.Service.ListInto(ctx, query.All{}, query.FindOptions{Projection: &projection}, &results)
	if err != nil {
		return []model.PartialBook{}, err
	}
	return results, nil
}

func (s *BookService) SortedByPrice(ctx context.Context, ascending bool) ([]model.Book, error) {
	key := query.Desc(query.Price)
	if ascending {
		key = query.Asc(query.Price)
	}
	return s.Service.List(ctx, query.All{}, query.FindOptions{Sort: query.Sort{key}})
}

// Paginate returns one page of books ordered by _id, so consecutive pages
// never overlap.
func (s *BookService) Paginate(ctx context.Context, skip, limit int64) ([]model.Book, error) {
	if skip < 0 {
		return []model.Book{}, repository.Rejected("paginate", fmt.Errorf("skip must be >= 0, got %d", skip))
	}
	if limit <= 0 {
		return []model.Book{}, repository.Rejected("paginate", fmt.Errorf("limit must be > 0, got %d", limit))
	}
	return s.Service.List(ctx, query.All{}, query.FindOptions{
		Sort:  query.Sort{query.Asc(query.ID)},
		Skip:  skip,
		Limit: limit,
	})
}

func (s *BookService) Insert(ctx context.Context, book model.Book) (any, error) {
	id, err := s.Service.Create(ctx, book)
	if err != nil {
		return nil, err
	}
	s.invalidateSummaries(ctx)
	return id, nil
}

func (s *BookService) InsertMany(ctx context.Context, books []model.Book) ([]any, error) {
	ids, err := s.Service.BulkInsert(ctx, books)
	if err != nil {
		return nil, err
	}
	s.invalidateSummaries(ctx)
	return ids, nil
}

func (s *BookService) Count(ctx context.Context) (int64, error) {
	return s.Service.Count(ctx, query.All{})
}

// Reset deletes every book.
func (s *BookService) Reset(ctx context.Context) (int64, error) {
	n, err := s.Service.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.invalidateSummaries(ctx)
	return n, nil
}
