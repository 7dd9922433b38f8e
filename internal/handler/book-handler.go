package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"bookstore/pkg/model"
	"bookstore/pkg/query"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// BookService is the part of the books service the HTTP layer uses.
type BookService interface {
	FindByGenre(ctx context.Context, genre string) ([]model.Book, error)
	FindPublishedAfter(ctx context.Context, year int) ([]model.Book, error)
	FindByAuthor(ctx context.Context, author string) ([]model.Book, error)
	FindInStockAfter(ctx context.Context, year int) ([]model.Book, error)
	UpdatePriceCount(ctx context.Context, title string, price float64) (model.UpdateCount, error)
	DeleteByTitle(ctx context.Context, title string) (int64, error)
	ProjectFields(ctx context.Context, fields ...query.Field) ([]model.PartialBook, error)
	SortedByPrice(ctx context.Context, ascending bool) ([]model.Book, error)
	Paginate(ctx context.Context, skip, limit int64) ([]model.Book, error)
	Insert(ctx context.Context, book model.Book) (any, error)

	AveragePriceByGenre(ctx context.Context) (map[string]float64, error)
	AuthorWithMostBooks(ctx context.Context) (model.AuthorBookCount, error)
	BooksByDecade(ctx context.Context) ([]model.DecadeCount, error)

	CreateIndex(ctx context.Context, keys ...query.Key) (string, error)
	ListIndexes(ctx context.Context) ([]model.IndexInfo, error)
	ExplainTitleLookup(ctx context.Context, title, verbosity string) (bson.Raw, error)
}

type BookHandler struct {
	service BookService
	logger  zerolog.Logger
}

func NewBookHandler(service BookService, logger zerolog.Logger) *BookHandler {
	return &BookHandler{
		service: service,
		logger:  logger.With().Str("component", "http").Logger(),
	}
}

type PriceUpdateRequest struct {
	Title string   `json:"title" binding:"required"`
	Price *float64 `json:"price" binding:"required,gte=0"`
}

// GetBooks lists books. fields selects a projection, sort orders the whole
// collection by price, otherwise skip and limit page through it. Asking
// for more than one of these is a 400.
func (h *BookHandler) GetBooks(c *gin.Context) {
	params, err := ParseQueryParams(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	switch {
	case len(params.Fields) > 0:
		books, err := h.service.ProjectFields(c.Request.Context(), params.Fields...)
		if err != nil {
			h.fail(c, "project books", err)
			return
		}
		respondOK(c, "Books found", books)
	case params.Sort != nil:
		books, err := h.service.SortedByPrice(c.Request.Context(), params.Sort.Direction == query.Ascending)
		if err != nil {
			h.fail(c, "sort books", err)
			return
		}
		respondOK(c, "Books found", books)
	default:
		books, err := h.service.Paginate(c.Request.Context(), params.Skip, params.Limit)
		if err != nil {
			h.fail(c, "paginate books", err)
			return
		}
		respondOK(c, "Books found", books)
	}
}

func (h *BookHandler) GetBooksByGenre(c *gin.Context) {
	books, err := h.service.FindByGenre(c.Request.Context(), c.Param("genre"))
	if err != nil {
		h.fail(c, "find by genre", err)
		return
	}
	respondOK(c, "Books found", books)
}

func (h *BookHandler) GetBooksByAuthor(c *gin.Context) {
	books, err := h.service.FindByAuthor(c.Request.Context(), c.Param("author"))
	if err != nil {
		h.fail(c, "find by author", err)
		return
	}
	respondOK(c, "Books found", books)
}

func (h *BookHandler) GetBooksPublishedAfter(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		respondBadRequest(c, fmt.Sprintf("invalid year %q", c.Param("year")))
		return
	}

	var books []model.Book
	if c.Query("in_stock") == "true" {
		books, err = h.service.FindInStockAfter(c.Request.Context(), year)
	} else {
		books, err = h.service.FindPublishedAfter(c.Request.Context(), year)
	}
	if err != nil {
		h.fail(c, "find published after", err)
		return
	}
	respondOK(c, "Books found", books)
}

func (h *BookHandler) CreateBook(c *gin.Context) {
	var book model.Book
	if err := c.ShouldBindJSON(&book); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}
	book.Id = bson.ObjectID{}

	id, err := h.service.Insert(c.Request.Context(), book)
	if err != nil {
		h.fail(c, "create book", err)
		return
	}

	if oid, ok := id.(bson.ObjectID); ok {
		book.Id = oid
	}
	c.JSON(http.StatusCreated, BuildHttpResponse(true, http.StatusCreated, "Book created", []interface{}{book}))
}

func (h *BookHandler) UpdatePrice(c *gin.Context) {
	var request PriceUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	count, err := h.service.UpdatePriceCount(c.Request.Context(), request.Title, *request.Price)
	if err != nil {
		h.fail(c, "update price", err)
		return
	}
	respondOK(c, "Price updated", count)
}

func (h *BookHandler) DeleteBook(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		respondBadRequest(c, "Title not specified")
		return
	}

	deleted, err := h.service.DeleteByTitle(c.Request.Context(), title)
	if err != nil {
		h.fail(c, "delete book", err)
		return
	}
	respondOK(c, "Book deleted", gin.H{"deleted": deleted})
}

func (h *BookHandler) fail(c *gin.Context, op string, err error) {
	event := h.logger.Warn()
	if StatusFor(err) >= http.StatusInternalServerError {
		event = h.logger.Error()
	}
	event.Err(err).Str("op", op).Str("request_id", c.GetString(RequestIDKey)).Msg("request failed")
	respondError(c, err)
}
