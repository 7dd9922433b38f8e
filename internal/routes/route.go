package routes

import (
	"context"
	"net/http"

	"bookstore/internal/handler"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Pinger reports whether the store is reachable.
type Pinger func(ctx context.Context) error

func SetupRoutes(bookHandler *handler.BookHandler, ping Pinger, logger zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), handler.RequestID(), handler.Observe(logger))

	router.GET("/books", bookHandler.GetBooks)
	router.GET("/books/genre/:genre", bookHandler.GetBooksByGenre)
	router.GET("/books/author/:author", bookHandler.GetBooksByAuthor)
	router.GET("/books/published-after/:year", bookHandler.GetBooksPublishedAfter)
	router.POST("/books", bookHandler.CreateBook)
	router.PUT("/books/price", bookHandler.UpdatePrice)
	router.DELETE("/books", bookHandler.DeleteBook)

	stats := router.Group("/stats")
	stats.GET("/genres/average-price", bookHandler.GetAveragePriceByGenre)
	stats.GET("/authors/top", bookHandler.GetTopAuthor)
	stats.GET("/decades", bookHandler.GetBooksByDecade)

	router.GET("/indexes", bookHandler.ListIndexes)
	router.POST("/indexes", bookHandler.CreateIndex)
	router.GET("/explain", bookHandler.Explain)

	router.GET("/healthz", func(c *gin.Context) {
		if err := ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, handler.BuildHttpResponse(false, http.StatusServiceUnavailable, "store unavailable", []interface{}{}))
			return
		}
		c.JSON(http.StatusOK, handler.BuildHttpResponse(true, http.StatusOK, "ok", []interface{}{}))
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
