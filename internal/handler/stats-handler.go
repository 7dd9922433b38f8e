package handler

import (
	"github.com/gin-gonic/gin"
)

func (h *BookHandler) GetAveragePriceByGenre(c *gin.Context) {
	averages, err := h.service.AveragePriceByGenre(c.Request.Context())
	if err != nil {
		h.fail(c, "average price by genre", err)
		return
	}
	respondOK(c, "Average price by genre", averages)
}

func (h *BookHandler) GetTopAuthor(c *gin.Context) {
	top, err := h.service.AuthorWithMostBooks(c.Request.Context())
	if err != nil {
		h.fail(c, "author with most books", err)
		return
	}
	respondOK(c, "Author with most books", top)
}

func (h *BookHandler) GetBooksByDecade(c *gin.Context) {
	decades, err := h.service.BooksByDecade(c.Request.Context())
	if err != nil {
		h.fail(c, "books by decade", err)
		return
	}
	respondOK(c, "Books by decade", decades)
}
