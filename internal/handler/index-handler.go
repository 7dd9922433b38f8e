package handler

import (
	"encoding/json"
	"net/http"

	"bookstore/pkg/query"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type CreateIndexRequest struct {
	Keys []query.Key `json:"keys" binding:"required,min=1"`
}

func (h *BookHandler) ListIndexes(c *gin.Context) {
	indexes, err := h.service.ListIndexes(c.Request.Context())
	if err != nil {
		h.fail(c, "list indexes", err)
		return
	}
	respondOK(c, "Indexes found", indexes)
}

func (h *BookHandler) CreateIndex(c *gin.Context) {
	var request CreateIndexRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	name, err := h.service.CreateIndex(c.Request.Context(), request.Keys...)
	if err != nil {
		h.fail(c, "create index", err)
		return
	}
	c.JSON(http.StatusCreated, BuildHttpResponse(true, http.StatusCreated, "Index created", []interface{}{gin.H{"name": name}}))
}

// Explain returns the plan of a title lookup as relaxed extended JSON.
func (h *BookHandler) Explain(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		respondBadRequest(c, "Title not specified")
		return
	}

	plan, err := h.service.ExplainTitleLookup(c.Request.Context(), title, c.Query("verbosity"))
	if err != nil {
		h.fail(c, "explain", err)
		return
	}

	doc, err := bson.MarshalExtJSON(plan, false, false)
	if err != nil {
		h.fail(c, "explain", err)
		return
	}
	respondOK(c, "Query plan", json.RawMessage(doc))
}
