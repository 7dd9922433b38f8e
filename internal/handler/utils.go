package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"bookstore/pkg/model"
	"bookstore/pkg/query"
	"bookstore/pkg/repository"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

type QueryParams struct {
	Skip   int64
	Limit  int64
	Sort   *query.Key
	Fields []query.Field
	// Paged is set when any of skip, limit or page was given.
	Paged bool
}

// ParseQueryParams reads skip, limit, page, sort and fields from the
// query string. Unparseable values, unknown fields and combinations that
// cannot be served together are errors: fields, sort and paging are
// mutually exclusive. Range checks on skip and limit are left to the
// service.
func ParseQueryParams(c *gin.Context) (QueryParams, error) {
	params := QueryParams{
		Skip:  0,
		Limit: defaultLimit,
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil {
			return params, fmt.Errorf("invalid limit %q", limitStr)
		}
		params.Limit = min(limit, maxLimit)
	}

	// Parse pagination
	params.Paged = c.Query("limit") != "" || c.Query("page") != "" || c.Query("skip") != ""
	if pageStr := c.Query("page"); pageStr != "" {
		page, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || page < 1 {
			return params, fmt.Errorf("invalid page %q", pageStr)
		}
		params.Skip = (page - 1) * params.Limit
	}

	if skipStr := c.Query("skip"); skipStr != "" {
		skip, err := strconv.ParseInt(skipStr, 10, 64)
		if err != nil {
			return params, fmt.Errorf("invalid skip %q", skipStr)
		}
		params.Skip = skip
	}

	// Parse sorting - expecting format: ?sort=price or ?sort=-price
	if sortStr := strings.TrimSpace(c.Query("sort")); sortStr != "" {
		direction := query.Ascending
		if strings.HasPrefix(sortStr, "-") {
			direction = query.Descending
			sortStr = strings.TrimPrefix(sortStr, "-")
		}
		if query.Field(sortStr) != query.Price {
			return params, fmt.Errorf("unsupported sort field %q", sortStr)
		}
		params.Sort = &query.Key{Field: query.Price, Direction: direction}
	}

	if fieldsStr := c.Query("fields"); fieldsStr != "" {
		for _, name := range strings.Split(fieldsStr, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			field, err := query.ParseField(name)
			if err != nil {
				return params, err
			}
			params.Fields = append(params.Fields, field)
		}
	}

	switch {
	case len(params.Fields) > 0 && (params.Sort != nil || params.Paged):
		return params, errors.New("fields cannot be combined with sort or pagination")
	case params.Sort != nil && params.Paged:
		return params, errors.New("sort cannot be combined with pagination")
	}

	return params, nil
}

func BuildHttpResponse(success bool, code int, message string, data []interface{}) model.HttpResponse {
	return model.HttpResponse{
		Success: success,
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// StatusFor maps an operation error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrQueryRejected):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, mongo.ErrNoDocuments):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func ExtractErrorMessage(err error) string {
	if StatusFor(err) == http.StatusInternalServerError {
		return "Internal Server Error"
	}
	return err.Error()
}

func respondError(c *gin.Context, err error) {
	code := StatusFor(err)
	c.JSON(code, BuildHttpResponse(false, code, ExtractErrorMessage(err), []interface{}{}))
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, BuildHttpResponse(false, http.StatusBadRequest, message, []interface{}{}))
}

func respondOK(c *gin.Context, message string, data ...interface{}) {
	if data == nil {
		data = []interface{}{}
	}
	c.JSON(http.StatusOK, BuildHttpResponse(true, http.StatusOK, message, data))
}
