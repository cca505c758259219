package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// paginationParams reads limit/offset query params with sane bounds.
// Writes a 422 and returns ok=false on a non-numeric value.
func paginationParams(ctx *gin.Context) (limit, offset int, ok bool) {
	limit, ok = intQuery(ctx, "limit", defaultPageLimit)
	if !ok {
		return 0, 0, false
	}

	offset, ok = intQuery(ctx, "offset", 0)
	if !ok {
		return 0, 0, false
	}

	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	return limit, offset, true
}

func intQuery(ctx *gin.Context, name string, fallback int) (int, bool) {
	raw := ctx.Query(name)

	if raw == "" {
		return fallback, true
	}

	v, err := strconv.Atoi(raw)

	if err != nil {
		RespondUnprocessable(ctx, "Invalid query parameter", gin.H{"fields": []FieldError{
			{Field: name, Rule: "integer", Message: "must be an integer"},
		}})
		return 0, false
	}

	return v, true
}

func boolQuery(ctx *gin.Context, name string, fallback bool) (bool, bool) {
	raw := ctx.Query(name)

	if raw == "" {
		return fallback, true
	}

	v, err := strconv.ParseBool(raw)

	if err != nil {
		RespondUnprocessable(ctx, "Invalid query parameter", gin.H{"fields": []FieldError{
			{Field: name, Rule: "boolean", Message: "must be a boolean"},
		}})
		return false, false
	}

	return v, true
}
