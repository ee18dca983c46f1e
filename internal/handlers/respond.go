// Package handlers implements the JSON HTTP API. Handler groups hold
// their store dependencies and translate between the wire format and the
// domain types.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/apperr"
)

// maxBodyBytes caps request bodies. Post content is the largest payload.
const maxBodyBytes = 1 << 20

// Pagination is the envelope every list endpoint carries alongside items.
type Pagination struct {
	Total   int  `json:"total"`
	Pages   int  `json:"pages"`
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

// newPagination computes the envelope for a page of a filtered total.
func newPagination(total, page, perPage int) Pagination {
	pages := (total + perPage - 1) / perPage
	return Pagination{
		Total:   total,
		Pages:   pages,
		Page:    page,
		PerPage: perPage,
		HasNext: page < pages,
		HasPrev: page > 1 && total > 0,
	}
}

// pageParams reads page/per_page query parameters with sane bounds.
func pageParams(r *http.Request) (page, perPage int) {
	page = 1
	perPage = 10

	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && v > 0 {
		perPage = v
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}

// respondJSON writes v as the JSON response body with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("encode response failed", "error", err)
		}
	}
}

// respondError maps a domain error to an HTTP status and a JSON error
// payload. Internal errors are logged with the cause and reported with a
// generic message.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindPermissionDenied:
		status = http.StatusForbidden
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindUnauthenticated:
		status = http.StatusUnauthorized
	default:
		slog.Error("internal error", "error", err)
	}
	respondJSON(w, status, map[string]string{"error": apperr.Message(err)})
}

// respondUpstreamError reports an AI provider failure without leaking the
// raw provider response to the caller.
func respondUpstreamError(w http.ResponseWriter, err error) {
	slog.Error("ai provider failed", "error", err)
	respondJSON(w, http.StatusBadGateway, map[string]string{
		"error": "AI provider request failed",
	})
}

// decodeJSON parses the request body into dst, rejecting malformed and
// oversized payloads.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return apperr.Validation("invalid JSON body")
	}
	// A second token means trailing garbage after the object.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apperr.Validation("invalid JSON body")
	}
	return nil
}
