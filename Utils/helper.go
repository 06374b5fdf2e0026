package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// Pagination defaults shared by every list endpoint.
const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Pagination is the envelope returned alongside every paginated listing.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// NewPagination computes total_pages as ceil(totalItems/perPage); an empty
// result set has zero pages.
func NewPagination(page, perPage, totalItems int) Pagination {
	totalPages := 0
	if totalItems > 0 {
		totalPages = (totalItems + perPage - 1) / perPage
	}
	return Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

// Offset returns the zero-based row offset for the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// ParsePagination reads page/per_page query parameters. Non-numeric values
// fall back to the defaults; values below 1 are rejected; per_page is capped
// at MaxPerPage without error.
func ParsePagination(r *http.Request) (page, perPage int, err error) {
	page = DefaultPage
	perPage = DefaultPerPage

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if v, convErr := strconv.Atoi(pageStr); convErr == nil {
			page = v
		}
	}
	if perPageStr := r.URL.Query().Get("per_page"); perPageStr != "" {
		if v, convErr := strconv.Atoi(perPageStr); convErr == nil {
			perPage = v
		}
	}

	if page < 1 {
		return 0, 0, errors.New("Page must be >= 1")
	}
	if perPage < 1 {
		return 0, 0, errors.New("Per page must be >= 1")
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	return page, perPage, nil
}

// SendJSONResponse sends a JSON response with proper headers
func SendJSONResponse(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Log encoding errors but don't expose to client
		fmt.Printf("Failed to encode JSON response: %v\n", err)
	}
}

// SendErrorResponse sends an {"error": "<message>"} body with the given status
func SendErrorResponse(w http.ResponseWriter, status int, message string) {
	SendJSONResponse(w, status, map[string]string{"error": message})
}
