// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/okian/metaforge/internal/domain/catalog"
)

// catalogSummary is the wire shape of GET /catalog.
type catalogSummary struct {
	Skills       []string `json:"skills"`
	Supports     []string `json:"supports"`
	Ascendancies []string `json:"ascendancies"`
}

// CatalogHandler serves a read-only summary of the loaded catalog.
type CatalogHandler struct {
	cat *catalog.Catalog
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{cat: cat}
}

// HandleCatalog handles GET /catalog requests.
func (h *CatalogHandler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	skills := h.cat.Skills()
	supports := h.cat.Supports()
	ascendancies := h.cat.Ascendancies()

	summary := catalogSummary{
		Skills:       make([]string, len(skills)),
		Supports:     make([]string, len(supports)),
		Ascendancies: make([]string, len(ascendancies)),
	}
	for i, s := range skills {
		summary.Skills[i] = s.ID
	}
	for i, s := range supports {
		summary.Supports[i] = s.ID
	}
	for i, a := range ascendancies {
		summary.Ascendancies[i] = a.ID
	}

	writeJSON(w, http.StatusOK, summary)
}
