package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/catalog"
	"github.com/starford/raido/internal/catalogservice"
)

// defaultSearchLimit caps search responses when the client does not ask for a
// specific page size.
const defaultSearchLimit = 50

// Handler holds API route handlers.
type Handler struct {
	svc *catalogservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *catalogservice.Service) *Handler {
	return &Handler{svc: svc}
}

// GetCatalog handles GET /catalog.
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Current(r.Context())
	if err != nil {
		writeCatalogError(w, err, "get catalog")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ListCategories handles GET /categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	tree, err := h.svc.Categories(r.Context())
	if err != nil {
		writeCatalogError(w, err, "list categories")
		return
	}
	writeJSON(w, http.StatusOK, CategoryListResponse{
		Categories: tree,
		Total:      len(tree),
	})
}

// GetCategory handles GET /categories/{slug}.
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("slug is required"))
		return
	}
	node, err := h.svc.Category(r.Context(), slug)
	if err != nil {
		writeCatalogError(w, err, "get category")
		return
	}
	writeJSON(w, http.StatusOK, node)
}

// Search handles GET /search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeCatalogError(w, err, "search")
		return
	}
	if results == nil {
		results = []catalog.Item{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results, Total: len(results)})
}

// TriggerSync handles POST /sync.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"

	res, err := h.svc.Sync(r.Context(), force)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrSyncRunning):
			writeJSON(w, http.StatusConflict, errorBody("sync already running"))
		default:
			slog.Error("sync failed", slog.Bool("force", force), slog.String("error", err.Error()))
			writeJSON(w, http.StatusBadGateway, errorBody("sync failed"))
		}
		return
	}

	resp := SyncResponse{Stored: res.Stored, Fingerprint: res.Fingerprint}
	if res.Catalog != nil {
		resp.Items = res.Catalog.Meta.TotalItems
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeCatalogError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, apperr.ErrNoCatalog):
		writeJSON(w, http.StatusNotFound, errorBody("no catalog synced yet"))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
