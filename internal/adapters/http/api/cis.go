package api

import (
	"context"
	"net/http"

	"github.com/okian/aigi/internal/domain/types"
)

// CISDependencies defines the interface for snapshot summary lookups.
type CISDependencies interface {
	Latest(ctx context.Context) (types.CIS, error)
}

// CISHandler handles CIS requests.
type CISHandler struct {
	deps CISDependencies
}

// NewCISHandler creates a new CIS handler.
func NewCISHandler(deps CISDependencies) *CISHandler {
	return &CISHandler{deps: deps}
}

// HandleGetCIS handles GET /cis requests.
func (h *CISHandler) HandleGetCIS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	latest, err := h.deps.Latest(r.Context())
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, latest)
}
