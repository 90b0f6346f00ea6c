// Package http exposes tracker listing and document reads
package http

import (
	stdhttp "net/http"

	"capturebox/internal/modkit/httpkit"
	"capturebox/internal/services/trackers/domain"
	"capturebox/internal/services/trackers/service"
)

// Register mounts the tracker routes
func Register(r httpkit.Router, s *service.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/{id}", h.document)
}

type handlers struct{ svc *service.Service }

// DocumentResponse is one tracker with its document text
type DocumentResponse struct {
	domain.Tracker
	Document string `json:"document"`
}

// swagger:route GET /trackers Trackers trackersList
// @Summary List trackers with section counts
// @Tags Trackers
// @Produce json
// @Success 200 {array} domain.Summary "ok"
// @Router /trackers [get]
func (h *handlers) list(_ *stdhttp.Request) (any, error) {
	return h.svc.Summaries(), nil
}

// swagger:route GET /trackers/{id} Trackers trackersDocument
// @Summary Read one tracker document
// @Tags Trackers
// @Produce json
// @Param id path string true "Tracker id"
// @Success 200 {object} DocumentResponse "ok"
// @Router /trackers/{id} [get]
func (h *handlers) document(r *stdhttp.Request) (any, error) {
	t, err := h.svc.Document(r.Context(), httpkit.Param(r, "id"))
	if err != nil {
		return nil, err
	}
	return DocumentResponse{Tracker: t, Document: t.Document}, nil
}
