// Package http exposes the capture pipeline
package http

import (
	stdhttp "net/http"

	"capturebox/internal/modkit/httpkit"
	"capturebox/internal/services/capture/domain"
	"capturebox/internal/services/capture/service"
)

// Register mounts the capture routes
func Register(r httpkit.Router, s *service.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON(r, "/", h.capture)
	httpkit.PostJSON(r, "/batch", h.batch)
	httpkit.Get(r, "/status", h.status)
	httpkit.Post(r, "/refresh", h.refresh)
}

type handlers struct{ svc *service.Service }

// BatchBody is a list of captures
type BatchBody struct {
	Inputs []domain.Input `json:"inputs" validate:"required,min=1,max=200,dive"`
}

// swagger:route POST /capture Capture captureOne
// @Summary Classify one capture and store it
// @Tags Capture
// @Accept json
// @Produce json
// @Param body body domain.Input true "Capture"
// @Success 200 {object} domain.Result "ok"
// @Router /capture [post]
func (h *handlers) capture(r *stdhttp.Request, in domain.Input) (any, error) {
	return h.svc.Capture(r.Context(), in), nil
}

// swagger:route POST /capture/batch Capture captureBatch
// @Summary Capture several inputs in order
// @Tags Capture
// @Accept json
// @Produce json
// @Param body body BatchBody true "Captures"
// @Success 200 {array} domain.Result "ok"
// @Router /capture/batch [post]
func (h *handlers) batch(r *stdhttp.Request, in BatchBody) (any, error) {
	return h.svc.CaptureBatch(r.Context(), in.Inputs), nil
}

// swagger:route GET /capture/status Capture captureStatus
// @Summary Tracker counts by context type and the review backlog
// @Tags Capture
// @Produce json
// @Success 200 {object} domain.Status "ok"
// @Router /capture/status [get]
func (h *handlers) status(r *stdhttp.Request) (any, error) {
	return h.svc.GetStatus(r.Context())
}

// swagger:route POST /capture/refresh Capture captureRefresh
// @Summary Reload trackers from their store
// @Tags Capture
// @Produce json
// @Success 200 {object} domain.Status "ok"
// @Router /capture/refresh [post]
func (h *handlers) refresh(r *stdhttp.Request) (any, error) {
	return h.svc.Refresh(r.Context())
}
