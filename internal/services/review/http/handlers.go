// Package http exposes the review queue
package http

import (
	stdhttp "net/http"

	"capturebox/internal/modkit/httpkit"
	"capturebox/internal/services/review/domain"
	"capturebox/internal/services/review/service"
)

// Register mounts the review routes
func Register(r httpkit.Router, s *service.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.list)
	httpkit.PostJSON(r, "/", h.flag)
	httpkit.PostJSON(r, "/batch", h.batch)
	httpkit.Delete(r, "/confirmed", h.clear)
	httpkit.PostJSON(r, "/{id}/actions", h.act)
	httpkit.PatchJSON(r, "/{id}/status", h.status)
}

type handlers struct{ svc *service.Service }

// ActionBody is a single decision
type ActionBody struct {
	Action domain.Action `json:"action" validate:"required"`
	Values domain.Values `json:"values"`
}

// BatchBody is a list of decisions
type BatchBody struct {
	Actions []domain.ActionRequest `json:"actions" validate:"required,min=1,dive"`
}

// StatusBody is the requested status
type StatusBody struct {
	Status domain.Status `json:"status" validate:"required,oneof=pending flagged confirmed"`
}

// StatusResponse reports a status update
type StatusResponse struct {
	ID      string        `json:"id"`
	Status  domain.Status `json:"status"`
	Updated bool          `json:"updated"`
}

// ClearResponse reports purged items
type ClearResponse struct {
	Removed int `json:"removed"`
}

// swagger:route GET /review Review reviewList
// @Summary List items needing review, oldest first
// @Tags Review
// @Produce json
// @Param tracker query string false "Only items routed to this tracker"
// @Success 200 {array} domain.Item "ok"
// @Router /review [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.GetItemsNeedingReview(r.Context(), r.URL.Query().Get("tracker"))
}

// swagger:route POST /review Review reviewFlag
// @Summary Queue an item for review
// @Tags Review
// @Accept json
// @Produce json
// @Param body body domain.FlagRequest true "Item"
// @Success 201 {object} domain.Item "created"
// @Router /review [post]
func (h *handlers) flag(r *stdhttp.Request, in domain.FlagRequest) (any, error) {
	it, err := h.svc.FlagItemForReview(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(it), nil
}

// swagger:route POST /review/{id}/actions Review reviewAct
// @Summary Apply accept, edit-priority, edit-tags, edit-type, move or reject
// @Tags Review
// @Accept json
// @Produce json
// @Param id path string true "Review item id"
// @Param body body ActionBody true "Action"
// @Success 200 {object} domain.Item "ok"
// @Failure 404 {object} httpkit.Envelope "unknown id"
// @Failure 422 {object} httpkit.Envelope "unknown action"
// @Router /review/{id}/actions [post]
func (h *handlers) act(r *stdhttp.Request, in ActionBody) (any, error) {
	return h.svc.ProcessReviewAction(r.Context(), httpkit.Param(r, "id"), in.Action, in.Values)
}

// swagger:route POST /review/batch Review reviewBatch
// @Summary Apply several actions in order
// @Tags Review
// @Accept json
// @Produce json
// @Param body body BatchBody true "Actions"
// @Success 200 {array} domain.ActionResult "ok"
// @Router /review/batch [post]
func (h *handlers) batch(r *stdhttp.Request, in BatchBody) (any, error) {
	return h.svc.BatchProcessReview(r.Context(), in.Actions), nil
}

// swagger:route PATCH /review/{id}/status Review reviewStatus
// @Summary Advance an item's status
// @Tags Review
// @Accept json
// @Produce json
// @Param id path string true "Review item id"
// @Param body body StatusBody true "Status"
// @Success 200 {object} StatusResponse "ok"
// @Router /review/{id}/status [patch]
func (h *handlers) status(r *stdhttp.Request, in StatusBody) (any, error) {
	id := httpkit.Param(r, "id")
	return StatusResponse{ID: id, Status: in.Status, Updated: h.svc.UpdateReviewStatus(r.Context(), id, in.Status)}, nil
}

// swagger:route DELETE /review/confirmed Review reviewClear
// @Summary Purge confirmed items
// @Tags Review
// @Produce json
// @Success 200 {object} ClearResponse "ok"
// @Router /review/confirmed [delete]
func (h *handlers) clear(r *stdhttp.Request) (any, error) {
	n, err := h.svc.ClearConfirmedItems(r.Context())
	if err != nil {
		return nil, err
	}
	return ClearResponse{Removed: n}, nil
}
