// Package http is the complaints transport
package http

import (
	stdhttp "net/http"
	"strconv"

	"zhkh/internal/modkit/httpkit"
	perr "zhkh/internal/platform/errors"
	"zhkh/internal/services/complaints/domain"
)

// MaxBody caps a submission body
const MaxBody = 64 << 10

// Register mounts the complaint routes
func Register(r httpkit.Router, svc domain.ServicePort) {
	h := &handlers{svc: svc}
	httpkit.PostJSON[domain.Submission](r, "/complaint", h.submit, httpkit.BindOptions{MaxBytes: MaxBody})
	httpkit.Get(r, "/complaints", h.list)
	httpkit.Post(r, "/complaint/{id}/processed", h.processed)
}

type handlers struct{ svc domain.ServicePort }

// @Summary Submit a complaint
// @Tags complaints
// @Accept json
// @Produce json
// @Param payload body domain.Submission true "Complaint text in template form"
// @Success 200 {object} domain.Ack "accepted"
// @Failure 400 {object} httpkit.Envelope "template not filled"
// @Failure 500 {object} httpkit.Envelope "storage failure"
// @Router /complaint [post]
func (h *handlers) submit(r *stdhttp.Request, in domain.Submission) (any, error) {
	ack, err := h.svc.Submit(r.Context(), in.Text)
	if err != nil {
		return nil, err
	}
	return httpkit.Bare(ack), nil
}

// @Summary Unprocessed complaints by category
// @Tags complaints
// @Produce json
// @Success 200 {object} domain.Listing "four buckets, newest first"
// @Router /complaints [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	l, err := h.svc.ListUnprocessed(r.Context())
	if err != nil {
		return nil, err
	}
	return httpkit.Bare(l), nil
}

// @Summary Mark a complaint processed
// @Tags complaints
// @Produce json
// @Param id path int true "Complaint id"
// @Success 200 {object} domain.Status "ok"
// @Failure 400 {object} httpkit.Envelope "bad id"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /complaint/{id}/processed [post]
func (h *handlers) processed(r *stdhttp.Request) (any, error) {
	id, err := strconv.ParseInt(httpkit.Param(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return nil, perr.WithField(perr.Validationf("invalid complaint id"), "id")
	}
	if err := h.svc.MarkProcessed(r.Context(), id); err != nil {
		return nil, err
	}
	return httpkit.Bare(domain.Status{Status: domain.StatusSuccess}), nil
}
