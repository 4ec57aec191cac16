package net

import (
	"net/http"

	perr "zhkh/internal/platform/errors"
)

// Wire is the error body for writers that sit outside the router, panic recovery
// mainly. It matches the envelope the handlers write.
type Wire struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
}

// Error maps err to a status and envelope; the cause chain stays out of it
// and a nil err reads as 200
func Error(err error, reqID string) (int, Wire) {
	status := http.StatusOK
	var w perr.Wire
	if err != nil {
		status = perr.HTTPStatus(err)
		w = perr.WireFrom(err)
	}
	return status, Wire{
		StatusCode: status,
		Status:     http.StatusText(status),
		Code:       w.Code,
		Error:      w.Message,
		RequestID:  reqID,
	}
}
