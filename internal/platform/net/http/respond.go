// Package http provides the router facade and JSON response helpers used by every module
package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "zhkh/internal/platform/errors"
	pnet "zhkh/internal/platform/net"
)

// Envelope is the body written for errors and for enveloped success responses
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// JSON writes v as application/json with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// RespondError maps a project error into an envelope and writes it
func RespondError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	status, wr := pnet.Error(err, pnet.RequestID(r.Context()))
	JSON(w, status, Envelope{
		StatusCode: wr.StatusCode,
		Status:     wr.Status,
		Code:       wr.Code,
		Error:      wr.Error,
		RequestID:  wr.RequestID,
	})
}

// Response is a functional response object for return-style handlers
type Response struct {
	Status int
	Body   any
	Header stdhttp.Header

	// Bare writes Body as is, without the envelope
	// public endpoints whose wire shape is fixed use this
	Bare bool
}

// Handle adapts a Response-returning handler to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}

	// errors always go out enveloped with a status derived from the code
	if err, ok := resp.Body.(error); ok && err != nil {
		RespondError(w, r, err)
		return
	}

	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	if status == stdhttp.StatusNoContent {
		w.WriteHeader(stdhttp.StatusNoContent)
		return
	}
	if resp.Bare {
		JSON(w, status, resp.Body)
		return
	}
	JSON(w, status, Envelope{
		StatusCode: status,
		Status:     stdhttp.StatusText(status),
		RequestID:  pnet.RequestID(r.Context()),
		Data:       resp.Body,
	})
}

// OK returns a 200 enveloped response
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Created returns a 201 enveloped response
func Created(data any) Response { return Response{Status: stdhttp.StatusCreated, Body: data} }

// NoContent returns a 204 response
func NoContent() Response { return Response{Status: stdhttp.StatusNoContent} }

// Bare returns a 200 response whose body is written without the envelope
func Bare(body any) Response { return Response{Status: stdhttp.StatusOK, Body: body, Bare: true} }

// Error returns a response that maps the error to status and envelope
func Error(err error) Response { return Response{Body: err} }
