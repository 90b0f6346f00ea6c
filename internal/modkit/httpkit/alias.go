// Package httpkit re-exports the platform http helpers modules mount with,
// so service packages never import internal/platform/net/http directly
package httpkit

import (
	"net/http"

	phttp "capturebox/internal/platform/net/http"
)

type (
	// Envelope is the transport envelope
	Envelope = phttp.Envelope
	// Response is a return style handler result
	Response = phttp.Response
	// Handler is the platform handler type
	Handler = phttp.Handler
	// Router is the platform router seam
	Router = phttp.Router
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// Created returns a 201 response
func Created(data any) Response { return phttp.Created(data) }

// NoContent returns a 204 response
func NoContent() Response { return phttp.NoContent() }

// Error maps err onto its status and envelope
func Error(err error) Response { return phttp.Error(err) }

// JSON binds and validates a T body before calling fn
func JSON[T any](fn func(*http.Request, T) (any, error)) Handler { return phttp.JSONHandler(fn) }

// Call adapts a handler that reads no body
func Call(fn func(*http.Request) (any, error)) Handler { return phttp.JSONHandlerNoBody(fn) }

// Handle adapts a Response returning function
func Handle(fn func(*http.Request) Response) Handler { return phttp.Handle(fn) }

// Param reads a path parameter
func Param(r *http.Request, name string) string { return phttp.Param(r, name) }
