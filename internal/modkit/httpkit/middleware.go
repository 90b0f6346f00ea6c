package httpkit

import (
	"net/http"
	"time"

	"capturebox/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	Timeout time.Duration
	CORS    middleware.CORSOptions
	// MaxInFlight caps concurrent API requests, 0 disables
	MaxInFlight int
}

// CommonStack is the middleware every versioned API scope runs. The outer
// server stack (request id, access log, recover) is middleware.Defaults.
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	out := []func(http.Handler) http.Handler{
		middleware.StripSlashes(),
		middleware.CORS(o.CORS),
		middleware.AllowContentType("application/json"),
		middleware.Timeout(o.Timeout),
	}
	if o.MaxInFlight > 0 {
		out = append(out, middleware.Throttle(o.MaxInFlight, o.MaxInFlight*4, o.Timeout))
	}
	return out
}
