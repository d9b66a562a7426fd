package client

import (
	"log/slog"
	"net/http"
)

// Authorizer sets credentials on an outgoing request.
type Authorizer interface {
	Authorize(req *http.Request)
}

// BearerTransport implements http.RoundTripper and authorizes every request
// before handing it to the underlying transport.
type BearerTransport struct {
	log  *slog.Logger
	auth Authorizer
	base http.RoundTripper
}

// NewBearerTransport wraps base; a nil base means http.DefaultTransport.
func NewBearerTransport(log *slog.Logger, auth Authorizer, base http.RoundTripper) *BearerTransport {
	if base == nil {
		base = http.DefaultTransport
	}

	return &BearerTransport{log: log, auth: auth, base: base}
}

// RoundTrip clones the request, so the caller's request is never mutated.
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	authorized := req.Clone(req.Context())
	t.auth.Authorize(authorized)
	t.log.Debug("Authorized request", "method", authorized.Method, "URL", authorized.URL)

	return t.base.RoundTrip(authorized)
}
