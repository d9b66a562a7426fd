package client

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const maxRedirects = 10

var ErrCrossHostRedirect = errors.New("refusing to follow redirect to another host")

// CreateHTTPClient initializes an HTTP client that authorizes every request with auth.
// Redirects are followed only within the host of the original request, so the
// bearer token never reaches another host.
func CreateHTTPClient(log *slog.Logger, auth Authorizer, timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: NewBearerTransport(log, auth, nil),
		Timeout:   timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}

			if origin := via[0].URL; req.URL.Scheme != origin.Scheme || req.URL.Host != origin.Host {
				log.Warn("Refused cross-host redirect", "from", origin.Host, "URL", req.URL.Redacted())
				return fmt.Errorf("%w: %s", ErrCrossHostRedirect, req.URL.Host)
			}

			log.Debug("Redirected to URL", "URL", req.URL)

			return nil
		},
	}
}
