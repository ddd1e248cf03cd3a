package courierstate

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds every remote call. The backend does not define a
// timeout, so the client imposes one and surfaces expiry as a normal failure.
const DefaultTimeout = 10 * time.Second

type options struct {
	httpClient *http.Client
	timeout    time.Duration
	logger     Logger
}

// Option configures a Client.
type Option func(*options)

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithHTTPClient supplies a custom HTTP client. Its timeout settings win
// over WithTimeout.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithLogger supplies a logger. The default discards all output.
func WithLogger(l Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
