package retrier

import (
	"context"
	"errors"
	"net"
	"net/http"
	"syscall"

	"github.com/configured/adobe-launch-analyzer/internal/pkg/fetcher"
)

// Retryable reports whether err is a transient network or HTTP failure:
// connection refused or reset, timeouts, DNS resolution failures, and
// status codes 408, 429, 500, 502, 503 and 504.
func Retryable(err error) bool {
	if err == nil {
		return false
	}

	var statusErr *fetcher.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusRequestTimeout,
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsNotFound || dnsErr.IsTimeout || dnsErr.IsTemporary
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded)
}
