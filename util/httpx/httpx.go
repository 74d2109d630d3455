package httpx

import (
	"net"
	"net/http"
	"time"
)

// Shared outbound client for the gateway and mailer collaborators.
var defaultClient = newClient(10 * time.Second)

func newClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			MaxConnsPerHost:     100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

func Client() *http.Client { return defaultClient }

// ClientWithTimeout returns a dedicated client for slower collaborators.
func ClientWithTimeout(timeout time.Duration) *http.Client { return newClient(timeout) }
