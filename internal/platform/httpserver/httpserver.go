// Package httpserver builds the console's HTTP server. Timeouts are sized
// around the upstream registry threshold: a handler may legitimately wait
// the full upstream window, so the write timeout adds headroom on top of
// it instead of cutting slow registry calls short.
package httpserver

import (
	"net/http"
	"time"
)

const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 120 * time.Second
	writeHeadroom     = 10 * time.Second
)

// New builds the server. upstreamTimeout is the registry call threshold
// the write timeout must stay above.
func New(addr string, handler http.Handler, upstreamTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readHeaderTimeout + 5*time.Second,
		WriteTimeout:      upstreamTimeout + writeHeadroom,
		IdleTimeout:       idleTimeout,
	}
}
