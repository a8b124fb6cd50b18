package server

import (
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ServerConfig holds configuration for the HTTP/WebSocket server.
type ServerConfig struct {
	// Address is the address to listen on (e.g., ":3000").
	// Default: ":3000".
	Address string

	// ReadBufferSize is the WebSocket read buffer size.
	// Default: 1024.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size.
	// Default: 4096.
	WriteBufferSize int

	// CheckOrigin is called to validate the WebSocket request origin.
	// Default: SameOriginCheck.
	CheckOrigin func(r *http.Request) bool

	// PingInterval is the time between pings on an event stream.
	// Default: 30 seconds.
	PingInterval time.Duration

	// WriteWait bounds a single WebSocket write.
	// Default: 10 seconds.
	WriteWait time.Duration

	// MaxBodySize limits request bodies.
	// Default: 64KB.
	MaxBodySize int64

	// Metrics is served on /metrics when set.
	Metrics *prometheus.Registry

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:           ":3000",
		ReadBufferSize:    1024,
		WriteBufferSize:   4096,
		CheckOrigin:       SameOriginCheck,
		PingInterval:      30 * time.Second,
		WriteWait:         10 * time.Second,
		MaxBodySize:       64 * 1024,
		ShutdownTimeout:   10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// withDefaults fills unset fields from DefaultServerConfig.
func (c *ServerConfig) withDefaults() *ServerConfig {
	defaults := DefaultServerConfig()
	if c == nil {
		return defaults
	}
	out := *c
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = defaults.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = defaults.WriteBufferSize
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = defaults.CheckOrigin
	}
	if out.PingInterval == 0 {
		out.PingInterval = defaults.PingInterval
	}
	if out.WriteWait == 0 {
		out.WriteWait = defaults.WriteWait
	}
	if out.MaxBodySize == 0 {
		out.MaxBodySize = defaults.MaxBodySize
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if out.IdleTimeout == 0 {
		out.IdleTimeout = defaults.IdleTimeout
	}
	return &out
}

// SameOriginCheck accepts WebSocket requests without an Origin header or
// whose Origin host matches the request host.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if r.Host == "" {
		return false
	}
	return originURL.Host == r.Host
}
