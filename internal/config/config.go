// Package config resolves the coordinator process's environment-driven
// configuration: transport selection (TCP or UDS, generalized from the
// business-handler transport convention), storage backend selection, and
// the set of downstream handler endpoints to dial.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// TransportConfig describes how the coordinator's own gRPC server listens.
type TransportConfig struct {
	Type    string // "tcp" or "uds"
	Address string
}

// GetTransportConfig reads the coordinator's listen transport from the
// environment, following the same TRANSPORT_TYPE/UDS_BASE_PATH/PORT
// convention used by the business-handler processes it dispatches to.
//
//   - TRANSPORT_TYPE: "tcp" (default) or "uds"
//   - UDS_BASE_PATH: base directory for sockets (default /tmp/angzarr)
//   - PORT: TCP port (default 50051)
func GetTransportConfig() TransportConfig {
	transport := os.Getenv("TRANSPORT_TYPE")
	if transport == "" {
		transport = "tcp"
	}

	if transport == "uds" {
		basePath := os.Getenv("UDS_BASE_PATH")
		if basePath == "" {
			basePath = "/tmp/angzarr"
		}
		socketPath := filepath.Join(basePath, "coordinator.sock")
		_ = os.MkdirAll(filepath.Dir(socketPath), 0755)
		_ = os.Remove(socketPath)
		return TransportConfig{Type: "uds", Address: socketPath}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "50051"
	}
	return TransportConfig{Type: "tcp", Address: "[::]:" + port}
}

// StoreBackend enumerates the supported EventStore implementations.
type StoreBackend string

const (
	StoreMem        StoreBackend = "mem"
	StoreRelational StoreBackend = "relational"
	StoreEmbedded   StoreBackend = "embedded"
	StoreWideColumn StoreBackend = "widecolumn"
)

// StoreConfig selects and configures the durable event store backend.
type StoreConfig struct {
	Backend StoreBackend
	DSN     string // connection string / file path, backend-dependent
}

// GetStoreConfig resolves STORE_BACKEND/STORE_DSN from the environment.
//
//   - STORE_BACKEND: "mem" (default), "relational", "embedded", "widecolumn"
//   - STORE_DSN: backend-specific connection string (pgx DSN, bbolt file path,
//     or a gocql comma-separated host list)
func GetStoreConfig() StoreConfig {
	backend := StoreBackend(os.Getenv("STORE_BACKEND"))
	if backend == "" {
		backend = StoreMem
	}
	return StoreConfig{
		Backend: backend,
		DSN:     os.Getenv("STORE_DSN"),
	}
}

// HandlerEndpoint names a single downstream business-logic process the
// coordinator dials as a gRPC client.
type HandlerEndpoint struct {
	Name    string // the ComponentDescriptor name this endpoint should serve
	Address string // host:port or UDS path
}

// GetHandlerEndpoints parses HANDLER_ENDPOINTS, a comma-separated list of
// name=address pairs (e.g. "orders=localhost:50060,shipping-saga=/tmp/angzarr/shipping.sock").
func GetHandlerEndpoints() ([]HandlerEndpoint, error) {
	raw := os.Getenv("HANDLER_ENDPOINTS")
	if raw == "" {
		return nil, nil
	}
	var endpoints []HandlerEndpoint
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("config: malformed HANDLER_ENDPOINTS entry %q", pair)
		}
		endpoints = append(endpoints, HandlerEndpoint{Name: parts[0], Address: parts[1]})
	}
	return endpoints, nil
}

// LockConfig sizes the per-aggregate keyed lock table.
type LockConfig struct {
	MaxEntries int
	IdleTTL    time.Duration
}

// GetLockConfig resolves LOCK_TABLE_SIZE/LOCK_IDLE_TTL from the environment.
func GetLockConfig() LockConfig {
	cfg := LockConfig{MaxEntries: 4096, IdleTTL: 5 * time.Minute}
	if v := os.Getenv("LOCK_TABLE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxEntries = n
		}
	}
	if v := os.Getenv("LOCK_IDLE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.IdleTTL = d
		}
	}
	return cfg
}

// LogConfig resolves LOG_LEVEL/LOG_FORMAT from the environment.
type LogConfig struct {
	Level  string
	Format string
}

func GetLogConfig() LogConfig {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	format := os.Getenv("LOG_FORMAT")
	if format == "" {
		format = "json"
	}
	return LogConfig{Level: level, Format: format}
}

// HTTPGatewayConfig resolves the optional HTTP/JSON gateway's listen address.
type HTTPGatewayConfig struct {
	Addr string // empty disables the gateway
}

// GetHTTPGatewayConfig reads HTTP_GATEWAY_ADDR from the environment. When
// unset, the HTTP/JSON gateway is not started and the coordinator serves
// gRPC only.
func GetHTTPGatewayConfig() HTTPGatewayConfig {
	return HTTPGatewayConfig{Addr: os.Getenv("HTTP_GATEWAY_ADDR")}
}

// MetricsConfig resolves METRICS_ADDR from the environment.
type MetricsConfig struct {
	Addr string
}

func GetMetricsConfig() MetricsConfig {
	addr := os.Getenv("METRICS_ADDR")
	if addr == "" {
		addr = "127.0.0.1:9090"
	}
	return MetricsConfig{Addr: addr}
}
