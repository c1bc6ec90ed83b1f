// Command coordinator is the Angzarr coordinator process entrypoint: it
// wires the storage backend, the per-aggregate lock table, the outbound
// handler clients, the aggregate coordinator, the fan-out publisher, the
// saga/process-manager dispatcher, and the query service into one gRPC
// server, then serves until SIGINT/SIGTERM, mirroring the teacher's own
// CreateServer/RunServer shape (client/go/server.go) generalized from a
// single-service business handler to the coordinator's multi-service
// surface.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/angzarr-io/angzarr/internal/config"
	"github.com/angzarr-io/angzarr/internal/coordinator"
	"github.com/angzarr-io/angzarr/internal/dispatcher"
	"github.com/angzarr-io/angzarr/internal/gateway"
	"github.com/angzarr-io/angzarr/internal/handlerclient"
	"github.com/angzarr-io/angzarr/internal/lock"
	"github.com/angzarr-io/angzarr/internal/logging"
	"github.com/angzarr-io/angzarr/internal/metrics"
	"github.com/angzarr-io/angzarr/internal/pb"
	"github.com/angzarr-io/angzarr/internal/publisher"
	"github.com/angzarr-io/angzarr/internal/query"
	"github.com/angzarr-io/angzarr/internal/store"
	"github.com/angzarr-io/angzarr/internal/store/embedstore"
	"github.com/angzarr-io/angzarr/internal/store/memstore"
	"github.com/angzarr-io/angzarr/internal/store/relstore"
	"github.com/angzarr-io/angzarr/internal/store/widecolumn"
)

// lazyExecutor breaks the construction cycle between the publisher's
// dispatcher (which needs a CommandExecutor) and the coordinator (which
// needs a Publisher backed by that same dispatcher): the dispatcher is
// built first against an executor that does not resolve its target until
// the coordinator it fronts exists.
type lazyExecutor struct {
	target dispatcher.CommandExecutor
}

func (l *lazyExecutor) Execute(ctx context.Context, cmd *pb.CommandBook) (*pb.EventBook, error) {
	return l.target.Execute(ctx, cmd)
}

func openBackend(ctx context.Context, cfg config.StoreConfig) (store.Backend, error) {
	switch cfg.Backend {
	case config.StoreRelational:
		return relstore.Open(ctx, cfg.DSN)
	case config.StoreEmbedded:
		path := cfg.DSN
		if path == "" {
			path = "angzarr.db"
		}
		return embedstore.Open(path)
	case config.StoreWideColumn:
		hosts := strings.Split(cfg.DSN, ",")
		if cfg.DSN == "" {
			hosts = []string{"127.0.0.1"}
		}
		return widecolumn.Open(hosts, "angzarr")
	case config.StoreMem, "":
		return memstore.New()
	default:
		return nil, fmt.Errorf("coordinator: unknown STORE_BACKEND %q", cfg.Backend)
	}
}

// dialTarget turns the coordinator's own listen address into a gRPC dial
// target the HTTP gateway can connect back through: a UDS path becomes a
// "unix:" target, and the wildcard "[::]" TCP bind becomes "localhost" since
// nothing else can dial the literal any-address form.
func dialTarget(transport config.TransportConfig) string {
	if transport.Type == "uds" {
		return "unix:" + transport.Address
	}
	if strings.HasPrefix(transport.Address, "[::]") {
		return "localhost" + strings.TrimPrefix(transport.Address, "[::]")
	}
	return transport.Address
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "coordinator:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logCfg := config.GetLogConfig()
	log, err := logging.Build(logCfg.Level, logCfg.Format)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	storeCfg := config.GetStoreConfig()
	backend, err := openBackend(ctx, storeCfg)
	if err != nil {
		return fmt.Errorf("opening store backend %s: %w", storeCfg.Backend, err)
	}
	defer backend.Close()
	log.Info("store backend opened", zap.String("backend", string(storeCfg.Backend)))

	met := metrics.New()
	metricsCfg := config.GetMetricsConfig()
	go func() {
		if err := met.Serve(ctx, metricsCfg.Addr); err != nil {
			log.Warn("metrics server stopped", zap.Error(err))
		}
	}()

	endpoints, err := config.GetHandlerEndpoints()
	if err != nil {
		return fmt.Errorf("reading HANDLER_ENDPOINTS: %w", err)
	}
	handlers := handlerclient.NewRegistry()
	defer handlers.Close()
	for _, ep := range endpoints {
		if err := handlers.Dial(ep.Name, ep.Address); err != nil {
			return fmt.Errorf("dialing handler %s: %w", ep.Name, err)
		}
		log.Info("dialed handler endpoint", zap.String("name", ep.Name), zap.String("address", ep.Address))
	}

	registry := coordinator.NewRegistry()
	for _, ep := range endpoints {
		// HANDLER_ENDPOINTS names double as both domain name (for aggregate
		// handlers) and component name (for saga/PM/projector descriptors);
		// Discover below fills in the descriptor half for non-aggregate kinds.
		registry.RegisterAggregateHandler(ep.Name, ep.Name)
	}
	if err := registry.Discover(ctx, handlers); err != nil {
		log.Warn("component discovery incomplete", zap.Error(err))
	}

	lockCfg := config.GetLockConfig()
	locks := lock.New(lockCfg.MaxEntries)

	executorRef := &lazyExecutor{}
	disp := dispatcher.New(backend, handlers, executorRef, met, log)

	bus := publisher.New(ctx, backend, registry, disp, met, log)
	defer bus.Close()

	coord := coordinator.New(backend, locks, handlers, registry, bus, met, log)
	executorRef.target = coord

	if err := bus.Recover(ctx); err != nil {
		log.Warn("publisher crash recovery incomplete", zap.Error(err))
	}

	queries := query.New(backend, coord, handlers, met, log)

	transport := config.GetTransportConfig()
	var lis net.Listener
	if transport.Type == "uds" {
		lis, err = net.Listen("unix", transport.Address)
	} else {
		lis, err = net.Listen("tcp", transport.Address)
	}
	if err != nil {
		return fmt.Errorf("listening on %s: %w", transport.Address, err)
	}
	defer func() {
		if transport.Type == "uds" {
			_ = os.Remove(transport.Address)
		}
	}()

	grpcServer := grpc.NewServer()
	pb.RegisterAggregateCoordinatorServiceServer(grpcServer, coordinator.NewServer(coord))
	pb.RegisterEventQueryServiceServer(grpcServer, queries)
	pb.RegisterSpeculativeServiceServer(grpcServer, queries)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	go func() {
		<-ctx.Done()
		log.Info("shutting down coordinator")
		healthServer.Shutdown()
		grpcServer.GracefulStop()
	}()

	gatewayCfg := config.GetHTTPGatewayConfig()
	if gatewayCfg.Addr != "" {
		target := dialTarget(transport)
		go func() {
			log.Info("http gateway listening", zap.String("address", gatewayCfg.Addr), zap.String("target", target))
			if err := gateway.Serve(ctx, gatewayCfg.Addr, target); err != nil {
				log.Warn("http gateway stopped", zap.Error(err))
			}
		}()
	}

	log.Info("coordinator listening", zap.String("transport", transport.Type), zap.String("address", transport.Address))
	if err := grpcServer.Serve(lis); err != nil {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}
