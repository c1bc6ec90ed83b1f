// Package handlerclient holds the gRPC clients the coordinator uses to call
// out to external business-logic processes: aggregate handlers, sagas,
// process managers, projectors and rejection handlers. It mirrors the
// connection-construction pattern of the teacher's client.go
// (formatEndpoint + grpc.NewClient + insecure credentials), inverted: there
// the business process is the client of the coordinator's query surface,
// here the coordinator is the client of the business process's service
// surface.
package handlerclient

import (
	"context"
	"strings"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/angzarr-io/angzarr/internal/errs"
	"github.com/angzarr-io/angzarr/internal/pb"
)

var emptyRequest = &emptypb.Empty{}

// formatEndpoint converts an endpoint into gRPC dial-target form. UDS paths
// (leading "/" or "./") are converted to "unix://" targets; everything else
// is passed through as a host:port target.
func formatEndpoint(endpoint string) string {
	if strings.HasPrefix(endpoint, "unix://") {
		return endpoint
	}
	if strings.HasPrefix(endpoint, "/") || strings.HasPrefix(endpoint, "./") {
		return "unix://" + endpoint
	}
	return endpoint
}

func dial(endpoint string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(formatEndpoint(endpoint), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, errs.Wrap(errs.KindUnavailable, "handlerclient: dial "+endpoint+" failed", err)
	}
	return conn, nil
}

// Registry dials and caches one gRPC connection per configured handler
// name, and exposes typed clients for each service kind a handler may
// implement. A single endpoint can serve more than one service kind (e.g.
// a process manager that is also a rejection handler), so each accessor
// wraps the same underlying *grpc.ClientConn.
type Registry struct {
	mu    sync.Mutex
	conns map[string]*grpc.ClientConn
}

// NewRegistry constructs an empty handler client registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*grpc.ClientConn)}
}

// Dial registers endpoint under name, dialing lazily on first use. Calling
// Dial again for a name already registered replaces its endpoint.
func (r *Registry) Dial(name, endpoint string) error {
	conn, err := dial(endpoint)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.conns[name]; ok {
		_ = old.Close()
	}
	r.conns[name] = conn
	return nil
}

func (r *Registry) conn(name string) (*grpc.ClientConn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.conns[name]
	if !ok {
		return nil, errs.NotFound("handlerclient: no endpoint registered for " + name)
	}
	return conn, nil
}

// Names reports every handler name currently registered.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.conns))
	for n := range r.conns {
		names = append(names, n)
	}
	return names
}

// Aggregate returns the AggregateServiceClient for name.
func (r *Registry) Aggregate(name string) (pb.AggregateServiceClient, error) {
	conn, err := r.conn(name)
	if err != nil {
		return nil, err
	}
	return pb.NewAggregateServiceClient(conn), nil
}

// Saga returns the SagaServiceClient for name.
func (r *Registry) Saga(name string) (pb.SagaServiceClient, error) {
	conn, err := r.conn(name)
	if err != nil {
		return nil, err
	}
	return pb.NewSagaServiceClient(conn), nil
}

// ProcessManager returns the ProcessManagerServiceClient for name.
func (r *Registry) ProcessManager(name string) (pb.ProcessManagerServiceClient, error) {
	conn, err := r.conn(name)
	if err != nil {
		return nil, err
	}
	return pb.NewProcessManagerServiceClient(conn), nil
}

// Projector returns the ProjectorServiceClient for name.
func (r *Registry) Projector(name string) (pb.ProjectorServiceClient, error) {
	conn, err := r.conn(name)
	if err != nil {
		return nil, err
	}
	return pb.NewProjectorServiceClient(conn), nil
}

// Rejection returns the RejectionServiceClient for name.
func (r *Registry) Rejection(name string) (pb.RejectionServiceClient, error) {
	conn, err := r.conn(name)
	if err != nil {
		return nil, err
	}
	return pb.NewRejectionServiceClient(conn), nil
}

// GetDescriptor fetches a saga or process manager's self-reported
// ComponentDescriptor (§4.12), trying the saga surface first and falling
// back to the process-manager surface, since the registry does not know a
// handler's component type until it answers.
func GetDescriptor(ctx context.Context, r *Registry, name string) (*pb.ComponentDescriptor, error) {
	conn, err := r.conn(name)
	if err != nil {
		return nil, err
	}
	if desc, sagaErr := pb.NewSagaServiceClient(conn).GetDescriptor(ctx, emptyRequest); sagaErr == nil {
		return desc, nil
	}
	desc, pmErr := pb.NewProcessManagerServiceClient(conn).GetDescriptor(ctx, emptyRequest)
	if pmErr != nil {
		return nil, errs.FromStatus(pmErr)
	}
	return desc, nil
}

// Close closes every registered connection.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var firstErr error
	for _, conn := range r.conns {
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
