// Package gateway exposes a thin HTTP/JSON facade over a subset of the
// coordinator's gRPC surface, grounded on the grpc-gateway runtime's
// marshaling/error-handling machinery rather than stdlib http/json: it
// dials the coordinator's own gRPC listener as a client and forwards a
// handful of read/speculative RPCs through runtime.ServeMux so operators
// can curl the coordinator without a gRPC client.
package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/angzarr-io/angzarr/internal/model"
	"github.com/angzarr-io/angzarr/internal/pb"
)

// Config resolves the optional HTTP/JSON gateway's listen address and the
// gRPC target it proxies to.
type Config struct {
	Addr   string // empty disables the gateway entirely
	Target string // dial target for the coordinator's own gRPC listener
}

// Mux builds a runtime.ServeMux that forwards:
//
//   - GET  /v1/events/{domain}/{root}              -> EventQueryService.GetEventBook
//   - POST /v1/speculative/command/{domain}/{root}  -> SpeculativeService.DryRunCommand
//
// The handlers are registered via HandlePath rather than generated
// protoc-gen-grpc-gateway code (no gateway code is generated from
// internal/pb/angzarr.proto), but they use the same runtime marshaler and response/error
// forwarding helpers that generated gateway code relies on.
func Mux(cc grpc.ClientConnInterface) *runtime.ServeMux {
	mux := runtime.NewServeMux()
	marshaler := &runtime.JSONPb{}
	queries := pb.NewEventQueryServiceClient(cc)
	spec := pb.NewSpeculativeServiceClient(cc)

	mux.HandlePath(http.MethodGet, "/v1/events/{domain}/{root}", func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		ctx := r.Context()
		cover, err := coverFromPath(params)
		if err != nil {
			runtime.DefaultHTTPErrorHandler(ctx, mux, marshaler, w, r, err)
			return
		}
		book, err := queries.GetEventBook(ctx, &pb.Query{Cover: cover})
		if err != nil {
			runtime.DefaultHTTPErrorHandler(ctx, mux, marshaler, w, r, err)
			return
		}
		runtime.ForwardResponseMessage(ctx, mux, marshaler, w, r, book)
	})

	mux.HandlePath(http.MethodPost, "/v1/speculative/command/{domain}/{root}", func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		ctx := r.Context()
		cover, err := coverFromPath(params)
		if err != nil {
			runtime.DefaultHTTPErrorHandler(ctx, mux, marshaler, w, r, err)
			return
		}
		var req pb.CommandBook
		if err := marshaler.NewDecoder(r.Body).Decode(&req); err != nil {
			runtime.DefaultHTTPErrorHandler(ctx, mux, marshaler, w, r, err)
			return
		}
		req.Cover = cover
		resp, err := spec.DryRunCommand(ctx, &pb.DryRunRequest{Command: &req})
		if err != nil {
			runtime.DefaultHTTPErrorHandler(ctx, mux, marshaler, w, r, err)
			return
		}
		runtime.ForwardResponseMessage(ctx, mux, marshaler, w, r, resp)
	})

	return mux
}

func coverFromPath(params map[string]string) (*pb.Cover, error) {
	root, err := uuid.Parse(params["root"])
	if err != nil {
		return nil, err
	}
	return model.NewCover(params["domain"], root, ""), nil
}

// Serve dials target (the coordinator's own gRPC listener) and serves the
// HTTP/JSON gateway mux on addr until ctx is cancelled.
func Serve(ctx context.Context, addr, target string) error {
	cc, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return err
	}
	defer cc.Close()

	srv := &http.Server{
		Addr:         addr,
		Handler:      Mux(cc),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
