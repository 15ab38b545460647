// Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package server hosts the gRPC edge: the OTLP trace collector service
// sharing the ingestion pipeline with the HTTP endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	coltracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/aiqa-platform/evaluation-service/middleware"
	"github.com/aiqa-platform/evaluation-service/otlp"
	"github.com/aiqa-platform/evaluation-service/services"
	"github.com/aiqa-platform/evaluation-service/utils"
)

// gracefulStopBudget bounds how long shutdown waits for in-flight RPCs
const gracefulStopBudget = 2 * time.Second

// TraceServer implements opentelemetry.proto.collector.trace.v1.TraceService
type TraceServer struct {
	coltracepb.UnimplementedTraceServiceServer
	ingestion services.IngestionService
}

// NewTraceServer creates a new trace collector service instance
func NewTraceServer(ingestion services.IngestionService) *TraceServer {
	return &TraceServer{ingestion: ingestion}
}

// Export receives one OTLP trace batch over gRPC
func (s *TraceServer) Export(ctx context.Context, req *coltracepb.ExportTraceServiceRequest) (*coltracepb.ExportTraceServiceResponse, error) {
	if err := s.ingestion.Ingest(ctx, otlp.FromProto(req)); err != nil {
		return nil, grpcStatusError(err)
	}
	return &coltracepb.ExportTraceServiceResponse{}, nil
}

// grpcStatusError maps the sentinel error taxonomy onto gRPC codes
func grpcStatusError(err error) error {
	switch {
	case errors.Is(err, utils.ErrUnauthorized):
		return status.Error(codes.Unauthenticated, "invalid credentials")
	case errors.Is(err, utils.ErrForbidden):
		return status.Error(codes.PermissionDenied, "insufficient permissions")
	case errors.Is(err, utils.ErrBadRequest), errors.Is(err, utils.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, utils.ErrRateLimitExceeded):
		return status.Error(codes.ResourceExhausted, "span quota exceeded")
	case errors.Is(err, utils.ErrSpanNotFound),
		errors.Is(err, utils.ErrExampleNotFound),
		errors.Is(err, utils.ErrExperimentNotFound),
		errors.Is(err, utils.ErrDatasetNotFound),
		errors.Is(err, utils.ErrModelNotFound),
		errors.Is(err, utils.ErrOrganizationNotFound),
		errors.Is(err, utils.ErrAPIKeyNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, utils.ErrExampleAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, utils.ErrServiceUnavailable):
		return status.Error(codes.Unavailable, "backing store unavailable")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// authUnaryInterceptor authenticates the authorization metadata entry the
// same way the HTTP middleware reads the Authorization header
func authUnaryInterceptor(resolver middleware.CredentialResolver, jwtSecret string, log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		md, _ := metadata.FromIncomingContext(ctx)
		values := md.Get("authorization")
		if len(values) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing credentials")
		}
		authCtx, err := middleware.ResolveCredential(ctx, resolver, jwtSecret, values[0])
		if err != nil {
			log.Warn("gRPC authentication failed", "method", info.FullMethod, "error", err)
			return nil, status.Error(codes.Unauthenticated, "invalid credentials")
		}
		return handler(middleware.WithAuthContext(ctx, authCtx), req)
	}
}

// GRPCServer wraps the listener lifecycle of the trace collector
type GRPCServer struct {
	server *grpc.Server
	port   int
	log    *slog.Logger
}

// NewGRPCServer assembles the gRPC server with auth interception and the
// trace service registered
func NewGRPCServer(port int, trace *TraceServer, resolver middleware.CredentialResolver, jwtSecret string, log *slog.Logger) *GRPCServer {
	server := grpc.NewServer(
		grpc.UnaryInterceptor(authUnaryInterceptor(resolver, jwtSecret, log)),
	)
	coltracepb.RegisterTraceServiceServer(server, trace)
	return &GRPCServer{server: server, port: port, log: log}
}

// Serve blocks accepting connections until Shutdown is called
func (g *GRPCServer) Serve() error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", g.port))
	if err != nil {
		return fmt.Errorf("failed to listen on gRPC port %d: %w", g.port, err)
	}
	g.log.Info("gRPC server listening", "port", g.port)
	return g.server.Serve(listener)
}

// Shutdown tries a graceful stop, force-stopping when the budget elapses
func (g *GRPCServer) Shutdown() {
	done := make(chan struct{})
	go func() {
		g.server.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(gracefulStopBudget):
		g.log.Warn("gRPC graceful stop timed out; forcing")
		g.server.Stop()
	}
}
