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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/aiqa-platform/evaluation-service/api"
	"github.com/aiqa-platform/evaluation-service/config"
	"github.com/aiqa-platform/evaluation-service/db"
	dbmigrations "github.com/aiqa-platform/evaluation-service/db_migrations"
	"github.com/aiqa-platform/evaluation-service/ratelimit"
	"github.com/aiqa-platform/evaluation-service/search"
	"github.com/aiqa-platform/evaluation-service/server"
	"github.com/aiqa-platform/evaluation-service/signals"
	"github.com/aiqa-platform/evaluation-service/wiring"
)

func setupLogger(cfg *config.Config) {
	var level slog.Level
	switch cfg.LogLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo // default to INFO
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))

	slog.Info("Logger configured", "level", level.String())
}

func main() {
	cfg := config.GetConfig()

	setupLogger(cfg)

	if cfg.AutoMaxProcsEnabled {
		if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			slog.Info(fmt.Sprintf(format, args...))
		})); err != nil {
			slog.Error("Failed to set maxprocs", "error", err)
			os.Exit(1)
		}
	}

	serverFlag := flag.Bool("server", true, "start the servers")
	migrateFlag := flag.Bool("migrate", true, "migrate the database")
	flag.Parse()

	gormDB, err := db.Connect(cfg)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close(gormDB)

	if *migrateFlag {
		if err := dbmigrations.RunMigrations(gormDB); err != nil {
			slog.Error("Database migration failed", "error", err)
			os.Exit(1)
		}
	}

	if !*serverFlag {
		return
	}

	store, err := search.NewClient(cfg.Search)
	if err != nil {
		slog.Error("Failed to create search client", "error", err)
		os.Exit(1)
	}
	if err := store.EnsureIndices(context.Background()); err != nil {
		slog.Error("Failed to prepare search indices", "error", err)
		os.Exit(1)
	}

	limiter, err := ratelimit.NewFromURL(cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to rate-limit store", "error", err)
		os.Exit(1)
	}
	defer limiter.Close()

	dependencies, err := wiring.NewAppParams(cfg, gormDB, store, limiter)
	if err != nil {
		slog.Error("Failed to initialize app dependencies", "error", err)
		os.Exit(1)
	}

	handler := api.MakeHTTPHandler(dependencies)
	mainServer := &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:        handler,
		ReadTimeout:    time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:   time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:    time.Duration(cfg.IdleTimeoutSeconds) * time.Second,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	grpcServer := server.NewGRPCServer(cfg.GRPCPort,
		server.NewTraceServer(dependencies.Ingestion),
		dependencies.APIKeys, cfg.JWTSecret, slog.Default())

	stopCh := signals.SetupSignalHandler()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		<-stopCh
		slog.Info("Shutdown signal received, stopping services...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := mainServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server forced shutdown after timeout", "error", err)
		}

		grpcServer.Shutdown()
		wg.Done()
	}()

	go func() {
		if err := grpcServer.Serve(); err != nil {
			slog.Error("Failed to start gRPC server", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("HTTP server is running", "address", mainServer.Addr)
	if err := mainServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Failed to start HTTP server", "error", err)
		os.Exit(1)
	}

	wg.Wait()
	slog.Info("All servers shut down successfully")
}
