package main

import (
	"context"
	"decision-lab/ai"
	"decision-lab/domain"
	"decision-lab/infrastructure/grpc/server"
	"decision-lab/infrastructure/web"
	"decision-lab/lifecycle"
	"decision-lab/repositories"
	"decision-lab/runtime"
	"decision-lab/runtime/workers"
	"decision-lab/services"
	"decision-lab/sink"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires every component and blocks until a signal or a server failure.
// Returning instead of exiting lets the deferred cleanups run.
func run() error {
	// A missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	charReplacement, err := CharacterRune(config.CharReplacement)
	if err != nil {
		return err
	}
	policy, err := domain.ParseCountingPolicy(config.SwipeCounting)
	if err != nil {
		return err
	}

	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	repository := repositories.NewRoomRepository(db, log)
	registry := runtime.NewRegistry()
	sup := workers.NewSupervisor(log, config.RestartInterval)
	healthServer := server.NewHealthServer(log)

	hub := runtime.NewSessionHub(log, sup, registry, repository, healthServer, lifecycle.NewEnv(nil),
		runtime.HubConfig{
			BufferSize:      config.BufferSize,
			InboxSize:       config.RoomInboxSize,
			SinkTimeout:     config.SinkTimeout,
			IdleTimeout:     config.RoomIdleTimeout,
			HealthInterval:  config.HealthInterval,
			CharReplacement: charReplacement,
		})
	hub.Add(sink.NewLogSink(log))

	summarizer := ai.NewSummarizer(&http.Client{Timeout: config.SummaryTimeout}, ai.SummaryConfig{
		BaseURL:   config.SummaryBaseURL,
		Model:     config.SummaryModel,
		APIKey:    config.APIKey,
		Timeout:   config.SummaryTimeout,
		MaxTokens: config.SummaryMaxTokens,
	}, log)
	service := services.NewRoomService(repository, summarizer, policy, log)

	gin.SetMode(gin.ReleaseMode)
	router := web.NewRouter(service, web.NewWebsocketHandler(hub, log, config.ConnectionBufferSize),
		func() (int, int) {
			stats := hub.Stats()
			return stats.Rooms, stats.Connections
		}, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 3)
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		if err := hub.Start(ctx); err != nil {
			errChan <- fmt.Errorf("session hub failed to start: %w", err)
		}
	}()

	httpAddress := fmt.Sprintf("%s:%d", config.Host, config.HTTPPort)
	httpServer := &http.Server{Addr: httpAddress, Handler: router, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("Starting HTTP server", "address", httpAddress, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	grpcAddress := fmt.Sprintf("%s:%d", config.Host, config.GRPCPort)
	listener, err := net.Listen("tcp", grpcAddress)
	if err != nil {
		hub.Stop()
		<-hubDone
		return fmt.Errorf("failed to listen on %s: %w", grpcAddress, err)
	}
	go func() {
		if err := healthServer.Serve(listener); err != nil {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case runErr = <-errChan:
		log.Error("Shutting down after failure", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP server shutdown", "error", err)
	}
	healthServer.Stop()
	hub.Stop()
	<-hubDone
	log.Info("Program stopped cleanly")

	return runErr
}
