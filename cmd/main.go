package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"chat-relay/ai"
	"chat-relay/infrastructure/ws"
	"chat-relay/moderation"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting so deferred cleanup always executes before
// the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Moderation
	replacement, err := CharacterRune(config.CharReplacement)
	if err != nil {
		return err
	}
	moderator, err := moderation.NewModerator(config.CensoredWords, replacement)
	if err != nil {
		return fmt.Errorf("moderator setup failed: %w", err)
	}

	// 3. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. AI Completion Adapter
	gemini, err := ai.NewGemini(ctx, config.APIKey, config.GenerationModel)
	if err != nil {
		return fmt.Errorf("generator setup failed: %w", err)
	}
	completer := ai.NewCompleter(log, gemini, config.CompletionTimeout)

	// 5. Presence & Routing
	registry := runtime.NewRegistry()
	router := runtime.NewRouter(log, registry, completer, moderator, config.DeliveryTimeout)

	// 6. Background workers
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(workers.NewTelemetryWorker(log, registry, config.TelemetryInterval))
	go sup.Run(ctx)

	// 7. HTTP/WebSocket server
	server := ws.NewServer(ctx, log, router, registry,
		config.ConnectionBufferSize, config.AllowedOrigins)
	handler := server.Handler()
	if config.StaticDir != "" {
		outer := http.NewServeMux()
		outer.Handle("/ws", handler)
		outer.Handle("/healthz", handler)
		outer.Handle("/", http.FileServer(http.Dir(config.StaticDir)))
		handler = outer
	}

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	httpServer := &http.Server{Handler: handler}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting relay", "address", address)
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 8. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 9. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	sup.Stop()
	log.Info("Relay stopped cleanly")

	return nil
}
