package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"chat-room/auth"
	"chat-room/moderation"
	"chat-room/repositories"
	"chat-room/runtime"
	"chat-room/search"
	"chat-room/services"
	"chat-room/web"
	"chat-room/workers"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting, so every deferred cleanup executes before
// the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	censorRune, err := maskRune(config.CensorReplacement)
	if err != nil {
		return err
	}

	// 2. Database (BadgerDB, credential table only)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Moderation
	words, err := moderation.LoadWords(moderation.CensoredFS, "censored")
	if err != nil {
		return fmt.Errorf("censored words loading failed: %w", err)
	}
	log.Info(fmt.Sprintf("%d censored words loaded [%s]",
		len(words.Words), strings.Join(words.Languages, ",")))
	moderator, err := moderation.NewModerator(words.Words, censorRune)
	if err != nil {
		return fmt.Errorf("moderator build failed: %w", err)
	}

	// 4. Room state & services
	registry := runtime.NewRegistry()
	store := runtime.NewMessageStore()
	bus := runtime.NewBus(log, config.ConnectionBufferSize)
	chatService := services.NewChatService(log, store, bus, moderator)
	coordinator := runtime.NewCoordinator(log, registry, bus, chatService)

	index, err := search.NewIndex(log)
	if err != nil {
		return fmt.Errorf("search index failed: %w", err)
	}
	defer func() {
		_ = index.Close()
	}()

	tokens := auth.NewTokenIssuer([]byte(config.JWTSecret), config.AuthTokenDuration)
	authService := services.NewAuthService(repositories.NewUserRepository(db), tokens)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. Supervised background workers
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(workers.NewIndexerWorker(log, bus.Subscribe(), store, index))
	sup.Add(workers.NewReporterWorker(log, registry, store, bus, config.ReportInterval))
	supDone := make(chan struct{})
	go func() {
		defer close(supDone)
		sup.Run(ctx)
	}()

	// 7. HTTP server
	handlers := web.NewHandlers(log, ctx, authService, tokens, coordinator, index)
	server := web.NewServer(log, fmt.Sprintf("%s:%d", config.Host, config.Port), handlers)

	errChan := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
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
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown incomplete", "error", err)
	}
	sup.Stop()
	<-supDone
	log.Info("Program stopped cleanly")

	return nil
}
