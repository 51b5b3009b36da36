package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/cyberescape/backend/go/internal/gateway"
	"github.com/cyberescape/backend/go/internal/outbox"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	configPath := getEnv("CONFIG_PATH", "config.yaml")
	config, err := loadConfig(configPath)
	if err != nil {
		log.Printf("Warning: Could not load %s, using defaults: %v", configPath, err)
		config = defaultConfig()
	}

	database, err := setupDatabase()
	if err != nil {
		log.Fatalf("Failed to set up database: %v", err)
	}
	defer database.Close()

	services, err := setupServices(database, clockwork.NewRealClock(), config)
	if err != nil {
		log.Fatalf("Failed to set up services: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wsHandler *gateway.WebSocketHandler
	var stopEvents func()
	if config.Events.Enabled {
		wsHandler, stopEvents, err = setupEvents(ctx, database, config)
		if err != nil {
			log.Fatalf("Failed to set up score events: %v", err)
		}
	}

	server := setupServer(services, wsHandler, config)

	go func() {
		log.Printf("Starting server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to run server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if stopEvents != nil {
		stopEvents()
	}
}

// setupEvents wires the outbox worker, the JetStream publisher and the
// scoreboard WebSocket gateway. The returned stop function drains the worker
// and closes both NATS connections.
func setupEvents(ctx context.Context, database *sql.DB, config *Config) (*gateway.WebSocketHandler, func(), error) {
	publisherCfg := outbox.DefaultJetStreamConfig()
	if config.Events.NatsURL != "" {
		publisherCfg.URL = config.Events.NatsURL
	}
	if config.Events.Stream != "" {
		publisherCfg.StreamName = config.Events.Stream
	}
	if config.Events.SubjectPrefix != "" {
		publisherCfg.SubjectPrefix = config.Events.SubjectPrefix
	}

	publisher, err := outbox.NewJetStreamPublisher(publisherCfg)
	if err != nil {
		return nil, nil, err
	}

	workerCfg := outbox.DefaultConfig()
	if config.Events.PollInterval > 0 {
		workerCfg.PollInterval = config.Events.PollInterval
	}
	if config.Events.BatchSize > 0 {
		workerCfg.BatchSize = config.Events.BatchSize
	}

	worker := outbox.NewWorker(database, publisher, workerCfg)
	if err := worker.Start(ctx); err != nil {
		publisher.Close()
		return nil, nil, err
	}

	cm := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	go cm.Start(ctx)

	consumerCfg := gateway.DefaultJetStreamConsumerConfig()
	consumerCfg.URL = publisherCfg.URL
	consumerCfg.StreamName = publisherCfg.StreamName
	consumerCfg.SubjectFilter = publisherCfg.SubjectPrefix + ".>"

	consumer, err := gateway.NewEventConsumer(cm, consumerCfg)
	if err != nil {
		if stopErr := worker.Stop(); stopErr != nil {
			log.Printf("Outbox worker stop error: %v", stopErr)
		}
		publisher.Close()
		return nil, nil, err
	}
	go func() {
		if err := consumer.Start(ctx); err != nil {
			log.Printf("Event consumer stopped: %v", err)
		}
	}()

	stop := func() {
		if err := worker.Stop(); err != nil {
			log.Printf("Outbox worker stop error: %v", err)
		}
		consumer.Close()
		publisher.Close()
	}
	return gateway.NewWebSocketHandler(cm), stop, nil
}
