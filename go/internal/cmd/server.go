package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/rs/cors"

	"github.com/cyberescape/backend/go/internal/gateway"
	"github.com/cyberescape/backend/go/internal/httpapi"
)

func setupServer(services *Services, wsHandler *gateway.WebSocketHandler, config *Config) *http.Server {
	mux := http.NewServeMux()

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins: config.Server.AllowedOrigins,
		AllowedHeaders: []string{"*"},
	})

	// Register API routes
	handler := httpapi.NewHandler(services.Sessions, services.Verification, services.Leaderboard)
	handler.RegisterRoutes(mux)

	// Register scoreboard WebSocket routes when the gateway is enabled
	if wsHandler != nil {
		wsHandler.RegisterRoutes(mux)
	}

	// Add health check endpoint
	setupHealthCheck(mux)

	return &http.Server{
		Addr:    fmt.Sprintf(":%s", getEnv("PORT", config.Server.Port)),
		Handler: c.Handler(mux),
	}
}

func setupHealthCheck(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"OK"}`)); err != nil {
			log.Printf("Failed to write health check response: %v", err)
		}
	})
}
