package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"navychat/config"
	"navychat/handlers"
	"navychat/repository"
	"navychat/services"
	"navychat/ws"
)

// loggingMiddleware adds request logging
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("Started %s %s", r.Method, r.URL.Path)

		next.ServeHTTP(w, r)

		log.Printf("Completed %s %s in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Sec-WebSocket-Protocol, Sec-WebSocket-Extensions, Sec-WebSocket-Key, Sec-WebSocket-Version, Upgrade, Connection")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	// Local development reads .env; in production the environment is set
	// directly.
	_ = godotenv.Load()
	cfg := config.Load()

	log.Printf("Starting NavyChat server on port %s", cfg.Port)

	// --- stores (in-memory, volatile by design) ---
	sessionRepo := repository.NewInMemorySessionRepo()
	membershipRepo := repository.NewInMemoryMembershipRepo()
	contactRepo := repository.NewInMemoryContactRepo()
	messageRepo := repository.NewInMemoryMessageRepo()

	// --- websocket hub ---
	hub := ws.NewHub(cfg.PingInterval, cfg.PongWait)
	go hub.Run()

	// --- service ---
	chatSvc := services.NewChatService(sessionRepo, membershipRepo, contactRepo, messageRepo, hub)

	// --- handlers ---
	wsH := handlers.NewWSHandler(hub, chatSvc)

	// --- mux and routes ---
	mux := http.NewServeMux()

	mux.HandleFunc("/", handlers.Index)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","timestamp":"` + time.Now().Format(time.RFC3339) + `"}`))
	})

	mux.HandleFunc("/ws", wsH.WS)

	// Apply middleware
	handler := withCORS(loggingMiddleware(mux))

	// --- server setup ---
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// --- graceful shutdown ---
	go func() {
		log.Printf("NavyChat running on http://localhost:%s", cfg.Port)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
