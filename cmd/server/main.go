package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/codepair/server/internal/api"
	"github.com/codepair/server/internal/config"
	"github.com/codepair/server/internal/keepalive"
	"github.com/codepair/server/internal/room"
	"github.com/codepair/server/internal/store"
	"github.com/codepair/server/internal/ws"
)

func main() {
	cfg := config.Load()

	var st *store.Store
	if cfg.StorePath != "" {
		var err error
		st, err = store.Open(cfg.StorePath)
		if err != nil {
			log.Fatalf("Failed to initialize store: %v", err)
		}
		defer st.Close()
	}

	hub := ws.NewHub(room.NewRegistry(), st, cfg.RoomIdleTTL)
	go hub.Run()

	apiHandler := api.New(hub, st)
	router := apiHandler.Routes(cfg.StaticDir, cfg.MessagesPerSecond, cfg.MessageBurst)

	handler := corsMiddleware(router)

	var pinger *keepalive.Service
	if cfg.KeepaliveURL != "" {
		pinger = keepalive.New(cfg.KeepaliveURL, cfg.KeepaliveInterval)
		pinger.Start()
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		if pinger != nil {
			pinger.Stop()
		}
		hub.Stop()
		if st != nil {
			st.Close()
		}
		os.Exit(0)
	}()

	log.Printf("codepair server starting on :%s", cfg.Port)
	log.Println("Endpoints:")
	log.Println("  - WebSocket: /ws")
	log.Println("  - Health:    GET /health")
	log.Println("  - Stats:     GET /api/stats")
	log.Println("  - Rooms:     GET /api/rooms, GET /api/rooms/{id}")
	log.Println("  - Metrics:   GET /metrics")
	if cfg.StaticDir != "" {
		log.Printf("  - Static:    %s (SPA fallback)", cfg.StaticDir)
	}

	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatal("ListenAndServe: ", err)
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
