package main

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/vetmedwire/newswidget/internal/config"
	"github.com/vetmedwire/newswidget/internal/logger"
	"github.com/vetmedwire/newswidget/internal/metrics"
	"github.com/vetmedwire/newswidget/internal/server"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	srv := server.New(cfg)
	mux := srv.Routes()
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/metrics", metricsHandler)

	logger.Info("starting vetnewsd", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, mux); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	status := "ok"
	if !stats["is_healthy"].(bool) {
		status = "error"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	response := map[string]interface{}{
		"status":     status,
		"last_mount": stats["last_mount_time"],
		"last_error": stats["last_error"],
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func metricsHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
