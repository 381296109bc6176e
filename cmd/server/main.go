package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ilgi/internal/config"
	"ilgi/internal/db"
	"ilgi/internal/handlers"
	"ilgi/internal/logger"
	"ilgi/internal/websocket"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile, JSON: cfg.AppEnv == "production"})
	if err != nil {
		os.Stderr.WriteString("failed to open log file: " + err.Error() + "\n")
		os.Exit(1)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect database", "err", err)
	}
	defer database.Close()

	txRunner := db.NewTxRunner(database, db.TxOptions{
		Isolation:   sql.LevelReadCommitted,
		MaxAttempts: cfg.TxMaxAttempts,
	})
	hub := websocket.NewHub()
	handler := handlers.New(txRunner, cfg, log, handlers.NewStores(database), hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("ilgi API listening", "addr", server.Addr, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", "err", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "err", err)
	}
}
