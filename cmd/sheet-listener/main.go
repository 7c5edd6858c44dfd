package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ordersheet/internal/config"
	"ordersheet/internal/listener"
	"ordersheet/internal/logging"
	"ordersheet/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)
	log := logging.New("sheet-listener", cfg.LogLevel)

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	svc := listener.NewService(db, cfg, log)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	must(svc.Run(ctx))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
