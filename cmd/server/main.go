package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"cmt-tasks/internal/config"
	"cmt-tasks/internal/database"
	"cmt-tasks/internal/handlers"
	"cmt-tasks/internal/server"
)

func main() {
	cfg := config.Load()

	handlers.SetLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)).
		With(slog.String("service", "cmt-tasks")))

	database.Init(cfg.DBDSN)

	r := server.NewRouter(cfg)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
