package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/cardforge/card-engine/internal/api"
	"github.com/cardforge/card-engine/pkg/cardformat"
)

// Version is set during build via ldflags
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.json", "Configuration file")
	port := flag.String("port", "8480", "Listen port")
	flag.Parse()

	cfg, err := cardformat.ParseFile(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	for _, w := range cardformat.Warnings(cfg) {
		log.Printf("Warning: %s", w)
	}

	server, err := api.NewServer(cfg, filepath.Dir(*configPath))
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Start server in goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("0.0.0.0:%s", *port)
		log.Printf("Card engine %s listening on %s", Version, addr)
		if err := server.Run(addr); err != nil {
			serverErrChan <- err
		}
	}()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrChan:
		log.Fatalf("Server failed: %v", err)
	case sig := <-sigChan:
		log.Printf("Received %v, shutting down", sig)
	}
}
