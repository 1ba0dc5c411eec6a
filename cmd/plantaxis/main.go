// Package main implements the plantaxis dashboard server binary.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/plantaxis/plantaxis/internal/app"
	"github.com/plantaxis/plantaxis/internal/config"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var (
		configFile  string
		dataDir     string
		httpAddr    string
		storageType string
		showVersion bool
		showHelp    bool
	)

	flag.StringVar(&configFile, "config", "", "Path to configuration file (YAML or JSON)")
	flag.StringVar(&dataDir, "data-dir", "", "Directory holding the CSV datasets")
	flag.StringVar(&httpAddr, "http-addr", "", "HTTP listen address")
	flag.StringVar(&storageType, "storage", "", "Dataset source: local, s3")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showHelp, "help", false, "Show help message")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Plantaxis - Steel Plants Analytics Dashboard Server\n\n")
		fmt.Fprintf(os.Stderr, "Usage: plantaxis [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  plantaxis --data-dir /data/plantaxis\n")
		fmt.Fprintf(os.Stderr, "  plantaxis --config /etc/plantaxis/config.yaml\n")
		fmt.Fprintf(os.Stderr, "  plantaxis --storage s3 --http-addr :9090\n")
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  PLANTAXIS_DATA_DIR               Directory holding the CSV datasets\n")
		fmt.Fprintf(os.Stderr, "  PLANTAXIS_HTTP_ADDR              HTTP listen address\n")
		fmt.Fprintf(os.Stderr, "  PLANTAXIS_STORAGE_TYPE           Dataset source (local, s3)\n")
		fmt.Fprintf(os.Stderr, "  PLANTAXIS_S3_BUCKET              S3 bucket holding the datasets\n")
		fmt.Fprintf(os.Stderr, "  PLANTAXIS_S3_REGION              AWS region\n")
		fmt.Fprintf(os.Stderr, "  PLANTAXIS_S3_ENDPOINT            S3 endpoint (S3-compatible storage)\n")
		fmt.Fprintf(os.Stderr, "  PLANTAXIS_S3_PREFIX              Key prefix the datasets live under\n")
		fmt.Fprintf(os.Stderr, "  PLANTAXIS_EXPLORER_ENABLED       Serve the /v1/sql endpoint\n")
		fmt.Fprintf(os.Stderr, "  PLANTAXIS_EXPLORER_MAX_ROWS      Row cap for explorer queries\n")
		fmt.Fprintf(os.Stderr, "  PLANTAXIS_EXPLORER_QUERY_TIMEOUT Explorer query timeout\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("plantaxis version %s (commit: %s)\n", version, commit)
		os.Exit(0)
	}

	cfg, err := loadConfig(configFile, dataDir, httpAddr, storageType)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Plantaxis %s starting: data_dir=%s storage=%s addr=%s",
		version, cfg.DataDir, cfg.Storage.Type, cfg.HTTP.Addr)

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := application.Start(ctx); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	if err := application.WaitForShutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	if err := application.Stop(context.Background()); err != nil {
		log.Printf("Stop error: %v", err)
		os.Exit(1)
	}
}

// loadConfig loads configuration from file, environment, and command line flags.
func loadConfig(configFile, dataDir, httpAddr, storageType string) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configFile != "" {
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		cfg = config.DefaultConfig()
	}

	config.LoadFromEnv(cfg)

	// Command line flags take highest priority
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if httpAddr != "" {
		cfg.HTTP.Addr = httpAddr
	}
	if storageType != "" {
		cfg.Storage.Type = storageType
	}

	return cfg, nil
}
