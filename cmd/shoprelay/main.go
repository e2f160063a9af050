package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mattjoyce/shoprelay/internal/api"
	"github.com/mattjoyce/shoprelay/internal/config"
	"github.com/mattjoyce/shoprelay/internal/dispatch"
	"github.com/mattjoyce/shoprelay/internal/doctor"
	"github.com/mattjoyce/shoprelay/internal/log"
	"github.com/mattjoyce/shoprelay/internal/router"
	"github.com/mattjoyce/shoprelay/internal/storefront"
	"github.com/mattjoyce/shoprelay/internal/tookan"
)

const version = "0.1.0"

const defaultEnvFile = ".env"

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "config":
		os.Exit(runConfigNoun(args))
	case "start":
		os.Exit(runStart(args))
	case "version":
		fmt.Printf("shoprelay version %s\n", version)
		os.Exit(0)
	case "help", "--help", "-h":
		printUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage(os.Stderr)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `shoprelay - Shopify webhook and draft-order relay

Usage:
  shoprelay <command> [flags]

Commands:
  start             Start the relay in foreground
  config check      Validate configuration and report warnings
  config lock       Write integrity hashes for the config file
  version           Show version information
  help              Show this help message

Flags (start, config check):
  --config PATH     YAML config file or directory (default: environment only)
  --env-file PATH   dotenv file loaded before reading configuration (default: .env if present)
`)
}

func runConfigNoun(args []string) int {
	if len(args) < 1 {
		printConfigNounHelp(os.Stderr)
		return 1
	}
	if isHelpToken(args[0]) {
		printConfigNounHelp(os.Stdout)
		return 0
	}

	action := args[0]
	actionArgs := args[1:]

	switch action {
	case "check":
		return runConfigCheck(actionArgs)
	case "lock":
		return runConfigLock(actionArgs)
	default:
		fmt.Fprintf(os.Stderr, "Unknown config action: %s\n", action)
		return 1
	}
}

func printConfigNounHelp(w io.Writer) {
	fmt.Fprint(w, `Usage: shoprelay config <action> [flags]

Actions:
  check   Validate configuration (--config, --env-file, --format human|json, --strict)
  lock    Write .checksums beside the config file (--config required)
`)
}

func isHelpToken(token string) bool {
	return token == "help" || token == "--help" || token == "-h"
}

// loadEnvFile loads path into the process environment. The default file is
// optional; an explicitly named one must exist.
func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// loadConfig reads configuration from the YAML file at path, or from the
// environment when path is empty.
func loadConfig(path, envFile string) (*config.Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}
	if path == "" {
		return config.FromEnv()
	}
	return config.Load(path)
}

func runStart(args []string) int {
	fs := flag.NewFlagSet("start", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to configuration file or directory")
	envFile := fs.String("env-file", "", "Path to dotenv file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	cfg, err := loadConfig(*configPath, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log.Setup(cfg.Service.LogLevel)
	logger := log.WithComponent("main")
	logger.Info("shoprelay starting", "version", version, "config", *configPath)

	server, err := buildServer(cfg)
	if err != nil {
		logger.Error("failed to build gateway", "error", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(ctx)
	}()

	logger.Info("shoprelay running (press Ctrl+C to stop)", "listen", cfg.Service.Listen)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("shutdown failed", "error", err)
			return 1
		}
	case err := <-errCh:
		logger.Error("gateway failed", "error", err)
		return 1
	}

	logger.Info("shoprelay stopped")
	return 0
}

// buildServer wires the gateway from a loaded configuration.
func buildServer(cfg *config.Config) (*api.Server, error) {
	maxBody, err := config.ParseMaxBodySize(cfg.Service.MaxBodySize)
	if err != nil {
		return nil, err
	}

	dispatcher := dispatch.New(
		tookan.NewClient(cfg.Dispatch.BaseURL, cfg.Dispatch.Timeout),
		log.WithComponent("dispatch"),
	)

	// A nil interface value, not a typed nil, keeps /order answering 503.
	var orders api.DraftOrderCreator
	if cfg.Storefront.Enabled() {
		orders = storefront.NewClient(storefront.Config{
			Shop:       cfg.Storefront.Shop,
			APIKey:     cfg.Storefront.APIKey,
			Password:   cfg.Storefront.Password,
			APIVersion: cfg.Storefront.APIVersion,
			BaseURL:    cfg.Storefront.BaseURL,
			Timeout:    cfg.Storefront.Timeout,
		})
	}

	apiConfig := api.Config{
		Listen:           cfg.Service.Listen,
		StaticDir:        cfg.Service.StaticDir,
		MaxBodySize:      maxBody,
		Secret:           cfg.Webhook.Secret,
		SignatureHeader:  cfg.Webhook.SignatureHeader,
		EnforceSignature: cfg.Webhook.Enforce(),
		Dispatch: router.Defaults{
			APIKey:   cfg.Dispatch.APIKey,
			TeamID:   cfg.Dispatch.TeamID,
			Timezone: cfg.Dispatch.Timezone,
			Color:    cfg.Dispatch.Color,
		},
	}
	return api.New(apiConfig, dispatcher, orders, log.WithComponent("api")), nil
}

func runConfigCheck(args []string) int {
	var configPath, envFile, format string
	var strict, jsonOut bool

	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.StringVar(&configPath, "config", "", "Path to configuration")
	fs.StringVar(&envFile, "env-file", "", "Path to dotenv file")
	fs.BoolVar(&strict, "strict", false, "Treat warnings as errors")
	fs.StringVar(&format, "format", "human", "Output format (human, json)")
	fs.BoolVar(&jsonOut, "json", false, "Output in JSON")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 1
	}
	if jsonOut {
		format = "json"
	}

	cfg, err := loadConfig(configPath, envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config load error: %v\n", err)
		return 1
	}

	result := doctor.New(cfg).Validate()

	switch format {
	case "json":
		out, err := doctor.FormatJSON(result)
		if err != nil {
			fmt.Fprintf(os.Stderr, "JSON format error: %v\n", err)
			return 1
		}
		fmt.Println(out)
	default:
		fmt.Print(doctor.FormatHuman(result))
	}

	if !result.Valid {
		return 1
	}
	if strict && len(result.Warnings) > 0 {
		return 2
	}
	return 0
}

func runConfigLock(args []string) int {
	fs := flag.NewFlagSet("lock", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to configuration file or directory")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 1
	}
	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "config lock requires --config")
		return 1
	}

	manifest, err := config.Lock(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Lock failed: %v\n", err)
		return 1
	}
	for name, hash := range manifest.Hashes {
		fmt.Printf("HASH %s: %s\n", name, hash)
	}
	fmt.Printf("Wrote %s\n", config.ChecksumFile)
	return 0
}
