package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"shelf/internal/config"
	"shelf/internal/gateway"
	"shelf/internal/logger"
	"shelf/internal/state"
)

const tokenEnv = "SHELF_GATEWAY_TOKEN"

func main() {
	defaultConfigPath, err := state.ConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "state path error: %v\n", err)
		os.Exit(1)
	}

	var (
		configPath  string
		listenAddr  string
		allowRemote bool
		tokenFlag   string
	)
	flag.StringVar(&configPath, "config", defaultConfigPath, "path to config file")
	flag.StringVar(&listenAddr, "listen", "", "listen address (overrides gateway.listen)")
	flag.BoolVar(&allowRemote, "allow-remote", false, "permit non-loopback listen addresses")
	flag.StringVar(&tokenFlag, "token", "", "comma-separated access tokens")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	tokens, err := resolveAuthTokens(tokenFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "token error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	store, err := storeFromConfig(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "store error: %v\n", err)
		os.Exit(1)
	}

	if listenAddr == "" {
		listenAddr = cfg.Gateway.Listen
	}

	srv, err := gateway.New(gateway.Config{
		Store:       store,
		Bucket:      cfg.Store.Bucket,
		Prefix:      cfg.Store.Prefix,
		Listen:      listenAddr,
		AuthTokens:  tokens,
		AllowRemote: allowRemote,
		Logger:      log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "gateway error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "gateway error: %v\n", err)
		os.Exit(1)
	}
}

// resolveAuthTokens prefers the flag, then the environment, then the
// token file under the state dir. A missing file just means no auth.
func resolveAuthTokens(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv(tokenEnv); env != "" {
		return env, nil
	}

	tokenPath, err := state.GatewayTokenPath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(tokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
