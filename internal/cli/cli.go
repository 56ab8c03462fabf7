// Package cli implements the shelf command line interface.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"shelf/internal/config"
	"shelf/internal/state"
)

func Run(args []string) error {
	fs := flag.NewFlagSet("shelf", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	configPath, err := state.ConfigPath()
	if err != nil {
		return err
	}
	fs.StringVar(&configPath, "config", configPath, "path to config file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return usageError()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()

	switch rest[0] {
	case "put":
		opts, key, inline, err := parsePutArgs(rest[1:])
		if err != nil {
			return err
		}
		return runPut(ctx, cfg, opts, key, inline)
	case "get":
		opts, key, err := parseGetArgs(rest[1:])
		if err != nil {
			return err
		}
		return runGet(ctx, cfg, opts, key)
	case "update":
		opts, key, inline, err := parseUpdateArgs(rest[1:])
		if err != nil {
			return err
		}
		return runUpdate(ctx, cfg, opts, key, inline)
	case "rm":
		opts, key, err := parseRmArgs(rest[1:])
		if err != nil {
			return err
		}
		return runRm(ctx, cfg, opts, key)
	case "ls":
		opts, subPath, err := parseLsArgs(rest[1:])
		if err != nil {
			return err
		}
		return runLs(ctx, cfg, opts, subPath)
	case "exists":
		opts, key, err := parseExistsArgs(rest[1:])
		if err != nil {
			return err
		}
		return runExists(ctx, cfg, opts, key)
	case "cp":
		opts, src, dst, err := parseTransferArgs("cp", rest[1:])
		if err != nil {
			return err
		}
		return runCopy(ctx, cfg, opts, src, dst)
	case "mv":
		opts, src, dst, err := parseTransferArgs("mv", rest[1:])
		if err != nil {
			return err
		}
		return runMove(ctx, cfg, opts, src, dst)
	default:
		return usageError()
	}
}

func usageError() error {
	return errors.New("usage: shelf [-config path] put|get|update|rm|ls|exists|cp|mv ...")
}
