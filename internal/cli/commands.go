package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"shelf/internal/config"
	"shelf/internal/docstore"
	"shelf/internal/errs"
)

func runPut(ctx context.Context, cfg *config.Config, opts putOptions, key, inline string) error {
	value, err := readValueInput(inline, opts.File)
	if err != nil {
		return err
	}

	store, err := storeFromConfig(cfg)
	if err != nil {
		return err
	}

	if opts.Raw {
		if err := store.PutRaw(ctx, key, value); err != nil {
			return fmt.Errorf("put blob: %w", err)
		}
		fmt.Printf("stored blob %s (%d bytes)\n", key, len(value))
		return nil
	}

	var putOpts []docstore.PutOption
	if opts.Pretty {
		putOpts = append(putOpts, docstore.WithPretty())
	}
	if err := store.Put(ctx, key, json.RawMessage(value), putOpts...); err != nil {
		return fmt.Errorf("put document: %w", err)
	}
	fmt.Printf("stored document %s\n", key)
	return nil
}

func runGet(ctx context.Context, cfg *config.Config, opts getOptions, key string) error {
	store, err := storeFromConfig(cfg)
	if err != nil {
		return err
	}

	var data []byte
	if opts.Raw {
		data, err = store.GetRaw(ctx, key)
	} else {
		var text string
		text, err = store.GetString(ctx, key)
		data = []byte(text)
	}
	if err != nil {
		if opts.MissingOK && errs.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("get %s: %w", key, err)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, data, 0o600); err != nil {
			return fmt.Errorf("write output file: %w", err)
		}
		return nil
	}

	_, _ = os.Stdout.Write(data)
	if !opts.Raw && len(data) > 0 && data[len(data)-1] != '\n' {
		fmt.Println()
	}
	return nil
}

func runUpdate(ctx context.Context, cfg *config.Config, opts updateOptions, key, inline string) error {
	value, err := readValueInput(inline, opts.File)
	if err != nil {
		return err
	}

	var fields map[string]any
	if err := json.Unmarshal(value, &fields); err != nil {
		return fmt.Errorf("parse fields: %w", err)
	}

	store, err := storeFromConfig(cfg)
	if err != nil {
		return err
	}
	if err := store.Update(ctx, key, fields); err != nil {
		return fmt.Errorf("update %s: %w", key, err)
	}
	fmt.Printf("updated document %s\n", key)
	return nil
}

func runRm(ctx context.Context, cfg *config.Config, opts rmOptions, key string) error {
	store, err := storeFromConfig(cfg)
	if err != nil {
		return err
	}

	if opts.Raw {
		err = store.DeleteRaw(ctx, key)
	} else {
		err = store.Delete(ctx, key)
	}
	if err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	fmt.Printf("removed %s\n", key)
	return nil
}

func runLs(ctx context.Context, cfg *config.Config, opts lsOptions, subPath string) error {
	store, err := storeFromConfig(cfg)
	if err != nil {
		return err
	}

	var keys []string
	if opts.Raw {
		keys, err = store.ListRaw(ctx, subPath)
	} else {
		keys, err = store.List(ctx, subPath)
	}
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}

	for _, key := range keys {
		fmt.Println(key)
	}
	return nil
}

func runExists(ctx context.Context, cfg *config.Config, opts existsOptions, key string) error {
	store, err := storeFromConfig(cfg)
	if err != nil {
		return err
	}

	var found bool
	if opts.Raw {
		found, err = store.ExistsRaw(ctx, key)
	} else {
		found, err = store.Exists(ctx, key)
	}
	if err != nil {
		return fmt.Errorf("probe %s: %w", key, err)
	}
	fmt.Println(found)
	return nil
}

func runCopy(ctx context.Context, cfg *config.Config, opts transferOptions, src, dst string) error {
	store, err := storeFromConfig(cfg)
	if err != nil {
		return err
	}

	if opts.FullyQualified {
		err = store.CopyFullyQualified(ctx, src, dst)
	} else {
		err = store.Copy(ctx, src, dst)
	}
	if err != nil {
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	fmt.Printf("copied %s to %s\n", src, dst)
	return nil
}

func runMove(ctx context.Context, cfg *config.Config, opts transferOptions, src, dst string) error {
	store, err := storeFromConfig(cfg)
	if err != nil {
		return err
	}

	if opts.FullyQualified {
		err = store.MoveFullyQualified(ctx, src, dst)
	} else {
		err = store.Move(ctx, src, dst)
	}
	if err != nil {
		return fmt.Errorf("move %s to %s: %w", src, dst, err)
	}
	fmt.Printf("moved %s to %s\n", src, dst)
	return nil
}

func readValueInput(inline, file string) ([]byte, error) {
	if inline != "" {
		return []byte(inline), nil
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read value file: %w", err)
		}
		return data, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, nil
}
