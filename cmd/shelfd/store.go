package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"shelf/internal/config"
	"shelf/internal/crypto"
	"shelf/internal/docstore"
	"shelf/internal/state"
	"shelf/internal/storage"
)

const passphraseEnv = "SHELF_PASSPHRASE"

func storeFromConfig(cfg *config.Config, log zerolog.Logger) (*docstore.Store, error) {
	objectsDir, err := state.ObjectStoreDir()
	if err != nil {
		return nil, err
	}
	backend, err := storage.NewFromConfig(cfg.S3, objectsDir)
	if err != nil {
		return nil, fmt.Errorf("create object store: %w", err)
	}

	if cfg.Crypto.Encrypt {
		keys, err := encryptionKeys(cfg)
		if err != nil {
			return nil, err
		}
		backend, err = storage.NewEncryptedStore(backend, keys)
		if err != nil {
			return nil, fmt.Errorf("enable encryption: %w", err)
		}
	}

	store, err := docstore.New(docstore.Config{
		Backend:  backend,
		Bucket:   cfg.Store.Bucket,
		Prefix:   cfg.Store.Prefix,
		KMSKeyID: cfg.Store.KMSKeyID,
		Logger:   log,
	})
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	return store, nil
}

func encryptionKeys(cfg *config.Config) ([][]byte, error) {
	passphrase := os.Getenv(passphraseEnv)
	if passphrase == "" {
		var err error
		passphrase, err = crypto.PassphraseFromKeychain(cfg.Crypto.KeychainService, cfg.Crypto.KeychainAccount)
		if err != nil {
			return nil, fmt.Errorf("no %s set and keychain lookup failed: %w", passphraseEnv, err)
		}
	}

	saltPath, err := state.KDFSaltPath()
	if err != nil {
		return nil, err
	}
	salt, err := crypto.LoadOrCreateKDFSalt(saltPath)
	if err != nil {
		return nil, err
	}
	return crypto.DeriveKeys(passphrase, salt), nil
}
