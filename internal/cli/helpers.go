package cli

import (
	"fmt"
	"os"

	"shelf/internal/config"
	"shelf/internal/crypto"
	"shelf/internal/docstore"
	"shelf/internal/logger"
	"shelf/internal/state"
	"shelf/internal/storage"
)

func storeFromConfig(cfg *config.Config) (*docstore.Store, error) {
	backend, err := objectStoreFromConfig(cfg)
	if err != nil {
		return nil, err
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
		Logger:   logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}),
	})
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	return store, nil
}

func objectStoreFromConfig(cfg *config.Config) (storage.ObjectStore, error) {
	objectsDir, err := state.ObjectStoreDir()
	if err != nil {
		return nil, err
	}
	backend, err := storage.NewFromConfig(cfg.S3, objectsDir)
	if err != nil {
		return nil, fmt.Errorf("create object store: %w", err)
	}
	return backend, nil
}

func encryptionKeys(cfg *config.Config) ([][]byte, error) {
	passphrase := os.Getenv(passphraseEnv)
	if passphrase != "" {
		return deriveEncryptionKeys(passphrase)
	}

	passphrase, err := crypto.PassphraseFromKeychain(cfg.Crypto.KeychainService, cfg.Crypto.KeychainAccount)
	if err != nil {
		return nil, fmt.Errorf("no %s set and keychain lookup failed: %w", passphraseEnv, err)
	}
	return deriveEncryptionKeys(passphrase)
}

func deriveEncryptionKeys(passphrase string) ([][]byte, error) {
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
