package state

import (
	"os"
	"path/filepath"
)

const AppName = "shelf"

func AppDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return "", homeErr
		}
		dir = filepath.Join(home, "Library", "Application Support")
	}
	return filepath.Join(dir, AppName), nil
}

func ConfigPath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ObjectStoreDir is the root the local storage driver writes buckets
// under when no remote endpoint is configured.
func ObjectStoreDir() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "objects"), nil
}

func KDFSaltPath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "kdf_salt.bin"), nil
}

// GatewayTokenPath is where shelfd looks for access tokens when neither
// the -token flag nor the token environment variable is set.
func GatewayTokenPath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "gateway_token"), nil
}
