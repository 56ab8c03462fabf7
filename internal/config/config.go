package config

import (
	"errors"
	"net"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DriverLocal = "local"
	DriverAWS   = "aws"
	DriverMinio = "minio"
)

type Config struct {
	Store   StoreConfig   `toml:"store"`
	S3      S3Config      `toml:"s3"`
	Crypto  CryptoConfig  `toml:"crypto"`
	Gateway GatewayConfig `toml:"gateway"`
	Log     LogConfig     `toml:"log"`
}

type StoreConfig struct {
	Bucket   string `toml:"bucket"`
	Prefix   string `toml:"prefix"`
	KMSKeyID string `toml:"kms_key_id"`
}

type S3Config struct {
	Driver         string `toml:"driver"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	Insecure       bool   `toml:"insecure"`
	RequestTimeout string `toml:"request_timeout"`
}

type CryptoConfig struct {
	Encrypt         bool   `toml:"encrypt"`
	KeychainService string `toml:"keychain_service"`
	KeychainAccount string `toml:"keychain_account"`
}

type GatewayConfig struct {
	Listen string `toml:"listen"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Bucket: "shelf",
			Prefix: "",
		},
		S3: S3Config{
			Driver: "",
		},
		Crypto: CryptoConfig{
			Encrypt:         false,
			KeychainService: "shelf",
			KeychainAccount: "default",
		},
		Gateway: GatewayConfig{
			Listen: "127.0.0.1:8787",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyDefaults()
			cfg.Normalize()
			return cfg, nil
		}
		return nil, err
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) ApplyDefaults() {
	if c.Store.Bucket == "" {
		c.Store.Bucket = "shelf"
	}
	if c.S3.Driver == "" {
		switch {
		case c.S3.Endpoint != "":
			c.S3.Driver = DriverMinio
		case c.S3.Region != "":
			c.S3.Driver = DriverAWS
		default:
			c.S3.Driver = DriverLocal
		}
	}
	if c.Crypto.KeychainService == "" {
		c.Crypto.KeychainService = "shelf"
	}
	if c.Crypto.KeychainAccount == "" {
		c.Crypto.KeychainAccount = "default"
	}
	if c.Gateway.Listen == "" {
		c.Gateway.Listen = "127.0.0.1:8787"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

func (c *Config) Normalize() {
	c.Store.Bucket = strings.TrimSpace(c.Store.Bucket)
	c.Store.Prefix = strings.TrimSpace(c.Store.Prefix)
	c.Store.KMSKeyID = strings.TrimSpace(c.Store.KMSKeyID)
	c.S3.Driver = strings.ToLower(strings.TrimSpace(c.S3.Driver))
	c.S3.Endpoint = strings.TrimSpace(c.S3.Endpoint)
	c.S3.Region = strings.TrimSpace(c.S3.Region)
	c.S3.RequestTimeout = strings.TrimSpace(c.S3.RequestTimeout)
	c.Gateway.Listen = strings.TrimSpace(c.Gateway.Listen)
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
}

func (c *Config) Validate() error {
	if c.Store.Bucket == "" {
		return errors.New("store.bucket is required")
	}
	if strings.Contains(c.Store.Bucket, "/") {
		return errors.New("store.bucket must not contain '/'")
	}
	if strings.HasPrefix(c.Store.Prefix, "/") {
		return errors.New("store.prefix must not start with '/'")
	}

	switch c.S3.Driver {
	case DriverLocal, DriverAWS, DriverMinio:
	default:
		return errors.New("s3.driver must be one of: local, aws, minio")
	}
	if c.S3.Driver == DriverAWS && c.S3.Region == "" {
		return errors.New("s3.region is required when s3.driver is aws")
	}
	if c.S3.Driver == DriverMinio {
		if c.S3.Endpoint == "" {
			return errors.New("s3.endpoint is required when s3.driver is minio")
		}
		if c.S3.AccessKey == "" || c.S3.SecretKey == "" {
			return errors.New("s3.access_key and s3.secret_key are required when s3.driver is minio")
		}
	}
	if c.S3.RequestTimeout != "" {
		d, err := time.ParseDuration(c.S3.RequestTimeout)
		if err != nil {
			return errors.New("s3.request_timeout must be a valid duration")
		}
		if d < 0 {
			return errors.New("s3.request_timeout must be >= 0")
		}
	}
	if c.Store.KMSKeyID != "" && c.S3.Driver == DriverLocal {
		return errors.New("store.kms_key_id requires s3.driver aws or minio")
	}

	if strings.TrimSpace(c.Crypto.KeychainService) == "" {
		return errors.New("crypto.keychain_service must not be empty")
	}
	if strings.TrimSpace(c.Crypto.KeychainAccount) == "" {
		return errors.New("crypto.keychain_account must not be empty")
	}

	if _, _, err := net.SplitHostPort(c.Gateway.Listen); err != nil {
		return errors.New("gateway.listen must be a host:port address")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("log.level must be one of: debug, info, warn, error")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return errors.New("log.format must be json or console")
	}

	return nil
}

// Timeout returns the parsed s3.request_timeout, or zero when unset.
func (c S3Config) Timeout() time.Duration {
	if c.RequestTimeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}
