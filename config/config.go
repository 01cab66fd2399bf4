// Package config loads the YAML configuration file of the imgsearch CLI.
//
// Example:
//
//	database: features.json.zst
//	codec: go-json
//	expiryWindow: 10m
//	workers: 8
//	ioLimit: 52428800
//	patterns:
//	  - "**/*.{jpg,jpeg,png}"
//	logLevel: info
//	storage:
//	  kind: s3
//	  bucket: my-images
//	  prefix: index/
//	  region: eu-central-1
//
// String values in the storage section may reference environment variables
// as ${NAME}.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/imgsearch/codec"
	"github.com/hupe1980/imgsearch/feature"
)

// Storage kinds.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
	StorageMinio = "minio"
)

// Duration is a time.Duration that unmarshals from strings like "10m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Storage selects the backend holding the feature database.
type Storage struct {
	Kind      string `yaml:"kind"`
	Root      string `yaml:"root,omitempty"`
	Bucket    string `yaml:"bucket,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	AccessKey string `yaml:"accessKey,omitempty"`
	SecretKey string `yaml:"secretKey,omitempty"`
	Secure    bool   `yaml:"secure,omitempty"`
	Region    string `yaml:"region,omitempty"`
}

// Config is the top-level CLI configuration.
type Config struct {
	Database     string   `yaml:"database"`
	Codec        string   `yaml:"codec"`
	ExpiryWindow Duration `yaml:"expiryWindow"`
	Workers      int      `yaml:"workers"`
	IOLimit      int64    `yaml:"ioLimit"`
	MaxPixels    int64    `yaml:"maxPixels"`
	Patterns     []string `yaml:"patterns"`
	Bins         int      `yaml:"bins"`
	LogLevel     string   `yaml:"logLevel"`
	Storage      Storage  `yaml:"storage"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Database:     "features.json",
		Codec:        "go-json",
		ExpiryWindow: Duration(10 * time.Minute),
		Bins:         feature.DefaultBins,
		LogLevel:     "info",
		Storage: Storage{
			Kind: StorageLocal,
			Root: ".",
		},
	}
}

// Load reads path and overlays it on Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse overlays YAML data on Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	cfg.Storage.expandEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	if c.Database == "" {
		errs = append(errs, errors.New("database must not be empty"))
	}
	if _, ok := codec.ByName(c.Codec); !ok {
		errs = append(errs, fmt.Errorf("unknown codec %q", c.Codec))
	}
	if c.ExpiryWindow < 0 {
		errs = append(errs, errors.New("expiryWindow must not be negative"))
	}
	if c.Workers < 0 {
		errs = append(errs, errors.New("workers must not be negative"))
	}
	if c.IOLimit < 0 {
		errs = append(errs, errors.New("ioLimit must not be negative"))
	}
	if c.Bins < 1 || c.Bins > 256 {
		errs = append(errs, fmt.Errorf("bins must be between 1 and 256, got %d", c.Bins))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	switch c.Storage.Kind {
	case "", StorageLocal:
	case StorageS3:
		if c.Storage.Bucket == "" {
			errs = append(errs, errors.New("storage.bucket is required for s3"))
		}
	case StorageMinio:
		if c.Storage.Bucket == "" || c.Storage.Endpoint == "" {
			errs = append(errs, errors.New("storage.bucket and storage.endpoint are required for minio"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage kind %q", c.Storage.Kind))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("logLevel: %w", err)
	}
	return l, nil
}

// Window returns ExpiryWindow as a time.Duration.
func (c *Config) Window() time.Duration {
	return time.Duration(c.ExpiryWindow)
}

func (s *Storage) expandEnv() {
	for _, f := range []*string{&s.Root, &s.Bucket, &s.Prefix, &s.Endpoint, &s.AccessKey, &s.SecretKey, &s.Region} {
		*f = os.ExpandEnv(*f)
	}
}
