package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"videodupes/internal/media"
	"videodupes/internal/scan"
	"videodupes/internal/trash"
)

const (
	envVarPrefix = "VIDEODUPES"
	appName      = "videodupes"
)

// Bytes is a byte count that decodes from humanized sizes like "100MB" or
// "4 GiB".
type Bytes uint64

// Decode implements envconfig.Decoder.
func (b *Bytes) Decode(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		*b = 0
		return nil
	}
	n, err := humanize.ParseBytes(value)
	if err != nil {
		return fmt.Errorf("parsing byte size `%s`: %w", value, err)
	}
	*b = Bytes(n)
	return nil
}

// UnmarshalYAML accepts either a plain integer or a humanized string.
func (b *Bytes) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var n uint64
	if err := unmarshal(&n); err == nil {
		*b = Bytes(n)
		return nil
	}
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return b.Decode(s)
}

func (b Bytes) String() string { return humanize.IBytes(uint64(b)) }

// Set and Type let Bytes back a command-line flag.
func (b *Bytes) Set(value string) error { return b.Decode(value) }

func (b *Bytes) Type() string { return "bytes" }

type Config struct {
	Workers         int      `split_words:"true" yaml:"workers"`
	WalkWorkers     int      `split_words:"true" yaml:"walkWorkers"`
	Extensions      []string `split_words:"true" yaml:"extensions"`
	MinSize         Bytes    `split_words:"true" yaml:"minSize"`
	MaxSize         Bytes    `split_words:"true" yaml:"maxSize"`
	VerifyThreshold Bytes    `split_words:"true" yaml:"verifyThreshold"`
	ExcludeHidden   bool     `split_words:"true" yaml:"excludeHidden"`
	ExcludeDirs     []string `split_words:"true" yaml:"excludeDirs"`
	TrashDir        string   `split_words:"true" yaml:"trashDir"`
	LogDir          string   `split_words:"true" yaml:"logDir"`
	LogLevel        string   `split_words:"true" yaml:"logLevel"`
}

// File is the config file Load reads: $VIDEODUPES_CONFIG_FILE, or
// ~/.config/videodupes.yaml.
func File() string {
	if f := os.Getenv(envVarPrefix + "_CONFIG_FILE"); f != "" {
		return f
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName+".yaml")
}

// Load reads the optional config file and overlays environment variables.
// A missing file is not an error.
func Load() (*Config, error) {
	var c Config
	if path := File(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err == nil {
			if err := yaml.UnmarshalStrict(data, &c); err != nil {
				return nil, fmt.Errorf("unmarshaling config file `%s`: %w", path, err)
			}
		}
	}

	if err := envconfig.Process(envVarPrefix, &c); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if y, e := func() (string, string) {
		if c.Workers < 0 {
			return "workers", "WORKERS"
		}
		if c.WalkWorkers < 0 {
			return "walkWorkers", "WALK_WORKERS"
		}
		return "", ""
	}(); y != "" {
		return fmt.Errorf(
			"invalid configuration: %s / %s_%s must not be negative",
			y,
			envVarPrefix,
			e,
		)
	}

	if c.MaxSize > 0 && c.MinSize > c.MaxSize {
		return fmt.Errorf(
			"invalid configuration: minSize (%s) exceeds maxSize (%s)",
			c.MinSize,
			c.MaxSize,
		)
	}
	if c.LogLevel != "" {
		if _, err := log.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("invalid configuration: logLevel: %w", err)
		}
	}
	return nil
}

// ScanOptions converts c into scan options. Zero values are left for scan to
// default. The trash directories are always excluded.
func (c *Config) ScanOptions() scan.Options {
	dirs := append([]string(nil), c.ExcludeDirs...)
	if c.TrashDir != "" {
		dirs = append(dirs, c.TrashDir)
	}
	if root, err := trash.DefaultRoot(); err == nil {
		dirs = append(dirs, root)
	}

	excluded := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if abs, err := filepath.Abs(dir); err == nil {
			excluded = append(excluded, abs)
		}
	}
	return scan.Options{
		Accept:          media.Matcher(c.Extensions),
		MaxWorkers:      c.Workers,
		WalkWorkers:     c.WalkWorkers,
		MinSize:         uint64(c.MinSize),
		MaxSize:         uint64(c.MaxSize),
		ExcludeHidden:   c.ExcludeHidden,
		ExcludeDirs:     excluded,
		VerifyThreshold: uint64(c.VerifyThreshold),
	}
}
