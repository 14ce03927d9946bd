// Package config loads server settings from flags and RECEIPT_PROCESSOR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/damon-houk/receipt-processor/internal/infrastructure/logger"
	"github.com/peterbourgon/ff/v4"
)

// EnvVarPrefix is prepended to every flag name when reading the environment
const EnvVarPrefix = "RECEIPT_PROCESSOR"

const (
	StoreMemory = "memory"
	StoreBadger = "badger"
)

// Config holds everything the server needs at startup
type Config struct {
	Host            string
	Port            int
	LogLevel        logger.Level
	LogFormat       string
	Store           string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	DisableMetrics  bool
}

// NewFlagSet declares the server flags and binds them to cfg
func NewFlagSet(cfg *Config, logLevel *string) *ff.FlagSet {
	fs := ff.NewFlagSet("receipt-processor")
	fs.StringVar(&cfg.Host, 0, "host", "0.0.0.0", "interface to listen on")
	fs.IntVar(&cfg.Port, 0, "port", 8080, "HTTP server port (0 picks a free port)")
	fs.StringVar(logLevel, 0, "log-level", "info", "debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, 0, "log-format", "json", "json or text")
	fs.StringVar(&cfg.Store, 0, "store", StoreMemory, "receipt store: memory or badger")
	fs.DurationVar(&cfg.ReadTimeout, 0, "read-timeout", 10*time.Second, "HTTP read timeout")
	fs.DurationVar(&cfg.WriteTimeout, 0, "write-timeout", 15*time.Second, "HTTP write timeout")
	fs.DurationVar(&cfg.IdleTimeout, 0, "idle-timeout", 60*time.Second, "HTTP keep-alive idle timeout")
	fs.DurationVar(&cfg.ShutdownTimeout, 0, "shutdown-timeout", 10*time.Second, "grace period for in-flight requests on shutdown")
	fs.BoolVar(&cfg.DisableMetrics, 0, "disable-metrics", "do not register or serve /metrics")
	return fs
}

// Load parses args, falling back to the environment and then to defaults.
// A request for help is returned as ff.ErrHelp along with the flag set so
// the caller can print usage.
func Load(args []string) (Config, *ff.FlagSet, error) {
	var (
		cfg      Config
		logLevel string
	)

	fs := NewFlagSet(&cfg, &logLevel)
	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix(EnvVarPrefix)); err != nil {
		return Config{}, fs, err
	}

	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return Config{}, fs, err
	}
	cfg.LogLevel = level

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.Store = strings.ToLower(cfg.Store)

	if err := cfg.Validate(); err != nil {
		return Config{}, fs, err
	}
	return cfg, fs, nil
}

// Validate reports every invalid setting at once
func (c Config) Validate() error {
	var errs []error

	// 0 asks the kernel for a free port
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}

	switch c.Store {
	case StoreMemory, StoreBadger:
	default:
		errs = append(errs, fmt.Errorf("unknown store %q", c.Store))
	}

	for name, d := range map[string]time.Duration{
		"read-timeout":     c.ReadTimeout,
		"write-timeout":    c.WriteTimeout,
		"idle-timeout":     c.IdleTimeout,
		"shutdown-timeout": c.ShutdownTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}

	return errors.Join(errs...)
}

// Addr is the listen address in host:port form
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
