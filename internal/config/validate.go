package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"time"
)

// Validate checks configuration invariants and returns actionable errors,
// one per problem, joined.
func Validate(cfg *Config) error {
	if cfg == nil {
		return nil
	}

	var errs []error

	if cfg.Server.Listen != "" {
		if _, _, err := net.SplitHostPort(cfg.Server.Listen); err != nil {
			errs = append(errs, fmt.Errorf("server.listen: invalid address %q: %w", cfg.Server.Listen, err))
		}
	}
	errs = append(errs, validateDuration("server.poll_interval", cfg.Server.PollInterval)...)
	switch cfg.Server.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("server.log_level: unknown level %q (debug, info, warn, error)", cfg.Server.LogLevel))
	}

	if cfg.Client.URL != "" {
		if _, err := url.ParseRequestURI(cfg.Client.URL); err != nil {
			errs = append(errs, fmt.Errorf("client.url: invalid URL %q: %w", cfg.Client.URL, err))
		}
	}
	errs = append(errs, validateDuration("client.timeout", cfg.Client.Timeout)...)
	errs = append(errs, validateDuration("client.poll_interval", cfg.Client.PollInterval)...)

	for i, root := range cfg.Install.Roots {
		if _, err := filepath.Match(root, "probe"); err != nil {
			errs = append(errs, fmt.Errorf("install.roots[%d]: invalid glob %q: %w", i, root, err))
		}
	}

	return errors.Join(errs...)
}

func validateDuration(field, raw string) []error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return []error{fmt.Errorf("%s: invalid duration %q: %w", field, raw, err)}
	}
	if d <= 0 {
		return []error{fmt.Errorf("%s: must be > 0, got %q", field, raw)}
	}
	return nil
}
