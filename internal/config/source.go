package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// source resolves flat keys from an optional YAML file overlaid by the
// environment. Keys from both layers are lowercased, so APP_HTTP_ADDR and
// app_http_addr are the same setting in either place.
type source struct {
	k *koanf.Koanf
}

func newSource() (*source, error) {
	k := koanf.New(".")

	if path := strings.TrimSpace(os.Getenv("APP_CONFIG_FILE")); path != "" {
		fileKeys := koanf.New(".")
		if err := fileKeys.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load APP_CONFIG_FILE %q: %w", path, err)
		}
		for key, value := range fileKeys.All() {
			if err := k.Set(strings.ToLower(key), value); err != nil {
				return nil, fmt.Errorf("load APP_CONFIG_FILE key %s: %w", key, err)
			}
		}
	}

	envProvider := env.Provider("", ".", strings.ToLower)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	return &source{k: k}, nil
}

func (s *source) get(key, fallback string) string {
	value := s.k.String(strings.ToLower(key))
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func (s *source) getInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(s.get(key, ""))
	if value == "" {
		return fallback, nil
	}
	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func (s *source) getBool(key string, fallback bool) (bool, error) {
	value := strings.TrimSpace(s.get(key, ""))
	if value == "" {
		return fallback, nil
	}
	out, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

// getDuration rejects non-positive values.
func (s *source) getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(s.get(key, ""))
	if value == "" {
		return fallback, nil
	}
	out, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}
