package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the fields almacen needs to reach its collaborators.
type Config struct {
	ServerURL   string
	AuthURL     string
	AuthAnonKey string
	SessionPath string
}

const (
	defaultConfigPath  = "~/.config/almacen/config.toml"
	defaultSessionPath = "~/.config/almacen/session.json"
	defaultServerURL   = "http://127.0.0.1:8000"
)

// Load locates and parses the almacen config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{ServerURL: defaultServerURL, SessionPath: defaultSessionPath}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.SessionPath = mustExpand(cfg.SessionPath)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		ServerURL   string `toml:"server_url"`
		AuthURL     string `toml:"auth_url"`
		AuthAnonKey string `toml:"auth_anon_key"`
		SessionPath string `toml:"session_path"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.ServerURL = strings.TrimSpace(raw.ServerURL)
	if cfg.ServerURL == "" {
		cfg.ServerURL = defaultServerURL
	}

	cfg.AuthURL = strings.TrimSpace(raw.AuthURL)
	cfg.AuthAnonKey = strings.TrimSpace(raw.AuthAnonKey)

	cfg.SessionPath = strings.TrimSpace(raw.SessionPath)
	if cfg.SessionPath == "" {
		cfg.SessionPath = defaultSessionPath
	}
	cfg.SessionPath = mustExpand(cfg.SessionPath)

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
