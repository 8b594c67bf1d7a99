package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

type GlobalConfig struct {
	// ServerURL is the base URL clients talk to (e.g. http://127.0.0.1:3336).
	ServerURL string `json:"serverUrl,omitempty"`

	// Addr is the default bind address for `daylist serve`.
	Addr string `json:"addr,omitempty"`

	// Dir overrides the data directory used by `daylist serve`.
	Dir string `json:"dir,omitempty"`

	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// HideLow starts the TUI with low-priority tasks filtered out.
	HideLow bool `json:"hideLow,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.daylist).
	if v := strings.TrimSpace(os.Getenv("DAYLIST_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".daylist"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	// Previous contents go to config.json.bak.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, "config.json.bak.*.tmp", path+".bak", prev, 0o644)
	}

	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

var configSetters = map[string]func(cfg *GlobalConfig, v string) error{
	"serverUrl": func(cfg *GlobalConfig, v string) error {
		cfg.ServerURL = strings.TrimRight(strings.TrimSpace(v), "/")
		return nil
	},
	"addr": func(cfg *GlobalConfig, v string) error {
		cfg.Addr = strings.TrimSpace(v)
		return nil
	},
	"dir": func(cfg *GlobalConfig, v string) error {
		cfg.Dir = strings.TrimSpace(v)
		return nil
	},
	"tui.hideLow": func(cfg *GlobalConfig, v string) error {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("tui.hideLow: %w", err)
		}
		if cfg.TUI == nil {
			cfg.TUI = &TUIConfig{}
		}
		cfg.TUI.HideLow = b
		return nil
	},
}

// ConfigKeys lists the keys accepted by SetConfigValue.
func ConfigKeys() []string {
	out := make([]string, 0, len(configSetters))
	for k := range configSetters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// SetConfigValue updates one key of cfg in memory.
func SetConfigValue(cfg *GlobalConfig, key, value string) error {
	set, ok := configSetters[strings.TrimSpace(key)]
	if !ok {
		return fmt.Errorf("unknown config key %q (expected one of: %s)", key, strings.Join(ConfigKeys(), ", "))
	}
	return set(cfg, value)
}
