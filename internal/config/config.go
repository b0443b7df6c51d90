// Package config loads settings from an optional YAML file, TADA_* environment
// variables and defaults, in increasing order of precedence: defaults, file,
// environment. CLI flags are layered on top by the cli package.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "TADA"
)

// Config keys.
const (
	KeyServerAddr    = "server.addr"
	KeyServerToken   = "server.token"
	KeyStoreBackend  = "store.backend"
	KeyStorePath     = "store.path"
	KeyClientURL     = "client.url"
	KeyClientTimeout = "client.timeout"
	KeyLogLevel      = "log.level"
	KeyLogFile       = "log.file"
	KeyUITheme       = "ui.theme"
)

// DefaultYAML documents every key; `tada config init` writes it.
const DefaultYAML = `# tada configuration

server:
  addr: ":3000"
  # token: ""          # require "Authorization: Bearer <token>" when set

store:
  backend: sqlite      # sqlite | json
  path: tada.db

client:
  url: http://localhost:3000
  timeout: 10s

log:
  level: info          # debug | info | warn | error
  # file: ""           # the TUI only logs when this is set

ui:
  theme: classic       # classic | neon | mono
`

type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Client ClientConfig
	Log    LogConfig
	UI     UIConfig
}

type ServerConfig struct {
	Addr  string
	Token string
}

type StoreConfig struct {
	Backend string
	Path    string
}

type ClientConfig struct {
	URL     string
	Timeout time.Duration
}

type LogConfig struct {
	Level string
	File  string
}

type UIConfig struct {
	Theme string
}

// New returns a viper instance with defaults and env bindings but no file.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyServerAddr, ":3000")
	v.SetDefault(KeyServerToken, "")
	v.SetDefault(KeyStoreBackend, "sqlite")
	v.SetDefault(KeyStorePath, "tada.db")
	v.SetDefault(KeyClientURL, "http://localhost:3000")
	v.SetDefault(KeyClientTimeout, 10*time.Second)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyUITheme, "classic")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// DefaultDir is ~/.tada, shared with the credentials file.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".tada"), nil
}

// Load reads file if given, otherwise config.yaml from DefaultDir.
// A missing default file is not an error; a missing explicit file is.
func Load(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		dir, err := DefaultDir()
		if err != nil {
			return err
		}
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// From snapshots v into a Config.
func From(v *viper.Viper) Config {
	return Config{
		Server: ServerConfig{
			Addr:  v.GetString(KeyServerAddr),
			Token: v.GetString(KeyServerToken),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(v.GetString(KeyStoreBackend)),
			Path:    v.GetString(KeyStorePath),
		},
		Client: ClientConfig{
			URL:     strings.TrimRight(v.GetString(KeyClientURL), "/"),
			Timeout: v.GetDuration(KeyClientTimeout),
		},
		Log: LogConfig{
			Level: v.GetString(KeyLogLevel),
			File:  v.GetString(KeyLogFile),
		},
		UI: UIConfig{
			Theme: v.GetString(KeyUITheme),
		},
	}
}

// WriteDefault writes DefaultYAML to path unless a file already exists there.
func WriteDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(path, []byte(DefaultYAML), 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}
