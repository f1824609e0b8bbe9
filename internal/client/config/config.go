package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "REPORTS"
	DefaultEnvFile = ".env"

	KeyDBPath         = "db_path"
	KeyLogLevel       = "log_level"
	KeyLogFormat      = "log_format"
	KeyConnectTimeout = "connect_timeout"
	KeySocketTimeout  = "socket_timeout"
	KeyRequestTimeout = "request_timeout"
	KeyListenAddr     = "listen_addr"
	KeyEndpoint       = "endpoint"
	KeySecretKey      = "secret_key"
)

// Config holds runtime settings for the viewer.
//
// Units: the timeouts are time.Duration values; files and environment
// accept strings like "30s".
type Config struct {
	DatabasePath   string        `mapstructure:"db_path"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFormat      string        `mapstructure:"log_format"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	SocketTimeout  time.Duration `mapstructure:"socket_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	ListenAddr     string        `mapstructure:"listen_addr"`
	Endpoint       string        `mapstructure:"endpoint"`
	SecretKey      string        `mapstructure:"secret_key"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = DefaultDatabasePath()
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.ConnectTimeout = 30 * time.Second
	c.SocketTimeout = 30 * time.Second
	c.RequestTimeout = 60 * time.Second
	c.ListenAddr = "127.0.0.1:8080"
	c.Endpoint = ""
	c.SecretKey = ""
}

// DefaultDatabasePath is $HOME/.reportsviewer/settings.db, or a file in the
// working directory when no home directory is known.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "reportsviewer.db"
	}
	return filepath.Join(home, ".reportsviewer", "settings.db")
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"db":              KeyDBPath,
	"log-level":       KeyLogLevel,
	"log-format":      KeyLogFormat,
	"connect-timeout": KeyConnectTimeout,
	"socket-timeout":  KeySocketTimeout,
	"request-timeout": KeyRequestTimeout,
}

// RegisterFlags adds the global configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.String("config", "", "path to a config file (yaml, json or toml)")
	fs.String("env-file", DefaultEnvFile, "dotenv file loaded before reading the environment")
	fs.String("db", d.DatabasePath, "path to the settings database")
	fs.String("log-level", d.LogLevel, "log level: debug, info, warn, error")
	fs.String("log-format", d.LogFormat, "log format: text or json")
	fs.Duration("connect-timeout", d.ConnectTimeout, "backend connect timeout")
	fs.Duration("socket-timeout", d.SocketTimeout, "backend read timeout")
	fs.Duration("request-timeout", d.RequestTimeout, "backend request timeout")
}

// Load builds a Config from defaults, the dotenv file, the config file, the
// environment and the flags in fs, in that order of increasing precedence.
// fs may be nil; flags it lacks are skipped.
func Load(v *viper.Viper, fs *pflag.FlagSet) (*Config, error) {
	var d Config
	d.LoadDefaults()

	v.SetDefault(KeyDBPath, d.DatabasePath)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyLogFormat, d.LogFormat)
	v.SetDefault(KeyConnectTimeout, d.ConnectTimeout)
	v.SetDefault(KeySocketTimeout, d.SocketTimeout)
	v.SetDefault(KeyRequestTimeout, d.RequestTimeout)
	v.SetDefault(KeyListenAddr, d.ListenAddr)
	v.SetDefault(KeyEndpoint, d.Endpoint)
	v.SetDefault(KeySecretKey, d.SecretKey)

	envFile := DefaultEnvFile
	configFile := ""
	if fs != nil {
		if f := fs.Lookup("env-file"); f != nil {
			envFile = f.Value.String()
		}
		if f := fs.Lookup("config"); f != nil {
			configFile = f.Value.String()
		}
	}

	if err := loadDotenv(envFile); err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			f := fs.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Validate rejects values the rest of the program cannot work with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabasePath) == "" {
		return errors.New("db_path must not be empty")
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	for name, d := range map[string]time.Duration{
		KeyConnectTimeout: c.ConnectTimeout,
		KeySocketTimeout:  c.SocketTimeout,
		KeyRequestTimeout: c.RequestTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	return nil
}
