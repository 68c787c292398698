// Package config resolves explorer settings from flags, the environment, an
// optional .env file and an optional hindsight.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Keys understood in hindsight.yaml and as HINDSIGHT_<KEY> variables.
const (
	KeyAPIURL          = "api_url"
	KeyAPIKey          = "api_key"
	KeyRefreshInterval = "refresh_interval"
	KeyAutoRefresh     = "auto_refresh"
	KeyPollInterval    = "poll_interval"
	KeyRequestTimeout  = "request_timeout"
	KeyLogFile         = "log_file"
	KeyLogLevel        = "log_level"
	KeyAltScreen       = "alt_screen"
)

const (
	EnvPrefix  = "HINDSIGHT"
	ConfigName = "hindsight"

	DefaultAPIURL          = "http://localhost:8888"
	DefaultRefreshInterval = 5 * time.Second
	DefaultPollInterval    = 100 * time.Millisecond
	DefaultRequestTimeout  = 30 * time.Second
	DefaultLogLevel        = "info"
)

// flags maps each bound key to its command line name.
var flags = map[string]string{
	KeyAPIURL:          "api-url",
	KeyAPIKey:          "api-key",
	KeyRefreshInterval: "refresh-interval",
	KeyPollInterval:    "poll-interval",
	KeyRequestTimeout:  "request-timeout",
	KeyLogFile:         "log-file",
	KeyLogLevel:        "log-level",
}

// Config is the resolved explorer configuration.
type Config struct {
	APIURL          string
	APIKey          string
	RefreshInterval time.Duration
	AutoRefresh     bool
	PollInterval    time.Duration
	RequestTimeout  time.Duration
	LogFile         string
	LogLevel        string
	AltScreen       bool
	// File is the config file that was read, empty when none was found.
	File string
}

// Sources says where Load looks besides flags and the process environment.
type Sources struct {
	// ConfigFile, when set, must exist and replaces the directory search.
	ConfigFile string
	ConfigDirs []string
	// EnvFile is loaded into the environment when it exists. Variables that
	// are already set win.
	EnvFile string
}

// DefaultSources searches ./ and ~/.hindsight for hindsight.yaml and reads ./.env.
func DefaultSources() Sources {
	dirs := []string{"./"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".hindsight"))
	}
	return Sources{ConfigDirs: dirs, EnvFile: ".env"}
}

// RegisterFlags adds the explorer flags to set.
func RegisterFlags(set *pflag.FlagSet) {
	set.String(flags[KeyAPIURL], DefaultAPIURL, "memory service address")
	set.String(flags[KeyAPIKey], "", "API key sent as a bearer token")
	set.Duration(flags[KeyRefreshInterval], DefaultRefreshInterval, "auto-refresh interval for list views")
	set.Duration(flags[KeyPollInterval], DefaultPollInterval, "how often the event loop checks for due refreshes")
	set.Duration(flags[KeyRequestTimeout], DefaultRequestTimeout, "per-request timeout")
	set.String(flags[KeyLogFile], defaultLogFile(), "log file path (empty disables logging)")
	set.String(flags[KeyLogLevel], DefaultLogLevel, "log level: debug, info, warn or error")
	set.Bool("no-auto-refresh", false, "start with auto-refresh disabled")
	set.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	set.String("config", "", "explicit config file path")
}

// Load resolves the configuration. Precedence is flag, environment, config
// file, default. set may be nil.
func Load(set *pflag.FlagSet, src Sources) (Config, error) {
	if src.EnvFile != "" {
		if err := godotenv.Load(src.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file %s: %w", src.EnvFile, err)
		}
	}

	v := viper.New()
	v.SetDefault(KeyAPIURL, DefaultAPIURL)
	v.SetDefault(KeyAPIKey, "")
	v.SetDefault(KeyRefreshInterval, DefaultRefreshInterval)
	v.SetDefault(KeyAutoRefresh, true)
	v.SetDefault(KeyPollInterval, DefaultPollInterval)
	v.SetDefault(KeyRequestTimeout, DefaultRequestTimeout)
	v.SetDefault(KeyLogFile, defaultLogFile())
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyAltScreen, true)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if set != nil {
		if path, _ := set.GetString("config"); path != "" {
			src.ConfigFile = path
		}
		for key, name := range flags {
			if flag := set.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	file, err := readConfigFile(v, src)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIURL:          strings.TrimSpace(v.GetString(KeyAPIURL)),
		APIKey:          v.GetString(KeyAPIKey),
		RefreshInterval: v.GetDuration(KeyRefreshInterval),
		AutoRefresh:     v.GetBool(KeyAutoRefresh),
		PollInterval:    v.GetDuration(KeyPollInterval),
		RequestTimeout:  v.GetDuration(KeyRequestTimeout),
		LogFile:         v.GetString(KeyLogFile),
		LogLevel:        strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
		AltScreen:       v.GetBool(KeyAltScreen),
		File:            file,
	}
	if set != nil {
		if off, _ := set.GetBool("no-auto-refresh"); off {
			cfg.AutoRefresh = false
		}
		if off, _ := set.GetBool("no-alt-screen"); off {
			cfg.AltScreen = false
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readConfigFile(v *viper.Viper, src Sources) (string, error) {
	if src.ConfigFile != "" {
		v.SetConfigFile(src.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return "", fmt.Errorf("read config file %s: %w", src.ConfigFile, err)
		}
		return v.ConfigFileUsed(), nil
	}
	if len(src.ConfigDirs) == 0 {
		return "", nil
	}
	v.SetConfigName(ConfigName)
	for _, dir := range src.ConfigDirs {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("read config file: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("config: api_url is required")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("config: api_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("config: api_url must be http or https, got %q", c.APIURL)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("config: refresh_interval must be positive, got %s", c.RefreshInterval)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("config: poll_interval must be positive, got %s", c.PollInterval)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	return nil
}

func defaultLogFile() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "hindsight", "explore.log")
}
