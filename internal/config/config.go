package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const EnvConfigFile = "CARAVELA_CONFIG"

type Config struct {
	// Storefront origin, e.g. https://lacaravela.ma
	BaseURL string `yaml:"base_url"`
	// Mount point of the AJAX product endpoints.
	APIBase  string `yaml:"api_base"`
	Currency string `yaml:"currency"`

	Timeout time.Duration `yaml:"-"`
	// TimeoutRaw is the YAML form of Timeout ("10s").
	TimeoutRaw string `yaml:"timeout"`

	// CSRFToken overrides the csrftoken cookie when set.
	CSRFToken string `yaml:"csrf_token"`

	DraftsPath string `yaml:"drafts_path"`
	LogFile    string `yaml:"log_file"`
	LogLevel   string `yaml:"log_level"`
}

func Default() Config {
	return Config{
		BaseURL:    "http://localhost:8000",
		APIBase:    "/products/ajax/",
		Currency:   "MAD",
		Timeout:    10 * time.Second,
		TimeoutRaw: "10s",
		DraftsPath: defaultDraftsPath(),
		LogFile:    "",
		LogLevel:   "info",
	}
}

// Load builds the configuration from defaults, then the YAML file at path (or
// $CARAVELA_CONFIG when path is empty), then environment variables. A missing
// file named only by the environment is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = strings.TrimSpace(os.Getenv(EnvConfigFile))
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.BaseURL = getenv("CARAVELA_BASE_URL", c.BaseURL)
	c.APIBase = getenv("CARAVELA_API_BASE", c.APIBase)
	c.Currency = getenv("CARAVELA_CURRENCY", c.Currency)
	c.TimeoutRaw = getenv("CARAVELA_TIMEOUT", c.TimeoutRaw)
	c.CSRFToken = getenv("CARAVELA_CSRF_TOKEN", c.CSRFToken)
	c.DraftsPath = getenv("CARAVELA_DRAFTS_PATH", c.DraftsPath)
	c.LogFile = getenv("CARAVELA_LOG_FILE", c.LogFile)
	c.LogLevel = getenv("CARAVELA_LOG_LEVEL", c.LogLevel)
}

func (c *Config) normalize() error {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base_url %q: want http(s)://host", c.BaseURL)
	}

	c.APIBase = strings.TrimSpace(c.APIBase)
	if c.APIBase == "" {
		c.APIBase = "/products/ajax/"
	}
	if !strings.HasPrefix(c.APIBase, "/") {
		c.APIBase = "/" + c.APIBase
	}
	if !strings.HasSuffix(c.APIBase, "/") {
		c.APIBase += "/"
	}

	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	if c.Currency == "" {
		c.Currency = "MAD"
	}

	c.Timeout = parseDuration(c.TimeoutRaw, 10*time.Second)
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
		c.LogLevel = strings.ToLower(c.LogLevel)
	default:
		c.LogLevel = "info"
	}
	return nil
}

func defaultDraftsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "caravela-drafts.db"
	}
	return filepath.Join(dir, "caravela", "drafts.db")
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return d
}
