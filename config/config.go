// Package config loads finreport configuration from an optional YAML file,
// an optional .env file, and the process environment. Environment variables
// win over file values so deployments can be configured without editing
// anything on disk.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level finreport configuration.
type Config struct {
	Portal  PortalConfig  `yaml:"portal"`
	Browser BrowserConfig `yaml:"browser"`
	OpenAI  OpenAIConfig  `yaml:"openai"`
	Output  OutputConfig  `yaml:"output"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Log     LogConfig     `yaml:"log"`
}

// PortalConfig holds portal credentials and page URLs.
type PortalConfig struct {
	Username          string        `yaml:"username"`
	Password          string        `yaml:"password"`
	LoginURL          string        `yaml:"login_url"`
	IncomeStatementURL string       `yaml:"income_statement_url"`
	BalanceSheetURL   string        `yaml:"balance_sheet_url"`
	Timeout           time.Duration `yaml:"timeout"`
}

// BrowserConfig controls Chrome lifecycle.
type BrowserConfig struct {
	Headless bool   `yaml:"headless"`
	Remote   string `yaml:"remote"` // WebSocket URL of an external Chrome; empty = launch local
}

// OpenAIConfig configures the summary model.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// OutputConfig holds artifact directories.
type OutputConfig struct {
	SnapshotDir string `yaml:"snapshot_dir"`
	SummaryDir  string `yaml:"summary_dir"`
	IndexDB     string `yaml:"index_db"`
}

// ViewerConfig configures the report viewer server.
type ViewerConfig struct {
	Addr string `yaml:"addr"`
	// PasswordHash is a bcrypt hash enabling Basic Auth when non-empty.
	PasswordHash string `yaml:"password_hash"`
	User         string `yaml:"user"`
}

// LogConfig controls slog output.
type LogConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
}

// Load reads the YAML file at path (skipped when path is empty or missing),
// overlays a .env file when one exists next to the working directory, then
// overlays process environment variables, and applies defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// Optional file.
		default:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	// .env values become environment variables without clobbering real ones.
	_ = godotenv.Load()

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Portal.Username, "PROP_VIVO_USERNAME")
	setString(&c.Portal.Password, "PROP_VIVO_PASSWORD")
	setString(&c.Portal.LoginURL, "LOGIN_URL")
	setString(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&c.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setString(&c.OpenAI.Model, "OPENAI_MODEL")
	setString(&c.Output.SnapshotDir, "SNAPSHOT_DIR")
	setString(&c.Output.SummaryDir, "SUMMARY_DIR")
	setString(&c.Output.IndexDB, "INDEX_DB")
	setString(&c.Viewer.Addr, "VIEWER_ADDR")
	setString(&c.Viewer.User, "VIEWER_USER")
	setString(&c.Viewer.PasswordHash, "VIEWER_PASSWORD_HASH")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Browser.Remote, "BROWSER_REMOTE")

	if v, ok := os.LookupEnv("HEADLESS"); ok {
		c.Browser.Headless = ParseBool(v, c.Browser.Headless)
	}
}

func (c *Config) applyDefaults() {
	if c.Portal.LoginURL == "" {
		c.Portal.LoginURL = "https://login.propvivo.com/login"
	}
	if c.Portal.IncomeStatementURL == "" {
		c.Portal.IncomeStatementURL = "https://vuecrest.propvivo.com/Financials/IncomeStatement"
	}
	if c.Portal.BalanceSheetURL == "" {
		c.Portal.BalanceSheetURL = "https://vuecrest.propvivo.com/Financials/BalanceSheet"
	}
	if c.Portal.Timeout <= 0 {
		c.Portal.Timeout = 15 * time.Second
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://api.openai.com"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4.1-mini"
	}
	if c.Output.SnapshotDir == "" {
		c.Output.SnapshotDir = "data/html"
	}
	if c.Output.SummaryDir == "" {
		c.Output.SummaryDir = "data/summaries"
	}
	if c.Output.IndexDB == "" {
		c.Output.IndexDB = "data/index.db"
	}
	if c.Viewer.Addr == "" {
		c.Viewer.Addr = ":8080"
	}
	if c.Viewer.User == "" {
		c.Viewer.User = "viewer"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Credentials returns the portal username and password, failing when either
// is missing.
func (c *Config) Credentials() (string, string, error) {
	if c.Portal.Username == "" || c.Portal.Password == "" {
		return "", "", fmt.Errorf("config: missing credentials: set PROP_VIVO_USERNAME and PROP_VIVO_PASSWORD")
	}
	return c.Portal.Username, c.Portal.Password, nil
}

// ParseBool interprets common truthy strings, falling back to def for
// anything unrecognized.
func ParseBool(raw string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
