package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort        = 3000
	DefaultEnvironment = "development"
	DefaultPathData    = "./data"
	DefaultPathPublic  = "./www/public"
	DefaultServiceName = "studiod"
)

type MetaConfig struct {
	Version      string `json:"-" yaml:"-"`
	ServiceName  string `json:"service" yaml:"service"`
	Port         int    `json:"port" yaml:"port"`
	ListenAddr   string `json:"listen" yaml:"listen"` // overrides Port when set
	Environment  string `json:"environment" yaml:"environment"`
	LogLevel     string `json:"loglevel" yaml:"loglevel"`
	PathPublic   string `json:"publicdir" yaml:"publicdir"`
	PathData     string `json:"datadir" yaml:"datadir"`
	MetricsAddr  string `json:"metrics" yaml:"metrics"`       // empty disables the metrics listener
	ContactEmail string `json:"contact" yaml:"contact"`       // where submissions would be mailed
	TrustProxy   bool   `json:"trustproxy" yaml:"trustproxy"` // take client ip from X-Forwarded-For
}

// Config is built once at startup and handed to system.New.
type Config struct {
	Meta           MetaConfig `json:"Meta" yaml:"Meta"`
	ConfigFilePath string     `json:"-" yaml:"-"` // empty if no file was used
}

// Environments accepted by CheckConfig. Only development echoes error details.
var Environments = []string{"development", "test", "staging", "production"}

// Default returns a Config populated with built-in defaults.
func Default() *Config {
	return &Config{
		Meta: MetaConfig{
			ServiceName: DefaultServiceName,
			Port:        DefaultPort,
			Environment: DefaultEnvironment,
			LogLevel:    "info",
			PathPublic:  DefaultPathPublic,
			PathData:    DefaultPathData,
		},
	}
}

// Load reads defaults, then the optional config file at path, then the environment.
// Files ending in .yaml or .yml are decoded as YAML, anything else as JSON.
func Load(path string) (*Config, error) {
	config := Default()
	if path != "" {
		if err := config.readFile(path); err != nil {
			return nil, err
		}
	}
	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) readFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error opening config file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, c)
	default:
		err = json.Unmarshal(b, c)
	}
	if err != nil {
		return fmt.Errorf("error decoding config %q: %w", path, err)
	}
	c.ConfigFilePath = path
	return nil
}

// applyEnv overrides file values with $PORT, $NODE_ENV and friends.
func (c *Config) applyEnv() error {
	if port := os.Getenv("PORT"); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n < 0 || n > 65535 {
			return fmt.Errorf("invalid $PORT %q", port)
		}
		c.Meta.Port = n
		c.Meta.ListenAddr = ""
	}
	if env := os.Getenv("NODE_ENV"); env != "" {
		c.Meta.Environment = env
	}
	if dir := os.Getenv("DATA_DIR"); dir != "" {
		c.Meta.PathData = dir
	}
	if dir := os.Getenv("PUBLIC_DIR"); dir != "" {
		c.Meta.PathPublic = dir
	}
	if addr := os.Getenv("METRICS_ADDR"); addr != "" {
		c.Meta.MetricsAddr = addr
	}
	if email := os.Getenv("CONTACT_EMAIL"); email != "" {
		c.Meta.ContactEmail = email
	}
	if v := os.Getenv("TRUST_PROXY"); v != "" {
		trust, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid $TRUST_PROXY %q", v)
		}
		c.Meta.TrustProxy = trust
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Meta.LogLevel = level
	}
	return nil
}

// DevelopmentMode reports whether error details may be echoed to clients.
func (c *Config) DevelopmentMode() bool {
	return c.Meta.Environment == "development"
}

// Addr is the address the public listener binds.
func (c *Config) Addr() string {
	if c.Meta.ListenAddr != "" {
		return c.Meta.ListenAddr
	}
	return ":" + strconv.Itoa(c.Meta.Port)
}

// CheckConfig fills in missing values and resolves relative paths against the
// config file's directory, or the working directory when no file was used.
func CheckConfig(config *Config) error {
	if config.Meta.Version == "" {
		config.Meta.Version = "dev"
	}
	if config.Meta.ServiceName == "" {
		config.Meta.ServiceName = DefaultServiceName
	}
	if config.Meta.Environment == "" {
		config.Meta.Environment = DefaultEnvironment
	}
	if !knownEnvironment(config.Meta.Environment) {
		return fmt.Errorf("unknown environment %q, want one of %s", config.Meta.Environment, strings.Join(Environments, ", "))
	}
	if config.Meta.PathPublic == "" {
		config.Meta.PathPublic = DefaultPathPublic
	}
	if config.Meta.PathData == "" {
		config.Meta.PathData = DefaultPathData
	}
	if config.Meta.ListenAddr == "" && (config.Meta.Port < 0 || config.Meta.Port > 65535) {
		return fmt.Errorf("config needs a valid Meta.port, got %d", config.Meta.Port)
	}

	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	if config.ConfigFilePath != "" {
		dir, err = filepath.Abs(filepath.Dir(config.ConfigFilePath))
		if err != nil {
			return fmt.Errorf("error %v", err)
		}
	}
	if !filepath.IsAbs(config.Meta.PathPublic) {
		config.Meta.PathPublic = filepath.Join(dir, config.Meta.PathPublic)
	}
	if !filepath.IsAbs(config.Meta.PathData) {
		config.Meta.PathData = filepath.Join(dir, config.Meta.PathData)
	}

	// the data dir is created by the store, the public dir must already exist
	if s, err := os.Stat(config.Meta.PathPublic); err != nil || !s.IsDir() {
		if err != nil {
			return fmt.Errorf("no public web assets found at %q: %w", config.Meta.PathPublic, err)
		}
		return fmt.Errorf("is not a dir: %v", config.Meta.PathPublic)
	}
	return nil
}

func knownEnvironment(env string) bool {
	for _, e := range Environments {
		if env == e {
			return true
		}
	}
	return false
}
