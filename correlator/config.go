package correlator

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimeoutSeconds = 30
	defaultJobNamespace   = "default"
)

// Config is the process-wide emitter configuration. It is resolved once at
// startup and read-only afterwards.
type Config struct {
	// Endpoint is the collector URL events are POSTed to. Required.
	Endpoint string `yaml:"endpoint"`

	// APIKey, when set, is sent as the X-API-Key header.
	APIKey string `yaml:"api_key"`

	// EmitMode gates emission per run. Default: all.
	EmitMode EmitMode `yaml:"emit_mode"`

	// JobNamespace is the OpenLineage job namespace for every event.
	JobNamespace string `yaml:"job_namespace"`

	// TimeoutSeconds bounds the single delivery attempt. Default: 30.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

func (c Config) Validate() error {
	endpoint := strings.TrimSpace(c.Endpoint)
	if endpoint == "" {
		return errors.New("endpoint is required")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("endpoint malformed: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint must be an http(s) URL, got %q", endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint must be an absolute URL, got %q", endpoint)
	}
	if err := c.EmitMode.Validate(); err != nil {
		return err
	}
	if c.TimeoutSeconds < 1 {
		return fmt.Errorf("timeout_seconds must be >= 1, got %d", c.TimeoutSeconds)
	}
	return nil
}

// withDefaults returns a copy with defaults applied to unset fields.
func (c Config) withDefaults() Config {
	out := c
	out.Endpoint = strings.TrimSpace(out.Endpoint)
	out.APIKey = strings.TrimSpace(out.APIKey)
	if out.EmitMode == "" {
		out.EmitMode = EmitAll
	}
	if strings.TrimSpace(out.JobNamespace) == "" {
		out.JobNamespace = defaultJobNamespace
	}
	if out.TimeoutSeconds == 0 {
		out.TimeoutSeconds = defaultTimeoutSeconds
	}
	return out
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Redacted returns a copy safe for printing: the credential is masked.
func (c Config) Redacted() Config {
	out := c
	if out.APIKey != "" {
		out.APIKey = "REDACTED"
	}
	return out
}

// overlay returns c with every set field of over replacing its own.
func (c Config) overlay(over Config) Config {
	out := c
	if strings.TrimSpace(over.Endpoint) != "" {
		out.Endpoint = over.Endpoint
	}
	if strings.TrimSpace(over.APIKey) != "" {
		out.APIKey = over.APIKey
	}
	if over.EmitMode != "" {
		out.EmitMode = over.EmitMode
	}
	if strings.TrimSpace(over.JobNamespace) != "" {
		out.JobNamespace = over.JobNamespace
	}
	if over.TimeoutSeconds != 0 {
		out.TimeoutSeconds = over.TimeoutSeconds
	}
	return out
}

// ConfigFromEnv reads the CORRELATOR_* environment variables. Unset
// variables leave fields at their zero value.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		Endpoint:     os.Getenv("CORRELATOR_ENDPOINT"),
		APIKey:       os.Getenv("CORRELATOR_API_KEY"),
		EmitMode:     EmitMode(strings.TrimSpace(os.Getenv("CORRELATOR_EMIT_MODE"))),
		JobNamespace: os.Getenv("CORRELATOR_JOB_NAMESPACE"),
	}
	if v, ok := os.LookupEnv("CORRELATOR_TIMEOUT_SECONDS"); ok {
		seconds, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return Config{}, fmt.Errorf("parse CORRELATOR_TIMEOUT_SECONDS: %w", err)
		}
		cfg.TimeoutSeconds = seconds
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML configuration file. Unknown keys are
// rejected.
func LoadConfigFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// ResolveConfig builds the effective configuration: file values (when a
// path is given), overridden by environment, with defaults filling the
// rest. The result is validated.
func ResolveConfig(path string) (Config, error) {
	var cfg Config
	if strings.TrimSpace(path) != "" {
		fileCfg, err := LoadConfigFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = fileCfg
	}
	envCfg, err := ConfigFromEnv()
	if err != nil {
		return Config{}, err
	}
	cfg = cfg.overlay(envCfg).withDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
