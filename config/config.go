// Package config loads the settings that tell the test harness where the services under test are
// and which limits to check them against.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/EduardoSa-Tester/satellite-api-tests/servicedef"

	"gopkg.in/yaml.v3"
)

// Public endpoints used when no config file is given.
const (
	DefaultCatalogURL      = "https://celestrak.org/NORAD/elements/gp.php?GROUP=last-30-days&FORMAT=json"
	DefaultSpaceObjectsURL = "https://neuraspacedummyrsoapiappservicelinux-hyayfbdrg3gea6fd.westeurope-01.azurewebsites.net"
)

const (
	DefaultRecencyWindowDays   = 30
	DefaultRequestTimeout      = 30 * time.Second
	DefaultResponseTimeCeiling = 5 * time.Second
)

// Catalog configures the GP data catalog endpoint.
type Catalog struct {
	URL               string `yaml:"url"`
	RecencyWindowDays int    `yaml:"recency_window_days"`
}

// SpaceObjects configures the space-object API.
type SpaceObjects struct {
	BaseURL            string   `yaml:"base_url"`
	Path               string   `yaml:"path"`
	AllowedObjectTypes []string `yaml:"allowed_object_types"`
}

// Config is the contents of the YAML config file.
type Config struct {
	Catalog             Catalog       `yaml:"catalog"`
	SpaceObjects        SpaceObjects  `yaml:"space_objects"`
	RequestTimeout      time.Duration `yaml:"request_timeout"`
	ResponseTimeCeiling time.Duration `yaml:"response_time_ceiling"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Catalog: Catalog{
			URL:               DefaultCatalogURL,
			RecencyWindowDays: DefaultRecencyWindowDays,
		},
		SpaceObjects: SpaceObjects{
			BaseURL:            DefaultSpaceObjectsURL,
			Path:               servicedef.SpaceObjectsPath,
			AllowedObjectTypes: append([]string(nil), servicedef.AllObjectTypes...),
		},
		RequestTimeout:      DefaultRequestTimeout,
		ResponseTimeCeiling: DefaultResponseTimeCeiling,
	}
}

// Load reads a config file on top of the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	if _, err := absoluteURL(c.Catalog.URL); err != nil {
		errs = append(errs, fmt.Errorf("catalog.url: %w", err))
	}
	if _, err := absoluteURL(c.SpaceObjects.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("space_objects.base_url: %w", err))
	}
	if c.Catalog.RecencyWindowDays <= 0 {
		errs = append(errs, errors.New("catalog.recency_window_days must be positive"))
	}
	if len(c.SpaceObjects.AllowedObjectTypes) == 0 {
		errs = append(errs, errors.New("space_objects.allowed_object_types must not be empty"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request_timeout must be positive"))
	}
	if c.ResponseTimeCeiling <= 0 {
		errs = append(errs, errors.New("response_time_ceiling must be positive"))
	}
	return errors.Join(errs...)
}

func absoluteURL(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%q is not an http(s) URL", s)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%q has no host", s)
	}
	return u, nil
}

// SpaceObjectsURL is the full URL of the creation endpoint.
func (c *Config) SpaceObjectsURL() string {
	return strings.TrimSuffix(c.SpaceObjects.BaseURL, "/") + "/" + strings.TrimPrefix(c.SpaceObjects.Path, "/")
}

// WithBaseURL returns a copy of the config with both services pointed at baseURL, keeping the
// catalog's path and query. This is how an offline run targets the reference service.
func (c *Config) WithBaseURL(baseURL string) (*Config, error) {
	base, err := absoluteURL(baseURL)
	if err != nil {
		return nil, err
	}
	catalog, err := url.Parse(c.Catalog.URL)
	if err != nil {
		return nil, fmt.Errorf("catalog.url: %w", err)
	}
	catalog.Scheme = base.Scheme
	catalog.Host = base.Host

	ret := *c
	ret.SpaceObjects.AllowedObjectTypes = append([]string(nil), c.SpaceObjects.AllowedObjectTypes...)
	ret.Catalog.URL = catalog.String()
	ret.SpaceObjects.BaseURL = strings.TrimSuffix(base.String(), "/")
	return &ret, nil
}
