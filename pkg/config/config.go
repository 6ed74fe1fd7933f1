package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sustainablecapitolhill/myturn-hacks/pkg/checkin"
	"github.com/sustainablecapitolhill/myturn-hacks/pkg/registry"
)

const (
	DefaultHost       = "localhost"
	DefaultPort       = 3000
	DefaultUpstream   = "https://capitolhill.myturn.com"
	DefaultScriptsDir = "src"
)

// Config is the dev proxy configuration. It is assembled once in main and
// handed by value to every component that needs it.
type Config struct {
	Host            string   `yaml:"host,omitempty"`
	Port            int      `yaml:"port,omitempty"`
	Upstream        string   `yaml:"upstream,omitempty"`
	ScriptsDir      string   `yaml:"scripts_dir,omitempty"`
	Scripts         []string `yaml:"scripts,omitempty"`
	CheckInEndpoint string   `yaml:"checkin_endpoint,omitempty"`
	LocationsFile   string   `yaml:"locations_file,omitempty"`
	RenderPatches   bool     `yaml:"render_patches,omitempty"`
	Watch           bool     `yaml:"watch,omitempty"`
	Verbose         bool     `yaml:"verbose,omitempty"`
}

// Default returns the configuration used when nothing is given on the
// command line.
func Default() Config {
	return Config{
		Host:            DefaultHost,
		Port:            DefaultPort,
		Upstream:        DefaultUpstream,
		ScriptsDir:      DefaultScriptsDir,
		Scripts:         registry.Default().Names(),
		CheckInEndpoint: checkin.DefaultEndpoint,
	}
}

// LoadFile reads a YAML config file. Fields missing from the file are left
// zero so the result can be merged over the defaults.
func LoadFile(filename string) (Config, error) {
	var c Config

	data, err := os.ReadFile(filename)
	if err != nil {
		return c, fmt.Errorf("failed to read config file '%s': %w", filename, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("syntax error in config file '%s': %w", filename, err)
	}
	return c, nil
}

// Merge layers overrides onto base in order. Non-zero fields win.
func Merge(base Config, overrides ...Config) Config {
	c := base
	c.Scripts = append([]string(nil), base.Scripts...)
	for _, o := range overrides {
		if o.Host != "" {
			c.Host = o.Host
		}
		if o.Port != 0 {
			c.Port = o.Port
		}
		if o.Upstream != "" {
			c.Upstream = o.Upstream
		}
		if o.ScriptsDir != "" {
			c.ScriptsDir = o.ScriptsDir
		}
		if len(o.Scripts) > 0 {
			c.Scripts = append([]string(nil), o.Scripts...)
		}
		if o.CheckInEndpoint != "" {
			c.CheckInEndpoint = o.CheckInEndpoint
		}
		if o.LocationsFile != "" {
			c.LocationsFile = o.LocationsFile
		}
		if o.RenderPatches {
			c.RenderPatches = true
		}
		if o.Watch {
			c.Watch = true
		}
		if o.Verbose {
			c.Verbose = true
		}
	}
	c.Upstream = strings.TrimRight(c.Upstream, "/")
	return c
}

// Validate reports the first field that cannot be used to start the proxy.
func (c Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	u, err := url.Parse(c.Upstream)
	if err != nil {
		return fmt.Errorf("error parsing upstream '%s': %w", c.Upstream, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("upstream '%s' must be an absolute http(s) origin", c.Upstream)
	}
	if c.Registry().Len() == 0 {
		return fmt.Errorf("no scripts registered")
	}
	return nil
}

// LocalOrigin is the origin the browser uses to reach the proxy.
func (c Config) LocalOrigin() string {
	return fmt.Sprintf("http://%s:%d", c.Host, c.Port)
}

// ListenAddr binds every interface on the configured port; Host only shapes
// the URLs written into rewritten pages.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// UpstreamHost returns the host[:port] part of the upstream origin.
func (c Config) UpstreamHost() string {
	u, err := url.Parse(c.Upstream)
	if err != nil {
		return ""
	}
	return u.Host
}

func (c Config) Registry() registry.Registry {
	return registry.New(c.Scripts...)
}
