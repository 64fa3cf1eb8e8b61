package mediabox

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/nuln/mediabox/idcache"
)

// Config holds the adapter configuration.
type Config struct {
	// Driver is the remote client name: "gdrive", "rclone", "local", etc.
	Driver string `json:"driver" yaml:"driver"`

	// FolderID is the optional scope folder.
	FolderID string `json:"folderId,omitempty" yaml:"folderId,omitempty"`

	// PathPrefix namespaces cache keys.
	PathPrefix string `json:"pathPrefix,omitempty" yaml:"pathPrefix,omitempty"`

	// CacheTTL bounds how long a path→ID mapping is trusted (e.g. "720h").
	CacheTTL time.Duration `json:"cacheTTL,omitempty" yaml:"cacheTTL,omitempty"`

	Cache CacheConfig `json:"cache,omitempty" yaml:"cache,omitempty"`
	Log   LogConfig   `json:"log,omitempty" yaml:"log,omitempty"`

	// Options holds driver-specific configuration.
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// CacheConfig selects the identifier cache backing store.
type CacheConfig struct {
	// Type is "memory" (default) or "file".
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Dir is the directory of a "file" cache.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// LogConfig is read by commands that build their own logger.
type LogConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`   // debug, info, warn, error
	Format string `json:"format,omitempty" yaml:"format,omitempty"` // json, console
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mediabox: read config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("mediabox: parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields every driver relies on.
func (c *Config) Validate() error {
	if c.Driver == "" {
		return fmt.Errorf("mediabox: driver is required")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("mediabox: cacheTTL must not be negative")
	}
	switch c.Cache.Type {
	case "", "memory":
	case "file":
		if c.Cache.Dir == "" {
			return fmt.Errorf("mediabox: cache.dir is required for a file cache")
		}
	default:
		return fmt.Errorf("mediabox: unknown cache type %q", c.Cache.Type)
	}
	return nil
}

// Option returns the string driver option key, or "".
func (c *Config) Option(key string) string {
	if v, ok := c.Options[key]; ok {
		s, _ := v.(string)
		return s
	}
	return ""
}

// OptionBool returns the boolean driver option key. Strings "true"/"1"/"yes"
// count as true so options can come from environment variables.
func (c *Config) OptionBool(key string) bool {
	switch v := c.Options[key].(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "1" || v == "yes"
	}
	return false
}

func (c *Config) newCache() (idcache.Store, error) {
	switch c.Cache.Type {
	case "file":
		return idcache.OpenDir(c.Cache.Dir)
	default:
		return idcache.NewMemory(nil), nil
	}
}

// Factory is a function that creates a [RemoteClient] from a [Config].
type Factory func(cfg *Config) (RemoteClient, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register makes a remote client driver available by the provided name.
// This is typically called from the driver package's init() function.
// It panics if called twice with the same name.
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("mediabox: driver %q already registered", name))
	}
	factories[name] = factory
}

// Drivers returns a sorted list of all registered driver names.
func Drivers() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open creates an [Adapter] using the registered driver specified in cfg.Driver.
func Open(cfg *Config) (*Adapter, error) {
	return OpenWith(cfg, Options{})
}

// OpenWith is like [Open] but starts from opts, which supplies what a file
// cannot: logger, metrics, tie-break policy. Folder, prefix, TTL and cache
// come from cfg unless opts already sets them.
func OpenWith(cfg *Config, opts Options) (*Adapter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mediabox: config must not be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mu.RLock()
	factory, ok := factories[cfg.Driver]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("mediabox: unknown driver %q (forgotten import?)", cfg.Driver)
	}

	if opts.FolderID == "" {
		opts.FolderID = cfg.FolderID
	}
	if opts.PathPrefix == "" {
		opts.PathPrefix = cfg.PathPrefix
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = cfg.CacheTTL
	}
	if opts.Cache == nil {
		cache, err := cfg.newCache()
		if err != nil {
			return nil, err
		}
		opts.Cache = cache
	}

	client, err := factory(cfg)
	if err != nil {
		return nil, err
	}
	return New(client, opts), nil
}

// MustOpen is like [Open] but panics on error.
func MustOpen(cfg *Config) *Adapter {
	a, err := Open(cfg)
	if err != nil {
		panic(err)
	}
	return a
}
