package appconf

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings of the service. Values come from
// command-line flags, optionally seeded from a YAML file (see LoadFile).
type Config struct {
	Port         int
	Env          Environment
	ApiKeys      []string
	RateLimit    int
	UpdateSecret string
	CacheSize    int
	CacheTTL     time.Duration
	Agencies     map[string]AgencyOptions
}

// AgencyOptions tunes how geometries are built for one agency.
type AgencyOptions struct {
	Gather bool
}

// ShouldGather reports whether route geometries of the agency are gathered.
// Agencies without explicit options are gathered.
func (c Config) ShouldGather(agencyID string) bool {
	opts, ok := c.Agencies[agencyID]
	if !ok {
		return true
	}
	return opts.Gather
}

type ServerFile struct {
	Port      int      `yaml:"port" validate:"gte=0,lte=65535"`
	ApiKeys   []string `yaml:"apiKeys" validate:"dive,required"`
	RateLimit int      `yaml:"rateLimit" validate:"gte=0"`
}

type GTFSFile struct {
	Source string `yaml:"source" validate:"omitempty"`
	DBPath string `yaml:"dbPath" validate:"omitempty"`
}

type CacheFile struct {
	Size int           `yaml:"size" validate:"gte=0"`
	TTL  time.Duration `yaml:"ttl" validate:"gte=0"`
}

type AgencyFile struct {
	ID     string `yaml:"id" validate:"required"`
	Gather *bool  `yaml:"gather"`
}

// File is the on-disk YAML configuration.
type File struct {
	Env      string       `yaml:"env" validate:"omitempty,oneof=development test production prod"`
	Server   ServerFile   `yaml:"server"`
	GTFS     GTFSFile     `yaml:"gtfs"`
	Cache    CacheFile    `yaml:"cache"`
	Agencies []AgencyFile `yaml:"agencies" validate:"dive"`
}

// LoadFile reads and validates a YAML configuration file.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading config file: %w", err)
	}
	return ParseFile(data)
}

// ParseFile decodes and validates YAML configuration content.
func ParseFile(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("decoding config file: %w", err)
	}
	if err := validator.New().Struct(f); err != nil {
		return File{}, fmt.Errorf("invalid config file: %w", err)
	}
	return f, nil
}

// Apply copies the values set in the file onto cfg. Zero values are ignored
// so that flag defaults survive.
func (f File) Apply(cfg *Config) {
	if f.Env != "" {
		cfg.Env = EnvFlagToEnvironment(f.Env)
	}
	if f.Server.Port != 0 {
		cfg.Port = f.Server.Port
	}
	if len(f.Server.ApiKeys) > 0 {
		cfg.ApiKeys = append([]string(nil), f.Server.ApiKeys...)
	}
	if f.Server.RateLimit != 0 {
		cfg.RateLimit = f.Server.RateLimit
	}
	if f.Cache.Size != 0 {
		cfg.CacheSize = f.Cache.Size
	}
	if f.Cache.TTL != 0 {
		cfg.CacheTTL = f.Cache.TTL
	}
	if len(f.Agencies) > 0 && cfg.Agencies == nil {
		cfg.Agencies = make(map[string]AgencyOptions, len(f.Agencies))
	}
	for _, a := range f.Agencies {
		gather := true
		if a.Gather != nil {
			gather = *a.Gather
		}
		cfg.Agencies[a.ID] = AgencyOptions{Gather: gather}
	}
}
