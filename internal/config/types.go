// Package config holds the esqlc configuration and its embedded
// defaults.
package config

import "time"

// Config is the merged configuration of a run.
type Config struct {
	Engine EngineConfig `yaml:"engine" json:"engine"`
	Schema SchemaConfig `yaml:"schema" json:"schema"`
	Output OutputConfig `yaml:"output" json:"output"`
	Server ServerConfig `yaml:"server" json:"server"`
}

// EngineConfig tunes the completion engine.
type EngineConfig struct {
	// MaxSuggestions truncates results; zero keeps all of them.
	MaxSuggestions int         `yaml:"max_suggestions" json:"max_suggestions"`
	Cache          CacheConfig `yaml:"cache" json:"cache"`
}

// CacheConfig sizes the field, source and policy cache.
type CacheConfig struct {
	Size int           `yaml:"size" json:"size"`
	TTL  time.Duration `yaml:"ttl" json:"ttl"`
}

// SchemaConfig points at the schema file used when --schema is unset.
type SchemaConfig struct {
	Path string `yaml:"path" json:"path"`
}

// OutputConfig controls how results are rendered.
type OutputConfig struct {
	Format  string `yaml:"format" json:"format"`
	NoColor bool   `yaml:"no_color" json:"no_color"`
}

// ServerConfig configures esqlc serve.
type ServerConfig struct {
	Addr        string        `yaml:"addr" json:"addr"`
	ReadTimeout time.Duration `yaml:"read_timeout" json:"read_timeout"`
}
