package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/viant/pprl/blocking"
	"github.com/viant/pprl/bloom"
	"github.com/viant/pprl/digest"
	"github.com/viant/pprl/linkage"
	"github.com/viant/pprl/pprlerr"
	"github.com/viant/pprl/record"
	"github.com/viant/pprl/similarity"
	"github.com/viant/pprl/store"
)

// Config is the configuration of a linkage run.
type Config struct {
	// HashingScheme is double, enhanced-double, triple or random (or DH, ED,
	// TH, RH).
	HashingScheme string `yaml:"hashingScheme"`
	// H1 and H2 name the digests of the digest-based schemes.
	H1 string `yaml:"h1"`
	H2 string `yaml:"h2"`
	// BitLength is L, HashCount is k.
	BitLength int  `yaml:"bitLength"`
	HashCount int  `yaml:"hashCount"`
	Weighted  bool `yaml:"weighted"`
	// TokenSalt is mixed into every hashed bigram.
	TokenSalt string `yaml:"tokenSalt"`
	Normalize bool   `yaml:"normalize"`

	LinkingMode string  `yaml:"linkingMode"`
	Threshold   float64 `yaml:"threshold"`
	// Similarity is jaccard or dice.
	Similarity string `yaml:"similarity"`

	BlockingEnabled bool `yaml:"blockingEnabled"`
	// BlockingCheat adds the identifier as a blocking key. Evaluation only.
	BlockingCheat bool `yaml:"blockingCheat"`
	// BlockingStrategies lists strategy names such as first-name-year; empty
	// means all three phonetic strategies.
	BlockingStrategies []string `yaml:"blockingStrategies"`

	// Concurrency bounds the workers of every parallel phase; 0 means
	// GOMAXPROCS.
	Concurrency int `yaml:"concurrency"`

	Schema  SchemaConfig `yaml:"schema"`
	Storage store.Config `yaml:"storage"`
}

// SchemaConfig describes the attribute layout of the input records.
type SchemaConfig struct {
	Attributes   []record.Attribute `yaml:"attributes"`
	record.Roles `yaml:",inline"`
}

// Default returns the configuration the linkage experiments ran with.
func Default() *Config {
	p := bloom.DefaultParams()
	return &Config{
		HashingScheme:   string(p.Scheme),
		H1:              p.H1,
		H2:              p.H2,
		BitLength:       p.BitLength,
		HashCount:       p.HashCount,
		Weighted:        p.Weighted,
		TokenSalt:       p.Salt,
		LinkingMode:     string(linkage.Polygamous),
		Threshold:       0.6,
		Similarity:      string(similarity.MetricJaccard),
		BlockingEnabled: true,
		Schema: SchemaConfig{
			Attributes: record.DefaultAttributes(),
			Roles:      record.DefaultRoles(),
		},
		Storage: store.Config{Kind: store.KindNone},
	}
}

// LoadFile loads the file at path over Default.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Load parses YAML data over Default. A file listing schema.attributes
// replaces the whole default schema, roles included.
func Load(data []byte) (*Config, error) {
	cfg := Default()
	var head struct {
		Schema struct {
			Attributes []record.Attribute `yaml:"attributes"`
		} `yaml:"schema"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, pprlerr.Config("invalid YAML: %v", err)
	}
	if head.Schema.Attributes != nil {
		cfg.Schema = SchemaConfig{}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, pprlerr.Config("invalid YAML: %v", err)
	}
	return cfg, nil
}

// Validate checks every option and joins all problems.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.Params(); err != nil {
		errs = append(errs, err)
	}
	if _, err := linkage.ParseMode(c.LinkingMode); err != nil {
		errs = append(errs, err)
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		errs = append(errs, pprlerr.Config("config: threshold %v is outside [0, 1]", c.Threshold))
	}
	if _, err := similarity.ParseMetric(c.Similarity); err != nil {
		errs = append(errs, err)
	}
	if c.Concurrency < 0 {
		errs = append(errs, pprlerr.Config("config: concurrency must not be negative, got %d", c.Concurrency))
	}
	if _, err := c.RecordSchema(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Strategies(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Params returns the encoder parameters.
func (c *Config) Params() (bloom.Params, error) {
	kind, err := bloom.ParseKind(c.HashingScheme)
	if err != nil {
		return bloom.Params{}, err
	}
	p := bloom.Params{
		Scheme:    kind,
		H1:        c.H1,
		H2:        c.H2,
		BitLength: c.BitLength,
		HashCount: c.HashCount,
		Weighted:  c.Weighted,
		Salt:      c.TokenSalt,
		Normalize: c.Normalize,
	}
	if err := p.Validate(); err != nil {
		return bloom.Params{}, err
	}
	return p, nil
}

// Mode returns the linking mode.
func (c *Config) Mode() (linkage.Mode, error) { return linkage.ParseMode(c.LinkingMode) }

// Metric returns the similarity metric.
func (c *Config) Metric() (similarity.Metric, error) { return similarity.ParseMetric(c.Similarity) }

// Strategies returns the blocking strategies. BlockingCheat appends
// identifier-cheat when the list lacks it.
func (c *Config) Strategies() ([]blocking.Strategy, error) {
	if len(c.BlockingStrategies) == 0 {
		return blocking.DefaultStrategies(c.BlockingCheat), nil
	}
	var (
		out   []blocking.Strategy
		seen  = make(map[blocking.Strategy]bool)
		cheat bool
	)
	for _, name := range c.BlockingStrategies {
		s, err := blocking.ParseStrategy(name)
		if err != nil {
			return nil, err
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		cheat = cheat || s == blocking.IdentifierCheat
		out = append(out, s)
	}
	if c.BlockingCheat && !cheat {
		out = append(out, blocking.IdentifierCheat)
	}
	return out, nil
}

// RecordSchema builds the record schema.
func (c *Config) RecordSchema() (*record.Schema, error) {
	return record.NewSchema(c.Schema.Attributes, c.Schema.Roles)
}

// Summary returns the options worth logging; the salt is never included.
func (c *Config) Summary() []any {
	return []any{
		"hashingScheme", c.HashingScheme,
		"h1", digest.Name(c.H1),
		"h2", digest.Name(c.H2),
		"bitLength", c.BitLength,
		"hashCount", c.HashCount,
		"weighted", c.Weighted,
		"linkingMode", c.LinkingMode,
		"threshold", c.Threshold,
		"similarity", c.Similarity,
		"blockingEnabled", c.BlockingEnabled,
		"blockingCheat", c.BlockingCheat,
		"blockingStrategies", c.BlockingStrategies,
		"storage", string(c.Storage.Kind),
	}
}
