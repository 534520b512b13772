// Package config loads and validates the pipeline's recognized
// configuration options (spec.md §6).
package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Seed controls where the pseudonym secret is read from.
type Seed struct {
	SecretEnv string `yaml:"secret_env"`
}

// Pseudonyms controls key scoping and secret handling for the generator.
type Pseudonyms struct {
	CrossDocConsistency bool `yaml:"cross_doc_consistency"`
	Seed                Seed `yaml:"seed"`
	RequireSecret       bool `yaml:"require_secret"`
}

// DetectorsNER controls the optional ML named-entity-recognition
// provider.
type DetectorsNER struct {
	Enable  bool `yaml:"enable"`
	Require bool `yaml:"require"`
}

// Detectors controls the optional ML providers layered on top of the
// always-on pattern detectors.
type Detectors struct {
	NER   DetectorsNER `yaml:"ner"`
	Coref struct {
		Enable bool `yaml:"enable"`
	} `yaml:"coref"`
}

// AliasLabelMode is the closed enum for redact.alias_labels.
type AliasLabelMode string

const (
	AliasReplace   AliasLabelMode = "replace"
	AliasKeepRoles AliasLabelMode = "keep_roles"
)

// Redact controls alias-handling and date-genericization behavior.
type Redact struct {
	AliasLabels  AliasLabelMode `yaml:"alias_labels"`
	GenericDates bool           `yaml:"generic_dates"`
}

// Verification controls strict-mode behavior.
type Verification struct {
	FailOnResidual bool `yaml:"fail_on_residual"`
}

// Safety holds operator-supplied safety lists.
type Safety struct {
	SensitiveValues []string `yaml:"sensitive_values"`
	IssuerPrefixes  []string `yaml:"issuer_prefixes"`
}

// Config is the full recognized configuration surface.
type Config struct {
	Pseudonyms   Pseudonyms   `yaml:"pseudonyms"`
	Detectors    Detectors    `yaml:"detectors"`
	Redact       Redact       `yaml:"redact"`
	Verification Verification `yaml:"verification"`
	Safety       Safety       `yaml:"safety"`
}

// Default returns the documented defaults: cross-doc consistency off,
// ML providers off, alias labels replaced, generic dates off, strict
// mode off.
func Default() Config {
	return Config{
		Pseudonyms: Pseudonyms{Seed: Seed{SecretEnv: "REDACT_SECRET"}},
		Redact:     Redact{AliasLabels: AliasReplace},
	}
}

// Error wraps a config load/validation failure. Per spec.md §7 this maps
// to exit code 4.
type Error struct {
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("config: %v", e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// ExitCode maps a ConfigError to the CLI boundary's exit code.
func (e *Error) ExitCode() int { return 4 }

// Load parses YAML config from r over Default(), then validates it.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, &Error{Err: err}
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, &Error{Err: err}
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, &Error{Err: err}
	}
	return cfg, nil
}

// Validate rejects configurations with contradictory options.
func (c Config) Validate() error {
	switch c.Redact.AliasLabels {
	case AliasReplace, AliasKeepRoles, "":
	default:
		return fmt.Errorf("redact.alias_labels: unrecognized value %q", c.Redact.AliasLabels)
	}
	if c.Detectors.NER.Require && !c.Detectors.NER.Enable {
		return fmt.Errorf("detectors.ner.require is set but detectors.ner.enable is false")
	}
	return nil
}
