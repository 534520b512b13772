package config

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadEmptyReturnsDefaults(t *testing.T) {
	cfg, err := Load(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pseudonyms.Seed.SecretEnv != "REDACT_SECRET" {
		t.Errorf("expected default secret env var, got %q", cfg.Pseudonyms.Seed.SecretEnv)
	}
	if cfg.Redact.AliasLabels != AliasReplace {
		t.Errorf("expected default alias mode 'replace', got %q", cfg.Redact.AliasLabels)
	}
}

func TestLoadParsesFullDocument(t *testing.T) {
	doc := `
pseudonyms:
  cross_doc_consistency: true
  seed:
    secret_env: MY_SECRET
  require_secret: true
detectors:
  ner:
    enable: true
    require: false
  coref:
    enable: true
redact:
  alias_labels: keep_roles
  generic_dates: true
verification:
  fail_on_residual: true
safety:
  sensitive_values:
    - "Alan Smith"
  issuer_prefixes:
    - "4012"
`
	cfg, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Pseudonyms.CrossDocConsistency {
		t.Error("expected cross_doc_consistency true")
	}
	if cfg.Pseudonyms.Seed.SecretEnv != "MY_SECRET" {
		t.Errorf("got %q", cfg.Pseudonyms.Seed.SecretEnv)
	}
	if !cfg.Detectors.NER.Enable || !cfg.Detectors.Coref.Enable {
		t.Error("expected NER and coref enabled")
	}
	if cfg.Redact.AliasLabels != AliasKeepRoles {
		t.Errorf("got %q", cfg.Redact.AliasLabels)
	}
	if !cfg.Verification.FailOnResidual {
		t.Error("expected strict mode enabled")
	}
	if len(cfg.Safety.SensitiveValues) != 1 || cfg.Safety.SensitiveValues[0] != "Alan Smith" {
		t.Errorf("got %+v", cfg.Safety.SensitiveValues)
	}
}

func TestLoadRejectsUnrecognizedAliasMode(t *testing.T) {
	_, err := Load(strings.NewReader("redact:\n  alias_labels: obliterate\n"))
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadRejectsRequireWithoutEnable(t *testing.T) {
	_, err := Load(strings.NewReader("detectors:\n  ner:\n    require: true\n"))
	if err == nil {
		t.Fatal("expected validation error for require without enable")
	}
}

func TestLoadReadErrorWraps(t *testing.T) {
	_, err := Load(errReader{})
	if err == nil {
		t.Fatal("expected error")
	}
	var cfgErr *Error
	if e, ok := err.(*Error); ok {
		cfgErr = e
	}
	if cfgErr == nil {
		t.Fatalf("expected *config.Error, got %T", err)
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, errors.New("simulated read failure")
}
