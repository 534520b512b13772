// Package redact is the public entry point wiring the full pipeline:
// preprocessor, detectors, address merger, linker, span merger,
// pseudonym generator, safety guard, planner/applier, and verifier.
// Document decoding, CLI argument parsing, config-file loading, and the
// ML NER/coref models themselves are external collaborators — this
// package only consumes their Go-side contracts.
package redact

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/prismshield/redact/internal/audit"
	"github.com/prismshield/redact/internal/auditlog"
	"github.com/prismshield/redact/internal/config"
	"github.com/prismshield/redact/internal/coref"
	"github.com/prismshield/redact/internal/linker"
	"github.com/prismshield/redact/internal/merge"
	"github.com/prismshield/redact/internal/plan"
	"github.com/prismshield/redact/internal/preprocess"
	"github.com/prismshield/redact/internal/pseudonym"
	"github.com/prismshield/redact/internal/safety"
	"github.com/prismshield/redact/internal/scanner"
	"github.com/prismshield/redact/internal/verify"
)

// Options supplies the optional ML providers and operational logger a
// caller may wire in. Every field is optional; a zero-value Options runs
// the pipeline pattern-only.
type Options struct {
	NER    scanner.NERProvider
	Coref  coref.Provider
	Logger *auditlog.Logger
}

// Result bundles everything one redaction run produces. Callers that
// need the JSON artifacts spec.md §6 describes render them from the
// Audit/Plan/Verification fields via the internal/audit package.
type Result struct {
	SanitizedText string
	Plan          []plan.Entry
	Audit         audit.Bundle
	Verification  verify.Report
}

// Run executes the full pipeline over rawText and returns the sanitized
// text together with its plan, audit bundle, and verification report.
// The only errors Run returns are *config.Error, *scanner.DetectorError
// (only when a required provider is unusable), *pseudonym.Error,
// *plan.Error, and *verify.Error — each carrying an ExitCode() the
// caller's CLI boundary can consume directly.
func Run(ctx context.Context, rawText string, cfg config.Config, opts Options) (Result, error) {
	normalized, cm := preprocess.Normalize(rawText)

	secret, err := resolveSecret(cfg)
	if err != nil {
		logFailed(opts.Logger, "config", err)
		return Result{}, err
	}
	scope := resolveScope(cfg, normalized)

	ks, err := pseudonym.NewKeySchedule(secret, scope)
	if err != nil {
		logFailed(opts.Logger, "key_schedule", err)
		return Result{}, err
	}
	defer ks.Close()

	if opts.Logger != nil {
		opts.Logger.PipelineStarted(len([]rune(normalized)), cfg.Pseudonyms.CrossDocConsistency)
	}

	var warnings []audit.Warning

	nerProvider, warn, err := probeNER(ctx, cfg, opts)
	if err != nil {
		logFailed(opts.Logger, "ner_probe", err)
		return Result{}, err
	}
	if warn != nil {
		warnings = append(warnings, *warn)
	}

	var corefProvider coref.Provider
	if cfg.Detectors.Coref.Enable {
		corefProvider = opts.Coref
	}

	scanCfg := scanner.Config{NER: nerProvider}
	spans := scanner.Run(ctx, normalized, scanCfg)
	if opts.Logger != nil {
		opts.Logger.DetectorsCompleted(countByLabel(spans))
	}

	spans = merge.AddressBlocks(normalized, spans)
	spans = merge.Resolve(spans)

	linkerCfg := linker.Config{
		KeepRoles: cfg.Redact.AliasLabels == config.AliasKeepRoles,
		Coref:     corefProvider,
	}
	clusters, rest := linker.Link(ctx, normalized, spans, linkerCfg)

	units := buildUnits(ks, clusters, rest, normalized)
	sort.Slice(units, func(i, j int) bool { return units[i].span.Start < units[j].span.Start })

	strict := cfg.Verification.FailOnResidual
	safetyCfg := safety.Config{
		SensitiveValues: cfg.Safety.SensitiveValues,
		IssuerPrefixes:  cfg.Safety.IssuerPrefixes,
	}

	var entries []plan.Entry
	for _, u := range units {
		entry, skip, err := resolveEntry(u, normalized, cfg, safetyCfg, strict)
		if err != nil {
			logFailed(opts.Logger, "pseudonym", err)
			return Result{}, err
		}
		if skip {
			continue
		}
		if entry.Unsafe && opts.Logger != nil {
			opts.Logger.SafetyRetried(string(entry.Label), entry.Subtype, entry.Retries, true)
		} else if entry.Retries > 0 && opts.Logger != nil {
			opts.Logger.SafetyRetried(string(entry.Label), entry.Subtype, entry.Retries, false)
		}
		entries = append(entries, entry)
	}

	sanitized, sorted, err := plan.BuildAndApply(normalized, entries)
	if err != nil {
		logFailed(opts.Logger, "plan", err)
		return Result{}, err
	}

	verification := verify.Run(ctx, sanitized, sorted, scanCfg, len(secret) > 0)
	if opts.Logger != nil {
		opts.Logger.VerificationCompleted(verification.LeakageScore, len(verification.Residuals))
	}

	bundle := audit.BuildBundle(sorted, cm)
	bundle.Warnings = warnings

	result := Result{
		SanitizedText: sanitized,
		Plan:          sorted,
		Audit:         bundle,
		Verification:  verification,
	}

	if strict && verification.HasResidual() {
		verifyErr := &verify.Error{Report: verification}
		logFailed(opts.Logger, "verify", verifyErr)
		return result, verifyErr
	}

	return result, nil
}

// resolveSecret reads the pseudonym secret from the configured
// environment variable. A missing secret is only a ConfigError when
// require_secret is set; otherwise an empty secret is used, which still
// satisfies determinism since it is the same empty secret on every run.
func resolveSecret(cfg config.Config) ([]byte, error) {
	secret := os.Getenv(cfg.Pseudonyms.Seed.SecretEnv)
	if secret == "" && cfg.Pseudonyms.RequireSecret {
		return nil, &config.Error{Err: fmt.Errorf(
			"pseudonyms.require_secret is set but %s is unset", cfg.Pseudonyms.Seed.SecretEnv)}
	}
	return []byte(secret), nil
}

// resolveScope derives the HKDF salt: a fixed string under cross-document
// consistency (DESIGN.md decision 3: rotating the secret still
// invalidates every cross-doc pseudonym), or a digest of the document's
// own normalized content when each document gets its own key scope.
func resolveScope(cfg config.Config, normalized string) string {
	if cfg.Pseudonyms.CrossDocConsistency {
		return "cross-doc"
	}
	sum := blake3.Sum256([]byte(normalized))
	return fmt.Sprintf("doc:%x", sum[:])
}

// probeNER decides whether the NER provider participates in this run. A
// probe failure is recovered locally (returned as a warning) unless the
// provider is marked required, in which case it escalates to a fatal
// *scanner.DetectorError.
func probeNER(ctx context.Context, cfg config.Config, opts Options) (scanner.NERProvider, *audit.Warning, error) {
	if !cfg.Detectors.NER.Enable || opts.NER == nil {
		return nil, nil, nil
	}
	ok, err := opts.NER.Probe(ctx)
	if err != nil {
		detErr := &scanner.DetectorError{Provider: "ner", Err: err}
		if cfg.Detectors.NER.Require {
			return nil, nil, detErr
		}
		return nil, &audit.Warning{Stage: "ner_probe", Message: detErr.Error()}, nil
	}
	if !ok {
		if cfg.Detectors.NER.Require {
			return nil, nil, &scanner.DetectorError{Provider: "ner", Err: fmt.Errorf("provider not usable in this environment")}
		}
		return nil, nil, nil
	}
	return opts.NER, nil, nil
}

func countByLabel(spans []scanner.Span) map[string]int {
	counts := make(map[string]int, len(spans))
	for _, s := range spans {
		counts[string(s.Label)]++
	}
	return counts
}

func logFailed(lg *auditlog.Logger, stage string, err error) {
	if lg != nil {
		lg.Failed(stage, err)
	}
}

// mentionUnit is one span queued for pseudonym generation, carrying the
// cluster identity (real, from the linker, or synthetic, for ungrouped
// labels) its replacement must be consistent with.
type mentionUnit struct {
	span        scanner.Span
	clusterID   int
	clusterKind scanner.Label
	clusterKey  []byte
}

// buildUnits flattens linker clusters and the linker's "rest" spans (the
// labels it does not cluster: EMAIL, PHONE, ACCOUNT_ID, DOB,
// DATE_GENERIC, ADDRESS_BLOCK/LINE, LOCATION) into one list of units,
// synthesizing a cluster per distinct (label, exact surface text) group
// among the rest spans so repeated identical values still share one
// deterministic pseudonym.
func buildUnits(ks *pseudonym.KeySchedule, clusters []linker.Cluster, rest []scanner.Span, normalized string) []mentionUnit {
	var units []mentionUnit

	for _, c := range clusters {
		key := ks.ClusterKey(string(c.Kind), c.Canonical)
		for _, m := range c.Mentions {
			units = append(units, mentionUnit{span: m, clusterID: c.ID, clusterKind: c.Kind, clusterKey: key})
		}
	}

	type restGroupKey struct {
		label scanner.Label
		text  string
	}
	groups := make(map[restGroupKey][]scanner.Span)
	var order []restGroupKey
	for _, s := range rest {
		k := restGroupKey{label: s.Label, text: s.Text(normalized)}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], s)
	}

	nextID := len(clusters)
	for _, k := range order {
		key := ks.ClusterKey(string(k.label), k.text)
		id := nextID
		nextID++
		for _, s := range groups[k] {
			units = append(units, mentionUnit{span: s, clusterID: id, clusterKind: k.label, clusterKey: key})
		}
	}

	return units
}

// roleSet is the lowercased DefaultRoles lookup table used to decide,
// per ALIAS_LABEL mention, whether keep_roles exempts that specific
// mention from replacement (DESIGN.md open-question decision 2 — this
// is a per-mention check, not a per-cluster one).
var roleSet = func() map[string]bool {
	m := make(map[string]bool, len(linker.DefaultRoles))
	for _, r := range linker.DefaultRoles {
		m[strings.ToLower(r)] = true
	}
	return m
}()

// resolveEntry generates and safety-validates one mention's replacement,
// returning skip=true when the mention should be left untouched
// entirely (a kept role, or a generic date with redact.generic_dates
// off) rather than given a plan entry.
func resolveEntry(u mentionUnit, normalized string, cfg config.Config, safetyCfg safety.Config, strict bool) (plan.Entry, bool, error) {
	label := u.span.Label
	reqLabel := string(label)
	subtype := u.span.Attr("account_subtype")
	dateFormat := u.span.Attr("date_format")
	original := u.span.Text(normalized)

	if label == scanner.LabelAliasLabel {
		term := strings.ToLower(strings.TrimSpace(original))
		if cfg.Redact.AliasLabels == config.AliasKeepRoles && roleSet[term] {
			return plan.Entry{}, true, nil
		}
		reqLabel = string(u.clusterKind)
	}
	if label == scanner.LabelDateGeneric && !cfg.Redact.GenericDates {
		return plan.Entry{}, true, nil
	}

	generate := func(retrySalt int) (string, error) {
		return pseudonym.Generate(pseudonym.Request{
			Label:      reqLabel,
			Subtype:    subtype,
			Surface:    original,
			Cluster:    u.clusterKey,
			RetrySalt:  retrySalt,
			DateFormat: dateFormat,
		})
	}

	outcome, err := safety.Retry(original, reqLabel, subtype, safetyCfg, generate)
	if err != nil {
		pseudoErr := &pseudonym.Error{Label: reqLabel, Subtype: subtype, Reason: err.Error()}
		if strict {
			return plan.Entry{}, false, pseudoErr
		}
		outcome = safety.Outcome{
			Replacement: safety.FormatPlaceholder(reqLabel),
			Retries:     safety.MaxRetries + 1,
			Unsafe:      true,
			Reason:      err.Error(),
		}
	}
	if outcome.Unsafe && strict {
		return plan.Entry{}, false, &pseudonym.Error{Label: reqLabel, Subtype: subtype, Reason: outcome.Reason}
	}

	return plan.Entry{
		Label:       label,
		Subtype:     subtype,
		Original:    original,
		Replacement: outcome.Replacement,
		StartNorm:   u.span.Start,
		EndNorm:     u.span.End,
		ClusterID:   u.clusterID,
		Confidence:  u.span.Confidence,
		Detector:    u.span.Source,
		Retries:     outcome.Retries,
		Unsafe:      outcome.Unsafe,
		Reason:      outcome.Reason,
	}, false, nil
}
