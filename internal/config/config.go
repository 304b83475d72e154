// Package config loads octoguard.yml, generalizing the teacher's
// cache-directory and path-validation conventions (utils.ValidateFilePath,
// githubclient.NewClient's cache-dir set-up) into a single typed
// configuration: audit suppression, the invoker's visibility filter,
// pin-policy overrides, and the registry resolver's connection settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/audit/rules"
)

// FileName is the configuration file octoguard looks for in the scanned
// directory and each of its ancestors up to a .git directory.
const FileName = "octoguard.yml"

// ruleConfig mirrors one entry under rules.<id> in octoguard.yml.
type ruleConfig struct {
	Disable bool     `yaml:"disable"`
	Ignore  []string `yaml:"ignore"`
}

// patternRuleConfig mirrors one pattern/policy pair in a policy list.
type patternRuleConfig struct {
	Pattern string `yaml:"pattern"`
	Policy  string `yaml:"policy"`
}

// raw is the on-disk shape of octoguard.yml.
type raw struct {
	Persona       string                `yaml:"persona"`
	MinSeverity   string                `yaml:"min-severity"`
	MinConfidence string                `yaml:"min-confidence"`
	PinPolicy     []patternRuleConfig   `yaml:"pin-policy"`
	ForbiddenUses []patternRuleConfig   `yaml:"forbidden-uses"`
	GitHubHost    string                `yaml:"github-host"`
	CacheDir      string                `yaml:"cache-dir"`
	Rules         map[string]ruleConfig `yaml:"rules"`
}

// Config is the fully resolved, validated configuration a run is built
// from: audit.Config/audit.Filter feed FindingBuilder directly, the rest
// parameterizes the rule catalogue and the registry resolver.
type Config struct {
	Suppression audit.Config
	Filter      audit.Filter
	GitHubHost  string
	CacheDir    string
}

// Default returns the configuration a run uses when no octoguard.yml is
// found: regular persona, every severity/confidence visible.
func Default() Config {
	return Config{
		Suppression: audit.NewConfig(),
		Filter:      audit.Filter{Requested: audit.PersonaRegular},
	}
}

// Discover walks up from dir looking for octoguard.yml, octoguard.yaml,
// .github/octoguard.yml or .github/octoguard.yaml (in that order at each
// level), stopping at the first directory containing a .git entry (the
// repository root) or the filesystem root, whichever comes first. Returns
// "", false if none is found, which is not an error: a missing config file
// means "use defaults".
func Discover(dir string) (string, bool) {
	for {
		for _, name := range []string{FileName, "octoguard.yaml", filepath.Join(".github", FileName), filepath.Join(".github", "octoguard.yaml")} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true
			}
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return "", false
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Load parses octoguard.yml at path and applies it: rule disables/ignores
// feed a fresh audit.Config, pin-policy and forbidden-uses overrides are
// pushed into the rules package's process-wide state (mirroring how the
// rule catalogue's own package-level tables are consulted at Check time).
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}

	var r raw
	if err := yaml.Unmarshal(data, &r); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	if r.Persona != "" {
		p, ok := audit.ParsePersona(r.Persona)
		if !ok {
			return cfg, fmt.Errorf("%s: unknown persona %q", path, r.Persona)
		}
		cfg.Filter.Requested = p
	}
	if r.MinSeverity != "" {
		s, ok := audit.ParseSeverity(r.MinSeverity)
		if !ok {
			return cfg, fmt.Errorf("%s: unknown min-severity %q", path, r.MinSeverity)
		}
		cfg.Filter.MinSeverity = s
	}
	if r.MinConfidence != "" {
		c, ok := audit.ParseConfidence(r.MinConfidence)
		if !ok {
			return cfg, fmt.Errorf("%s: unknown min-confidence %q", path, r.MinConfidence)
		}
		cfg.Filter.MinConfidence = c
	}

	suppression := audit.NewConfig()
	for id, rc := range r.Rules {
		if rc.Disable {
			suppression.Disabled[id] = true
		}
		for _, entry := range rc.Ignore {
			suppression.LocationIgnores[id] = append(suppression.LocationIgnores[id], audit.ParseLocationIgnore(entry))
		}
	}
	cfg.Suppression = suppression

	pinPolicy, err := toPatternRules(r.PinPolicy)
	if err != nil {
		return cfg, fmt.Errorf("%s: pin-policy: %w", path, err)
	}
	rules.SetPinPolicy(pinPolicy)

	forbidden, err := toPatternRules(r.ForbiddenUses)
	if err != nil {
		return cfg, fmt.Errorf("%s: forbidden-uses: %w", path, err)
	}
	rules.ForbiddenUsesPolicy = forbidden

	cfg.GitHubHost = r.GitHubHost
	cfg.CacheDir = r.CacheDir
	return cfg, nil
}

func toPatternRules(entries []patternRuleConfig) ([]rules.PatternRule, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	out := make([]rules.PatternRule, 0, len(entries))
	for _, e := range entries {
		switch rules.Policy(e.Policy) {
		case rules.PolicyHashPin, rules.PolicyRefPin, rules.PolicyAny, rules.PolicyAllow, rules.PolicyDeny:
			out = append(out, rules.PatternRule{Pattern: e.Pattern, Policy: rules.Policy(e.Policy)})
		default:
			return nil, fmt.Errorf("unknown policy %q for pattern %q", e.Policy, e.Pattern)
		}
	}
	return out, nil
}

var errNoConfig = errors.New("no octoguard.yml found")

// LoadFromDir discovers and loads octoguard.yml starting at dir, returning
// the default configuration (and errNoConfig wrapped as a non-fatal signal
// the caller may ignore) when none is found.
func LoadFromDir(dir string) (Config, error) {
	path, ok := Discover(dir)
	if !ok {
		return Default(), errNoConfig
	}
	return Load(path)
}
