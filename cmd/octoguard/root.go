// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/octoguard/octoguard/internal/audit"
	_ "github.com/octoguard/octoguard/internal/audit/rules"
	"github.com/octoguard/octoguard/internal/collector"
	"github.com/octoguard/octoguard/internal/config"
	"github.com/octoguard/octoguard/internal/fixer"
	"github.com/octoguard/octoguard/internal/ghlog"
	"github.com/octoguard/octoguard/internal/registry"
	"github.com/octoguard/octoguard/internal/render"
	"github.com/octoguard/octoguard/internal/yamlmodel"
)

// Variables to hold build information, populated at build time.
var (
	Version string
	Date    string
	Commit  string
	BuiltBy string
)

// Flags bound to rootCmd; kept package-level like the teacher's Update var
// since cobra's Run closures need addressable storage.
var (
	flagOffline       bool
	flagGitHubToken   string
	flagGitHubHost    string
	flagConfigPath    string
	flagNoConfig      bool
	flagFormat        string
	flagMinSeverity   string
	flagMinConfidence string
	flagPersona       string
	flagCacheDir      string
	flagShowAuditURLs bool
	flagFix           string
	flagNoExitCodes   bool
	flagVerbose       bool
)

func init() {
	rootCmd.Version = buildVersion(Version, Commit, Date, BuiltBy)
	rootCmd.SetVersionTemplate(`{{printf "Version %s" .Version}}`)

	f := rootCmd.Flags()
	f.BoolVar(&flagOffline, "offline", false, "never contact GitHub; online audits are skipped")
	f.StringVar(&flagGitHubToken, "gh-token", os.Getenv("GITHUB_TOKEN"), "GitHub API token for online audits")
	f.StringVar(&flagGitHubHost, "gh-hostname", "github.com", "GitHub (Enterprise) hostname")
	f.StringVar(&flagConfigPath, "config", "", "path to octoguard.yml (default: discovered from the scanned path upward)")
	f.BoolVar(&flagNoConfig, "no-config", false, "ignore any discovered octoguard.yml")
	f.StringVar(&flagFormat, "format", "plain", "output format: plain, json, json-v1, sarif, github")
	f.StringVar(&flagMinSeverity, "min-severity", "informational", "minimum severity to report")
	f.StringVar(&flagMinConfidence, "min-confidence", "low", "minimum confidence to report")
	f.StringVar(&flagPersona, "persona", "regular", "verbosity posture: regular, pedantic, auditor")
	f.BoolVar(&flagShowAuditURLs, "show-audit-urls", false, "include each finding's documentation URL")
	f.StringVar(&flagFix, "fix", "", "apply patches: safe, unsafe-only, or all")
	f.BoolVar(&flagNoExitCodes, "no-exit-codes", false, "always exit 0 regardless of findings")
	f.BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	// --cache-dir is persistent so `octoguard cache clear` can target the
	// same directory a scan run would use.
	rootCmd.PersistentFlags().StringVar(&flagCacheDir, "cache-dir", "", "HTTP response cache directory (default: OS user cache dir)")
}

// Execute adds all child commands to the root command and runs it. Called
// by main.main(); errors are printed to stderr and exit the process with
// status 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "octoguard [path]",
	Short:        "octoguard audits GitHub Actions workflows, actions, and Dependabot config for security issues.",
	SilenceUsage: true,
	Args:         cobra.MaximumNArgs(1),
	RunE:         runRoot,
}

func runRoot(_ *cobra.Command, args []string) error {
	ghlog.Configure(flagVerbose)

	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", root, err)
	}

	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if err := applyFlagOverrides(&cfg); err != nil {
		return err
	}

	renderer, ok := render.ForFormat(render.Format(flagFormat))
	if !ok {
		return fmt.Errorf("unknown --format %q", flagFormat)
	}

	docs, err := collector.Collect(root)
	if err != nil {
		return fmt.Errorf("collect inputs: %w", err)
	}
	if len(docs) == 0 {
		ghlog.Logger.Warn("no workflow, action, or Dependabot files found", "root", root)
		return nil
	}
	ghlog.Logger.Info("collected inputs", "count", len(docs))

	auditDocs, rawByPath, err := ingest(root, docs)
	if err != nil {
		return err
	}

	resolver := buildResolver(cfg)
	ctx := context.Background()
	findings, decodeErrs := audit.Run(ctx, auditDocs, cfg.Suppression, cfg.Filter, resolver)
	for _, e := range decodeErrs {
		ghlog.Logger.Warn("decode error", "error", e)
	}

	if flagFix != "" {
		if err := applyFixes(root, findings, rawByPath, flagFix); err != nil {
			return err
		}
	}

	opts := render.Options{ShowAuditURLs: flagShowAuditURLs}
	if render.Format(flagFormat) == render.FormatSARIF {
		opts.RunID = uuid.New().String()
	}
	if err := renderer.Render(os.Stdout, findings, opts); err != nil {
		return fmt.Errorf("render findings: %w", err)
	}

	return exitForFindings(findings)
}

func loadConfig(root string) (config.Config, error) {
	if flagNoConfig {
		return config.Default(), nil
	}
	if flagConfigPath != "" {
		return config.Load(flagConfigPath)
	}
	cfg, err := config.LoadFromDir(root)
	if err != nil {
		ghlog.Logger.Debug("no octoguard.yml found, using defaults", "root", root)
		return config.Default(), nil
	}
	return cfg, nil
}

func applyFlagOverrides(cfg *config.Config) error {
	persona, ok := audit.ParsePersona(flagPersona)
	if !ok {
		return fmt.Errorf("unknown --persona %q", flagPersona)
	}
	cfg.Filter.Requested = persona

	sev, ok := audit.ParseSeverity(flagMinSeverity)
	if !ok {
		return fmt.Errorf("unknown --min-severity %q", flagMinSeverity)
	}
	cfg.Filter.MinSeverity = sev

	conf, ok := audit.ParseConfidence(flagMinConfidence)
	if !ok {
		return fmt.Errorf("unknown --min-confidence %q", flagMinConfidence)
	}
	cfg.Filter.MinConfidence = conf

	if flagCacheDir != "" {
		cfg.CacheDir = flagCacheDir
	}
	if flagGitHubHost != "" {
		cfg.GitHubHost = flagGitHubHost
	}
	return nil
}

// ingest reads every collected document's bytes, parses it into a YAML
// tree, and builds the audit.Document the runner expects, keeping the raw
// bytes around (keyed by path) for the --fix pass.
func ingest(root string, docs []collector.Document) ([]audit.Document, map[string][]byte, error) {
	auditDocs := make([]audit.Document, 0, len(docs))
	raw := make(map[string][]byte, len(docs))

	for _, d := range docs {
		full := filepath.Join(root, d.Path)
		text, err := os.ReadFile(full) //nolint:gosec
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", d.Path, err)
		}
		tree, err := yamlmodel.Parse(text)
		if err != nil {
			ghlog.Logger.Warn("skipping unparseable file", "path", d.Path, "error", err)
			continue
		}
		if tree.HasAnchors {
			ghlog.Logger.Warn("file uses YAML anchors or aliases; their handling is best-effort", "path", d.Path)
		}

		key := audit.InputKey{Kind: "local", Path: d.Path}
		input := &audit.Input{Key: key, Tree: tree, Text: text}
		raw[d.Path] = text

		auditDocs = append(auditDocs, audit.Document{Input: input, Kind: toAuditKind(d.Kind)})
	}
	return auditDocs, raw, nil
}

func toAuditKind(k collector.Kind) audit.Kind {
	switch k {
	case collector.KindAction:
		return audit.KindAction
	case collector.KindDependabot:
		return audit.KindDependabot
	default:
		return audit.KindWorkflow
	}
}

func buildResolver(cfg config.Config) registry.RefResolver {
	if flagOffline || flagGitHubToken == "" {
		return registry.OfflineResolver{}
	}
	gh, err := registry.NewGitHubResolverWithHost(flagGitHubToken, cfg.CacheDir, cfg.GitHubHost)
	if err != nil {
		ghlog.Logger.Warn("falling back to offline mode", "error", err)
		return registry.OfflineResolver{}
	}
	return registry.NewCachingResolver(gh)
}

// applyFixes groups each finding's patches by the input it belongs to,
// applies them bottom-up, and writes the result back, generalizing the
// teacher's own applyUpdatesToLines write-back step to arbitrary patches.
func applyFixes(root string, findings []audit.Finding, raw map[string][]byte, mode string) error {
	patchesByPath := map[string][]fixer.Patch{}
	for _, f := range findings {
		if f.Ignored || len(f.Fixes) == 0 {
			continue
		}
		primary, ok := f.Primary()
		if !ok {
			continue
		}
		path := primary.Symbolic.Input.Path
		for _, p := range f.Fixes {
			if !fixAllowed(p.Safety, mode) {
				continue
			}
			patchesByPath[path] = append(patchesByPath[path], p)
		}
	}

	for path, patches := range patchesByPath {
		original, ok := raw[path]
		if !ok {
			continue
		}
		patched, err := fixer.Apply(original, patches)
		if err != nil {
			ghlog.Logger.Warn("skipping fix", "path", path, "error", err)
			continue
		}
		if err := os.WriteFile(filepath.Join(root, path), patched, 0o644); err != nil { //nolint:gosec
			return fmt.Errorf("write %s: %w", path, err)
		}
		ghlog.Logger.Info("applied fixes", "path", path, "count", len(patches))
	}
	return nil
}

func fixAllowed(safety fixer.Safety, mode string) bool {
	switch mode {
	case "all":
		return true
	case "unsafe-only":
		return safety == fixer.Unsafe
	default: // "safe"
		return safety == fixer.Safe
	}
}

// exitForFindings maps the highest visible severity to the documented exit
// code family: 0 clean, 11/12/13/14 informational/low/medium/high.
func exitForFindings(findings []audit.Finding) error {
	if flagNoExitCodes || render.Format(flagFormat) == render.FormatSARIF {
		return nil
	}
	highest, ok := render.HighestSeverity(findings)
	if !ok {
		return nil
	}
	code := 11 + int(highest)
	os.Exit(code)
	return nil
}

func buildVersion(version, commit, date, builtBy string) string {
	if version == "" {
		return "dev"
	}
	return fmt.Sprintf("%s (commit %s, built %s by %s)", version, commit, date, builtBy)
}
