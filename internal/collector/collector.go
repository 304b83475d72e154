// Package collector finds the workflow, action, and Dependabot definitions a
// run should audit, generalizing the teacher's ValidateWorkflowFilePath
// single-file check into repository-wide discovery.
package collector

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Kind identifies what a discovered path contains, mirroring audit.Kind so
// a collected Document can be routed straight into the rule catalogue.
type Kind int

const (
	KindWorkflow Kind = iota
	KindAction
	KindDependabot
)

func (k Kind) String() string {
	switch k {
	case KindWorkflow:
		return "workflow"
	case KindAction:
		return "action"
	case KindDependabot:
		return "dependabot"
	default:
		return "unknown"
	}
}

// Document is one discovered file awaiting decode, relative to the
// repository root it was collected from.
type Document struct {
	Path string
	Kind Kind
}

var (
	workflowGlob   = ".github/workflows/*.{yml,yaml}"
	dependabotGlob = ".github/dependabot.{yml,yaml}"
	actionGlobs    = []string{
		"action.yml",
		"action.yaml",
		"**/action.yml",
		"**/action.yaml",
	}
)

// Collect walks root and returns every workflow, composite/Docker action,
// and Dependabot config it finds, skipping paths .gitignore excludes.
func Collect(root string) ([]Document, error) {
	ignore, err := loadGitignore(root)
	if err != nil {
		return nil, err
	}

	var docs []Document
	seen := map[string]bool{}

	add := func(pattern string, kind Kind) error {
		matches, err := doublestar.Glob(os.DirFS(root), pattern)
		if err != nil {
			return fmt.Errorf("glob %s: %w", pattern, err)
		}
		for _, m := range matches {
			if ignore.excludes(m) || seen[m] {
				continue
			}
			seen[m] = true
			docs = append(docs, Document{Path: m, Kind: kind})
		}
		return nil
	}

	if err := add(workflowGlob, KindWorkflow); err != nil {
		return nil, err
	}
	if err := add(dependabotGlob, KindDependabot); err != nil {
		return nil, err
	}
	for _, pattern := range actionGlobs {
		if err := add(pattern, KindAction); err != nil {
			return nil, err
		}
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

// gitignore is a minimal, directory-scoped exclusion list: enough to keep
// collection out of vendored or generated trees without pulling in a full
// gitignore-matching dependency the teacher's pack never reaches for.
type gitignore struct {
	patterns []string
}

func loadGitignore(root string) (gitignore, error) {
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if os.IsNotExist(err) {
		return gitignore{}, nil
	}
	if err != nil {
		return gitignore{}, fmt.Errorf("read .gitignore: %w", err)
	}

	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, strings.TrimSuffix(strings.TrimPrefix(line, "/"), "/"))
	}
	return gitignore{patterns: patterns}, nil
}

func (g gitignore) excludes(path string) bool {
	for _, p := range g.patterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
		if ok, _ := doublestar.Match(p+"/**", path); ok {
			return true
		}
		if strings.Contains(path, "/"+p+"/") || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
