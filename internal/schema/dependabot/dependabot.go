// Package dependabot is the typed schema view over .github/dependabot.yml,
// used by the dependabot-execution and dependabot-cooldown audits.
package dependabot

import (
	"github.com/octoguard/octoguard/internal/schema"
	"github.com/octoguard/octoguard/internal/yamlmodel"
	"github.com/octoguard/octoguard/internal/yamlpath"
)

// Cooldown is a `cooldown:` block on an update entry.
type Cooldown struct {
	DefaultDays     int
	SemverMajorDays int
	SemverMinorDays int
	SemverPatchDays int
	Route           yamlpath.Route
}

// Update is one `updates[]` entry.
type Update struct {
	PackageEcosystem string
	Directory        string
	Schedule         schema.Spanned[string] // interval, e.g. "daily"
	Cooldown         *Cooldown
	AllowList        []string
	Route            yamlpath.Route
}

// Config is the decoded document.
type Config struct {
	Version int
	Updates []*Update

	Tree *yamlmodel.Tree
}

// Decode builds a typed Config from a parsed yamlmodel.Tree.
func Decode(tree *yamlmodel.Tree) (*Config, error) {
	root := tree.Root
	c := &Config{Tree: tree}

	if v, ok := root.MapGet("version"); ok {
		c.Version = scalarInt(v.ScalarValue)
	}

	updatesNode, ok := root.MapGet("updates")
	if !ok || updatesNode.Kind != yamlmodel.KindSequence {
		return c, nil
	}
	for i, item := range updatesNode.Items {
		route := yamlpath.Route{yamlpath.Key("updates"), yamlpath.Index(uint(i))}
		c.Updates = append(c.Updates, decodeUpdate(item, route))
	}
	return c, nil
}

func decodeUpdate(n *yamlmodel.Node, route yamlpath.Route) *Update {
	u := &Update{Route: route}
	if eco, ok := n.MapGet("package-ecosystem"); ok {
		u.PackageEcosystem = eco.ScalarValue
	}
	if dir, ok := n.MapGet("directory"); ok {
		u.Directory = dir.ScalarValue
	}
	if sched, ok := n.MapGet("schedule"); ok {
		if interval, ok := sched.MapGet("interval"); ok {
			r := route.Append(yamlpath.Key("schedule"), yamlpath.Key("interval"))
			u.Schedule = schema.NewSpanned(interval.ScalarValue, r)
		}
	}
	if cd, ok := n.MapGet("cooldown"); ok {
		cdRoute := route.Append(yamlpath.Key("cooldown"))
		cooldown := &Cooldown{Route: cdRoute}
		if d, ok := cd.MapGet("default-days"); ok {
			cooldown.DefaultDays = scalarInt(d.ScalarValue)
		}
		if d, ok := cd.MapGet("semver-major-days"); ok {
			cooldown.SemverMajorDays = scalarInt(d.ScalarValue)
		}
		if d, ok := cd.MapGet("semver-minor-days"); ok {
			cooldown.SemverMinorDays = scalarInt(d.ScalarValue)
		}
		if d, ok := cd.MapGet("semver-patch-days"); ok {
			cooldown.SemverPatchDays = scalarInt(d.ScalarValue)
		}
		u.Cooldown = cooldown
	}
	if allow, ok := n.MapGet("allow"); ok && allow.Kind == yamlmodel.KindSequence {
		for _, item := range allow.Items {
			if dep, ok := item.MapGet("dependency-name"); ok {
				u.AllowList = append(u.AllowList, dep.ScalarValue)
			}
		}
	}
	return u
}

func scalarInt(s string) int {
	n := 0
	neg := false
	for i, c := range s {
		if i == 0 && c == '-' {
			neg = true
			continue
		}
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return n
}

// CooldownCapableEcosystems is the hard-coded allowlist of Dependabot
// ecosystems that support cooldown. opentofu/terraform are deliberately
// excluded: cooldown support for them is not confirmed, and the list is
// replicated rather than inferred from a general rule.
var CooldownCapableEcosystems = map[string]bool{
	"npm": true, "pip": true, "bundler": true, "cargo": true,
	"docker": true, "github-actions": true, "gomod": true,
	"maven": true, "nuget": true, "composer": true,
}
