package rules

import (
	"strings"

	"github.com/octoguard/octoguard/internal/fixer"
	"github.com/octoguard/octoguard/internal/yamlmodel"
	"github.com/octoguard/octoguard/internal/yamlpath"
)

// insertMappingKeyFix builds a patch inserting a new "key: value" entry at
// the end of the mapping node found at route within root, indented to match
// the mapping's existing keys. If the mapping cannot be located, it returns
// a no-op patch (the caller still reports the finding; only the fix is
// skipped — "auto-fix failures leave the finding in the report"
// contract).
func insertMappingKeyFix(root *yamlmodel.Node, route yamlpath.Route, key, value string) fixer.Patch {
	node, ok := yamlpath.Query(root, route)
	if !ok || node.Kind != yamlmodel.KindMapping {
		return fixer.Patch{Safety: fixer.Safe}
	}

	indent := "  "
	if len(node.Keys) > 0 {
		indent = strings.Repeat(" ", node.Keys[0].Column-1)
	}

	for i, k := range node.Keys {
		if k.ScalarValue == key {
			return fixer.Patch{Safety: fixer.Safe, Edits: []fixer.Edit{
				{Kind: fixer.EditReplace, Start: node.Values[i].FullSpan.Start, End: node.Values[i].FullSpan.End, Text: value},
			}}
		}
	}

	text := "\n" + indent + key + ": " + value
	return fixer.Patch{Safety: fixer.Safe, Edits: []fixer.Edit{
		{Kind: fixer.EditInsert, Start: node.FullSpan.End, End: node.FullSpan.End, Text: text},
	}}
}

// insertStepSubMappingKeyFix inserts key: value into the sub-mapping named
// section (e.g. "with") of the mapping at route, creating section: as a new
// key if it is absent, matching merge-into semantics.
func insertStepSubMappingKeyFix(root *yamlmodel.Node, route yamlpath.Route, section, key, value string) fixer.Patch {
	node, ok := yamlpath.Query(root, route)
	if !ok || node.Kind != yamlmodel.KindMapping {
		return fixer.Patch{Safety: fixer.Safe}
	}

	if sub, ok := node.MapGet(section); ok && sub.Kind == yamlmodel.KindMapping {
		return insertMappingKeyFix(root, route.Append(yamlpath.Key(section)), key, value)
	}

	indent := "  "
	if len(node.Keys) > 0 {
		indent = strings.Repeat(" ", node.Keys[0].Column-1)
	}
	text := "\n" + indent + section + ":\n" + indent + "  " + key + ": " + value
	return fixer.Patch{Safety: fixer.Safe, Edits: []fixer.Edit{
		{Kind: fixer.EditInsert, Start: node.FullSpan.End, End: node.FullSpan.End, Text: text},
	}}
}
