package rules

import (
	"strings"

	"github.com/octoguard/octoguard/internal/audit"
	"github.com/octoguard/octoguard/internal/schema/workflow"
)

func init() { audit.Register(cachePoisoningAudit{}) }

// releaseTriggerNames are triggers indicating the workflow publishes an
// artifact off the back of this run, the case where a cache entry poisoned
// by an earlier, untrusted run becomes dangerous (the poisoned artifact
// gets shipped instead of merely affecting build speed).
var releaseTriggerNames = map[string]bool{
	"release": true,
}

type cachingAction struct {
	slug       string
	cacheInput string // with: input that must be "true" for setup-* actions; empty means always caches
}

var cachingActions = []cachingAction{
	{"actions/cache", ""},
	{"actions/setup-node", "cache"},
	{"actions/setup-python", "cache"},
	{"actions/setup-go", "cache"},
	{"actions/setup-java", "cache"},
	{"swatinem/rust-cache", ""},
}

type cachePoisoningAudit struct{}

func (cachePoisoningAudit) ID() string       { return "cache-poisoning" }
func (cachePoisoningAudit) Kind() audit.Kind { return audit.KindWorkflow }

func (cachePoisoningAudit) Check(c audit.Context) []audit.RawFinding {
	w := c.Decoded.(*workflow.Workflow)
	if !isReleasePublishing(w) {
		return nil
	}

	var findings []audit.RawFinding
	for _, job := range w.Jobs {
		for _, step := range job.Steps {
			if step.Uses == nil {
				continue
			}
			if !usesCachingAction(step) {
				continue
			}
			if isDisabledByCondition(step) || isDisabledByCondition(&workflow.Step{If: job.If}) {
				continue
			}
			findings = append(findings, audit.RawFinding{
				Description: step.Uses.Value.Slug() + " caches dependencies in a release-publishing workflow without a guarding condition",
				URL:         "https://adnanthekhan.com/2024/05/06/the-monsters-in-your-build-cache-github-actions-cache-poisoning/",
				Severity:    audit.Medium,
				Confidence:  audit.ConfidenceMedium,
				Persona:     audit.PersonaRegular,
				Locations:   []audit.SymbolicLocation{primary(c.Input.Key, step.Uses.Route)},
			})
		}
	}
	return findings
}

func isReleasePublishing(w *workflow.Workflow) bool {
	for _, t := range w.On {
		if releaseTriggerNames[t.Name] {
			return true
		}
		if t.Name == "push" && triggersOnTag(t) {
			return true
		}
	}
	return false
}

func triggersOnTag(t workflow.Trigger) bool {
	if t.Filter == nil {
		return false
	}
	_, ok := t.Filter.MapGet("tags")
	return ok
}

func usesCachingAction(step *workflow.Step) bool {
	slug := step.Uses.Value.Slug()
	for _, ca := range cachingActions {
		if slug != ca.slug {
			continue
		}
		if ca.cacheInput == "" {
			return true
		}
		v, ok := step.With[ca.cacheInput]
		return ok && strings.EqualFold(strings.TrimSpace(v.Value), "true")
	}
	return false
}

func isDisabledByCondition(step *workflow.Step) bool {
	return step.If != nil && strings.TrimSpace(step.If.Value) != ""
}
