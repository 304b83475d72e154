package workflow

import (
	"fmt"

	"github.com/octoguard/octoguard/internal/schema"
	"github.com/octoguard/octoguard/internal/yamlmodel"
	"github.com/octoguard/octoguard/internal/yamlpath"
)

// DecodeError is a fatal schema-shape mismatch, e.g. a step with both
// run: and uses:. these invariant violations are fatal at
// parse time rather than producing a degraded partial model.
type DecodeError struct {
	Route   yamlpath.Route
	Message string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Route, e.Message)
}

// Decode builds a typed Workflow from a parsed yamlmodel.Tree.
func Decode(tree *yamlmodel.Tree) (*Workflow, error) {
	root := tree.Root
	w := &Workflow{Tree: tree}

	if name, ok := mapGetFold(root, "name"); ok {
		w.Name = name.ScalarValue
	}

	onKey, onNode, ok := mapGetFoldNode(root, "on")
	if ok {
		triggers, err := decodeOn(onNode, yamlpath.Route{yamlpath.Key(onKey)})
		if err != nil {
			return nil, err
		}
		w.On = triggers
	}

	if permNode, ok := mustGet(root, "permissions"); ok {
		w.Permissions = decodePermissions(permNode, yamlpath.Route{yamlpath.Key("permissions")})
	} else {
		w.Permissions = &Permissions{Absent: true, Route: yamlpath.Route{yamlpath.Key("permissions")}}
	}

	w.Env = decodeEnvMap(root, yamlpath.Route{yamlpath.Key("env")})

	if concNode, ok := mustGet(root, "concurrency"); ok {
		w.Concurrency = concNode
	}

	jobsNode, ok := mustGet(root, "jobs")
	if ok {
		jobs, err := decodeJobs(jobsNode)
		if err != nil {
			return nil, err
		}
		w.Jobs = jobs
	}

	return w, nil
}

func mustGet(n *yamlmodel.Node, key string) (*yamlmodel.Node, bool) {
	return n.MapGet(key)
}

// mapGetFold looks up a mapping key case-insensitively and folding the
// quoted-key form ('on': push), returning the value node.
func mapGetFold(n *yamlmodel.Node, key string) (*yamlmodel.Node, bool) {
	if n == nil || n.Kind != yamlmodel.KindMapping {
		return nil, false
	}
	for i, k := range n.Keys {
		if equalFoldASCII(k.ScalarValue, key) {
			return n.Values[i], true
		}
	}
	return nil, false
}

func mapGetFoldNode(n *yamlmodel.Node, key string) (string, *yamlmodel.Node, bool) {
	if n == nil || n.Kind != yamlmodel.KindMapping {
		return "", nil, false
	}
	for i, k := range n.Keys {
		if equalFoldASCII(k.ScalarValue, key) {
			return k.ScalarValue, n.Values[i], true
		}
	}
	return "", nil, false
}

// decodeOn normalizes the three lexical forms of `on:` (scalar, sequence,
// mapping) into a flat trigger list.
func decodeOn(n *yamlmodel.Node, route yamlpath.Route) ([]Trigger, error) {
	if n == nil {
		return nil, nil
	}
	switch n.Kind {
	case yamlmodel.KindScalar:
		return []Trigger{{Name: n.ScalarValue, Route: route}}, nil
	case yamlmodel.KindSequence:
		var out []Trigger
		for i, item := range n.Items {
			r := route.Append(yamlpath.Index(uint(i)))
			if item.Kind == yamlmodel.KindScalar {
				out = append(out, Trigger{Name: item.ScalarValue, Route: r})
			}
		}
		return out, nil
	case yamlmodel.KindMapping:
		var out []Trigger
		for i, k := range n.Keys {
			r := route.Append(yamlpath.Key(k.ScalarValue))
			out = append(out, Trigger{Name: k.ScalarValue, Filter: n.Values[i], Route: r})
		}
		return out, nil
	default:
		return nil, &DecodeError{Route: route, Message: "on: has an unsupported shape"}
	}
}

var knownScopes = []string{
	"actions", "attestations", "checks", "contents", "deployments",
	"discussions", "id-token", "issues", "models", "packages", "pages",
	"pull-requests", "repository-projects", "security-events", "statuses",
}

// decodePermissions normalizes blanket (read-all/write-all), empty-mapping,
// and per-scope mapping forms.
func decodePermissions(n *yamlmodel.Node, route yamlpath.Route) *Permissions {
	if n == nil {
		return &Permissions{Absent: true, Route: route}
	}
	if n.Kind == yamlmodel.KindScalar {
		level := PermissionRead
		if n.ScalarValue == "write-all" {
			level = PermissionWrite
		}
		if n.ScalarValue == "none" {
			level = PermissionNone
		}
		scopes := make(map[string]PermissionLevel, len(knownScopes))
		for _, s := range knownScopes {
			scopes[s] = level
		}
		return &Permissions{Blanket: true, Scopes: scopes, Route: route}
	}
	scopes := make(map[string]PermissionLevel, len(n.Keys))
	for i, k := range n.Keys {
		level := PermissionLevel(n.Values[i].ScalarValue)
		scopes[k.ScalarValue] = level
	}
	return &Permissions{Scopes: scopes, Route: route}
}

// Allows reports whether scope is granted at least PermissionRead.
func (p *Permissions) Allows(scope string) bool {
	if p == nil {
		return false
	}
	lvl, ok := p.Scopes[scope]
	return ok && lvl != PermissionNone
}

// WritesScope reports whether scope is granted PermissionWrite.
func (p *Permissions) WritesScope(scope string) bool {
	if p == nil {
		return false
	}
	return p.Scopes[scope] == PermissionWrite
}

func decodeEnvMap(n *yamlmodel.Node, route yamlpath.Route) map[string]schema.Spanned[string] {
	envNode, ok := n.MapGet("env")
	if !ok || envNode.Kind != yamlmodel.KindMapping {
		return nil
	}
	out := make(map[string]schema.Spanned[string], len(envNode.Keys))
	for i, k := range envNode.Keys {
		r := route.Append(yamlpath.Key(k.ScalarValue))
		out[k.ScalarValue] = schema.NewSpanned(envNode.Values[i].ScalarValue, r)
	}
	return out
}

func decodeJobs(n *yamlmodel.Node) ([]*Job, error) {
	if n.Kind != yamlmodel.KindMapping {
		return nil, &DecodeError{Route: yamlpath.Route{yamlpath.Key("jobs")}, Message: "jobs: must be a mapping"}
	}
	jobs := make([]*Job, 0, len(n.Keys))
	for i, k := range n.Keys {
		route := yamlpath.Route{yamlpath.Key("jobs"), yamlpath.Key(k.ScalarValue)}
		job, err := decodeJob(k.ScalarValue, n.Values[i], route)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func decodeJob(id string, n *yamlmodel.Node, route yamlpath.Route) (*Job, error) {
	j := &Job{ID: id, Route: route}

	if name, ok := n.MapGet("name"); ok {
		j.Name = name.ScalarValue
	}
	if runsOn, ok := n.MapGet("runs-on"); ok {
		j.RunsOn = runsOn
	}
	if usesNode, ok := n.MapGet("uses"); ok {
		u, ok := schema.ParseUses(usesNode.ScalarValue)
		if ok {
			sp := schema.NewSpanned(u, route.Append(yamlpath.Key("uses")))
			j.Uses = &sp
		}
	}
	if permNode, ok := n.MapGet("permissions"); ok {
		j.Permissions = decodePermissions(permNode, route.Append(yamlpath.Key("permissions")))
	}
	j.Env = decodeEnvMap(n, route)
	if ifNode, ok := n.MapGet("if"); ok {
		sp := schema.NewSpanned(ifNode.ScalarValue, route.Append(yamlpath.Key("if")))
		j.If = &sp
	}
	if needsNode, ok := n.MapGet("needs"); ok {
		j.Needs = scalarList(needsNode)
	}
	if stratNode, ok := n.MapGet("strategy"); ok {
		j.Strategy = decodeStrategy(stratNode, route.Append(yamlpath.Key("strategy")))
	}
	if contNode, ok := n.MapGet("container"); ok {
		j.Container = decodeContainer(contNode, route.Append(yamlpath.Key("container")))
	}
	if svcNode, ok := n.MapGet("services"); ok && svcNode.Kind == yamlmodel.KindMapping {
		j.Services = make(map[string]*Container, len(svcNode.Keys))
		for i, k := range svcNode.Keys {
			svcRoute := route.Append(yamlpath.Key("services"), yamlpath.Key(k.ScalarValue))
			j.Services[k.ScalarValue] = decodeContainer(svcNode.Values[i], svcRoute)
		}
	}
	if secretsNode, ok := n.MapGet("secrets"); ok {
		if secretsNode.Kind == yamlmodel.KindScalar && secretsNode.ScalarValue == "inherit" {
			j.SecretsInherit = true
		} else if secretsNode.Kind == yamlmodel.KindMapping {
			j.Secrets = make(map[string]schema.Spanned[string], len(secretsNode.Keys))
			for i, k := range secretsNode.Keys {
				r := route.Append(yamlpath.Key("secrets"), yamlpath.Key(k.ScalarValue))
				j.Secrets[k.ScalarValue] = schema.NewSpanned(secretsNode.Values[i].ScalarValue, r)
			}
		}
	}

	if stepsNode, ok := n.MapGet("steps"); ok {
		steps, err := decodeSteps(stepsNode, route.Append(yamlpath.Key("steps")))
		if err != nil {
			return nil, err
		}
		j.Steps = steps
	}

	return j, nil
}

func scalarList(n *yamlmodel.Node) []string {
	if n == nil {
		return nil
	}
	if n.Kind == yamlmodel.KindScalar {
		return []string{n.ScalarValue}
	}
	var out []string
	for _, item := range n.Items {
		if item.Kind == yamlmodel.KindScalar {
			out = append(out, item.ScalarValue)
		}
	}
	return out
}

func decodeStrategy(n *yamlmodel.Node, route yamlpath.Route) *Strategy {
	s := &Strategy{Route: route}
	if matrix, ok := n.MapGet("matrix"); ok {
		s.Matrix = matrix
	}
	if ff, ok := n.MapGet("fail-fast"); ok {
		s.HasFailFast = true
		s.FailFast = ff.ScalarValue != "false"
	}
	return s
}

func decodeContainer(n *yamlmodel.Node, route yamlpath.Route) *Container {
	c := &Container{Route: route}
	if n.Kind == yamlmodel.KindScalar {
		c.Image = schema.NewSpanned(n.ScalarValue, route)
		return c
	}
	if imgNode, ok := n.MapGet("image"); ok {
		c.Image = schema.NewSpanned(imgNode.ScalarValue, route.Append(yamlpath.Key("image")))
	}
	if credNode, ok := n.MapGet("credentials"); ok {
		credRoute := route.Append(yamlpath.Key("credentials"))
		cred := &Credentials{}
		if u, ok := credNode.MapGet("username"); ok {
			cred.Username = schema.NewSpanned(u.ScalarValue, credRoute.Append(yamlpath.Key("username")))
		}
		if p, ok := credNode.MapGet("password"); ok {
			cred.Password = schema.NewSpanned(p.ScalarValue, credRoute.Append(yamlpath.Key("password")))
		}
		c.Credentials = cred
	}
	return c
}

func decodeSteps(n *yamlmodel.Node, route yamlpath.Route) ([]*Step, error) {
	if n.Kind != yamlmodel.KindSequence {
		return nil, &DecodeError{Route: route, Message: "steps: must be a sequence"}
	}
	steps := make([]*Step, 0, len(n.Items))
	for i, item := range n.Items {
		stepRoute := route.Append(yamlpath.Index(uint(i)))
		step, err := decodeStep(item, stepRoute)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func decodeStep(n *yamlmodel.Node, route yamlpath.Route) (*Step, error) {
	s := &Step{Route: route}
	if idNode, ok := n.MapGet("id"); ok {
		s.ID = idNode.ScalarValue
	}
	if nameNode, ok := n.MapGet("name"); ok {
		s.Name = nameNode.ScalarValue
	}

	_, hasRun := n.MapGet("run")
	_, hasUses := n.MapGet("uses")
	if hasRun && hasUses {
		return nil, &DecodeError{Route: route, Message: "step has both run: and uses:"}
	}

	if runNode, ok := n.MapGet("run"); ok {
		sp := schema.NewSpanned(runNode.ScalarValue, route.Append(yamlpath.Key("run")))
		s.Run = &sp
	}
	if usesNode, ok := n.MapGet("uses"); ok {
		u, ok := schema.ParseUses(usesNode.ScalarValue)
		if ok {
			sp := schema.NewSpanned(u, route.Append(yamlpath.Key("uses")))
			s.Uses = &sp
		}
	}
	if shellNode, ok := n.MapGet("shell"); ok {
		s.Shell = shellNode.ScalarValue
	}
	if ifNode, ok := n.MapGet("if"); ok {
		sp := schema.NewSpanned(ifNode.ScalarValue, route.Append(yamlpath.Key("if")))
		s.If = &sp
	}
	if withNode, ok := n.MapGet("with"); ok && withNode.Kind == yamlmodel.KindMapping {
		s.With = make(map[string]schema.Spanned[string], len(withNode.Keys))
		for i, k := range withNode.Keys {
			r := route.Append(yamlpath.Key("with"), yamlpath.Key(k.ScalarValue))
			s.With[k.ScalarValue] = schema.NewSpanned(withNode.Values[i].ScalarValue, r)
		}
	}
	if envNode, ok := n.MapGet("env"); ok && envNode.Kind == yamlmodel.KindMapping {
		s.Env = make(map[string]schema.Spanned[string], len(envNode.Keys))
		for i, k := range envNode.Keys {
			r := route.Append(yamlpath.Key("env"), yamlpath.Key(k.ScalarValue))
			s.Env[k.ScalarValue] = schema.NewSpanned(envNode.Values[i].ScalarValue, r)
		}
	}
	return s, nil
}
