// Package action is the typed schema view over a composite/JavaScript/
// Docker action.yml definition, mirroring schema/workflow's approach but
// over action.yml's distinct top-level shape (runs:/inputs:/outputs:
// instead of on:/jobs:).
package action

import (
	"github.com/octoguard/octoguard/internal/schema"
	"github.com/octoguard/octoguard/internal/yamlmodel"
	"github.com/octoguard/octoguard/internal/yamlpath"
)

// RunsKind discriminates the three action implementation kinds named in
// the glossary: JavaScript, Docker, composite.
type RunsKind int

const (
	RunsJavaScript RunsKind = iota
	RunsDocker
	RunsComposite
)

// Input is one `inputs.<name>:` entry.
type Input struct {
	Name        string
	Description string
	Required    bool
	Default     *schema.Spanned[string]
	Route       yamlpath.Route
}

// CompositeStep mirrors workflow.Step for composite action run sequences;
// composite steps share the same run:/uses: shape but never carry
// runs-on:.
type CompositeStep struct {
	ID    string
	Run   *schema.Spanned[string]
	Uses  *schema.Spanned[schema.Uses]
	Shell string
	If    *schema.Spanned[string]
	With  map[string]schema.Spanned[string]
	Env   map[string]schema.Spanned[string]
	Route yamlpath.Route
}

// Action is the decoded action.yml document.
type Action struct {
	Name        string
	Description string
	Inputs      map[string]*Input
	RunsKind    RunsKind
	Steps       []*CompositeStep // populated only for RunsComposite
	Image       string           // populated only for RunsDocker
	Main        string           // populated only for RunsJavaScript

	Tree *yamlmodel.Tree
}

// Decode builds a typed Action from a parsed yamlmodel.Tree.
func Decode(tree *yamlmodel.Tree) (*Action, error) {
	root := tree.Root
	a := &Action{Tree: tree, Inputs: map[string]*Input{}}

	if name, ok := root.MapGet("name"); ok {
		a.Name = name.ScalarValue
	}
	if desc, ok := root.MapGet("description"); ok {
		a.Description = desc.ScalarValue
	}

	if inputsNode, ok := root.MapGet("inputs"); ok && inputsNode.Kind == yamlmodel.KindMapping {
		for i, k := range inputsNode.Keys {
			route := yamlpath.Route{yamlpath.Key("inputs"), yamlpath.Key(k.ScalarValue)}
			a.Inputs[k.ScalarValue] = decodeInput(k.ScalarValue, inputsNode.Values[i], route)
		}
	}

	runsNode, ok := root.MapGet("runs")
	if !ok {
		return a, nil
	}
	usingNode, _ := runsNode.MapGet("using")
	using := ""
	if usingNode != nil {
		using = usingNode.ScalarValue
	}

	switch {
	case using == "composite":
		a.RunsKind = RunsComposite
		if stepsNode, ok := runsNode.MapGet("steps"); ok {
			route := yamlpath.Route{yamlpath.Key("runs"), yamlpath.Key("steps")}
			a.Steps = decodeCompositeSteps(stepsNode, route)
		}
	case using == "docker":
		a.RunsKind = RunsDocker
		if img, ok := runsNode.MapGet("image"); ok {
			a.Image = img.ScalarValue
		}
	default:
		a.RunsKind = RunsJavaScript
		if main, ok := runsNode.MapGet("main"); ok {
			a.Main = main.ScalarValue
		}
	}

	return a, nil
}

func decodeInput(name string, n *yamlmodel.Node, route yamlpath.Route) *Input {
	in := &Input{Name: name, Route: route}
	if desc, ok := n.MapGet("description"); ok {
		in.Description = desc.ScalarValue
	}
	if req, ok := n.MapGet("required"); ok {
		in.Required = req.ScalarValue == "true"
	}
	if def, ok := n.MapGet("default"); ok {
		sp := schema.NewSpanned(def.ScalarValue, route.Append(yamlpath.Key("default")))
		in.Default = &sp
	}
	return in
}

func decodeCompositeSteps(n *yamlmodel.Node, route yamlpath.Route) []*CompositeStep {
	if n.Kind != yamlmodel.KindSequence {
		return nil
	}
	steps := make([]*CompositeStep, 0, len(n.Items))
	for i, item := range n.Items {
		stepRoute := route.Append(yamlpath.Index(uint(i)))
		s := &CompositeStep{Route: stepRoute}
		if idNode, ok := item.MapGet("id"); ok {
			s.ID = idNode.ScalarValue
		}
		if runNode, ok := item.MapGet("run"); ok {
			sp := schema.NewSpanned(runNode.ScalarValue, stepRoute.Append(yamlpath.Key("run")))
			s.Run = &sp
		}
		if usesNode, ok := item.MapGet("uses"); ok {
			u, ok := schema.ParseUses(usesNode.ScalarValue)
			if ok {
				sp := schema.NewSpanned(u, stepRoute.Append(yamlpath.Key("uses")))
				s.Uses = &sp
			}
		}
		if shellNode, ok := item.MapGet("shell"); ok {
			s.Shell = shellNode.ScalarValue
		}
		if ifNode, ok := item.MapGet("if"); ok {
			sp := schema.NewSpanned(ifNode.ScalarValue, stepRoute.Append(yamlpath.Key("if")))
			s.If = &sp
		}
		if withNode, ok := item.MapGet("with"); ok && withNode.Kind == yamlmodel.KindMapping {
			s.With = make(map[string]schema.Spanned[string], len(withNode.Keys))
			for j, k := range withNode.Keys {
				r := stepRoute.Append(yamlpath.Key("with"), yamlpath.Key(k.ScalarValue))
				s.With[k.ScalarValue] = schema.NewSpanned(withNode.Values[j].ScalarValue, r)
			}
		}
		if envNode, ok := item.MapGet("env"); ok && envNode.Kind == yamlmodel.KindMapping {
			s.Env = make(map[string]schema.Spanned[string], len(envNode.Keys))
			for j, k := range envNode.Keys {
				r := stepRoute.Append(yamlpath.Key("env"), yamlpath.Key(k.ScalarValue))
				s.Env[k.ScalarValue] = schema.NewSpanned(envNode.Values[j].ScalarValue, r)
			}
		}
		steps = append(steps, s)
	}
	return steps
}
