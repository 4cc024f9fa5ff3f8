package workflow

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/actionlens/actionlens/pkg/logger"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
)

var parseLog = logger.New("workflow:parse")

// SyntaxErrorCode is the finding code for YAML parse failures.
const SyntaxErrorCode = "yaml-syntax-error"

// errorLocationRegex extracts the [line:column] prefix goccy embeds in its
// error messages.
var errorLocationRegex = regexp.MustCompile(`\[(\d+):(\d+)\]`)

// Parse turns raw workflow text into a ParsedStructure. It never panics and
// never returns a Go error: malformed YAML is converted into a fatal syntax
// Finding with best-effort line/column, and the structure is nil in that
// case. An empty document parses to an empty structure; the schema validator
// reports the missing sections.
func Parse(raw string) (*ParsedStructure, *Finding) {
	file, err := parser.ParseBytes([]byte(raw), 0)
	if err != nil {
		parseLog.Printf("YAML parse failed: %v", err)
		f := syntaxFinding(err)
		return nil, &f
	}

	if len(file.Docs) == 0 || file.Docs[0].Body == nil {
		parseLog.Print("Empty workflow document")
		return &ParsedStructure{}, nil
	}

	body := unwrap(file.Docs[0].Body)
	entries := mappingEntries(body)
	if entries == nil {
		f := NewFinding(SyntaxErrorCode, SeverityError, CategorySyntax,
			"workflow root must be a mapping", nodePos(body))
		return nil, &f
	}

	structure := &ParsedStructure{}
	for _, entry := range entries {
		key := keyText(entry.Key)
		value := unwrap(entry.Value)
		switch key {
		case "name":
			structure.Name = scalarText(value)
			p := nodePos(entry.Key)
			structure.NamePos = &p
		case "on", "true": // YAML 1.1 parsers may read a bare `on` key as a boolean
			structure.On = parseTrigger(value, nodePos(entry.Key))
		case "permissions":
			structure.Permissions = parsePermissions(value, nodePos(entry.Key))
		case "env":
			structure.Env = parseEnvVars(value)
		case "jobs":
			structure.Jobs = parseJobs(value)
		}
	}

	parseLog.Printf("Parsed workflow: jobs=%d, has_on=%v", len(structure.Jobs), structure.On != nil)
	return structure, nil
}

// syntaxFinding converts a parser error into a fatal syntax Finding,
// recovering the source location from the error text when present.
func syntaxFinding(err error) Finding {
	line, column := 0, 0
	if m := errorLocationRegex.FindStringSubmatch(err.Error()); m != nil {
		line, _ = strconv.Atoi(m[1])
		column, _ = strconv.Atoi(m[2])
	}

	// Strip the location prefix and any source snippet goccy appends.
	message := err.Error()
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		message = message[:idx]
	}
	message = strings.TrimSpace(errorLocationRegex.ReplaceAllString(message, ""))

	return Finding{
		Code:     SyntaxErrorCode,
		Severity: SeverityError,
		Message:  fmt.Sprintf("YAML syntax error: %s", message),
		Line:     line,
		Column:   column,
		Category: CategorySyntax,
	}
}

// parseTrigger normalizes the `on:` section. All three YAML forms are
// accepted: scalar (on: push), sequence (on: [push, pull_request]), and
// mapping (on: {push: {branches: [main]}}).
func parseTrigger(node ast.Node, keyPos Position) *TriggerSpec {
	spec := &TriggerSpec{Pos: keyPos}

	switch n := node.(type) {
	case *ast.SequenceNode:
		for _, item := range n.Values {
			item = unwrap(item)
			if name := scalarText(item); name != "" {
				spec.Events = append(spec.Events, Event{Name: name, Pos: nodePos(item)})
			}
		}
	default:
		if entries := mappingEntries(node); entries != nil {
			for _, entry := range entries {
				spec.Events = append(spec.Events, Event{Name: keyText(entry.Key), Pos: nodePos(entry.Key)})
			}
		} else if name := scalarText(node); name != "" {
			spec.Events = append(spec.Events, Event{Name: name, Pos: nodePos(node)})
		}
	}
	return spec
}

// parsePermissions handles both the scalar form (permissions: write-all) and
// the mapping form (permissions: {contents: read}).
func parsePermissions(node ast.Node, keyPos Position) *PermissionsSpec {
	spec := &PermissionsSpec{Pos: keyPos}

	if entries := mappingEntries(node); entries != nil {
		for _, entry := range entries {
			spec.Scopes = append(spec.Scopes, PermissionScope{
				Scope:  keyText(entry.Key),
				Access: scalarText(unwrap(entry.Value)),
				Pos:    nodePos(entry.Key),
			})
		}
		return spec
	}

	spec.All = scalarText(node)
	if spec.All != "" {
		spec.Pos = nodePos(node)
	}
	return spec
}

// parseEnvVars parses an env or with mapping into ordered name/value pairs.
func parseEnvVars(node ast.Node) []EnvVar {
	entries := mappingEntries(node)
	if entries == nil {
		return nil
	}
	vars := make([]EnvVar, 0, len(entries))
	for _, entry := range entries {
		vars = append(vars, EnvVar{
			Name:  keyText(entry.Key),
			Value: scalarText(unwrap(entry.Value)),
			Pos:   nodePos(entry.Key),
		})
	}
	return vars
}

// parseJobs parses the jobs mapping, preserving declaration order.
func parseJobs(node ast.Node) []*JobSpec {
	entries := mappingEntries(node)
	if entries == nil {
		return nil
	}

	jobs := make([]*JobSpec, 0, len(entries))
	for _, entry := range entries {
		job := parseJob(keyText(entry.Key), nodePos(entry.Key), unwrap(entry.Value))
		jobs = append(jobs, job)
	}
	return jobs
}

func parseJob(id string, pos Position, node ast.Node) *JobSpec {
	job := &JobSpec{ID: id, Pos: pos}

	for _, entry := range mappingEntries(node) {
		key := keyText(entry.Key)
		value := unwrap(entry.Value)
		switch key {
		case "runs-on":
			p := nodePos(value)
			job.RunsOnPos = &p
			if seq, ok := value.(*ast.SequenceNode); ok {
				for _, item := range seq.Values {
					if runner := scalarText(unwrap(item)); runner != "" {
						job.RunsOn = append(job.RunsOn, runner)
					}
				}
			} else if runner := scalarText(value); runner != "" {
				job.RunsOn = []string{runner}
			}
		case "needs":
			if seq, ok := value.(*ast.SequenceNode); ok {
				for _, item := range seq.Values {
					item = unwrap(item)
					if dep := scalarText(item); dep != "" {
						job.Needs = append(job.Needs, NeedRef{ID: dep, Pos: nodePos(item)})
					}
				}
			} else if dep := scalarText(value); dep != "" {
				job.Needs = append(job.Needs, NeedRef{ID: dep, Pos: nodePos(value)})
			}
		case "if":
			job.If = scalarText(value)
		case "permissions":
			job.Permissions = parsePermissions(value, nodePos(entry.Key))
		case "env":
			job.Env = parseEnvVars(value)
		case "strategy":
			parseStrategy(job, value)
		case "steps":
			job.Steps = parseSteps(value)
		}
	}
	return job
}

// parseStrategy extracts matrix axes and the fail-fast setting.
func parseStrategy(job *JobSpec, node ast.Node) {
	for _, entry := range mappingEntries(node) {
		switch keyText(entry.Key) {
		case "matrix":
			for _, axis := range mappingEntries(unwrap(entry.Value)) {
				name := keyText(axis.Key)
				// include/exclude refine combinations, they are not axes.
				if name == "include" || name == "exclude" {
					continue
				}
				values := unwrap(axis.Value)
				seq, ok := values.(*ast.SequenceNode)
				if !ok {
					continue
				}
				ma := MatrixAxis{Name: name, Pos: nodePos(axis.Key)}
				for _, v := range seq.Values {
					ma.Values = append(ma.Values, scalarText(unwrap(v)))
				}
				job.Matrix = append(job.Matrix, ma)
			}
		case "fail-fast":
			ff := scalarText(unwrap(entry.Value)) == "true"
			job.FailFast = &ff
		}
	}
}

func parseSteps(node ast.Node) []*StepSpec {
	seq, ok := node.(*ast.SequenceNode)
	if !ok {
		return nil
	}

	steps := make([]*StepSpec, 0, len(seq.Values))
	for i, item := range seq.Values {
		item = unwrap(item)
		step := &StepSpec{Index: i, Pos: nodePos(item)}
		for _, entry := range mappingEntries(item) {
			value := unwrap(entry.Value)
			switch keyText(entry.Key) {
			case "name":
				step.Name = scalarText(value)
			case "uses":
				step.Uses = scalarText(value)
				p := nodePos(value)
				step.UsesPos = &p
			case "run":
				step.Run = scalarText(value)
				p := nodePos(value)
				step.RunPos = &p
			case "env":
				step.Env = parseEnvVars(value)
			case "with":
				step.With = parseEnvVars(value)
			}
		}
		steps = append(steps, step)
	}
	return steps
}

// unwrap strips anchor and tag wrappers so callers see the underlying node.
func unwrap(node ast.Node) ast.Node {
	for {
		switch n := node.(type) {
		case *ast.AnchorNode:
			node = n.Value
		case *ast.TagNode:
			node = n.Value
		default:
			return node
		}
	}
}

// mappingEntries normalizes the two AST shapes goccy produces for mappings:
// a MappingNode for multi-entry maps and a bare MappingValueNode for
// single-entry maps. Non-mapping nodes return nil.
func mappingEntries(node ast.Node) []*ast.MappingValueNode {
	switch n := node.(type) {
	case *ast.MappingNode:
		return n.Values
	case *ast.MappingValueNode:
		return []*ast.MappingValueNode{n}
	default:
		return nil
	}
}

// keyText returns the literal text of a mapping key. The raw token value is
// used so keys like `on` keep their source spelling even if the YAML parser
// types them as booleans.
func keyText(key ast.Node) string {
	if key == nil {
		return ""
	}
	tok := key.GetToken()
	if tok == nil {
		return ""
	}
	return strings.Trim(tok.Value, `"'`)
}

// scalarText renders a scalar node as its string value. Non-scalar nodes
// return empty.
func scalarText(node ast.Node) string {
	switch n := node.(type) {
	case *ast.StringNode:
		return n.Value
	case *ast.LiteralNode:
		if n.Value != nil {
			return n.Value.Value
		}
		return ""
	case *ast.IntegerNode:
		return fmt.Sprint(n.Value)
	case *ast.FloatNode:
		return fmt.Sprint(n.Value)
	case *ast.BoolNode:
		return fmt.Sprint(n.Value)
	case *ast.NullNode:
		return ""
	default:
		return ""
	}
}

// nodePos extracts the 1-based source position of a node.
func nodePos(node ast.Node) Position {
	if node == nil {
		return Position{}
	}
	tok := node.GetToken()
	if tok == nil || tok.Position == nil {
		return Position{}
	}
	return Position{Line: tok.Position.Line, Column: tok.Position.Column}
}
