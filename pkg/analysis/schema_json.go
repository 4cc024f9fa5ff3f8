// This file runs a JSON Schema structural check over the decoded document
// before the rule-based validators. The schema is deliberately permissive:
// it only pins the types of the shapes the rule checks assume (jobs is a
// mapping, steps is a sequence, ...), so it catches structural mistakes the
// rules would otherwise trip over, without duplicating the rules' own
// required-key findings.

package analysis

import (
	_ "embed"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/actionlens/actionlens/pkg/logger"
	"github.com/actionlens/actionlens/pkg/workflow"
	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

var schemaJSONLog = logger.New("analysis:schema_json")

//go:embed schemas/workflow_schema.json
var workflowSchemaJSON string

// compiledWorkflowSchema compiles the embedded schema once. A compile
// failure means the embedded asset is broken, which is a programming error,
// so it panics at first use rather than being silently skipped.
var compiledWorkflowSchema = sync.OnceValue(func() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(workflowSchemaJSON))
	if err != nil {
		panic("embedded workflow schema is not valid JSON: " + err.Error())
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("workflow.schema.json", doc); err != nil {
		panic("failed to register workflow schema: " + err.Error())
	}
	return compiler.MustCompile("workflow.schema.json")
})

// validateStructuralSchema checks the raw document against the embedded
// schema and converts violations into syntax-category findings. Decoding
// problems are ignored here: the structural parser already ran, and this
// check only refines an already-parsed document.
func validateStructuralSchema(raw string) []workflow.Finding {
	var decoded map[string]any
	if err := yaml.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil
	}

	// Round-trip through JSON so the instance only contains the types the
	// schema validator is specified over.
	data, err := json.Marshal(decoded)
	if err != nil {
		return nil
	}
	instance, err := jsonschema.UnmarshalJSON(strings.NewReader(string(data)))
	if err != nil {
		return nil
	}

	err = compiledWorkflowSchema().Validate(instance)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil
	}

	var findings []workflow.Finding
	for _, leaf := range leafCauses(verr) {
		schemaJSONLog.Printf("Structural schema violation: %v", leaf)
		findings = append(findings, workflow.Finding{
			Code:     "schema-structure-error",
			Severity: workflow.SeverityError,
			Message:  leaf.Error(),
			Category: workflow.CategorySyntax,
		})
	}
	return findings
}

// leafCauses flattens a validation error tree into its leaf violations.
func leafCauses(err *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(err.Causes) == 0 {
		return []*jsonschema.ValidationError{err}
	}
	var leaves []*jsonschema.ValidationError
	for _, cause := range err.Causes {
		leaves = append(leaves, leafCauses(cause)...)
	}
	return leaves
}
