package workflow

// Position is a 1-based source location used for diagnostic placement.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// ParsedStructure is the structural parse of a workflow document: the
// top-level keys mapped to typed nodes, every node carrying the source
// position it was parsed from. Fields for absent keys are zero/nil; the
// validators guard on presence instead of probing a dynamic map.
type ParsedStructure struct {
	Name        string
	NamePos     *Position // nil when the workflow has no name key
	On          *TriggerSpec
	Permissions *PermissionsSpec
	Env         []EnvVar
	Jobs        []*JobSpec // declaration order preserved
}

// Job returns the job with the given id, or nil.
func (s *ParsedStructure) Job(id string) *JobSpec {
	for _, job := range s.Jobs {
		if job.ID == id {
			return job
		}
	}
	return nil
}

// TriggerSpec is the parsed `on:` section, normalized to a flat event list
// regardless of whether the source used scalar, sequence, or mapping form.
type TriggerSpec struct {
	Events []Event
	Pos    Position
}

// HasEvent reports whether the trigger section contains the named event.
func (t *TriggerSpec) HasEvent(name string) bool {
	for _, ev := range t.Events {
		if ev.Name == name {
			return true
		}
	}
	return false
}

// Event is a single trigger event with its source position.
type Event struct {
	Name string
	Pos  Position
}

// PermissionsSpec is a workflow- or job-level permissions block. The scalar
// form ("write-all", "read-all") sets All; the mapping form fills Scopes.
type PermissionsSpec struct {
	All    string
	Scopes []PermissionScope
	Pos    Position
}

// PermissionScope is one scope: access pair from a permissions mapping.
type PermissionScope struct {
	Scope  string
	Access string
	Pos    Position
}

// EnvVar is a single environment variable (or `with:` input) assignment.
type EnvVar struct {
	Name  string
	Value string
	Pos   Position
}

// NeedRef is one entry of a job's `needs:` list.
type NeedRef struct {
	ID  string
	Pos Position
}

// MatrixAxis is a single strategy.matrix axis with its values rendered as
// strings. Only list-valued axes participate in combination counting;
// include/exclude entries are not axes.
type MatrixAxis struct {
	Name   string
	Values []string
	Pos    Position
}

// JobSpec is a single job definition. Needs entries are recorded as written;
// whether they reference existing jobs is a validation concern, not a parse
// concern.
type JobSpec struct {
	ID          string
	Pos         Position
	RunsOn      []string
	RunsOnPos   *Position // nil when runs-on is absent
	Needs       []NeedRef
	If          string
	Permissions *PermissionsSpec
	Env         []EnvVar
	Matrix      []MatrixAxis
	FailFast    *bool // nil when strategy.fail-fast is not set
	Steps       []*StepSpec
}

// NeedIDs returns the job's dependency ids in declaration order.
func (j *JobSpec) NeedIDs() []string {
	ids := make([]string, 0, len(j.Needs))
	for _, n := range j.Needs {
		ids = append(ids, n.ID)
	}
	return ids
}

// MatrixCombinations returns the product of all matrix axis lengths, or 0
// when the job has no matrix.
func (j *JobSpec) MatrixCombinations() int {
	if len(j.Matrix) == 0 {
		return 0
	}
	total := 1
	for _, axis := range j.Matrix {
		if len(axis.Values) > 0 {
			total *= len(axis.Values)
		}
	}
	return total
}

// StepSpec is a single step within a job. Exactly one of Uses/Run is
// expected to be set; both absent or both present is a validity finding
// produced by the schema validator, not a parse failure.
type StepSpec struct {
	Index   int // position within the job's step list
	Name    string
	Uses    string
	UsesPos *Position
	Run     string
	RunPos  *Position
	Env     []EnvVar
	With    []EnvVar
	Pos     Position
}

// IsUsesStep reports whether this step references an action.
func (s *StepSpec) IsUsesStep() bool {
	return s.Uses != ""
}

// IsRunStep reports whether this step runs a shell command.
func (s *StepSpec) IsRunStep() bool {
	return s.Run != ""
}
