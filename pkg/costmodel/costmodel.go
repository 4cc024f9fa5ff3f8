// Package costmodel holds the fixed lookup tables shared by the performance
// analyzer and the execution simulator: per-command duration estimates,
// per-ecosystem cache savings, severity score penalties, and resource
// weights.
//
// The numbers are hand-tuned defaults, not a validated cost model. Consumers
// should depend on their relative ordering and on the conditions that
// trigger them, never on their exact magnitudes. All tables are read-only
// after package init; the analyzer holds no other state, which keeps every
// validate/simulate call a pure function of its inputs.
package costmodel

import "strings"

// Ecosystem identifies a dependency ecosystem detected from step commands.
type Ecosystem string

const (
	EcosystemNode   Ecosystem = "node"
	EcosystemPython Ecosystem = "python"
	EcosystemJava   Ecosystem = "java"
	EcosystemGo     Ecosystem = "go"
	EcosystemDocker Ecosystem = "docker"
)

// InstallPattern maps a shell-command substring to the ecosystem it
// installs dependencies for.
type InstallPattern struct {
	Substring string
	Ecosystem Ecosystem
}

// InstallPatterns is checked in order against every run step; the first
// match wins per pattern so one step can belong to several ecosystems
// (e.g. a docker build that runs npm install inside).
var InstallPatterns = []InstallPattern{
	{"npm ci", EcosystemNode},
	{"npm install", EcosystemNode},
	{"yarn install", EcosystemNode},
	{"pip install", EcosystemPython},
	{"mvn", EcosystemJava},
	{"go mod download", EcosystemGo},
	{"docker build", EcosystemDocker},
}

// CacheType distinguishes what a caching opportunity would cache.
type CacheType string

const (
	CacheDependencies CacheType = "dependencies"
	CacheDockerLayers CacheType = "docker-layers"
)

// CacheSavingSeconds estimates how many seconds a cache hit saves per run
// for each ecosystem.
var CacheSavingSeconds = map[Ecosystem]int{
	EcosystemNode:   60,
	EcosystemPython: 45,
	EcosystemJava:   120,
	EcosystemGo:     30,
	EcosystemDocker: 90,
}

// CacheTypeFor returns what kind of cache applies to an ecosystem.
func CacheTypeFor(eco Ecosystem) CacheType {
	if eco == EcosystemDocker {
		return CacheDockerLayers
	}
	return CacheDependencies
}

// CacheHint describes how to add caching for an ecosystem: the setup action
// whose built-in cache parameter covers it, or the generic cache action.
type CacheHint struct {
	Action  string
	Example string
}

// CacheHints maps each ecosystem to its idiomatic caching setup.
var CacheHints = map[Ecosystem]CacheHint{
	EcosystemNode: {
		Action:  "actions/setup-node",
		Example: "- uses: actions/setup-node@v4\n  with:\n    cache: npm",
	},
	EcosystemPython: {
		Action:  "actions/setup-python",
		Example: "- uses: actions/setup-python@v5\n  with:\n    cache: pip",
	},
	EcosystemJava: {
		Action:  "actions/setup-java",
		Example: "- uses: actions/setup-java@v4\n  with:\n    cache: maven",
	},
	EcosystemGo: {
		Action:  "actions/setup-go",
		Example: "- uses: actions/setup-go@v5\n  with:\n    cache: true",
	},
	EcosystemDocker: {
		Action:  "docker/build-push-action",
		Example: "- uses: docker/build-push-action@v6\n  with:\n    cache-from: type=gha\n    cache-to: type=gha,mode=max",
	},
}

// CommandDuration maps command substrings to estimated runtime in seconds.
// The same table drives bottleneck detection and the execution simulator so
// their estimates agree.
var CommandDuration = []struct {
	Substring string
	Seconds   int
}{
	{"mvn install", 300},
	{"mvn package", 240},
	{"docker build", 360},
	{"npm ci", 90},
	{"npm install", 120},
	{"yarn install", 100},
	{"pip install", 60},
	{"go build", 45},
	{"go test", 90},
	{"npm test", 60},
	{"npm run build", 90},
	{"cargo build", 180},
	{"gradle build", 240},
	{"make", 120},
}

// DefaultStepSeconds is the duration assumed for steps whose command does
// not appear in the table, and for action steps without a known cost.
const DefaultStepSeconds = 10

// SlowStepThresholdSeconds is the duration above which a step is flagged as
// a bottleneck.
const SlowStepThresholdSeconds = 60

// MaxMatrixCombinations is the point past which a matrix is flagged as
// inefficient.
const MaxMatrixCombinations = 20

// EstimateCommandSeconds looks up the estimated duration for a run command.
func EstimateCommandSeconds(command string) int {
	lower := strings.ToLower(command)
	best := 0
	for _, entry := range CommandDuration {
		if strings.Contains(lower, entry.Substring) && entry.Seconds > best {
			best = entry.Seconds
		}
	}
	if best == 0 {
		return DefaultStepSeconds
	}
	return best
}

// DetectEcosystems returns the ecosystems whose install commands appear in
// the given run command, in table order, without duplicates.
func DetectEcosystems(command string) []Ecosystem {
	lower := strings.ToLower(command)
	var found []Ecosystem
	seen := make(map[Ecosystem]bool)
	for _, pattern := range InstallPatterns {
		if strings.Contains(lower, pattern.Substring) && !seen[pattern.Ecosystem] {
			seen[pattern.Ecosystem] = true
			found = append(found, pattern.Ecosystem)
		}
	}
	return found
}

// SeverityPenalty is the score deduction per finding severity. The values
// keep a minimal checkout+cache+run workflow above 80.
var SeverityPenalty = map[string]int{
	"error":   15,
	"warning": 5,
	"info":    2,
}

// Resource weights for the simulator's synthetic usage model. Each step
// contributes the base weight; recognized heavy commands add more.
const (
	BaseCPUPerStep    = 1.0
	BaseMemoryPerStep = 1.0
	HeavyCPUBonus     = 4.0
	HeavyMemoryBonus  = 3.0
	StoragePerFetch   = 2.0
)

// heavyCommandSubstrings mark compiler- and container-grade workloads that
// dominate runner CPU and memory.
var heavyCommandSubstrings = []string{
	"docker build", "mvn", "gradle", "cargo build", "go build", "make", "webpack", "tsc",
}

// IsHeavyCommand reports whether a run command is a recognized heavy
// workload.
func IsHeavyCommand(command string) bool {
	lower := strings.ToLower(command)
	for _, sub := range heavyCommandSubstrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}

// storageActionSubstrings mark action references that pull data onto the
// runner disk.
var storageActionSubstrings = []string{
	"actions/checkout", "actions/cache", "actions/download-artifact", "actions/upload-artifact",
}

// IsStorageAction reports whether an action reference implies disk traffic.
func IsStorageAction(uses string) bool {
	lower := strings.ToLower(uses)
	for _, sub := range storageActionSubstrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}
