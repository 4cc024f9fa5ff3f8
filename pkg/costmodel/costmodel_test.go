package costmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateCommandSeconds(t *testing.T) {
	tests := []struct {
		command string
		want    int
	}{
		{"npm ci", 90},
		{"npm install --legacy-peer-deps", 120},
		{"docker build -t app .", 360},
		{"mvn install -DskipTests", 300},
		{"echo hello", DefaultStepSeconds},
		{"NPM CI", 90}, // matching is case-insensitive
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateCommandSeconds(tt.command))
		})
	}
}

func TestEstimateCommandSecondsPicksLongestMatch(t *testing.T) {
	// A docker build that runs npm install inside matches both tables;
	// the larger estimate wins.
	assert.Equal(t, 360, EstimateCommandSeconds("docker build . && npm install"))
}

func TestDetectEcosystems(t *testing.T) {
	tests := []struct {
		command string
		want    []Ecosystem
	}{
		{"npm ci", []Ecosystem{EcosystemNode}},
		{"pip install -r requirements.txt", []Ecosystem{EcosystemPython}},
		{"docker build . && npm install", []Ecosystem{EcosystemNode, EcosystemDocker}},
		{"npm ci && npm install", []Ecosystem{EcosystemNode}},
		{"echo nothing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectEcosystems(tt.command))
		})
	}
}

func TestCacheSavings(t *testing.T) {
	assert.Equal(t, 60, CacheSavingSeconds[EcosystemNode])
	assert.Equal(t, 45, CacheSavingSeconds[EcosystemPython])
	assert.Equal(t, 120, CacheSavingSeconds[EcosystemJava])
	assert.Equal(t, 30, CacheSavingSeconds[EcosystemGo])
	assert.Equal(t, 90, CacheSavingSeconds[EcosystemDocker])
}

func TestCacheTypeFor(t *testing.T) {
	assert.Equal(t, CacheDockerLayers, CacheTypeFor(EcosystemDocker))
	assert.Equal(t, CacheDependencies, CacheTypeFor(EcosystemNode))
	assert.Equal(t, CacheDependencies, CacheTypeFor(EcosystemGo))
}

func TestCacheHintsCoverEveryEcosystem(t *testing.T) {
	for eco := range CacheSavingSeconds {
		hint, ok := CacheHints[eco]
		assert.True(t, ok, "missing cache hint for %s", eco)
		assert.NotEmpty(t, hint.Action)
		assert.NotEmpty(t, hint.Example)
	}
}

func TestSeverityPenaltyOrdering(t *testing.T) {
	assert.Greater(t, SeverityPenalty["error"], SeverityPenalty["warning"])
	assert.Greater(t, SeverityPenalty["warning"], SeverityPenalty["info"])
}

func TestIsHeavyCommand(t *testing.T) {
	assert.True(t, IsHeavyCommand("docker build -t app ."))
	assert.True(t, IsHeavyCommand("go build ./..."))
	assert.False(t, IsHeavyCommand("echo done"))
	assert.False(t, IsHeavyCommand("npm test"))
}

func TestIsStorageAction(t *testing.T) {
	assert.True(t, IsStorageAction("actions/checkout@v4"))
	assert.True(t, IsStorageAction("actions/download-artifact@v4"))
	assert.False(t, IsStorageAction("actions/setup-node@v4"))
}
