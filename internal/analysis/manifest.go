package analysis

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// File names inside a run directory.
const (
	// ResultsFile holds the per-mutant verdicts as CSV.
	ResultsFile = "results.csv"

	// ManifestFile holds the run manifest as YAML.
	ManifestFile = "run.yaml"
)

// Manifest records everything needed to interpret and reproduce a
// mutation run: the sampling parameters, the sandbox image, and the
// aggregate outcome.
type Manifest struct {
	RunID              string    `yaml:"runId"`
	Seed               int64     `yaml:"seed"`
	SampleSize         int       `yaml:"sampleSize"`
	CandidateCount     int       `yaml:"candidateCount"`
	Image              string    `yaml:"image"`
	TestTimeoutSeconds int       `yaml:"testTimeoutSeconds"`
	StartedAt          time.Time `yaml:"startedAt"`
	FinishedAt         time.Time `yaml:"finishedAt"`
	Score              float64   `yaml:"score"`
	Killed             int       `yaml:"killed"`
	Survived           int       `yaml:"survived"`
	Timeout            int       `yaml:"timeout"`
	Errors             int       `yaml:"errors"`
}

// WriteManifest serializes the manifest as YAML to path.
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling run manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing run manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a run manifest from path.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing run manifest %s: %w", path, err)
	}
	return &m, nil
}
