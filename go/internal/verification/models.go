package verification

import (
	"fmt"

	"github.com/cyberescape/backend/go/internal/models"
)

// Puzzle keys whose portions make up the final password. The validators
// behind them live outside this service; only the echoed portions reach it.
const (
	PuzzleCaesar            = "caesar"
	PuzzlePhishing          = "phishing"
	PuzzleStrongestPassword = "strongestPassword"
	PuzzleOsint             = "osint"
)

// VerifyFinalRequest carries a team's final submission: the combined
// password, the suspect pick and the portions echoed from each sub-puzzle.
type VerifyFinalRequest struct {
	Team     string            `json:"team"`
	Password string            `json:"password"`
	Suspect  int               `json:"suspect"`
	Answers  map[string]string `json:"answers"`
}

// VerifyFinalResult reports the outcome of a final submission. A wrong
// password or suspect is Success=false, not an error.
type VerifyFinalResult struct {
	Success         bool         `json:"success"`
	Badge           models.Badge `json:"badge,omitempty"`
	DurationSeconds int          `json:"duration_seconds,omitempty"`
}

// SaveScoreRequest is the untimed scoring path. The duration is
// caller-supplied, so this path carries no anti-tampering guarantee.
type SaveScoreRequest struct {
	Team            string `json:"team"`
	DurationSeconds int    `json:"duration"`
}

// Config fixes the values integrators observed to vary between deployments:
// the canonical portion concatenation order and the suspect answer.
type Config struct {
	PortionOrder    []string `yaml:"portion_order"`
	SuspectMin      int      `yaml:"suspect_min"`
	SuspectMax      int      `yaml:"suspect_max"`
	ExpectedSuspect int      `yaml:"expected_suspect"`
}

// DefaultConfig matches the event as originally run.
func DefaultConfig() Config {
	return Config{
		PortionOrder:    []string{PuzzleCaesar, PuzzlePhishing, PuzzleStrongestPassword, PuzzleOsint},
		SuspectMin:      1,
		SuspectMax:      4,
		ExpectedSuspect: 3,
	}
}

// Validate rejects configurations the coordinator cannot run with.
func (c Config) Validate() error {
	if len(c.PortionOrder) == 0 {
		return fmt.Errorf("portion_order is empty")
	}
	seen := make(map[string]bool, len(c.PortionOrder))
	for _, key := range c.PortionOrder {
		if key == "" {
			return fmt.Errorf("portion_order contains an empty key")
		}
		if seen[key] {
			return fmt.Errorf("portion_order repeats key %q", key)
		}
		seen[key] = true
	}
	if c.SuspectMin > c.SuspectMax {
		return fmt.Errorf("suspect range [%d, %d] is empty", c.SuspectMin, c.SuspectMax)
	}
	if c.ExpectedSuspect < c.SuspectMin || c.ExpectedSuspect > c.SuspectMax {
		return fmt.Errorf("expected_suspect %d outside range [%d, %d]", c.ExpectedSuspect, c.SuspectMin, c.SuspectMax)
	}
	return nil
}
