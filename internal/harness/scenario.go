package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Flow contains the requests to run, in order.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final store state.
	// Supported types: record_exists, record_absent, event_count
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// FlowStep is one request and its expected outcome.
type FlowStep struct {
	// Op is one of the Op* constants.
	Op string `yaml:"op"`

	// As is the requester identity. Fetches may omit it.
	As string `yaml:"as,omitempty"`

	// Owner is the declared record owner. Defaults to As.
	Owner string `yaml:"owner,omitempty"`

	// Name is the profile display name (profile ops only).
	Name string `yaml:"name,omitempty"`

	// Profile links a submission to the owner's profile of that name.
	Profile string `yaml:"profile,omitempty"`

	// Scores are the submission fields. An omitted score is absent.
	Scores *Scores `yaml:"scores,omitempty"`

	// Expect specifies the expected outcome.
	// If nil, the step must succeed.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// Scores holds the submission fields. YAML ".nan" and ".inf" decode to
// non-finite values, which the engine rejects as malformed.
type Scores struct {
	Midterm   *float64 `yaml:"midterm,omitempty"`
	Final     *float64 `yaml:"final,omitempty"`
	HomeworkA *float64 `yaml:"homework_a,omitempty"`
	HomeworkB *float64 `yaml:"homework_b,omitempty"`
}

// ExpectClause specifies the expected outcome of a step.
type ExpectClause struct {
	// Case is "ok", "found", "not_found" or an error code such as
	// "ALREADY_EXISTS".
	Case string `yaml:"case"`

	// Reason is the expected error reason, e.g. "NAME_TOO_LONG".
	Reason string `yaml:"reason,omitempty"`

	// Result contains expected record field values.
	// This is a subset match - only specified fields are validated.
	Result map[string]any `yaml:"result,omitempty"`
}

// Assertion validates the final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Kind is "profile" or "submission" (record_exists, record_absent).
	Kind string `yaml:"kind,omitempty"`

	// Owner identifies the record or the event log.
	Owner string `yaml:"owner"`

	// Name is the profile display name (profile records only).
	Name string `yaml:"name,omitempty"`

	// Count is the expected number of events (event_count).
	Count int `yaml:"count,omitempty"`
}

// Step operations.
const (
	OpCreateProfile     = "create_profile"
	OpDestroyProfile    = "destroy_profile"
	OpCreateSubmission  = "create_submission"
	OpDestroySubmission = "destroy_submission"
	OpFetchProfile      = "fetch_profile"
	OpFetchSubmission   = "fetch_submission"
)

// Assertion type constants.
const (
	AssertRecordExists = "record_exists"
	AssertRecordAbsent = "record_absent"
	AssertEventCount   = "event_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that all required fields are present.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow must have at least one step")
	}

	for i, step := range s.Flow {
		if err := validateFlowStep(step, i); err != nil {
			return err
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a, i); err != nil {
			return err
		}
	}

	return nil
}

func validateFlowStep(step FlowStep, index int) error {
	switch step.Op {
	case OpCreateProfile, OpDestroyProfile, OpCreateSubmission, OpDestroySubmission:
		if step.As == "" {
			return fmt.Errorf("flow[%d]: as is required for %s", index, step.Op)
		}
	case OpFetchProfile, OpFetchSubmission:
		if step.As == "" && step.Owner == "" {
			return fmt.Errorf("flow[%d]: owner is required for %s", index, step.Op)
		}
	case "":
		return fmt.Errorf("flow[%d]: op is required", index)
	default:
		return fmt.Errorf("flow[%d]: unknown op %q", index, step.Op)
	}

	if step.Scores != nil && step.Op != OpCreateSubmission {
		return fmt.Errorf("flow[%d]: scores only apply to %s", index, OpCreateSubmission)
	}
	if step.Profile != "" && step.Op != OpCreateSubmission {
		return fmt.Errorf("flow[%d]: profile only applies to %s", index, OpCreateSubmission)
	}
	if step.Expect != nil && step.Expect.Case == "" {
		return fmt.Errorf("flow[%d]: expect.case is required", index)
	}

	return nil
}

func validateAssertion(a Assertion, index int) error {
	if a.Owner == "" {
		return fmt.Errorf("assertions[%d]: owner is required", index)
	}

	switch a.Type {
	case AssertRecordExists, AssertRecordAbsent:
		switch a.Kind {
		case "profile":
			if a.Name == "" {
				return fmt.Errorf("assertions[%d]: name is required for profile records", index)
			}
		case "submission":
		default:
			return fmt.Errorf("assertions[%d]: kind must be profile or submission, got %q", index, a.Kind)
		}
	case AssertEventCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for event_count", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
