package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/classroom/internal/config"
)

func mustParse(t *testing.T, src string) *Scenario {
	t.Helper()
	s, err := ParseScenario([]byte(src))
	require.NoError(t, err)
	return s
}

func TestRun_AllScenariosPass(t *testing.T) {
	names := []string{
		"profile_lifecycle",
		"submission_lifecycle",
		"incomplete_submission",
		"weighted_grade",
		"name_validation",
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario("testdata/scenarios/" + name + ".yaml")
			require.NoError(t, err)

			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Len(t, result.Trace, len(s.Flow))
		})
	}
}

func TestRun_ReportsCaseMismatch(t *testing.T) {
	s := mustParse(t, `
name: mismatch
description: second create is expected to succeed but collides
flow:
  - op: create_profile
    as: alyssa
    name: Alyssa
  - op: create_profile
    as: alyssa
    name: Alyssa
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "ALREADY_EXISTS")
	assert.Equal(t, "ALREADY_EXISTS", result.Trace[1].Case)
}

func TestRun_ReportsReasonAndResultMismatch(t *testing.T) {
	s := mustParse(t, `
name: mismatch
description: wrong reason and wrong result field
flow:
  - op: create_profile
    as: alyssa
    name: ""
    expect: {case: INVALID_INPUT, reason: NAME_TOO_LONG}
  - op: create_submission
    as: alyssa
    scores: {midterm: 1, final: 50, homework_a: 1, homework_b: 1}
    expect:
      case: ok
      result: {final: 51, rank: 1}
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Len(t, result.Errors, 3)
}

func TestRun_DeterministicTrace(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/weighted_grade.yaml")
	require.NoError(t, err)

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	a, err := MarshalTrace(s.Name, first)
	require.NoError(t, err)
	b, err := MarshalTrace(s.Name, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRunWithConfig_NameLimit(t *testing.T) {
	s := mustParse(t, `
name: short_names
description: a lowered name ceiling applies to scenarios
flow:
  - op: create_profile
    as: alyssa
    name: Alyssa
    expect: {case: INVALID_INPUT, reason: NAME_TOO_LONG}
`)
	cfg := config.Default()
	cfg.NameMaxLength = 4

	result, err := RunWithConfig(s, cfg)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}
