package harness

import (
	"io/fs"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_AllTestdata(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		s, err := LoadScenario(path)
		require.NoError(t, err, path)
		assert.NotEmpty(t, s.Flow, path)
	}
}

func TestParseScenario_Scores(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: scores
description: score decoding
flow:
  - op: create_submission
    as: alyssa
    scores: {midterm: .nan, final: 78, homework_a: .inf}
`))
	require.NoError(t, err)

	sc := s.Flow[0].Scores
	require.NotNil(t, sc)
	require.NotNil(t, sc.Midterm)
	assert.True(t, math.IsNaN(*sc.Midterm))
	assert.Equal(t, 78.0, *sc.Final)
	assert.True(t, math.IsInf(*sc.HomeworkA, 1))
	assert.Nil(t, sc.HomeworkB, "omitted score must stay absent")
}

func TestParseScenario_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown field",
			yaml: "name: x\ndescription: d\nflow:\n  - op: create_profile\n    as: a\n    nmae: A\n",
			want: "failed to parse YAML",
		},
		{
			name: "missing name",
			yaml: "description: d\nflow:\n  - op: create_profile\n    as: a\n",
			want: "name is required",
		},
		{
			name: "missing description",
			yaml: "name: x\nflow:\n  - op: create_profile\n    as: a\n",
			want: "description is required",
		},
		{
			name: "empty flow",
			yaml: "name: x\ndescription: d\nflow: []\n",
			want: "at least one step",
		},
		{
			name: "unknown op",
			yaml: "name: x\ndescription: d\nflow:\n  - op: rename_profile\n    as: a\n",
			want: "unknown op",
		},
		{
			name: "request without requester",
			yaml: "name: x\ndescription: d\nflow:\n  - op: destroy_submission\n",
			want: "as is required",
		},
		{
			name: "fetch without owner",
			yaml: "name: x\ndescription: d\nflow:\n  - op: fetch_submission\n",
			want: "owner is required",
		},
		{
			name: "scores on profile op",
			yaml: "name: x\ndescription: d\nflow:\n  - op: create_profile\n    as: a\n    scores: {final: 5}\n",
			want: "scores only apply",
		},
		{
			name: "expect without case",
			yaml: "name: x\ndescription: d\nflow:\n  - op: create_profile\n    as: a\n    expect: {reason: NAME_EMPTY}\n",
			want: "expect.case is required",
		},
		{
			name: "profile assertion without name",
			yaml: "name: x\ndescription: d\nflow:\n  - op: create_profile\n    as: a\nassertions:\n  - type: record_exists\n    kind: profile\n    owner: a\n",
			want: "name is required for profile records",
		},
		{
			name: "unknown assertion",
			yaml: "name: x\ndescription: d\nflow:\n  - op: create_profile\n    as: a\nassertions:\n  - type: trace_order\n    owner: a\n",
			want: "unknown assertion type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

