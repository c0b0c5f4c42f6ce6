package harness

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/classroom/internal/config"
	"github.com/roach88/classroom/internal/engine"
	"github.com/roach88/classroom/internal/store"
)

func newAssertionContext(t *testing.T) *AssertionContext {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	eng, err := engine.New(context.Background(), st, config.Default(),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)

	_, err = eng.CreateProfile(context.Background(), engine.CreateProfileRequest{Requester: "alyssa", Name: "Alyssa"})
	require.NoError(t, err)

	return &AssertionContext{Engine: eng, Ctx: context.Background()}
}

func TestEvaluateAssertions_Pass(t *testing.T) {
	actx := newAssertionContext(t)

	errs := EvaluateAssertions([]Assertion{
		{Type: AssertRecordExists, Kind: "profile", Owner: "alyssa", Name: "Alyssa"},
		{Type: AssertRecordAbsent, Kind: "profile", Owner: "alyssa", Name: "Lyss"},
		{Type: AssertRecordAbsent, Kind: "submission", Owner: "alyssa"},
		{Type: AssertEventCount, Owner: "alyssa", Count: 1},
		{Type: AssertEventCount, Owner: "marnie", Count: 0},
	}, actx)
	assert.Empty(t, errs)
}

func TestEvaluateAssertions_Failures(t *testing.T) {
	actx := newAssertionContext(t)

	errs := EvaluateAssertions([]Assertion{
		{Type: AssertRecordAbsent, Kind: "profile", Owner: "alyssa", Name: "Alyssa"},
		{Type: AssertRecordExists, Kind: "submission", Owner: "alyssa"},
		{Type: AssertEventCount, Owner: "alyssa", Count: 4},
	}, actx)
	require.Len(t, errs, 3)
	assert.Contains(t, errs[0], "record_absent")
	assert.Contains(t, errs[1], "Actual: absent")
	assert.Contains(t, errs[2], "profile_created")
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{Type: AssertEventCount, Expected: "2 events", Actual: "1 events"}
	assert.Equal(t, "Assertion failed: event_count\n  Expected: 2 events\n  Actual: 1 events", err.Error())
}
