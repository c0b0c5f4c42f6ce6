package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/roach88/classroom/internal/config"
	"github.com/roach88/classroom/internal/engine"
	"github.com/roach88/classroom/internal/ir"
	"github.com/roach88/classroom/internal/store"
	"github.com/roach88/classroom/internal/testutil"
)

// Harness drives one scenario through the engine.
type Harness struct {
	engine *engine.Engine
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation, with a
// deterministic clock and request ids.
//
// The returned error covers infrastructure failures only. Mismatched
// expectations are reported through Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithConfig(scenario, config.Default())
}

// RunWithConfig is Run with an explicit engine configuration.
func RunWithConfig(scenario *Scenario, cfg config.Config) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	eng, err := engine.New(ctx, st, cfg,
		engine.WithClock(testutil.NewDeterministicClock()),
		engine.WithRequestIDGenerator(testutil.NewSequentialIDGenerator(scenario.Name)),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), // Suppress logs in tests
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	h := &Harness{engine: eng}

	result := NewResult()
	for i, step := range scenario.Flow {
		ev, err := h.executeStep(ctx, step)
		if err != nil {
			return nil, fmt.Errorf("flow step %d (%s): %w", i, step.Op, err)
		}
		ev.Step = i + 1
		result.AddTrace(ev)

		for _, msg := range checkExpect(step, ev) {
			result.AddError(fmt.Sprintf("flow[%d] %s: %s", i, step.Op, msg))
		}
	}

	actx := &AssertionContext{Engine: eng, Ctx: ctx}
	for _, errMsg := range EvaluateAssertions(scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// executeStep runs one request. Taxonomy errors become the step's case;
// any other error aborts the scenario.
func (h *Harness) executeStep(ctx context.Context, step FlowStep) (TraceEvent, error) {
	as := ir.Identity(step.As)
	owner := ir.Identity(step.Owner)
	if owner == "" {
		owner = as
	}

	ev := TraceEvent{
		Op:    step.Op,
		As:    step.As,
		Owner: string(owner),
		Name:  step.Name,
	}

	var err error
	switch step.Op {
	case OpCreateProfile:
		var p ir.Profile
		p, err = h.engine.CreateProfile(ctx, engine.CreateProfileRequest{Requester: as, Name: step.Name})
		if err == nil {
			ev.Result = profileSnapshot(p)
		}

	case OpDestroyProfile:
		err = h.engine.DestroyProfile(ctx, engine.DestroyProfileRequest{Requester: as, Owner: owner, Name: step.Name})

	case OpCreateSubmission:
		req := engine.CreateSubmissionRequest{Requester: as, Owner: owner, Profile: step.Profile}
		if sc := step.Scores; sc != nil {
			req.Midterm, req.Final, req.HomeworkA, req.HomeworkB = sc.Midterm, sc.Final, sc.HomeworkA, sc.HomeworkB
		}
		var s ir.Submission
		s, err = h.engine.CreateSubmission(ctx, req)
		if err == nil {
			ev.Result = submissionSnapshot(s)
		}

	case OpDestroySubmission:
		err = h.engine.DestroySubmission(ctx, engine.DestroySubmissionRequest{Requester: as, Owner: owner})

	case OpFetchProfile:
		p, found, ferr := h.engine.FetchProfile(ctx, owner, step.Name)
		err = ferr
		if err == nil {
			ev.Case = CaseNotFound
			if found {
				ev.Case = CaseFound
				ev.Result = profileSnapshot(p)
			}
			return ev, nil
		}

	case OpFetchSubmission:
		s, found, ferr := h.engine.FetchSubmission(ctx, owner)
		err = ferr
		if err == nil {
			ev.Case = CaseNotFound
			if found {
				ev.Case = CaseFound
				ev.Result = submissionSnapshot(s)
			}
			return ev, nil
		}

	default:
		return ev, fmt.Errorf("unknown op %q", step.Op)
	}

	if err != nil {
		code := engine.CodeOf(err)
		if code == "" {
			return ev, err
		}
		ev.Case = string(code)
		ev.Reason = string(engine.ReasonOf(err))
		return ev, nil
	}

	ev.Case = CaseOK
	return ev, nil
}

// checkExpect compares a step's outcome with its expect clause.
func checkExpect(step FlowStep, ev TraceEvent) []string {
	want := step.Expect
	if want == nil {
		if ev.Case != CaseOK && ev.Case != CaseFound {
			return []string{fmt.Sprintf("expected success, got %s %s", ev.Case, ev.Reason)}
		}
		return nil
	}

	var errs []string
	if ev.Case != want.Case {
		errs = append(errs, fmt.Sprintf("expected case %s, got %s", want.Case, ev.Case))
	}
	if want.Reason != "" && ev.Reason != want.Reason {
		errs = append(errs, fmt.Sprintf("expected reason %s, got %q", want.Reason, ev.Reason))
	}
	for field, expected := range want.Result {
		actual, ok := ev.Result[field]
		if !ok {
			errs = append(errs, fmt.Sprintf("result field %q missing", field))
			continue
		}
		if exp := formatValue(expected); exp != actual {
			errs = append(errs, fmt.Sprintf("result field %q: expected %s, got %s", field, exp, actual))
		}
	}
	return errs
}

func profileSnapshot(p ir.Profile) map[string]string {
	return map[string]string{
		"owner":        string(p.Owner),
		"display_name": p.DisplayName,
		"final_grade":  formatScore(p.FinalGrade),
	}
}

func submissionSnapshot(s ir.Submission) map[string]string {
	m := map[string]string{
		"owner":      string(s.Owner),
		"midterm":    formatScore(s.MidtermScore),
		"final":      formatScore(s.FinalScore),
		"homework_a": formatScore(s.HomeworkAScore),
		"homework_b": formatScore(s.HomeworkBScore),
	}
	if s.ProfileName != "" {
		m["profile"] = s.ProfileName
	}
	return m
}

// formatScore renders v in its shortest exact decimal form ("78", "56.5").
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatValue renders a YAML-decoded expectation the way snapshots render
// record fields.
func formatValue(v any) string {
	switch val := v.(type) {
	case float64:
		return formatScore(val)
	case int:
		return strconv.Itoa(val)
	case string:
		return val
	}
	return fmt.Sprint(v)
}
