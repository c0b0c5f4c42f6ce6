package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/classroom/internal/engine"
	"github.com/roach88/classroom/internal/ir"
)

// AssertionContext provides what assertions need to inspect final state.
type AssertionContext struct {
	Engine *engine.Engine
	Ctx    context.Context
}

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions runs every assertion and returns the failure messages.
// All assertions are evaluated; the first failure does not stop the rest.
func EvaluateAssertions(assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(a, actx); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluateAssertion(a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertRecordExists:
		return assertRecord(a, actx, true)
	case AssertRecordAbsent:
		return assertRecord(a, actx, false)
	case AssertEventCount:
		return assertEventCount(a, actx)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

// assertRecord checks whether the addressed record is present.
func assertRecord(a Assertion, actx *AssertionContext, wantPresent bool) error {
	owner := ir.Identity(a.Owner)

	var (
		found bool
		err   error
	)
	switch a.Kind {
	case "profile":
		_, found, err = actx.Engine.FetchProfile(actx.Ctx, owner, a.Name)
	case "submission":
		_, found, err = actx.Engine.FetchSubmission(actx.Ctx, owner)
	default:
		return fmt.Errorf("unknown record kind %q", a.Kind)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", a.Type, err)
	}

	if found == wantPresent {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%s of %s %s", a.Kind, a.Owner, presence(wantPresent)),
		Actual:   presence(found),
	}
}

// assertEventCount checks the length of the owner's event log.
func assertEventCount(a Assertion, actx *AssertionContext) error {
	events, err := actx.Engine.Events(actx.Ctx, ir.Identity(a.Owner))
	if err != nil {
		return fmt.Errorf("%s: %w", a.Type, err)
	}
	if len(events) == a.Count {
		return nil
	}

	types := make([]string, len(events))
	for i, ev := range events {
		types[i] = string(ev.Type)
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%d events for %s", a.Count, a.Owner),
		Actual:   fmt.Sprintf("%d events %v", len(events), types),
	}
}

func presence(found bool) string {
	if found {
		return "present"
	}
	return "absent"
}
