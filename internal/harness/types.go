package harness

// Outcome cases that are not error codes.
const (
	CaseOK       = "ok"
	CaseFound    = "found"
	CaseNotFound = "not_found"
)

// TraceEvent records one executed step.
// Result holds the record snapshot on success, with every value rendered as
// a string so the trace has a single canonical encoding.
type TraceEvent struct {
	Step   int               `json:"step"`
	Op     string            `json:"op"`
	As     string            `json:"as,omitempty"`
	Owner  string            `json:"owner,omitempty"`
	Name   string            `json:"name,omitempty"`
	Case   string            `json:"case"`
	Reason string            `json:"reason,omitempty"`
	Result map[string]string `json:"result,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expect clause and assertion holds.
	Pass bool `json:"pass"`

	// Trace contains one event per flow step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step to the trace.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
