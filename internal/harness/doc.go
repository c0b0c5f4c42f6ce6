// Package harness runs conformance scenarios against the lifecycle engine.
//
// A scenario is a YAML file listing requests (create/destroy/fetch of
// profiles and submissions), the outcome each one must produce, and final
// assertions on stored records and the event log. Every scenario runs
// against a fresh in-memory store with a deterministic clock and request
// ids, so the trace it produces is byte-identical across runs and can be
// compared against a golden file.
//
// Scenario format:
//
//	name: submission_lifecycle
//	description: out of range, create, duplicate, destroy, recreate
//	flow:
//	  - op: create_submission
//	    as: alyssa
//	    scores: {midterm: 56.5, final: 101, homework_a: 99.7, homework_b: 89.2}
//	    expect: {case: OUT_OF_RANGE, reason: SCORE_ABOVE_MAXIMUM}
//	  - op: fetch_submission
//	    owner: alyssa
//	    expect: {case: not_found}
//	assertions:
//	  - type: event_count
//	    owner: alyssa
//	    count: 0
//
// A step without expect must succeed ("ok" for requests, "found" for
// fetches).
package harness
