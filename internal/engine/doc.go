// Package engine implements the classroom lifecycle controller.
//
// The controller owns the state machines of the two record kinds:
//
//	Profile:    Absent -[create]-> Present -[destroy]-> Absent
//	Submission: Absent -[create]-> Present -[destroy]-> Absent
//
// There is no Present -> Present transition. A record is replaced only by
// destroying it and creating it again.
//
// Every request is checked by the validation predicates, then runs as one
// store transaction: the record write, the lifecycle event and any linked
// profile update commit together or not at all. Creation relies on the
// store's conditional insert, so concurrent creators of one address cannot
// both succeed.
//
// All events are stamped with a monotonic seq from the logical clock. The
// clock resumes from the store's highest seq when the engine is built.
package engine
