package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/classroom/internal/ir"
)

// Record is one stored row: a typed JSON payload keyed by its address.
type Record struct {
	Address ir.Address
	Kind    ir.RecordKind
	Owner   ir.Identity
	Data    []byte // JSON encoding of ir.Profile or ir.Submission
	Seq     int64  // Logical clock of the creating request
}

func (r Record) validate() error {
	if r.Address == "" {
		return fmt.Errorf("record address is empty")
	}
	if r.Owner == "" {
		return fmt.Errorf("record owner is empty")
	}
	if r.Kind != ir.KindProfile && r.Kind != ir.KindSubmission {
		return fmt.Errorf("unknown record kind %q", r.Kind)
	}
	if len(r.Data) == 0 {
		return fmt.Errorf("record data is empty")
	}
	return nil
}

// EncodeProfile wraps p as a Record.
func EncodeProfile(p ir.Profile) (Record, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return Record{}, fmt.Errorf("marshal profile: %w", err)
	}
	return Record{
		Address: p.Address,
		Kind:    ir.KindProfile,
		Owner:   p.Owner,
		Data:    data,
		Seq:     p.CreatedSeq,
	}, nil
}

// EncodeSubmission wraps s as a Record.
func EncodeSubmission(s ir.Submission) (Record, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return Record{}, fmt.Errorf("marshal submission: %w", err)
	}
	return Record{
		Address: s.Address,
		Kind:    ir.KindSubmission,
		Owner:   s.Owner,
		Data:    data,
		Seq:     s.CreatedSeq,
	}, nil
}

// Profile decodes the record as a profile.
func (r Record) Profile() (ir.Profile, error) {
	if r.Kind != ir.KindProfile {
		return ir.Profile{}, fmt.Errorf("record %s is a %s, not a profile", r.Address, r.Kind)
	}
	var p ir.Profile
	if err := json.Unmarshal(r.Data, &p); err != nil {
		return ir.Profile{}, fmt.Errorf("unmarshal profile: %w", err)
	}
	return p, nil
}

// Submission decodes the record as a submission.
func (r Record) Submission() (ir.Submission, error) {
	if r.Kind != ir.KindSubmission {
		return ir.Submission{}, fmt.Errorf("record %s is a %s, not a submission", r.Address, r.Kind)
	}
	var s ir.Submission
	if err := json.Unmarshal(r.Data, &s); err != nil {
		return ir.Submission{}, fmt.Errorf("unmarshal submission: %w", err)
	}
	return s, nil
}
