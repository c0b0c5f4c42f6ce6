package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/classroom/internal/ir"
)

// createTestStore creates a new file-backed store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestProfile builds a profile record for owner/name at seq.
func createTestProfile(t *testing.T, owner ir.Identity, name string, seq int64) Record {
	t.Helper()
	rec, err := EncodeProfile(ir.Profile{
		Address:     ir.MustProfileAddress(owner, name),
		Owner:       owner,
		DisplayName: name,
		CreatedSeq:  seq,
	})
	if err != nil {
		t.Fatalf("EncodeProfile() failed: %v", err)
	}
	return rec
}

// createTestSubmission builds a submission record for owner at seq.
func createTestSubmission(t *testing.T, owner ir.Identity, final float64, seq int64) Record {
	t.Helper()
	rec, err := EncodeSubmission(ir.Submission{
		Address:        ir.MustSubmissionAddress(owner),
		Owner:          owner,
		MidtermScore:   56.5,
		FinalScore:     final,
		HomeworkAScore: 99.7,
		HomeworkBScore: 89.2,
		CreatedSeq:     seq,
	})
	if err != nil {
		t.Fatalf("EncodeSubmission() failed: %v", err)
	}
	return rec
}

// mustCreate creates rec in its own transaction.
func mustCreate(t *testing.T, s *Store, rec Record) {
	t.Helper()
	err := s.RunInTx(context.Background(), func(tx *Tx) error {
		return tx.Create(context.Background(), rec)
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
}
