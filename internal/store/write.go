package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/classroom/internal/ir"
)

// Tx is a read-write view of the store bound to one transaction.
// Obtain one through Store.RunInTx.
type Tx struct {
	tx *sql.Tx
}

// Create inserts rec at rec.Address only if the address is empty.
// Returns an error wrapping ErrOccupied when a record is already there; the
// existing record is left untouched.
//
// The absence check and the insert are a single statement, so two
// transactions racing on one address cannot both succeed.
func (t *Tx) Create(ctx context.Context, rec Record) error {
	if err := rec.validate(); err != nil {
		return fmt.Errorf("create record: %w", err)
	}

	result, err := t.tx.ExecContext(ctx, `
		INSERT INTO records (address, kind, owner, data, seq)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(address) DO NOTHING
	`,
		string(rec.Address),
		string(rec.Kind),
		string(rec.Owner),
		rec.Data,
		rec.Seq,
	)
	if err != nil {
		return fmt.Errorf("create record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("create record: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("create record %s: %w", rec.Address, ErrOccupied)
	}

	return nil
}

// Replace overwrites the data of the record at rec.Address in place.
// Kind and owner are immutable and must match the stored record.
// Returns an error wrapping ErrAbsent when no matching record exists.
func (t *Tx) Replace(ctx context.Context, rec Record) error {
	if err := rec.validate(); err != nil {
		return fmt.Errorf("replace record: %w", err)
	}

	result, err := t.tx.ExecContext(ctx, `
		UPDATE records SET data = ?
		WHERE address = ? AND kind = ? AND owner = ?
	`,
		rec.Data,
		string(rec.Address),
		string(rec.Kind),
		string(rec.Owner),
	)
	if err != nil {
		return fmt.Errorf("replace record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("replace record: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("replace record %s: %w", rec.Address, ErrAbsent)
	}

	return nil
}

// Destroy removes the record at addr entirely. Afterwards Get reports not
// found and SlotSize reports 0.
// Returns an error wrapping ErrAbsent when the address is already empty.
func (t *Tx) Destroy(ctx context.Context, addr ir.Address) error {
	result, err := t.tx.ExecContext(ctx, `DELETE FROM records WHERE address = ?`, string(addr))
	if err != nil {
		return fmt.Errorf("destroy record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("destroy record: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("destroy record %s: %w", addr, ErrAbsent)
	}

	return nil
}

// AppendEvent appends ev to the lifecycle log.
func (t *Tx) AppendEvent(ctx context.Context, ev ir.Event) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO events (seq, request_id, type, owner, address, payload)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		ev.Seq,
		ev.RequestID,
		string(ev.Type),
		string(ev.Owner),
		string(ev.Address),
		ev.Payload,
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}
