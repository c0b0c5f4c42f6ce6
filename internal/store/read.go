package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/classroom/internal/ir"
)

// queryRower is satisfied by both *sql.DB and *sql.Tx.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Get reads the record at addr inside the transaction.
// found is false, with a nil error, when the address is empty.
func (t *Tx) Get(ctx context.Context, addr ir.Address) (rec Record, found bool, err error) {
	return getRecord(ctx, t.tx, addr)
}

// Get reads the committed record at addr.
// found is false, with a nil error, when the address is empty.
func (s *Store) Get(ctx context.Context, addr ir.Address) (rec Record, found bool, err error) {
	return getRecord(ctx, s.db, addr)
}

func getRecord(ctx context.Context, q queryRower, addr ir.Address) (Record, bool, error) {
	var (
		rec                  Record
		address, kind, owner string
	)
	err := q.QueryRowContext(ctx, `
		SELECT address, kind, owner, data, seq
		FROM records
		WHERE address = ?
	`, string(addr)).Scan(&address, &kind, &owner, &rec.Data, &rec.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("get record %s: %w", addr, err)
	}

	rec.Address = ir.Address(address)
	rec.Kind = ir.RecordKind(kind)
	rec.Owner = ir.Identity(owner)
	return rec, true, nil
}

// SlotSize reports the stored data size in bytes at addr, 0 when empty.
func (s *Store) SlotSize(ctx context.Context, addr ir.Address) (int, error) {
	var size int
	err := s.db.QueryRowContext(ctx, `
		SELECT length(data) FROM records WHERE address = ?
	`, string(addr)).Scan(&size)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("slot size %s: %w", addr, err)
	}
	return size, nil
}

// ListByOwner returns every record owned by owner, ordered by seq then address.
// Returns an empty slice (not nil) if the owner holds nothing.
func (s *Store) ListByOwner(ctx context.Context, owner ir.Identity) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT address, kind, owner, data, seq
		FROM records
		WHERE owner = ?
		ORDER BY seq ASC, address COLLATE BINARY ASC
	`, string(owner))
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var (
			rec                     Record
			address, kind, recOwner string
		)
		if err := rows.Scan(&address, &kind, &recOwner, &rec.Data, &rec.Seq); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Address = ir.Address(address)
		rec.Kind = ir.RecordKind(kind)
		rec.Owner = ir.Identity(recOwner)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return records, nil
}

// ReadEvents returns the lifecycle log for owner in commit order.
// Returns an empty slice (not nil) if no events exist.
func (s *Store) ReadEvents(ctx context.Context, owner ir.Identity) ([]ir.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, request_id, type, owner, address, payload
		FROM events
		WHERE owner = ?
		ORDER BY seq ASC, id ASC
	`, string(owner))
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []ir.Event{}
	for rows.Next() {
		var (
			ev                    ir.Event
			typ, evOwner, address string
		)
		if err := rows.Scan(&ev.Seq, &ev.RequestID, &typ, &evOwner, &address, &ev.Payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Type = ir.EventType(typ)
		ev.Owner = ir.Identity(evOwner)
		ev.Address = ir.Address(address)
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

// MaxSeq returns the highest seq recorded in the store, 0 when empty.
// Used to resume the logical clock after restart.
func (s *Store) MaxSeq(ctx context.Context) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM (
			SELECT seq FROM records
			UNION ALL
			SELECT seq FROM events
		)
	`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("max seq: %w", err)
	}
	return seq, nil
}
