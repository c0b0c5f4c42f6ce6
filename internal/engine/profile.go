package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/classroom/internal/ir"
	"github.com/roach88/classroom/internal/store"
	"github.com/roach88/classroom/internal/validate"
)

// CreateProfileRequest asks for a profile owned by Requester.
type CreateProfileRequest struct {
	Requester ir.Identity
	Name      string
}

// DestroyProfileRequest asks to delete Owner's profile called Name.
type DestroyProfileRequest struct {
	Requester ir.Identity
	Owner     ir.Identity
	Name      string
}

// CreateProfile creates the profile at (Requester, Name).
//
// Errors: INVALID_INPUT for a rejected name, ALREADY_EXISTS when the
// requester already holds a profile under that name.
func (e *Engine) CreateProfile(ctx context.Context, req CreateProfileRequest) (ir.Profile, error) {
	const op = "create_profile"

	if err := validate.Name(req.Name, e.cfg.NameMaxLength); err != nil {
		return ir.Profile{}, e.reject(op, fromValidation(err))
	}

	addr, err := ir.ProfileAddress(req.Requester, req.Name)
	if err != nil {
		return ir.Profile{}, e.reject(op, addressError(err))
	}

	ctx, cancel := e.txContext(ctx)
	defer cancel()

	requestID := e.ids.Generate()
	var (
		profile ir.Profile
		event   ir.Event
	)
	err = e.store.RunInTx(ctx, func(tx *store.Tx) error {
		seq := e.clock.Next()
		profile = ir.Profile{
			Address:     addr,
			Owner:       req.Requester,
			DisplayName: req.Name,
			CreatedSeq:  seq,
		}

		rec, err := store.EncodeProfile(profile)
		if err != nil {
			return err
		}
		if err := tx.Create(ctx, rec); err != nil {
			if errors.Is(err, store.ErrOccupied) {
				return alreadyExists(addr, ir.KindProfile, err)
			}
			return err
		}

		event = ir.Event{
			Seq:       seq,
			RequestID: requestID,
			Type:      ir.EventProfileCreated,
			Owner:     req.Requester,
			Address:   addr,
			Payload:   rec.Data,
		}
		return tx.AppendEvent(ctx, event)
	})
	if err != nil {
		return ir.Profile{}, e.reject(op, wrapInfra(op, err))
	}

	e.committed(event)
	return profile, nil
}

// DestroyProfile deletes the profile at (Owner, Name).
//
// Errors: NOT_FOUND when no profile is there, UNAUTHORIZED when it is not
// the requester's.
func (e *Engine) DestroyProfile(ctx context.Context, req DestroyProfileRequest) error {
	const op = "destroy_profile"

	addr, err := ir.ProfileAddress(req.Owner, req.Name)
	if err != nil {
		return e.reject(op, addressError(err))
	}

	ctx, cancel := e.txContext(ctx)
	defer cancel()

	requestID := e.ids.Generate()
	var event ir.Event
	err = e.store.RunInTx(ctx, func(tx *store.Tx) error {
		rec, found, err := tx.Get(ctx, addr)
		if err != nil {
			return err
		}
		if !found {
			return notFound(addr, ir.KindProfile)
		}
		if rec.Owner != req.Requester {
			return unauthorized(addr, "profile belongs to another identity")
		}

		if err := tx.Destroy(ctx, addr); err != nil {
			return err
		}

		event = ir.Event{
			Seq:       e.clock.Next(),
			RequestID: requestID,
			Type:      ir.EventProfileDestroyed,
			Owner:     rec.Owner,
			Address:   addr,
		}
		return tx.AppendEvent(ctx, event)
	})
	if err != nil {
		return e.reject(op, wrapInfra(op, err))
	}

	e.committed(event)
	return nil
}

// wrapInfra adds op context to infrastructure errors. Taxonomy errors pass
// through untouched.
func wrapInfra(op string, err error) error {
	var re *Error
	if errors.As(err, &re) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
