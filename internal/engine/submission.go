package engine

import (
	"context"
	"errors"
	"math"

	"github.com/roach88/classroom/internal/ir"
	"github.com/roach88/classroom/internal/store"
	"github.com/roach88/classroom/internal/validate"
)

// Score field names, as reported in INCOMPLETE_SUBMISSION and
// MALFORMED_NUMBER errors.
const (
	FieldMidterm   = "midterm"
	FieldFinal     = "final"
	FieldHomeworkA = "homework_a"
	FieldHomeworkB = "homework_b"
)

// CreateSubmissionRequest asks for Owner's submission. A nil score is an
// absent field. Profile optionally names the owner's profile that receives
// the weighted final grade.
type CreateSubmissionRequest struct {
	Requester ir.Identity
	Owner     ir.Identity
	Midterm   *float64
	Final     *float64
	HomeworkA *float64
	HomeworkB *float64
	Profile   string
}

// DestroySubmissionRequest asks to delete Owner's submission.
type DestroySubmissionRequest struct {
	Requester ir.Identity
	Owner     ir.Identity
}

// CreateSubmission creates Owner's submission.
//
// Checks run in this order and the first failure is reported:
// UNAUTHORIZED (requester is not the owner), INCOMPLETE_SUBMISSION,
// INVALID_INPUT (non-finite score), OUT_OF_RANGE (final score),
// ALREADY_EXISTS, then for a linked profile NOT_FOUND and UNAUTHORIZED.
func (e *Engine) CreateSubmission(ctx context.Context, req CreateSubmissionRequest) (ir.Submission, error) {
	const op = "create_submission"

	if req.Requester != req.Owner {
		return ir.Submission{}, e.reject(op, unauthorized("", "submissions can only be created for oneself"))
	}

	fields := []validate.Field{
		{Name: FieldMidterm, Value: req.Midterm},
		{Name: FieldFinal, Value: req.Final},
		{Name: FieldHomeworkA, Value: req.HomeworkA},
		{Name: FieldHomeworkB, Value: req.HomeworkB},
	}
	if err := validate.Complete(fields...); err != nil {
		return ir.Submission{}, e.reject(op, fromValidation(err))
	}
	for _, f := range fields {
		if err := validate.Number(f.Name, *f.Value); err != nil {
			return ir.Submission{}, e.reject(op, fromValidation(err))
		}
	}
	if err := validate.FinalScore(*req.Final, e.cfg.FinalBounds()); err != nil {
		return ir.Submission{}, e.reject(op, fromValidation(err))
	}

	addr, err := ir.SubmissionAddress(req.Owner)
	if err != nil {
		return ir.Submission{}, e.reject(op, addressError(err))
	}
	var profileAddr ir.Address
	if req.Profile != "" {
		profileAddr, err = ir.ProfileAddress(req.Owner, req.Profile)
		if err != nil {
			return ir.Submission{}, e.reject(op, addressError(err))
		}
	}

	ctx, cancel := e.txContext(ctx)
	defer cancel()

	requestID := e.ids.Generate()
	var (
		sub   ir.Submission
		event ir.Event
	)
	err = e.store.RunInTx(ctx, func(tx *store.Tx) error {
		seq := e.clock.Next()
		sub = ir.Submission{
			Address:        addr,
			Owner:          req.Owner,
			MidtermScore:   *req.Midterm,
			FinalScore:     *req.Final,
			HomeworkAScore: *req.HomeworkA,
			HomeworkBScore: *req.HomeworkB,
			ProfileName:    req.Profile,
			CreatedSeq:     seq,
		}

		rec, err := store.EncodeSubmission(sub)
		if err != nil {
			return err
		}
		if err := tx.Create(ctx, rec); err != nil {
			if errors.Is(err, store.ErrOccupied) {
				return alreadyExists(addr, ir.KindSubmission, err)
			}
			return err
		}

		if profileAddr != "" {
			if err := e.setFinalGrade(ctx, tx, profileAddr, req.Requester, e.weightedGrade(sub), true); err != nil {
				return err
			}
		}

		event = ir.Event{
			Seq:       seq,
			RequestID: requestID,
			Type:      ir.EventSubmissionCreated,
			Owner:     req.Owner,
			Address:   addr,
			Payload:   rec.Data,
		}
		return tx.AppendEvent(ctx, event)
	})
	if err != nil {
		return ir.Submission{}, e.reject(op, wrapInfra(op, err))
	}

	e.committed(event)
	return sub, nil
}

// DestroySubmission deletes Owner's submission. A linked profile that still
// exists has its final grade reset to 0 in the same transaction.
//
// Errors: NOT_FOUND when there is no submission, UNAUTHORIZED when it is not
// the requester's.
func (e *Engine) DestroySubmission(ctx context.Context, req DestroySubmissionRequest) error {
	const op = "destroy_submission"

	addr, err := ir.SubmissionAddress(req.Owner)
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
			return notFound(addr, ir.KindSubmission)
		}
		if rec.Owner != req.Requester {
			return unauthorized(addr, "submission belongs to another identity")
		}

		sub, err := rec.Submission()
		if err != nil {
			return err
		}
		if err := tx.Destroy(ctx, addr); err != nil {
			return err
		}

		if sub.ProfileName != "" {
			profileAddr, err := ir.ProfileAddress(sub.Owner, sub.ProfileName)
			if err != nil {
				return err
			}
			if err := e.setFinalGrade(ctx, tx, profileAddr, req.Requester, 0, false); err != nil {
				return err
			}
		}

		event = ir.Event{
			Seq:       e.clock.Next(),
			RequestID: requestID,
			Type:      ir.EventSubmissionDestroyed,
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

// weightedGrade is round(midterm*w_m + final*w_f + (hw_a+hw_b)*w_h), halves
// rounded away from zero.
func (e *Engine) weightedGrade(s ir.Submission) float64 {
	w := e.cfg.Weights
	return math.Round(s.MidtermScore*w.Midterm +
		s.FinalScore*w.Final +
		(s.HomeworkAScore+s.HomeworkBScore)*w.Homework)
}

// setFinalGrade writes grade onto the profile at addr. When required is
// false a missing profile is skipped silently.
func (e *Engine) setFinalGrade(ctx context.Context, tx *store.Tx, addr ir.Address, requester ir.Identity, grade float64, required bool) error {
	rec, found, err := tx.Get(ctx, addr)
	if err != nil {
		return err
	}
	if !found {
		if required {
			return notFound(addr, ir.KindProfile)
		}
		return nil
	}
	if rec.Owner != requester {
		return unauthorized(addr, "linked profile belongs to another identity")
	}

	p, err := rec.Profile()
	if err != nil {
		return err
	}
	p.FinalGrade = grade

	updated, err := store.EncodeProfile(p)
	if err != nil {
		return err
	}
	return tx.Replace(ctx, updated)
}
