package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookingdesk/internal/shared/apperror"
	"bookingdesk/internal/users"
)

const maxTransitionAttempts = 3

// Transition validates and commits a status change, then runs its side effects.
// Cancelling an already cancelled booking is a no-op. Side effects never roll
// the committed status back; their failures are reported as warnings.
func (s *service) Transition(ctx context.Context, actor users.Actor, id uint, to Status) (*TransitionResult, error) {
	if !to.IsValid() {
		return nil, fmt.Errorf("unknown booking status %q: %w", to, apperror.ErrValidation)
	}
	if !actor.IsAdmin() && !actor.IsOrganizer() {
		return nil, apperror.ErrForbidden
	}

	for attempt := 0; attempt < maxTransitionAttempts; attempt++ {
		booking, err := s.repo.GetByIDWithRelations(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.authorizeManage(ctx, actor, booking); err != nil {
			return nil, err
		}

		from := booking.Status
		if from == to && to == StatusCancelled {
			return &TransitionResult{Booking: booking, From: from, NoOp: true}, nil
		}
		if !CanTransition(from, to) {
			return nil, &TransitionError{BookingID: id, From: from, To: to}
		}

		at := s.now()
		moved, err := s.repo.UpdateStatus(ctx, id, from, to, at)
		if err != nil {
			return nil, fmt.Errorf("failed to update booking status: %w", err)
		}
		if !moved {
			// someone else changed the row; re-read and re-validate
			continue
		}

		booking.stamp(to, at)
		s.log.LogBookingTransition(ctx, booking.ID, string(from), string(to), actor.ID)

		result := &TransitionResult{Booking: booking, From: from}
		s.afterTransition(ctx, actor, result)
		return result, nil
	}

	return nil, fmt.Errorf("booking %d changed concurrently: %w", id, apperror.ErrConflict)
}

func (s *service) afterTransition(ctx context.Context, actor users.Actor, result *TransitionResult) {
	booking := result.Booking

	if booking.Status == StatusConfirmed {
		s.issueVoucher(ctx, result)
	}

	s.publish(ctx, booking.Reference, StatusChangedEvent{
		Type:       EventBookingStatusChanged,
		BookingID:  booking.ID,
		Reference:  booking.Reference,
		From:       result.From,
		To:         booking.Status,
		ActorID:    actor.ID,
		OccurredAt: booking.UpdatedAt,
	})
}

func (s *service) issueVoucher(ctx context.Context, result *TransitionResult) {
	booking := result.Booking
	if s.vouchers != nil {
		voucher, err := s.vouchers.IssueVoucher(ctx, booking)
		if voucher != nil {
			booking.Voucher = voucher
		}
		if err != nil {
			s.log.WithError(err).Warn("voucher issuance failed", "booking_id", booking.ID)
			result.warn("voucher: " + err.Error())
		}
	}

	if s.notifier != nil {
		if err := s.notifier.SendVoucher(ctx, booking); err != nil {
			s.log.WithError(err).Warn("voucher email not queued", "booking_id", booking.ID)
			result.warn("notification: " + err.Error())
		}
	}
}

// SweepExpiredPending cancels pending bookings created more than the pending
// TTL before now. Bookings that moved on in the meantime are skipped.
func (s *service) SweepExpiredPending(ctx context.Context, now time.Time) (*SweepResult, error) {
	started := time.Now()
	cutoff := now.Add(-s.pendingTTL)

	candidates, err := s.repo.ListPendingBefore(ctx, cutoff, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired pending bookings: %w", err)
	}

	result := &SweepResult{Scanned: len(candidates)}
	for _, booking := range candidates {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		res, err := s.Transition(ctx, users.SystemActor, booking.ID, StatusCancelled)
		switch {
		case err == nil && !res.NoOp:
			result.Cancelled++
		case err == nil:
			result.Skipped++
		case errors.Is(err, apperror.ErrInvalidTransition), errors.Is(err, apperror.ErrNotFound):
			result.Skipped++
		default:
			result.Skipped++
			s.log.WithError(err).Error("failed to cancel expired booking", "booking_id", booking.ID)
		}
	}

	s.log.LogSweepCompleted(ctx, result.Scanned, result.Cancelled, result.Skipped, time.Since(started))
	return result, nil
}
