package booking

import (
	"context"
	"time"

	"fieldbook/internal/domain"
	"fieldbook/internal/modules/availability"
)

// RequestRefund runs the refund policy for the owning player: the booking
// must be confirmed, carry no prior refund request, and lie at least the
// notice period ahead (whole days, both sides day-normalized). The refund
// request and the cancellation land in one guarded write, so neither is
// ever observable without the other. No money moves here; the request is
// resolved by an admin and paid out out-of-band.
func (s *Service) RequestRefund(ctx context.Context, bookingID, playerID int64, payee string) (*domain.Booking, error) {
	if payee == "" {
		return nil, ErrValidation
	}

	b, err := s.getOwned(ctx, bookingID, playerID)
	if err != nil {
		return nil, err
	}

	if b.RefundRequested {
		return nil, ErrRefundRequested
	}
	if b.Status != domain.BookingConfirmed {
		return nil, ErrNotConfirmed
	}

	today := availability.Midnight(time.Now())
	noticeDays := int(availability.Midnight(b.BookingDate).Sub(today).Hours() / 24)
	if noticeDays < s.policy.RefundNoticeDays {
		return nil, ErrNoticeTooShort
	}

	amount := round2(b.TotalPrice * (1 - s.policy.CancellationFeeRate))

	rows, err := s.bookings.CancelWithRefund(ctx, bookingID, payee, amount, "cancelled with refund request")
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// The precondition raced away between read and write; re-derive
		// the precise rejection from fresh state.
		fresh, err := s.bookings.GetByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if fresh.RefundRequested {
			return nil, ErrRefundRequested
		}
		return nil, ErrNotConfirmed
	}

	b, err = s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, b)
	s.notify(b.PlayerID, EventCancelled, b)
	return b, nil
}

// ResolveRefund records the administrative decision on a pending refund
// request. A request that is missing or already processed is rejected; the
// decision is final.
func (s *Service) ResolveRefund(ctx context.Context, bookingID, adminID int64, approve bool) (*domain.Booking, error) {
	status := domain.RefundRejected
	if approve {
		status = domain.RefundApproved
	}

	rows, err := s.bookings.ResolveRefund(ctx, bookingID, status, adminID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		b, err := s.GetByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if !b.RefundRequested {
			return nil, ErrInvalidStatus
		}
		return nil, ErrRefundProcessed
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	s.notify(b.PlayerID, EventRefundResolved, b)
	return b, nil
}
