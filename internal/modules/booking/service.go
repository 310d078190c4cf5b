package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"fieldbook/internal/domain"
	"fieldbook/internal/modules/availability"
	"fieldbook/internal/pkg/cache"
	"fieldbook/internal/pkg/validator"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	EventCreated        = "booking.created"
	EventConfirmed      = "booking.confirmed"
	EventRejected       = "booking.rejected"
	EventCancelled      = "booking.cancelled"
	EventRefundResolved = "booking.refund_resolved"
)

// Policy holds the refund rules applied on player cancellation.
type Policy struct {
	RefundNoticeDays    int
	CancellationFeeRate float64
}

type Service struct {
	bookings BookingRepository
	fields   FieldRepository
	notifs   EventNotifier
	cache    *cache.Cache
	hours    availability.Hours
	policy   Policy
}

func NewService(bookings BookingRepository, fields FieldRepository, notifs EventNotifier, c *cache.Cache, hours availability.Hours, policy Policy) *Service {
	return &Service{
		bookings: bookings,
		fields:   fields,
		notifs:   notifs,
		cache:    c,
		hours:    hours,
		policy:   policy,
	}
}

// CreateBooking runs the reservation flow: validate the slot label against
// the field's grid, run the conflict guard, price the booking, insert as
// pending. The partial unique index closes the guard's read-then-write
// window: a concurrent duplicate surfaces as a unique violation and is
// mapped to ErrSlotTaken like any other conflict.
func (s *Service) CreateBooking(ctx context.Context, playerID int64, req CreateBookingRequest) (*domain.Booking, error) {
	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrValidation
	}
	day = availability.Midnight(day)

	if day.Before(availability.Midnight(time.Now())) {
		return nil, ErrValidation
	}

	if !s.validSlotLabel(req.TimeSlot) {
		return nil, ErrValidation
	}

	method := domain.PaymentMethod(req.PaymentMethod)
	if method == "" {
		method = domain.PayLater
	}
	switch method {
	case domain.PayLater, domain.PayBkash, domain.PayNagad:
	default:
		return nil, ErrValidation
	}

	field, err := s.fields.GetByID(ctx, req.FieldID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFieldNotFound
		}
		return nil, err
	}

	playerCount := req.PlayerCount
	if playerCount <= 0 {
		playerCount = 1
	}
	if field.Capacity > 0 && playerCount > field.Capacity {
		return nil, ErrValidation
	}

	cnt, err := s.bookings.CountActiveForSlot(ctx, field.ID, day, req.TimeSlot)
	if err != nil {
		return nil, err
	}
	if cnt > 0 {
		return nil, ErrSlotTaken
	}

	total, lines, lockerPrice, err := priceBooking(field, req.Equipment, req.Locker)
	if err != nil {
		return nil, err
	}

	b := &domain.Booking{
		OrderRef:       NewOrderRef(time.Now()),
		FieldID:        field.ID,
		PlayerID:       playerID,
		BookingDate:    day,
		TimeSlot:       req.TimeSlot,
		PlayerCount:    playerCount,
		BasePrice:      field.PricePerSlot,
		Equipment:      lines,
		LockerIncluded: req.Locker,
		LockerPrice:    lockerPrice,
		TotalPrice:     total,
		Status:         domain.BookingPending,
		PaymentMethod:  method,
		TransactionID:  req.TransactionID,
		PaymentStatus:  domain.PaymentPending,
	}

	if errs := validator.Validate(b); errs != nil {
		return nil, ErrValidation
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		if isSlotConflict(err) {
			return nil, ErrSlotTaken
		}
		return nil, err
	}

	s.invalidate(ctx, b)
	s.notify(field.OwnerID, EventCreated, b)

	return b, nil
}

// Confirm transitions pending → confirmed (admin action).
func (s *Service) Confirm(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	rows, err := s.bookings.ConfirmPending(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, s.explainTransitionFailure(ctx, bookingID)
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, b)
	s.notify(b.PlayerID, EventConfirmed, b)
	return b, nil
}

// Reject transitions pending → cancelled with an optional reason (admin
// action).
func (s *Service) Reject(ctx context.Context, bookingID int64, reason string) (*domain.Booking, error) {
	if reason == "" {
		reason = "rejected by admin"
	}

	rows, err := s.bookings.RejectPending(ctx, bookingID, reason)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, s.explainTransitionFailure(ctx, bookingID)
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, b)
	s.notify(b.PlayerID, EventRejected, b)
	return b, nil
}

// SelfCancel lets the owning player cancel any non-cancelled booking
// without a refund.
func (s *Service) SelfCancel(ctx context.Context, bookingID, playerID int64, reason string) (*domain.Booking, error) {
	b, err := s.getOwned(ctx, bookingID, playerID)
	if err != nil {
		return nil, err
	}
	if b.Status == domain.BookingCancelled {
		return nil, ErrInvalidStatus
	}

	if reason == "" {
		reason = "cancelled by player"
	}
	rows, err := s.bookings.CancelActive(ctx, bookingID, reason)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrInvalidStatus
	}

	b, err = s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, b)
	s.notify(b.PlayerID, EventCancelled, b)
	return b, nil
}

func (s *Service) GetMyBookings(ctx context.Context, playerID int64, limit, offset int) ([]domain.Booking, error) {
	return s.bookings.ListByPlayer(ctx, playerID, limit, offset)
}

func (s *Service) GetAllBookings(ctx context.Context, limit, offset int) ([]domain.Booking, error) {
	return s.bookings.ListAll(ctx, limit, offset)
}

func (s *Service) GetByID(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// UpdatePayment records the self-reported payment outcome. Transaction ids
// are opaque; nothing is verified against a gateway.
func (s *Service) UpdatePayment(ctx context.Context, bookingID, playerID int64, req UpdatePaymentRequest) (*domain.Booking, error) {
	if _, err := s.getOwned(ctx, bookingID, playerID); err != nil {
		return nil, err
	}

	if err := s.bookings.UpdatePaymentStatus(ctx, bookingID, domain.PaymentStatus(req.Status), req.TransactionID); err != nil {
		return nil, err
	}
	return s.bookings.GetByID(ctx, bookingID)
}

func (s *Service) getOwned(ctx context.Context, bookingID, playerID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.PlayerID != playerID {
		return nil, ErrForbidden
	}
	return b, nil
}

// explainTransitionFailure re-reads after a zero-row guarded UPDATE to
// tell "wrong state" apart from "no such booking".
func (s *Service) explainTransitionFailure(ctx context.Context, bookingID int64) error {
	if _, err := s.bookings.GetByID(ctx, bookingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return ErrInvalidStatus
}

func (s *Service) validSlotLabel(label string) bool {
	for _, l := range availability.DayLabels(s.hours) {
		if l == label {
			return true
		}
	}
	return false
}

func (s *Service) invalidate(ctx context.Context, b *domain.Booking) {
	s.cache.Del(ctx,
		cache.AvailabilityKey(b.FieldID, b.BookingDate.Format("2006-01-02")),
		cache.FieldStatsKey(b.FieldID),
	)
}

func (s *Service) notify(userID int64, event string, b *domain.Booking) {
	if s.notifs != nil {
		s.notifs.BookingEvent(userID, event, b)
	}
}

// isSlotConflict reports whether err is a unique violation raised by the
// idx_no_double_booking index. Other unique violations, an order_ref
// collision for instance, are not slot conflicts and pass through
// unmapped.
func isSlotConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "idx_no_double_booking"
	}

	// SQLite names the indexed columns, not the index itself.
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") &&
		strings.Contains(msg, "bookings.field_id")
}
