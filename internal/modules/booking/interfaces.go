package booking

import (
	"context"
	"time"

	"fieldbook/internal/domain"
)

// BookingRepository defines the storage operations for bookings. Status,
// review and refund writes go through the guarded methods here; no other
// code path mutates those columns.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	CountActiveForSlot(ctx context.Context, fieldID int64, day time.Time, timeSlot string) (int64, error)
	ListByPlayer(ctx context.Context, playerID int64, limit, offset int) ([]domain.Booking, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Booking, error)
	ConfirmPending(ctx context.Context, id int64) (int64, error)
	RejectPending(ctx context.Context, id int64, reason string) (int64, error)
	CancelActive(ctx context.Context, id int64, reason string) (int64, error)
	CancelWithRefund(ctx context.Context, id int64, payee string, amount float64, reason string) (int64, error)
	ResolveRefund(ctx context.Context, id int64, status domain.RefundStatus, adminID int64) (int64, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus, transactionID string) error
}

// FieldRepository resolves the referenced field and its catalog.
type FieldRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Field, error)
}

// EventNotifier pushes booking lifecycle events to interested users.
type EventNotifier interface {
	BookingEvent(userID int64, event string, b *domain.Booking)
}
