package repository

import (
	"context"
	"encoding/json"
	"time"

	"fieldbook/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID       int64  `gorm:"column:id;primaryKey"`
	OrderRef string `gorm:"column:order_ref"`

	FieldID  int64 `gorm:"column:field_id"`
	PlayerID int64 `gorm:"column:player_id"`

	BookingDate time.Time `gorm:"column:booking_date"`
	TimeSlot    string    `gorm:"column:time_slot"`

	PlayerCount    int     `gorm:"column:player_count"`
	BasePrice      float64 `gorm:"column:base_price"`
	Equipment      *string `gorm:"column:equipment"`
	LockerIncluded bool    `gorm:"column:locker_included"`
	LockerPrice    float64 `gorm:"column:locker_price"`
	TotalPrice     float64 `gorm:"column:total_price"`

	Status string `gorm:"column:status"`

	PaymentMethod string `gorm:"column:payment_method"`
	TransactionID string `gorm:"column:transaction_id"`
	PaymentStatus string `gorm:"column:payment_status"`

	ReviewRating  int        `gorm:"column:review_rating"`
	ReviewComment *string    `gorm:"column:review_comment"`
	ReviewedAt    *time.Time `gorm:"column:reviewed_at"`

	RefundRequested   bool       `gorm:"column:refund_requested"`
	RefundPayee       *string    `gorm:"column:refund_payee"`
	RefundAmount      float64    `gorm:"column:refund_amount"`
	RefundRequestedAt *time.Time `gorm:"column:refund_requested_at"`
	RefundStatus      *string    `gorm:"column:refund_status"`
	RefundProcessedAt *time.Time `gorm:"column:refund_processed_at"`
	RefundProcessedBy int64      `gorm:"column:refund_processed_by"`

	CancellationReason *string    `gorm:"column:cancellation_reason"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	var lines []domain.EquipmentLine
	if m.Equipment != nil && *m.Equipment != "" {
		_ = json.Unmarshal([]byte(*m.Equipment), &lines)
	}

	b := &domain.Booking{
		ID:                m.ID,
		OrderRef:          m.OrderRef,
		FieldID:           m.FieldID,
		PlayerID:          m.PlayerID,
		BookingDate:       m.BookingDate,
		TimeSlot:          m.TimeSlot,
		PlayerCount:       m.PlayerCount,
		BasePrice:         m.BasePrice,
		Equipment:         lines,
		LockerIncluded:    m.LockerIncluded,
		LockerPrice:       m.LockerPrice,
		TotalPrice:        m.TotalPrice,
		Status:            domain.BookingStatus(m.Status),
		PaymentMethod:     domain.PaymentMethod(m.PaymentMethod),
		TransactionID:     m.TransactionID,
		PaymentStatus:     domain.PaymentStatus(m.PaymentStatus),
		ReviewRating:      m.ReviewRating,
		ReviewedAt:        m.ReviewedAt,
		RefundRequested:   m.RefundRequested,
		RefundAmount:      m.RefundAmount,
		RefundRequestedAt: m.RefundRequestedAt,
		RefundProcessedAt: m.RefundProcessedAt,
		RefundProcessedBy: m.RefundProcessedBy,
		CancelledAt:       m.CancelledAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	if m.ReviewComment != nil {
		b.ReviewComment = *m.ReviewComment
	}
	if m.RefundPayee != nil {
		b.RefundPayee = *m.RefundPayee
	}
	if m.RefundStatus != nil {
		b.RefundStatus = domain.RefundStatus(*m.RefundStatus)
	}
	if m.CancellationReason != nil {
		b.CancellationReason = *m.CancellationReason
	}
	return b
}

func toBookingModel(b *domain.Booking) bookingModel {
	var equipment *string
	if len(b.Equipment) > 0 {
		raw, _ := json.Marshal(b.Equipment)
		v := string(raw)
		equipment = &v
	}

	m := bookingModel{
		ID:                b.ID,
		OrderRef:          b.OrderRef,
		FieldID:           b.FieldID,
		PlayerID:          b.PlayerID,
		BookingDate:       b.BookingDate,
		TimeSlot:          b.TimeSlot,
		PlayerCount:       b.PlayerCount,
		BasePrice:         b.BasePrice,
		Equipment:         equipment,
		LockerIncluded:    b.LockerIncluded,
		LockerPrice:       b.LockerPrice,
		TotalPrice:        b.TotalPrice,
		Status:            string(b.Status),
		PaymentMethod:     string(b.PaymentMethod),
		TransactionID:     b.TransactionID,
		PaymentStatus:     string(b.PaymentStatus),
		ReviewRating:      b.ReviewRating,
		ReviewedAt:        b.ReviewedAt,
		RefundRequested:   b.RefundRequested,
		RefundAmount:      b.RefundAmount,
		RefundRequestedAt: b.RefundRequestedAt,
		RefundProcessedAt: b.RefundProcessedAt,
		RefundProcessedBy: b.RefundProcessedBy,
		CancelledAt:       b.CancelledAt,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
	if b.ReviewComment != "" {
		v := b.ReviewComment
		m.ReviewComment = &v
	}
	if b.RefundPayee != "" {
		v := b.RefundPayee
		m.RefundPayee = &v
	}
	if b.RefundStatus != "" {
		v := string(b.RefundStatus)
		m.RefundStatus = &v
	}
	if b.CancellationReason != "" {
		v := b.CancellationReason
		m.CancellationReason = &v
	}
	return m
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

// CountActiveForSlot is the read half of the conflict guard. The partial
// unique index idx_no_double_booking remains authoritative; this count only
// lets the service return a friendly conflict before attempting the insert.
func (r *BookingRepository) CountActiveForSlot(ctx context.Context, fieldID int64, day time.Time, timeSlot string) (int64, error) {
	var cnt int64
	q := `
SELECT COUNT(1)
FROM bookings
WHERE field_id = ?
  AND booking_date >= ? AND booking_date < ?
  AND time_slot = ?
  AND status <> 'cancelled'
`
	tx := r.db.WithContext(ctx).Raw(q, fieldID, day, day.AddDate(0, 0, 1), timeSlot).Scan(&cnt)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return cnt, nil
}

// ActiveSlotLabels returns the slot labels held by active bookings on the
// given day. Availability reads derive their booked flags from this.
func (r *BookingRepository) ActiveSlotLabels(ctx context.Context, fieldID int64, day time.Time) ([]string, error) {
	var labels []string
	q := `
SELECT time_slot
FROM bookings
WHERE field_id = ?
  AND booking_date >= ? AND booking_date < ?
  AND status <> 'cancelled'
`
	tx := r.db.WithContext(ctx).Raw(q, fieldID, day, day.AddDate(0, 0, 1)).Scan(&labels)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return labels, nil
}

func (r *BookingRepository) ListByPlayer(ctx context.Context, playerID int64, limit, offset int) ([]domain.Booking, error) {
	var ms []bookingModel
	tx := r.db.WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func (r *BookingRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Booking, error) {
	var ms []bookingModel
	tx := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// ConfirmPending flips pending → confirmed. Zero rows affected means the
// booking was not pending (or does not exist); the caller re-reads to
// report which.
func (r *BookingRepository) ConfirmPending(ctx context.Context, id int64) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND status = ?", id, string(domain.BookingPending)).
		Updates(map[string]interface{}{
			"status":     string(domain.BookingConfirmed),
			"updated_at": time.Now().UTC(),
		})
	return tx.RowsAffected, tx.Error
}

func (r *BookingRepository) RejectPending(ctx context.Context, id int64, reason string) (int64, error) {
	now := time.Now().UTC()
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND status = ?", id, string(domain.BookingPending)).
		Updates(map[string]interface{}{
			"status":              string(domain.BookingCancelled),
			"cancellation_reason": reason,
			"cancelled_at":        now,
			"updated_at":          now,
		})
	return tx.RowsAffected, tx.Error
}

// CancelActive is the self-cancel path: any non-cancelled booking may be
// cancelled without a refund request.
func (r *BookingRepository) CancelActive(ctx context.Context, id int64, reason string) (int64, error) {
	now := time.Now().UTC()
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND status <> ?", id, string(domain.BookingCancelled)).
		Updates(map[string]interface{}{
			"status":              string(domain.BookingCancelled),
			"cancellation_reason": reason,
			"cancelled_at":        now,
			"updated_at":          now,
		})
	return tx.RowsAffected, tx.Error
}

// CancelWithRefund creates the refund request and cancels the booking in a
// single guarded UPDATE, so the two are never observable independently.
func (r *BookingRepository) CancelWithRefund(ctx context.Context, id int64, payee string, amount float64, reason string) (int64, error) {
	now := time.Now().UTC()
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND status = ? AND refund_requested = ?", id, string(domain.BookingConfirmed), false).
		Updates(map[string]interface{}{
			"status":              string(domain.BookingCancelled),
			"refund_requested":    true,
			"refund_payee":        payee,
			"refund_amount":       amount,
			"refund_requested_at": now,
			"refund_status":       string(domain.RefundPending),
			"cancellation_reason": reason,
			"cancelled_at":        now,
			"updated_at":          now,
		})
	return tx.RowsAffected, tx.Error
}

// ResolveRefund stamps the administrative decision on a pending refund
// request. Guarded on refund_status so a second resolve affects zero rows.
func (r *BookingRepository) ResolveRefund(ctx context.Context, id int64, status domain.RefundStatus, adminID int64) (int64, error) {
	now := time.Now().UTC()
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND refund_requested = ? AND refund_status = ?", id, true, string(domain.RefundPending)).
		Updates(map[string]interface{}{
			"refund_status":       string(status),
			"refund_processed_at": now,
			"refund_processed_by": adminID,
			"updated_at":          now,
		})
	return tx.RowsAffected, tx.Error
}

// AttachReview sets the review exactly once: the guard on review_rating = 0
// makes a second attach affect zero rows instead of overwriting.
func (r *BookingRepository) AttachReview(ctx context.Context, id int64, rating int, comment string) (int64, error) {
	now := time.Now().UTC()
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND status = ? AND review_rating = 0", id, string(domain.BookingConfirmed)).
		Updates(map[string]interface{}{
			"review_rating":  rating,
			"review_comment": comment,
			"reviewed_at":    now,
			"updated_at":     now,
		})
	return tx.RowsAffected, tx.Error
}

func (r *BookingRepository) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus, transactionID string) error {
	updates := map[string]interface{}{
		"payment_status": string(status),
		"updated_at":     time.Now().UTC(),
	}
	if transactionID != "" {
		updates["transaction_id"] = transactionID
	}
	return r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// FieldStats counts all bookings for the field and sums revenue over the
// confirmed ones.
func (r *BookingRepository) FieldStats(ctx context.Context, fieldID int64) (*domain.FieldStats, error) {
	var stats domain.FieldStats
	q := `
SELECT COUNT(1) AS bookings,
       COALESCE(SUM(CASE WHEN status = 'confirmed' THEN total_price ELSE 0 END), 0) AS revenue
FROM bookings
WHERE field_id = ?
`
	tx := r.db.WithContext(ctx).Raw(q, fieldID).Scan(&stats)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &stats, nil
}

// FieldAverageRating recomputes the mean review rating across the field's
// confirmed bookings on every call. Returns 0 when nothing is rated yet.
func (r *BookingRepository) FieldAverageRating(ctx context.Context, fieldID int64) (float64, error) {
	var avg float64
	q := `
SELECT COALESCE(AVG(CAST(review_rating AS REAL)), 0)
FROM bookings
WHERE field_id = ?
  AND status = 'confirmed'
  AND review_rating > 0
`
	tx := r.db.WithContext(ctx).Raw(q, fieldID).Scan(&avg)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return avg, nil
}
