package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

type PaymentMethod string

const (
	PayLater PaymentMethod = "pay_later"
	PayBkash PaymentMethod = "bkash"
	PayNagad PaymentMethod = "nagad"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

type RefundStatus string

const (
	RefundPending  RefundStatus = "pending"
	RefundApproved RefundStatus = "approved"
	RefundRejected RefundStatus = "rejected"
)

// EquipmentLine is a rented-equipment line item priced at booking time.
// Unit prices are copies of the field catalog at create time and never
// change retroactively.
type EquipmentLine struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type Booking struct {
	ID       int64  `json:"id"`
	OrderRef string `json:"order_ref" gorm:"uniqueIndex"`

	FieldID  int64 `json:"field_id" validate:"required"`
	PlayerID int64 `json:"player_id" validate:"required"`

	// BookingDate is normalized to UTC midnight; TimeSlot must match a
	// label from the field's slot grid for that day.
	BookingDate time.Time `json:"booking_date" validate:"required"`
	TimeSlot    string    `json:"time_slot" validate:"required"`

	PlayerCount    int             `json:"player_count"`
	BasePrice      float64         `json:"base_price"`
	Equipment      []EquipmentLine `json:"equipment,omitempty" gorm:"serializer:json;type:text"`
	LockerIncluded bool            `json:"locker_included"`
	LockerPrice    float64         `json:"locker_price,omitempty"`
	TotalPrice     float64         `json:"total_price"`

	Status BookingStatus `json:"status"`

	PaymentMethod PaymentMethod `json:"payment_method"`
	TransactionID string        `json:"transaction_id,omitempty"`
	PaymentStatus PaymentStatus `json:"payment_status"`

	// Review is settable exactly once, only while status is confirmed.
	// Rating 0 means no review attached yet.
	ReviewRating  int        `json:"review_rating,omitempty"`
	ReviewComment string     `json:"review_comment,omitempty" gorm:"type:text"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`

	RefundRequested   bool         `json:"refund_requested"`
	RefundPayee       string       `json:"refund_payee,omitempty"`
	RefundAmount      float64      `json:"refund_amount,omitempty"`
	RefundRequestedAt *time.Time   `json:"refund_requested_at,omitempty"`
	RefundStatus      RefundStatus `json:"refund_status,omitempty"`
	RefundProcessedAt *time.Time   `json:"refund_processed_at,omitempty"`
	RefundProcessedBy int64        `json:"refund_processed_by,omitempty"`

	CancellationReason string     `json:"cancellation_reason,omitempty" gorm:"type:text"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Field  *Field `json:"field,omitempty" gorm:"foreignKey:FieldID"`
	Player *User  `json:"player,omitempty" gorm:"foreignKey:PlayerID"`
}

// Active reports whether the booking still occupies its slot.
func (b *Booking) Active() bool {
	return b.Status != BookingCancelled
}

func (b *Booking) HasReview() bool {
	return b.ReviewRating > 0
}
