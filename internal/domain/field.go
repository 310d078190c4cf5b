package domain

import "time"

// Field is a bookable sports ground. Pricing is flat per booking slot;
// the slot grid is fixed-width, so no hourly proration is stored.
type Field struct {
	ID           int64       `json:"id"`
	OwnerID      int64       `json:"owner_id" validate:"required"`
	Name         string      `json:"name" validate:"required"`
	Sport        string      `json:"sport"`
	Address      string      `json:"address"`
	City         string      `json:"city"`
	PricePerSlot float64     `json:"price_per_slot" validate:"gte=0"`
	Capacity     int         `json:"capacity"`
	HasLocker    bool        `json:"has_locker"`
	LockerPrice  float64     `json:"locker_price,omitempty"`
	Equipment    []Equipment `json:"equipment,omitempty" gorm:"foreignKey:FieldID"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`

	Owner *User `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}

type Equipment struct {
	ID        int64   `json:"id"`
	FieldID   int64   `json:"field_id"`
	Name      string  `json:"name" validate:"required"`
	Price     float64 `json:"price" validate:"gte=0"`
	Available bool    `json:"available"`
}

// FieldStats aggregates a field's booking history. Revenue only counts
// confirmed bookings.
type FieldStats struct {
	Bookings int64   `json:"bookings"`
	Revenue  float64 `json:"revenue"`
}
