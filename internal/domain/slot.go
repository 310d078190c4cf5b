package domain

import "time"

// Slot is one fixed-width time window within a field's day, labelled
// "08:00-09:30" style. The stored Booked flag is a denormalized view:
// availability reads recompute it from active bookings and never trust
// the stored value.
type Slot struct {
	Time   string `json:"time"`
	Booked bool   `json:"booked"`
}

// DaySlotSet is the pre-enumerated slot grid for one field and calendar day.
type DaySlotSet struct {
	ID        int64     `json:"id"`
	FieldID   int64     `json:"field_id" gorm:"index:idx_field_day,unique"`
	Date      time.Time `json:"date" gorm:"index:idx_field_day,unique"`
	Slots     []Slot    `json:"slots" gorm:"serializer:json"`
	CreatedAt time.Time `json:"created_at"`
}
