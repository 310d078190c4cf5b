package notify

import (
	"time"

	"fieldbook/internal/domain"
	"fieldbook/internal/pkg/logger"

	"go.uber.org/zap"
)

// EventMessage is the payload pushed over the websocket when a booking
// changes state.
type EventMessage struct {
	Type      string    `json:"type"`
	BookingID int64     `json:"booking_id"`
	OrderRef  string    `json:"order_ref"`
	FieldID   int64     `json:"field_id"`
	Date      string    `json:"date"`
	TimeSlot  string    `json:"time_slot"`
	Status    string    `json:"status"`
	SentAt    time.Time `json:"sent_at"`
}

// Service fans booking lifecycle events out to connected players. Delivery
// is best effort; offline users simply miss the push.
type Service struct {
	hub *Hub
}

func NewService(hub *Hub) *Service {
	return &Service{hub: hub}
}

func (s *Service) BookingEvent(userID int64, event string, b *domain.Booking) {
	msg := EventMessage{
		Type:      event,
		BookingID: b.ID,
		OrderRef:  b.OrderRef,
		FieldID:   b.FieldID,
		Date:      b.BookingDate.Format("2006-01-02"),
		TimeSlot:  b.TimeSlot,
		Status:    string(b.Status),
		SentAt:    time.Now().UTC(),
	}

	if !s.hub.SendToUser(userID, msg) {
		logger.L().Debug("booking event not delivered, user offline",
			zap.Int64("user_id", userID),
			zap.String("event", event),
			zap.Int64("booking_id", b.ID))
	}
}
