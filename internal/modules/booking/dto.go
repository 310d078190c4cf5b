package booking

type EquipmentSelection struct {
	Name     string `json:"name" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type CreateBookingRequest struct {
	FieldID       int64                `json:"field_id" binding:"required"`
	Date          string               `json:"date" binding:"required"`
	TimeSlot      string               `json:"time_slot" binding:"required"`
	PlayerCount   int                  `json:"player_count"`
	Equipment     []EquipmentSelection `json:"equipment"`
	Locker        bool                 `json:"locker"`
	PaymentMethod string               `json:"payment_method"`
	TransactionID string               `json:"transaction_id"`
}

type RejectBookingRequest struct {
	Reason string `json:"reason"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

type RefundRequestInput struct {
	Payee string `json:"payee" binding:"required"`
}

type ResolveRefundRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
}

type UpdatePaymentRequest struct {
	Status        string `json:"status" binding:"required,oneof=completed failed"`
	TransactionID string `json:"transaction_id"`
}
