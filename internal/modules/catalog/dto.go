package catalog

import "fieldbook/internal/domain"

type CreateFieldRequest struct {
	Name         string                 `json:"name" binding:"required"`
	Sport        string                 `json:"sport"`
	Address      string                 `json:"address"`
	City         string                 `json:"city"`
	PricePerSlot float64                `json:"price_per_slot" binding:"required,gt=0"`
	Capacity     int                    `json:"capacity" binding:"gte=0"`
	HasLocker    bool                   `json:"has_locker"`
	LockerPrice  float64                `json:"locker_price" binding:"gte=0"`
	Equipment    []CreateEquipmentInput `json:"equipment" binding:"dive"`
}

type CreateEquipmentInput struct {
	Name      string  `json:"name" binding:"required"`
	Price     float64 `json:"price" binding:"gte=0"`
	Available bool    `json:"available"`
}

type FieldDetail struct {
	Field  *domain.Field `json:"field"`
	Rating float64       `json:"rating"`
}

type FieldStatsResponse struct {
	FieldID  int64   `json:"field_id"`
	Bookings int64   `json:"bookings"`
	Revenue  float64 `json:"revenue"`
	Rating   float64 `json:"rating"`
}
