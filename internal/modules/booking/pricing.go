package booking

import (
	"math"

	"fieldbook/internal/domain"
)

// priceBooking computes the total charge at creation time: flat field
// price plus rented equipment plus the optional locker fee. Unit prices
// are copied from the field's current catalog, so later catalog changes
// never touch existing bookings. Equipment that is missing from the
// catalog, or present but flagged unavailable, is rejected rather than
// priced at a default.
func priceBooking(field *domain.Field, selections []EquipmentSelection, locker bool) (float64, []domain.EquipmentLine, float64, error) {
	total := field.PricePerSlot

	var lines []domain.EquipmentLine
	for _, sel := range selections {
		if sel.Quantity <= 0 {
			return 0, nil, 0, ErrValidation
		}

		item, ok := findEquipment(field.Equipment, sel.Name)
		if !ok || !item.Available {
			return 0, nil, 0, ErrEquipmentUnavailable
		}

		lines = append(lines, domain.EquipmentLine{
			Name:      item.Name,
			Quantity:  sel.Quantity,
			UnitPrice: item.Price,
		})
		total += float64(sel.Quantity) * item.Price
	}

	var lockerPrice float64
	if locker {
		if !field.HasLocker {
			return 0, nil, 0, ErrValidation
		}
		lockerPrice = field.LockerPrice
		total += lockerPrice
	}

	return round2(total), lines, lockerPrice, nil
}

func findEquipment(catalog []domain.Equipment, name string) (domain.Equipment, bool) {
	for _, e := range catalog {
		if e.Name == name {
			return e, true
		}
	}
	return domain.Equipment{}, false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
