package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"fieldbook/internal/database"
	"fieldbook/internal/domain"
	"fieldbook/internal/modules/availability"
	"fieldbook/internal/modules/booking"
	"fieldbook/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	db, err := database.Connect("fieldbook.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migrate failed:", err)
	}

	// Cleanup old data in FK-safe order.
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM day_slot_sets")
	db.Exec("DELETE FROM equipment")
	db.Exec("DELETE FROM fields")
	db.Exec("DELETE FROM users")

	ctx := context.Background()

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@fieldbook.local",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Admin",
	}
	db.Create(&admin)
	log.Println("Admin created: admin@fieldbook.local / admin123")

	players := []domain.User{}
	playerEmails := []string{"rafi@example.com", "nabila@example.com", "tanvir@example.com"}
	for i, email := range playerEmails {
		hash, _ := bcrypt.GenerateFromPassword([]byte("player123"), bcrypt.DefaultCost)
		p := domain.User{
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RolePlayer,
			Name:         fmt.Sprintf("Player %d", i+1),
			Phone:        fmt.Sprintf("+880 17 0000 00%02d", i+10),
		}
		db.Create(&p)
		players = append(players, p)
	}

	owners := []domain.User{}
	ownerEmails := []string{"owner@greenturf.example", "owner@cityarena.example"}
	for i, email := range ownerEmails {
		hash, _ := bcrypt.GenerateFromPassword([]byte("owner123"), bcrypt.DefaultCost)
		o := domain.User{
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RoleFieldOwner,
			Name:         fmt.Sprintf("Owner %d", i+1),
		}
		db.Create(&o)
		owners = append(owners, o)
	}

	// ================== FIELDS ==================
	log.Println("Creating fields...")

	fields := []domain.Field{
		{
			OwnerID:      owners[0].ID,
			Name:         "Green Turf Arena",
			Sport:        "football",
			Address:      "12 Lake Road",
			City:         "Dhaka",
			PricePerSlot: 3000,
			Capacity:     14,
			HasLocker:    true,
			LockerPrice:  200,
			Equipment: []domain.Equipment{
				{Name: "football", Price: 100, Available: true},
				{Name: "bibs", Price: 50, Available: true},
				{Name: "cones", Price: 30, Available: false},
			},
		},
		{
			OwnerID:      owners[1].ID,
			Name:         "City Futsal Court",
			Sport:        "futsal",
			Address:      "45 Station Street",
			City:         "Dhaka",
			PricePerSlot: 2200,
			Capacity:     10,
			HasLocker:    false,
			Equipment: []domain.Equipment{
				{Name: "futsal ball", Price: 80, Available: true},
			},
		},
		{
			OwnerID:      owners[1].ID,
			Name:         "Riverside Cricket Ground",
			Sport:        "cricket",
			Address:      "3 River Bank",
			City:         "Chattogram",
			PricePerSlot: 4500,
			Capacity:     22,
			HasLocker:    true,
			LockerPrice:  250,
			Equipment: []domain.Equipment{
				{Name: "bat", Price: 150, Available: true},
				{Name: "stumps", Price: 100, Available: true},
			},
		},
	}
	for i := range fields {
		db.Create(&fields[i])
	}

	// ================== SLOT GRID ==================
	log.Println("Generating slot horizon...")

	hours := availability.Hours{OpenHour: 8, CloseHour: 22, SlotMinutes: 90, HorizonDays: 30}
	slotRepo := repository.NewSlotRepository(db)
	for _, f := range fields {
		sets := availability.BuildHorizon(f.ID, time.Now(), hours)
		if err := slotRepo.CreateBatch(ctx, sets); err != nil {
			log.Fatal("slot generation failed:", err)
		}
	}

	// ================== BOOKINGS ==================
	log.Println("Creating bookings...")

	labels := availability.DayLabels(hours)
	today := availability.Midnight(time.Now())

	mk := func(field domain.Field, player domain.User, daysAhead, slotIdx int, status domain.BookingStatus) domain.Booking {
		return domain.Booking{
			OrderRef:      booking.NewOrderRef(time.Now()),
			FieldID:       field.ID,
			PlayerID:      player.ID,
			BookingDate:   today.AddDate(0, 0, daysAhead),
			TimeSlot:      labels[slotIdx],
			PlayerCount:   10,
			BasePrice:     field.PricePerSlot,
			TotalPrice:    field.PricePerSlot,
			Status:        status,
			PaymentMethod: domain.PayLater,
			PaymentStatus: domain.PaymentPending,
		}
	}

	seedBookings := []domain.Booking{
		mk(fields[0], players[0], 1, 2, domain.BookingPending),
		mk(fields[0], players[1], 2, 4, domain.BookingConfirmed),
		mk(fields[1], players[2], 3, 1, domain.BookingConfirmed),
		mk(fields[2], players[0], 5, 0, domain.BookingPending),
	}
	for i := range seedBookings {
		db.Create(&seedBookings[i])
	}

	// A reviewed booking in the past gives the rating endpoints something
	// to aggregate.
	reviewed := mk(fields[0], players[2], -3, 3, domain.BookingConfirmed)
	reviewed.ReviewRating = 5
	reviewed.ReviewComment = "Great surface, well maintained"
	now := time.Now()
	reviewed.ReviewedAt = &now
	db.Create(&reviewed)

	log.Println("Seed completed!")
	log.Println("Test accounts:")
	log.Println("Admin: admin@fieldbook.local / admin123")
	log.Println("Players: rafi@example.com ... tanvir@example.com / player123")
	log.Println("Owners: owner@greenturf.example, owner@cityarena.example / owner123")
}
