package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"fieldbook/internal/database"
	"fieldbook/internal/domain"
	"fieldbook/internal/middleware"
	"fieldbook/internal/modules/auth"
	"fieldbook/internal/modules/availability"
	"fieldbook/internal/modules/booking"
	"fieldbook/internal/modules/catalog"
	"fieldbook/internal/modules/review"
	jwtsvc "fieldbook/internal/pkg/jwt"
	"fieldbook/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type E2ETestSuite struct {
	router     *gin.Engine
	db         *gorm.DB
	jwtService *jwtsvc.Service
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var testHours = availability.Hours{OpenHour: 8, CloseHour: 22, SlotMinutes: 90, HorizonDays: 30}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One pooled connection keeps the shared in-memory database stable
	// under concurrent requests.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db), "Failed to migrate test database")

	userRepo := repository.NewUserRepository(db)
	fieldRepo := repository.NewFieldRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)

	policy := booking.Policy{RefundNoticeDays: 2, CancellationFeeRate: 0.20}

	authService := auth.NewService(userRepo, jwtService)
	authHandler := auth.NewHandler(authService)

	availabilityService := availability.NewService(slotRepo, bookingRepo, fieldRepo, nil, testHours)
	availabilityHandler := availability.NewHandler(availabilityService)

	catalogService := catalog.NewService(fieldRepo, bookingRepo, availabilityService, nil)
	catalogHandler := catalog.NewHandler(catalogService)

	bookingService := booking.NewService(bookingRepo, fieldRepo, nil, nil, testHours, policy)
	bookingHandler := booking.NewHandler(bookingService)

	reviewService := review.NewService(bookingRepo)
	reviewHandler := review.NewHandler(reviewService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")

	authHandler.RegisterRoutes(v1)
	catalogHandler.RegisterRoutes(v1)
	availabilityHandler.RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(jwtService))
	{
		bookingHandler.RegisterRoutes(protected)
		reviewHandler.RegisterRoutes(protected)
		catalogHandler.RegisterOwnerRoutes(protected)
	}

	admin := v1.Group("/admin")
	admin.Use(middleware.JWTAuth(jwtService), middleware.AdminOnly())
	{
		bookingHandler.RegisterAdminRoutes(admin)
	}

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	adminUser := &domain.User{
		Email:        "admin@test.com",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Admin User",
	}
	require.NoError(t, db.Create(adminUser).Error, "Failed to create admin user")

	return &E2ETestSuite{router: r, db: db, jwtService: jwtService}
}

func (s *E2ETestSuite) makeRequest(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *TestResponse {
	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp),
		"Failed to parse response. Status: %d, Body: %s", w.Code, w.Body.String())
	return &resp
}

// register creates an account through the API and returns its token.
func (s *E2ETestSuite) register(t *testing.T, email, role string) string {
	w := s.makeRequest("POST", "/api/v1/auth/register", map[string]interface{}{
		"email":    email,
		"password": "Password123!",
		"name":     "Test User",
		"role":     role,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, "registration failed: %s", w.Body.String())

	resp := parseResponse(t, w)
	return resp.Data["token"].(string)
}

func (s *E2ETestSuite) adminToken(t *testing.T) string {
	var admin domain.User
	require.NoError(t, s.db.Where("email = ?", "admin@test.com").First(&admin).Error)

	token, err := s.jwtService.GenerateToken(admin.ID, "admin")
	require.NoError(t, err)
	return token
}

// createField registers a field through the owner API and returns its id.
func (s *E2ETestSuite) createField(t *testing.T, ownerToken string) int64 {
	w := s.makeRequest("POST", "/api/v1/fields", map[string]interface{}{
		"name":           "Green Turf Arena",
		"sport":          "football",
		"city":           "Dhaka",
		"price_per_slot": 3000,
		"capacity":       14,
		"has_locker":     true,
		"locker_price":   200,
		"equipment": []map[string]interface{}{
			{"name": "football", "price": 100, "available": true},
			{"name": "bibs", "price": 50, "available": false},
		},
	}, ownerToken)
	require.Equal(t, http.StatusCreated, w.Code, "field creation failed: %s", w.Body.String())

	resp := parseResponse(t, w)
	field := resp.Data["field"].(map[string]interface{})
	return int64(field["id"].(float64))
}

func futureDate(daysAhead int) string {
	return time.Now().UTC().AddDate(0, 0, daysAhead).Format("2006-01-02")
}

func TestFlow_AuthAndCatalog(t *testing.T) {
	suite := setupTestSuite(t)

	playerToken := suite.register(t, "player@test.com", "player")
	assert.NotEmpty(t, playerToken)

	t.Run("login returns a working token", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/auth/login", map[string]interface{}{
			"email":    "player@test.com",
			"password": "Password123!",
		}, "")
		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Data["token"])
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/auth/login", map[string]interface{}{
			"email":    "player@test.com",
			"password": "wrong",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	ownerToken := suite.register(t, "owner@test.com", "field_owner")
	fieldID := suite.createField(t, ownerToken)

	t.Run("creating a field generates its booking grid", func(t *testing.T) {
		var days int64
		require.NoError(t, suite.db.Model(&domain.DaySlotSet{}).
			Where("field_id = ?", fieldID).Count(&days).Error)
		assert.EqualValues(t, testHours.HorizonDays, days)
	})

	t.Run("player cannot create fields", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/fields", map[string]interface{}{
			"name":           "Rogue Field",
			"price_per_slot": 1000,
		}, playerToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("catalog lists the field", func(t *testing.T) {
		w := suite.makeRequest("GET", "/api/v1/fields?city=Dhaka", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		fields := resp.Data["fields"].([]interface{})
		require.Len(t, fields, 1)
		assert.Equal(t, "Green Turf Arena", fields[0].(map[string]interface{})["name"])
	})

	t.Run("field detail carries a zero rating before reviews", func(t *testing.T) {
		w := suite.makeRequest("GET", fmt.Sprintf("/api/v1/fields/%d", fieldID), nil, "")
		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		assert.Zero(t, resp.Data["rating"].(float64))
	})
}

func TestFlow_BookingLifecycle(t *testing.T) {
	suite := setupTestSuite(t)

	playerToken := suite.register(t, "player@test.com", "player")
	rivalToken := suite.register(t, "rival@test.com", "player")
	ownerToken := suite.register(t, "owner@test.com", "field_owner")
	adminToken := suite.adminToken(t)

	fieldID := suite.createField(t, ownerToken)
	date := futureDate(5)
	slot := "08:00-09:30"

	t.Run("availability starts fully open", func(t *testing.T) {
		w := suite.makeRequest("GET",
			fmt.Sprintf("/api/v1/fields/%d/availability?date=%s", fieldID, date), nil, "")
		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		slots := resp.Data["slots"].([]interface{})
		require.Len(t, slots, 9)
		for _, s := range slots {
			assert.False(t, s.(map[string]interface{})["booked"].(bool))
		}
	})

	var bookingIDNum float64

	t.Run("create booking prices and holds the slot", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/bookings", map[string]interface{}{
			"field_id":     fieldID,
			"date":         date,
			"time_slot":    slot,
			"player_count": 10,
			"equipment":    []map[string]interface{}{{"name": "football", "quantity": 2}},
			"locker":       true,
		}, playerToken)
		require.Equal(t, http.StatusCreated, w.Code, "booking failed: %s", w.Body.String())

		resp := parseResponse(t, w)
		b := resp.Data["booking"].(map[string]interface{})
		bookingIDNum = b["id"].(float64)

		assert.Equal(t, "pending", b["status"])
		assert.Equal(t, 3000.0+2*100+200, b["total_price"])
		assert.NotEmpty(t, b["order_ref"])
	})

	t.Run("same slot cannot be booked twice", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/bookings", map[string]interface{}{
			"field_id":  fieldID,
			"date":      date,
			"time_slot": slot,
		}, rivalToken)
		assert.Equal(t, http.StatusConflict, w.Code)

		resp := parseResponse(t, w)
		assert.Equal(t, "SLOT_CONFLICT", resp.Error.Code)
	})

	t.Run("unavailable equipment is rejected", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/bookings", map[string]interface{}{
			"field_id":  fieldID,
			"date":      date,
			"time_slot": "09:30-11:00",
			"equipment": []map[string]interface{}{{"name": "bibs", "quantity": 1}},
		}, rivalToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("player cannot confirm their own booking", func(t *testing.T) {
		w := suite.makeRequest("PATCH",
			fmt.Sprintf("/api/v1/admin/bookings/%.0f/confirm", bookingIDNum), nil, playerToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin confirms the booking", func(t *testing.T) {
		w := suite.makeRequest("PATCH",
			fmt.Sprintf("/api/v1/admin/bookings/%.0f/confirm", bookingIDNum), nil, adminToken)
		require.Equal(t, http.StatusOK, w.Code, "confirm failed: %s", w.Body.String())

		resp := parseResponse(t, w)
		b := resp.Data["booking"].(map[string]interface{})
		assert.Equal(t, "confirmed", b["status"])
	})

	t.Run("confirming twice is a state conflict", func(t *testing.T) {
		w := suite.makeRequest("PATCH",
			fmt.Sprintf("/api/v1/admin/bookings/%.0f/confirm", bookingIDNum), nil, adminToken)
		assert.Equal(t, http.StatusConflict, w.Code)

		resp := parseResponse(t, w)
		assert.Equal(t, "INVALID_STATE", resp.Error.Code)
	})

	t.Run("availability shows the slot as booked", func(t *testing.T) {
		w := suite.makeRequest("GET",
			fmt.Sprintf("/api/v1/fields/%d/availability?date=%s", fieldID, date), nil, "")
		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		for _, s := range resp.Data["slots"].([]interface{}) {
			sm := s.(map[string]interface{})
			assert.Equal(t, sm["time"] == slot, sm["booked"].(bool),
				"only the booked slot should be flagged")
		}
	})

	t.Run("refund request cancels and computes the refund", func(t *testing.T) {
		w := suite.makeRequest("POST",
			fmt.Sprintf("/api/v1/bookings/%.0f/refund-request", bookingIDNum),
			map[string]interface{}{"payee": "bkash:01700000000"}, playerToken)
		require.Equal(t, http.StatusOK, w.Code, "refund request failed: %s", w.Body.String())

		resp := parseResponse(t, w)
		b := resp.Data["booking"].(map[string]interface{})
		assert.Equal(t, "cancelled", b["status"])
		assert.True(t, b["refund_requested"].(bool))
		assert.Equal(t, "pending", b["refund_status"])
		assert.InDelta(t, 3400*0.8, b["refund_amount"].(float64), 0.001)
	})

	t.Run("cancelled booking frees the slot", func(t *testing.T) {
		w := suite.makeRequest("GET",
			fmt.Sprintf("/api/v1/fields/%d/availability?date=%s", fieldID, date), nil, "")
		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		for _, s := range resp.Data["slots"].([]interface{}) {
			assert.False(t, s.(map[string]interface{})["booked"].(bool))
		}
	})

	t.Run("freed slot can be rebooked", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/bookings", map[string]interface{}{
			"field_id":  fieldID,
			"date":      date,
			"time_slot": slot,
		}, rivalToken)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("admin approves the refund", func(t *testing.T) {
		w := suite.makeRequest("PATCH",
			fmt.Sprintf("/api/v1/admin/refunds/%.0f", bookingIDNum),
			map[string]interface{}{"decision": "approve"}, adminToken)
		require.Equal(t, http.StatusOK, w.Code, "refund approval failed: %s", w.Body.String())

		resp := parseResponse(t, w)
		b := resp.Data["booking"].(map[string]interface{})
		assert.Equal(t, "approved", b["refund_status"])
	})

	t.Run("resolving twice is rejected", func(t *testing.T) {
		w := suite.makeRequest("PATCH",
			fmt.Sprintf("/api/v1/admin/refunds/%.0f", bookingIDNum),
			map[string]interface{}{"decision": "reject"}, adminToken)
		assert.Equal(t, http.StatusConflict, w.Code)

		resp := parseResponse(t, w)
		assert.Equal(t, "ALREADY_PROCESSED", resp.Error.Code)
	})
}

// Rival players racing for one slot: exactly one reservation may be
// created, everyone else gets a slot conflict.
func TestFlow_ConcurrentBookingSingleWinner(t *testing.T) {
	suite := setupTestSuite(t)

	ownerToken := suite.register(t, "owner@test.com", "field_owner")
	fieldID := suite.createField(t, ownerToken)
	date := futureDate(7)

	tokens := make([]string, 8)
	for i := range tokens {
		tokens[i] = suite.register(t, fmt.Sprintf("player%d@test.com", i), "player")
	}

	codes := make(chan int, len(tokens))
	var wg sync.WaitGroup
	for _, token := range tokens {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			w := suite.makeRequest("POST", "/api/v1/bookings", map[string]interface{}{
				"field_id":  fieldID,
				"date":      date,
				"time_slot": "08:00-09:30",
			}, token)
			codes <- w.Code
		}(token)
	}
	wg.Wait()
	close(codes)

	created, conflicts := 0, 0
	for code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}
	assert.Equal(t, 1, created, "exactly one request may hold the slot")
	assert.Equal(t, len(tokens)-1, conflicts)
}

func TestFlow_RefundNoticeWindow(t *testing.T) {
	suite := setupTestSuite(t)

	playerToken := suite.register(t, "player@test.com", "player")
	ownerToken := suite.register(t, "owner@test.com", "field_owner")
	adminToken := suite.adminToken(t)

	fieldID := suite.createField(t, ownerToken)

	book := func(date, slot string) float64 {
		w := suite.makeRequest("POST", "/api/v1/bookings", map[string]interface{}{
			"field_id":  fieldID,
			"date":      date,
			"time_slot": slot,
		}, playerToken)
		require.Equal(t, http.StatusCreated, w.Code, "booking failed: %s", w.Body.String())
		resp := parseResponse(t, w)
		return resp.Data["booking"].(map[string]interface{})["id"].(float64)
	}
	confirm := func(id float64) {
		w := suite.makeRequest("PATCH",
			fmt.Sprintf("/api/v1/admin/bookings/%.0f/confirm", id), nil, adminToken)
		require.Equal(t, http.StatusOK, w.Code)
	}

	t.Run("short notice refund is refused", func(t *testing.T) {
		id := book(futureDate(1), "08:00-09:30")
		confirm(id)

		w := suite.makeRequest("POST",
			fmt.Sprintf("/api/v1/bookings/%.0f/refund-request", id),
			map[string]interface{}{"payee": "bkash:01700000000"}, playerToken)
		assert.Equal(t, http.StatusConflict, w.Code)

		resp := parseResponse(t, w)
		assert.Equal(t, "NOTICE_TOO_SHORT", resp.Error.Code)
	})

	t.Run("pending booking cannot request a refund", func(t *testing.T) {
		id := book(futureDate(10), "09:30-11:00")

		w := suite.makeRequest("POST",
			fmt.Sprintf("/api/v1/bookings/%.0f/refund-request", id),
			map[string]interface{}{"payee": "bkash:01700000000"}, playerToken)
		assert.Equal(t, http.StatusConflict, w.Code)

		resp := parseResponse(t, w)
		assert.Equal(t, "NOT_CONFIRMED", resp.Error.Code)
	})

	t.Run("plain cancel works regardless of notice", func(t *testing.T) {
		id := book(futureDate(1), "11:00-12:30")
		confirm(id)

		w := suite.makeRequest("PATCH",
			fmt.Sprintf("/api/v1/bookings/%.0f/cancel", id),
			map[string]interface{}{"reason": "rained out"}, playerToken)
		require.Equal(t, http.StatusOK, w.Code, "cancel failed: %s", w.Body.String())

		resp := parseResponse(t, w)
		b := resp.Data["booking"].(map[string]interface{})
		assert.Equal(t, "cancelled", b["status"])
		assert.False(t, b["refund_requested"].(bool))
	})
}

func TestFlow_ReviewAndStats(t *testing.T) {
	suite := setupTestSuite(t)

	playerToken := suite.register(t, "player@test.com", "player")
	strangerToken := suite.register(t, "stranger@test.com", "player")
	ownerToken := suite.register(t, "owner@test.com", "field_owner")
	adminToken := suite.adminToken(t)

	fieldID := suite.createField(t, ownerToken)

	w := suite.makeRequest("POST", "/api/v1/bookings", map[string]interface{}{
		"field_id":  fieldID,
		"date":      futureDate(3),
		"time_slot": "08:00-09:30",
	}, playerToken)
	require.Equal(t, http.StatusCreated, w.Code)
	resp := parseResponse(t, w)
	bookingIDNum := resp.Data["booking"].(map[string]interface{})["id"].(float64)

	t.Run("pending booking cannot be reviewed", func(t *testing.T) {
		w := suite.makeRequest("POST",
			fmt.Sprintf("/api/v1/bookings/%.0f/review", bookingIDNum),
			map[string]interface{}{"rating": 5}, playerToken)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	w = suite.makeRequest("PATCH",
		fmt.Sprintf("/api/v1/admin/bookings/%.0f/confirm", bookingIDNum), nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	t.Run("stranger cannot review someone else's booking", func(t *testing.T) {
		w := suite.makeRequest("POST",
			fmt.Sprintf("/api/v1/bookings/%.0f/review", bookingIDNum),
			map[string]interface{}{"rating": 1}, strangerToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("owner attaches a review once", func(t *testing.T) {
		w := suite.makeRequest("POST",
			fmt.Sprintf("/api/v1/bookings/%.0f/review", bookingIDNum),
			map[string]interface{}{"rating": 4, "comment": "good turf"}, playerToken)
		require.Equal(t, http.StatusCreated, w.Code, "review failed: %s", w.Body.String())

		resp := parseResponse(t, w)
		r := resp.Data["review"].(map[string]interface{})
		assert.Equal(t, 4.0, r["rating"].(float64))
	})

	t.Run("second review is rejected", func(t *testing.T) {
		w := suite.makeRequest("POST",
			fmt.Sprintf("/api/v1/bookings/%.0f/review", bookingIDNum),
			map[string]interface{}{"rating": 5}, playerToken)
		assert.Equal(t, http.StatusConflict, w.Code)

		resp := parseResponse(t, w)
		assert.Equal(t, "ALREADY_REVIEWED", resp.Error.Code)
	})

	t.Run("field rating reflects the review", func(t *testing.T) {
		w := suite.makeRequest("GET", fmt.Sprintf("/api/v1/fields/%d", fieldID), nil, "")
		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		assert.Equal(t, 4.0, resp.Data["rating"].(float64))
	})

	t.Run("field stats count bookings and confirmed revenue", func(t *testing.T) {
		w := suite.makeRequest("GET", fmt.Sprintf("/api/v1/fields/%d/stats", fieldID), nil, "")
		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		stats := resp.Data["stats"].(map[string]interface{})
		assert.Equal(t, 1.0, stats["bookings"].(float64))
		assert.Equal(t, 3000.0, stats["revenue"].(float64))
		assert.Equal(t, 4.0, stats["rating"].(float64))
	})
}
