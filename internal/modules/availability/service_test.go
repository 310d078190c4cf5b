package availability

import (
	"context"
	"testing"
	"time"

	"fieldbook/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockSlotRepository struct {
	mock.Mock
}

func (m *MockSlotRepository) GetByFieldAndDate(ctx context.Context, fieldID int64, day time.Time) (*domain.DaySlotSet, error) {
	args := m.Called(ctx, fieldID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DaySlotSet), args.Error(1)
}

func (m *MockSlotRepository) HasAny(ctx context.Context, fieldID int64) (bool, error) {
	args := m.Called(ctx, fieldID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSlotRepository) CreateBatch(ctx context.Context, sets []domain.DaySlotSet) error {
	args := m.Called(ctx, sets)
	return args.Error(0)
}

type MockBookingReader struct {
	mock.Mock
}

func (m *MockBookingReader) ActiveSlotLabels(ctx context.Context, fieldID int64, day time.Time) ([]string, error) {
	args := m.Called(ctx, fieldID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockFieldReader struct {
	mock.Mock
}

func (m *MockFieldReader) GetByID(ctx context.Context, id int64) (*domain.Field, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Field), args.Error(1)
}

var testHours = Hours{OpenHour: 8, CloseHour: 22, SlotMinutes: 90, HorizonDays: 30}

func TestGetAvailability_BookedFlagsDerivedFromActiveBookings(t *testing.T) {
	slots := new(MockSlotRepository)
	bookings := new(MockBookingReader)
	fields := new(MockFieldReader)

	day := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)
	fields.On("GetByID", mock.Anything, int64(7)).Return(&domain.Field{ID: 7}, nil)
	slots.On("GetByFieldAndDate", mock.Anything, int64(7), day).Return(&domain.DaySlotSet{
		FieldID: 7,
		Date:    day,
		Slots: []domain.Slot{
			{Time: "08:00-09:30"},
			// Stored flag says booked, but no active booking holds the
			// slot: the read must flip it back to free.
			{Time: "09:30-11:00", Booked: true},
		},
	}, nil)
	bookings.On("ActiveSlotLabels", mock.Anything, int64(7), day).Return([]string{"08:00-09:30"}, nil)

	service := NewService(slots, bookings, fields, nil, testHours)
	resp, err := service.GetAvailability(context.Background(), 7, "2026-05-20")

	assert.NoError(t, err)
	assert.Equal(t, []domain.Slot{
		{Time: "08:00-09:30", Booked: true},
		{Time: "09:30-11:00", Booked: false},
	}, resp.Slots)
}

func TestGetAvailability_LazyGeneration(t *testing.T) {
	slots := new(MockSlotRepository)
	bookings := new(MockBookingReader)
	fields := new(MockFieldReader)

	day := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)
	fields.On("GetByID", mock.Anything, int64(7)).Return(&domain.Field{ID: 7}, nil)

	// First read misses, the horizon is generated, the retry hits.
	slots.On("GetByFieldAndDate", mock.Anything, int64(7), day).Return(nil, gorm.ErrRecordNotFound).Once()
	slots.On("HasAny", mock.Anything, int64(7)).Return(false, nil)
	slots.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	slots.On("GetByFieldAndDate", mock.Anything, int64(7), day).Return(&domain.DaySlotSet{
		FieldID: 7,
		Date:    day,
		Slots:   []domain.Slot{{Time: "08:00-09:30"}},
	}, nil).Once()
	bookings.On("ActiveSlotLabels", mock.Anything, int64(7), day).Return([]string{}, nil)

	service := NewService(slots, bookings, fields, nil, testHours)
	resp, err := service.GetAvailability(context.Background(), 7, "2026-05-20")

	assert.NoError(t, err)
	assert.Len(t, resp.Slots, 1)
	slots.AssertExpectations(t)
}

func TestGetAvailability_OutOfHorizonDateReturnsEmptyList(t *testing.T) {
	slots := new(MockSlotRepository)
	bookings := new(MockBookingReader)
	fields := new(MockFieldReader)

	day := time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC)
	fields.On("GetByID", mock.Anything, int64(7)).Return(&domain.Field{ID: 7}, nil)
	// The grid exists, just not for this far-future date.
	slots.On("GetByFieldAndDate", mock.Anything, int64(7), day).Return(nil, gorm.ErrRecordNotFound)
	slots.On("HasAny", mock.Anything, int64(7)).Return(true, nil)

	service := NewService(slots, bookings, fields, nil, testHours)
	resp, err := service.GetAvailability(context.Background(), 7, "2031-01-01")

	assert.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestGetAvailability_UnknownField(t *testing.T) {
	slots := new(MockSlotRepository)
	bookings := new(MockBookingReader)
	fields := new(MockFieldReader)

	fields.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	service := NewService(slots, bookings, fields, nil, testHours)
	_, err := service.GetAvailability(context.Background(), 404, "2026-05-20")

	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestGetAvailability_BadDate(t *testing.T) {
	service := NewService(new(MockSlotRepository), new(MockBookingReader), new(MockFieldReader), nil, testHours)

	_, err := service.GetAvailability(context.Background(), 7, "20-05-2026")
	assert.ErrorIs(t, err, ErrValidation)
}
