package catalog

import (
	"context"
	"testing"

	"fieldbook/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockFieldRepository struct {
	mock.Mock
}

func (m *MockFieldRepository) Create(ctx context.Context, f *domain.Field) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFieldRepository) GetByID(ctx context.Context, id int64) (*domain.Field, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Field), args.Error(1)
}

func (m *MockFieldRepository) List(ctx context.Context, city string, limit, offset int) ([]domain.Field, error) {
	args := m.Called(ctx, city, limit, offset)
	return args.Get(0).([]domain.Field), args.Error(1)
}

type MockGridGenerator struct {
	mock.Mock
}

func (m *MockGridGenerator) EnsureHorizon(ctx context.Context, fieldID int64) error {
	args := m.Called(ctx, fieldID)
	return args.Error(0)
}

type MockStatsReader struct {
	mock.Mock
}

func (m *MockStatsReader) FieldStats(ctx context.Context, fieldID int64) (*domain.FieldStats, error) {
	args := m.Called(ctx, fieldID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FieldStats), args.Error(1)
}

func (m *MockStatsReader) FieldAverageRating(ctx context.Context, fieldID int64) (float64, error) {
	args := m.Called(ctx, fieldID)
	return args.Get(0).(float64), args.Error(1)
}

func TestGetField_IncludesDerivedRating(t *testing.T) {
	fields := new(MockFieldRepository)
	stats := new(MockStatsReader)
	grid := new(MockGridGenerator)
	svc := NewService(fields, stats, grid, nil)

	fields.On("GetByID", mock.Anything, int64(3)).Return(&domain.Field{ID: 3, Name: "City Arena"}, nil)
	stats.On("FieldAverageRating", mock.Anything, int64(3)).Return(4.6666666, nil)

	detail, err := svc.GetField(context.Background(), 3)

	assert.NoError(t, err)
	assert.Equal(t, "City Arena", detail.Field.Name)
	assert.Equal(t, 4.7, detail.Rating)
}

func TestGetField_NotFound(t *testing.T) {
	fields := new(MockFieldRepository)
	stats := new(MockStatsReader)
	grid := new(MockGridGenerator)
	svc := NewService(fields, stats, grid, nil)

	fields.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetField(context.Background(), 404)

	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestGetFieldStats_AggregatesRevenueAndRating(t *testing.T) {
	fields := new(MockFieldRepository)
	stats := new(MockStatsReader)
	grid := new(MockGridGenerator)
	svc := NewService(fields, stats, grid, nil)

	fields.On("GetByID", mock.Anything, int64(3)).Return(&domain.Field{ID: 3}, nil)
	stats.On("FieldStats", mock.Anything, int64(3)).Return(&domain.FieldStats{Bookings: 12, Revenue: 36000}, nil)
	stats.On("FieldAverageRating", mock.Anything, int64(3)).Return(4.24, nil)

	resp, err := svc.GetFieldStats(context.Background(), 3)

	assert.NoError(t, err)
	assert.Equal(t, int64(12), resp.Bookings)
	assert.Equal(t, 36000.0, resp.Revenue)
	assert.Equal(t, 4.2, resp.Rating)
}

func TestCreateField_CopiesEquipment(t *testing.T) {
	fields := new(MockFieldRepository)
	stats := new(MockStatsReader)
	grid := new(MockGridGenerator)
	svc := NewService(fields, stats, grid, nil)

	fields.On("Create", mock.Anything, mock.MatchedBy(func(f *domain.Field) bool {
		return f.OwnerID == 9 && len(f.Equipment) == 2 && f.Equipment[0].Name == "football"
	})).Return(nil)
	grid.On("EnsureHorizon", mock.Anything, mock.Anything).Return(nil)

	f, err := svc.CreateField(context.Background(), 9, &CreateFieldRequest{
		Name:         "Riverside Turf",
		City:         "Dhaka",
		PricePerSlot: 2500,
		Capacity:     22,
		Equipment: []CreateEquipmentInput{
			{Name: "football", Price: 100, Available: true},
			{Name: "bibs", Price: 50, Available: true},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, "Riverside Turf", f.Name)
	fields.AssertExpectations(t)
}

func TestCreateField_GeneratesSlotGrid(t *testing.T) {
	fields := new(MockFieldRepository)
	stats := new(MockStatsReader)
	grid := new(MockGridGenerator)
	svc := NewService(fields, stats, grid, nil)

	fields.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Field).ID = 7
	}).Return(nil)
	grid.On("EnsureHorizon", mock.Anything, int64(7)).Return(nil)

	_, err := svc.CreateField(context.Background(), 9, &CreateFieldRequest{
		Name:         "Lakeside Court",
		City:         "Dhaka",
		PricePerSlot: 1800,
	})

	assert.NoError(t, err)
	grid.AssertExpectations(t)
}

func TestListFields_PassesCityFilter(t *testing.T) {
	fields := new(MockFieldRepository)
	stats := new(MockStatsReader)
	grid := new(MockGridGenerator)
	svc := NewService(fields, stats, grid, nil)

	fields.On("List", mock.Anything, "Chattogram", 20, 0).Return([]domain.Field{{ID: 1}}, nil)

	out, err := svc.ListFields(context.Background(), "Chattogram", 20, 0)

	assert.NoError(t, err)
	assert.Len(t, out, 1)
	fields.AssertExpectations(t)
}
