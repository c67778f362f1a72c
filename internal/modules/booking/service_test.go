package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"ridemarket/internal/domain"
	"ridemarket/internal/repository"
	"ridemarket/internal/seatmap"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking, passengers []domain.Passenger) error {
	args := m.Called(ctx, b, passengers)
	if b != nil {
		b.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ActiveSeatGenders(ctx context.Context, tripID int64) ([]repository.SeatGender, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.SeatGender), args.Error(1)
}

func (m *MockBookingRepository) Cancel(ctx context.Context, bookingID int64) error {
	args := m.Called(ctx, bookingID)
	return args.Error(0)
}

func (m *MockBookingRepository) Passengers(ctx context.Context, bookingID int64) ([]domain.Passenger, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Passenger), args.Error(1)
}

type MockTripRepository struct {
	mock.Mock
}

func (m *MockTripRepository) GetByID(ctx context.Context, id int64) (*domain.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}

type MockPassengerRepository struct {
	mock.Mock
}

func (m *MockPassengerRepository) Suggestions(ctx context.Context, userID int64) ([]domain.Passenger, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Passenger), args.Error(1)
}

type MockSeatHolder struct {
	mock.Mock
}

func (m *MockSeatHolder) Acquire(ctx context.Context, tripID int64, seats []string) (string, bool, error) {
	args := m.Called(ctx, tripID, seats)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockSeatHolder) Validate(ctx context.Context, tripID int64, seats []string, token string) (bool, error) {
	args := m.Called(ctx, tripID, seats, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockSeatHolder) Release(ctx context.Context, tripID int64, seats []string, token string) error {
	args := m.Called(ctx, tripID, seats, token)
	return args.Error(0)
}

func (m *MockSeatHolder) TTL() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

type MockSeatFeed struct {
	mock.Mock
}

func (m *MockSeatFeed) SeatsBooked(tripID int64, seats []string) {
	m.Called(tripID, seats)
}

func (m *MockSeatFeed) SeatsReleased(tripID int64, seats []string) {
	m.Called(tripID, seats)
}

func testTrip() *domain.Trip {
	return &domain.Trip{
		ID:          7,
		VehicleID:   3,
		Source:      "Pune",
		Destination: "Mumbai",
		Departure:   time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC),
		Price:       450,
		Vehicle:     &domain.Vehicle{ID: 3, Name: "generic car", Capacity: 5},
	}
}

func newTestService(bookings *MockBookingRepository, trips *MockTripRepository, feed *MockSeatFeed) *Service {
	return NewService(bookings, trips, new(MockPassengerRepository), nil, feed, seatmap.DefaultRules)
}

func TestService_CreateBooking_NoGenders(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTrips := new(MockTripRepository)
	mockFeed := new(MockSeatFeed)

	mockTrips.On("GetByID", mock.Anything, int64(7)).Return(testTrip(), nil)
	mockBookings.On("ActiveSeatGenders", mock.Anything, int64(7)).Return([]repository.SeatGender{}, nil)
	mockBookings.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	mockFeed.On("SeatsBooked", int64(7), []string{"1A", "1B"}).Return()

	service := newTestService(mockBookings, mockTrips, mockFeed)

	b, err := service.CreateBooking(context.Background(), 42, CreateBookingRequest{
		TripID: 7,
		Seats:  []string{"1A", "1B"},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, b.SeatCount)
	assert.Equal(t, 900.0, b.TotalPrice)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.NotEmpty(t, b.Reference)
	mockFeed.AssertExpectations(t)
}

func TestService_CreateBooking_SeatOnlyWritesNoPassengerRows(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTrips := new(MockTripRepository)
	mockFeed := new(MockSeatFeed)

	mockTrips.On("GetByID", mock.Anything, int64(7)).Return(testTrip(), nil)
	mockBookings.On("ActiveSeatGenders", mock.Anything, int64(7)).Return([]repository.SeatGender{}, nil)
	mockBookings.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			// no passenger details supplied, so none may be persisted
			assert.Empty(t, args.Get(2))
		}).
		Return(nil)
	mockFeed.On("SeatsBooked", int64(7), []string{"1A"}).Return()

	service := newTestService(mockBookings, mockTrips, mockFeed)

	_, err := service.CreateBooking(context.Background(), 42, CreateBookingRequest{
		TripID: 7,
		Seats:  []string{"1A"},
	})

	require.NoError(t, err)
	mockBookings.AssertExpectations(t)
}

func TestService_CreateBooking_SeatTaken(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTrips := new(MockTripRepository)

	mockTrips.On("GetByID", mock.Anything, int64(7)).Return(testTrip(), nil)
	mockBookings.On("ActiveSeatGenders", mock.Anything, int64(7)).Return([]repository.SeatGender{
		{Seat: "2A", Gender: "Male"},
	}, nil)

	service := newTestService(mockBookings, mockTrips, new(MockSeatFeed))

	_, err := service.CreateBooking(context.Background(), 42, CreateBookingRequest{
		TripID: 7,
		Seats:  []string{"2A"},
	})

	var taken *SeatTakenError
	require.ErrorAs(t, err, &taken)
	assert.Equal(t, "2A", taken.Seat)
	mockBookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CreateBooking_GenderConflict(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTrips := new(MockTripRepository)

	mockTrips.On("GetByID", mock.Anything, int64(7)).Return(testTrip(), nil)
	mockBookings.On("ActiveSeatGenders", mock.Anything, int64(7)).Return([]repository.SeatGender{
		{Seat: "2B", Gender: "Female"},
	}, nil)

	service := newTestService(mockBookings, mockTrips, new(MockSeatFeed))

	_, err := service.CreateBooking(context.Background(), 42, CreateBookingRequest{
		TripID: 7,
		Passengers: []PassengerInput{
			{Seat: "2C", Name: "Ravi", Gender: "Male"},
		},
	})

	var conflict *GenderConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "2C", conflict.Seat)
	assert.Equal(t, "2B", conflict.Partner)
}

func TestService_CreateBooking_DuplicateSeats(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTrips := new(MockTripRepository)

	mockTrips.On("GetByID", mock.Anything, int64(7)).Return(testTrip(), nil)
	mockBookings.On("ActiveSeatGenders", mock.Anything, int64(7)).Return([]repository.SeatGender{}, nil)

	service := newTestService(mockBookings, mockTrips, new(MockSeatFeed))

	_, err := service.CreateBooking(context.Background(), 42, CreateBookingRequest{
		TripID: 7,
		Seats:  []string{"1A", "1A"},
	})

	var dup *DuplicateSeatError
	require.ErrorAs(t, err, &dup)
}

func TestService_CreateBooking_BothVariantsRejected(t *testing.T) {
	service := newTestService(new(MockBookingRepository), new(MockTripRepository), new(MockSeatFeed))

	_, err := service.CreateBooking(context.Background(), 42, CreateBookingRequest{
		TripID:     7,
		Seats:      []string{"1A"},
		Passengers: []PassengerInput{{Seat: "1B"}},
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_CreateBooking_EmptyRequest(t *testing.T) {
	service := newTestService(new(MockBookingRepository), new(MockTripRepository), new(MockSeatFeed))

	_, err := service.CreateBooking(context.Background(), 42, CreateBookingRequest{TripID: 7})

	assert.ErrorIs(t, err, ErrNoSeats)
}

func TestService_CreateBooking_TripNotFound(t *testing.T) {
	mockTrips := new(MockTripRepository)
	mockTrips.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	service := newTestService(new(MockBookingRepository), mockTrips, new(MockSeatFeed))

	_, err := service.CreateBooking(context.Background(), 42, CreateBookingRequest{
		TripID: 404,
		Seats:  []string{"1A"},
	})

	assert.ErrorIs(t, err, ErrTripNotFound)
}

func TestService_CreateBooking_RaceLostAtWrite(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTrips := new(MockTripRepository)

	mockTrips.On("GetByID", mock.Anything, int64(7)).Return(testTrip(), nil)
	mockBookings.On("ActiveSeatGenders", mock.Anything, int64(7)).Return([]repository.SeatGender{}, nil)
	mockBookings.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(repository.ErrSeatConflict)

	mockFeed := new(MockSeatFeed)
	service := newTestService(mockBookings, mockTrips, mockFeed)

	_, err := service.CreateBooking(context.Background(), 42, CreateBookingRequest{
		TripID: 7,
		Seats:  []string{"1A"},
	})

	assert.ErrorIs(t, err, repository.ErrSeatConflict)
	mockFeed.AssertNotCalled(t, "SeatsBooked", mock.Anything, mock.Anything)
}

func TestService_HoldSeats_ReturnsTokenAndExpiry(t *testing.T) {
	mockHolds := new(MockSeatHolder)
	mockHolds.On("Acquire", mock.Anything, int64(7), []string{"1A", "1B"}).Return("tok-123", true, nil)
	mockHolds.On("TTL").Return(5 * time.Minute)

	service := NewService(new(MockBookingRepository), new(MockTripRepository),
		new(MockPassengerRepository), mockHolds, nil, seatmap.DefaultRules)

	hold, err := service.HoldSeats(context.Background(), HoldRequest{TripID: 7, Seats: []string{"1A", "1B"}})

	require.NoError(t, err)
	assert.Equal(t, "tok-123", hold.Token)
	assert.Equal(t, int64(300), hold.ExpiresIn)
}

func TestService_HoldSeats_SeatHeldElsewhere(t *testing.T) {
	mockHolds := new(MockSeatHolder)
	mockHolds.On("Acquire", mock.Anything, int64(7), []string{"2B"}).Return("", false, nil)

	service := NewService(new(MockBookingRepository), new(MockTripRepository),
		new(MockPassengerRepository), mockHolds, nil, seatmap.DefaultRules)

	_, err := service.HoldSeats(context.Background(), HoldRequest{TripID: 7, Seats: []string{"2B"}})

	var taken *SeatTakenError
	require.ErrorAs(t, err, &taken)
	assert.Equal(t, "2B", taken.Seat)
}

func TestService_CancelBooking_ReleasesSeats(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockFeed := new(MockSeatFeed)

	active := &domain.Booking{
		ID:     5,
		UserID: 42,
		TripID: 7,
		Status: domain.BookingConfirmed,
		Seats: []domain.BookingSeat{
			{TripID: 7, Seat: "1A"},
			{TripID: 7, Seat: "1B"},
		},
	}
	cancelled := &domain.Booking{ID: 5, UserID: 42, TripID: 7, Status: domain.BookingCancelled}

	mockBookings.On("GetByID", mock.Anything, int64(5)).Return(active, nil).Once()
	mockBookings.On("Cancel", mock.Anything, int64(5)).Return(nil)
	mockBookings.On("GetByID", mock.Anything, int64(5)).Return(cancelled, nil).Once()
	mockFeed.On("SeatsReleased", int64(7), []string{"1A", "1B"}).Return()

	service := newTestService(mockBookings, new(MockTripRepository), mockFeed)

	b, err := service.CancelBooking(context.Background(), 42, 5)

	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, b.Status)
	mockFeed.AssertExpectations(t)
}

func TestService_CancelBooking_Forbidden(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockBookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID:     5,
		UserID: 99,
		Status: domain.BookingPending,
	}, nil)

	service := newTestService(mockBookings, new(MockTripRepository), new(MockSeatFeed))

	_, err := service.CancelBooking(context.Background(), 42, 5)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_CancelBooking_AlreadyCancelled(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockBookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID:     5,
		UserID: 42,
		Status: domain.BookingCancelled,
	}, nil)

	service := newTestService(mockBookings, new(MockTripRepository), new(MockSeatFeed))

	_, err := service.CancelBooking(context.Background(), 42, 5)
	assert.ErrorIs(t, err, ErrNotActive)
}

func TestService_Suggestions(t *testing.T) {
	mockPassengers := new(MockPassengerRepository)
	age := 34
	mockPassengers.On("Suggestions", mock.Anything, int64(42)).Return([]domain.Passenger{
		{Name: "Asha", Age: &age, Mobile: "9876543210", Gender: "Female"},
	}, nil)

	service := NewService(new(MockBookingRepository), new(MockTripRepository), mockPassengers, nil, nil, seatmap.DefaultRules)

	out, err := service.Suggestions(context.Background(), 42)

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Asha", out[0].Name)
	assert.Equal(t, "9876543210", out[0].Mobile)
}
