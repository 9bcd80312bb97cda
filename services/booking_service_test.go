package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"booking-backend/apperrors"
	"booking-backend/logger"
	"booking-backend/models"
	"booking-backend/repositories"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Output: io.Discard})
}

// === Mock repositories ===

type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) GetByID(ctx context.Context, id uint) (*models.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockRoomRepository) GetAll(ctx context.Context) ([]models.Room, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Room), args.Error(1)
}

func (m *MockRoomRepository) Create(ctx context.Context, room *models.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomRepository) HardDelete(ctx context.Context, room *models.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomRepository) Archive(ctx context.Context, room *models.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomRepository) HasBookings(ctx context.Context, roomID uint) (bool, error) {
	args := m.Called(ctx, roomID)
	return args.Bool(0), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id uint) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByUserID(ctx context.Context, userID string) ([]models.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}

// === Tests ===

func TestBookingService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates booking with server-side fields", func(t *testing.T) {
		rooms := new(MockRoomRepository)
		bookings := new(MockBookingRepository)

		rooms.On("GetByID", mock.Anything, uint(1)).
			Return(&models.Room{ID: 1, Description: "Deluxe", Price: 100.00, IsActive: true}, nil)
		bookings.On("Create", mock.Anything, mock.AnythingOfType("*models.Booking")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.Booking).ID = 42
			}).
			Return(nil)

		svc := NewBookingService(bookings, rooms, nil, testLogger())
		before := time.Now().UTC()

		booking, err := svc.Create(ctx, 1, "alice")
		require.NoError(t, err)
		assert.Equal(t, uint(42), booking.ID)
		assert.Equal(t, uint(1), booking.RoomID)
		assert.Equal(t, "alice", booking.UserID)
		assert.NotEmpty(t, booking.ReferenceCode)
		assert.False(t, booking.BookingDate.Before(before))
		assert.False(t, booking.BookingDate.After(time.Now().UTC()))
		bookings.AssertExpectations(t)
	})

	t.Run("missing room is not found", func(t *testing.T) {
		rooms := new(MockRoomRepository)
		bookings := new(MockBookingRepository)
		rooms.On("GetByID", mock.Anything, uint(999)).Return(nil, repositories.ErrRoomNotFound)

		svc := NewBookingService(bookings, rooms, nil, testLogger())

		_, err := svc.Create(ctx, 999, "alice")
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
		bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("booked room is a conflict on the fast path", func(t *testing.T) {
		rooms := new(MockRoomRepository)
		bookings := new(MockBookingRepository)
		rooms.On("GetByID", mock.Anything, uint(1)).Return(&models.Room{
			ID:       1,
			IsActive: true,
			Bookings: []models.Booking{{ID: 7, RoomID: 1, UserID: "alice"}},
		}, nil)

		svc := NewBookingService(bookings, rooms, nil, testLogger())

		_, err := svc.Create(ctx, 1, "bob")
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.CodeConflict, appErr.Code)
		bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("constraint violation at persist time is the same conflict", func(t *testing.T) {
		rooms := new(MockRoomRepository)
		bookings := new(MockBookingRepository)
		rooms.On("GetByID", mock.Anything, uint(1)).
			Return(&models.Room{ID: 1, IsActive: true}, nil)
		bookings.On("Create", mock.Anything, mock.Anything).
			Return(repositories.ErrRoomAlreadyBooked)

		svc := NewBookingService(bookings, rooms, nil, testLogger())

		_, errPersist := svc.Create(ctx, 1, "bob")
		var persistErr *apperrors.AppError
		require.ErrorAs(t, errPersist, &persistErr)
		assert.Equal(t, apperrors.CodeConflict, persistErr.Code)

		// Fast-path loser for comparison.
		roomsBooked := new(MockRoomRepository)
		roomsBooked.On("GetByID", mock.Anything, uint(1)).Return(&models.Room{
			ID: 1, IsActive: true, Bookings: []models.Booking{{ID: 7, RoomID: 1}},
		}, nil)
		svcBooked := NewBookingService(new(MockBookingRepository), roomsBooked, nil, testLogger())
		_, errFast := svcBooked.Create(ctx, 1, "bob")
		var fastErr *apperrors.AppError
		require.ErrorAs(t, errFast, &fastErr)

		// Callers cannot observe which path detected the collision.
		assert.Equal(t, fastErr.Code, persistErr.Code)
		assert.Equal(t, fastErr.Message, persistErr.Message)
		assert.Equal(t, fastErr.StatusCode(), persistErr.StatusCode())
	})

	t.Run("empty identity is rejected before touching the store", func(t *testing.T) {
		rooms := new(MockRoomRepository)
		bookings := new(MockBookingRepository)

		svc := NewBookingService(bookings, rooms, nil, testLogger())

		_, err := svc.Create(ctx, 1, "   ")
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.CodeInvalidInput, appErr.Code)
		rooms.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("storage failure stays opaque", func(t *testing.T) {
		rooms := new(MockRoomRepository)
		bookings := new(MockBookingRepository)
		rooms.On("GetByID", mock.Anything, uint(1)).Return(nil, errors.New("connection reset"))

		svc := NewBookingService(bookings, rooms, nil, testLogger())

		_, err := svc.Create(ctx, 1, "alice")
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.CodeInternal, appErr.Code)
	})
}

func TestBookingService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("owner sees the booking", func(t *testing.T) {
		bookings := new(MockBookingRepository)
		bookings.On("GetByID", mock.Anything, uint(5)).
			Return(&models.Booking{ID: 5, UserID: "alice", RoomID: 3}, nil)

		svc := NewBookingService(bookings, new(MockRoomRepository), nil, testLogger())

		booking, err := svc.GetByID(ctx, 5, "alice")
		require.NoError(t, err)
		assert.Equal(t, uint(5), booking.ID)
	})

	t.Run("another user's booking is indistinguishable from a missing one", func(t *testing.T) {
		bookings := new(MockBookingRepository)
		bookings.On("GetByID", mock.Anything, uint(5)).
			Return(&models.Booking{ID: 5, UserID: "bob", RoomID: 3}, nil)
		bookings.On("GetByID", mock.Anything, uint(99)).
			Return(nil, repositories.ErrBookingNotFound)

		svc := NewBookingService(bookings, new(MockRoomRepository), nil, testLogger())

		_, errForeign := svc.GetByID(ctx, 5, "alice")
		_, errMissing := svc.GetByID(ctx, 99, "alice")

		var foreignErr, missingErr *apperrors.AppError
		require.ErrorAs(t, errForeign, &foreignErr)
		require.ErrorAs(t, errMissing, &missingErr)
		assert.Equal(t, apperrors.CodeNotFound, foreignErr.Code)
		assert.Equal(t, missingErr.Code, foreignErr.Code)
		assert.Equal(t, missingErr.StatusCode(), foreignErr.StatusCode())
		assert.Equal(t, missingErr.Message, foreignErr.Message)
	})
}

func TestBookingService_GetByUser(t *testing.T) {
	bookings := new(MockBookingRepository)
	bookings.On("GetByUserID", mock.Anything, "alice").
		Return([]models.Booking{
			{ID: 1, UserID: "alice", RoomID: 1},
			{ID: 2, UserID: "alice", RoomID: 4},
		}, nil)

	svc := NewBookingService(bookings, new(MockRoomRepository), nil, testLogger())

	result, err := svc.GetByUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, uint(1), result[0].ID)
}

// === Concurrency property ===

// fakeBookingStore enforces uniqueness on room_id the way the MySQL index
// does, so N racing writers exercise the persist-time conflict path.
type fakeBookingStore struct {
	mu     sync.Mutex
	byRoom map[uint]*models.Booking
	nextID uint
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{byRoom: make(map[uint]*models.Booking)}
}

func (f *fakeBookingStore) Create(_ context.Context, booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.byRoom[booking.RoomID]; exists {
		return repositories.ErrRoomAlreadyBooked
	}
	f.nextID++
	booking.ID = f.nextID
	copied := *booking
	f.byRoom[booking.RoomID] = &copied
	return nil
}

func (f *fakeBookingStore) GetByID(_ context.Context, id uint) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.byRoom {
		if b.ID == id {
			copied := *b
			return &copied, nil
		}
	}
	return nil, repositories.ErrBookingNotFound
}

func (f *fakeBookingStore) GetByUserID(_ context.Context, userID string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Booking
	for _, b := range f.byRoom {
		if b.UserID == userID {
			result = append(result, *b)
		}
	}
	return result, nil
}

// unbookedRoomStore always reports the room as free, forcing every caller
// past the pre-check so only the store-level constraint can arbitrate.
type unbookedRoomStore struct{}

func (unbookedRoomStore) GetByID(_ context.Context, id uint) (*models.Room, error) {
	return &models.Room{ID: id, IsActive: true}, nil
}
func (unbookedRoomStore) GetAll(context.Context) ([]models.Room, error)   { return nil, nil }
func (unbookedRoomStore) Create(context.Context, *models.Room) error      { return nil }
func (unbookedRoomStore) HardDelete(context.Context, *models.Room) error  { return nil }
func (unbookedRoomStore) Archive(context.Context, *models.Room) error     { return nil }
func (unbookedRoomStore) HasBookings(context.Context, uint) (bool, error) { return false, nil }

func TestBookingService_ConcurrentReservations(t *testing.T) {
	const attempts = 50

	store := newFakeBookingStore()
	svc := NewBookingService(store, unbookedRoomStore{}, nil, testLogger())

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.Create(context.Background(), 1, "user-"+string(rune('a'+n%26)))
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		require.Equal(t, apperrors.CodeConflict, appErr.Code)
		conflicts++
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
	assert.Len(t, store.byRoom, 1)
}
