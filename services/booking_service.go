package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"booking-backend/apperrors"
	"booking-backend/events"
	"booking-backend/logger"
	"booking-backend/models"
	"booking-backend/repositories"
)

// BookingService decides booking admissibility and enforces the
// one-booking-per-room invariant. The read-then-write sequence in Create is
// racy on its own; the unique index on bookings.room_id is the authority, and
// both loser paths collapse into the same conflict result.
type BookingService struct {
	bookings  repositories.BookingRepository
	rooms     repositories.RoomRepository
	publisher events.Publisher
	log       *logger.Logger
}

func NewBookingService(
	bookings repositories.BookingRepository,
	rooms repositories.RoomRepository,
	publisher events.Publisher,
	log *logger.Logger,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		rooms:     rooms,
		publisher: publisher,
		log:       log,
	}
}

func roomAlreadyBooked(roomID uint) *apperrors.AppError {
	return apperrors.Conflict(fmt.Sprintf("Room %d is already booked", roomID))
}

// Create reserves a room for the given caller identity. Room, user and
// booking date are set server-side; caller-supplied values for them are
// ignored upstream. Exactly one row is created on success, none on failure.
func (s *BookingService) Create(ctx context.Context, roomID uint, userID string) (*models.Booking, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.InvalidInput("caller identity is required")
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoomNotFound) {
			s.log.Warn("room not found for booking", "room_id", roomID, "user_id", userID)
			return nil, apperrors.NotFoundWithID("Room", roomID)
		}
		s.log.Error("failed to load room for booking", "room_id", roomID, "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	// Fast-path rejection. Not authoritative under concurrency.
	if len(room.Bookings) > 0 {
		s.log.Warn("room already booked", "room_id", roomID, "user_id", userID)
		return nil, roomAlreadyBooked(roomID)
	}

	booking := &models.Booking{
		UserID:        userID,
		RoomID:        room.ID,
		ReferenceCode: uuid.NewString(),
		BookingDate:   time.Now().UTC(),
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		if errors.Is(err, repositories.ErrRoomAlreadyBooked) {
			// Race loser. Indistinguishable from the pre-check conflict.
			s.log.Warn("room already booked at persist time", "room_id", roomID, "user_id", userID)
			return nil, roomAlreadyBooked(roomID)
		}
		s.log.Error("failed to create booking", "room_id", roomID, "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.log.Info("booking created",
		"booking_id", booking.ID,
		"room_id", roomID,
		"user_id", userID,
		"reference_code", booking.ReferenceCode,
	)
	s.publish(ctx, events.Event{
		Type: events.TypeBookingCreated,
		Payload: map[string]any{
			"booking_id":     booking.ID,
			"room_id":        booking.RoomID,
			"user_id":        booking.UserID,
			"reference_code": booking.ReferenceCode,
		},
	})
	return booking, nil
}

// GetByID returns the booking only to its owner. A booking held by another
// user is reported as not found; the ownership miss is still logged for audit.
func (s *BookingService) GetByID(ctx context.Context, id uint, userID string) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrBookingNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		s.log.Error("failed to load booking", "booking_id", id, "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	if booking.UserID != userID {
		s.log.Warn("user attempted to access booking belonging to another user",
			"booking_id", id, "user_id", userID)
		return nil, apperrors.NotFoundWithID("Booking", id)
	}

	return booking, nil
}

// GetByUser lists the caller's bookings in insertion order.
func (s *BookingService) GetByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.InvalidInput("caller identity is required")
	}

	bookings, err := s.bookings.GetByUserID(ctx, userID)
	if err != nil {
		s.log.Error("failed to list bookings", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	s.log.Info("retrieved bookings", "user_id", userID, "count", len(bookings))
	return bookings, nil
}

func (s *BookingService) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish event", "type", event.Type, "error", err)
	}
}
