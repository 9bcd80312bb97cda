package services

import (
	"context"
	"errors"
	"math"

	"gorm.io/datatypes"

	"booking-backend/apperrors"
	"booking-backend/events"
	"booking-backend/logger"
	"booking-backend/models"
	"booking-backend/repositories"
)

// DeleteOutcome reports how a room was deactivated.
type DeleteOutcome string

const (
	// DeleteOutcomeRemoved means the row was physically deleted (no history).
	DeleteOutcomeRemoved DeleteOutcome = "removed"
	// DeleteOutcomeArchived means the row was kept with is_active=false
	// because bookings reference it.
	DeleteOutcomeArchived DeleteOutcome = "archived"
)

// RoomWithStatus pairs a room with its derived booking flag. The flag is
// computed from the booking relation on every read, never stored.
type RoomWithStatus struct {
	models.Room
	IsBooked bool `json:"isBooked"`
}

type CreateRoomInput struct {
	Description string
	Price       float64
	Amenities   datatypes.JSON
}

type RoomService struct {
	rooms     repositories.RoomRepository
	publisher events.Publisher
	log       *logger.Logger
}

func NewRoomService(rooms repositories.RoomRepository, publisher events.Publisher, log *logger.Logger) *RoomService {
	return &RoomService{rooms: rooms, publisher: publisher, log: log}
}

// validatePrice enforces non-negative prices with cent precision. Values with
// more than 2 decimal places are rejected outright, never rounded.
func validatePrice(price float64) error {
	if price < 0 {
		return apperrors.Validation("price must be non-negative", map[string]any{"price": price})
	}
	cents := price * 100
	if math.Abs(cents-math.Round(cents)) > 1e-9 {
		return apperrors.Validation("price must have at most 2 decimal places", map[string]any{"price": price})
	}
	return nil
}

func (s *RoomService) Create(ctx context.Context, input CreateRoomInput) (*RoomWithStatus, error) {
	if err := validatePrice(input.Price); err != nil {
		return nil, err
	}

	room := &models.Room{
		Description: input.Description,
		Price:       input.Price,
		IsActive:    true,
		Amenities:   input.Amenities,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		s.log.Error("failed to create room", "error", err)
		return nil, apperrors.Internal("Failed to create room", err)
	}

	s.log.Info("room created", "room_id", room.ID)
	s.publish(ctx, events.Event{
		Type:    events.TypeRoomCreated,
		Payload: map[string]any{"room_id": room.ID},
	})
	return &RoomWithStatus{Room: *room, IsBooked: false}, nil
}

// GetAll returns every active room with its booking flag derived per read.
func (s *RoomService) GetAll(ctx context.Context) ([]RoomWithStatus, error) {
	rooms, err := s.rooms.GetAll(ctx)
	if err != nil {
		s.log.Error("failed to list rooms", "error", err)
		return nil, apperrors.Internal("Failed to retrieve rooms", err)
	}

	result := make([]RoomWithStatus, 0, len(rooms))
	for _, room := range rooms {
		result = append(result, RoomWithStatus{Room: room, IsBooked: len(room.Bookings) > 0})
	}
	return result, nil
}

func (s *RoomService) GetByID(ctx context.Context, id uint) (*RoomWithStatus, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRoomNotFound) {
			return nil, apperrors.NotFoundWithID("Room", id)
		}
		s.log.Error("failed to load room", "room_id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}
	return &RoomWithStatus{Room: *room, IsBooked: len(room.Bookings) > 0}, nil
}

// IsAvailable is a boolean predicate, not a lookup: a missing or archived
// room reads as unavailable rather than an error.
func (s *RoomService) IsAvailable(ctx context.Context, id uint) (bool, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRoomNotFound) {
			return false, nil
		}
		s.log.Error("failed to check room availability", "room_id", id, "error", err)
		return false, apperrors.Internal("Failed to check room availability", err)
	}
	return len(room.Bookings) == 0, nil
}

// Delete deactivates a room. Rooms with booking history are archived so no
// booking ever dangles a foreign key; rooms without history are removed. A
// booking that lands between the history check and the hard delete is caught
// by the store's FK restriction and converted to an archive.
func (s *RoomService) Delete(ctx context.Context, id uint) (DeleteOutcome, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRoomNotFound) {
			return "", apperrors.NotFoundWithID("Room", id)
		}
		s.log.Error("failed to load room for deletion", "room_id", id, "error", err)
		return "", apperrors.Internal("Failed to delete room", err)
	}

	hasBookings, err := s.rooms.HasBookings(ctx, id)
	if err != nil {
		s.log.Error("failed to check booking history", "room_id", id, "error", err)
		return "", apperrors.Internal("Failed to delete room", err)
	}

	if !hasBookings {
		err := s.rooms.HardDelete(ctx, room)
		if err == nil {
			s.log.Info("room removed", "room_id", id)
			s.publish(ctx, events.Event{
				Type:    events.TypeRoomRemoved,
				Payload: map[string]any{"room_id": id},
			})
			return DeleteOutcomeRemoved, nil
		}
		if !errors.Is(err, repositories.ErrRoomHasBookings) {
			s.log.Error("failed to remove room", "room_id", id, "error", err)
			return "", apperrors.Internal("Failed to delete room", err)
		}
		// A booking arrived concurrently, fall through to archiving.
		s.log.Warn("room gained a booking during deletion, archiving instead", "room_id", id)
	}

	if err := s.rooms.Archive(ctx, room); err != nil {
		s.log.Error("failed to archive room", "room_id", id, "error", err)
		return "", apperrors.Internal("Failed to delete room", err)
	}

	s.log.Info("room archived", "room_id", id)
	s.publish(ctx, events.Event{
		Type:    events.TypeRoomArchived,
		Payload: map[string]any{"room_id": id},
	})
	return DeleteOutcomeArchived, nil
}

func (s *RoomService) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish event", "type", event.Type, "error", err)
	}
}
