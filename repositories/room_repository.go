package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"booking-backend/models"
)

var (
	ErrRoomNotFound = errors.New("room not found")

	// ErrRoomHasBookings is returned when a hard delete is refused by the
	// store because bookings still reference the room (FK RESTRICT).
	ErrRoomHasBookings = errors.New("room has bookings")
)

// mysqlForeignKeyRestricted is error 1451: cannot delete a parent row.
const mysqlForeignKeyRestricted = 1451

type RoomRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Room, error)
	GetAll(ctx context.Context) ([]models.Room, error)
	Create(ctx context.Context, room *models.Room) error
	HardDelete(ctx context.Context, room *models.Room) error
	Archive(ctx context.Context, room *models.Room) error
	HasBookings(ctx context.Context, roomID uint) (bool, error)
}

type roomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

// GetByID returns an active room with its bookings loaded. Archived rooms are
// invisible here, which makes archival behave like deletion for readers.
func (r *roomRepository) GetByID(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).
		Preload("Bookings").
		Where("id = ? AND is_active = ?", id, true).
		First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to load room %d: %w", id, err)
	}
	return &room, nil
}

func (r *roomRepository) GetAll(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.WithContext(ctx).
		Preload("Bookings").
		Where("is_active = ?", true).
		Order("id").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (r *roomRepository) Create(ctx context.Context, room *models.Room) error {
	if err := r.db.WithContext(ctx).Create(room).Error; err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

// HardDelete removes the row. The store refuses the delete when bookings
// reference the room; that refusal surfaces as ErrRoomHasBookings so the
// caller can fall back to archiving.
func (r *roomRepository) HardDelete(ctx context.Context, room *models.Room) error {
	result := r.db.WithContext(ctx).Delete(&models.Room{}, room.ID)
	if result.Error != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(result.Error, &mysqlErr) && mysqlErr.Number == mysqlForeignKeyRestricted {
			return ErrRoomHasBookings
		}
		return fmt.Errorf("failed to delete room %d: %w", room.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (r *roomRepository) Archive(ctx context.Context, room *models.Room) error {
	result := r.db.WithContext(ctx).
		Model(&models.Room{}).
		Where("id = ?", room.ID).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to archive room %d: %w", room.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRoomNotFound
	}
	room.IsActive = false
	return nil
}

func (r *roomRepository) HasBookings(ctx context.Context, roomID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("room_id = ?", roomID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count bookings for room %d: %w", roomID, err)
	}
	return count > 0, nil
}
