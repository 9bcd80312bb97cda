package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"booking-backend/middleware"
	"booking-backend/models"
	"booking-backend/utils"
)

type BookingManager interface {
	Create(ctx context.Context, roomID uint, userID string) (*models.Booking, error)
	GetByID(ctx context.Context, id uint, userID string) (*models.Booking, error)
	GetByUser(ctx context.Context, userID string) ([]models.Booking, error)
}

type BookingController struct {
	bookings BookingManager
}

func NewBookingController(bookings BookingManager) *BookingController {
	return &BookingController{bookings: bookings}
}

// CreateBookingRequest carries only the room reference. Owner and booking
// date are set server-side from the authenticated identity and the clock.
type CreateBookingRequest struct {
	RoomID uint `json:"room_id" binding:"required"`
}

func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	booking, err := bc.bookings.Create(c.Request.Context(), req.RoomID, middleware.UserID(c))
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, booking)
}

// GetBooking returns the booking only to its owner; anyone else sees 404.
func (bc *BookingController) GetBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	booking, err := bc.bookings.GetByID(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (bc *BookingController) GetMyBookings(c *gin.Context) {
	bookings, err := bc.bookings.GetByUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}
