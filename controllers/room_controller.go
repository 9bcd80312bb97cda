package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"booking-backend/services"
	"booking-backend/utils"
)

type RoomManager interface {
	Create(ctx context.Context, input services.CreateRoomInput) (*services.RoomWithStatus, error)
	GetAll(ctx context.Context) ([]services.RoomWithStatus, error)
	GetByID(ctx context.Context, id uint) (*services.RoomWithStatus, error)
	IsAvailable(ctx context.Context, id uint) (bool, error)
	Delete(ctx context.Context, id uint) (services.DeleteOutcome, error)
}

type RoomController struct {
	rooms RoomManager
}

func NewRoomController(rooms RoomManager) *RoomController {
	return &RoomController{rooms: rooms}
}

type CreateRoomRequest struct {
	Description string         `json:"description" binding:"required"`
	Price       float64        `json:"price"`
	Amenities   datatypes.JSON `json:"amenities,omitempty"`
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// GetRooms lists active rooms with their derived booking status.
func (rc *RoomController) GetRooms(c *gin.Context) {
	rooms, err := rc.rooms.GetAll(c.Request.Context())
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

func (rc *RoomController) GetRoom(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	room, err := rc.rooms.GetByID(c.Request.Context(), id)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// CheckAvailability answers with a plain boolean; an unknown room reads as
// unavailable, not as an error.
func (rc *RoomController) CheckAvailability(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	available, err := rc.rooms.IsAvailable(c.Request.Context(), id)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"available": available})
}

func (rc *RoomController) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	room, err := rc.rooms.Create(c.Request.Context(), services.CreateRoomInput{
		Description: req.Description,
		Price:       req.Price,
		Amenities:   req.Amenities,
	})
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

// DeleteRoom removes rooms without history and archives the rest.
func (rc *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	outcome, err := rc.rooms.Delete(c.Request.Context(), id)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}

	if outcome == services.DeleteOutcomeRemoved {
		c.Status(http.StatusNoContent)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"outcome": string(outcome)})
}
