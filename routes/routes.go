package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"booking-backend/controllers"
	"booking-backend/logger"
	"booking-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires the transport. Room reads are public, inventory
// management is admin-only, bookings are scoped to the caller identity.
func SetupRouter(
	rc *controllers.RoomController,
	bc *controllers.BookingController,
	ac *controllers.AuthController,
	adminAuth middleware.AdminAuthenticator,
	log *logger.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.IdentityHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", ac.Login)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", rc.GetRooms)
			rooms.GET("/:id", rc.GetRoom)
			rooms.GET("/:id/availability", rc.CheckAvailability)

			admin := rooms.Group("", middleware.RequireAdmin(adminAuth))
			{
				admin.POST("", rc.CreateRoom)
				admin.DELETE("/:id", rc.DeleteRoom)
			}
		}

		bookings := api.Group("/bookings", middleware.RequireIdentity())
		{
			bookings.POST("", bc.CreateBooking)
			bookings.GET("/my", bc.GetMyBookings)
			bookings.GET("/:id", bc.GetBooking)
		}
	}

	return r
}
