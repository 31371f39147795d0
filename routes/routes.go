package routes

import (
	"inkbook/handlers"
	"inkbook/middleware"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAvailabilityRoutes registers the public availability endpoints.
// These require no authentication so clients can browse before signing in.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/books/:id")
	{
		api.GET("", hb.Books.GetBook)
		api.GET("/availability", hb.Availability.GetDayAvailability)
		api.GET("/slots", hb.Availability.GetBookableStarts)
		api.GET("/calendar", hb.Availability.GetMonthAvailability)
	}
}

// RegisterReservationRoutes sets up the endpoints for the reservation engine.
func RegisterReservationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.Use(middleware.JWTAuthMiddleware(""))
		api.POST("/books/:id/reservations", hb.Reservations.CreateReservation)
		api.POST("/reservations/:id/confirm", hb.Reservations.ConfirmReservation)
		api.POST("/reservations/:id/cancel", hb.Reservations.CancelReservation)
		api.GET("/reservations", hb.Reservations.ListMyReservations)
	}
}

// RegisterArtistRoutes registers book and schedule management endpoints.
func RegisterArtistRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/artist")
	{
		api.Use(middleware.JWTAuthMiddleware("artist"))
		api.POST("/books", hb.Books.CreateBook)
		api.GET("/books", hb.Books.ListMyBooks)
		api.DELETE("/books/:id", hb.Books.DeleteBook)

		api.PUT("/books/:id/schedule", hb.Schedule.SetupSchedule)
		api.GET("/books/:id/schedule", hb.Schedule.GetSchedule)
		api.PUT("/books/:id/exceptions", hb.Schedule.UpsertException)
		api.DELETE("/books/:id/exceptions/:date", hb.Schedule.DeleteException)
		api.POST("/books/:id/blocks", hb.Schedule.CreateBlock)
		api.GET("/books/:id/blocks", hb.Schedule.ListBlocks)
		api.DELETE("/books/:id/blocks/:blockId", hb.Schedule.DeleteBlock)

		api.GET("/books/:id/reservations", hb.Reservations.ListBookReservations)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Inkbook"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAvailabilityRoutes(r, hb)
	RegisterReservationRoutes(r, hb)
	RegisterArtistRoutes(r, hb)
}
