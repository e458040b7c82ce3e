package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/restoadmin/config"
	"github.com/yeremiapane/restoadmin/controllers"
	"github.com/yeremiapane/restoadmin/hub"
	"github.com/yeremiapane/restoadmin/middlewares"
	"github.com/yeremiapane/restoadmin/models"
	"github.com/yeremiapane/restoadmin/services"
	"gorm.io/gorm"
)

// Deps carries everything the handlers need.
type Deps struct {
	Config       *config.Config
	DB           *gorm.DB
	Redis        *redis.Client
	Hub          *hub.FloorHub
	Notifier     services.Notifier
	Availability *services.AvailabilityService
	Reservations *services.ReservationService
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(d.Config.CORSOrigin))
	if d.Config.RateLimit > 0 {
		r.Use(middlewares.NewGlobalRateLimit(d.Redis, d.Config.RateLimit, d.Config.RateWindow))
	}

	// Inisialisasi controller
	timeout := d.Config.StorageTimeout
	userCtrl := controllers.NewUserController(d.DB, timeout)
	dashboardCtrl := controllers.NewDashboardController(d.Availability)
	reservationCtrl := controllers.NewReservationController(d.Reservations)
	zoneCtrl := controllers.NewZoneController(d.DB, timeout)
	tableCtrl := controllers.NewTableController(d.DB, d.Notifier, timeout)
	guestCtrl := controllers.NewGuestController(d.DB, timeout)
	reportCtrl := controllers.NewReportController(d.Reservations, d.Availability)
	floorCtrl := controllers.NewFloorController(d.Hub)
	healthCtrl := controllers.NewHealthController(d.DB, d.Redis)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/healthz", healthCtrl.Healthz)
	r.GET("/readyz", healthCtrl.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Rate limiter untuk login
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter(6*time.Second, 5))
	{
		public.POST("/login", userCtrl.Login)
	}

	r.GET("/zones", dashboardCtrl.GetZones)
	r.GET("/dashboard", dashboardCtrl.GetDashboard)
	r.GET("/dashboard/load", dashboardCtrl.GetLoad)
	r.GET("/reservations", reservationCtrl.GetReservations)
	r.GET("/schedule/slots", dashboardCtrl.GetSlots)

	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketMiddleware())
	{
		wsGroup.GET("/floor", floorCtrl.Stream)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/me", userCtrl.GetProfile)
	auth.POST("/logout", userCtrl.Logout)

	// RESERVATIONS
	auth.GET("/reservations", reservationCtrl.GetReservations)
	auth.POST("/reservations", reservationCtrl.CreateReservation)
	auth.PATCH("/reservations/:id", reservationCtrl.UpdateReservationStatus)
	auth.DELETE("/reservations/:id", reservationCtrl.CancelReservation)

	// GUESTS
	auth.GET("/guests", guestCtrl.FindGuests)
	auth.GET("/guests/:guest_id", guestCtrl.GetGuestByID)

	// FLOOR (read for everyone, edits for managers)
	auth.GET("/zones", zoneCtrl.GetAllZones)
	auth.GET("/tables", tableCtrl.GetAllTables)
	managers := auth.Group("/")
	managers.Use(middlewares.RoleCheck(models.RoleManager))
	{
		managers.POST("/zones", zoneCtrl.CreateZone)
		managers.POST("/tables", tableCtrl.CreateTable)
		managers.DELETE("/tables/:table_id", tableCtrl.DeleteTable)
		managers.GET("/reports/day", reportCtrl.DayReport)
	}

	return r
}
