package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/myronlou/calendar-booking-backend/internal/announcement"
	announcementHttp "github.com/myronlou/calendar-booking-backend/internal/announcement/http"
	"github.com/myronlou/calendar-booking-backend/internal/auth"
	"github.com/myronlou/calendar-booking-backend/internal/availability"
	availabilityHttp "github.com/myronlou/calendar-booking-backend/internal/availability/http"
	"github.com/myronlou/calendar-booking-backend/internal/booking"
	bookingHttp "github.com/myronlou/calendar-booking-backend/internal/booking/http"
	"github.com/myronlou/calendar-booking-backend/internal/bookingtype"
	bookingtypeHttp "github.com/myronlou/calendar-booking-backend/internal/bookingtype/http"
	"github.com/myronlou/calendar-booking-backend/internal/exclusion"
	exclusionHttp "github.com/myronlou/calendar-booking-backend/internal/exclusion/http"
	"github.com/myronlou/calendar-booking-backend/internal/otp"
	otpHttp "github.com/myronlou/calendar-booking-backend/internal/otp/http"
	"github.com/myronlou/calendar-booking-backend/internal/user"
	userHttp "github.com/myronlou/calendar-booking-backend/internal/user/http"
)

// Config carries the services and settings the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  []string

	UserService         user.Service
	BookingTypeService  bookingtype.Service
	ExclusionService    exclusion.Service
	AvailabilityService availability.Service
	BookingService      booking.Service
	OTPService          otp.Service
	AnnouncementService announcement.Service

	JWTManager *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It assembles middleware (CORS, Logger, Auth) and registers routes for all modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Logger logs request information, Recovery captures panics and returns
	// a 500 instead of crashing the server.
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && len(cfg.ProdOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.ProdOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	adminMiddleware := RequireAdmin(cfg.UserService)

	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	bookingTypeHandler := bookingtypeHttp.NewHandler(cfg.BookingTypeService)
	exclusionHandler := exclusionHttp.NewHandler(cfg.ExclusionService)
	availabilityHandler := availabilityHttp.NewHandler(cfg.AvailabilityService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	otpHandler := otpHttp.NewHandler(cfg.OTPService)
	announcementHandler := announcementHttp.NewHandler(cfg.AnnouncementService)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, adminMiddleware)
		bookingtypeHttp.RegisterRoutes(v1, bookingTypeHandler, authMiddleware, adminMiddleware)
		exclusionHttp.RegisterRoutes(v1, exclusionHandler, authMiddleware, adminMiddleware)
		availabilityHttp.RegisterRoutes(v1, availabilityHandler, authMiddleware, adminMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, adminMiddleware)
		otpHttp.RegisterRoutes(v1, otpHandler)
		announcementHttp.RegisterRoutes(v1, announcementHandler, authMiddleware, adminMiddleware)
	}

	return r
}
