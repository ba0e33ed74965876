package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/myronlou/calendar-booking-backend/internal/announcement"
	"github.com/myronlou/calendar-booking-backend/internal/api"
	"github.com/myronlou/calendar-booking-backend/internal/auth"
	"github.com/myronlou/calendar-booking-backend/internal/availability"
	"github.com/myronlou/calendar-booking-backend/internal/booking"
	"github.com/myronlou/calendar-booking-backend/internal/bookingtype"
	"github.com/myronlou/calendar-booking-backend/internal/exclusion"
	"github.com/myronlou/calendar-booking-backend/internal/jobs"
	"github.com/myronlou/calendar-booking-backend/internal/notify"
	"github.com/myronlou/calendar-booking-backend/internal/otp"
	"github.com/myronlou/calendar-booking-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  []string

	DBPool      *pgxpool.Pool
	RedisClient *redis.Client
	Logger      zerolog.Logger

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	SMTPHost string
	SMTPPort string
	SMTPFrom string

	OTPCodeTTL     time.Duration
	OTPTokenTTL    time.Duration
	ManageTokenTTL time.Duration
	PublicBaseURL  string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router      *gin.Engine
	Scheduler   *jobs.Scheduler
	UserService user.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	// Shared components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	tokenManager := otp.NewTokenManager(cfg.JWTSecret, cfg.OTPTokenTTL, cfg.ManageTokenTTL)

	var notifier notify.Notifier
	if cfg.SMTPHost != "" {
		notifier = notify.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	} else {
		notifier = &notify.NoopNotifier{Logger: cfg.Logger}
	}

	// User module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher, cfg.Logger)

	// Booking type module
	btRepo := bookingtype.NewPgxRepository(cfg.DBPool)
	btService := bookingtype.NewService(btRepo)

	// Exclusion module
	exclusionRepo := exclusion.NewPgxRepository(cfg.DBPool)
	exclusionService := exclusion.NewService(exclusionRepo)

	// Booking module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, btService)

	// Availability module
	availabilityRepo := availability.NewPgxRepository(cfg.DBPool)
	availabilityService := availability.NewService(
		availabilityRepo, btService, exclusionRepo, bookingService, cfg.Logger,
	)

	// Verified booking flow
	codeStore := otp.NewRedisStore(cfg.RedisClient)
	otpService := otp.NewService(
		codeStore, tokenManager, bookingService, notifier,
		cfg.Logger, cfg.OTPCodeTTL, cfg.PublicBaseURL,
	)

	// Announcement module
	annRepo := announcement.NewPgxRepository(cfg.DBPool)
	annService := announcement.NewService(annRepo)

	// Background jobs
	scheduler := jobs.NewScheduler(cfg.Logger, bookingService, notifier, cfg.RedisClient)

	router := api.NewRouter(api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		UserService:         userService,
		BookingTypeService:  btService,
		ExclusionService:    exclusionService,
		AvailabilityService: availabilityService,
		BookingService:      bookingService,
		OTPService:          otpService,
		AnnouncementService: annService,
		JWTManager:          jwtManager,
	})

	return &Container{
		Router:      router,
		Scheduler:   scheduler,
		UserService: userService,
	}
}
