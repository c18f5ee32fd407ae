package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"beauty-center-backend/config"
	deliveryHttp "beauty-center-backend/internal/delivery/http"
	"beauty-center-backend/internal/delivery/http/handler"
	"beauty-center-backend/internal/delivery/http/middleware"
	"beauty-center-backend/internal/event"
	"beauty-center-backend/internal/infrastructure/cache"
	"beauty-center-backend/internal/infrastructure/database"
	"beauty-center-backend/internal/infrastructure/metrics"
	"beauty-center-backend/internal/infrastructure/queue"
	"beauty-center-backend/internal/repository"
	"beauty-center-backend/internal/service"
	"beauty-center-backend/internal/usecase"
	"beauty-center-backend/pkg/jwt"
	"beauty-center-backend/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server

	bus      *event.Bus
	locker   *service.BookingLocker
	notifier io.Closer
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	log := logrus.StandardLogger()
	app := &App{Log: log}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	setupLogger(log, cfg.App.LogLevel)
	log.Info("Configuration loaded successfully")

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(db, log); err != nil {
			app.Close()
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	app.Server = app.initializeServer()

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(log *logrus.Logger, level string) {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", level)
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer() *http.Server {
	cfg, log, db := app.Config, app.Log, app.DB

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	// Repositories
	txManager := database.NewTxManager(db)
	companyRepo := repository.NewCompanyRepository()
	locationRepo := repository.NewLocationRepository()
	serviceRepo := repository.NewServiceRepository()
	employeeRepo := repository.NewEmployeeRepository()
	customerRepo := repository.NewCustomerRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	tokenRepo := repository.NewTokenRepository(app.RedisClient)

	// Services
	auditService := service.NewAuditService(log, auditLogRepo)
	app.locker = service.NewBookingLocker(log, cfg.Booking.LockCleanupInterval, cfg.Booking.LockStaleThreshold)

	// Events
	app.bus = event.NewBus(log,
		event.WithListenerTimeout(cfg.Events.ListenerTimeout),
		event.WithFailureHook(func(listener string) {
			appMetrics.ListenerFailures.WithLabelValues(listener).Inc()
		}),
	)
	logListener := event.NewLogListener(log)
	auditListener := event.NewAuditListener(txManager, auditService)
	app.bus.SubscribeAppointments(logListener, auditListener, event.NewMetricsListener(appMetrics))
	app.bus.SubscribeUsers(logListener, auditListener)
	if notifier := app.newNotifier(); notifier != nil {
		app.bus.SubscribeAppointments(event.NewNotificationListener(notifier))
	}

	// Usecases
	policy := usecase.TransitionLenient
	if cfg.Booking.TransitionPolicy == config.TransitionPolicyStrict {
		policy = usecase.TransitionStrict
	}
	appointmentUsecase := usecase.NewAppointmentUsecase(txManager, log, appointmentRepo, companyRepo,
		employeeRepo, customerRepo, serviceRepo, app.locker, app.bus, policy)
	authUsecase := usecase.NewAuthUsecase(txManager, log, userRepo, roleRepo, tokenRepo, jwtService, app.bus)
	userUsecase := usecase.NewUserUsecase(txManager, log, userRepo, roleRepo, tokenRepo, auditService, app.bus)
	companyUsecase := usecase.NewCompanyUsecase(txManager, log, companyRepo, auditService)
	locationUsecase := usecase.NewLocationUsecase(txManager, log, locationRepo, companyRepo)
	serviceUsecase := usecase.NewServiceUsecase(txManager, log, serviceRepo, companyRepo)
	employeeUsecase := usecase.NewEmployeeUsecase(txManager, log, employeeRepo, companyRepo)
	customerUsecase := usecase.NewCustomerUsecase(txManager, log, customerRepo)
	auditLogUsecase := usecase.NewAuditLogUsecase(txManager, log, auditLogRepo)

	// Handlers
	handlers := deliveryHttp.Handlers{
		Health: handler.NewHealthHandler(
			handler.HealthCheck{Name: "postgres", Check: func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			}},
			handler.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
				return app.RedisClient.Ping(ctx).Err()
			}},
		),
		Auth:        handler.NewAuthHandler(authUsecase, customValidator),
		Company:     handler.NewCompanyHandler(companyUsecase, customValidator),
		Location:    handler.NewLocationHandler(locationUsecase, customValidator),
		Service:     handler.NewServiceHandler(serviceUsecase, customValidator),
		Employee:    handler.NewEmployeeHandler(employeeUsecase, customValidator),
		Customer:    handler.NewCustomerHandler(customerUsecase, customValidator),
		Appointment: handler.NewAppointmentHandler(appointmentUsecase, customValidator, appMetrics),
		User:        handler.NewUserHandler(userUsecase, customValidator),
		AuditLog:    handler.NewAuditLogHandler(auditLogUsecase),
	}

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenRepo)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins)

	var (
		metricsMiddleware *middleware.MetricsMiddleware
		metricsHandler    http.Handler
	)
	if cfg.Metrics.Enabled {
		metricsMiddleware = middleware.NewMetricsMiddleware(appMetrics)
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}

	router := deliveryHttp.NewRouter(handlers, authMiddleware, corsMiddleware, metricsMiddleware, metricsHandler, cfg.Metrics.Path)

	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.App.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
		IdleTimeout:  cfg.App.IdleTimeout,
	}
}

type closingPublisher interface {
	event.MessagePublisher
	io.Closer
}

// newNotifier returns the configured broker transport, or nil when
// notifications are off.
func (app *App) newNotifier() event.MessagePublisher {
	cfg := app.Config.Notify

	var p closingPublisher
	switch cfg.Transport {
	case config.NotifyTransportRabbitMQ:
		p = queue.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQQueue, app.Log)
	case config.NotifyTransportKafka:
		p = queue.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	default:
		return nil
	}

	app.notifier = p
	app.Log.WithField("transport", cfg.Transport).Info("Appointment notifications enabled")
	return p
}

// Run serves HTTP until SIGINT or SIGTERM, then shuts down gracefully.
func (app *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		app.Log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := app.Server.Shutdown(shutdownCtx); err != nil {
			app.Log.Errorf("Server forced to shutdown: %v", err)
		}
		return nil
	})

	err := g.Wait()
	app.Close()
	app.Log.Info("Server shutdown complete")
	return err
}

// Close drains pending events, then closes connections.
func (app *App) Close() {
	if app.bus != nil {
		app.bus.Close()
	}
	if app.locker != nil {
		app.locker.Stop()
	}
	if app.notifier != nil {
		if err := app.notifier.Close(); err != nil {
			app.Log.Warnf("Failed to close notification publisher: %+v", err)
		}
	}
	if app.DB != nil {
		if sqlDB, err := app.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if app.RedisClient != nil {
		_ = app.RedisClient.Close()
	}
}
