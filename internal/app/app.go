package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alimikegami/e-commerce/storefront-service/config"
	"github.com/alimikegami/e-commerce/storefront-service/internal/controller"
	circuitbreaker "github.com/alimikegami/e-commerce/storefront-service/internal/infrastructure/circuit-breaker"
	"github.com/alimikegami/e-commerce/storefront-service/internal/infrastructure/message-queue/kafka"
	"github.com/alimikegami/e-commerce/storefront-service/internal/infrastructure/storage"
	"github.com/alimikegami/e-commerce/storefront-service/internal/infrastructure/tracing"
	localmiddleware "github.com/alimikegami/e-commerce/storefront-service/internal/middleware"
	"github.com/alimikegami/e-commerce/storefront-service/internal/repository"
	"github.com/alimikegami/e-commerce/storefront-service/internal/service"
	"github.com/alimikegami/e-commerce/storefront-service/pkg/response"
	"github.com/alimikegami/e-commerce/storefront-service/pkg/utils"
	"github.com/go-co-op/gocron/v2"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type App struct {
	DB     *mongo.Database
	Config *config.Config
	Server *echo.Echo

	metrics       *echo.Echo
	scheduler     gocron.Scheduler
	traceProvider *sdktrace.TracerProvider
	emitter       *service.EventEmitter
	notifier      service.NotificationService
	userSvc       service.UserService
	productSvc    service.ProductService
	closers       []func() error
}

// Build wires every component. It does not open listeners.
func (app *App) Build(ctx context.Context) (err error) {
	app.traceProvider, err = tracing.InitTracing(app.Config.TracingConfig.CollectorHost, app.Config.ServiceName)
	if err != nil {
		return err
	}

	tracer := app.traceProvider.Tracer(app.Config.ServiceName)

	e := echo.New()
	e.HideBanner = true
	e.Validator = utils.NewValidator()
	e.HTTPErrorHandler = response.HTTPErrorHandler

	e.Use(middleware.Recover())
	e.Use(localmiddleware.Tracing(tracer))

	// Used empty string so that metrics are not prefixed with the service name making it easier to aggregate across services
	e.Use(echoprometheus.NewMiddleware(""))
	e.Use(localmiddleware.Logger)
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, app.Config.JWTConfig.Header},
	}))
	e.Use(middleware.BodyLimit(bodyLimit(app.Config.StorageConfig.MaxUploadSize)))

	imageStorage, err := storage.CreateFileStorage(app.Config.StorageConfig.UploadDir, app.Config.StorageConfig.URLPrefix, app.Config.StorageConfig.MaxUploadSize)
	if err != nil {
		return err
	}
	e.Static(imageStorage.URLPrefix(), imageStorage.Dir())

	publisher, err := app.eventPublisher(ctx)
	if err != nil {
		return err
	}
	app.emitter = service.CreateEventEmitter(publisher)

	userRepo := repository.CreateUserRepository(app.DB)
	productRepo := repository.CreateProductRepository(app.DB)
	orderRepo := repository.CreateOrderRepository(app.DB)

	app.userSvc = service.CreateUserService(userRepo, *app.Config, app.emitter)
	app.productSvc = service.CreateProductService(productRepo, userRepo, imageStorage, app.emitter)
	orderSvc := service.CreateOrderService(orderRepo, productRepo, service.CreatePriceCalculator(app.Config.PricingConfig), app.emitter)

	g := e.Group("/api/v1")
	isLoggedIn := localmiddleware.IsLoggedIn(app.Config.JWTConfig.Secret, app.Config.JWTConfig.Header)

	controller.CreateUserController(g, app.userSvc, isLoggedIn)
	controller.CreateProductController(g, app.productSvc, isLoggedIn)
	controller.CreateOrderController(g, orderSvc, isLoggedIn)

	g.GET("/ping", func(c echo.Context) error {
		return response.WriteSuccessResponse(c, http.StatusOK, response.MessageResponse{Message: "API is running"})
	})

	app.scheduler, err = gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = app.scheduler.NewJob(
		gocron.DurationJob(app.Config.SchedulerConfig.RatingReconcileInterval),
		gocron.NewTask(func() {
			ctx := log.Logger.With().Str("job", "reconcile_ratings").Logger().WithContext(context.Background())
			app.productSvc.ReconcileRatings(ctx)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	app.metrics = echo.New()
	app.metrics.HideBanner = true
	app.metrics.GET("/metrics", echoprometheus.NewHandler())

	app.Server = e

	return nil
}

// eventPublisher returns the kafka publisher when a broker is configured and
// prepares the notification consumer on the same topic.
func (app *App) eventPublisher(ctx context.Context) (service.EventPublisher, error) {
	if !app.Config.KafkaConfig.Enabled() {
		log.Info().Msg("no broker configured, domain events are dropped")
		return service.NoopEventPublisher{}, nil
	}

	conn, err := kafka.CreateKafkaProducer(ctx, app.Config)
	if err != nil {
		return nil, fmt.Errorf("connecting to kafka: %w", err)
	}
	app.closers = append(app.closers, conn.Close)

	reader := kafka.CreateKafkaReader(app.Config)
	app.closers = append(app.closers, reader.Close)
	app.notifier = service.CreateNotificationService(reader, app.Config.SMTPConfig)

	cb := circuitbreaker.CreateCircuitBreaker(app.Config.ServiceName)

	return kafka.CreatePublisher(conn, cb), nil
}

// SeedAdmin creates the configured administrator account when missing.
func (app *App) SeedAdmin(ctx context.Context) error {
	admin := app.Config.AdminConfig
	return app.userSvc.SeedAdmin(ctx, admin.Name, admin.Email, admin.Password)
}

// Start runs the background workers and blocks serving HTTP until the server
// is shut down. The event consumer stops when ctx is done.
func (app *App) Start(ctx context.Context) error {
	ctx = log.Logger.WithContext(ctx)

	if app.notifier != nil {
		go app.notifier.ConsumeEvent(ctx)
	}

	app.scheduler.Start()

	go func() {
		if err := app.metrics.Start(fmt.Sprintf(":%s", app.Config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start metrics server")
		}
	}()

	err := app.Server.Start(fmt.Sprintf(":%s", app.Config.ServicePort))
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

func (app *App) StopServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error
	if app.Server != nil {
		errs = append(errs, app.Server.Shutdown(ctx))
	}
	if app.metrics != nil {
		errs = append(errs, app.metrics.Shutdown(ctx))
	}
	if app.scheduler != nil {
		errs = append(errs, app.scheduler.Shutdown())
	}
	if app.emitter != nil {
		app.emitter.Wait()
	}
	for _, closeFn := range app.closers {
		errs = append(errs, closeFn())
	}
	if app.traceProvider != nil {
		errs = append(errs, app.traceProvider.Shutdown(ctx))
	}

	return errors.Join(errs...)
}

// bodyLimit leaves room for multipart framing around the largest upload.
func bodyLimit(maxUpload int64) string {
	return fmt.Sprintf("%dK", (maxUpload+(1<<20))/1024)
}
