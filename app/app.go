package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fabstore/cart"
	"fabstore/config"
	"fabstore/controllers"
	"fabstore/database"
	"fabstore/events"
	"fabstore/logger"
	"fabstore/middleware"
	"fabstore/payment"
	"fabstore/promo"
	"fabstore/repository"
	"fabstore/routes"
	"fabstore/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	shutdownTimeout     = 10 * time.Second
	eventPublishTimeout = 10 * time.Second
)

type App struct {
	cfg *config.Config
	log zerolog.Logger
}

func New(cfg *config.Config) *App {
	return &App{
		cfg: cfg,
		log: logger.New(cfg.Log.Level, cfg.Log.Pretty),
	}
}

func (a *App) Run() error {
	a.log.Info().Str("port", a.cfg.Server.Port).Msg("Starting fabstore")

	provider := database.NewProvider(a.cfg.Mongo.URI, a.cfg.Mongo.DB, a.log)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := provider.Close(ctx); err != nil {
			a.log.Warn().Err(err).Msg("failed to close MongoDB client")
		}
	}()

	promos, err := a.initPromos()
	if err != nil {
		return err
	}

	persister, err := newCartPersister(a.cfg.Cart, a.cfg.Redis)
	if err != nil {
		return err
	}
	defer persister.Close()
	a.log.Info().Str("backend", a.cfg.Cart.Backend).Msg("cart store ready")

	// closed after the server drains, so it waits for the last requests' events
	publisher := events.NewDispatcher(a.initEvents(), eventPublishTimeout, a.log)
	defer func() {
		if err := publisher.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close event publisher")
		}
	}()

	repos := services.Repositories{
		Products:     repository.NewProductRepositoryMongo(provider),
		Orders:       repository.NewOrderRepositoryMongo(provider),
		Addresses:    repository.NewAddressRepositoryMongo(provider),
		Users:        repository.NewUserRepositoryMongo(provider),
		Transactions: repository.NewTransactionRepositoryMongo(provider),
	}
	gateway := payment.NewRazorpay(a.cfg.Razorpay.KeyID, a.cfg.Razorpay.KeySecret)

	users := services.NewUserService(repos, a.log)
	handlers := routes.Handlers{
		Products: controllers.NewProductController(services.NewProductService(repos, a.log)),
		Orders: controllers.NewOrderController(
			services.NewCheckoutService(repos, gateway, promos, publisher, a.cfg.Razorpay.Currency, a.log),
			services.NewOrderService(repos, a.log),
			promos,
		),
		Payments:     controllers.NewPaymentController(services.NewPaymentService(repos, gateway, publisher, a.log)),
		Carts:        controllers.NewCartController(services.NewCartService(repos, persister)),
		Users:        controllers.NewUserController(users),
		Transactions: controllers.NewTransactionController(services.NewTransactionService(repos)),
	}

	gin.SetMode(a.cfg.Server.GinMode)
	engine := NewEngine(a.log, a.cfg.Server.RequestTimeout)
	engine.GET("/healthz", healthz(provider))
	routes.RegisterRoutes(engine, handlers, middleware.AuthMiddleware([]byte(a.cfg.Auth.JWTSecret), users))

	srv := &http.Server{
		Addr:              ":" + a.cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a.runServerWithGracefulShutdown(srv)
}

// NewEngine builds the gin engine with the shared middleware chain.
func NewEngine(log zerolog.Logger, requestTimeout time.Duration) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies(nil)
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.LoggerMiddleware(log),
		middleware.Timeout(requestTimeout),
	)
	return r
}

func healthz(provider *database.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := provider.Database(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func (a *App) initPromos() (*promo.Table, error) {
	if a.cfg.PromoCodesFile == "" {
		table := promo.Default()
		a.log.Info().Str("version", table.Version).Msg("using built-in promo codes")
		return table, nil
	}

	table, err := promo.Load(a.cfg.PromoCodesFile)
	if err != nil {
		return nil, err
	}
	a.log.Info().Str("version", table.Version).Str("file", a.cfg.PromoCodesFile).Msg("loaded promo codes")
	return table, nil
}

func newCartPersister(cfg config.CartConfig, redisCfg config.RedisConfig) (cart.Persister, error) {
	switch cfg.Backend {
	case "bolt":
		return cart.NewBoltPersister(cfg.BoltPath)
	case "redis":
		return cart.NewRedisPersister(redisCfg.Addr, redisCfg.Password, redisCfg.DB), nil
	default:
		return nil, fmt.Errorf("%w: %q", cart.ErrUnknownBackend, cfg.Backend)
	}
}

// initEvents never fails: a broker that cannot be reached disables publishing.
func (a *App) initEvents() events.Publisher {
	switch a.cfg.Events.Broker {
	case "nats":
		publisher, err := events.NewNATSPublisher(a.cfg.Events.NATSURL, a.log)
		if err != nil {
			a.log.Warn().Err(err).Str("url", a.cfg.Events.NATSURL).Msg("NATS unavailable, continuing without event publishing")
			return events.NoopPublisher{}
		}
		return publisher
	case "kafka":
		a.log.Info().Strs("brokers", a.cfg.Events.KafkaBrokers).Str("topic", a.cfg.Events.KafkaTopic).Msg("publishing events to Kafka")
		return events.NewKafkaPublisher(a.cfg.Events.KafkaBrokers, a.cfg.Events.KafkaTopic, a.log)
	default:
		a.log.Info().Msg("event broker not set, event publishing disabled")
		return events.NoopPublisher{}
	}
}

func (a *App) runServerWithGracefulShutdown(srv *http.Server) error {
	serverErrors := make(chan error, 1)

	go func() {
		a.log.Info().Str("addr", srv.Addr).Msg("Starting HTTP server")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		a.log.Info().Str("signal", sig.String()).Msg("Received shutdown signal, starting graceful shutdown")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			a.log.Warn().Err(err).Msg("Graceful shutdown timeout, forcing stop")
			return srv.Close()
		}
		a.log.Info().Msg("Graceful shutdown completed")
		return nil
	}
}
