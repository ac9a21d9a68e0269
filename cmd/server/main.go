package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dukerupert/shopapi/internal"
	"github.com/dukerupert/shopapi/internal/auth"
	"github.com/dukerupert/shopapi/internal/billing"
	"github.com/dukerupert/shopapi/internal/bus"
	"github.com/dukerupert/shopapi/internal/domain"
	"github.com/dukerupert/shopapi/internal/email"
	"github.com/dukerupert/shopapi/internal/events"
	"github.com/dukerupert/shopapi/internal/fixtures"
	"github.com/dukerupert/shopapi/internal/handler/shopapi"
	"github.com/dukerupert/shopapi/internal/jobs"
	"github.com/dukerupert/shopapi/internal/memory"
	"github.com/dukerupert/shopapi/internal/middleware"
	"github.com/dukerupert/shopapi/internal/postgres"
	"github.com/dukerupert/shopapi/internal/pricing"
	"github.com/dukerupert/shopapi/internal/router"
	"github.com/dukerupert/shopapi/internal/service"
	"github.com/dukerupert/shopapi/internal/shipping"
	"github.com/dukerupert/shopapi/internal/tax"
	"github.com/dukerupert/shopapi/internal/telemetry"
	"github.com/dukerupert/shopapi/internal/validation"
	"github.com/dukerupert/shopapi/internal/view"
	"github.com/dukerupert/shopapi/internal/worker"
)

// store is what both storage drivers provide.
type store interface {
	domain.OrderRepository
	domain.CatalogRepository
	domain.ChannelRepository
	domain.CustomerRepository
	domain.AddressRepository
	domain.PromotionRepository
	domain.Transactor
	tax.RateSource
}

var (
	_ store = (*memory.Store)(nil)
	_ store = (*postgres.Store)(nil)
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Storage
	logger.Info().Str("driver", cfg.Storage.Driver).Msg("Initializing storage...")
	s, health, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()
	logger.Info().Msg("Storage initialized")

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := middleware.NewMetrics(cfg.Metrics.Namespace, registry)
	businessMetrics := telemetry.NewBusinessMetrics(cfg.Metrics.Namespace, registry)

	// Event publisher
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NATS.Enabled {
		logger.Info().Str("url", cfg.NATS.URL).Msg("Connecting to NATS...")
		p, err := events.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer p.Close()
		publisher = p
		logger.Info().Msg("NATS publisher initialized")
	} else {
		logger.Info().Msg("NATS disabled, domain events are dropped")
	}

	// Customer emails
	if cfg.Mail.Driver != "none" {
		logger.Info().Str("driver", cfg.Mail.Driver).Msg("Initializing email service...")
		var sender email.Sender = email.NewLogSender(logger)
		if cfg.Mail.Driver == "smtp" {
			sender = email.NewSMTPSender(email.SMTPConfig{
				Host:     cfg.Mail.SMTPHost,
				Port:     cfg.Mail.SMTPPort,
				Username: cfg.Mail.SMTPUsername,
				Password: cfg.Mail.SMTPPassword,
			}, logger)
		}
		mailer, err := email.NewService(sender, email.Config{
			FromAddress: cfg.Mail.From,
			FromName:    cfg.Mail.FromName,
			VerifyURL:   cfg.Mail.VerifyURL,
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize email service: %w", err)
		}
		publisher = events.Multi{publisher, mailer}
		logger.Info().Msg("Email service initialized")
	}

	// Payment gateways
	online := map[string]billing.Gateway{}
	if cfg.Stripe.Enabled {
		logger.Info().Msg("Initializing Stripe payment gateway...")
		stripeConfig := billing.StripeConfig{
			APIKey:     cfg.Stripe.SecretKey,
			MaxRetries: cfg.Stripe.MaxRetries,
		}
		gw, err := billing.NewStripeGateway(stripeConfig)
		if err != nil {
			return fmt.Errorf("failed to initialize Stripe gateway: %w", err)
		}
		online[domain.GatewayStripe] = gw
		logger.Info().Bool("test_mode", stripeConfig.IsTestMode()).Msg("Stripe payment gateway initialized")
	}

	// Order processing
	shippingRegistry := shipping.NewRegistry()
	processor := pricing.NewProcessor(pricing.Config{
		Catalog:    s,
		Channels:   s,
		Promotions: s,
		Customers:  s,
		Orders:     s,
		Shipping:   shippingRegistry,
		Tax:        tax.NewPercentageCalculator(s),
	})

	shop := service.New(service.Config{
		Orders:               s,
		Catalog:              s,
		Channels:             s,
		Customers:            s,
		Addresses:            s,
		Promotions:           s,
		Processor:            processor,
		Shipping:             shippingRegistry,
		Gateways:             billing.NewGateways(online),
		Metrics:              businessMetrics,
		VerificationRequired: cfg.Shop.VerificationRequired,
	})

	// Handlers run inside the transaction and events leave only after the
	// outermost commit.
	commandBus := bus.New(
		bus.Logging(logger),
		bus.Metrics(businessMetrics),
		bus.PublishEvents(publisher, logger),
		bus.Transactional(s),
	)
	shop.Register(commandBus)

	tokens, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize token issuer: %w", err)
	}

	e := router.New(router.Config{
		Logger:  logger,
		Metrics: httpMetrics,
		Tokens:  tokens,
		ShopAPI: shopapi.Config{
			Bus:       commandBus,
			Shop:      shop,
			Orders:    s,
			Catalog:   s,
			Channels:  s,
			Customers: s,
			Addresses: s,
			Validator: validation.New(validation.Deps{
				Orders:    s,
				Catalog:   s,
				Channels:  s,
				Customers: s,
				Coupons:   processor,
			}),
			Views:          view.NewFactory(s, s),
			Tokens:         tokens,
			Work:           bus.NewUnitOfWork(s, publisher, logger),
			DefaultChannel: cfg.Shop.DefaultChannel,
		},
		BodyLimit: cfg.Server.BodyLimit,
		LoginRate: cfg.Auth.LoginRate,
		Health:    health,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      e,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	cleanup := worker.NewWorker(worker.Config{
		PollInterval: cfg.Shop.CleanupInterval,
		RunOnStart:   true,
	}, logger, jobs.NewExpiredCartRemover(s, cfg.Shop.CartTTL, nil, logger))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("address", srv.Addr).Msg("Starting shop API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return cleanup.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openStore selects the storage driver and fills it with reference data.
func openStore(ctx context.Context, cfg *internal.Config, logger zerolog.Logger) (store, func(context.Context) error, func(), error) {
	switch cfg.Storage.Driver {
	case "postgres":
		if cfg.Database.AutoMigrate {
			logger.Info().Msg("Running database migrations...")
			sqlDB, err := sql.Open("postgres", cfg.Database.URL)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("database connection failed: %w", err)
			}
			err = internal.RunMigrations(ctx, sqlDB)
			sqlDB.Close()
			if err != nil {
				return nil, nil, nil, fmt.Errorf("migration failed: %w", err)
			}
			logger.Info().Msg("Database migrations completed successfully")
		}

		pg, err := postgres.Open(ctx, cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create connection pool: %w", err)
		}
		if cfg.Storage.LoadFixtures {
			d, err := loadFixtures(cfg.Storage.FixturesFile)
			if err != nil {
				pg.Close()
				return nil, nil, nil, err
			}
			if err := pg.Load(ctx, d); err != nil {
				pg.Close()
				return nil, nil, nil, fmt.Errorf("failed to load fixtures: %w", err)
			}
			logger.Info().Msg("Fixtures loaded")
		}
		return pg, pg.Ping, pg.Close, nil

	default:
		d, err := loadFixtures(cfg.Storage.FixturesFile)
		if err != nil {
			return nil, nil, nil, err
		}
		m := memory.New()
		if err := m.Load(ctx, d); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to load fixtures: %w", err)
		}
		return m, nil, func() {}, nil
	}
}

func loadFixtures(path string) (*fixtures.Data, error) {
	if path == "" {
		return fixtures.Default()
	}
	d, err := fixtures.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures %s: %w", path, err)
	}
	return d, nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
