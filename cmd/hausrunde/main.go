package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Mihail0123/hausrunde/internal/app/commands"
	adapp "github.com/Mihail0123/hausrunde/internal/app/handlers/ads"
	availabilityapp "github.com/Mihail0123/hausrunde/internal/app/handlers/availability"
	bookingapp "github.com/Mihail0123/hausrunde/internal/app/handlers/booking"
	reviewapp "github.com/Mihail0123/hausrunde/internal/app/handlers/reviews"
	"github.com/Mihail0123/hausrunde/internal/app/middleware"
	appoutbox "github.com/Mihail0123/hausrunde/internal/app/outbox"
	"github.com/Mihail0123/hausrunde/internal/app/queries"
	authsvc "github.com/Mihail0123/hausrunde/internal/app/services/auth"
	"github.com/Mihail0123/hausrunde/internal/app/uow"
	domainauth "github.com/Mihail0123/hausrunde/internal/domain/auth"
	domainuser "github.com/Mihail0123/hausrunde/internal/domain/user"
	kafkabroker "github.com/Mihail0123/hausrunde/internal/infra/broker/kafka"
	"github.com/Mihail0123/hausrunde/internal/infra/config"
	mongodb "github.com/Mihail0123/hausrunde/internal/infra/db/mongo"
	ginserver "github.com/Mihail0123/hausrunde/internal/infra/http/gin"
	"github.com/Mihail0123/hausrunde/internal/infra/obs"
	infraoutbox "github.com/Mihail0123/hausrunde/internal/infra/outbox"
	"github.com/Mihail0123/hausrunde/internal/infra/security"
	"github.com/Mihail0123/hausrunde/internal/infra/storage/memory"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("wiring failed", "error", err)
		os.Exit(1)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	if app.worker != nil {
		go func() {
			if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		app.close()
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode, "blocking_policy", cfg.BlockingPolicy.String())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	worker   *infraoutbox.Worker
	ready    func() error
	close    func()
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, error) {
	app := application{
		ready: func() error { return nil },
		close: func() {},
	}

	var (
		uowFactory uow.UoWFactory
		box        appoutbox.Outbox
		sessions   domainauth.SessionStore
		usersRepo  domainuser.Repository
		idStore    middleware.IdempotencyStore
	)
	switch cfg.StorageMode {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, err
		}
		if err := client.Ping(ctx); err != nil {
			return application{}, err
		}
		factory := mongodb.NewFactory(client)
		uowFactory = factory
		usersRepo = factory.UsersRepo
		store := infraoutbox.NewStore(client.DB)
		box = store
		sessions = mongodb.NewSessionStore(client.DB)
		idStore = mongodb.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL)
		app.ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		if cfg.KafkaEnabled() {
			producer, err := kafkabroker.NewProducer(cfg.KafkaBrokers, nil)
			if err != nil {
				return application{}, err
			}
			app.worker = &infraoutbox.Worker{
				Store:       store,
				Producer:    producer,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Backoff:     cfg.RetryBackoff,
			}
			app.close = func() {
				if err := producer.Close(); err != nil {
					logger.Warn("kafka producer close failed", "error", err)
				}
			}
		} else {
			logger.Info("no kafka brokers configured, outbox records stay queued")
		}
	default:
		factory := memory.NewFactory()
		uowFactory = factory
		usersRepo = factory.UsersRepo
		box = memory.NewOutbox()
		sessions = memory.NewSessionStore()
		idStore = memory.NewIdempotencyStore(cfg.IdempotencyTTL)
	}

	authService := &authsvc.Service{
		Users:      usersRepo,
		Sessions:   sessions,
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}

	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, bookingapp.CreateBookingCommand{}.Key(), &bookingapp.CreateBookingHandler{
		UoWFactory: uowFactory,
		Policy:     cfg.BlockingPolicy,
		Outbox:     box,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.ConfirmBookingCommand{}.Key(), &bookingapp.ConfirmBookingHandler{
		UoWFactory: uowFactory,
		Outbox:     box,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.RejectBookingCommand{}.Key(), &bookingapp.RejectBookingHandler{
		UoWFactory: uowFactory,
		Outbox:     box,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.CancelBookingCommand{}.Key(), &bookingapp.CancelBookingHandler{
		UoWFactory: uowFactory,
		Outbox:     box,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, adapp.PublishAdCommand{}.Key(), &adapp.PublishAdHandler{
		UoWFactory: uowFactory,
		Outbox:     box,
		Encoder:    encoder,
		Currency:   cfg.Currency,
	})
	commands.RegisterHandler(commandBus, adapp.UpdateAdCommand{}.Key(), &adapp.UpdateAdHandler{
		UoWFactory: uowFactory,
		Outbox:     box,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, adapp.SetAdActiveCommand{}.Key(), &adapp.SetAdActiveHandler{
		UoWFactory: uowFactory,
		Outbox:     box,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, reviewapp.SubmitReviewCommand{}.Key(), &reviewapp.SubmitReviewHandler{
		UoWFactory: uowFactory,
		Outbox:     box,
		Encoder:    encoder,
	})

	queryBus := queries.NewInMemoryBus()
	mustRegisterQuery(queries.RegisterHandler(queryBus, &bookingapp.PreviewCancellationHandler{UoWFactory: uowFactory}))
	mustRegisterQuery(queries.RegisterHandler(queryBus, &bookingapp.ListTenantBookingsHandler{UoWFactory: uowFactory}))
	mustRegisterQuery(queries.RegisterHandler(queryBus, &bookingapp.ListAdBookingsHandler{UoWFactory: uowFactory}))
	mustRegisterQuery(queries.RegisterHandler(queryBus, &bookingapp.BookingStatsHandler{UoWFactory: uowFactory}))
	mustRegisterQuery(queries.RegisterHandler(queryBus, &availabilityapp.IsAvailableHandler{UoWFactory: uowFactory, Policy: cfg.BlockingPolicy}))
	mustRegisterQuery(queries.RegisterHandler(queryBus, &availabilityapp.ListAvailabilityHandler{UoWFactory: uowFactory, Policy: cfg.BlockingPolicy}))
	mustRegisterQuery(queries.RegisterHandler(queryBus, &adapp.GetAdHandler{UoWFactory: uowFactory}))
	mustRegisterQuery(queries.RegisterHandler(queryBus, &adapp.SearchAdsHandler{UoWFactory: uowFactory, Policy: cfg.BlockingPolicy}))
	mustRegisterQuery(queries.RegisterHandler(queryBus, &adapp.ListOwnerAdsHandler{UoWFactory: uowFactory}))
	mustRegisterQuery(queries.RegisterHandler(queryBus, &reviewapp.ListAdReviewsHandler{UoWFactory: uowFactory}))

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(idStore, nil),
		middleware.Transaction(uowFactory, nil),
		middleware.OutboxFlush(box),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	app.handlers = ginserver.Handlers{
		Auth:         ginserver.AuthHandler{Service: authService},
		Ad:           ginserver.AdHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
		Booking:      ginserver.BookingHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
		Availability: ginserver.AvailabilityHandler{Queries: queryBusWithMiddleware},
		Review:       ginserver.ReviewHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
		AuthMiddleware: ginserver.AuthMiddleware{
			Service: authService,
			Logger:  logger,
		}.Handle,
	}
	return app, nil
}

func mustRegisterQuery(err error) {
	if err != nil {
		panic(err)
	}
}
