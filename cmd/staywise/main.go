package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"staywise/internal/app/commands"
	availabilityapp "staywise/internal/app/handlers/availability"
	bookingapp "staywise/internal/app/handlers/booking"
	quoteapp "staywise/internal/app/handlers/quote"
	"staywise/internal/app/middleware"
	appoutbox "staywise/internal/app/outbox"
	"staywise/internal/app/policies"
	"staywise/internal/app/queries"
	domainbooking "staywise/internal/domain/booking"
	"staywise/internal/domain/property"
	s3archive "staywise/internal/infra/archive/s3"
	"staywise/internal/infra/broker/kafka"
	"staywise/internal/infra/config"
	mongodb "staywise/internal/infra/db/mongo"
	ginserver "staywise/internal/infra/http/gin"
	"staywise/internal/infra/obs"
	infraoutbox "staywise/internal/infra/outbox"
	"staywise/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}
	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	if cfg.StorageMode == config.StorageMemory {
		fixturesPath := getenv("PROPERTY_FIXTURES", "")
		if fixturesPath == "" {
			fixturesPath = defaultPropertyFixturesPath()
		}
		if err := app.loadPropertyFixtures(ctx, fixturesPath, logger); err != nil {
			logger.Warn("property fixtures load failed", "error", err, "path", fixturesPath)
		}
	}

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
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
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
	repos    struct {
		properties    property.Repository
		seasonalRates property.SeasonalRateRepository
	}
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, error) {
	var (
		app          application
		propertyRepo property.Repository
		seasonalRepo property.SeasonalRateRepository
		bookingRepo  domainbooking.Repository
		outboxStore  appoutbox.Outbox
		idStore      middleware.IdempotencyStore
		workerStore  infraoutbox.Store
	)

	switch cfg.StorageMode {
	case config.StorageMongo:
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, fmt.Errorf("mongo connect: %w", err)
		}
		propertyRepo = mongodb.NewPropertyRepository(client.DB)
		seasonalRepo = mongodb.NewSeasonalRateRepository(client.DB)
		bookingRepo = mongodb.NewBookingRepository(client.DB)
		store := mongodb.NewOutboxStore(client.DB)
		outboxStore = store
		workerStore = store
		idStore = mongodb.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL)
		app.ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
	default:
		props := memory.NewPropertyRepository()
		propertyRepo = props
		seasonalRepo = memory.NewSeasonalRateRepository(props)
		bookingRepo = memory.NewBookingRepository()
		outboxStore = memory.NewOutbox()
		idStore = memory.NewIdempotencyStore()
		app.ready = func() error { return nil }
	}

	var archiver policies.AuditArchiver
	if cfg.ArchiveQuotes {
		a, err := s3archive.NewArchiver(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
		if err != nil {
			return application{}, fmt.Errorf("archiver: %w", err)
		}
		archiver = a
	}

	commandBus := commands.NewInMemoryBus()
	createBooking := &bookingapp.CreateBookingHandler{
		Properties:    propertyRepo,
		SeasonalRates: seasonalRepo,
		Bookings:      bookingRepo,
		Outbox:        outboxStore,
		Encoder:       appoutbox.JSONEventEncoder{},
		Archiver:      archiver,
		Logger:        logger,
	}
	commands.RegisterHandler(commandBus, bookingapp.CreateBookingCommand{}.Key(), createBooking)

	queryBus := queries.NewInMemoryBus()
	quoteHandler := &quoteapp.GetQuoteHandler{
		Properties:    propertyRepo,
		SeasonalRates: seasonalRepo,
		Bookings:      bookingRepo,
		Cache:         memory.NewQuoteCache(),
	}
	queries.RegisterHandler(queryBus, quoteapp.GetQuoteQuery{}.Key(), quoteHandler)
	calendarHandler := &availabilityapp.GetCalendarHandler{Bookings: bookingRepo}
	queries.RegisterHandler(queryBus, availabilityapp.GetCalendarQuery{}.Key(), calendarHandler)
	nextWindowHandler := &availabilityapp.NextWindowHandler{Bookings: bookingRepo}
	queries.RegisterHandler(queryBus, availabilityapp.NextWindowQuery{}.Key(), nextWindowHandler)
	guestBookingsHandler := &bookingapp.GuestBookingsHandler{Bookings: bookingRepo}
	queries.RegisterHandler(queryBus, bookingapp.GuestBookingsQuery{}.Key(), guestBookingsHandler)

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(idStore, nil),
		middleware.OutboxFlush(outboxStore),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	if len(cfg.KafkaBrokers) > 0 {
		if workerStore == nil {
			logger.Warn("kafka brokers configured but outbox is not durable; events will not be published", "storage", cfg.StorageMode)
		} else {
			producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
			if err != nil {
				return application{}, fmt.Errorf("kafka producer: %w", err)
			}
			app.worker = &infraoutbox.Worker{
				Store:       workerStore,
				Producer:    producer,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Backoff:     cfg.RetryBackoff,
			}
		}
	}

	app.handlers = ginserver.Handlers{
		Quote: ginserver.QuoteHandler{
			Queries: queryBusWithMiddleware,
		},
		Availability: ginserver.AvailabilityHandler{
			Queries: queryBusWithMiddleware,
		},
		Booking: ginserver.BookingHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
		},
	}
	app.repos.properties = propertyRepo
	app.repos.seasonalRates = seasonalRepo
	return app, nil
}

func (a application) loadPropertyFixtures(ctx context.Context, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("property fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	if len(data) == 0 {
		logger.Warn("property fixtures file empty", "path", path)
		return nil
	}

	var fixtures []propertyFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	now := time.Now().UTC()
	for _, fx := range fixtures {
		prop, err := property.New(property.CreateParams{
			ID:     property.ID(fx.ID),
			HostID: fx.Host,
			Title:  fx.Title,
			Pricing: property.PricingProfile{
				BaseRate:          fx.BaseRate,
				WeekendPremiumPct: fx.WeekendPremiumPct,
				CleaningFee:       fx.CleaningFee,
				ExtraBedRate:      fx.ExtraBedRate,
				Capacity:          fx.Capacity,
				CapacityMax:       fx.CapacityMax,
				MinStayWeekday:    fx.MinStayWeekday,
				MinStayWeekend:    fx.MinStayWeekend,
				MinStayPeak:       fx.MinStayPeak,
				Version:           1,
			},
			Now: now,
		})
		if err != nil {
			logger.Error("fixture invalid", "property_id", fx.ID, "error", err)
			continue
		}
		if err := a.repos.properties.Save(ctx, prop); err != nil {
			logger.Error("cannot store fixture property", "property_id", fx.ID, "error", err)
			continue
		}
		for _, rule := range fx.SeasonalRates {
			start, err := parseFixtureDate(rule.StartDate)
			if err != nil {
				logger.Error("fixture rule start date invalid", "property_id", fx.ID, "rule", rule.Name, "error", err)
				continue
			}
			end, err := parseFixtureDate(rule.EndDate)
			if err != nil {
				logger.Error("fixture rule end date invalid", "property_id", fx.ID, "rule", rule.Name, "error", err)
				continue
			}
			sr := property.SeasonalRate{
				ID:             rule.ID,
				Name:           rule.Name,
				StartDate:      start,
				EndDate:        end,
				RateType:       property.RateType(rule.RateType),
				RateValue:      rule.RateValue,
				MinStayNights:  rule.MinStayNights,
				WeekendsOnly:   rule.WeekendsOnly,
				ApplicableDays: weekdaysFromStrings(rule.ApplicableDays),
				Priority:       rule.Priority,
				Active:         true,
			}
			if err := a.repos.seasonalRates.Save(ctx, prop.ID, sr); err != nil {
				logger.Error("cannot store fixture seasonal rate", "property_id", fx.ID, "rule", rule.Name, "error", err)
			}
		}
		logger.Info("property fixture imported", "property_id", prop.ID, "seasonal_rates", len(fx.SeasonalRates))
	}
	return nil
}

type propertyFixture struct {
	ID                string                `json:"id"`
	Host              string                `json:"host"`
	Title             string                `json:"title"`
	BaseRate          float64               `json:"base_rate"`
	WeekendPremiumPct float64               `json:"weekend_premium_pct"`
	CleaningFee       float64               `json:"cleaning_fee"`
	ExtraBedRate      float64               `json:"extra_bed_rate"`
	Capacity          int                   `json:"capacity"`
	CapacityMax       int                   `json:"capacity_max"`
	MinStayWeekday    int                   `json:"min_stay_weekday"`
	MinStayWeekend    int                   `json:"min_stay_weekend"`
	MinStayPeak       int                   `json:"min_stay_peak"`
	SeasonalRates     []seasonalRateFixture `json:"seasonal_rates"`
}

type seasonalRateFixture struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date"`
	RateType       string   `json:"rate_type"`
	RateValue      float64  `json:"rate_value"`
	MinStayNights  int      `json:"min_stay_nights"`
	WeekendsOnly   bool     `json:"weekends_only"`
	ApplicableDays []string `json:"applicable_days"`
	Priority       int      `json:"priority"`
}

func parseFixtureDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(value))
}

func weekdaysFromStrings(names []string) []time.Weekday {
	lookup := map[string]time.Weekday{
		"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
		"wednesday": time.Wednesday, "thursday": time.Thursday,
		"friday": time.Friday, "saturday": time.Saturday,
	}
	var out []time.Weekday
	for _, name := range names {
		if day, ok := lookup[strings.ToLower(strings.TrimSpace(name))]; ok {
			out = append(out, day)
		}
	}
	return out
}

func defaultPropertyFixturesPath() string {
	candidates := []string{
		filepath.Join("data", "properties.json"),
		filepath.Join("backend", "data", "properties.json"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return candidates[0]
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
