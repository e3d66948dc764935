package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-artisan-market/internal/activity"
	"github.com/ariefcatur/go-artisan-market/internal/ai"
	"github.com/ariefcatur/go-artisan-market/internal/assistant"
	"github.com/ariefcatur/go-artisan-market/internal/auth"
	"github.com/ariefcatur/go-artisan-market/internal/clock"
	"github.com/ariefcatur/go-artisan-market/internal/config"
	"github.com/ariefcatur/go-artisan-market/internal/httpx"
	kafkax "github.com/ariefcatur/go-artisan-market/internal/kafka"
	"github.com/ariefcatur/go-artisan-market/internal/logging"
	"github.com/ariefcatur/go-artisan-market/internal/market"
	"github.com/ariefcatur/go-artisan-market/internal/postgres"
	"github.com/ariefcatur/go-artisan-market/internal/recommend"
	"github.com/ariefcatur/go-artisan-market/internal/redisx"
	"github.com/ariefcatur/go-artisan-market/internal/upload"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	if err != nil {
		logging.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		logging.Fatal().Err(err).Msg("db migrate")
	}
	repo := &market.Repo{DB: db}
	clk := clock.RealClock{}

	// Sessions
	var sessionStore auth.Store
	if cfg.Session.Store == "memory" {
		sessionStore = auth.NewMemoryStore(clk)
	} else {
		rdb := redisx.New(cfg.Redis.Addr)
		defer rdb.Close()
		sessionStore = &auth.RedisStore{RDB: rdb}
	}
	sessions, err := auth.NewManager(auth.ManagerConfig{
		Store:      sessionStore,
		Secret:     cfg.Session.SecretKey,
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Clock:      clk,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("session manager")
	}
	scheme, err := auth.ParseScheme(cfg.Session.PasswordHash)
	if err != nil {
		logging.Fatal().Err(err).Msg("password scheme")
	}
	if scheme == auth.SchemeSHA256 {
		logging.Warn().Msg("passwords are stored as unsalted sha256 digests; set PASSWORD_HASH=bcrypt for new accounts")
	}

	// Kafka producer, optional
	var (
		publisher kafkax.Publisher  = kafkax.NopPublisher{}
		views     activity.Recorder = activity.DirectRecorder{Store: repo}
		prod      *kafkax.Producer
	)
	if cfg.Kafka.Enabled() {
		prod = kafkax.NewProducer(cfg.Kafka.Brokers, 1024)
		prod.Start(ctx)
		publisher = prod
		views = activity.StreamRecorder{Publisher: prod, Producer: cfg.ServiceName, Clock: clk}
		logging.Info().Strs("brokers", cfg.Kafka.Brokers).Msg("product events streamed to kafka")
	}
	events := activity.CatalogEvents{Publisher: publisher, Producer: cfg.ServiceName, Clock: clk}

	uploads, err := upload.NewStore(cfg.Upload.Dir, cfg.Upload.MaxBytes, cfg.Upload.AllowedExtensions, clk)
	if err != nil {
		logging.Fatal().Err(err).Msg("upload dir")
	}

	gateway := ai.NewFromConfig(ctx, cfg.AI)
	currency := market.Currency{Symbol: cfg.Currency.Symbol, Code: cfg.Currency.Code}

	// Handlers
	router := httpx.NewRouter(sessions, cfg.HTTP.RequestTimeout)
	(&httpx.AccountsHandler{
		Store:       repo,
		Sessions:    sessions,
		Passwords:   auth.Passwords{Scheme: scheme},
		Service:     cfg.ServiceName,
		Currency:    currency,
		LoginLimit:  cfg.HTTP.LoginRateLimit,
		LoginWindow: cfg.HTTP.LoginRateWindow,
	}).Register(router)
	(&httpx.CatalogHandler{
		Store:    repo,
		AI:       gateway,
		Uploads:  uploads,
		Views:    views,
		Events:   events,
		Currency: currency,
	}).Register(router)
	(&httpx.CartHandler{Store: repo, Currency: currency}).Register(router)
	(&httpx.DashboardHandler{
		Store:       repo,
		Recommender: recommend.NewSelector(repo, gateway),
		Events:      events,
		Currency:    currency,
	}).Register(router)
	(&httpx.ChatHandler{Assistant: assistant.New(repo, gateway, currency, clk), Clock: clk}).Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTP.Addr, Handler: router, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		logging.Info().Str("addr", cfg.HTTP.Addr).Msg("http listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("listen")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logging.Info().Msg("shutting down")

	// long enough for in-flight handlers to finish before the producer closes
	ctx2, cancel2 := context.WithTimeout(context.Background(), cfg.HTTP.RequestTimeout+time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	if prod != nil {
		prod.Close() // close inbox -> flush & close writer
		cancel()
		prod.WaitClosed()
	}
}
