package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"nyaymitra-backend/config"
	"nyaymitra-backend/extraction"
	"nyaymitra-backend/extraction/ocr"
	"nyaymitra-backend/handlers"
	"nyaymitra-backend/logger"
	"nyaymitra-backend/metrics"
	"nyaymitra-backend/provider"
	"nyaymitra-backend/repository"
	"nyaymitra-backend/retrieval"
	"nyaymitra-backend/service"
	"nyaymitra-backend/speech"
	"nyaymitra-backend/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Setup(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx := context.Background()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	// Initialize storage
	audioStore, err := storage.NewStorage(storage.StorageConfig{
		Type:         storage.StorageType(cfg.StorageType),
		LocalPath:    cfg.StorageLocalPath,
		S3Bucket:     cfg.S3Bucket,
		S3Region:     cfg.S3Region,
		S3Prefix:     "audio",
		AWSAccessKey: cfg.AWSAccessKey,
		AWSSecretKey: cfg.AWSSecretKey,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage")
	}
	log.Info().Str("type", cfg.StorageType).Msg("storage initialized")

	uploads, err := handlers.NewUploads(cfg.UploadDir, cfg.MaxUploadBytes())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize upload directory")
	}

	// Initialize state stores
	stores, closeStores := initStores(ctx, cfg)
	defer closeStores()

	// Initialize providers
	gemini, err := provider.NewGemini(ctx, cfg.GeminiAPIKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Gemini")
	}
	defer gemini.Close()
	log.Info().Msg("Gemini client initialized")

	groq := provider.NewGroq(cfg.GroqAPIKey, cfg.GroqBaseURL)

	// Initialize services
	orchestrator := service.NewOrchestrator(
		service.WithContentGenerator(gemini),
		service.WithChatCompleter(groq),
		service.WithOrchestratorMetrics(m),
	)

	legalService := service.NewLegalService(
		service.WithExtractor(extraction.NewService(
			extraction.WithRecognizer(ocr.NewTesseract()),
			extraction.WithMetrics(m),
		)),
		service.WithRetriever(retrieval.NewClient(cfg.IndianKanoonAPIKey,
			retrieval.WithSearchURL(cfg.IndianKanoonURL),
			retrieval.WithTimeout(cfg.SearchTimeout),
			retrieval.WithMetrics(m),
		)),
		service.WithGenerator(orchestrator),
		service.WithSpeaker(speech.NewSynthesizer(
			speech.NewGoogleTTS(cfg.TTSBaseURL),
			audioStore,
			speech.WithURLPrefix(cfg.AudioURLPrefix),
			speech.WithLanguage(cfg.SpeechLanguage),
			speech.WithMetrics(m),
		)),
		service.WithConversationStore(stores.conversations),
		service.WithCaseLedger(stores.cases),
		service.WithFeedbackLedger(stores.feedback),
		service.WithModelSelector(cfg.ModelFor),
		service.WithMetrics(m),
	)

	// Setup Gin router
	if !cfg.LogPretty {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(handlers.RouterConfig{
		Legal:    handlers.NewLegalHandler(legalService, uploads),
		Audio:    handlers.NewAudioHandler(audioStore),
		Identity: handlers.NewIdentity(cfg.JWTSecret),
		Gatherer: reg,

		MaxUploadBytes: cfg.MaxUploadBytes(),
	})
	router.MaxMultipartMemory = cfg.MaxUploadBytes()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}

type stateStores struct {
	conversations repository.ConversationStore
	cases         repository.CaseLedger
	feedback      repository.FeedbackLedger
}

// initStores returns in-memory stores, or Redis and Postgres backed ones
// when the durable backend is selected
func initStores(ctx context.Context, cfg *config.Config) (stateStores, func()) {
	if cfg.StoreBackend == config.StoreMemory {
		log.Info().Msg("using in-memory state stores")
		return stateStores{
			conversations: repository.NewMemoryConversationStore(),
			cases:         repository.NewMemoryCaseLedger(),
			feedback:      repository.NewMemoryFeedbackLedger(),
		}, func() {}
	}

	db, err := initPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Postgres")
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid REDIS_URL")
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	log.Info().Msg("Redis connection established")

	return stateStores{
			conversations: repository.NewRedisConversationStore(rdb),
			cases:         repository.NewPostgresCaseLedger(db),
			feedback:      repository.NewPostgresFeedbackLedger(db),
		}, func() {
			rdb.Close()
			db.Close()
		}
}

func initPostgres(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if _, err := repository.EnsureSchema(ctx, pool); err != nil {
		log.Warn().Err(err).Msg("failed to ensure ledger schema; run cmd/create-schema")
	}

	log.Info().Msg("Postgres connection established")
	return pool, nil
}
