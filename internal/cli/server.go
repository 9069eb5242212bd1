package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"readiness-quiz-service/internal/app"
	"readiness-quiz-service/internal/config"
	"readiness-quiz-service/internal/infra/memory"
	pgloader "readiness-quiz-service/internal/infra/postgres"
	redisinfra "readiness-quiz-service/internal/infra/redis"
	"readiness-quiz-service/internal/mail"
	"readiness-quiz-service/internal/narrative"
	"readiness-quiz-service/internal/quiz"
	transport "readiness-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the readiness quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	bankID := cfg.Bank.ID
	if bankID == "" {
		bankID = quiz.DefaultBankID
	}
	var loader memory.BankLoader = memory.NewStaticBankLoader(quiz.DefaultBank())
	if pool != nil {
		loader = pgloader.NewBankLoader(pool, bankID)
	}

	bankTTL := config.TTLDuration(cfg.Bank.TTL, 10*time.Minute)
	var banks app.BankRepository
	if redisClient != nil {
		banks = redisinfra.NewBankRepository(redisClient, loader, bankTTL)
	} else {
		banks = memory.NewBankRepository(loader, bankTTL)
	}

	var sessions app.SessionRepository
	if redisClient != nil {
		sessions = redisinfra.NewSessionStore(redisClient, redisTTL)
	} else {
		sessions = memory.NewSessionStore()
	}

	var provider narrative.Provider
	if cfg.Gemini.APIKey != "" {
		gemini, err := narrative.NewGeminiProvider(ctx, narrative.GeminiConfig{
			APIKey:  cfg.Gemini.APIKey,
			Model:   cfg.Gemini.Model,
			Timeout: config.TTLDuration(cfg.Gemini.Timeout, 20*time.Second),
		})
		if err != nil {
			return err
		}
		provider = gemini
	} else {
		logger.Warn("no Gemini API key configured, narrative falls back to the deterministic text")
	}

	var mailer app.ResultMailer
	if cfg.Email.ResendAPIKey != "" {
		resendMailer, err := mail.NewResendMailer(mail.Config{
			APIKey:     cfg.Email.ResendAPIKey,
			FromName:   cfg.Email.FromName,
			FromEmail:  cfg.Email.FromEmail,
			ReplyTo:    cfg.Email.ReplyTo,
			BookingURL: cfg.Email.BookingURL,
		})
		if err != nil {
			return err
		}
		mailer = resendMailer
	} else {
		logger.Warn("no Resend API key configured, result emails disabled")
	}

	service := app.NewQuizService(sessions, banks, provider, mailer, logger)
	wsHandler := transport.NewWSHandler(service, logger)
	apiHandler := transport.NewAPIHandler(provider, mailer, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	apiHandler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("starting readiness quiz service", zap.String("port", finalPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
