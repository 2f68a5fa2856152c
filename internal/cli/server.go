package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quiz-arcade/internal/app"
	"quiz-arcade/internal/config"
	"quiz-arcade/internal/domain"
	"quiz-arcade/internal/infra/bankfile"
	"quiz-arcade/internal/infra/memory"
	pgloader "quiz-arcade/internal/infra/postgres"
	redisstore "quiz-arcade/internal/infra/redis"
	"quiz-arcade/internal/logging"
	"quiz-arcade/internal/render"
	transport "quiz-arcade/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// loadConfig reads path, falling back to defaults when the file does not exist.
func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, cfg.Log.Level)
	slog.SetDefault(logger)

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
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
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 2*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("postgres connect: %w", err)
		}
		defer pool.Close()
	}

	var loader memory.BankLoader = memory.NewStaticBankLoader(sampleBanks())
	switch {
	case pool != nil:
		loader = pgloader.NewBankLoader(pool)
	case cfg.Quiz.BankFile != "":
		loader = bankfile.NewLoader(cfg.Quiz.BankFile)
	}

	bankTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var banks app.BankRepository
	var progress app.ProgressStore
	var streaks app.StreakStore
	var rooms app.RoomRepository
	if redisClient != nil {
		banks = redisstore.NewBankRepository(redisClient, loader, bankTTL)
		progress = redisstore.NewProgressStore(redisClient)
		streaks = redisstore.NewStreakStore(redisClient)
		rooms = redisstore.NewRoomStore(redisClient, redisTTL)
	} else {
		banks = memory.NewBankRepository(loader, bankTTL)
		progress = memory.NewProgressStore()
		streaks = memory.NewStreakStore()
		rooms = memory.NewRoomStore()
	}

	// Fail fast on a missing or invalid active bank.
	bank, err := banks.GetBank(ctx, cfg.Quiz.Bank)
	if err != nil {
		return fmt.Errorf("load bank %q: %w", cfg.Quiz.Bank, err)
	}
	logger.Info("question bank ready", "bank", bank.ID, "questions", bank.Size())

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	pages, err := render.New()
	if err != nil {
		return err
	}

	services := transport.Services{
		Quiz:   app.NewQuizService(banks, progress, cfg.Quiz.Bank),
		Streak: app.NewStreakService(streaks, cfg.StreakUsers(), loc),
		Battle: app.NewBattleService(rooms),
	}
	handler := transport.NewRouter(services, pages, transport.Options{
		Lobby:       cfg.LobbyEnabled(),
		CORSOrigins: cfg.Server.CORSOrigins,
		Logger:      logger,
	})

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting quiz arcade", "addr", server.Addr, "lobby", cfg.LobbyEnabled(), "redis", redisClient != nil, "postgres", pool != nil)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleBanks is the built-in bank used when neither Postgres nor a bank file is configured.
func sampleBanks() map[string]domain.QuestionBank {
	return map[string]domain.QuestionBank{
		"default": {
			ID:    "default",
			Title: "Hackathon Warmup",
			Questions: []domain.Question{
				{
					Text:         "What is the crucial role of the enzyme RuBisCO during the Calvin cycle?",
					Options:      []string{"Reducing NADP+ to NADPH", "Synthesising ATP", "Catalysing the initial fixation of carbon dioxide to RuBP", "Splitting water molecules"},
					CorrectIndex: 2,
				},
				{
					Text:         "Which cellular organelle is the primary site of cellular respiration?",
					Options:      []string{"Nucleus", "Mitochondria", "Ribosome", "Chloroplast"},
					CorrectIndex: 1,
				},
				{
					Text:         "What type of bond involves the sharing of electron pairs between atoms?",
					Options:      []string{"Ionic bond", "Hydrogen bond", "Covalent bond", "Metallic bond"},
					CorrectIndex: 2,
				},
				{
					Text:         "In computer science, what does 'HTTP' stand for?",
					Options:      []string{"HyperText Transfer Protocol", "HyperText Transmission Process", "Hyperlink Transfer Technology", "HyperText Terminal Protocol"},
					CorrectIndex: 0,
				},
				{
					Text:         "Which law states that for every action, there is an equal and opposite reaction?",
					Options:      []string{"Newton's First Law", "Newton's Second Law", "Newton's Third Law", "Law of Universal Gravitation"},
					CorrectIndex: 2,
				},
			},
		},
	}
}
