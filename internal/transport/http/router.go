package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"quiz-arcade/internal/app"
	"quiz-arcade/internal/render"
)

// Services bundles the use cases the HTTP surface exposes.
type Services struct {
	Quiz   *app.QuizService
	Streak *app.StreakService
	Battle *app.BattleService
}

// Options configures the router.
type Options struct {
	Lobby       bool
	CORSOrigins []string
	Logger      *slog.Logger
}

func NewRouter(services Services, pages *render.Renderer, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	quizHandler := NewQuizHandler(services.Quiz, pages, opts.Lobby, logger)
	quizHandler.RegisterRoutes(r)

	streakHandler := NewStreakHandler(services.Streak, pages, logger)
	streakHandler.RegisterRoutes(r)

	roomHandler := NewRoomHandler(services.Battle)
	roomHandler.RegisterRoutes(r)

	wsHandler := NewWSHandler(services.Battle, logger)
	r.Get("/ws", wsHandler.ServeWS)

	return r
}
