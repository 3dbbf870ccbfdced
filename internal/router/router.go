package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"flashdeck-backend/internal/handlers"
	"flashdeck-backend/internal/middleware"
)

func New(
	auth *middleware.SessionAuth,
	sessionHandler *handlers.SessionHandler,
	stateHandler *handlers.StateHandler,
	importExportHandler *handlers.ImportExportHandler,
	quizHandler *handlers.QuizHandler,
	zoomHandler *handlers.ZoomHandler,
	metaHandler *handlers.MetaHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Session creation rate limiter (10 req/min per IP)
	sessionLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Session Routes ────
		r.Route("/session", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(sessionLimiter.Middleware)
				r.Post("/", sessionHandler.Create)
			})

			r.Group(func(r chi.Router) {
				r.Use(auth.Middleware)
				r.Put("/api-key", sessionHandler.SetAPIKey)
				r.Get("/api-key", sessionHandler.APIKeyStatus)
			})
		})

		// ──── Meta Routes (public) ────
		r.Get("/meta/version", metaHandler.Version)
		r.Get("/meta/docs", metaHandler.Docs)

		// ──── State & Flashcard Routes ────
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Route("/state", func(r chi.Router) {
				r.Get("/", stateHandler.Get)
				r.Post("/clear", stateHandler.Clear)
				r.Post("/import", importExportHandler.Import)
				r.Get("/export", importExportHandler.Export)
			})

			r.Route("/flashcards", func(r chi.Router) {
				r.Post("/generate", stateHandler.Generate)
				r.Put("/{index}", stateHandler.SaveEdit)
				r.Post("/{index}/edit", stateHandler.BeginEdit)
				r.Delete("/{index}/edit", stateHandler.CancelEdit)
				r.Get("/{index}/pronunciation", stateHandler.Pronunciation)
				r.Post("/{index}/zoom", zoomHandler.ZoomIn)
			})

			r.Route("/zoom", func(r chi.Router) {
				r.Post("/settle", zoomHandler.Settle)
				r.Post("/collapse", zoomHandler.Collapse)
				r.Post("/collapse/settle", zoomHandler.CollapseSettled)
			})

			r.Route("/quiz", func(r chi.Router) {
				r.Get("/", quizHandler.Get)
				r.Post("/start", quizHandler.Start)
				r.Post("/answer", quizHandler.Submit)
				r.Post("/reveal", quizHandler.Reveal)
				r.Post("/next", quizHandler.Advance)
				r.Post("/restart", quizHandler.Restart)
				r.Post("/end", quizHandler.End)
			})
		})
	})

	return r
}
