package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"quiz-session-service/internal/app"
)

// NewRouter wires the quiz API. All /api and /ws routes sit behind the auth
// gate; /healthz stays open for probes.
func NewRouter(service *app.QuizService, auth BasicAuth) http.Handler {
	h := NewHandler(service)
	ws := NewWSHandler(service)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}))
	r.Use(securityHeaders)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Route("/api", func(r chi.Router) {
			r.Get("/questions", h.GetQuestions)
			r.Get("/questions/detail", h.GetQuestionDetail)
			r.Get("/questions/{orderNo}", h.GetQuestionByOrder)
			r.Post("/responses", h.SaveResponse)
			r.Get("/responses/{sessionId}", h.GetResponsesBySession)
			r.Get("/summary/{sessionId}", h.GetSummary)
		})

		r.Get("/ws/summary", ws.ServeSummary)
	})

	return r
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
