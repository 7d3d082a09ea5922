package routes

import (
	"net/http"
	"time"

	"meganote/meganote/controllers"
	"meganote/meganote/middlewares"
	"meganote/meganote/utils/logging"
	"meganote/meganote/utils/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Dependencies struct {
	Auth     *controllers.AuthController
	Users    *controllers.UserController
	Notes    *controllers.NotesController
	Messages *controllers.MessagesController
	Health   *controllers.HealthController
	Gate     *middlewares.Gate

	StaticDir      string
	RequestTimeout time.Duration
}

func NewRouter(d Dependencies) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestMiddleware)
	r.Use(metrics.Middleware)
	r.Use(middleware.Recoverer)
	if d.RequestTimeout > 0 {
		r.Use(middleware.Timeout(d.RequestTimeout))
	}

	r.Mount("/health", HealthRoutes(d.Health))
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Mount("/", AuthRoutes(d.Auth, d.Gate))
		api.Mount("/me", UserRoutes(d.Users, d.Gate))
		api.Mount("/notes", NotesRoutes(d.Notes, d.Messages, d.Gate))
	})

	if d.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(d.StaticDir)))
	}
	return r
}
