package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UsersRegistered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "meganote_users_registered_total",
			Help: "Number of successful registrations",
		},
	)

	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meganote_logins_total",
			Help: "Login attempts by result",
		},
		[]string{"result"},
	)

	NotesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "meganote_notes_created_total",
			Help: "Number of notes created",
		},
	)

	NoteCodeCollisions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "meganote_note_code_collisions_total",
			Help: "Note codes regenerated after a unique-constraint conflict",
		},
	)

	MessagesAppended = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "meganote_messages_appended_total",
			Help: "Number of messages posted to notes",
		},
	)

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meganote_http_requests_total",
			Help: "HTTP requests by route pattern, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meganote_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)

var registerOnce sync.Once

// Init registers the collectors with the default registry. Safe to call twice.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			UsersRegistered,
			Logins,
			NotesCreated,
			NoteCodeCollisions,
			MessagesAppended,
			HTTPRequests,
			HTTPDuration,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts and latency labelled by chi route pattern,
// so note codes never end up in label values.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		HTTPDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
