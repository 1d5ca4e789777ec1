package telegram

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"shopping-list/internal/metrics"
)

type healthResponse struct {
	Status string            `json:"status"`
	Items  int               `json:"items"`
	System metrics.SysHealth `json:"system"`
}

// Router exposes the webhook endpoint and a health check.
func (b *Bot) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(b.requestLogger)

	r.Post("/webhook", b.handleWebhook)
	r.Get("/health", b.handleHealth)
	return r
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.logger.Warn().Err(err).Msg("error parsing update")
		http.Error(w, "bad update", http.StatusBadRequest)
		return
	}
	b.handleUpdate(*update)
	w.WriteHeader(http.StatusOK)
}

func (b *Bot) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(healthResponse{
		Status: "OK",
		Items:  len(b.snapshot()),
		System: metrics.GetSysHealth(b.opts.DataDir),
	})
	if err != nil {
		b.logger.Warn().Err(err).Msg("error writing health response")
	}
}

func (b *Bot) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		b.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("latency", time.Since(start)).
			Msg("request completed")
	})
}
