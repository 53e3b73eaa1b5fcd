package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/RadicalxChange/lanna-edges/internal/handlers"
	"github.com/RadicalxChange/lanna-edges/internal/metrics"
	appmw "github.com/RadicalxChange/lanna-edges/internal/middleware"
)

func NewRoutes(h *handlers.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Post("/auth/login", h.Login)
	r.With(appmw.Authenticated).Get("/auth/me", h.Me)

	r.Post("/onboard", h.Onboard)

	r.With(appmw.Authenticated).Get("/accounts", h.ListAccounts)
	r.With(appmw.Authenticated).Get("/accounts/balance", h.Balance)

	r.With(appmw.Authenticated).Get("/transactions", h.ListTransactions)
	r.With(appmw.Authenticated).Post("/transactions/transfer", h.Transfer)

	r.Get("/admin/depreciate", h.Depreciate)

	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}
