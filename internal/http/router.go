package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/calebmonroe/penny/internal/http/account"
	"github.com/calebmonroe/penny/internal/http/importreview"
	"github.com/calebmonroe/penny/internal/http/middleware"
	"github.com/calebmonroe/penny/internal/http/reconciliation"
	"github.com/calebmonroe/penny/internal/http/transaction"
)

func New(
	jwtSecret string,
	accountsV1 *account.Handler,
	transactionsV1 *transaction.Handler,
	reconciliationsV1 *reconciliation.Handler,
	importReviewV1 *importreview.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(jwtSecret))
		r.Use(chimiddleware.AllowContentType("application/json"))

		r.Route("/accounts", accountsV1.Routes)
		r.Route("/transactions", transactionsV1.Routes)
		r.Route("/reconciliations", reconciliationsV1.Routes)
		r.Route("/import-review", importReviewV1.Routes)
	})

	return router
}
