package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/pocketbook/internal/auth"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/normalize"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/syncer"
)

func New(
	issuer *auth.Issuer,
	allowedOrigins []string,
	syncV1 *syncer.Handler,
	normalizeV1 *normalize.Handler,
	ledgerV1 *ledger.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(issuer))

		r.Route("/sync", syncV1.Routes)
		r.Route("/normalize", normalizeV1.Routes)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			ledgerV1.Routes(r)
		})
	})

	return router
}
