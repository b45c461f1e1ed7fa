/**
 * @description
 * This file sets up the HTTP router for the intent-service. It defines the
 * webhook ingress route and the orchestration API endpoints, and applies
 * standard middleware for logging, panic recovery, timeouts, and CORS for
 * the browser demo frontend.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 * - github.com/go-chi/cors: CORS middleware for chi.
 */
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Routes creates and returns the router for the intent service.
func Routes(webhooks *WebhookHandler, intents *IntentHandlers, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	// Webhook ingress from Chainrails.
	r.Post("/webhooks/chainrails", webhooks.ServeHTTP)

	// Orchestration API consumed by the demo frontend.
	r.Route("/api", func(r chi.Router) {
		r.Get("/chains", intents.ListChainsHandler)
		r.Get("/quotes", intents.GetQuoteHandler)
		r.Post("/intents", intents.CreateIntentHandler)
		r.Get("/intents/{id}", intents.GetIntentHandler)
		r.Get("/intents/{address}/events", intents.ListIntentEventsHandler)
	})

	return r
}
