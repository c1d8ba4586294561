package main

import (
	"net/http"
	"time"

	"github.com/flashdeck/flashdeck-api/internal/api"
	apimiddleware "github.com/flashdeck/flashdeck-api/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// setupRouter configures the application router with middleware and routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler)

	tokenLifetime := time.Duration(app.config.Auth.TokenLifetimeMinutes) * time.Minute
	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		tokenLifetime,
		app.logger,
	)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	studySetHandler := api.NewStudySetHandler(app.studySetService, app.logger)
	cardHandler := api.NewCardHandler(app.cardService, app.logger)
	folderHandler := api.NewFolderHandler(app.folderService, app.logger)
	userHandler := api.NewUserHandler(app.userService, app.logger)
	sessionHandler := api.NewSessionHandler(app.sessionManager, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Public content: anonymous access works for public sets, a valid
		// token widens visibility to the caller's own private content.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.AuthenticateOptional)

			r.Get("/study-sets/search", studySetHandler.Search)
			r.Get("/study-sets/{id}", studySetHandler.Get)
			r.Get("/study-sets/{id}/cards", cardHandler.List)
			r.Get("/cards/{id}", cardHandler.Get)

			// Learning sessions follow study set visibility.
			r.Post("/sessions", sessionHandler.Create)
			r.Route("/sessions/{id}", func(r chi.Router) {
				r.Get("/", sessionHandler.Get)
				r.Delete("/", sessionHandler.Delete)
				r.Post("/mode", sessionHandler.SelectMode)
				r.Delete("/mode", sessionHandler.ClearMode)
				r.Post("/next", sessionHandler.Next)
				r.Post("/prev", sessionHandler.Prev)
				r.Post("/shuffle", sessionHandler.Shuffle)
				r.Post("/restart", sessionHandler.Restart)
				r.Post("/mastery", sessionHandler.Mastery)
				r.Post("/reset", sessionHandler.Reset)
				r.Post("/continue", sessionHandler.Continue)
				r.Post("/key", sessionHandler.Key)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Study set management
			r.Post("/study-sets", studySetHandler.Create)
			r.Get("/study-sets", studySetHandler.ListMine)
			r.Put("/study-sets/{id}", studySetHandler.Update)
			r.Put("/study-sets/{id}/visibility", studySetHandler.SetVisibility)
			r.Delete("/study-sets/{id}", studySetHandler.Delete)
			r.Post("/study-sets/{id}/cards", cardHandler.Create)

			// Card management
			r.Put("/cards/{id}", cardHandler.Update)
			r.Put("/cards/{id}/mastery", cardHandler.UpdateMastery)
			r.Delete("/cards/{id}", cardHandler.Delete)

			// Folders
			r.Post("/folders", folderHandler.Create)
			r.Get("/folders", folderHandler.List)
			r.Get("/folders/unclassified/study-sets", studySetHandler.ListUnclassified)
			r.Put("/folders/{id}", folderHandler.Rename)
			r.Delete("/folders/{id}", folderHandler.Delete)
			r.Get("/folders/{id}/study-sets", studySetHandler.ListInFolder)

			// Account
			r.Get("/users/me", userHandler.Me)
			r.Put("/users/me/email", userHandler.UpdateEmail)
			r.Put("/users/me/password", userHandler.UpdatePassword)
			r.Delete("/users/me", userHandler.Delete)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
