package routes

import (
	"github.com/agusaisen/recopro/handlers"
	"github.com/agusaisen/recopro/middleware"
	"github.com/agusaisen/recopro/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRoutes mounts the full API surface. Everything except login,
// swagger and the websocket endpoint requires a valid token; admin
// and gestor surfaces are separated by role.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret []byte,
	authHandler *handlers.AuthHandler,
	teamHandler *handlers.TeamHandler,
	memberHandler *handlers.MemberHandler,
	disciplineHandler *handlers.DisciplineHandler,
	localityHandler *handlers.LocalityHandler,
	userHandler *handlers.UserHandler,
	settingsHandler *handlers.SettingsHandler,
	reportHandler *handlers.ReportHandler,
	documentHandler *handlers.DocumentHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.Handler())

	router.Post("/auth/login", authHandler.Login)
	router.Get("/ws", webSocketHandler.Subscribe)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))

		// Shared read surface.
		r.Get("/disciplinas", disciplineHandler.List)
		r.Get("/disciplinas/{id}", disciplineHandler.GetByID)
		r.Get("/localidades", localityHandler.List)
		r.Get("/configuracion/ventana", settingsHandler.GetWindow)

		r.Get("/equipos", teamHandler.List)
		r.Get("/equipos/{id}", teamHandler.GetByID)
		r.Get("/equipos/{id}/planilla", reportHandler.Roster)

		// Gestor surface: team registration and roster management.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleGestor))

			r.Post("/equipos", teamHandler.Create)
			r.Delete("/equipos/{id}", teamHandler.Delete)

			r.Post("/equipos/{id}/integrantes", memberHandler.Add)
			r.Put("/equipos/{id}/integrantes/{participantID}", memberHandler.Update)
			r.Delete("/equipos/{id}/integrantes/{participantID}", memberHandler.Remove)

			r.Post("/participantes/{id}/documento", documentHandler.Upload)
			r.Delete("/participantes/{id}/documento", documentHandler.Delete)
		})

		// Admin surface: catalogs, accounts, review and reporting.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Post("/disciplinas", disciplineHandler.Create)
			r.Put("/disciplinas/{id}", disciplineHandler.Update)
			r.Delete("/disciplinas/{id}", disciplineHandler.Delete)

			r.Post("/localidades", localityHandler.Create)
			r.Put("/localidades/{id}", localityHandler.Update)
			r.Delete("/localidades/{id}", localityHandler.Delete)

			r.Post("/usuarios", userHandler.Create)
			r.Get("/usuarios", userHandler.List)
			r.Get("/usuarios/{id}", userHandler.GetByID)
			r.Put("/usuarios/{id}", userHandler.Update)
			r.Delete("/usuarios/{id}", userHandler.Delete)

			r.Put("/configuracion/ventana", settingsHandler.UpdateWindow)

			r.Post("/equipos/{id}/revision", teamHandler.Review)

			r.Get("/reportes/dashboard", reportHandler.Dashboard)
			r.Get("/reportes/inscripciones", reportHandler.Enrollment)
		})
	})
}
