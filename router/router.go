package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"workforce/config"
	"workforce/handlers"
	"workforce/middleware"
	"workforce/models"
	"workforce/services"
)

func New(cfg *config.Config, svc *services.Service) http.Handler {
	authHandler := handlers.NewAuthHandler(cfg, svc)
	attendanceHandler := handlers.NewAttendanceHandler(svc)
	taskHandler := handlers.NewTaskHandler(svc)
	reportHandler := handlers.NewReportHandler(svc)
	userHandler := handlers.NewUserHandler(svc)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Bootstrap-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})

		// Public routes
		r.Post("/register", authHandler.Register)
		r.Post("/token", authHandler.Token)
		r.Post("/token/refresh", authHandler.Refresh)
		r.Post("/bootstrap-admin", authHandler.BootstrapAdmin)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(svc.Store()))

			r.Get("/me", authHandler.Me)

			r.Post("/clock-in", attendanceHandler.ClockIn)
			r.Post("/clock-out", attendanceHandler.ClockOut)
			r.Get("/attendance", attendanceHandler.List)

			r.Get("/tasks", taskHandler.List)
			r.Post("/tasks", taskHandler.Create)
			r.Get("/tasks/{id}", taskHandler.Get)
			r.Put("/tasks/{id}", taskHandler.Update)
			r.Patch("/tasks/{id}", taskHandler.Update)
			r.Delete("/tasks/{id}", taskHandler.Delete)

			r.Get("/ratings", taskHandler.ListRatings)
			r.Post("/ratings", taskHandler.Rate)

			r.Get("/reports", reportHandler.Report)
			r.Get("/notifications", reportHandler.Notifications)

			r.Get("/users", userHandler.List)
			r.Post("/users", userHandler.Create)
			r.Get("/users/{id}", userHandler.Get)
			r.Put("/users/{id}", userHandler.Update)
			r.Patch("/users/{id}", userHandler.Update)
			r.Delete("/users/{id}", userHandler.Delete)

			// Admin and supervisor only routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor))
				r.Get("/attendance/export", attendanceHandler.ExportCSV)
			})
		})
	})

	return r
}
