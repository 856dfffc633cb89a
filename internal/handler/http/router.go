package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"

	"github.com/hrms-platform/leave-service-go/internal/handler/http/middleware"
	"github.com/hrms-platform/leave-service-go/internal/pkg/token"
	identitysvc "github.com/hrms-platform/leave-service-go/internal/service/identity"
)

func NewRouter(
	logger *slog.Logger,
	verifier token.Verifier,
	resolver *identitysvc.Resolver,
	leaveHandler LeaveHandler,
	dashboardHandler DashboardHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(verifier, resolver))

			r.Route("/leaves", func(r chi.Router) {
				// Self-service
				r.Route("/me", func(r chi.Router) {
					r.Post("/", leaveHandler.CreateMine)
					r.Get("/", leaveHandler.ListMine)
					r.Delete("/{id}", leaveHandler.CancelMine)
				})

				// Approval workflow, manager and above
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/pending", leaveHandler.ListPending)
					r.Post("/{id}/approve", leaveHandler.Approve)
					r.Post("/{id}/reject", leaveHandler.Reject)
				})

				// Administration and reporting, HR only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireHR)
					r.Post("/", leaveHandler.Create)
					r.Get("/all", leaveHandler.ListAll)
					r.Delete("/{id}", leaveHandler.Cancel)
					r.Get("/dashboard/summary", dashboardHandler.Summary)
					r.Get("/dashboard/on-leave-today", dashboardHandler.OnLeaveToday)
				})

				// Role-scoped reads and the legacy status update
				r.Get("/", leaveHandler.List)
				r.Get("/employee/{id}", leaveHandler.ListByEmployee)
				r.Get("/{id}", leaveHandler.Get)
				r.Put("/{id}", leaveHandler.UpdateStatus)
			})

		})
	})

	r.Get("/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
