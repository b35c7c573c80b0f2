/*
server.go - HTTP router and middleware configuration

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the console frontend

Role gating: everything under /api except /api/login requires a valid
token; manager-only routes additionally require the manager role claim.
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/warp/hr-console/auth"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.Login)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(h.Auth.Middleware)

			r.Get("/me", h.Me)
			r.Post("/me/password", h.ChangePassword)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.ListEmployees)
				r.Get("/{id}", h.GetEmployee)

				r.Group(func(r chi.Router) {
					r.Use(auth.RequireManager)
					r.Post("/", h.CreateEmployee)
					r.Put("/{id}", h.UpdateEmployee)
					r.Delete("/{id}", h.DeleteEmployee)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", h.ListAttendance)
				r.Get("/status", h.ClockStatus)
				r.Post("/clock-in", h.ClockIn)
				r.Post("/clock-out", h.ClockOut)
			})

			r.Route("/leave", func(r chi.Router) {
				r.Get("/balances", h.ListLeaveBalances)
				r.Get("/requests", h.ListLeaveRequests)
				r.Post("/requests", h.SubmitLeave)

				r.Group(func(r chi.Router) {
					r.Use(auth.RequireManager)
					r.Post("/requests/{id}/approve", h.ApproveLeave)
					r.Post("/requests/{id}/reject", h.RejectLeave)
				})
			})

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/", h.ListShifts)
				r.Get("/swaps", h.ListSwaps)
				r.Post("/swaps", h.RequestSwap)

				r.Group(func(r chi.Router) {
					r.Use(auth.RequireManager)
					r.Post("/", h.AssignShift)
					r.Post("/swaps/{id}/approve", h.ApproveSwap)
					r.Post("/swaps/{id}/reject", h.RejectSwap)
				})
			})

			// Manager-only admin surface
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireManager)
				r.Post("/admin/seed", h.SeedFixture)
				r.Get("/export/attendance.csv", h.ExportAttendance)
				r.Get("/export/leave-requests.csv", h.ExportLeaveRequests)
				r.Get("/export/shifts.csv", h.ExportShifts)
			})
		})
	})

	return r
}
