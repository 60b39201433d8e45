package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/mvd-portal/internal/application"
	"github.com/frahmantamala/mvd-portal/internal/auth"
	"github.com/frahmantamala/mvd-portal/internal/datatransfer"
	"github.com/frahmantamala/mvd-portal/internal/employee"
	"github.com/frahmantamala/mvd-portal/internal/fleet"
	"github.com/frahmantamala/mvd-portal/internal/leader"
	"github.com/frahmantamala/mvd-portal/internal/metrics"
	"github.com/frahmantamala/mvd-portal/internal/news"
	"github.com/frahmantamala/mvd-portal/internal/stats"
	"github.com/frahmantamala/mvd-portal/internal/store"
	"github.com/frahmantamala/mvd-portal/internal/transport/middleware"
	"github.com/frahmantamala/mvd-portal/internal/transport/swagger"
	"github.com/frahmantamala/mvd-portal/internal/user"
	"github.com/frahmantamala/mvd-portal/internal/violator"
	"github.com/go-chi/chi"
)

// Handlers groups the per-area HTTP handlers. A nil handler leaves its
// routes unmounted.
type Handlers struct {
	Auth         *auth.Handler
	Users        *user.Handler
	News         *news.Handler
	Applications *application.Handler
	Violators    *violator.Handler
	Employees    *employee.Handler
	Leaders      *leader.Handler
	Fleet        *fleet.Handler
	Stats        *stats.Handler
	Data         *datatransfer.Handler
}

type Options struct {
	AllowedOrigins []string
	// Metrics is nil when metrics are disabled.
	Metrics     *metrics.Metrics
	MetricsPath string
	OpenAPIFile string
}

func RegisterAllRoutes(router *chi.Mux, st *store.Store, h Handlers, rbac *auth.RBACAuthorization, opts Options, logger *slog.Logger) {
	healthHandler := NewHealthHandler(st)

	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logging(logger))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware)
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.Handle(path, opts.Metrics.Handler())
	}

	if opts.OpenAPIFile != "" {
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, opts.OpenAPIFile)
		})
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if h.Auth == nil {
			return
		}
		authenticated := h.Auth.AuthMiddleware

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/login", h.Auth.Login)
			ar.Post("/register", h.Auth.Register)
			ar.Post("/refresh", h.Auth.RefreshToken)
			ar.Post("/logout", h.Auth.Logout)
			ar.With(authenticated).Get("/me", h.Auth.Me)
		})

		if h.News != nil {
			r.Route("/news", func(nr chi.Router) {
				nr.Get("/", h.News.ListNews)
				nr.Get("/{id}", h.News.GetNews)
				nr.Group(func(wr chi.Router) {
					wr.Use(authenticated, rbac.RequireLeader())
					wr.Post("/", h.News.CreateNews)
					wr.Patch("/{id}", h.News.UpdateNews)
					wr.Delete("/{id}", h.News.DeleteNews)
				})
			})
		}

		if h.Leaders != nil {
			r.Route("/leaders", func(lr chi.Router) {
				lr.Get("/", h.Leaders.ListLeaders)
				lr.Get("/{id}", h.Leaders.GetLeader)
				lr.Group(func(wr chi.Router) {
					wr.Use(authenticated, rbac.RequireLeader())
					wr.Post("/", h.Leaders.CreateLeader)
					wr.Patch("/{id}", h.Leaders.UpdateLeader)
				})
				lr.With(authenticated, rbac.RequireAdmin()).Delete("/{id}", h.Leaders.DeleteLeader)
			})
		}

		r.Group(func(pr chi.Router) {
			pr.Use(authenticated)

			if h.Stats != nil {
				pr.Get("/stats", h.Stats.GetStats)
			}

			if h.Applications != nil {
				pr.Route("/applications", func(ar chi.Router) {
					ar.Get("/", h.Applications.ListApplications)
					ar.Post("/", h.Applications.CreateApplication)
					ar.Get("/{id}", h.Applications.GetApplication)
					ar.Post("/{id}/responses", h.Applications.AddResponse)
					ar.With(rbac.RequireLeader()).Patch("/{id}", h.Applications.UpdateApplication)
					ar.With(rbac.RequireAdmin()).Delete("/{id}", h.Applications.DeleteApplication)
				})
			}

			if h.Violators != nil {
				pr.Route("/database", func(dr chi.Router) {
					dr.Use(rbac.RequireEmployee())
					dr.Get("/", h.Violators.ListRecords)
					dr.Post("/", h.Violators.CreateRecord)
					dr.Get("/{id}", h.Violators.GetRecord)
					dr.Group(func(wr chi.Router) {
						wr.Use(rbac.RequireLeader())
						wr.Patch("/{id}", h.Violators.UpdateRecord)
						wr.Delete("/{id}", h.Violators.DeleteRecord)
					})
				})
			}

			if h.Employees != nil {
				pr.Route("/employees", func(er chi.Router) {
					er.Use(rbac.RequireEmployee())
					er.Get("/", h.Employees.ListEmployees)
					er.Get("/{id}", h.Employees.GetEmployee)
					er.Group(func(wr chi.Router) {
						wr.Use(rbac.RequireLeader())
						wr.Post("/", h.Employees.CreateEmployee)
						wr.Patch("/{id}", h.Employees.UpdateEmployee)
						wr.Delete("/{id}", h.Employees.DismissEmployee)
					})
				})
				pr.Route("/fired-employees", func(fr chi.Router) {
					fr.Use(rbac.RequireEmployee())
					fr.Get("/", h.Employees.ListFired)
					fr.With(rbac.RequireLeader()).Delete("/{id}", h.Employees.DeleteFired)
				})
			}

			if h.Fleet != nil {
				pr.Route("/fleet", func(fr chi.Router) {
					fr.Use(rbac.RequireEmployee())
					fr.Get("/", h.Fleet.ListVehicles)
					fr.Get("/{id}", h.Fleet.GetVehicle)
					fr.Group(func(wr chi.Router) {
						wr.Use(rbac.RequireLeader())
						wr.Post("/", h.Fleet.CreateVehicle)
						wr.Patch("/{id}", h.Fleet.UpdateVehicle)
						wr.Delete("/{id}", h.Fleet.DeleteVehicle)
					})
				})
			}

			pr.Group(func(admin chi.Router) {
				admin.Use(rbac.RequireAdmin())

				if h.Users != nil {
					admin.Route("/users", func(ur chi.Router) {
						ur.Get("/", h.Users.ListUsers)
						ur.Post("/", h.Users.CreateUser)
						ur.Patch("/{id}/role", h.Users.UpdateRole)
						ur.Delete("/{id}", h.Users.DeleteUser)
					})
				}

				if h.Data != nil {
					admin.Get("/data/export", h.Data.Export)
					admin.Post("/data/import", h.Data.Import)
				}
			})
		})
	})
}
