package rest_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frahmantamala/mvd-portal/internal/application"
	"github.com/frahmantamala/mvd-portal/internal/auth"
	"github.com/frahmantamala/mvd-portal/internal/core/events"
	"github.com/frahmantamala/mvd-portal/internal/datatransfer"
	"github.com/frahmantamala/mvd-portal/internal/employee"
	"github.com/frahmantamala/mvd-portal/internal/fleet"
	"github.com/frahmantamala/mvd-portal/internal/leader"
	"github.com/frahmantamala/mvd-portal/internal/metrics"
	"github.com/frahmantamala/mvd-portal/internal/news"
	"github.com/frahmantamala/mvd-portal/internal/seed"
	"github.com/frahmantamala/mvd-portal/internal/stats"
	"github.com/frahmantamala/mvd-portal/internal/store"
	"github.com/frahmantamala/mvd-portal/internal/transport/rest"
	"github.com/frahmantamala/mvd-portal/internal/user"
	"github.com/frahmantamala/mvd-portal/internal/violator"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "REST Suite")
}

var _ = Describe("Router", func() {
	var router *chi.Mux

	BeforeEach(func() {
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		st := store.New(store.NewMemoryBackend(), store.WithLogger(lg), store.WithSeed(seed.Default(bcrypt.MinCost)))
		bus := events.NewEventBus(lg)

		tokens := auth.NewJWTTokenGenerator("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
		authService := auth.NewService(st, tokens, bcrypt.MinCost, bus, lg)

		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, st, rest.Handlers{
			Auth:         auth.NewHandler(authService),
			Users:        user.NewHandler(user.NewService(st, authService, lg)),
			News:         news.NewHandler(news.NewService(st, lg)),
			Applications: application.NewHandler(application.NewService(st, bus, lg)),
			Violators:    violator.NewHandler(violator.NewService(st, lg)),
			Employees:    employee.NewHandler(employee.NewService(st, bus, lg)),
			Leaders:      leader.NewHandler(leader.NewService(st, lg)),
			Fleet:        fleet.NewHandler(fleet.NewService(st, lg)),
			Stats:        stats.NewHandler(stats.NewService(st, lg)),
			Data:         datatransfer.NewHandler(datatransfer.NewService(st, bus, lg)),
		}, authService.RBACAuthorization(), rest.Options{
			AllowedOrigins: []string{"*"},
			Metrics:        metrics.New(),
		}, lg)
	})

	do := func(method, path, token string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	login := func(name, password string) string {
		w := do(http.MethodPost, "/api/v1/auth/login", "", auth.LoginDTO{Login: name, Password: password})
		Expect(w.Code).To(Equal(http.StatusOK), w.Body.String())
		var resp auth.LoginResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		return resp.AccessToken
	}

	It("answers health and ping", func() {
		Expect(do(http.MethodGet, "/api/v1/ping", "", nil).Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodGet, "/api/v1/health", "", nil).Code).To(Equal(http.StatusOK))
	})

	It("serves news and leaders without a token", func() {
		Expect(do(http.MethodGet, "/api/v1/news", "", nil).Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodGet, "/api/v1/leaders", "", nil).Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodPost, "/api/v1/news", "", map[string]string{"title": "x"}).Code).To(Equal(http.StatusUnauthorized))
	})

	It("logs admin in and returns the account from /auth/me", func() {
		token := login("admin", "admin123")

		w := do(http.MethodGet, "/api/v1/auth/me", token, nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		var me auth.User
		Expect(json.NewDecoder(w.Body).Decode(&me)).To(Succeed())
		Expect(me.Role).To(Equal(auth.RoleAdmin))
	})

	It("gates staff areas by role", func() {
		citizen := login("user", "user123")
		staff := login("employee", "employee123")
		boss := login("leader", "leader123")

		Expect(do(http.MethodGet, "/api/v1/employees", citizen, nil).Code).To(Equal(http.StatusForbidden))
		Expect(do(http.MethodGet, "/api/v1/employees", staff, nil).Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodGet, "/api/v1/database", staff, nil).Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodDelete, "/api/v1/database/1", staff, nil).Code).To(Equal(http.StatusForbidden))
		Expect(do(http.MethodGet, "/api/v1/fleet", boss, nil).Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodGet, "/api/v1/users", boss, nil).Code).To(Equal(http.StatusForbidden))
		Expect(do(http.MethodGet, "/api/v1/stats", citizen, nil).Code).To(Equal(http.StatusOK))
	})

	It("lets only admins reach users and data transfer", func() {
		token := login("admin", "admin123")

		Expect(do(http.MethodGet, "/api/v1/users", token, nil).Code).To(Equal(http.StatusOK))
		w := do(http.MethodGet, "/api/v1/data/export?collections=leaders", token, nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"leaders"`))
	})

	It("exposes metrics", func() {
		do(http.MethodGet, "/api/v1/ping", "", nil)
		w := do(http.MethodGet, "/metrics", "", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("mvd_portal_http_requests_total"))
	})
})
