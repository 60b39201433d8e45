package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/mvd-portal/internal/store"
	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

type failingLookup struct {
	ServiceAPI
	err error
}

func (f failingLookup) CurrentUser(context.Context, int64) (User, error) {
	return User{}, f.err
}

var _ = ginkgo.Describe("Auth Handler", func() {
	var (
		router  *chi.Mux
		handler *Handler
		st      *store.Store
	)

	ginkgo.BeforeEach(func() {
		var service *Service
		service, st = newTestService()
		handler = NewHandler(service)
		rbac := service.RBACAuthorization()

		router = chi.NewRouter()
		router.Post("/auth/login", handler.Login)
		router.Post("/auth/register", handler.Register)
		router.Post("/auth/refresh", handler.RefreshToken)
		router.Group(func(pr chi.Router) {
			pr.Use(handler.AuthMiddleware)
			pr.Get("/me", handler.Me)
			pr.With(rbac.RequireLeader()).Get("/leaders-only", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
		})
	})

	do := func(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			gomega.Expect(json.NewEncoder(&buf).Encode(body)).To(gomega.Succeed())
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

	login := func(login, password string) LoginResponse {
		w := do(http.MethodPost, "/auth/login", LoginDTO{Login: login, Password: password}, "")
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
		var resp LoginResponse
		gomega.Expect(json.NewDecoder(w.Body).Decode(&resp)).To(gomega.Succeed())
		return resp
	}

	ginkgo.It("logs in admin/admin123 and omits the password", func() {
		w := do(http.MethodPost, "/auth/login", LoginDTO{Login: "admin", Password: "admin123"}, "")
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(w.Body.String()).ToNot(gomega.ContainSubstring("password"))

		var resp LoginResponse
		gomega.Expect(json.NewDecoder(w.Body).Decode(&resp)).To(gomega.Succeed())
		gomega.Expect(resp.User.Role).To(gomega.Equal(RoleAdmin))
	})

	ginkgo.It("answers 401 with the error envelope on bad credentials", func() {
		w := do(http.MethodPost, "/auth/login", LoginDTO{Login: "admin", Password: "nope"}, "")
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))

		var body map[string]map[string]interface{}
		gomega.Expect(json.NewDecoder(w.Body).Decode(&body)).To(gomega.Succeed())
		gomega.Expect(body["error"]["code"]).To(gomega.Equal("INVALID_CREDENTIALS"))
	})

	ginkgo.It("rejects unknown request fields", func() {
		w := do(http.MethodPost, "/auth/login", map[string]string{"login": "admin", "password": "admin123", "email": "x"}, "")
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusBadRequest))
	})

	ginkgo.It("registers citizens publicly", func() {
		w := do(http.MethodPost, "/auth/register", RegisterDTO{Name: "Гость", Login: "guest", Password: "guest123", Role: RoleAdmin}, "")
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusCreated))

		var user User
		gomega.Expect(json.NewDecoder(w.Body).Decode(&user)).To(gomega.Succeed())
		gomega.Expect(user.Role).To(gomega.Equal(RoleUser))
	})

	ginkgo.It("answers 409 for a taken login", func() {
		w := do(http.MethodPost, "/auth/register", RegisterDTO{Name: "Гость", Login: "user", Password: "guest123"}, "")
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusConflict))
	})

	ginkgo.It("requires a bearer token for protected routes", func() {
		w := do(http.MethodGet, "/me", nil, "")
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))

		w = do(http.MethodGet, "/me", nil, "garbage")
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
	})

	ginkgo.It("puts the current user into the request context", func() {
		resp := login("employee", "employee123")
		w := do(http.MethodGet, "/me", nil, resp.AccessToken)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))

		var me User
		gomega.Expect(json.NewDecoder(w.Body).Decode(&me)).To(gomega.Succeed())
		gomega.Expect(me.Login).To(gomega.Equal("employee"))
	})

	ginkgo.It("gates routes by role", func() {
		employee := login("employee", "employee123")
		w := do(http.MethodGet, "/leaders-only", nil, employee.AccessToken)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))

		leader := login("leader", "leader123")
		w = do(http.MethodGet, "/leaders-only", nil, leader.AccessToken)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusNoContent))
	})

	ginkgo.It("answers 401 once the token's account has been deleted", func() {
		resp := login("employee", "employee123")
		gomega.Expect(store.Users(st).Delete(context.Background(), resp.User.ID)).To(gomega.Succeed())

		w := do(http.MethodGet, "/me", nil, resp.AccessToken)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
	})

	ginkgo.It("answers 500 when the account lookup fails", func() {
		resp := login("employee", "employee123")
		handler.Service = failingLookup{ServiceAPI: handler.Service, err: errors.New("redis: connection refused")}

		w := do(http.MethodGet, "/me", nil, resp.AccessToken)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusInternalServerError))
	})

	ginkgo.It("rotates tokens on refresh", func() {
		resp := login("user", "user123")
		w := do(http.MethodPost, "/auth/refresh", RefreshTokenDTO{RefreshToken: resp.RefreshToken}, "")
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))

		var tokens AuthTokens
		gomega.Expect(json.NewDecoder(w.Body).Decode(&tokens)).To(gomega.Succeed())
		gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
	})
})
