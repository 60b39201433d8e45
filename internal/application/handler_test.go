package application

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/mvd-portal/internal/auth"
	appdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/application"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Application Handler", func() {
	var (
		router *chi.Mux
		actor  *auth.User
	)

	BeforeEach(func() {
		service, _, _ := newTestService()
		handler := NewHandler(service)
		rbac := auth.NewRBACAuthorization(nil)
		actor = citizen

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), actor)))
			})
		})
		router.Get("/applications", handler.ListApplications)
		router.Post("/applications", handler.CreateApplication)
		router.Get("/applications/{id}", handler.GetApplication)
		router.With(rbac.RequireLeader()).Patch("/applications/{id}", handler.UpdateApplication)
		router.Post("/applications/{id}/responses", handler.AddResponse)
	})

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	create := func() appdm.Application {
		w := do(http.MethodPost, "/applications", CreateApplicationDTO{Type: "Жалоба", Description: "Шум"})
		Expect(w.Code).To(Equal(http.StatusCreated))
		var app appdm.Application
		Expect(json.NewDecoder(w.Body).Decode(&app)).To(Succeed())
		return app
	}

	It("creates and lists the caller's applications", func() {
		app := create()

		w := do(http.MethodGet, "/applications?author_login=user", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		var apps []appdm.Application
		Expect(json.NewDecoder(w.Body).Decode(&apps)).To(Succeed())
		Expect(apps).To(HaveLen(1))
		Expect(apps[0].ID).To(Equal(app.ID))
	})

	It("keeps status changes behind the leader gate", func() {
		app := create()

		w := do(http.MethodPatch, "/applications/"+jsonID(app.ID), map[string]string{"status": StatusInProgress})
		Expect(w.Code).To(Equal(http.StatusForbidden))

		actor = leader
		w = do(http.MethodPatch, "/applications/"+jsonID(app.ID), map[string]string{"status": StatusInProgress})
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("answers 403 when a citizen tries an official action", func() {
		app := create()

		w := do(http.MethodPost, "/applications/"+jsonID(app.ID)+"/responses", RespondDTO{Text: "ok", Action: ActionAccept})
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("answers 400 for a malformed id", func() {
		w := do(http.MethodGet, "/applications/abc", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("answers 404 for a missing application", func() {
		actor = admin
		w := do(http.MethodGet, "/applications/424242", nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})

func jsonID(id int64) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
