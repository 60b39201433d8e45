package application

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/frahmantamala/mvd-portal/internal"
	"github.com/frahmantamala/mvd-portal/internal/auth"
	appdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/application"
	"github.com/frahmantamala/mvd-portal/internal/core/events"
	"github.com/frahmantamala/mvd-portal/internal/store"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestApplication(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Application Suite")
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

var (
	citizen  = &auth.User{ID: 1, Name: "Гражданин", Login: "user", Role: auth.RoleUser}
	sidorov  = &auth.User{ID: 2, Name: "Сидоров В.П.", Login: "sidorov", Role: auth.RoleEmployee}
	leader   = &auth.User{ID: 3, Name: "Руководитель ОУР", Login: "leader", Role: auth.RoleLeader}
	admin    = &auth.User{ID: 4, Name: "Администратор системы", Login: "admin", Role: auth.RoleAdmin}
	baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
)

func newTestService() (*Service, *store.Store, *recordingPublisher) {
	lg := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.New(store.NewMemoryBackend(), store.WithLogger(lg))
	pub := &recordingPublisher{}
	svc := NewService(st, pub, lg)
	clock := baseTime
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc, st, pub
}

var _ = Describe("Application Service", func() {
	var (
		ctx     context.Context
		service *Service
		st      *store.Store
		pub     *recordingPublisher
	)

	BeforeEach(func() {
		ctx = context.Background()
		service, st, pub = newTestService()
	})

	Describe("Create", func() {
		It("fills defaults from the author and the clock", func() {
			app, err := service.Create(ctx, citizen, CreateApplicationDTO{Type: "Жалоба", Description: "Шум ночью"})
			Expect(err).NotTo(HaveOccurred())
			Expect(app.ID).To(BeNumerically(">", 0))
			Expect(app.Status).To(Equal(StatusNew))
			Expect(app.Priority).To(Equal(DefaultPriority))
			Expect(app.Department).To(Equal(DefaultDepartment))
			Expect(app.Title).To(Equal("Жалоба от Гражданин"))
			Expect(app.Author).To(Equal("Гражданин"))
			Expect(app.AuthorLogin).To(Equal("user"))
			Expect(app.CreatedAt).To(Equal("2024-03-01T09:01:00Z"))
			Expect(app.Responses).To(BeEmpty())
			Expect(app.Responses).NotTo(BeNil())
		})

		It("validates the payload", func() {
			_, err := service.Create(ctx, citizen, CreateApplicationDTO{Type: "Жалоба"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
		})

		It("rejects unknown priorities", func() {
			_, err := service.Create(ctx, citizen, CreateApplicationDTO{Type: "Жалоба", Description: "x", Priority: "срочно"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("List", func() {
		It("filters by author login", func() {
			created, err := service.Create(ctx, sidorov, CreateApplicationDTO{Type: "appeal", Description: "Прошу отпуск"})
			Expect(err).NotTo(HaveOccurred())

			mine, err := service.List(ctx, admin, store.Filter{"author_login": "sidorov"})
			Expect(err).NotTo(HaveOccurred())
			Expect(mine).To(HaveLen(1))
			Expect(mine[0].ID).To(Equal(created.ID))

			others, err := service.List(ctx, admin, store.Filter{"author_login": "other"})
			Expect(err).NotTo(HaveOccurred())
			Expect(others).To(BeEmpty())
		})

		It("limits citizens to their own applications", func() {
			_, err := service.Create(ctx, sidorov, CreateApplicationDTO{Type: "appeal", Description: "a"})
			Expect(err).NotTo(HaveOccurred())
			own, err := service.Create(ctx, citizen, CreateApplicationDTO{Type: "appeal", Description: "b"})
			Expect(err).NotTo(HaveOccurred())

			apps, err := service.List(ctx, citizen, store.Filter{"author_login": "sidorov"})
			Expect(err).NotTo(HaveOccurred())
			Expect(apps).To(HaveLen(1))
			Expect(apps[0].ID).To(Equal(own.ID))
		})

		It("returns newest first, including legacy timestamps", func() {
			Expect(st.Update(ctx, func(s *store.State) error {
				s.Applications = append(s.Applications, appdm.Application{
					ID: s.NextID(), Type: "old", Status: StatusClosed, CreatedAt: "2023-12-31 23:59:59",
				})
				return nil
			})).To(Succeed())
			first, err := service.Create(ctx, citizen, CreateApplicationDTO{Type: "first", Description: "x"})
			Expect(err).NotTo(HaveOccurred())
			second, err := service.Create(ctx, citizen, CreateApplicationDTO{Type: "second", Description: "x"})
			Expect(err).NotTo(HaveOccurred())

			apps, err := service.List(ctx, admin, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(apps).To(HaveLen(3))
			Expect(apps[0].ID).To(Equal(second.ID))
			Expect(apps[1].ID).To(Equal(first.ID))
			Expect(apps[2].Type).To(Equal("old"))
		})

		It("orders ru-RU locale timestamps among the others", func() {
			Expect(st.Update(ctx, func(s *store.State) error {
				s.Applications = append(s.Applications,
					appdm.Application{ID: s.NextID(), Type: "garbled", Status: StatusNew, CreatedAt: "вчера"},
					appdm.Application{ID: s.NextID(), Type: "sql", Status: StatusNew, CreatedAt: "2023-12-31 23:59:59"},
					appdm.Application{ID: s.NextID(), Type: "locale", Status: StatusNew, CreatedAt: "15.01.2024, 10:30:00"},
				)
				return nil
			})).To(Succeed())

			apps, err := service.List(ctx, admin, nil)
			Expect(err).NotTo(HaveOccurred())
			types := make([]string, 0, len(apps))
			for _, a := range apps {
				types = append(types, a.Type)
			}
			Expect(types).To(Equal([]string{"locale", "sql", "garbled"}))
			Expect(createdAt(apps[0])).To(Equal(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)))
		})

		It("filters by status", func() {
			app, err := service.Create(ctx, citizen, CreateApplicationDTO{Type: "t", Description: "x"})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Update(ctx, app.ID, store.Patch{"status": json.RawMessage(`"в работе"`)})
			Expect(err).NotTo(HaveOccurred())

			apps, err := service.List(ctx, leader, store.Filter{"status": StatusInProgress})
			Expect(err).NotTo(HaveOccurred())
			Expect(apps).To(HaveLen(1))
			apps, err = service.List(ctx, leader, store.Filter{"status": StatusNew})
			Expect(err).NotTo(HaveOccurred())
			Expect(apps).To(BeEmpty())
		})
	})

	Describe("Get", func() {
		It("hides other people's applications from citizens", func() {
			app, err := service.Create(ctx, sidorov, CreateApplicationDTO{Type: "t", Description: "x"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Get(ctx, citizen, app.ID)
			Expect(err).To(Equal(internal.ErrNotParticipant))

			got, err := service.Get(ctx, leader, app.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(app.ID))
		})

		It("reports missing applications", func() {
			_, err := service.Get(ctx, admin, 404)
			Expect(err).To(Equal(internal.ErrApplicationNotFound))
		})
	})

	Describe("Update", func() {
		var app appdm.Application

		BeforeEach(func() {
			var err error
			app, err = service.Create(ctx, citizen, CreateApplicationDTO{Type: "t", Description: "original"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("merges the patch and keeps the other fields", func() {
			updated, err := service.Update(ctx, app.ID, store.Patch{
				"status":   json.RawMessage(`"в работе"`),
				"isPinned": json.RawMessage(`true`),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(StatusInProgress))
			Expect(updated.IsPinned).To(BeTrue())
			Expect(updated.Description).To(Equal("original"))
			Expect(updated.AuthorLogin).To(Equal("user"))
		})

		It("rejects unknown statuses", func() {
			_, err := service.Update(ctx, app.ID, store.Patch{"status": json.RawMessage(`"потеряно"`)})
			Expect(err).To(Equal(internal.ErrInvalidStatus))
		})

		It("rejects unknown fields", func() {
			_, err := service.Update(ctx, app.ID, store.Patch{"colour": json.RawMessage(`"red"`)})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidPatch))
		})

		It("reports missing applications", func() {
			_, err := service.Update(ctx, 999, store.Patch{"status": json.RawMessage(`"закрыто"`)})
			Expect(err).To(Equal(internal.ErrApplicationNotFound))
		})
	})

	Describe("Delete", func() {
		It("is idempotent", func() {
			app, err := service.Create(ctx, citizen, CreateApplicationDTO{Type: "t", Description: "x"})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(ctx, app.ID)).To(Succeed())
			Expect(service.Delete(ctx, app.ID)).To(Succeed())

			apps, err := service.List(ctx, admin, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(apps).To(BeEmpty())
		})
	})

	Describe("AddResponse", func() {
		var app appdm.Application

		BeforeEach(func() {
			var err error
			app, err = service.Create(ctx, citizen, CreateApplicationDTO{Type: "t", Description: "x"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("appends the response and applies the action in one write", func() {
			before := st.Revision()

			updated, err := service.AddResponse(ctx, leader, app.ID, RespondDTO{
				Text: "Принято к рассмотрению", IsOfficial: true, Action: ActionAccept,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Revision()).To(Equal(before + 1))
			Expect(updated.Status).To(Equal(StatusAccepted))
			Expect(updated.Responses).To(HaveLen(1))

			resp := updated.Responses[0]
			Expect(resp.Author).To(Equal("Руководитель ОУР"))
			Expect(resp.IsOfficial).To(BeTrue())
			Expect(resp.Action).To(Equal(ActionAccept))
			Expect(resp.ID).NotTo(Equal(app.ID))

			stored, err := service.Get(ctx, admin, app.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(StatusAccepted))
			Expect(stored.Responses).To(HaveLen(1))
		})

		DescribeTable("maps actions onto statuses",
			func(action, status string) {
				updated, err := service.AddResponse(ctx, admin, app.ID, RespondDTO{Text: "ok", Action: action})
				Expect(err).NotTo(HaveOccurred())
				Expect(updated.Status).To(Equal(status))
			},
			Entry("accept", ActionAccept, StatusAccepted),
			Entry("reject", ActionReject, StatusRejected),
			Entry("close", ActionClose, StatusClosed),
			Entry("plain response", "response", StatusNew),
		)

		It("publishes application.responded", func() {
			_, err := service.AddResponse(ctx, leader, app.ID, RespondDTO{Text: "Закрыто", Action: ActionClose})
			Expect(err).NotTo(HaveOccurred())
			Expect(pub.events).To(HaveLen(1))
			Expect(pub.events[0].EventType()).To(Equal(events.EventTypeApplicationResponded))
		})

		It("lets the author reply without changing the status", func() {
			updated, err := service.AddResponse(ctx, citizen, app.ID, RespondDTO{Text: "Дополнение"})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(StatusNew))
			Expect(updated.Responses[0].IsOfficial).To(BeFalse())
		})

		It("keeps official answers and actions for leaders", func() {
			_, err := service.AddResponse(ctx, sidorov, app.ID, RespondDTO{Text: "Принято", Action: ActionAccept})
			Expect(err).To(Equal(internal.ErrInsufficientRole))

			_, err = service.AddResponse(ctx, sidorov, app.ID, RespondDTO{Text: "Официально", IsOfficial: true})
			Expect(err).To(Equal(internal.ErrInsufficientRole))

			stored, err := service.Get(ctx, admin, app.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Responses).To(BeEmpty())
			Expect(stored.Status).To(Equal(StatusNew))
		})

		It("refuses citizens replying to someone else's application", func() {
			other := &auth.User{ID: 9, Name: "Другой", Login: "other", Role: auth.RoleUser}
			_, err := service.AddResponse(ctx, other, app.ID, RespondDTO{Text: "Чужой ответ"})
			Expect(err).To(Equal(internal.ErrNotParticipant))
		})

		It("reports missing applications", func() {
			_, err := service.AddResponse(ctx, admin, 404, RespondDTO{Text: "?"})
			Expect(err).To(Equal(internal.ErrApplicationNotFound))
		})
	})
})
