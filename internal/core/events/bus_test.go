package events_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/frahmantamala/mvd-portal/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("EventBus", func() {
	var (
		ctx context.Context
		bus *events.EventBus
	)

	BeforeEach(func() {
		ctx = context.Background()
		bus = events.NewEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	It("delivers synchronously to every subscriber of the type", func() {
		var seen []string
		bus.Subscribe(events.EventTypeUserRegistered, func(_ context.Context, e events.Event) error {
			seen = append(seen, e.EventID())
			return nil
		})

		event := events.NewUserRegisteredEvent(4, "user", "user")
		Expect(bus.PublishSync(ctx, event)).To(Succeed())
		Expect(seen).To(ConsistOf(event.EventID()))
	})

	It("surfaces handler failures on synchronous publish", func() {
		bus.Subscribe(events.EventTypeStateImported, func(context.Context, events.Event) error {
			return errors.New("boom")
		})
		Expect(bus.PublishSync(ctx, events.NewStateImportedEvent([]string{"news"}))).NotTo(Succeed())
	})

	It("delivers asynchronously on publish", func() {
		done := make(chan events.Event, 1)
		bus.Subscribe(events.EventTypeEmployeeDismissed, func(_ context.Context, e events.Event) error {
			done <- e
			return nil
		})

		Expect(bus.Publish(ctx, events.NewEmployeeDismissedEvent(3, "Сидоров В.П.", "Уволен"))).To(Succeed())
		Eventually(done).Should(Receive())
	})

	It("joins every handler failure and keeps delivering after a panic", func() {
		var ran int
		bus.Subscribe(events.EventTypeStateImported, func(context.Context, events.Event) error {
			panic("broken subscriber")
		})
		bus.Subscribe(events.EventTypeStateImported, func(context.Context, events.Event) error {
			ran++
			return errors.New("second")
		})

		err := bus.PublishSync(ctx, events.NewStateImportedEvent([]string{"news"}))
		Expect(err).To(MatchError(ContainSubstring("broken subscriber")))
		Expect(err).To(MatchError(ContainSubstring("second")))
		Expect(ran).To(Equal(1))
	})

	It("runs async handlers after the publishing context is cancelled", func() {
		done := make(chan error, 1)
		bus.Subscribe(events.EventTypeUserRegistered, func(c context.Context, _ events.Event) error {
			done <- c.Err()
			return nil
		})

		cctx, cancel := context.WithCancel(ctx)
		Expect(bus.Publish(cctx, events.NewUserRegisteredEvent(5, "guest", "user"))).To(Succeed())
		cancel()

		Expect(bus.Wait(ctx)).To(Succeed())
		Expect(done).To(Receive(BeNil()))
	})

	Context("with synchronous delivery", func() {
		BeforeEach(func() {
			bus = events.NewEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)), events.WithSyncDelivery())
		})

		It("has finished every handler when Publish returns", func() {
			seen := 0
			bus.Subscribe(events.EventTypeStateImported, func(context.Context, events.Event) error {
				seen++
				return nil
			})

			Expect(bus.Publish(ctx, events.NewStateImportedEvent([]string{"news"}))).To(Succeed())
			Expect(seen).To(Equal(1))
		})

		It("returns handler failures from Publish", func() {
			bus.Subscribe(events.EventTypeStateImported, func(context.Context, events.Event) error {
				return errors.New("boom")
			})
			Expect(bus.Publish(ctx, events.NewStateImportedEvent(nil))).To(MatchError(ContainSubstring("boom")))
		})
	})

	It("writes audit lines for portal events", func() {
		var buf bytes.Buffer
		audit := slog.New(slog.NewTextHandler(&buf, nil))
		events.SubscribeAudit(bus, audit)

		Expect(bus.PublishSync(ctx, events.NewApplicationRespondedEvent(2, 10, "Петрова М.К.", "accept", "принято"))).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("application.responded"))
	})
})
