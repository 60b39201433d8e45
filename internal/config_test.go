package internal_test

import (
	"context"
	"testing"
	"time"

	"github.com/frahmantamala/mvd-portal/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestInternal(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Internal Suite")
}

var _ = Describe("Config", func() {
	var cfg internal.Config

	BeforeEach(func() {
		cfg = internal.Config{
			Security: internal.SecurityConfig{
				JWTAccessSecret:  "access-secret-0123456789",
				JWTRefreshSecret: "refresh-secret-0123456789",
			},
		}
		cfg.ApplyDefaults()
	})

	It("defaults to the memory backend under the well-known key", func() {
		Expect(cfg.Database.Driver).To(Equal(internal.DriverMemory))
		Expect(cfg.Store.Key).To(Equal("mvdsai-local-data"))
		Expect(cfg.Security.AccessTokenDuration).To(Equal(15 * time.Minute))
		Expect(cfg.Validate()).To(Succeed())
	})

	It("requires a source for sql drivers", func() {
		cfg.Database.Driver = internal.DriverSQLite
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("source is required")))

		cfg.Database.Source = "portal.db"
		Expect(cfg.Validate()).To(Succeed())
	})

	It("aggregates problems from several sections", func() {
		cfg.Mirror.Enabled = true
		cfg.Security.JWTRefreshSecret = cfg.Security.JWTAccessSecret

		err := cfg.Validate()
		Expect(err).To(MatchError(ContainSubstring("mirror config")))
		Expect(err).To(MatchError(ContainSubstring("security config")))
	})

	It("splits allowed origins", func() {
		cfg.Server.AllowedOrigins = "http://a.test, http://b.test,,"
		Expect(cfg.Server.AllowedOriginList()).To(Equal([]string{"http://a.test", "http://b.test"}))
	})
})

var _ = Describe("WithTimeout", func() {
	It("falls back to the default timeout", func() {
		ctx, cancel := internal.WithTimeout(context.Background(), 0)
		defer cancel()
		deadline, ok := ctx.Deadline()
		Expect(ok).To(BeTrue())
		Expect(time.Until(deadline)).To(BeNumerically("<=", internal.DefaultOperationTimeout))
	})
})
