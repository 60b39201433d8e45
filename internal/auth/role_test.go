package auth

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("HasRole", func() {
	ginkgo.It("is monotone in the role ordinal", func() {
		roles := Roles()
		for i, have := range roles {
			u := &User{Role: have}
			for j, need := range roles {
				gomega.Expect(HasRole(u, need)).To(gomega.Equal(i >= j), "have=%s need=%s", have, need)
			}
		}
	})

	ginkgo.It("denies a nil user", func() {
		gomega.Expect(HasRole(nil, RoleUser)).To(gomega.BeFalse())
	})

	ginkgo.It("fails closed on unknown roles", func() {
		gomega.Expect(HasRole(&User{Role: "superuser"}, RoleUser)).To(gomega.BeFalse())
		gomega.Expect(HasRole(&User{Role: RoleAdmin}, "superuser")).To(gomega.BeFalse())
	})

	ginkgo.It("validates role names", func() {
		gomega.Expect(ValidRole(RoleLeader)).To(gomega.BeTrue())
		gomega.Expect(ValidRole("Leader")).To(gomega.BeFalse())
	})
})

var _ = ginkgo.Describe("VerifyPassword", func() {
	ginkgo.It("never matches an empty stored password", func() {
		gomega.Expect(VerifyPassword("", "")).To(gomega.BeFalse())
		gomega.Expect(VerifyPassword("", "anything")).To(gomega.BeFalse())
	})

	ginkgo.It("compares legacy plaintext values exactly", func() {
		gomega.Expect(VerifyPassword("user123", "user123")).To(gomega.BeTrue())
		gomega.Expect(VerifyPassword("user123", "User123")).To(gomega.BeFalse())
	})
})
