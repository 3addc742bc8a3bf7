package errors_test

import (
	goerr "errors"

	liberr "github.com/bjornaugestad/highlander-go/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const testCode liberr.CodeError = liberr.MinAvailable + 1

var _ = Describe("Error construction", func() {
	It("carries its own code and message", func() {
		e := liberr.New(testCode, "boom")
		Expect(e.IsCode(testCode)).To(BeTrue())
		Expect(e.Error()).To(ContainSubstring("boom"))
	})

	It("reports parents via HasCode", func() {
		parent := liberr.New(testCode, "root cause")
		child := liberr.New(liberr.MinAvailable+2, "wrapper", parent)

		Expect(child.IsCode(testCode)).To(BeFalse())
		Expect(child.HasCode(testCode)).To(BeTrue())
		Expect(child.HasParent()).To(BeTrue())
	})

	It("composes with the standard errors.Is/As", func() {
		base := goerr.New("plain")
		wrapped := liberr.New(testCode, "wrapped", base)

		Expect(goerr.Is(wrapped, base)).To(BeTrue())
		Expect(liberr.Is(wrapped)).To(BeTrue())
	})

	It("Make wraps a plain error exactly once", func() {
		base := goerr.New("plain")
		wrapped := liberr.Make(base)
		Expect(liberr.Make(wrapped)).To(BeIdenticalTo(wrapped))
	})

	It("MakeIfError returns nil when every input is nil", func() {
		Expect(liberr.MakeIfError(nil, nil)).To(BeNil())
	})

	It("MakeIfError folds multiple errors under one Error", func() {
		e := liberr.MakeIfError(nil, goerr.New("a"), goerr.New("b"))
		Expect(e).ToNot(BeNil())
		Expect(e.HasParent()).To(BeTrue())
	})
})
