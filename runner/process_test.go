package runner_test

import (
	"context"
	"errors"
	"time"

	"github.com/bjornaugestad/highlander-go/runner"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Process", func() {
	It("calls Do then Run on every runnable in order", func() {
		var order []string

		mk := func(name string) runner.Runnable {
			return runner.Func{
				DoFunc:  func(ctx context.Context) error { order = append(order, "do:"+name); return nil },
				RunFunc: func(ctx context.Context) error { order = append(order, "run:"+name); return nil },
			}
		}

		p := runner.NewProcess(mk("a"), mk("b"), mk("c"))
		Expect(p.Start(context.Background(), false)).To(BeNil())

		Expect(order).To(Equal([]string{"do:a", "do:b", "do:c", "run:a", "run:b", "run:c"}))
	})

	It("undoes previously-succeeded runnables in reverse order on Do failure", func() {
		var order []string
		boom := errors.New("boom")

		mk := func(name string, failDo bool) runner.Runnable {
			return runner.Func{
				DoFunc: func(ctx context.Context) error {
					order = append(order, "do:"+name)
					if failDo {
						return boom
					}
					return nil
				},
				UndoFunc: func(ctx context.Context) error {
					order = append(order, "undo:"+name)
					return nil
				},
			}
		}

		p := runner.NewProcess(mk("a", false), mk("b", false), mk("c", true))
		err := p.Start(context.Background(), false)

		Expect(err).ToNot(BeNil())
		Expect(order).To(Equal([]string{"do:a", "do:b", "do:c", "undo:b", "undo:a"}))
	})

	It("shuts runnables down in reverse startup order and sets ShuttingDown", func() {
		var order []string

		mk := func(name string) runner.Runnable {
			return runner.Func{
				DoFunc: func(ctx context.Context) error { order = append(order, "do:"+name); return nil },
				ShutdownFunc: func(ctx context.Context) error {
					order = append(order, "shutdown:"+name)
					return nil
				},
			}
		}

		p := runner.NewProcess(mk("a"), mk("b"))
		Expect(p.Start(context.Background(), false)).To(BeNil())
		Expect(p.ShuttingDown()).To(BeFalse())

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		Expect(p.Shutdown(ctx)).ToNot(HaveOccurred())

		Expect(p.ShuttingDown()).To(BeTrue())
		Expect(order).To(Equal([]string{"do:a", "do:b", "shutdown:b", "shutdown:a"}))
	})
})
