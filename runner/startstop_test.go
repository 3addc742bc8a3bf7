package runner_test

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/bjornaugestad/highlander-go/runner"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("StartStop", func() {
	It("runs the start function and reports IsRunning", func() {
		x, n := context.WithTimeout(context.Background(), 5*time.Second)
		defer n()

		var started, running atomic.Bool

		start := func(c context.Context) error {
			started.Store(true)
			running.Store(true)
			<-c.Done()
			running.Store(false)
			return nil
		}
		stop := func(c context.Context) error { return nil }

		ss := runner.NewStartStop(start, stop)
		Expect(ss.Run(x)).ToNot(HaveOccurred())

		Eventually(started.Load).Should(BeTrue())
		Eventually(func() bool { return running.Load() && ss.IsRunning() }).Should(BeTrue())

		Expect(ss.Shutdown(x)).ToNot(HaveOccurred())
		Expect(ss.IsRunning()).To(BeFalse())
	})

	It("stops the previous instance when Run is called again", func() {
		x, n := context.WithTimeout(context.Background(), 5*time.Second)
		defer n()

		var startCount atomic.Int32

		start := func(c context.Context) error {
			startCount.Add(1)
			<-c.Done()
			return nil
		}
		stop := func(c context.Context) error { return nil }

		ss := runner.NewStartStop(start, stop)
		Expect(ss.Run(x)).ToNot(HaveOccurred())
		Eventually(ss.IsRunning).Should(BeTrue())

		Expect(ss.Run(x)).ToNot(HaveOccurred())
		Eventually(func() int32 { return startCount.Load() }).Should(BeNumerically(">", int32(1)))

		Expect(ss.Shutdown(x)).ToNot(HaveOccurred())
	})
})
