package clock_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/okian/pssemu/internal/protocol"
	"github.com/okian/pssemu/internal/transport/clock"
	"github.com/okian/pssemu/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// recordingSender collects every message it is asked to send.
type recordingSender struct {
	mu       sync.Mutex
	messages []string
}

func (s *recordingSender) Send(_ context.Context, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, message)
	return true
}

func (s *recordingSender) snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.messages))
	copy(out, s.messages)
	return out
}

func waitIdle(d *clock.Driver, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !d.Running() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestDriver_Countdown(t *testing.T) {
	Convey("Given a driver over a clock with 3 seconds remaining", t, func() {
		enc := protocol.NewEncoder()
		enc.Clock("0:03", "start")
		sender := &recordingSender{}
		driver := clock.New(sender, enc, clock.WithTickInterval(10*time.Millisecond))

		Convey("When started", func() {
			So(driver.Start(context.Background()), ShouldBeTrue)

			Convey("It emits exactly T decrementing ticks and self-stops", func() {
				So(waitIdle(driver, 2*time.Second), ShouldBeTrue)
				So(sender.snapshot(), ShouldResemble, []string{
					"clk;0:02;",
					"clk;0:01;",
					"clk;0:00;",
				})
				So(enc.ClockString(), ShouldEqual, "0:00")
			})
		})
	})
}

func TestDriver_StateMachine(t *testing.T) {
	Convey("Given a driver over a long clock", t, func() {
		enc := protocol.NewEncoder()
		enc.Clock("5:00", "start")
		sender := &recordingSender{}
		driver := clock.New(sender, enc, clock.WithTickInterval(10*time.Millisecond))

		Convey("Start is a no-op while already running", func() {
			So(driver.Start(context.Background()), ShouldBeTrue)
			So(driver.Start(context.Background()), ShouldBeFalse)
			driver.Stop(context.Background())
			So(driver.Running(), ShouldBeFalse)
		})

		Convey("Stop is idempotent", func() {
			driver.Stop(context.Background())
			So(driver.Start(context.Background()), ShouldBeTrue)
			driver.Stop(context.Background())
			driver.Stop(context.Background())
			So(driver.Running(), ShouldBeFalse)
		})

		Convey("The driver can be restarted after a stop", func() {
			So(driver.Start(context.Background()), ShouldBeTrue)
			driver.Stop(context.Background())
			So(driver.Start(context.Background()), ShouldBeTrue)
			So(driver.Running(), ShouldBeTrue)
			driver.Stop(context.Background())
		})

		Convey("Context cancellation stops the tick goroutine", func() {
			ctx, cancel := context.WithCancel(context.Background())
			So(driver.Start(ctx), ShouldBeTrue)
			cancel()
			So(waitIdle(driver, time.Second), ShouldBeTrue)
		})
	})
}
