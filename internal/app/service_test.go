package app_test

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/okian/pssemu/internal/app"
	"github.com/okian/pssemu/internal/config"
	"github.com/okian/pssemu/internal/scenario"
	"github.com/okian/pssemu/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func TestParseMode(t *testing.T) {
	Convey("Given the mode parser", t, func() {
		Convey("All four modes parse", func() {
			for _, name := range []string{"interactive", "demo", "random", "scenario"} {
				mode, err := app.ParseMode(name)
				So(err, ShouldBeNil)
				So(string(mode), ShouldEqual, name)
			}
		})

		Convey("Anything else is rejected", func() {
			for _, name := range []string{"", "Demo", "replay", "scenario-driven"} {
				_, err := app.ParseMode(name)
				So(err, ShouldNotBeNil)
				So(errors.Is(err, app.ErrUnknownMode), ShouldBeTrue)
			}
		})
	})
}

// udpSink collects datagrams from the service under test.
type udpSink struct {
	conn net.PacketConn
	mu   sync.Mutex
	msgs []string
}

func newUDPSink(t *testing.T) *udpSink {
	t.Helper()
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := &udpSink{conn: conn}
	go func() {
		buf := make([]byte, 2048)
		for {
			n, _, err := conn.ReadFrom(buf)
			if err != nil {
				return
			}
			s.mu.Lock()
			s.msgs = append(s.msgs, string(buf[:n]))
			s.mu.Unlock()
		}
	}()
	t.Cleanup(func() { _ = conn.Close() })
	return s
}

func (s *udpSink) snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.msgs))
	copy(out, s.msgs)
	return out
}

func instantSleep(ctx context.Context, _ time.Duration) bool {
	return ctx.Err() == nil
}

func testConfig(sink *udpSink) *config.Config {
	cfg := config.New()
	cfg.Host = "127.0.0.1"
	cfg.Port = sink.conn.LocalAddr().(*net.UDPAddr).Port
	cfg.BatchDelayMS = 1
	cfg.ClockIntervalMS = 10
	cfg.Seed = 21
	return cfg
}

func TestService_Run(t *testing.T) {
	Convey("Given a UDP sink", t, func() {
		sink := newUDPSink(t)

		Convey("Interactive mode is rejected", func() {
			cfg := testConfig(sink)
			cfg.Mode = string(app.ModeInteractive)
			svc := app.New(cfg, app.WithSleep(instantSleep))
			So(errors.Is(svc.Run(context.Background()), app.ErrInteractiveMode), ShouldBeTrue)
		})

		Convey("Unknown modes are rejected before connecting", func() {
			cfg := testConfig(sink)
			cfg.Mode = "replay"
			svc := app.New(cfg, app.WithSleep(instantSleep))
			err := svc.Run(context.Background())
			So(errors.Is(err, app.ErrUnknownMode), ShouldBeTrue)
			So(sink.snapshot(), ShouldBeEmpty)
		})

		Convey("Scenario mode plays a full quick-test run over UDP", func() {
			cfg := testConfig(sink)
			cfg.Mode = string(app.ModeScenario)
			cfg.Scenario = scenario.QuickTest
			svc := app.New(cfg,
				app.WithSleep(instantSleep),
				app.WithRand(rand.New(rand.NewSource(17))),
			)
			So(svc.Run(context.Background()), ShouldBeNil)

			// Give the loopback reader a moment to drain.
			time.Sleep(100 * time.Millisecond)
			msgs := sink.snapshot()
			So(msgs, ShouldNotBeEmpty)

			joined := strings.Join(msgs, "\n")
			So(msgs[0], ShouldStartWith, "Udp Port ")
			So(joined, ShouldContainSubstring, "pre;FightLoaded;")
			So(joined, ShouldContainSubstring, "rdy;FightReady;")
			So(joined, ShouldContainSubstring, "rnd;1;")
			So(joined, ShouldContainSubstring, "wrd;rd1;")
			So(joined, ShouldContainSubstring, "win;")
			So(joined, ShouldContainSubstring, "disconnected;")
		})

		Convey("An unknown scenario fails the run", func() {
			cfg := testConfig(sink)
			cfg.Mode = string(app.ModeScenario)
			cfg.Scenario = "no-such-scenario"
			svc := app.New(cfg, app.WithSleep(instantSleep))
			err := svc.Run(context.Background())
			So(errors.Is(err, app.ErrRunFailed), ShouldBeTrue)
		})

		Convey("Demo mode plays its fixed script", func() {
			cfg := testConfig(sink)
			cfg.Mode = string(app.ModeDemo)
			svc := app.New(cfg, app.WithSleep(instantSleep))
			So(svc.Run(context.Background()), ShouldBeNil)

			time.Sleep(100 * time.Millisecond)
			joined := strings.Join(sink.snapshot(), "\n")
			So(joined, ShouldContainSubstring, "pre;FightLoaded;")
			So(joined, ShouldContainSubstring, "pt1;2;")
			So(joined, ShouldContainSubstring, "wg1;0;wg2;1;")
			So(joined, ShouldContainSubstring, "win;")
		})
	})
}
