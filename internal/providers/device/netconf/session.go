package netconf

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/routerbot/pkg/log"
	ncdriver "github.com/scrapli/scrapligo/driver/netconf"
	"github.com/scrapli/scrapligo/driver/options"
	"github.com/scrapli/scrapligo/logging"
	"github.com/scrapli/scrapligo/response"
	"github.com/scrapli/scrapligo/util"
)

// closeGrace bounds teardown; a peer that hung up mid-session can stall
// the driver's reader.
const closeGrace = 2 * time.Second

// session is a single NETCONF base:1.0 session. The session is dropped
// without <close-session/>; closing the stream ends it on the device.
type session struct {
	driver *ncdriver.Driver
	stream *stream
}

func openSession(ctx context.Context, host string, d Dialer, timeout time.Duration) (*session, error) {
	st := newStream(ctx, d)

	opts := []util.Option{
		options.WithCustomTransport(st),
		options.WithNetconfPreferredVersion(ncdriver.V1Dot0),
	}
	if timeout > 0 {
		opts = append(opts, options.WithTimeoutOps(timeout))
	}
	if l, err := driverLogger(ctx); err == nil {
		opts = append(opts, options.WithLogger(l))
	}

	drv, err := ncdriver.NewDriver(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("netconf driver: %w", err)
	}

	// Open closes the stream itself when the hello exchange fails.
	if err := drv.Open(); err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	return &session{driver: drv, stream: st}, nil
}

func (s *session) get(filter string) (*response.NetconfResponse, error) {
	return s.driver.Get(filter)
}

func (s *session) editRunning(config string) (*response.NetconfResponse, error) {
	return s.driver.EditConfig("running", config)
}

func (s *session) close(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.driver.Close()
	}()

	select {
	case <-done:
	case <-time.After(closeGrace):
		log.FromCtx(ctx).Warn().Msg("netconf session did not close in time, dropping stream")
		_ = s.stream.Close()
	}
}

// driverLogger routes scrapligo's channel log into the request logger at debug level.
func driverLogger(ctx context.Context) (*logging.Instance, error) {
	logger := log.FromCtx(ctx)
	return logging.NewInstance(
		logging.WithLevel(logging.Info),
		logging.WithFormatter(func(level, msg string) string { return level + ": " + msg }),
		logging.WithLogger(func(args ...interface{}) {
			logger.Debug().Str("component", "scrapligo").Msg(fmt.Sprint(args...))
		}),
	)
}
