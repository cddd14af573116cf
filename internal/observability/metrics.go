// Package observability exposes Prometheus metrics for device operations.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sandevgo/routerbot/internal/core"
)

const (
	resultOK     = "ok"
	resultFailed = "failed"
)

// DeviceCollector bundles the counters and latency histogram of driver calls.
type DeviceCollector struct {
	gatherer prometheus.Gatherer

	Operations *prometheus.CounterVec
	Durations  *prometheus.HistogramVec
}

// NewDeviceCollector registers device metrics against reg, defaulting to the
// global Prometheus registry when nil.
func NewDeviceCollector(reg prometheus.Registerer) (*DeviceCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "device_operations_total",
		Help: "Total number of driver operations, labeled by driver, operation, and result.",
	}, []string{"driver", "operation", "result"})
	ops, err := registerCounterVec(reg, ops, "device_operations_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "device_operation_duration_seconds",
		Help:    "Driver operation latency in seconds.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 15, 30},
	}, []string{"driver", "operation"})
	durations, err = registerHistogramVec(reg, durations, "device_operation_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &DeviceCollector{
		gatherer:   gatherer,
		Operations: ops,
		Durations:  durations,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *DeviceCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func (c *DeviceCollector) observe(driver, op string, start time.Time, ok bool) {
	if c == nil {
		return
	}
	result := resultOK
	if !ok {
		result = resultFailed
	}
	c.Operations.WithLabelValues(driver, op, result).Inc()
	c.Durations.WithLabelValues(driver, op).Observe(time.Since(start).Seconds())
}

// InstrumentDriver wraps d so every call is counted and timed.
func InstrumentDriver(d core.Driver, c *DeviceCollector, driver string) core.Driver {
	if c == nil {
		return d
	}
	return &instrumentedDriver{next: d, collector: c, driver: driver}
}

type instrumentedDriver struct {
	next      core.Driver
	collector *DeviceCollector
	driver    string
}

func (d *instrumentedDriver) InterfaceExists(ctx context.Context, name string) bool {
	start := time.Now()
	found := d.next.InterfaceExists(ctx, name)
	// a negative answer is still a completed read
	d.collector.observe(d.driver, "interface_exists", start, true)
	return found
}

func (d *instrumentedDriver) CreateLoopback(ctx context.Context, name, ipCIDR string) bool {
	start := time.Now()
	ok := d.next.CreateLoopback(ctx, name, ipCIDR)
	d.collector.observe(d.driver, "create_loopback", start, ok)
	return ok
}

func (d *instrumentedDriver) DeleteLoopback(ctx context.Context, name string) bool {
	start := time.Now()
	ok := d.next.DeleteLoopback(ctx, name)
	d.collector.observe(d.driver, "delete_loopback", start, ok)
	return ok
}

func (d *instrumentedDriver) SetEnabled(ctx context.Context, name string, enabled bool) bool {
	start := time.Now()
	ok := d.next.SetEnabled(ctx, name, enabled)
	d.collector.observe(d.driver, "set_enabled", start, ok)
	return ok
}

func (d *instrumentedDriver) AdminOperStatus(ctx context.Context, name string) core.InterfaceState {
	start := time.Now()
	state := d.next.AdminOperStatus(ctx, name)
	d.collector.observe(d.driver, "admin_oper_status", start, true)
	return state
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
