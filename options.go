package jobmanager

import (
	"runtime"

	"go.uber.org/zap"
)

// Options configure a Manager.
//
// All zero values are replaced with sensible defaults in FillDefaults.
type Options struct {
	// LaneCapacity is the initial ring size of each priority lane.
	LaneCapacity int

	// MaxQueued bounds every lane. Zero means unbounded. Submitting to a
	// full lane fails with ErrQueueFull.
	MaxQueued int

	// PinWorkers locks every worker to an OS thread pinned to one CPU
	// (Linux only, ignored elsewhere).
	PinWorkers bool

	// RecoverPanics recovers panics raised by job bodies, reports them
	// through OnJobError and still completes the job. When false a job
	// panic crashes the process.
	RecoverPanics bool

	Logger  *zap.Logger
	Metrics MetricsPolicy
	Hooks   Hooks

	OnJobError      func(error)
	OnInternalError func(error)
}

// Option mutates Options.
type Option func(*Options)

func WithLaneCapacity(n int) Option      { return func(o *Options) { o.LaneCapacity = n } }
func WithMaxQueued(n int) Option         { return func(o *Options) { o.MaxQueued = n } }
func WithPinWorkers(pin bool) Option     { return func(o *Options) { o.PinWorkers = pin } }
func WithRecoverPanics(on bool) Option   { return func(o *Options) { o.RecoverPanics = on } }
func WithLogger(l *zap.Logger) Option    { return func(o *Options) { o.Logger = l } }
func WithMetrics(m MetricsPolicy) Option { return func(o *Options) { o.Metrics = m } }
func WithHooks(h Hooks) Option           { return func(o *Options) { o.Hooks = h } }

func WithJobErrorHandler(fn func(error)) Option {
	return func(o *Options) { o.OnJobError = fn }
}

func WithInternalErrorHandler(fn func(error)) Option {
	return func(o *Options) { o.OnInternalError = fn }
}

func (o *Options) FillDefaults() {
	if o.LaneCapacity <= 0 {
		o.LaneCapacity = DefaultLaneCapacity
	}
	if o.MaxQueued < 0 {
		o.MaxQueued = 0
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Metrics == nil {
		o.Metrics = &AtomicMetrics{}
	}
	if o.Hooks == nil {
		o.Hooks = NoopHooks{}
	}
}

// DefaultWorkers is the worker count suggested for Init: one per CPU
// usable by the Go scheduler.
func DefaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}
