package jobmanager

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Section describes one job execution as seen by Hooks.
type Section struct {
	JobID    uuid.UUID
	JobName  string
	Priority Priority
	Worker   int
	Start    time.Time
	// End is zero in StartSection.
	End time.Time
	// Err is set when a recovered panic ended the job.
	Err error
}

// Duration returns End - Start, or zero while the section is open.
func (s *Section) Duration() time.Duration {
	if s.End.IsZero() {
		return 0
	}
	return s.End.Sub(s.Start)
}

// Hooks is called by workers around every job body.
//
// StartSection runs on the worker right before the body and may return a
// derived context; the same context is handed to EndSection, which runs
// after the body returned and before captured values are released.
// Implementations must be safe for concurrent use.
type Hooks interface {
	StartSection(ctx context.Context, s *Section) context.Context
	EndSection(ctx context.Context, s *Section)
}

// NoopHooks ignores every section.
type NoopHooks struct{}

func (NoopHooks) StartSection(ctx context.Context, _ *Section) context.Context { return ctx }
func (NoopHooks) EndSection(context.Context, *Section)                         {}

// HookFuncs adapts a pair of plain functions to Hooks. Nil fields are
// skipped.
type HookFuncs struct {
	Start func(s *Section)
	End   func(s *Section)
}

func (h HookFuncs) StartSection(ctx context.Context, s *Section) context.Context {
	if h.Start != nil {
		h.Start(s)
	}
	return ctx
}

func (h HookFuncs) EndSection(_ context.Context, s *Section) {
	if h.End != nil {
		h.End(s)
	}
}
