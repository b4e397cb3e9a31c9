package jobmanager

import (
	"fmt"
	"runtime"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"
	"go.uber.org/zap"
)

// worker drains lanes until stop is closed and every lane is empty.
//
// A wake token is posted for every submission; the buffered channel holds
// at most one token per worker, which is enough for every parked worker
// to re-check the lanes after a push.
func (m *Manager) worker(id int, lanes *laneSet, wake <-chan struct{}, stop <-chan struct{}) error {
	if m.opts.PinWorkers {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		cpu := id % runtime.NumCPU()
		if err := PinToCPU(cpu); err != nil {
			err = fmt.Errorf("jobmanager: pin worker %d to cpu %d: %w", id, cpu, err)
			m.log.Warn("worker pinning failed", zap.Int("worker", id), zap.Error(err))
			m.reportInternalError(err)
		}
	}

	for {
		if j, ok := lanes.pop(); ok {
			m.execute(id, j)
			continue
		}

		select {
		case <-wake:
		case <-stop:
			for {
				j, ok := lanes.pop()
				if !ok {
					return nil
				}
				m.execute(id, j)
			}
		}
	}
}

// execute runs one job: hooks around the body, then the release of its
// captured values, then the fence signal.
func (m *Manager) execute(worker int, j *Job) {
	m.active.Add(1)

	prio := j.prio
	sec := Section{
		JobID:    j.id,
		JobName:  j.name,
		Priority: prio,
		Worker:   worker,
		Start:    time.Now(),
	}
	ctx := m.opts.Hooks.StartSection(j.context(), &sec)

	if m.opts.RecoverPanics {
		sec.Err = m.callRecover(j)
	} else {
		j.call()
	}

	sec.End = time.Now()
	m.opts.Hooks.EndSection(ctx, &sec)

	if ce := m.log.Check(zap.DebugLevel, "job finished"); ce != nil {
		ce.Write(
			zap.String("job", j.name),
			zap.Stringer("priority", prio),
			zap.Int("worker", worker),
			zap.Duration("took", sec.Duration()),
		)
	}

	m.opts.Metrics.IncExecuted(prio)
	m.active.Add(-1)
	j.finish()
}

// callRecover runs the job body and converts a panic into a JobPanicError.
// Usage defects are re-raised.
func (m *Manager) callRecover(j *Job) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if ue, ok := r.(*UsageError); ok {
			panic(ue)
		}
		err = &JobPanicError{Job: j.name, Value: r}
		lg.FromContext(j.context()).Error("job panicked",
			lg.String("job", j.name),
			lg.Any("panic", r),
		)
		m.reportJobError(err)
	}()
	j.call()
	return nil
}
