package jobmanager

// reportInternalError reports an internal manager error.
//
// Internal errors are non-job-related failures such as
// a worker failing to pin itself to a CPU.
// The caller has already logged it; the handler is optional.
func (m *Manager) reportInternalError(e error) {
	if m.opts.OnInternalError != nil {
		m.opts.OnInternalError(e)
	}
}

// reportJobError reports a panic recovered from a job body.
//
// Only reachable with Options.RecoverPanics; job errors do not stop
// the worker.
func (m *Manager) reportJobError(err error) {
	if m.opts.OnJobError != nil {
		m.opts.OnJobError(err)
	}
}
