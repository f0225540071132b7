package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

// Profiler describes one profiling session.
type Profiler struct {
	// Mode selects the profile to record; see [Modes].
	Mode string
	// Path is the directory receiving the profile. Empty selects a
	// temporary directory.
	Path string
	// Quiet suppresses the profiler's own log output.
	Quiet bool
}

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Start begins profiling. If the binary was built without the pprof tag, or
// p.Mode is empty or unknown, Start returns a Stopper that does nothing.
// Stop is always safe to call.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
