package compressor

// hooks is the resolved callback pair for one job. Values are never mutated
// after construction; the compressor swaps whole values.
type hooks struct {
	log      func(string)
	progress func(float64)
}

func noopHooks() hooks {
	return hooks{log: func(string) {}, progress: func(float64) {}}
}

// resolveHooks applies the precedence per-job, then instance default, then no-op.
func resolveHooks(opts Options, defaultLog func(string), defaultProgress func(float64)) hooks {
	h := noopHooks()
	switch {
	case opts.OnLog != nil:
		h.log = opts.OnLog
	case defaultLog != nil:
		h.log = defaultLog
	}
	switch {
	case opts.OnProgress != nil:
		h.progress = opts.OnProgress
	case defaultProgress != nil:
		h.progress = defaultProgress
	}
	return h
}
