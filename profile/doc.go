// Package profile starts optional runtime profiling with
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof ./...
//	calc --pprof-mode cpu --pprof-dir ./profiles 'sum(1, 2, 3)'
//
// Without the tag, [Modes] yields nothing and [Start] returns a profiler
// whose Stop does nothing, so callers never need their own build tags.
//
// Supported modes are allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread and trace. Each writes "<mode>.pprof" (or "trace.out")
// into the configured directory when stopped.
package profile
