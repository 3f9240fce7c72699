package compiler

import "sync"

// ffiGuard is the process-wide one-shot latch spec.md §5 calls for: the
// Python FFI bridge (out of scope beyond this narrow interface) may only
// be initialized once per process no matter how many CompilationSessions
// run concurrently under CompileAll.
var ffiGuard sync.Once

// InitFFI runs init exactly once across the whole process, regardless of
// how many goroutines call it concurrently. Actual FFI bridging is
// deliberately out of scope (spec.md's Non-goals); this exists so a
// caller that enables it later has a concurrency-safe seam to hook into
// without CompileAll's goroutines racing each other.
func InitFFI(init func()) {
	ffiGuard.Do(init)
}
