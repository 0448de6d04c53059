// Package leaktest detects goroutines left running by code under test.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

const settleDelay = 50 * time.Millisecond

// GoroutineChecker compares the goroutine count before and after a test body.
type GoroutineChecker struct {
	before int
	t      testing.TB
}

// NewGoroutineChecker records the current goroutine count.
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()

	runtime.Gosched()
	time.Sleep(10 * time.Millisecond)

	return &GoroutineChecker{before: runtime.NumGoroutine(), t: t}
}

// Check fails the test when more than tolerance goroutines are still running.
// Goroutines get until settleDelay has passed twice to finish.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	after := runtime.NumGoroutine()
	for i := 0; i < 2 && after-g.before > tolerance; i++ {
		runtime.Gosched()
		time.Sleep(settleDelay)
		runtime.GC()
		after = runtime.NumGoroutine()
	}

	if leaked := after - g.before; leaked > tolerance {
		g.t.Errorf("Potential goroutine leak: before=%d, after=%d, leaked=%d (tolerance=%d)",
			g.before, after, leaked, tolerance)
	}
}

// CheckNoGoroutineLeak runs fn and fails if it leaves any goroutine behind.
func CheckNoGoroutineLeak(t *testing.T, fn func()) {
	t.Helper()

	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}
