package state

// spawn runs the detached part of an optimistic operation. It is a test
// seam: production code runs the work on a fresh goroutine, tests replace
// it to make the optimistic paths deterministic.
var spawn = func(fn func()) {
	go fn()
}
