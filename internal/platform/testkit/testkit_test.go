package testkit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

var (
	threshold = 0.5
	lookup    = func(string) bool { return false }
)

func TestSwapRestores(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Swap(t, &threshold, 0.9)
		Swap(t, &lookup, func(string) bool { return true })
		if threshold != 0.9 || !lookup("acme") {
			t.Fatalf("swap not applied")
		}
	})
	if threshold != 0.5 || lookup("acme") {
		t.Fatalf("swap not restored: %v", threshold)
	}
}

func TestSerialExcludes(t *testing.T) {
	var (
		active atomic.Int32
		peak   atomic.Int32
		wg     sync.WaitGroup
	)
	wg.Add(3)
	t.Cleanup(func() {
		wg.Wait()
		if peak.Load() != 1 {
			t.Fatalf("serial tests overlapped: peak %d", peak.Load())
		}
	})
	for _, name := range []string{"a", "b", "c"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			defer wg.Done()
			Serial(t)
			n := active.Add(1)
			if n > peak.Load() {
				peak.Store(n)
			}
			time.Sleep(10 * time.Millisecond)
			active.Add(-1)
		})
	}
}

func TestAssertions(t *testing.T) {
	t.Parallel()
	if msg := MustPanic(t, func() { panic("no policy source") }); msg != "no policy source" {
		t.Fatalf("recovered %q", msg)
	}
	MustNotPanic(t, func() {})
	MustContain(t, `{"reject":true}`, `"reject":true`)

	var n atomic.Int32
	Eventually(t, time.Second, time.Millisecond, func() bool { return n.Add(1) >= 3 })
}
