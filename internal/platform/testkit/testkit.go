// Package testkit holds the seams and assertions package tests share
package testkit

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

// serial is held by tests that replace package level state
var serial sync.Mutex

// Swap replaces *target for the rest of the test; the old value comes back on cleanup
func Swap[T any](t testing.TB, target *T, replacement T) {
	t.Helper()
	prev := *target
	*target = replacement
	t.Cleanup(func() { *target = prev })
}

// Serial keeps the test from overlapping any other Serial test in the binary
func Serial(t testing.TB) {
	t.Helper()
	serial.Lock()
	t.Cleanup(serial.Unlock)
}

// MustPanic fails unless fn panics and returns the recovered value as text
func MustPanic(t testing.TB, fn func()) (msg string) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic")
		}
		msg = fmt.Sprint(r)
	}()
	fn()
	return ""
}

// MustNotPanic fails when fn panics
func MustNotPanic(t testing.TB, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	fn()
}

// MustContain fails when needle is not in haystack; long haystacks are cut
func MustContain(t testing.TB, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		return
	}
	const limit = 2048
	if len(haystack) > limit {
		haystack = haystack[:limit] + "..."
	}
	t.Fatalf("%q not found in:\n%s", needle, haystack)
}

// Eventually polls cond every tick and fails when it still does not hold after within
func Eventually(t testing.TB, within, tick time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(within)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met within %v", within)
		}
		time.Sleep(tick)
	}
}
