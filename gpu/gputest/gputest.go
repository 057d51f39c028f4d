// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gputest provides a call-recording gpu backend for tests.
//
// Device keeps buffer and texture contents in memory so that tests can read
// them back. Context and the programs and vertex arrays it creates append
// every call to a shared Log, which tests compare against the expected
// sequence.
//
//	dev, ctx := gputest.New()
//	r := render.NewRenderer(ctx, dev)
//	...
//	if got := ctx.Log.Count("Render"); got != 1 { ... }
package gputest

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/gfx/gpu"
)

// Call is one recorded backend call.
type Call struct {
	Op   string
	Args []any
}

func (c Call) String() string {
	if len(c.Args) == 0 {
		return c.Op
	}
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = fmt.Sprint(a)
	}
	return c.Op + "(" + strings.Join(args, ",") + ")"
}

// Log is an append-only call log shared by a Device, its Context and
// everything they create.
type Log struct {
	mu    sync.Mutex
	calls []Call
}

func (l *Log) add(op string, args ...any) {
	l.mu.Lock()
	l.calls = append(l.calls, Call{Op: op, Args: args})
	l.mu.Unlock()
}

// Calls returns a copy of the recorded calls.
func (l *Log) Calls() []Call {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Call, len(l.calls))
	copy(out, l.calls)
	return out
}

// Ops returns the recorded operation names, optionally restricted to the
// given names.
func (l *Log) Ops(only ...string) []string {
	keep := make(map[string]bool, len(only))
	for _, o := range only {
		keep[o] = true
	}
	var out []string
	for _, c := range l.Calls() {
		if len(only) == 0 || keep[c.Op] {
			out = append(out, c.Op)
		}
	}
	return out
}

// Strings returns the recorded calls formatted with their arguments,
// optionally restricted to the given operation names.
func (l *Log) Strings(only ...string) []string {
	keep := make(map[string]bool, len(only))
	for _, o := range only {
		keep[o] = true
	}
	var out []string
	for _, c := range l.Calls() {
		if len(only) == 0 || keep[c.Op] {
			out = append(out, c.String())
		}
	}
	return out
}

// Count returns how many times op was called.
func (l *Log) Count(op string) int {
	n := 0
	for _, c := range l.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Find returns the recorded calls named op.
func (l *Log) Find(op string) []Call {
	var out []Call
	for _, c := range l.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Reset discards the recorded calls.
func (l *Log) Reset() {
	l.mu.Lock()
	l.calls = nil
	l.mu.Unlock()
}

// New returns a device and a context sharing one Log.
func New() (*Device, *Context) {
	log := &Log{}
	dev := NewDevice(log)
	return dev, NewContext(log)
}

// Backend is a gpu.Backend opening a fresh recording device.
type Backend struct{}

func (Backend) Name() string { return "test" }

func (Backend) Open() (gpu.Device, gpu.Context, error) {
	dev, ctx := New()
	return dev, ctx, nil
}

// Register registers the recording backend under "test".
func Register() {
	gpu.RegisterBackend("test", func() gpu.Backend { return Backend{} })
}
