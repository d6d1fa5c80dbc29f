// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package capture_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aibor/serialcap/internal/capture"
)

const (
	testInitialTimeout   = 200 * time.Millisecond
	testReconnectTimeout = 20 * time.Millisecond
)

func testConfig(maxAttempts uint64) capture.Config {
	return capture.Config{
		Endpoint:         "fake",
		Output:           "fake.log",
		InitialTimeout:   testInitialTimeout,
		ReconnectTimeout: testReconnectTimeout,
		Backoff:          time.Millisecond,
		MaxAttempts:      maxAttempts,
	}
}

type fakeConn struct {
	io.Reader
	closeErr error
	onClose  func()
	closes   atomic.Int32
}

func newConn(data string) *fakeConn {
	return &fakeConn{Reader: strings.NewReader(data)}
}

// newBlockingConn returns a connection that blocks on read until closed.
func newBlockingConn() *fakeConn {
	reader, _ := io.Pipe()

	return &fakeConn{
		Reader: reader,
		onClose: func() {
			_ = reader.Close()
		},
	}
}

func (c *fakeConn) Close() error {
	c.closes.Add(1)

	if c.onClose != nil {
		c.onClose()
	}

	return c.closeErr
}

type dialStep func(ctx context.Context) (io.ReadCloser, error)

func connect(conn *fakeConn) dialStep {
	return func(context.Context) (io.ReadCloser, error) {
		return conn, nil
	}
}

func fail(err error) dialStep {
	return func(context.Context) (io.ReadCloser, error) {
		return nil, err
	}
}

func block(ctx context.Context) (io.ReadCloser, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// notify wraps the step and closes the channel once the step returned.
func notify(done chan<- struct{}, step dialStep) dialStep {
	return func(ctx context.Context) (io.ReadCloser, error) {
		defer close(done)
		return step(ctx)
	}
}

// fakeDialer runs the given steps in order. Once all steps are consumed, it
// blocks until the attempt's context is done.
type fakeDialer struct {
	steps []dialStep
	calls int
}

func (d *fakeDialer) Dial(ctx context.Context) (io.ReadCloser, error) {
	if d.calls >= len(d.steps) {
		d.calls++
		return block(ctx)
	}

	step := d.steps[d.calls]
	d.calls++

	return step(ctx)
}

type fakeSink struct {
	bytes.Buffer
	writeErr error
	closeErr error
	openErr  error
	opens    int
	closes   int
}

func (s *fakeSink) Open() (capture.Sink, error) {
	s.opens++

	if s.openErr != nil {
		return nil, s.openErr
	}

	return s, nil
}

func (s *fakeSink) Write(p []byte) (int, error) {
	if s.writeErr != nil {
		return 0, s.writeErr
	}

	return s.Buffer.Write(p)
}

func (s *fakeSink) Close() error {
	s.closes++
	return s.closeErr
}

type recorder struct {
	states   []capture.State
	attempts []capture.Attempt
	sessions []int64
}

func (r *recorder) ObserveState(state capture.State) {
	r.states = append(r.states, state)
}

func (r *recorder) ObserveAttempt(attempt capture.Attempt) {
	r.attempts = append(r.attempts, attempt)
}

func (r *recorder) ObserveSession(written int64) {
	r.sessions = append(r.sessions, written)
}

func (r *recorder) ordinals() []uint64 {
	ordinals := make([]uint64, len(r.attempts))
	for idx, attempt := range r.attempts {
		ordinals[idx] = attempt.Ordinal
	}

	return ordinals
}

func (r *recorder) timeouts() []time.Duration {
	timeouts := make([]time.Duration, len(r.attempts))
	for idx, attempt := range r.attempts {
		timeouts[idx] = attempt.Timeout
	}

	return timeouts
}

func (r *recorder) outcomes() []capture.Outcome {
	outcomes := make([]capture.Outcome, len(r.attempts))
	for idx, attempt := range r.attempts {
		outcomes[idx] = attempt.Outcome
	}

	return outcomes
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

// captureLogs redirects the default logger into the returned buffer for the
// duration of the test.
func captureLogs(t *testing.T) *syncBuffer {
	t.Helper()

	logs := &syncBuffer{}
	previous := slog.Default()

	slog.SetDefault(slog.New(slog.NewTextHandler(logs, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	return logs
}
