// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/aibor/serialcap/internal/pipe"
	"github.com/cenkalti/backoff/v5"
)

// ErrLoopUsed is returned if [Loop.Run] is called more than once.
var ErrLoopUsed = errors.New("loop already ran")

// Dialer connects the endpoint.
//
// Every call must return a fresh handle, the loop never reuses a handle once
// the endpoint disconnected. The given context carries the deadline of the
// attempt. Implementations are expected to block until either the endpoint is
// connected or the context is done.
type Dialer interface {
	Dial(ctx context.Context) (io.ReadCloser, error)
}

// DialerFunc is a function implementing [Dialer].
type DialerFunc func(ctx context.Context) (io.ReadCloser, error)

// Dial implements [Dialer].
func (f DialerFunc) Dial(ctx context.Context) (io.ReadCloser, error) {
	return f(ctx)
}

// Sink receives the captured bytes. Write must write all bytes or return an
// error.
type Sink interface {
	io.Writer
	Close() error
}

// SinkOpener opens the [Sink]. It is called exactly once per [Loop].
type SinkOpener func() (Sink, error)

// Observer is notified about the progress of a [Loop]. It is called from the
// loop's goroutine only.
type Observer interface {
	ObserveState(state State)
	ObserveAttempt(attempt Attempt)
	ObserveSession(written int64)
}

type nopObserver struct{}

func (nopObserver) ObserveState(State)     {}
func (nopObserver) ObserveAttempt(Attempt) {}
func (nopObserver) ObserveSession(int64)   {}

// Option configures optional properties of a [Loop].
type Option func(*Loop)

// WithObserver sets the [Observer] of the loop.
func WithObserver(observer Observer) Option {
	return func(l *Loop) {
		l.observer = observer
	}
}

// WithBackOff replaces the default constant backoff of [Config.Backoff].
// If the backoff returns [backoff.Stop] the loop terminates as if the maximum
// number of attempts was reached.
func WithBackOff(b backoff.BackOff) Option {
	return func(l *Loop) {
		l.backOff = b
	}
}

// Loop is the capture state machine. It owns the sink and the endpoint handle
// exclusively. It is not safe for concurrent use.
type Loop struct {
	cfg      Config
	dialer   Dialer
	openSink SinkOpener
	backOff  backoff.BackOff
	observer Observer

	state   State
	session Session
	sink    Sink
	conn    *handle
}

// New creates a new [Loop] in state [Idle].
func New(cfg Config, dialer Dialer, openSink SinkOpener, opts ...Option) (*Loop, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	loop := &Loop{
		cfg:      cfg,
		dialer:   dialer,
		openSink: openSink,
		backOff:  backoff.NewConstantBackOff(cfg.Backoff),
		observer: nopObserver{},
	}

	for _, opt := range opts {
		opt(loop)
	}

	return loop, nil
}

// State returns the current state.
func (l *Loop) State() State {
	return l.state
}

// Session returns a copy of the current session state.
func (l *Loop) Session() Session {
	return l.session
}

// Run runs the loop until it terminates and returns the reason. It never
// returns nil.
//
// The returned error is a [*SinkError] if the sink failed, a [*AttemptsError]
// if the maximum number of attempts was exceeded or wraps [ErrCancelled] if
// the context was cancelled. Errors of the cleanup are joined with it.
func (l *Loop) Run(ctx context.Context) error {
	if l.state != Idle {
		return ErrLoopUsed
	}

	var err error

	for l.state != Terminated {
		var next State

		next, err = l.step(ctx)
		l.transition(next)
	}

	return errors.Join(err, l.cleanup())
}

func (l *Loop) step(ctx context.Context) (State, error) {
	switch l.state {
	case Idle:
		return l.open()
	case Connecting:
		return l.connect(ctx)
	case Connected:
		return l.copy(ctx)
	case Disconnected:
		return l.disconnect()
	default:
		return Terminated, fmt.Errorf("unexpected state %s", l.state)
	}
}

func (l *Loop) transition(next State) {
	if next == l.state {
		return
	}

	slog.Debug("State transition",
		slog.String("from", l.state.String()),
		slog.String("to", next.String()))

	l.state = next
	l.observer.ObserveState(next)
}

func (l *Loop) open() (State, error) {
	sink, err := l.openSink()
	if err != nil {
		return Terminated, &SinkError{Op: "open", Err: err}
	}

	slog.Debug("Sink opened", slog.String("path", l.cfg.Output))

	l.sink = sink
	l.session = Session{}

	return Connecting, nil
}

func (l *Loop) connect(ctx context.Context) (State, error) {
	if ctx.Err() != nil {
		return Terminated, cancelled(ctx)
	}

	attempt := Attempt{
		Ordinal:   l.session.Attempts + 1,
		Timeout:   l.cfg.timeout(l.session.Reconnect),
		Reconnect: l.session.Reconnect,
	}

	slog.Info("Connecting endpoint",
		slog.String("endpoint", l.cfg.Endpoint),
		slog.Uint64("attempt", attempt.Ordinal),
		slog.Duration("timeout", attempt.Timeout))

	conn, outcome, err := l.dial(ctx, attempt.Timeout)
	if ctx.Err() != nil {
		if conn != nil {
			_ = conn.Close()
		}

		return Terminated, cancelled(ctx)
	}

	attempt.Outcome = outcome
	attempt.Err = err
	l.observer.ObserveAttempt(attempt)

	if err == nil {
		slog.Info("Endpoint connected", slog.Any("attempt", attempt))

		l.conn = newHandle(conn)
		l.session.Attempts = 0
		l.session.Connections++
		l.backOff.Reset()

		return Connected, nil
	}

	slog.Warn("Connection attempt failed", slog.Any("attempt", attempt))

	l.session.Attempts++
	l.session.Reconnect = true

	if l.cfg.MaxAttempts > 0 && l.session.Attempts >= l.cfg.MaxAttempts {
		return Terminated, &AttemptsError{Attempts: l.session.Attempts, Last: err}
	}

	delay := l.backOff.NextBackOff()
	if delay == backoff.Stop {
		return Terminated, &AttemptsError{Attempts: l.session.Attempts, Last: err}
	}

	if sleep(ctx, delay) != nil {
		return Terminated, cancelled(ctx)
	}

	return Connecting, nil
}

func (l *Loop) dial(
	ctx context.Context,
	timeout time.Duration,
) (io.ReadCloser, Outcome, error) {
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := l.dialer.Dial(dialCtx)

	switch {
	case err == nil:
		return conn, Succeeded, nil
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, os.ErrDeadlineExceeded),
		errors.Is(dialCtx.Err(), context.DeadlineExceeded):
		return nil, TimedOut, err
	default:
		return nil, Errored, err
	}
}

func (l *Loop) copy(ctx context.Context) (State, error) {
	written, err := pipe.Copy(ctx, l.sink, l.conn)

	l.session.BytesWritten += written
	l.observer.ObserveSession(written)

	var pipeErr *pipe.Error

	switch {
	case errors.As(err, &pipeErr) && pipeErr.Op == pipe.OpWrite:
		return Terminated, &SinkError{Op: "write", Err: pipeErr.Err}
	case ctx.Err() != nil:
		return Terminated, cancelled(ctx)
	case err != nil:
		slog.Warn("Endpoint transport failed",
			slog.Int64("bytes", written),
			slog.Any("error", err))
	default:
		slog.Info("Endpoint closed", slog.Int64("bytes", written))
	}

	if written == 0 {
		slog.Warn("Session produced no output",
			slog.String("endpoint", l.cfg.Endpoint),
			slog.Any("error", pipe.ErrNoOutput))
	}

	return Disconnected, nil
}

func (l *Loop) disconnect() (State, error) {
	err := l.releaseEndpoint()
	if err != nil {
		slog.Debug("Release endpoint", slog.Any("error", err))
	}

	l.session.Reconnect = true

	return Connecting, nil
}

func (l *Loop) releaseEndpoint() error {
	if l.conn == nil {
		return nil
	}

	err := l.conn.Close()
	l.conn = nil

	return err
}

// cleanup releases the endpoint and closes the sink. Both run regardless of
// each other's result.
func (l *Loop) cleanup() error {
	var errs []error

	l.session.Terminated = true

	if l.conn != nil {
		slog.Debug("Releasing endpoint", slog.String("endpoint", l.cfg.Endpoint))

		err := l.releaseEndpoint()
		if err != nil {
			errs = append(errs, fmt.Errorf("release endpoint: %w", err))
		}
	}

	if l.sink != nil {
		slog.Debug("Closing sink", slog.String("path", l.cfg.Output))

		err := l.sink.Close()
		if err != nil {
			errs = append(errs, &SinkError{Op: "close", Err: err})
		}

		l.sink = nil
	}

	slog.Info("Cleanup done",
		slog.Uint64("connections", l.session.Connections),
		slog.Int64("bytes", l.session.BytesWritten))

	return errors.Join(errs...)
}

// handle wraps an endpoint connection so it is closed at most once, no matter
// if by the cancellation of a copy or by the loop.
type handle struct {
	io.Reader
	close func() error
}

func newHandle(conn io.ReadCloser) *handle {
	return &handle{
		Reader: conn,
		close:  sync.OnceValue(conn.Close),
	}
}

func (h *handle) Close() error {
	return h.close()
}

func cancelled(ctx context.Context) error {
	return fmt.Errorf("%w: %w", ErrCancelled, context.Cause(ctx))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
