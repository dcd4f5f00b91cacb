package circuit

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNewBreakerStartsClosed(t *testing.T) {
	breaker := NewBreaker("geoip", DefaultConfig(), nil)

	if breaker.State() != StateClosed {
		t.Errorf("initial state = %s, want CLOSED", breaker.State())
	}
	if breaker.IsOpen() {
		t.Error("new breaker reports open")
	}
}

func TestBreakerOpensAfterThreshold(t *testing.T) {
	breaker := NewBreaker("geoip", Config{
		Threshold:        3,
		Timeout:          time.Second,
		SuccessThreshold: 2,
		MaxHalfOpen:      2,
	}, zap.NewNop())

	for i := 0; i < 3; i++ {
		breaker.Record(errors.New("lookup failed"))
	}

	if breaker.State() != StateOpen {
		t.Fatalf("state = %s after threshold failures, want OPEN", breaker.State())
	}
	if err := breaker.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Allow while open = %v, want ErrCircuitOpen", err)
	}
}

func TestBreakerHalfOpensAfterTimeout(t *testing.T) {
	breaker := NewBreaker("geoip", Config{
		Threshold:        2,
		Timeout:          50 * time.Millisecond,
		SuccessThreshold: 2,
		MaxHalfOpen:      2,
	}, zap.NewNop())

	breaker.Record(errors.New("fail"))
	breaker.Record(errors.New("fail"))
	if breaker.State() != StateOpen {
		t.Fatalf("state = %s, want OPEN", breaker.State())
	}

	time.Sleep(60 * time.Millisecond)

	if err := breaker.Allow(); err != nil {
		t.Fatalf("Allow after timeout: %v", err)
	}
	if breaker.State() != StateHalfOpen {
		t.Errorf("state = %s, want HALF_OPEN", breaker.State())
	}

	// Half-open admits at most MaxHalfOpen probes
	if err := breaker.Allow(); err != nil {
		t.Errorf("second probe: %v", err)
	}
	if err := breaker.Allow(); !errors.Is(err, ErrTooManyRequests) {
		t.Errorf("third probe = %v, want ErrTooManyRequests", err)
	}
}

func TestBreakerClosesAfterSuccesses(t *testing.T) {
	breaker := NewBreaker("geoip", Config{
		Threshold:        2,
		Timeout:          20 * time.Millisecond,
		SuccessThreshold: 2,
		MaxHalfOpen:      5,
	}, zap.NewNop())

	breaker.Record(errors.New("fail"))
	breaker.Record(errors.New("fail"))
	time.Sleep(30 * time.Millisecond)
	_ = breaker.Allow()

	breaker.Record(nil)
	breaker.Record(nil)

	if breaker.State() != StateClosed {
		t.Errorf("state = %s after recovery, want CLOSED", breaker.State())
	}
}

func TestBreakerReopensOnHalfOpenFailure(t *testing.T) {
	breaker := NewBreaker("geoip", Config{
		Threshold:        2,
		Timeout:          20 * time.Millisecond,
		SuccessThreshold: 2,
		MaxHalfOpen:      5,
	}, zap.NewNop())

	breaker.Record(errors.New("fail"))
	breaker.Record(errors.New("fail"))
	time.Sleep(30 * time.Millisecond)
	_ = breaker.Allow()

	// A single failure during the probe window slams it shut again
	breaker.Record(errors.New("still failing"))

	if breaker.State() != StateOpen {
		t.Errorf("state = %s after half-open failure, want OPEN", breaker.State())
	}
}

func TestExecutePropagatesAndCounts(t *testing.T) {
	breaker := NewBreaker("geoip", Config{
		Threshold:        2,
		Timeout:          time.Second,
		SuccessThreshold: 1,
		MaxHalfOpen:      1,
	}, zap.NewNop())

	if err := breaker.Execute(func() error { return nil }); err != nil {
		t.Errorf("Execute(ok) = %v", err)
	}

	boom := errors.New("boom")
	for i := 0; i < 2; i++ {
		if err := breaker.Execute(func() error { return boom }); !errors.Is(err, boom) {
			t.Errorf("Execute(fail) = %v, want boom", err)
		}
	}

	// Breaker is now open; the function must not run
	ran := false
	err := breaker.Execute(func() error { ran = true; return nil })
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Execute while open = %v, want ErrCircuitOpen", err)
	}
	if ran {
		t.Error("guarded function ran while the breaker was open")
	}
}
