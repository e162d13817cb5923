package crypto

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type slowHasher struct {
	delay      time.Duration
	inFlight   int32
	maxGauge   int32
	compareErr error
}

func (h *slowHasher) track() func() {
	current := atomic.AddInt32(&h.inFlight, 1)
	for {
		max := atomic.LoadInt32(&h.maxGauge)
		if current <= max || atomic.CompareAndSwapInt32(&h.maxGauge, max, current) {
			break
		}
	}
	return func() { atomic.AddInt32(&h.inFlight, -1) }
}

func (h *slowHasher) Hash(password string) (string, error) {
	defer h.track()()
	time.Sleep(h.delay)
	return "hashed:" + password, nil
}

func (h *slowHasher) Compare(hash string, password string) error {
	defer h.track()()
	time.Sleep(h.delay)
	if h.compareErr != nil {
		return h.compareErr
	}
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

func TestBoundedHasher_HashAndCompare(t *testing.T) {
	b := NewBoundedHasher(&slowHasher{}, 2, 4)

	hash, err := b.Hash(context.Background(), "secret1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if hash != "hashed:secret1" {
		t.Errorf("unexpected hash: %q", hash)
	}

	if err := b.Compare(context.Background(), hash, "secret1"); err != nil {
		t.Errorf("Compare error: %v", err)
	}
}

func TestBoundedHasher_LimitsConcurrency(t *testing.T) {
	inner := &slowHasher{delay: 20 * time.Millisecond}
	b := NewBoundedHasher(inner, 2, 16)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := b.Hash(context.Background(), "p"); err != nil {
				t.Errorf("Hash error: %v", err)
			}
		}()
	}
	wg.Wait()

	if max := atomic.LoadInt32(&inner.maxGauge); max > 2 {
		t.Errorf("expected at most 2 concurrent hashes, observed %d", max)
	}
}

func TestBoundedHasher_CancelledContext(t *testing.T) {
	// Fill both workers and the whole queue so the next submission blocks.
	inner := &slowHasher{delay: 200 * time.Millisecond}
	b := NewBoundedHasher(inner, 1, 1)

	done := make(chan struct{})
	go func() {
		_, _ = b.Hash(context.Background(), "occupies-worker")
		close(done)
	}()
	go func() {
		_, _ = b.Hash(context.Background(), "occupies-queue")
	}()
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := b.Hash(ctx, "p"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if err := b.Compare(ctx, "h", "p"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	<-done
}
