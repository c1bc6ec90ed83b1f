package lock

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestTableSerializesSameKey(t *testing.T) {
	tbl := New(16)
	ctx := context.Background()

	var active int32
	var sawOverlap bool
	done := make(chan struct{})

	run := func() {
		release, err := tbl.Acquire(ctx, "aggregate-1")
		if err != nil {
			t.Errorf("Acquire: %v", err)
			done <- struct{}{}
			return
		}
		if atomic.AddInt32(&active, 1) > 1 {
			sawOverlap = true
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		release()
		done <- struct{}{}
	}

	go run()
	go run()
	<-done
	<-done

	if sawOverlap {
		t.Fatal("two holders of the same key were active concurrently")
	}
}

func TestTableAllowsDifferentKeysConcurrently(t *testing.T) {
	tbl := New(16)
	ctx := context.Background()

	release1, err := tbl.Acquire(ctx, "a")
	if err != nil {
		t.Fatalf("Acquire a: %v", err)
	}
	defer release1()

	done := make(chan struct{})
	go func() {
		release2, err := tbl.Acquire(ctx, "b")
		if err != nil {
			t.Errorf("Acquire b: %v", err)
		} else {
			release2()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("acquiring a different key blocked on an unrelated lock")
	}
}

func TestAcquireRespectsContextCancellation(t *testing.T) {
	tbl := New(16)
	ctx := context.Background()

	release, err := tbl.Acquire(ctx, "busy")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	cctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = tbl.Acquire(cctx, "busy")
	if err == nil {
		t.Fatal("expected context deadline error while lock is held")
	}
	release()
}

func TestLenReflectsEviction(t *testing.T) {
	tbl := New(16)
	ctx := context.Background()
	release, err := tbl.Acquire(ctx, "x")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if tbl.Len() != 1 {
		t.Fatalf("expected 1 resident lock, got %d", tbl.Len())
	}
	release()
	if tbl.Len() != 0 {
		t.Fatalf("expected 0 resident locks after release, got %d", tbl.Len())
	}
}
