package gate

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestGate_TryAcquire(t *testing.T) {
	var g Gate

	if !g.TryAcquire() {
		t.Fatal("first TryAcquire should succeed")
	}
	if g.TryAcquire() {
		t.Fatal("second TryAcquire should fail while held")
	}
	if !g.Held() {
		t.Error("Held: got false, want true")
	}

	g.Release()
	if g.Held() {
		t.Error("Held after Release: got true")
	}
	if !g.TryAcquire() {
		t.Error("TryAcquire after Release should succeed")
	}
}

func TestGate_ReleaseOpenPanics(t *testing.T) {
	var g Gate
	defer func() {
		if recover() == nil {
			t.Error("Release of an open gate should panic")
		}
	}()
	g.Release()
}

func TestGate_DoSkipsWhenHeld(t *testing.T) {
	var g Gate
	g.TryAcquire()

	ran := g.Do(func() { t.Error("fn ran while gate was held") })
	if ran {
		t.Error("Do: got true, want false")
	}
}

func TestGate_DoReleasesOnPanic(t *testing.T) {
	var g Gate

	func() {
		defer func() { _ = recover() }()
		g.Do(func() { panic("boom") })
	}()

	if g.Held() {
		t.Fatal("gate still held after fn panicked")
	}
}

func TestGate_SingleWinner(t *testing.T) {
	var g Gate
	var wins atomic.Int32
	var wg sync.WaitGroup

	start := make(chan struct{})
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if g.TryAcquire() {
				wins.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if wins.Load() != 1 {
		t.Errorf("winners: got %d, want 1", wins.Load())
	}
}
