package game

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/coder/quartz"
)

func TestRegistryResolveOrCreate(t *testing.T) {
	t.Parallel()
	r := NewRegistry(nil)

	ch := r.Acquire("chan")
	if ch.Game() != nil {
		t.Fatal("fresh channel should hold no game")
	}
	g := r.ResolveOrCreate(ch)
	if g.Status != Waiting || g.Channel != "chan" {
		t.Errorf("new game malformed: %+v", g)
	}
	if again := r.ResolveOrCreate(ch); again != g {
		t.Error("resolve created a second game for the same channel")
	}
	ch.Release()

	if r.Len() != 1 {
		t.Errorf("expected 1 live game, got %d", r.Len())
	}
}

func TestRegistryRemove(t *testing.T) {
	t.Parallel()
	r := NewRegistry(nil)

	ch := r.Acquire("chan")
	r.ResolveOrCreate(ch)
	ch.Remove()
	if ch.Game() != nil {
		t.Error("game survived removal")
	}
	ch.Release()

	if r.Len() != 0 {
		t.Errorf("expected 0 live games, got %d", r.Len())
	}
}

func TestRegistryConcurrentChannels(t *testing.T) {
	t.Parallel()
	r := NewRegistry(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("chan-%d", i%10)
			ch := r.Acquire(name)
			defer ch.Release()
			g := r.ResolveOrCreate(ch)
			if g.Channel != name {
				t.Errorf("game bound to wrong channel: %s != %s", g.Channel, name)
			}
		}(i)
	}
	wg.Wait()

	if r.Len() != 10 {
		t.Errorf("expected 10 live games, got %d", r.Len())
	}
}

func TestReapIdleRemovesAbandonedWaitingGames(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	r := NewRegistry(clock)

	ch := r.Acquire("stale")
	r.ResolveOrCreate(ch)
	ch.Release()

	clock.Advance(20 * time.Minute)

	ch = r.Acquire("fresh")
	r.ResolveOrCreate(ch)
	ch.Release()

	clock.Advance(15 * time.Minute)

	reaped := r.ReapIdle(30 * time.Minute)
	if len(reaped) != 1 || reaped[0] != "stale" {
		t.Fatalf("expected [stale] reaped, got %v", reaped)
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 live game after reap, got %d", r.Len())
	}
}

func TestReapIdleSkipsActiveGames(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	r := NewRegistry(clock)

	ch := r.Acquire("chan")
	g := r.ResolveOrCreate(ch)
	g.Status = Active
	ch.Release()

	clock.Advance(24 * time.Hour)

	if reaped := r.ReapIdle(30 * time.Minute); len(reaped) != 0 {
		t.Errorf("active game reaped: %v", reaped)
	}
	if r.Len() != 1 {
		t.Errorf("expected active game to survive, got %d live games", r.Len())
	}
}

func TestTouchDefersReaping(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	r := NewRegistry(clock)

	ch := r.Acquire("chan")
	g := r.ResolveOrCreate(ch)
	ch.Release()

	clock.Advance(25 * time.Minute)
	r.Touch(g)
	clock.Advance(25 * time.Minute)

	if reaped := r.ReapIdle(30 * time.Minute); len(reaped) != 0 {
		t.Errorf("recently touched game reaped: %v", reaped)
	}
}

func TestAcquireAfterReapStartsClean(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	r := NewRegistry(clock)

	ch := r.Acquire("chan")
	r.ResolveOrCreate(ch)
	ch.Release()

	clock.Advance(time.Hour)
	r.ReapIdle(30 * time.Minute)

	ch = r.Acquire("chan")
	defer ch.Release()
	if ch.Game() != nil {
		t.Error("reaped channel still holds a game")
	}
}
