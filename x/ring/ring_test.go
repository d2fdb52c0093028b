package ring

import (
	"sync"
	"testing"
)

func TestFIFOOrder(t *testing.T) {
	r := New[int](4)
	for i := 0; i < 3; i++ {
		if r.Push(i) {
			t.Fatalf("unexpected drop at %d", i)
		}
	}
	got := r.Drain(nil)
	if len(got) != 3 || got[0] != 0 || got[1] != 1 || got[2] != 2 {
		t.Fatalf("drain = %v", got)
	}
	if r.Len() != 0 {
		t.Fatalf("len after drain = %d", r.Len())
	}
}

func TestOverflowDropsOldestKeepsOrder(t *testing.T) {
	r := New[int](4)
	drops := 0
	for i := 0; i < 10; i++ {
		if r.Push(i) {
			drops++
		}
	}
	if drops != 6 || r.Drops() != 6 {
		t.Fatalf("drops = %d / %d, want 6", drops, r.Drops())
	}
	got := r.Drain(nil)
	want := []int{6, 7, 8, 9}
	if len(got) != len(want) {
		t.Fatalf("drain = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("drain = %v, want %v", got, want)
		}
	}
}

func TestOrderAcrossWrap(t *testing.T) {
	r := New[int](5)
	next, want := 0, 0
	var buf []int
	for round := 0; round < 200; round++ {
		for k := 0; k < round%4+1; k++ {
			r.Push(next)
			next++
		}
		buf = r.Drain(buf[:0])
		for _, v := range buf {
			if v != want {
				t.Fatalf("round %d: got %d want %d", round, v, want)
			}
			want++
		}
	}
	if r.Drops() != 0 {
		t.Fatalf("unexpected drops: %d", r.Drops())
	}
}

func TestReadableEdge(t *testing.T) {
	r := New[int](8)
	select {
	case <-r.Readable():
		t.Fatal("unexpected Readable on empty ring")
	default:
	}
	r.Push(1)
	r.Push(2)
	select {
	case <-r.Readable():
	default:
		t.Fatal("expected Readable")
	}
	select {
	case <-r.Readable(): // coalesced; no second token
		t.Fatal("unexpected extra Readable")
	default:
	}
	r.Drain(nil)
	r.Push(3)
	select {
	case <-r.Readable():
	default:
		t.Fatal("expected Readable after refill")
	}
}

func TestConcurrentProducerConsumer(t *testing.T) {
	r := New[int](16)
	const total = 5000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			r.Push(i)
		}
	}()

	last := -1
	seen := 0
	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	var buf []int
	check := func() {
		buf = r.Drain(buf[:0])
		for _, v := range buf {
			if v <= last {
				t.Errorf("reordered: %d after %d", v, last)
			}
			last = v
			seen++
		}
	}
	for {
		select {
		case <-done:
			check()
			if uint32(seen)+r.Drops() != total {
				t.Fatalf("seen %d + dropped %d != %d", seen, r.Drops(), total)
			}
			return
		default:
			check()
		}
	}
}
