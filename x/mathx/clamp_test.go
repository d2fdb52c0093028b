package mathx

import (
	"testing"
	"time"
)

func TestClamp(t *testing.T) {
	if got := Clamp(10, 0, 6); got != 6 {
		t.Fatalf("Clamp high = %d", got)
	}
	if got := Clamp(-1, 0, 6); got != 0 {
		t.Fatalf("Clamp low = %d", got)
	}
	if got := Clamp(3, 6, 0); got != 3 {
		t.Fatalf("Clamp swapped = %d", got)
	}
}

func TestOrDefault(t *testing.T) {
	if got := OrDefault(0, 64); got != 64 {
		t.Fatalf("OrDefault(0) = %d", got)
	}
	if got := OrDefault(-3, 64); got != 64 {
		t.Fatalf("OrDefault(-3) = %d", got)
	}
	if got := OrDefault(8, 64); got != 8 {
		t.Fatalf("OrDefault(8) = %d", got)
	}
	if got := OrDefault(time.Duration(0), 2*time.Millisecond); got != 2*time.Millisecond {
		t.Fatalf("OrDefault(duration) = %v", got)
	}
}
