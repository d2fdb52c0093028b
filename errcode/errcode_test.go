package errcode

import (
	"errors"
	"fmt"
	"testing"
)

func TestOf(t *testing.T) {
	if got := Of(nil); got != OK {
		t.Fatalf("Of(nil) = %q, want ok", got)
	}
	if got := Of(DuplicateBinding); got != DuplicateBinding {
		t.Fatalf("Of(code) = %q", got)
	}
	e := Wrap(ScanFailed, "scan", "sense 3", errors.New("i2c nack"))
	if got := Of(e); got != ScanFailed {
		t.Fatalf("Of(E) = %q, want scan_failed", got)
	}
	wrapped := fmt.Errorf("tick: %w", e)
	if got := Of(wrapped); got != ScanFailed {
		t.Fatalf("Of(wrapped) = %q, want scan_failed", got)
	}
	if got := Of(errors.New("plain")); got != Error {
		t.Fatalf("Of(plain) = %q, want error", got)
	}
}

func TestEIsCode(t *testing.T) {
	e := Wrap(UnknownLayer, "keymap", "MO(7)", nil)
	if !errors.Is(e, UnknownLayer) {
		t.Fatal("errors.Is should match the wrapped code")
	}
	if errors.Is(e, InvalidMacro) {
		t.Fatal("errors.Is matched a different code")
	}
	if e.Error() != "keymap: unknown_layer: MO(7)" {
		t.Fatalf("Error() = %q", e.Error())
	}
}
