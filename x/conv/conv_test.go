package conv

import "testing"

func TestAppendHex(t *testing.T) {
	got := string(AppendHex([]byte("R "), []byte{0x02, 0x00, 0x04, 0xFF}, ' '))
	if got != "R 02 00 04 FF" {
		t.Fatalf("got %q", got)
	}
	if got := string(AppendHex(nil, []byte{0xAB, 0x01}, 0)); got != "AB01" {
		t.Fatalf("got %q", got)
	}
}

func TestAppendUint(t *testing.T) {
	for _, c := range []struct {
		n    uint64
		want string
	}{{0, "0"}, {7, "7"}, {14, "14"}, {18446744073709551615, "18446744073709551615"}} {
		if got := string(AppendUint(nil, c.n)); got != c.want {
			t.Fatalf("AppendUint(%d) = %q", c.n, got)
		}
	}
}
