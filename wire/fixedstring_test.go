package wire

import "testing"

func TestPutFixedStringPadsWithZeros(t *testing.T) {
	dst := make([]byte, 12)
	if err := PutFixedString(dst, "STATUS"); err != nil {
		t.Fatal(err)
	}
	for i := 6; i < 12; i++ {
		if dst[i] != 0 {
			t.Fatalf("expect zero padding at byte %d, got %d", i, dst[i])
		}
	}
}

func TestPutFixedStringExactFit(t *testing.T) {
	dst := make([]byte, 6)
	if err := PutFixedString(dst, "STATUS"); err != nil {
		t.Fatal(err)
	}
	if string(dst) != "STATUS" {
		t.Fatalf("expect %q, got %q", "STATUS", dst)
	}
}

func TestPutFixedStringTooLong(t *testing.T) {
	dst := make([]byte, 4)
	if err := PutFixedString(dst, "TOOLONG"); err == nil {
		t.Fatal("expect error when string exceeds field width")
	}
}

func TestPutFixedStringInvalidUTF8(t *testing.T) {
	dst := make([]byte, 8)
	if err := PutFixedString(dst, string([]byte{0xff, 0xfe})); err == nil {
		t.Fatal("expect error for invalid UTF-8")
	}
}

func TestFixedStringStopsAtFirstZero(t *testing.T) {
	src := []byte{'A', 'B', 0, 'C', 'D'}
	got, err := FixedString(src)
	if err != nil {
		t.Fatal(err)
	}
	if got != "AB" {
		t.Fatalf("expect %q, got %q", "AB", got)
	}
}

func TestFixedStringRoundTrip(t *testing.T) {
	dst := make([]byte, 20)
	if err := PutFixedString(dst, "Tracker1"); err != nil {
		t.Fatal(err)
	}
	got, err := FixedString(dst)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Tracker1" {
		t.Fatalf("expect %q, got %q", "Tracker1", got)
	}
}
