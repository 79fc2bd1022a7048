package wire

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"igtlink/ierr"
)

func sampleHeader() Header {
	return Header{
		Version:    Version2,
		TypeName:   "STATUS",
		DeviceName: "Tracker1",
		Timestamp:  NewTimestamp(time.Unix(1700000000, 500000000)),
		BodySize:   30,
		CRC:        0x1234567890abcdef,
	}
}

func TestEncodeDecodeHeaderRoundTrip(t *testing.T) {
	h := sampleHeader()
	buf, err := EncodeHeader(h)
	if err != nil {
		t.Fatal(err)
	}
	if len(buf) != HeaderSize {
		t.Fatalf("expect %d bytes, got %d", HeaderSize, len(buf))
	}

	got, err := DecodeHeader(buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != h {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, h)
	}
}

func TestEncodeHeaderRejectsUnsupportedVersion(t *testing.T) {
	h := sampleHeader()
	h.Version = 7
	if _, err := EncodeHeader(h); !errors.Is(err, ierr.ErrInvalidHeader) {
		t.Fatalf("expect ErrInvalidHeader, got %v", err)
	}
}

func TestDecodeHeaderRejectsWrongLength(t *testing.T) {
	if _, err := DecodeHeader(make([]byte, HeaderSize-1)); !errors.Is(err, ierr.ErrInvalidHeader) {
		t.Fatalf("expect ErrInvalidHeader, got %v", err)
	}
}

func TestReadHeaderCleanEOF(t *testing.T) {
	_, err := ReadHeader(bytes.NewReader(nil))
	if !errors.Is(err, ierr.ErrConnectionClosed) {
		t.Fatalf("expect ErrConnectionClosed, got %v", err)
	}
}

func TestReadHeaderTruncated(t *testing.T) {
	buf, _ := EncodeHeader(sampleHeader())
	_, err := ReadHeader(bytes.NewReader(buf[:HeaderSize-5]))
	if !errors.Is(err, ierr.ErrTruncated) {
		t.Fatalf("expect ErrTruncated, got %v", err)
	}
}

func TestReadHeaderAndBody(t *testing.T) {
	h := sampleHeader()
	hbuf, _ := EncodeHeader(h)
	body := bytes.Repeat([]byte{0xAB}, int(h.BodySize))

	r := bytes.NewReader(append(append([]byte(nil), hbuf...), body...))
	got, err := ReadHeader(r)
	if err != nil {
		t.Fatal(err)
	}
	if got != h {
		t.Fatalf("header mismatch after ReadHeader: %+v", got)
	}
	gotBody, err := ReadBody(r, h.BodySize)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(gotBody, body) {
		t.Fatal("body mismatch after ReadBody")
	}
}

func TestReadBodyTruncated(t *testing.T) {
	r := bytes.NewReader([]byte{1, 2, 3})
	if _, err := ReadBody(r, 10); !errors.Is(err, ierr.ErrTruncated) {
		t.Fatalf("expect ErrTruncated, got %v", err)
	}
}
