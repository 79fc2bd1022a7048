package wire

import (
	"bytes"
	"testing"
)

func TestExtendedHeaderRegionRoundTrip(t *testing.T) {
	region := ExtendedHeaderRegion{
		Data: []byte{1, 2, 3, 4},
		Metadata: Metadata{
			{Key: "Patient", Encoding: 106, Value: []byte("Jane Doe")},
			{Key: "Protocol", Encoding: 106, Value: []byte("T1")},
		},
	}

	encoded, err := region.Encode()
	if err != nil {
		t.Fatal(err)
	}

	got, rest, err := DecodeExtendedHeaderRegion(append(encoded, []byte("content-follows")...))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.Data, region.Data) {
		t.Fatalf("data mismatch: got %v, want %v", got.Data, region.Data)
	}
	if len(got.Metadata) != len(region.Metadata) {
		t.Fatalf("expect %d metadata entries, got %d", len(region.Metadata), len(got.Metadata))
	}
	for i, e := range region.Metadata {
		if got.Metadata[i].Key != e.Key || !bytes.Equal(got.Metadata[i].Value, e.Value) || got.Metadata[i].Encoding != e.Encoding {
			t.Fatalf("entry %d mismatch: got %+v, want %+v", i, got.Metadata[i], e)
		}
	}
	if string(rest) != "content-follows" {
		t.Fatalf("expect remaining bytes %q, got %q", "content-follows", rest)
	}
}

func TestExtendedHeaderRegionEmpty(t *testing.T) {
	region := ExtendedHeaderRegion{}
	encoded, err := region.Encode()
	if err != nil {
		t.Fatal(err)
	}
	got, rest, err := DecodeExtendedHeaderRegion(append(encoded, []byte("body")...))
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Data) != 0 || len(got.Metadata) != 0 {
		t.Fatalf("expect empty region, got %+v", got)
	}
	if string(rest) != "body" {
		t.Fatalf("expect remaining bytes %q, got %q", "body", rest)
	}
}

func TestMetadataGetReturnsFirstOccurrence(t *testing.T) {
	m := Metadata{
		{Key: "K", Value: []byte("first")},
		{Key: "K", Value: []byte("second")},
	}
	val, _, ok := m.Get("K")
	if !ok || string(val) != "first" {
		t.Fatalf("expect first occurrence %q, got %q (ok=%v)", "first", val, ok)
	}
}

func TestMetadataGetMissing(t *testing.T) {
	m := Metadata{{Key: "K", Value: []byte("v")}}
	if _, _, ok := m.Get("missing"); ok {
		t.Fatal("expect ok=false for a missing key")
	}
}

func TestDecodeExtendedHeaderRegionTruncated(t *testing.T) {
	if _, _, err := DecodeExtendedHeaderRegion([]byte{0}); err == nil {
		t.Fatal("expect error decoding a 1-byte region")
	}
}
