package transport

import (
	"errors"
	"net"
	"testing"

	"igtlink/codec"
	"igtlink/ierr"
	"igtlink/message"
	"igtlink/wire"
)

func TestUDPConnSendToReceiveAnyRoundTrip(t *testing.T) {
	server, err := ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	if err != nil {
		t.Fatal(err)
	}
	defer server.Close()

	client, err := ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	serverAddr := server.conn.LocalAddr().(*net.UDPAddr)
	if err := client.SendTo(serverAddr, message.Ok("running"), "Tracker1"); err != nil {
		t.Fatal(err)
	}

	got, _, err := server.ReceiveAny(codec.DecodeOptions{VerifyCRC: true})
	if err != nil {
		t.Fatal(err)
	}
	status, ok := got.Content.(message.Status)
	if !ok || status.StatusString != "running" {
		t.Fatalf("expect Status{running}, got %+v", got.Content)
	}
}

func TestUDPConnDialSend(t *testing.T) {
	serverConn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	if err != nil {
		t.Fatal(err)
	}
	server := NewUDPConn(serverConn)
	defer server.Close()

	client, err := DialUDP("udp", nil, serverConn.LocalAddr().(*net.UDPAddr))
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	if err := client.Send(message.Ok("running"), "Tracker1"); err != nil {
		t.Fatal(err)
	}
	got, _, err := server.ReceiveAny(codec.DecodeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if got.Content.TypeName() != message.StatusTypeName {
		t.Fatalf("expect STATUS, got %q", got.Content.TypeName())
	}
}

func TestUDPConnReceiveRejectsTruncatedDatagram(t *testing.T) {
	server, err := ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	if err != nil {
		t.Fatal(err)
	}
	defer server.Close()

	raw, err := net.DialUDP("udp", nil, server.conn.LocalAddr().(*net.UDPAddr))
	if err != nil {
		t.Fatal(err)
	}
	defer raw.Close()

	m := codec.New(message.Ok("running"), "Tracker1")
	data, err := m.Encode()
	if err != nil {
		t.Fatal(err)
	}
	// Truncate the datagram to less than its declared body_size.
	if _, err := raw.Write(data[:wire.HeaderSize+2]); err != nil {
		t.Fatal(err)
	}

	_, _, err = server.ReceiveAny(codec.DecodeOptions{})
	if !errors.Is(err, ierr.ErrTruncated) {
		t.Fatalf("expect ErrTruncated, got %v", err)
	}
}
