package test

import (
	"context"
	"testing"
	"time"

	"igtlink/client"
	"igtlink/codec"
	"igtlink/discovery"
	"igtlink/loadbalance"
	"igtlink/message"
	"igtlink/middleware"
	"igtlink/session"
)

// newTrackerManager starts a session manager that answers GET_STATUS with
// an "running" Status and GET_TDATA with a single TrackingData frame, the
// minimal surface the integration tests exercise end to end.
func newTrackerManager(t *testing.T, deviceName string) (*session.Manager, string) {
	t.Helper()
	mgr := session.NewManager(codec.DecodeOptions{VerifyCRC: true})
	mgr.Use(middleware.LoggingMiddleware())
	mgr.AddHandler(func(ctx context.Context, clientID string, msg *codec.Message) error {
		switch msg.Header.TypeName {
		case message.GetStatusTypeName:
			return mgr.SendTo(clientID, message.Ok("running"), deviceName)
		case message.GetTDataTypeName:
			frame := message.TData{
				Elements: []message.TrackingElement{
					{Name: "Tool1", InstrumentType: 1, Matrix: [4][4]float32{
						{1, 0, 0, 0},
						{0, 1, 0, 0},
						{0, 0, 1, 0},
						{0, 0, 0, 1},
					}},
				},
			}
			return mgr.SendTo(clientID, frame, deviceName)
		}
		return nil
	})
	go mgr.AcceptClients("tcp", "127.0.0.1:0")
	for i := 0; i < 100 && mgr.Addr() == nil; i++ {
		time.Sleep(time.Millisecond)
	}
	if mgr.Addr() == nil {
		t.Fatal("listener never became ready")
	}
	return mgr, mgr.Addr().String()
}

// TestFullIntegrationWithEtcd runs the whole stack end to end: Client →
// Directory(etcd) → Balancer → ConnPool → codec → session.Manager →
// middleware → handler. Requires a live etcd at 127.0.0.1:2379, mirroring
// a conventional etcd-backed integration test.
func TestFullIntegrationWithEtcd(t *testing.T) {
	dir, err := discovery.NewEtcdDirectory([]string{"127.0.0.1:2379"})
	if err != nil {
		t.Fatalf("failed to connect etcd: %v", err)
	}

	mgr, addr := newTrackerManager(t, "EtcdTracker")
	defer mgr.Shutdown(3 * time.Second)

	if err := dir.Register("EtcdTracker", discovery.DeviceEndpoint{Addr: addr, DeviceName: "EtcdTracker", Weight: 10}, 10); err != nil {
		t.Fatalf("failed to register: %v", err)
	}
	defer dir.Deregister("EtcdTracker", addr)

	cli := client.New(dir, &loadbalance.RoundRobinBalancer{}, 4, codec.DecodeOptions{VerifyCRC: true})
	defer cli.Close()

	reply, err := cli.Query("EtcdTracker", message.GetStatusTypeName, message.StatusTypeName, message.DecodeStatus)
	if err != nil {
		t.Fatalf("query status failed: %v", err)
	}
	status := reply.Content.(message.Status)
	if status.StatusString != "running" {
		t.Fatalf("expect status %q, got %q", "running", status.StatusString)
	}

	reply2, err := cli.Query("EtcdTracker", message.GetTDataTypeName, message.TDataTypeName, message.DecodeTData)
	if err != nil {
		t.Fatalf("query tdata failed: %v", err)
	}
	tdata := reply2.Content.(message.TData)
	if len(tdata.Elements) != 1 || tdata.Elements[0].Name != "Tool1" {
		t.Fatalf("unexpected tdata reply: %+v", tdata)
	}

	t.Log("Full integration test with etcd passed!")
}

// TestMultiDeviceWithEtcd registers two redundant endpoints under one
// device name, sends ten queries through a round-robin client, and checks
// that they all succeed and leave at least one live connection across the
// two endpoints.
func TestMultiDeviceWithEtcd(t *testing.T) {
	dir, err := discovery.NewEtcdDirectory([]string{"127.0.0.1:2379"})
	if err != nil {
		t.Fatalf("failed to connect etcd: %v", err)
	}

	mgr1, addr1 := newTrackerManager(t, "RedundantTracker")
	defer mgr1.Shutdown(3 * time.Second)
	mgr2, addr2 := newTrackerManager(t, "RedundantTracker")
	defer mgr2.Shutdown(3 * time.Second)

	dir.Register("RedundantTracker", discovery.DeviceEndpoint{Addr: addr1, DeviceName: "RedundantTracker", Weight: 10}, 10)
	dir.Register("RedundantTracker", discovery.DeviceEndpoint{Addr: addr2, DeviceName: "RedundantTracker", Weight: 10}, 10)
	defer dir.Deregister("RedundantTracker", addr1)
	defer dir.Deregister("RedundantTracker", addr2)

	cli := client.New(dir, &loadbalance.RoundRobinBalancer{}, 4, codec.DecodeOptions{VerifyCRC: true})
	defer cli.Close()

	for i := 0; i < 10; i++ {
		if _, err := cli.Query("RedundantTracker", message.GetStatusTypeName, message.StatusTypeName, message.DecodeStatus); err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
	}

	if mgr1.ClientCount()+mgr2.ClientCount() == 0 {
		t.Fatal("expect at least one live connection across both endpoints")
	}

	t.Log("Multi-device load balancing test with etcd passed!")
}
