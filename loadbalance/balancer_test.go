package loadbalance

import (
	"fmt"
	"testing"

	"igtlink/discovery"
)

var testEndpoints = []discovery.DeviceEndpoint{
	{Addr: ":8001", Weight: 10, DeviceName: "Tracker", Capabilities: []string{"GET_TDATA", "TDATA"}},
	{Addr: ":8002", Weight: 5, DeviceName: "Tracker", Capabilities: []string{"GET_TDATA", "TDATA"}},
	{Addr: ":8003", Weight: 10, DeviceName: "Tracker", Capabilities: []string{"GET_STATUS", "STATUS"}},
}

func TestRoundRobin(t *testing.T) {
	b := &RoundRobinBalancer{}

	// Pick 3 times with no capability filter, should cycle through all
	// endpoints including the STATUS-only one.
	results := make([]string, 3)
	for i := 0; i < 3; i++ {
		ep, err := b.Pick(testEndpoints, "")
		if err != nil {
			t.Fatal(err)
		}
		results[i] = ep.Addr
	}

	// Pick again, should wrap around to first
	ep, _ := b.Pick(testEndpoints, "")
	if ep.Addr != results[0] {
		t.Fatalf("expect wrap around to %s, got %s", results[0], ep.Addr)
	}
}

func TestRoundRobinEmpty(t *testing.T) {
	b := &RoundRobinBalancer{}
	_, err := b.Pick([]discovery.DeviceEndpoint{}, "")
	if err == nil {
		t.Fatal("expect error for empty endpoints")
	}
}

func TestRoundRobinFiltersByCapability(t *testing.T) {
	b := &RoundRobinBalancer{}
	for i := 0; i < 10; i++ {
		ep, err := b.Pick(testEndpoints, "GET_TDATA")
		if err != nil {
			t.Fatal(err)
		}
		if ep.Addr == ":8003" {
			t.Fatalf("expect the GET_STATUS-only endpoint to never be picked for GET_TDATA, got %s", ep.Addr)
		}
	}
}

func TestRoundRobinErrorsWhenNoEndpointIsCapable(t *testing.T) {
	b := &RoundRobinBalancer{}
	if _, err := b.Pick(testEndpoints, "GET_IMAGE"); err == nil {
		t.Fatal("expect an error when no endpoint advertises the required capability")
	}
}

func TestWeightedRandom(t *testing.T) {
	b := &WeightedRandomBalancer{}

	counts := map[string]int{}
	n := 10000
	for i := 0; i < n; i++ {
		ep, err := b.Pick(testEndpoints, "GET_TDATA")
		if err != nil {
			t.Fatal(err)
		}
		counts[ep.Addr]++
	}

	if counts[":8003"] != 0 {
		t.Fatalf("expect the GET_STATUS-only endpoint to never be picked for GET_TDATA, got %d hits", counts[":8003"])
	}

	// Weight ratio among the two GET_TDATA-capable endpoints is 10:5, so
	// :8001 should be ~2x of :8002.
	ratio := float64(counts[":8001"]) / float64(counts[":8002"])
	if ratio < 1.5 || ratio > 2.5 {
		t.Fatalf("weight ratio :8001/:8002 = %.2f, expect ~2.0", ratio)
	}
}

func TestConsistentHash(t *testing.T) {
	b := NewConsistentHashBalancer()
	for i := range testEndpoints {
		b.Add(&testEndpoints[i])
	}

	// Same key should always map to the same endpoint
	ep1, _ := b.Pick("client-123", "")
	ep2, _ := b.Pick("client-123", "")
	if ep1.Addr != ep2.Addr {
		t.Fatalf("same key mapped to different endpoints: %s vs %s", ep1.Addr, ep2.Addr)
	}

	// Different keys should (likely) map to different endpoints
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		ep, _ := b.Pick(fmt.Sprintf("key-%d", i), "")
		seen[ep.Addr] = true
	}

	// With 100 different keys and 3 nodes, we should hit at least 2
	if len(seen) < 2 {
		t.Fatalf("expect at least 2 different endpoints, got %d", len(seen))
	}
}

func TestConsistentHashSkipsIncapableEndpoints(t *testing.T) {
	b := NewConsistentHashBalancer()
	for i := range testEndpoints {
		b.Add(&testEndpoints[i])
	}

	for i := 0; i < 100; i++ {
		ep, err := b.Pick(fmt.Sprintf("key-%d", i), "GET_TDATA")
		if err != nil {
			t.Fatal(err)
		}
		if ep.Addr == ":8003" {
			t.Fatalf("expect the GET_STATUS-only endpoint to never be picked for GET_TDATA, got %s", ep.Addr)
		}
	}
}

func TestConsistentHashErrorsWhenNoEndpointIsCapable(t *testing.T) {
	b := NewConsistentHashBalancer()
	for i := range testEndpoints {
		b.Add(&testEndpoints[i])
	}
	if _, err := b.Pick("client-123", "GET_IMAGE"); err == nil {
		t.Fatal("expect an error when no endpoint on the ring advertises the required capability")
	}
}
