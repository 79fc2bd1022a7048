// EtcdDirectory backs Directory with etcd v3, used as a distributed
// phonebook with two namespaces under the same lease per endpoint:
//
//	Key:   /igtlink/devices/{DeviceName}/{Addr}
//	Value: JSON-encoded DeviceEndpoint
//
//	Key:   /igtlink/capabilities/{Capability}/{DeviceName}/{Addr}
//	Value: JSON-encoded DeviceEndpoint (duplicated, not a pointer)
//
// The capabilities namespace lets a caller ask "which endpoints can serve
// GET_TDATA" without already knowing a device_name — the CAPABILITY
// equivalent of looking up a phonebook by service rather than by name.
// Registration uses TTL-based leases: if the device process crashes, the
// lease expires and every key written under it, in both namespaces, is
// automatically removed.
package discovery

import (
	"context"
	"encoding/json"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// EtcdDirectory implements Directory using etcd v3.
type EtcdDirectory struct {
	client *clientv3.Client
}

// NewEtcdDirectory creates a new directory connected to the given etcd
// endpoints.
func NewEtcdDirectory(endpoints []string) (*EtcdDirectory, error) {
	c, err := clientv3.New(clientv3.Config{
		Endpoints: endpoints,
	})
	if err != nil {
		return nil, err
	}
	return &EtcdDirectory{client: c}, nil
}

func deviceKey(deviceName, addr string) string {
	return "/igtlink/devices/" + deviceName + "/" + addr
}

func capabilityKey(capability, deviceName, addr string) string {
	return "/igtlink/capabilities/" + capability + "/" + deviceName + "/" + addr
}

// Register adds a device endpoint to etcd with a TTL lease.
//
// Flow:
//  1. Create a lease with the given TTL (e.g., 10 seconds)
//  2. Put the device key, plus one capability key per advertised
//     CAPABILITY entry, all under the same lease
//  3. Start KeepAlive to automatically renew the lease
//
// leaseID is a local variable, not stored on the struct, so multiple
// devices can share one EtcdDirectory without a data race.
func (d *EtcdDirectory) Register(deviceName string, endpoint DeviceEndpoint, ttl int64) error {
	ctx := context.TODO()

	lease, err := d.client.Grant(ctx, ttl)
	if err != nil {
		return err
	}

	val, err := json.Marshal(endpoint)
	if err != nil {
		return err
	}

	_, err = d.client.Put(ctx, deviceKey(deviceName, endpoint.Addr), string(val), clientv3.WithLease(lease.ID))
	if err != nil {
		return err
	}
	for _, capability := range endpoint.Capabilities {
		_, err = d.client.Put(ctx, capabilityKey(capability, deviceName, endpoint.Addr), string(val), clientv3.WithLease(lease.ID))
		if err != nil {
			return err
		}
	}

	ch, err := d.client.KeepAlive(ctx, lease.ID)
	if err != nil {
		return err
	}

	go func() {
		for range ch {
		}
	}()
	return nil
}

// Deregister removes a device endpoint and its capability keys from etcd.
// It reads the endpoint back first to learn which capability keys it owns
// — the lease would also take care of this on expiry, but Deregister is the
// graceful path and must not leave capability entries behind for an
// endpoint that is gone.
func (d *EtcdDirectory) Deregister(deviceName string, addr string) error {
	ctx := context.TODO()
	key := deviceKey(deviceName, addr)

	resp, err := d.client.Get(ctx, key)
	if err != nil {
		return err
	}
	if _, err := d.client.Delete(ctx, key); err != nil {
		return err
	}
	if len(resp.Kvs) == 0 {
		return nil
	}

	var endpoint DeviceEndpoint
	if err := json.Unmarshal(resp.Kvs[0].Value, &endpoint); err != nil {
		return nil
	}
	for _, capability := range endpoint.Capabilities {
		if _, err := d.client.Delete(ctx, capabilityKey(capability, deviceName, addr)); err != nil {
			return err
		}
	}
	return nil
}

// Watch monitors a device-name prefix in etcd and emits the updated
// endpoint list on any change (registration, deregistration, lease
// expiration).
func (d *EtcdDirectory) Watch(deviceName string) <-chan []DeviceEndpoint {
	ctx := context.TODO()
	ch := make(chan []DeviceEndpoint, 1)
	prefix := "/igtlink/devices/" + deviceName + "/"

	go func() {
		watchChan := d.client.Watch(ctx, prefix, clientv3.WithPrefix())
		for range watchChan {
			endpoints, _ := d.Discover(deviceName)
			ch <- endpoints
		}
	}()

	return ch
}

// Discover returns all currently registered endpoints for a device name.
func (d *EtcdDirectory) Discover(deviceName string) ([]DeviceEndpoint, error) {
	ctx := context.TODO()
	prefix := "/igtlink/devices/" + deviceName + "/"

	resp, err := d.client.Get(ctx, prefix, clientv3.WithPrefix())
	if err != nil {
		return nil, err
	}

	endpoints := make([]DeviceEndpoint, 0)
	for _, kv := range resp.Kvs {
		var endpoint DeviceEndpoint
		if err := json.Unmarshal(kv.Value, &endpoint); err != nil {
			continue
		}
		endpoints = append(endpoints, endpoint)
	}

	return endpoints, nil
}

// DiscoverCapable returns every registered endpoint, across all device
// names, advertising capability — a prefix scan of the capabilities
// namespace instead of the per-device one Discover scans.
func (d *EtcdDirectory) DiscoverCapable(capability string) ([]DeviceEndpoint, error) {
	ctx := context.TODO()
	prefix := "/igtlink/capabilities/" + capability + "/"

	resp, err := d.client.Get(ctx, prefix, clientv3.WithPrefix())
	if err != nil {
		return nil, err
	}

	endpoints := make([]DeviceEndpoint, 0)
	for _, kv := range resp.Kvs {
		var endpoint DeviceEndpoint
		if err := json.Unmarshal(kv.Value, &endpoint); err != nil {
			continue
		}
		endpoints = append(endpoints, endpoint)
	}

	return endpoints, nil
}
