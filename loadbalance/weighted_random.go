package loadbalance

import (
	"fmt"
	"math/rand"

	"igtlink/discovery"
)

// WeightedRandomBalancer selects endpoints probabilistically based on their
// weight. An endpoint with weight 10 gets roughly 2x the traffic of one
// with weight 5.
//
// Best for: heterogeneous endpoints (e.g., some trackers have more
// bandwidth) that also differ in which message types they implement — the
// capability filter runs before weighting, so a high-weight endpoint that
// can't serve the requested type never steals traffic from a lower-weight
// one that can.
//
// Algorithm:
//  1. Filter to endpoints capable of requiredCapability
//  2. Sum their weights → totalWeight
//  3. Generate random number r in [0, totalWeight)
//  4. Subtract each endpoint's weight from r until r < 0
//  5. The endpoint that makes r negative is selected
type WeightedRandomBalancer struct{}

func (b *WeightedRandomBalancer) Pick(endpoints []discovery.DeviceEndpoint, requiredCapability string) (*discovery.DeviceEndpoint, error) {
	candidates := filterCapable(endpoints, requiredCapability)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no endpoints available capable of %q", requiredCapability)
	}

	totalWeight := 0
	for _, v := range candidates {
		totalWeight += v.Weight
	}
	if totalWeight <= 0 {
		return nil, fmt.Errorf("no endpoints capable of %q have positive weight", requiredCapability)
	}

	r := rand.Intn(totalWeight)
	for _, v := range candidates {
		r -= v.Weight
		if r < 0 {
			return &v, nil
		}
	}

	return nil, fmt.Errorf("unexpected error in weighted random selection")
}

func (b *WeightedRandomBalancer) Name() string {
	return "WeightedRandom"
}
