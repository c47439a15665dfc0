// Package discovery is an optional Redis-backed service registry: each
// Host (C2) can self-register {name, base_url, skills} with a TTL key and
// heartbeat it, giving the static 5000-5009 endpoint table (spec.md §6) a
// dynamic fallback/override for deployments that move services around.
// Generalized from the teacher's core.RedisRegistry/core.RedisDiscovery,
// trimmed to the single-namespace, name-only lookup examforge's fixed
// role set needs (no capability/metadata filtering). Register and Lookup
// retry transient Redis errors and trip a circuit breaker on a sustained
// outage, the way core.RedisRegistry guards its own calls — unlike the
// pipeline/transport layer, which spec.md §7 deliberately leaves
// unretried, a Redis hiccup here has no user-visible pipeline state to
// corrupt by retrying.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/examforge/examforge/internal/resilience"
)

// ServiceInfo is what gets registered and discovered, mirroring the
// teacher's ServiceInfo shape trimmed to what examforge's Host needs.
type ServiceInfo struct {
	Name    string   `json:"name"`
	BaseURL string   `json:"base_url"`
	Skills  []string `json:"skills"`
}

// Registry registers and looks up ServiceInfo entries in Redis, each
// under a TTL so a crashed service's entry expires rather than stale.
type Registry struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
	breaker   *resilience.CircuitBreaker
	retry     *resilience.RetryConfig
}

// New connects to redisURL (standard redis://host:port/db form) under the
// "examforge" namespace.
func New(ctx context.Context, redisURL string) (*Registry, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("discovery: invalid redis url: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("discovery: connecting to redis: %w", err)
	}

	return &Registry{
		client:    client,
		namespace: "examforge",
		ttl:       30 * time.Second,
		breaker:   resilience.NewCircuitBreaker("redis-discovery", resilience.DefaultCircuitBreakerConfig()),
		retry:     resilience.DefaultRetryConfig(),
	}, nil
}

func (r *Registry) key(name string) string {
	return fmt.Sprintf("%s:services:%s", r.namespace, name)
}

// Register writes info under a TTL key, retrying transient Redis errors
// and backing off once the circuit breaker trips. Callers that want
// continuous presence should also call Heartbeat on a loop.
func (r *Registry) Register(ctx context.Context, info ServiceInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("discovery: marshaling service info: %w", err)
	}
	return resilience.RetryWithCircuitBreaker(ctx, r.retry, r.breaker, func() error {
		return r.client.Set(ctx, r.key(info.Name), data, r.ttl).Err()
	})
}

// Heartbeat runs until ctx is canceled, re-registering info every interval
// so the TTL key never expires while the service is alive.
func (r *Registry) Heartbeat(ctx context.Context, info ServiceInfo, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = r.Register(ctx, info)
		}
	}
}

// Lookup fetches a registered service by name, or ok=false if it has no
// live (unexpired) entry. A missing key is not treated as a failure for
// retry/circuit-breaker purposes — only actual Redis errors are.
func (r *Registry) Lookup(ctx context.Context, name string) (info ServiceInfo, ok bool, err error) {
	var data string
	var notFound bool
	callErr := resilience.RetryWithCircuitBreaker(ctx, r.retry, r.breaker, func() error {
		var getErr error
		data, getErr = r.client.Get(ctx, r.key(name)).Result()
		if getErr == redis.Nil {
			notFound = true
			return nil
		}
		notFound = false
		return getErr
	})
	if callErr != nil {
		return ServiceInfo{}, false, fmt.Errorf("discovery: looking up %s: %w", name, callErr)
	}
	if notFound {
		return ServiceInfo{}, false, nil
	}
	if err := json.Unmarshal([]byte(data), &info); err != nil {
		return ServiceInfo{}, false, fmt.Errorf("discovery: decoding %s: %w", name, err)
	}
	return info, true, nil
}

// Close releases the underlying Redis client.
func (r *Registry) Close() error {
	return r.client.Close()
}
