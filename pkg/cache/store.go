package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"naviroute/gateway/pkg/navi"
)

// Topology is the shape of the Redis deployment behind a Store.
type Topology string

const (
	// TopologySingle is one Redis node.
	TopologySingle Topology = "single"

	// TopologyCluster is a Redis Cluster reached through several seed nodes.
	TopologyCluster Topology = "cluster"
)

// Config holds cache connection settings.
type Config struct {
	// Mode is "single" or "cluster". It is advisory; the host count
	// selects the topology.
	Mode string

	// Hosts is a comma-separated list of host:port addresses.
	Hosts string

	// Password for AUTH, empty for none.
	Password string

	// DialTimeout, ReadTimeout and WriteTimeout bound each connection.
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// PoolSize is the maximum number of connections per node.
	PoolSize int

	// TTL expires written records; zero keeps them forever.
	TTL time.Duration
}

// Observer receives cache outcomes: "hit", "miss" or "error" for reads,
// "ok" or "error" for writes.
type Observer interface {
	ObserveCache(op, outcome string)
}

// Store is a key/value cache for computed routes. Commands are serialized.
type Store struct {
	mu       sync.Mutex
	client   redis.UniversalClient
	topology Topology
	ttl      time.Duration
	observer Observer
	logger   *slog.Logger
}

// ParseHosts splits a comma-separated host list, dropping blanks.
func ParseHosts(hosts string) []string {
	var out []string
	for _, h := range strings.Split(hosts, ",") {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}
	return out
}

// SelectTopology picks the client topology from the number of hosts.
func SelectTopology(hosts []string) (Topology, error) {
	switch len(hosts) {
	case 0:
		return "", errors.New("no redis hosts configured")
	case 1:
		return TopologySingle, nil
	default:
		return TopologyCluster, nil
	}
}

// New connects to Redis and verifies the connection with PING. Any failure
// is returned as *navi.CacheError.
func New(ctx context.Context, cfg Config, observer Observer) (*Store, error) {
	s, err := newStore(cfg, observer)
	if err != nil {
		return nil, err
	}

	pingCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}

	if err := s.client.Ping(pingCtx).Err(); err != nil {
		_ = s.client.Close()
		return nil, &navi.CacheError{Op: "connect", Err: err}
	}

	s.logger.Info("cache connected",
		"topology", s.topology,
		"hosts", cfg.Hosts,
	)
	return s, nil
}

// newStore builds the client without touching the network.
func newStore(cfg Config, observer Observer) (*Store, error) {
	hosts := ParseHosts(cfg.Hosts)
	topology, err := SelectTopology(hosts)
	if err != nil {
		return nil, &navi.CacheError{Op: "connect", Err: err}
	}
	logger := slog.Default().With("component", "cache")
	if cfg.Mode != "" && !strings.EqualFold(cfg.Mode, string(topology)) {
		logger.Warn("redis mode does not match host count",
			"mode", cfg.Mode,
			"hosts", len(hosts),
			"topology", topology,
		)
	}

	var client redis.UniversalClient
	switch topology {
	case TopologyCluster:
		client = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        hosts,
			Password:     cfg.Password,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			PoolSize:     cfg.PoolSize,
		})
	default:
		client = redis.NewClient(&redis.Options{
			Addr:         hosts[0],
			Password:     cfg.Password,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			PoolSize:     cfg.PoolSize,
		})
	}

	return &Store{
		client:   client,
		topology: topology,
		ttl:      cfg.TTL,
		observer: observer,
		logger:   logger,
	}, nil
}

// Topology reports which client the store uses.
func (s *Store) Topology() Topology {
	return s.topology
}

// Get returns the value stored under key. A miss and a failed read both
// report false; failures are logged.
func (s *Store) Get(ctx context.Context, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, err := s.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		s.observe("get", "hit")
		return value, true
	case errors.Is(err, redis.Nil):
		s.observe("get", "miss")
		return "", false
	default:
		s.observe("get", "error")
		s.logger.Warn("cache read failed", "key", key, "error", err)
		return "", false
	}
}

// Set stores value under key, expiring it after the configured TTL.
func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		s.observe("set", "error")
		return &navi.CacheError{Op: "set", Key: key, Err: err}
	}
	s.observe("set", "ok")
	return nil
}

// HealthCheck pings the server.
func (s *Store) HealthCheck(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.client.Ping(ctx).Err(); err != nil {
		return &navi.CacheError{Op: "ping", Err: err}
	}
	return nil
}

// Close releases the client connections.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.Close()
}

func (s *Store) observe(op, outcome string) {
	if s.observer != nil {
		s.observer.ObserveCache(op, outcome)
	}
}
