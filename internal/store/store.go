package store

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis"
	"github.com/pkg/errors"
)

const keyPrefix = "pastebin_"

// ErrNotFound is returned when a paste doesn't exist or has expired.
var ErrNotFound = errors.New("paste not found")

// Store defines the interface for paste storage operations.
type Store interface {
	// Get retrieves a paste by ID. Returns ErrNotFound if it doesn't exist.
	Get(id string) (string, error)
	// Create attempts to store a paste with the given ID, expiring after
	// ttl (0 keeps it forever).
	// Returns true if created, false if ID already exists (collision).
	Create(id string, body []byte, ttl time.Duration) (bool, error)
}

// RedisStore implements Store using Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed store and verifies connectivity.
func NewRedis(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if _, err := client.Ping().Result(); err != nil {
		return nil, errors.Wrapf(err, "pinging redis at %s", addr)
	}

	return &RedisStore{client: client}, nil
}

// Get retrieves a paste by ID.
func (s *RedisStore) Get(id string) (string, error) {
	val, err := s.client.Get(keyPrefix + id).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", errors.Wrap(err, "redis get")
	}
	return val, nil
}

// Create stores a paste using SetNX (atomic set-if-not-exists).
func (s *RedisStore) Create(id string, body []byte, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(keyPrefix+id, string(body), ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, "redis setnx")
	}
	return ok, nil
}

// Close releases the Redis connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

type memEntry struct {
	body    string
	expires time.Time
}

// MemoryStore implements Store in process memory. Expired entries are
// dropped lazily on access.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
	now     func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memEntry),
		now:     time.Now,
	}
}

// Get retrieves a paste by ID.
func (s *MemoryStore) Get(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return "", ErrNotFound
	}
	if s.expired(e) {
		delete(s.entries, id)
		return "", ErrNotFound
	}
	return e.body, nil
}

// Create stores a paste unless a live paste already has the ID.
func (s *MemoryStore) Create(id string, body []byte, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[id]; ok && !s.expired(e) {
		return false, nil
	}

	e := memEntry{body: string(body)}
	if ttl > 0 {
		e.expires = s.now().Add(ttl)
	}
	s.entries[id] = e
	return true, nil
}

func (s *MemoryStore) expired(e memEntry) bool {
	return !e.expires.IsZero() && !s.now().Before(e.expires)
}

// ParseRedisURI parses a Redis URI in the form "host:port" and returns host and port separately.
// This is needed because the rate limiter package takes host and port as separate config fields.
func ParseRedisURI(uri string) (host string, port int) {
	host = "localhost"
	port = 6379

	if uri == "" {
		return
	}

	parts := strings.Split(uri, ":")
	if len(parts) >= 1 && parts[0] != "" {
		host = parts[0]
	}
	if len(parts) >= 2 {
		if p, err := strconv.Atoi(parts[1]); err == nil {
			port = p
		}
	}
	return
}
