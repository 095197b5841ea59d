package redissvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrInProgress means another request holding the same key has not finished.
	ErrInProgress = errors.New("a request with this idempotency key is still in progress")
	// ErrKeyReuse means the key was first used with a different request body.
	ErrKeyReuse = errors.New("idempotency key was already used for a different request")
)

type status string

const (
	statusPending status = "pending"
	statusDone    status = "done"
)

// Replay is a stored response.
type Replay struct {
	StatusCode int    `json:"status_code"`
	Body       []byte `json:"body"`
}

type record struct {
	Status      status `json:"status"`
	Fingerprint string `json:"fingerprint"`
	Replay
}

// IdempotencyStore remembers the first successful response per key.
//
// Acquire returns (nil, nil) when the caller now owns the key, a Replay when
// the key already completed, ErrInProgress or ErrKeyReuse otherwise. The owner
// must call Complete on success or Release on failure. An owned key that is
// neither completed nor released frees itself when its lease runs out; a
// completed key is kept for the full ttl.
type IdempotencyStore interface {
	Acquire(ctx context.Context, key, fingerprint string) (*Replay, error)
	Complete(ctx context.Context, key, fingerprint string, replay Replay) error
	Release(ctx context.Context, key string) error
}

const keyPrefix = "idempotency:"

// DefaultLease bounds how long a request may hold a key before completing it.
const DefaultLease = time.Minute

type RedisIdempotencyStore struct {
	rdb   *redis.Client
	ttl   time.Duration
	lease time.Duration
}

var _ IdempotencyStore = (*RedisIdempotencyStore)(nil)

func NewRedisIdempotencyStore(rs *RedisService, ttl, lease time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{rdb: rs.Rdb(), ttl: ttl, lease: leaseOrDefault(lease)}
}

func leaseOrDefault(lease time.Duration) time.Duration {
	if lease <= 0 {
		return DefaultLease
	}
	return lease
}

func (s *RedisIdempotencyStore) Acquire(ctx context.Context, key, fingerprint string) (*Replay, error) {
	pending, err := json.Marshal(record{Status: statusPending, Fingerprint: fingerprint})
	if err != nil {
		return nil, err
	}

	ok, err := s.rdb.SetNX(ctx, keyPrefix+key, pending, s.lease).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire idempotency key: %w", err)
	}
	if ok {
		return nil, nil
	}

	data, err := s.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET
		return s.Acquire(ctx, key, fingerprint)
	}
	if err != nil {
		return nil, fmt.Errorf("read idempotency key: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode idempotency record: %w", err)
	}
	return rec.replayFor(fingerprint)
}

// Complete and Release run even when the request context is done, so a
// disconnecting client does not leave its key pending.
func (s *RedisIdempotencyStore) Complete(ctx context.Context, key, fingerprint string, replay Replay) error {
	ctx = context.WithoutCancel(ctx)
	data, err := json.Marshal(record{Status: statusDone, Fingerprint: fingerprint, Replay: replay})
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, keyPrefix+key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store idempotent response: %w", err)
	}
	return nil
}

func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(context.WithoutCancel(ctx), keyPrefix+key).Err()
}

func (r record) replayFor(fingerprint string) (*Replay, error) {
	if r.Fingerprint != fingerprint {
		return nil, ErrKeyReuse
	}
	if r.Status != statusDone {
		return nil, ErrInProgress
	}
	replay := r.Replay
	return &replay, nil
}

// MemoryIdempotencyStore is used when redis is disabled and in tests.
type MemoryIdempotencyStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	lease   time.Duration
	now     func() time.Time
	records map[string]memoryRecord
}

type memoryRecord struct {
	record
	expires time.Time
}

var _ IdempotencyStore = (*MemoryIdempotencyStore)(nil)

func NewMemoryIdempotencyStore(ttl, lease time.Duration) *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{ttl: ttl, lease: leaseOrDefault(lease), now: time.Now, records: map[string]memoryRecord{}}
}

func (s *MemoryIdempotencyStore) Acquire(ctx context.Context, key, fingerprint string) (*Replay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records[key]; ok && s.now().Before(rec.expires) {
		return rec.replayFor(fingerprint)
	}
	s.records[key] = memoryRecord{
		record:  record{Status: statusPending, Fingerprint: fingerprint},
		expires: s.now().Add(s.lease),
	}
	return nil, nil
}

func (s *MemoryIdempotencyStore) Complete(ctx context.Context, key, fingerprint string, replay Replay) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = memoryRecord{
		record:  record{Status: statusDone, Fingerprint: fingerprint, Replay: replay},
		expires: s.now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryIdempotencyStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}
