package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cloud-wave-best-zizon/battery-store/internal/cart"
	"github.com/redis/go-redis/v9"
)

const maxCartTxRetries = 5

// MemoryCartStore keeps carts in process. Updates to one cart are serialized.
type MemoryCartStore struct {
	mu    sync.Mutex
	carts map[string]cart.Cart
}

func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{carts: make(map[string]cart.Cart)}
}

// Load returns an empty cart for ids that were never written.
func (s *MemoryCartStore) Load(_ context.Context, id string) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyOf(id), nil
}

func (s *MemoryCartStore) Update(_ context.Context, id string, fn func(*cart.Cart) error) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.copyOf(id)
	if err := fn(c); err != nil {
		return nil, err
	}
	s.carts[id] = *c
	return s.copyOf(id), nil
}

func (s *MemoryCartStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, id)
	return nil
}

func (s *MemoryCartStore) copyOf(id string) *cart.Cart {
	stored, ok := s.carts[id]
	if !ok {
		return cart.New(id)
	}
	c := stored
	c.Lines = append([]cart.Line{}, stored.Lines...)
	return &c
}

// RedisCartStore keeps each cart as a JSON value that expires after ttl of
// inactivity. Updates run in WATCH/MULTI transactions and retry on conflict.
type RedisCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{client: client, ttl: ttl}
}

func cartKey(id string) string {
	return "cart:" + id
}

func (s *RedisCartStore) Load(ctx context.Context, id string) (*cart.Cart, error) {
	return s.read(ctx, s.client, id)
}

func (s *RedisCartStore) Update(ctx context.Context, id string, fn func(*cart.Cart) error) (*cart.Cart, error) {
	key := cartKey(id)
	var result *cart.Cart

	txf := func(tx *redis.Tx) error {
		c, err := s.read(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to marshal cart: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		result = c
		return nil
	}

	for i := 0; i < maxCartTxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}
	return nil, fmt.Errorf("cart %s: too many concurrent updates", id)
}

func (s *RedisCartStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, cartKey(id)).Err()
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *RedisCartStore) read(ctx context.Context, r getter, id string) (*cart.Cart, error) {
	data, err := r.Get(ctx, cartKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.New(id), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	if c.Lines == nil {
		c.Lines = []cart.Line{}
	}
	return &c, nil
}
