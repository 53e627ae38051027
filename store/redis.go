package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"clipcast/types"
)

const projectKeyPrefix = "clipcast:project:"

// RedisStore persists project snapshots as JSON values. A per-project TTL
// keeps finished runs from accumulating forever.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStoreFromEnv connects using REDIS_ADDR, REDIS_PASS and optional
// PROJECT_TTL_SECONDS, and verifies the connection with a ping.
func NewRedisStoreFromEnv() (*RedisStore, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	pass := os.Getenv("REDIS_PASS")

	ttl := 24 * time.Hour
	if t := os.Getenv("PROJECT_TTL_SECONDS"); t != "" {
		if secs, err := strconv.Atoi(t); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

func (s *RedisStore) Put(ctx context.Context, p *types.Project) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal project %s: %w", p.ID, err)
	}
	return s.client.Set(ctx, projectKeyPrefix+p.ID, data, s.ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (*types.Project, error) {
	data, err := s.client.Get(ctx, projectKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", id, err)
	}
	var p types.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal project %s: %w", id, err)
	}
	return &p, nil
}

func (s *RedisStore) Update(ctx context.Context, id string, fn func(*types.Project)) (*types.Project, error) {
	// Single-writer per project: the pipeline owns a project for its whole
	// run, so read-modify-write without WATCH is safe here.
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	fn(p)
	if err := s.Put(ctx, p); err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

func (s *RedisStore) List(ctx context.Context) ([]*types.Project, error) {
	var out []*types.Project
	iter := s.client.Scan(ctx, 0, projectKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("redis get %s: %w", iter.Val(), err)
		}
		var p types.Project
		if err := json.Unmarshal(data, &p); err != nil {
			continue
		}
		out = append(out, &p)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
