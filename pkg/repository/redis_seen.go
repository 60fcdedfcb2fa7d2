package repository

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/umputun/newsdigest/pkg/domain"
)

// RedisSeenStore keeps seen ids in redis sets, one set per scope
type RedisSeenStore struct {
	client *redis.Client
	prefix string
}

// NewRedisSeenStore connects to redis at addr and verifies the connection
func NewRedisSeenStore(ctx context.Context, addr, prefix string) (*RedisSeenStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", addr, err)
	}
	if prefix == "" {
		prefix = "newsdigest:seen:"
	}
	return &RedisSeenStore{client: client, prefix: prefix}, nil
}

func (s *RedisSeenStore) key(scope string) string {
	if scope == "" {
		return s.prefix + "default"
	}
	return s.prefix + scope
}

// Has reports whether id was recorded under scope
func (s *RedisSeenStore) Has(ctx context.Context, scope, id string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, s.key(scope), id).Result()
	if err != nil {
		return false, &domain.StoreError{Op: "check seen", Err: err}
	}
	return ok, nil
}

// RecordBatch adds all ids to the scope set in one pipelined round trip
func (s *RedisSeenStore) RecordBatch(ctx context.Context, scope string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	members := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		members = append(members, id)
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, s.key(scope), members...)
		return nil
	})
	if err != nil {
		return &domain.StoreError{Op: "record seen", Err: err}
	}
	return nil
}

// Count returns the number of ids recorded under scope
func (s *RedisSeenStore) Count(ctx context.Context, scope string) (int, error) {
	n, err := s.client.SCard(ctx, s.key(scope)).Result()
	if err != nil {
		return 0, &domain.StoreError{Op: "count seen", Err: err}
	}
	return int(n), nil
}

// Scopes lists scopes which have recorded ids
func (s *RedisSeenStore) Scopes(ctx context.Context) ([]string, error) {
	var res []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		res = append(res, iter.Val()[len(s.prefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, &domain.StoreError{Op: "scan scopes", Err: err}
	}
	return res, nil
}

// Close closes the redis client
func (s *RedisSeenStore) Close() error {
	return s.client.Close()
}
