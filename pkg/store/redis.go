package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	ferrors "github.com/matzehuels/formwork/pkg/errors"
	"github.com/matzehuels/formwork/pkg/io"
	"github.com/matzehuels/formwork/pkg/template"
)

// DefaultRedisPrefix namespaces template keys.
const DefaultRedisPrefix = "formwork:template:"

// RedisConfig configures a [RedisStore].
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// RedisStore keeps each template in a hash at prefix+ID. The hash holds the
// encoded template next to its summary fields, so List never decodes
// elements.
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// Hash fields.
const (
	fieldName      = "name"
	fieldElements  = "elements"
	fieldUpdatedAt = "updated_at"
	fieldData      = "data"
)

// NewRedisStore connects to the server at cfg.Addr (default
// localhost:6379) and checks the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return NewRedisStoreWithClient(client, cfg.Prefix), nil
}

// NewRedisStoreWithClient wraps an existing client. The store takes
// ownership and closes client on Close.
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) key(id string) string { return s.prefix + id }

func (s *RedisStore) Put(ctx context.Context, d *template.Definition) error {
	if err := checkPut(d); err != nil {
		return err
	}
	data, err := io.Marshal(d)
	if err != nil {
		return err
	}
	sum := summarize(d, s.now())
	err = s.client.HSet(ctx, s.key(d.ID),
		fieldName, sum.Name,
		fieldElements, sum.Elements,
		fieldUpdatedAt, sum.UpdatedAt.Format(time.RFC3339Nano),
		fieldData, data,
	).Err()
	if err != nil {
		return fmt.Errorf("redis put %s: %w", d.ID, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*template.Definition, error) {
	if err := ferrors.ValidateTemplateID(id); err != nil {
		return nil, err
	}
	data, err := s.client.HGet(ctx, s.key(id), fieldData).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", id, err)
	}
	return io.Unmarshal(data)
}

func (s *RedisStore) List(ctx context.Context) ([]Summary, error) {
	var out []Summary
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		vals, err := s.client.HMGet(ctx, key, fieldName, fieldElements, fieldUpdatedAt).Result()
		if err != nil {
			return nil, fmt.Errorf("redis list %s: %w", key, err)
		}
		out = append(out, parseSummary(strings.TrimPrefix(key, s.prefix), vals))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	sortSummaries(out)
	return out, nil
}

func parseSummary(id string, vals []any) Summary {
	sum := Summary{ID: id}
	str := func(i int) string {
		if i < len(vals) {
			if v, ok := vals[i].(string); ok {
				return v
			}
		}
		return ""
	}
	sum.Name = str(0)
	sum.Elements, _ = strconv.Atoi(str(1))
	sum.UpdatedAt, _ = time.Parse(time.RFC3339Nano, str(2))
	return sum
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := ferrors.ValidateTemplateID(id); err != nil {
		return err
	}
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
