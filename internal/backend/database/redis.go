package database

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// createScript inserts a pair hash and its index entry unless the id is
// already taken. Returns 0 on conflict.
var createScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], 'img1', ARGV[2], 'img2', ARGV[3], 'similarity', ARGV[4])
redis.call('SADD', KEYS[2], ARGV[1])
return 1
`)

// updateScript replaces the fields of an existing pair hash. Returns 0 when the
// pair does not exist, leaving the keyspace untouched.
var updateScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], 'img1', ARGV[1], 'img2', ARGV[2], 'similarity', ARGV[3])
return 1
`)

// deleteScript removes a pair hash together with its index entry.
var deleteScript = redis.NewScript(`
if redis.call('DEL', KEYS[1]) == 0 then
	return 0
end
redis.call('SREM', KEYS[2], ARGV[1])
return 1
`)

// RedisDatabase stores every pair as a hash and keeps the set of known ids
// in a separate index key.
type RedisDatabase struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisDatabase(connectionString, keyPrefix string) (DatabaseService, error) {
	options, err := redis.ParseURL(connectionString)
	if err != nil {
		return nil, fmt.Errorf("invalid redis connection string: %w", err)
	}

	return &RedisDatabase{
		client:    redis.NewClient(options),
		keyPrefix: keyPrefix,
	}, nil
}

func (r *RedisDatabase) pairKey(id string) string {
	return r.keyPrefix + "pair:" + id
}

func (r *RedisDatabase) indexKey() string {
	return r.keyPrefix + "pairs"
}

// CreateDatabase only verifies connectivity, redis needs no schema.
func (r *RedisDatabase) CreateDatabase(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisDatabase) DoesDatabaseExist(ctx context.Context) bool {
	return r.client.Ping(ctx).Err() == nil
}

func (r *RedisDatabase) Close() error {
	return r.client.Close()
}

func (r *RedisDatabase) CreatePair(ctx context.Context, pair *ImagePair) error {
	created, err := createScript.Run(ctx, r.client,
		[]string{r.pairKey(pair.ID), r.indexKey()},
		pair.ID, pair.Img1, pair.Img2, pair.Similarity).Int()
	if err != nil {
		return err
	}
	if created == 0 {
		return ErrDuplicateID
	}
	return nil
}

func (r *RedisDatabase) GetAllPairs(ctx context.Context) ([]*ImagePair, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*ImagePair{}, nil
	}

	commands := make([]*redis.MapStringStringCmd, len(ids))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			commands[i] = pipe.HGetAll(ctx, r.pairKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	pairs := make([]*ImagePair, 0, len(ids))
	for i, cmd := range commands {
		fields := cmd.Val()
		if len(fields) == 0 {
			// deleted between SMEMBERS and HGETALL
			continue
		}
		pair, err := pairFromHash(ids[i], fields)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

func (r *RedisDatabase) GetPairByID(ctx context.Context, id string) (*ImagePair, error) {
	fields, err := r.client.HGetAll(ctx, r.pairKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	return pairFromHash(id, fields)
}

func (r *RedisDatabase) UpdatePair(ctx context.Context, pair *ImagePair) error {
	updated, err := updateScript.Run(ctx, r.client,
		[]string{r.pairKey(pair.ID)},
		pair.Img1, pair.Img2, pair.Similarity).Int()
	if err != nil {
		return err
	}
	if updated == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RedisDatabase) DeletePair(ctx context.Context, id string) error {
	deleted, err := deleteScript.Run(ctx, r.client,
		[]string{r.pairKey(id), r.indexKey()},
		id).Int()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RedisDatabase) CountPairs(ctx context.Context) (int, error) {
	count, err := r.client.SCard(ctx, r.indexKey()).Result()
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func pairFromHash(id string, fields map[string]string) (*ImagePair, error) {
	similarity, err := strconv.Atoi(fields["similarity"])
	if err != nil {
		return nil, fmt.Errorf("pair %s has invalid similarity %q: %w", id, fields["similarity"], err)
	}
	return &ImagePair{
		ID:         id,
		Img1:       fields["img1"],
		Img2:       fields["img2"],
		Similarity: similarity,
	}, nil
}
