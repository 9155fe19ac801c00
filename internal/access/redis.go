package access

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"pickbot/internal/interfaces"
	"pickbot/internal/types"
)

// RedisStore keeps authorized users in a Redis set so they survive
// restarts.
type RedisStore struct {
	client *redis.Client
	key    string
}

var _ interfaces.AccessStore = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Connect opens a client and checks the server answers.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: redis ping %s: %v", types.ErrTransport, addr, err)
	}
	return client, nil
}

func (r *RedisStore) Add(ctx context.Context, userID int64) error {
	if err := r.client.SAdd(ctx, r.key, strconv.FormatInt(userID, 10)).Err(); err != nil {
		return fmt.Errorf("%w: redis sadd: %v", types.ErrTransport, err)
	}
	return nil
}

func (r *RedisStore) Contains(ctx context.Context, userID int64) (bool, error) {
	ok, err := r.client.SIsMember(ctx, r.key, strconv.FormatInt(userID, 10)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: redis sismember: %v", types.ErrTransport, err)
	}
	return ok, nil
}
