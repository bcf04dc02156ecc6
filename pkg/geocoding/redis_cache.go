package geocoding

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"kmend/agriroute/pkg/datastructure"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "geocode:"

// RedisCache geocode results shared across instances, stored as "lat,lon".
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (datastructure.Coordinate, bool, error) {
	val, err := c.client.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return datastructure.Coordinate{}, false, nil
	}
	if err != nil {
		return datastructure.Coordinate{}, false, err
	}
	coord, err := parseCoordinate(val)
	if err != nil {
		return datastructure.Coordinate{}, false, err
	}
	return coord, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, coord datastructure.Coordinate) error {
	return c.client.Set(ctx, redisKeyPrefix+key, formatCoordinate(coord), c.ttl).Err()
}

func formatCoordinate(c datastructure.Coordinate) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}

func parseCoordinate(s string) (datastructure.Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return datastructure.Coordinate{}, fmt.Errorf("malformed cached coordinate %q", s)
	}
	lat, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return datastructure.Coordinate{}, err
	}
	lon, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return datastructure.Coordinate{}, err
	}
	return datastructure.NewCoordinate(lat, lon), nil
}
