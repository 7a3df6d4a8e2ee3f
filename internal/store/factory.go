package store

import (
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const (
	EngineMemory = "memory"
	EngineRedis  = "redis"
	EngineSQLite = "sqlite"
)

// NewByEngine selects a store engine by name. The redis client may be nil
// when the engine is not redis.
func NewByEngine(engine string, redisClient *redis.Client, sqlitePath string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineMemory:
		return NewMemory(), nil
	case EngineRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("redis store engine requires a redis client")
		}
		return NewRedis(redisClient, 0), nil
	case EngineSQLite:
		if sqlitePath == "" {
			return nil, fmt.Errorf("sqlite store engine requires a database path")
		}
		return NewSQLite(sqlitePath)
	default:
		return nil, fmt.Errorf("unsupported store engine %q", engine)
	}
}
