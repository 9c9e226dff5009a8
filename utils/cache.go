// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"rentalwheels/config"

	"github.com/go-redis/redis/v8"
)

// PrefsClient is the Redis client backing the preference store.
var PrefsClient *redis.Client

// InitPrefsCache initializes the Redis client for user preference persistence.
func InitPrefsCache() {
	PrefsClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisPrefsDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := PrefsClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Preferences): %v", err)
	}
}

// GetPrefsClient returns the Redis client for preference persistence.
func GetPrefsClient() *redis.Client {
	if PrefsClient == nil {
		InitPrefsCache()
	}
	return PrefsClient
}
