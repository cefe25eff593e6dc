package config

// Redis backs the per-user todo list cache and nothing else, so the
// client here is strictly optional: when no server is reachable the
// constructor returns nil and every list read falls through to MySQL.

import (
	"context"
	"crypto/tls"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisOptions assembles client options from the environment.
// REDIS_ADDR wins over the REDIS_HOST/REDIS_PORT pair; the database
// number defaults to 0. REDIS_TLS=true|1 enables TLS 1.2+ against the
// server's real certificate chain; there is no insecure mode.
func redisOptions() *redis.Options {
	opts := &redis.Options{Addr: "localhost:6379"}
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		opts.Addr = host + ":" + port
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		opts.Addr = addr
	}
	opts.Password = os.Getenv("REDIS_PASSWORD")
	if n, err := strconv.Atoi(os.Getenv("REDIS_DB")); err == nil {
		opts.DB = n
	}
	switch os.Getenv("REDIS_TLS") {
	case "1", "true", "TRUE", "True":
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}

// NewRedisClient connects to Redis for the list cache. It pings with a
// short timeout and returns nil when the server cannot be reached;
// callers treat a nil client as "cache disabled".
func NewRedisClient() *redis.Client {
	client := redis.NewClient(redisOptions())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
