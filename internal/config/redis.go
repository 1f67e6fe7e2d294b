package config

// Redis backs the terminal rate limiter and the seat-map response cache.
// Both are optional accelerators: when the connection cannot be established
// at startup NewRedisClient returns nil, and the middleware degrade to
// no-ops rather than blocking check-in.

import (
	"context"
	"crypto/tls"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a client from REDIS_* environment variables:
// REDIS_ADDR (host:port), or REDIS_HOST + REDIS_PORT which take precedence;
// REDIS_PASSWORD, REDIS_DB and REDIS_TLS are optional.  The server is
// pinged with a short timeout and nil is returned on failure.
func NewRedisClient() *redis.Client {
	addr := envStr("REDIS_ADDR", "localhost:6379")
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		addr = host + ":" + port
	}

	var tlsConf *tls.Config
	if v := os.Getenv("REDIS_TLS"); strings.EqualFold(v, "true") || v == "1" {
		tlsConf = &tls.Config{InsecureSkipVerify: true}
	}

	client := redis.NewClient(&redis.Options{
		Addr:      addr,
		Password:  os.Getenv("REDIS_PASSWORD"),
		DB:        envInt("REDIS_DB", 0),
		TLSConfig: tlsConf,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}
