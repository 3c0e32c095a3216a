package config

import (
    "context"
    "crypto/tls"
    "log"
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/redis/go-redis/v9"
)

// redisAddr resolves the server address from REDIS_HOST/REDIS_PORT, with
// REDIS_ADDR as the host:port shorthand and localhost:6379 as the final
// fallback.
func redisAddr() string {
    if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
        return host + ":" + port
    }
    if addr := os.Getenv("REDIS_ADDR"); addr != "" {
        return addr
    }
    return "localhost:6379"
}

// NewRedisClient builds the client backing the rate limiter and the
// response cache.  Optional knobs: REDIS_PASSWORD, REDIS_DB and
// REDIS_TLS.  A server that cannot be reached at startup yields nil, and
// both middlewares degrade to pass-throughs on a nil client, so Redis is
// never a hard dependency of the API.
func NewRedisClient() *redis.Client {
    opts := &redis.Options{
        Addr:     redisAddr(),
        Password: os.Getenv("REDIS_PASSWORD"),
    }
    if s := os.Getenv("REDIS_DB"); s != "" {
        n, err := strconv.Atoi(s)
        if err != nil {
            log.Printf("invalid REDIS_DB %q, using 0", s)
            n = 0
        }
        opts.DB = n
    }
    switch strings.ToLower(os.Getenv("REDIS_TLS")) {
    case "1", "true":
        opts.TLSConfig = &tls.Config{InsecureSkipVerify: true}
    }

    client := redis.NewClient(opts)
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        _ = client.Close()
        return nil
    }
    return client
}
