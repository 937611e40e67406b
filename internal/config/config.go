package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request budget, must cover negotiation retries

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	ServiceFile string // path to the services.yaml registry file
	UserAgent   string // outbound client identifier

	// Upstream transport bounds
	ConnectTimeout   time.Duration // dial + TLS handshake
	ReadTimeout      time.Duration // full response per attempt
	RetryCount       int           // retries after the first attempt
	RetryBackoff     time.Duration // initial backoff, doubles per retry
	MaxResponseBytes int64         // streamed body size cap
	MaxURLLen        int           // endpoint URL length cap

	// Result cache
	CacheTTL      time.Duration // TTL bucket width
	CacheCapacity int           // max entries before LRU eviction

	// Prewarm
	PrewarmServices []string // service keys kept warm, empty = disabled
	PrewarmInterval time.Duration

	// Rate limiting
	RateBurst        int
	RateRefillPerMin int
	TrustProxy       bool // resolve client IP from proxy headers

	// Optional shared cache tier; empty addr disables it
	RedisAddr           string
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisDialTimeout    time.Duration
	RedisReadTimeout    time.Duration
	RedisWriteTimeout   time.Duration
	RedisPoolSize       int
	RedisConnectTimeout time.Duration
	RedisRetryInterval  time.Duration
	RedisPingTimeout    time.Duration
}

func Load() *Config {
	return &Config{
		// Server settings
		ListenPort:      getenv("DS_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("DS_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("DS_REQUEST_TIMEOUT", 60*time.Second),

		// Logging
		LogLevel:  getenv("DS_LOG_LEVEL", "info"),
		PrettyLog: mustBool("DS_PRETTY_LOG", true),

		// Registry + outbound identity
		ServiceFile: getenv("DS_SERVICE_FILE", "./services.yaml"),
		UserAgent:   getenv("DS_USER_AGENT", "data-tales.dev (data-sources) - OGC Service Explorer"),

		// Transport
		ConnectTimeout:   mustDuration("DS_CONNECT_TIMEOUT", 3*time.Second),
		ReadTimeout:      mustDuration("DS_READ_TIMEOUT", 18*time.Second),
		RetryCount:       getenvInt("DS_RETRY_COUNT", 2),
		RetryBackoff:     mustDuration("DS_RETRY_BACKOFF", 500*time.Millisecond),
		MaxResponseBytes: getenvInt64("DS_MAX_RESPONSE_BYTES", 20<<20),
		MaxURLLen:        getenvInt("DS_MAX_URL_LEN", 400),

		// Cache
		CacheTTL:      mustDuration("DS_CACHE_TTL", 15*time.Minute),
		CacheCapacity: getenvInt("DS_CACHE_CAPACITY", 64),

		// Prewarm
		PrewarmServices: splitAndTrim(getenv("DS_PREWARM_SERVICES", "")),
		PrewarmInterval: mustDuration("DS_PREWARM_INTERVAL", 30*time.Minute),

		// Rate limiting
		RateBurst:        getenvInt("DS_RATE_BURST", 20),
		RateRefillPerMin: getenvInt("DS_RATE_REFILL_PER_MIN", 60),
		TrustProxy:       mustBool("DS_TRUST_PROXY", true),

		// Redis (optional)
		RedisAddr:           getenv("DS_REDIS_ADDR", ""),
		RedisUser:           getenv("DS_REDIS_USERNAME", "default"),
		RedisPassword:       getenv("DS_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("DS_REDIS_DB", 0),
		RedisDialTimeout:    mustDuration("DS_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisReadTimeout:    mustDuration("DS_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWriteTimeout:   mustDuration("DS_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize:       getenvInt("DS_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("DS_REDIS_CONNECT_TIMEOUT", 10*time.Second),
		RedisRetryInterval:  mustDuration("DS_REDIS_RETRY_INTERVAL", 1*time.Second),
		RedisPingTimeout:    mustDuration("DS_REDIS_PING_TIMEOUT", 2*time.Second),
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.Trim(strings.TrimSpace(part), `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
