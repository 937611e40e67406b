package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/data-tales/datasources/internal/logger"
	"github.com/data-tales/datasources/internal/pipeline"
	"github.com/data-tales/datasources/internal/registry"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	Pipeline       *pipeline.Pipeline // capabilities acquisition facade
	Registry       *registry.Registry // static service catalog
	RedisClient    *redis.Client      // nil when the shared cache tier is disabled
	PrewarmTrigger chan struct{}      // channel to trigger a manual prewarm cycle (nil if disabled)
}
