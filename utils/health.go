package utils

import (
	"context"
	"sync"
	"time"

	"taskly/config"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HealthStatus is the latest snapshot of the hire flow's backing services.
type HealthStatus struct {
	Mongo     bool      `json:"mongo"`
	Redis     []bool    `json:"redis"`
	CheckedAt time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	healthMu      sync.RWMutex
)

// GetHealthStatus returns the latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

// StartHealthMonitor pings Mongo and each redis client on the configured
// interval and keeps the snapshot the health endpoint serves. An unhealthy
// dependency is reported through the logger, not just the snapshot.
func StartHealthMonitor(redisClients []*redis.Client, mongoClient *mongo.Client) {
	interval := time.Duration(config.AppConfig.HealthCheckIntervalSec) * time.Second
	if interval <= 0 {
		interval = 60 * time.Second
	}

	go func() {
		logger := GetLogger()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		check := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			redisHealth := make([]bool, 0, len(redisClients))
			for i, client := range redisClients {
				err := client.Ping(ctx).Err()
				if err != nil {
					logger.Warn("health check: redis unreachable",
						zap.Int("client", i), zap.Error(err))
				}
				redisHealth = append(redisHealth, err == nil)
			}

			mongoErr := mongoClient.Ping(ctx, nil)
			if mongoErr != nil {
				logger.Warn("health check: mongo unreachable", zap.Error(mongoErr))
			}

			healthMu.Lock()
			currentHealth = HealthStatus{
				Mongo:     mongoErr == nil,
				Redis:     redisHealth,
				CheckedAt: time.Now(),
			}
			healthMu.Unlock()
		}

		// First snapshot immediately so the endpoint never serves zero values
		// for a full interval after startup.
		check()
		for range ticker.C {
			check()
		}
	}()
}
