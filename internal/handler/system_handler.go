package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/examhall/examhall-backend/internal/config"
	"github.com/examhall/examhall-backend/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const healthTimeout = 2 * time.Second

// SystemHandler reports liveness and runtime statistics.
type SystemHandler struct {
	db        *pgxpool.Pool
	rdb       *redis.Client
	startTime time.Time
	log       zerolog.Logger
}

func NewSystemHandler(db *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		db:        db,
		rdb:       rdb,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

// Health godoc
// GET /health
// Pings PostgreSQL and Redis. Responds 503 when either is unreachable.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	checks := gin.H{"database": "ok", "redis": "ok"}
	healthy := true

	if err := h.db.Ping(ctx); err != nil {
		h.log.Warn().Err(err).Msg("Database health check failed")
		checks["database"] = "unreachable"
		healthy = false
	}
	if err := h.rdb.Ping(ctx).Err(); err != nil {
		h.log.Warn().Err(err).Msg("Redis health check failed")
		checks["redis"] = "unreachable"
		healthy = false
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"status": map[bool]string{true: "ok", false: "degraded"}[healthy],
		"checks": checks,
		"uptime": formatDuration(time.Since(h.startTime)),
	})
}

type systemStats struct {
	Uptime      string `json:"uptime"`
	GoVersion   string `json:"go_version"`
	NumCPU      int    `json:"num_cpu"`
	Goroutines  int    `json:"goroutines"`
	HeapAlloc   uint64 `json:"heap_alloc"`
	HeapSys     uint64 `json:"heap_sys"`
	NumGC       uint32 `json:"num_gc"`
	DBConns     int32  `json:"db_conns"`
	DBIdleConns int32  `json:"db_idle_conns"`
	QueueEvents int64  `json:"queue_events"`
}

// Stats godoc
// GET /api/admin/system/stats
// Runtime, pool and event queue figures for the admin dashboard.
func (h *SystemHandler) Stats(c *gin.Context) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	stats := systemStats{
		Uptime:     formatDuration(time.Since(h.startTime)),
		GoVersion:  runtime.Version(),
		NumCPU:     runtime.NumCPU(),
		Goroutines: runtime.NumGoroutine(),
		HeapAlloc:  ms.HeapAlloc,
		HeapSys:    ms.Sys,
		NumGC:      ms.NumGC,
	}

	poolStat := h.db.Stat()
	stats.DBConns = poolStat.TotalConns()
	stats.DBIdleConns = poolStat.IdleConns()

	queued, err := h.rdb.LLen(c.Request.Context(), config.WorkerKey.PersistAttemptEventsQueue).Result()
	if err != nil {
		h.log.Warn().Err(err).Msg("Event queue length unavailable")
	}
	stats.QueueEvents = queued

	response.Success(c, http.StatusOK, stats)
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
