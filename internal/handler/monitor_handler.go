package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/examhall/examhall-backend/internal/config"
	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/response"
	"github.com/examhall/examhall-backend/internal/service"
	ws "github.com/examhall/examhall-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	refreshInterval   = 15 * time.Second
	keepAliveInterval = 30 * time.Second
	refreshTimeout    = 5 * time.Second // a slow query must not stall the socket loop
	idleTimeout       = 2 * keepAliveInterval
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// MonitorHandler serves the admin live monitor.
type MonitorHandler struct {
	rdb            *redis.Client
	monitorService *service.MonitorService
	upgrader       websocket.Upgrader
	log            zerolog.Logger
}

// NewMonitorHandler creates a new MonitorHandler.
func NewMonitorHandler(
	rdb *redis.Client,
	monitorService *service.MonitorService,
	allowedOrigins []string,
	log zerolog.Logger,
) *MonitorHandler {
	return &MonitorHandler{
		rdb:            rdb,
		monitorService: monitorService,
		upgrader:       buildUpgrader(allowedOrigins),
		log:            log.With().Str("component", "monitor_handler").Logger(),
	}
}

// GetSnapshot godoc
// GET /api/admin/exams/:id/monitor
// Returns the current roster once, for clients that poll instead of streaming.
func (h *MonitorHandler) GetSnapshot(c *gin.Context) {
	examID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	snapshot, err := h.monitorService.Snapshot(c.Request.Context(), examID)
	if err != nil {
		failWithError(c, err)
		return
	}

	response.Success(c, http.StatusOK, snapshot)
}

// MonitorExamWS godoc
// GET /ws/admin/exams/:id/monitor?token=
// Sends a snapshot, then forwards login, started, submitted and violation
// events for the exam as they are published.
func (h *MonitorHandler) MonitorExamWS(c *gin.Context) {
	examID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	// Fail before the upgrade so the client sees a proper HTTP status.
	snapshot, err := h.snapshot(c.Request.Context(), examID)
	if err != nil {
		failWithError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("exam_id", examID.String()).Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := ws.WriteTyped(conn, ws.SnapshotMessage{Event: ws.EventSnapshot, Data: snapshot}); err != nil {
		return
	}

	pubsub := h.rdb.Subscribe(ctx, config.CacheKey.ExamMonitorChannel(examID.String()))
	defer pubsub.Close()
	ch := pubsub.Channel()

	closed := make(chan struct{})
	go ws.DrainReads(conn, idleTimeout, closed)

	keepAliveTicker := time.NewTicker(keepAliveInterval)
	defer keepAliveTicker.Stop()

	refreshTicker := time.NewTicker(refreshInterval)
	defer refreshTicker.Stop()

	// Snapshots are only rebuilt after something happened.
	dirty := false

	wsLog.Info().Msg("Admin attached to live monitor")

	for {
		select {
		case <-closed:
			wsLog.Info().Msg("Admin detached from live monitor")
			return

		case msg, open := <-ch:
			if !open {
				_ = ws.WriteError(conn, "monitor channel closed")
				return
			}
			err := ws.WriteTyped(conn, ws.MonitorMessage{Event: ws.EventMonitor, Data: []byte(msg.Payload)})
			if err != nil {
				wsLog.Debug().Err(err).Msg("Forward failed")
				return
			}
			dirty = true

		case <-refreshTicker.C:
			if !dirty {
				continue
			}
			snapshot, err := h.snapshot(ctx, examID)
			if err != nil {
				wsLog.Warn().Err(err).Msg("Failed to refresh monitor snapshot")
				continue
			}
			if err := ws.WriteTyped(conn, ws.SnapshotMessage{Event: ws.EventSnapshot, Data: snapshot}); err != nil {
				return
			}
			dirty = false

		case <-keepAliveTicker.C:
			if err := ws.WritePing(conn); err != nil {
				return
			}
		}
	}
}

func (h *MonitorHandler) snapshot(parent context.Context, examID uuid.UUID) (*model.MonitorSnapshot, error) {
	ctx, cancel := context.WithTimeout(parent, refreshTimeout)
	defer cancel()
	return h.monitorService.Snapshot(ctx, examID)
}
