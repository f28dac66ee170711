package api

import (
	"context"
	"net/http"
	"runtime"
	"time"
)

// metricsCountTimeout bounds the term count query behind GET /metrics.
const metricsCountTimeout = 2 * time.Second

const bytesPerMB = 1 << 20

// SystemMetrics is the GET /metrics body.
type SystemMetrics struct {
	Timestamp     string          `json:"timestamp"`
	Version       string          `json:"version"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	Runtime       RuntimeMetrics  `json:"runtime"`
	WebSocket     HubMetrics      `json:"websocket"`
	MQTT          MQTTMetrics     `json:"mqtt"`
	Terms         TermMetrics     `json:"terms"`
	Database      DatabaseMetrics `json:"database"`
}

type RuntimeMetrics struct {
	Goroutines    int     `json:"goroutines"`
	MemoryAllocMB float64 `json:"memory_alloc_mb"`
	MemoryTotalMB float64 `json:"memory_total_mb"`
	NumGC         uint32  `json:"num_gc"`
}

type HubMetrics struct {
	ConnectedClients int `json:"connected_clients"`
}

// MQTTMetrics is all false when no event publisher is configured.
type MQTTMetrics struct {
	Enabled   bool `json:"enabled"`
	Connected bool `json:"connected"`
}

// TermMetrics.Total is -1 when the count query failed.
type TermMetrics struct {
	Total int `json:"total"`
}

type DatabaseMetrics struct {
	OpenConnections int   `json:"open_connections"`
	InUse           int   `json:"in_use"`
	Idle            int   `json:"idle"`
	WaitCount       int64 `json:"wait_count"`
}

// handleMetrics reports process, hub, event bus, pool and glossary figures.
// A failing term count degrades that one figure instead of the response.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SystemMetrics{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Runtime:       readRuntimeMetrics(),
		WebSocket:     HubMetrics{ConnectedClients: s.hub.ClientCount()},
		MQTT:          s.mqttMetrics(),
		Terms:         s.termMetrics(r.Context()),
		Database:      s.databaseMetrics(),
	})
}

func readRuntimeMetrics() RuntimeMetrics {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return RuntimeMetrics{
		Goroutines:    runtime.NumGoroutine(),
		MemoryAllocMB: float64(ms.Alloc) / bytesPerMB,
		MemoryTotalMB: float64(ms.TotalAlloc) / bytesPerMB,
		NumGC:         ms.NumGC,
	}
}

func (s *Server) mqttMetrics() MQTTMetrics {
	if s.events == nil {
		return MQTTMetrics{}
	}
	return MQTTMetrics{Enabled: true, Connected: s.events.IsConnected()}
}

func (s *Server) termMetrics(ctx context.Context) TermMetrics {
	ctx, cancel := context.WithTimeout(ctx, metricsCountTimeout)
	defer cancel()

	n, err := s.terms.Count(ctx)
	if err != nil {
		s.logger.Warn("counting terms for metrics failed", "error", err)
		return TermMetrics{Total: -1}
	}
	return TermMetrics{Total: n}
}

func (s *Server) databaseMetrics() DatabaseMetrics {
	if s.db == nil {
		return DatabaseMetrics{}
	}
	st := s.db.Stats()
	return DatabaseMetrics{
		OpenConnections: st.OpenConnections,
		InUse:           st.InUse,
		Idle:            st.Idle,
		WaitCount:       st.WaitCount,
	}
}
