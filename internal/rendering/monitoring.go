package rendering

import (
	"fmt"
	"time"

	"github.com/rmitchellscott/hass-render/internal/logging"
)

// HealthStatus summarizes the render pool for the health endpoint.
type HealthStatus struct {
	Status          string             `json:"status"` // "healthy", "degraded", "unhealthy"
	WorkerPool      WorkerPoolHealth   `json:"worker_pool"`
	Performance     PerformanceMetrics `json:"performance"`
	LastUpdated     time.Time          `json:"last_updated"`
	Recommendations []string           `json:"recommendations,omitempty"`
}

type WorkerPoolHealth struct {
	Running           bool    `json:"running"`
	ActiveWorkers     int32   `json:"active_workers"`
	ExpectedWorkers   int     `json:"expected_workers"`
	WorkerUtilization float64 `json:"worker_utilization"`
	QueueLength       int32   `json:"queue_length"`
	QueueCapacity     int     `json:"queue_capacity"`
	QueueUtilization  float64 `json:"queue_utilization"`
}

type PerformanceMetrics struct {
	TotalJobs           int64    `json:"total_jobs"`
	SuccessRate         float64  `json:"success_rate"`
	RendersPerMinute    float64  `json:"renders_per_minute"`
	AverageRenderMillis *float64 `json:"average_render_ms,omitempty"`
}

// Health reports the pool state.
func (p *RenderWorkerPool) Health() *HealthStatus {
	m := p.GetMetrics()

	p.mu.RLock()
	running := p.running
	startedAt := p.startedAt
	p.mu.RUnlock()

	busy := 0
	for _, w := range p.workers {
		if w.IsProcessing() {
			busy++
		}
	}

	pool := WorkerPoolHealth{
		Running:           running,
		ActiveWorkers:     m.ActiveWorkers,
		ExpectedWorkers:   p.workerCount,
		WorkerUtilization: percentOf(float64(busy), float64(p.workerCount)),
		QueueLength:       m.QueueLength,
		QueueCapacity:     cap(p.jobChan),
		QueueUtilization:  percentOf(float64(m.QueueLength), float64(cap(p.jobChan))),
	}

	finished := m.SuccessJobs + m.FailedJobs
	perf := PerformanceMetrics{TotalJobs: m.TotalJobs, SuccessRate: 100}
	if finished > 0 {
		perf.SuccessRate = percentOf(float64(m.SuccessJobs), float64(finished))
		avg := float64(m.TotalRenderNanos) / float64(finished) / float64(time.Millisecond)
		perf.AverageRenderMillis = &avg
	}
	if running {
		if minutes := time.Since(startedAt).Minutes(); minutes > 0 {
			perf.RendersPerMinute = float64(finished) / minutes
		}
	}

	status, recs := determineHealthStatus(pool, perf, finished)
	return &HealthStatus{
		Status:          status,
		WorkerPool:      pool,
		Performance:     perf,
		LastUpdated:     time.Now(),
		Recommendations: recs,
	}
}

func determineHealthStatus(pool WorkerPoolHealth, perf PerformanceMetrics, finished int64) (string, []string) {
	var recommendations []string

	if !pool.Running {
		return "unhealthy", []string{"Render worker pool is not running"}
	}

	degraded := 0
	if pool.QueueUtilization > 80 {
		degraded++
		recommendations = append(recommendations,
			fmt.Sprintf("Render queue %.1f%% full, consider raising RENDER_WORKERS or RENDER_QUEUE", pool.QueueUtilization))
	}
	if pool.WorkerUtilization > 95 {
		degraded++
		recommendations = append(recommendations,
			fmt.Sprintf("Workers heavily loaded (%.1f%% busy)", pool.WorkerUtilization))
	}
	if finished >= 10 && perf.SuccessRate < 90 {
		degraded++
		recommendations = append(recommendations,
			fmt.Sprintf("High render failure rate: %.1f%% success", perf.SuccessRate))
	}

	if degraded > 0 {
		return "degraded", recommendations
	}
	return "healthy", recommendations
}

// LogHealthSummary writes the current health to the log.
func (p *RenderWorkerPool) LogHealthSummary() {
	health := p.Health()
	logging.InfoWithComponent(logging.ComponentRenderer, "Render pool health",
		"status", health.Status,
		"active_workers", health.WorkerPool.ActiveWorkers,
		"queue_utilization", fmt.Sprintf("%.1f%%", health.WorkerPool.QueueUtilization),
		"success_rate", fmt.Sprintf("%.1f%%", health.Performance.SuccessRate),
		"renders_per_minute", fmt.Sprintf("%.1f", health.Performance.RendersPerMinute))

	for _, rec := range health.Recommendations {
		logging.WarnWithComponent(logging.ComponentRenderer, "Render pool recommendation", "message", rec)
	}
}

func percentOf(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}
