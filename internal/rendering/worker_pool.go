package rendering

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rmitchellscott/hass-render/internal/logging"
)

var (
	// ErrPoolSaturated is returned when every worker is busy and the queue is full.
	ErrPoolSaturated = errors.New("render pool saturated")
	// ErrPoolStopped is returned for renders submitted after Stop.
	ErrPoolStopped = errors.New("render pool stopped")
)

// RenderJob is one request waiting for a worker.
type RenderJob struct {
	ID       uuid.UUID
	Request  Request
	Queued   time.Time
	Context  context.Context
	resultCh chan JobResult
}

// JobResult is what a worker hands back for a job.
type JobResult struct {
	JobID    uuid.UUID
	Result   *Result
	Error    error
	Duration time.Duration
}

// WorkerMetrics tracks pool throughput.
type WorkerMetrics struct {
	TotalJobs     int64
	SuccessJobs   int64
	FailedJobs    int64
	ActiveWorkers int32
	QueueLength   int32
	// TotalRenderNanos is the summed render time of finished jobs.
	TotalRenderNanos int64
}

// Observer is notified after every finished job.
type Observer func(mode string, err error, d time.Duration)

// RenderWorkerPool bounds how many renders run at once. Renders are CPU
// bound, so the worker count caps CPU use under bursts.
type RenderWorkerPool struct {
	renderer    Renderer
	workerCount int
	workers     []*Worker
	jobChan     chan RenderJob
	quitChan    chan struct{}
	wg          sync.WaitGroup
	metrics     *WorkerMetrics
	observer    Observer
	startedAt   time.Time

	mu      sync.RWMutex
	running bool
}

// Worker is a single render goroutine.
type Worker struct {
	id           int
	pool         *RenderWorkerPool
	isProcessing int32
}

// NewRenderWorkerPool creates a pool around renderer. Non-positive sizes
// fall back to one worker and a queue of twice the worker count.
func NewRenderWorkerPool(renderer Renderer, workerCount, bufferSize int) *RenderWorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	if bufferSize <= 0 {
		bufferSize = 2 * workerCount
	}

	pool := &RenderWorkerPool{
		renderer:    renderer,
		workerCount: workerCount,
		workers:     make([]*Worker, workerCount),
		jobChan:     make(chan RenderJob, bufferSize),
		quitChan:    make(chan struct{}),
		metrics:     &WorkerMetrics{},
	}
	for i := range pool.workers {
		pool.workers[i] = &Worker{id: i, pool: pool}
	}
	return pool
}

// SetObserver installs a hook called after every job. Call before Start.
func (p *RenderWorkerPool) SetObserver(o Observer) {
	p.observer = o
}

// Start launches the workers.
func (p *RenderWorkerPool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}
	p.running = true
	p.startedAt = time.Now()

	for _, w := range p.workers {
		p.wg.Add(1)
		go w.start()
	}
	logging.InfoWithComponent(logging.ComponentRenderer, "Render worker pool started",
		"workers", p.workerCount, "queue", cap(p.jobChan))
}

// Stop waits for in-flight renders and fails anything still queued.
func (p *RenderWorkerPool) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.quitChan)
	p.mu.Unlock()

	p.wg.Wait()

	for {
		select {
		case job := <-p.jobChan:
			job.resultCh <- JobResult{JobID: job.ID, Error: ErrPoolStopped}
		default:
			logging.InfoWithComponent(logging.ComponentRenderer, "Render worker pool stopped")
			return
		}
	}
}

// Render queues a request and waits for its result. It fails fast with
// ErrPoolSaturated instead of blocking when the queue is full.
func (p *RenderWorkerPool) Render(ctx context.Context, req Request) (*Result, error) {
	job := RenderJob{
		ID:       uuid.New(),
		Request:  req,
		Queued:   time.Now(),
		Context:  ctx,
		resultCh: make(chan JobResult, 1),
	}

	if err := p.submit(job); err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-job.resultCh:
		return res.Result, res.Error
	}
}

func (p *RenderWorkerPool) submit(job RenderJob) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.running {
		return ErrPoolStopped
	}
	select {
	case p.jobChan <- job:
		atomic.AddInt64(&p.metrics.TotalJobs, 1)
		return nil
	default:
		logging.WarnWithComponent(logging.ComponentRenderer, "Render queue full, rejecting job", "job_id", job.ID)
		return ErrPoolSaturated
	}
}

// GetMetrics returns a snapshot of the pool counters.
func (p *RenderWorkerPool) GetMetrics() WorkerMetrics {
	return WorkerMetrics{
		TotalJobs:        atomic.LoadInt64(&p.metrics.TotalJobs),
		SuccessJobs:      atomic.LoadInt64(&p.metrics.SuccessJobs),
		FailedJobs:       atomic.LoadInt64(&p.metrics.FailedJobs),
		ActiveWorkers:    atomic.LoadInt32(&p.metrics.ActiveWorkers),
		QueueLength:      int32(len(p.jobChan)),
		TotalRenderNanos: atomic.LoadInt64(&p.metrics.TotalRenderNanos),
	}
}

// WorkerCount returns the configured number of workers.
func (p *RenderWorkerPool) WorkerCount() int { return p.workerCount }

// QueueCapacity returns the size of the pending job buffer.
func (p *RenderWorkerPool) QueueCapacity() int { return cap(p.jobChan) }

// QueueDepth returns the number of jobs waiting for a worker.
func (p *RenderWorkerPool) QueueDepth() int { return len(p.jobChan) }

// BusyWorkers returns how many workers are rendering right now.
func (p *RenderWorkerPool) BusyWorkers() int {
	return int(atomic.LoadInt32(&p.metrics.ActiveWorkers))
}

func (w *Worker) start() {
	defer w.pool.wg.Done()

	for {
		select {
		case <-w.pool.quitChan:
			return
		case job := <-w.pool.jobChan:
			job.resultCh <- w.process(job)
		}
	}
}

// IsProcessing reports whether the worker is rendering right now.
func (w *Worker) IsProcessing() bool {
	return atomic.LoadInt32(&w.isProcessing) == 1
}

func (w *Worker) process(job RenderJob) (result JobResult) {
	result.JobID = job.ID
	if err := job.Context.Err(); err != nil {
		atomic.AddInt64(&w.pool.metrics.FailedJobs, 1)
		result.Error = err
		return result
	}

	atomic.StoreInt32(&w.isProcessing, 1)
	atomic.AddInt32(&w.pool.metrics.ActiveWorkers, 1)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			result.Result = nil
			result.Error = fmt.Errorf("%w: render panicked: %v", ErrContractViolation, r)
		}
		result.Duration = time.Since(start)
		atomic.AddInt32(&w.pool.metrics.ActiveWorkers, -1)
		atomic.StoreInt32(&w.isProcessing, 0)
		w.pool.record(job, result)
	}()

	result.Result, result.Error = w.pool.renderer.Render(job.Request)
	return result
}

func (p *RenderWorkerPool) record(job RenderJob, result JobResult) {
	mode := "unknown"
	if job.Request != nil {
		mode = job.Request.Mode().String()
	}

	atomic.AddInt64(&p.metrics.TotalRenderNanos, int64(result.Duration))
	if result.Error != nil {
		atomic.AddInt64(&p.metrics.FailedJobs, 1)
		logging.ErrorWithComponent(logging.ComponentRenderer, "Render job failed",
			"job_id", job.ID, "mode", mode, "error", result.Error)
	} else {
		atomic.AddInt64(&p.metrics.SuccessJobs, 1)
		logging.DebugWithComponent(logging.ComponentRenderer, "Render job completed",
			"job_id", job.ID, "mode", mode,
			"duration_ms", result.Duration.Milliseconds())
	}
	if p.observer != nil {
		p.observer(mode, result.Error, result.Duration)
	}
}
