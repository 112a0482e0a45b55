// Package jobs runs pull request scans in the background.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sevigo/audit-warden/internal/config"
	"github.com/sevigo/audit-warden/internal/core"
)

const (
	defaultQueueSize     = 100
	defaultShutdownGrace = 30 * time.Second
	failScanTimeout      = 10 * time.Second
)

// shutdownReason is recorded on scans that were still queued when the dispatcher stopped.
const shutdownReason = "scan cancelled: service shutting down"

// dispatcher implements core.ScanDispatcher and manages a pool of worker goroutines
// for processing pull request scans.
type dispatcher struct {
	ctx           context.Context        // Passed to every scan; cancelled by Stop.
	cancel        context.CancelFunc     // Cancels ctx.
	scanJob       core.Job               // Job implementation executed by each worker.
	scans         core.ScanStore         // Records scans abandoned at shutdown.
	jobQueue      chan *core.ScanRequest // Queue of accepted scan requests.
	maxWorkers    int                    // Number of concurrent workers.
	shutdownGrace time.Duration          // How long Stop lets in-flight scans run.
	wg            sync.WaitGroup         // Tracks active workers for graceful shutdown.
	mu            sync.RWMutex           // Guards stopped against concurrent Dispatch.
	stopped       bool
	logger        *slog.Logger
}

// NewDispatcher initializes a dispatcher with a worker pool.
// If MaxWorkers is 0 or negative, it defaults to 1.
//
// Scans run under a context that keeps the values of ctx but is cancelled only
// by Stop, once the shutdown grace period has passed.
func NewDispatcher(ctx context.Context, scanJob core.Job, scans core.ScanStore, cfg config.JobsConfig, logger *slog.Logger) core.ScanDispatcher {
	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	grace := cfg.ShutdownGrace
	if grace <= 0 {
		grace = defaultShutdownGrace
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	d := &dispatcher{
		ctx:           runCtx,
		cancel:        cancel,
		scanJob:       scanJob,
		scans:         scans,
		maxWorkers:    maxWorkers,
		shutdownGrace: grace,
		jobQueue:      make(chan *core.ScanRequest, queueSize),
		logger:        logger,
	}
	d.startWorkers()
	return d
}

// startWorkers launches maxWorkers goroutines to process jobs from the queue.
func (d *dispatcher) startWorkers() {
	for i := range d.maxWorkers {
		d.wg.Add(1)
		go d.startWorker(i)
	}
}

// startWorker processes requests from the queue until it's closed. Requests
// still queued once Stop was called are failed instead of run.
func (d *dispatcher) startWorker(workerID int) {
	defer d.wg.Done()
	d.logger.Info("starting scan worker", "id", workerID)

	for req := range d.jobQueue {
		if d.isStopped() {
			d.abandon(req)
			continue
		}
		d.processRequest(workerID, req)
	}

	d.logger.Info("shutting down scan worker", "id", workerID)
}

func (d *dispatcher) processRequest(workerID int, req *core.ScanRequest) {
	d.logger.Info("worker processing scan",
		"worker_id", workerID,
		"scan_id", req.ScanID,
		"repo", req.RepoFullName,
	)

	if err := d.scanJob.Run(d.ctx, req); err != nil {
		d.logger.Error("pull request scan failed",
			"scan_id", req.ScanID,
			"repo", req.RepoFullName,
			"pr", req.PRNumber,
			"error", err,
		)
	}
}

func (d *dispatcher) abandon(req *core.ScanRequest) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(d.ctx), failScanTimeout)
	defer cancel()

	d.logger.Warn("dropping queued scan at shutdown", "scan_id", req.ScanID, "repo", req.RepoFullName, "pr", req.PRNumber)
	if err := d.scans.FailScan(ctx, req.ScanID, shutdownReason); err != nil {
		d.logger.Error("failed to record abandoned scan", "scan_id", req.ScanID, "error", err)
	}
}

func (d *dispatcher) isStopped() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.stopped
}

// Dispatch queues a scan request for processing by a worker.
func (d *dispatcher) Dispatch(_ context.Context, req *core.ScanRequest) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return fmt.Errorf("dispatcher is stopped: %w", core.ErrQueueFull)
	}

	d.logger.Info("queuing pull request scan", "scan_id", req.ScanID, "repo", req.RepoFullName, "pr", req.PRNumber)
	select {
	case d.jobQueue <- req:
		return nil
	default:
		return fmt.Errorf("cannot accept scan %s: %w", req.ScanID, core.ErrQueueFull)
	}
}

// Stop rejects new scans, fails the queued ones and gives in-flight scans the
// shutdown grace period to finish before cancelling their context.
func (d *dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.jobQueue)
	d.mu.Unlock()

	d.logger.Info("stopping dispatcher", "grace", d.shutdownGrace)

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(d.shutdownGrace)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		d.logger.Warn("shutdown grace period elapsed, cancelling in-flight scans")
		d.cancel()
		<-done
	}
	d.cancel()
	d.logger.Info("all scan workers have stopped")
}
