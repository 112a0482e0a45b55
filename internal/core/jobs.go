// Package core defines the essential interfaces and data structures that form the
// backbone of the application. These components are designed to be abstract,
// allowing for flexible and decoupled implementations of the application's logic.
package core

import (
	"context"
)

// ScanDispatcher defines the contract for a system that can accept and queue
// pull request scans for asynchronous processing. This interface decouples the
// HTTP handler from the job execution mechanism.
//
//go:generate mockgen -destination=../../mocks/mock_scan_dispatcher.go -package=mocks . ScanDispatcher
type ScanDispatcher interface {
	// Dispatch accepts a ScanRequest and queues it for processing.
	// It returns ErrQueueFull if the queue cannot take more work, providing
	// a mechanism for backpressure.
	Dispatch(ctx context.Context, req *ScanRequest) error
	// Stop drains the queue and waits for in-flight scans.
	Stop()
}

// Job represents a single, executable unit of work processed by the dispatcher.
type Job interface {
	// Run executes the job's logic for one scan request.
	Run(ctx context.Context, req *ScanRequest) error
}
