package concurrent

import (
	"errors"
	"time"
)

var ErrScheduleTimeout = errors.New("schedule error: timed out")

// WorkerPool is a bounded goroutine pool. workers are spawned lazily up to
// the pool size; tasks beyond the worker count queue up on the work channel.
// ref: https://sergey.kamardin.org/articles/million-websockets-and-go/
type WorkerPool struct {
	sem  chan struct{}
	work chan func()
}

func NewWorkerPool(size, queue int) *WorkerPool {
	return &WorkerPool{
		sem:  make(chan struct{}, size),
		work: make(chan func(), queue),
	}
}

// Spawn starts n workers eagerly.
func (wp *WorkerPool) Spawn(n int) {
	for i := 0; i < n; i++ {
		wp.sem <- struct{}{}
		go wp.worker(func() {})
	}
}

// Schedule runs task on the pool, blocking until a worker or a queue slot is
// free.
func (wp *WorkerPool) Schedule(task func()) {
	wp.schedule(task, nil)
}

// ScheduleTimeout runs task on the pool, giving up with ErrScheduleTimeout
// if no worker or queue slot frees up within timeout.
func (wp *WorkerPool) ScheduleTimeout(timeout time.Duration, task func()) error {
	return wp.schedule(task, time.After(timeout))
}

func (wp *WorkerPool) schedule(task func(), timeout <-chan time.Time) error {
	select {
	case wp.work <- task:
		return nil
	case wp.sem <- struct{}{}:
		go wp.worker(task)
		return nil
	default:
	}

	if timeout == nil {
		select {
		case wp.work <- task:
			return nil
		case wp.sem <- struct{}{}:
			go wp.worker(task)
			return nil
		}
	}

	select {
	case <-timeout:
		return ErrScheduleTimeout
	case wp.work <- task:
		return nil
	case wp.sem <- struct{}{}:
		go wp.worker(task)
		return nil
	}
}

func (wp *WorkerPool) worker(task func()) {
	defer func() { <-wp.sem }()

	task()
	for t := range wp.work {
		t()
	}
}

// Close stops all idle workers. tasks already scheduled still run.
func (wp *WorkerPool) Close() {
	close(wp.work)
}
