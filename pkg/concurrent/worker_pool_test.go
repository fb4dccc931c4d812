package concurrent

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduleRunsTasks(t *testing.T) {
	wp := NewWorkerPool(4, 4)
	wp.Spawn(2)
	defer wp.Close()

	var counter int64
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		wp.Schedule(func() {
			atomic.AddInt64(&counter, 1)
			wg.Done()
		})
	}
	wg.Wait()

	if got := atomic.LoadInt64(&counter); got != 32 {
		t.Errorf("ran %d tasks, want 32", got)
	}
}

func TestScheduleTimeout(t *testing.T) {
	wp := NewWorkerPool(1, 1)
	wp.Spawn(1)

	block := make(chan struct{})
	defer close(block)

	// occupy the only worker, then the only queue slot
	started := make(chan struct{})
	wp.Schedule(func() {
		close(started)
		<-block
	})
	<-started
	wp.Schedule(func() { <-block })

	err := wp.ScheduleTimeout(50*time.Millisecond, func() {})
	if err != ErrScheduleTimeout {
		t.Errorf("got %v, want ErrScheduleTimeout", err)
	}
}
