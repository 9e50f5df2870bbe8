package timeline_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s21platform/codeu-chat/internal/timeline"
)

func TestScheduleNowRunsInOrder(t *testing.T) {
	tl := timeline.New()
	go tl.Run()
	defer tl.Close()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	wg.Add(3)

	for i := 1; i <= 3; i++ {
		i := i
		tl.ScheduleNow(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			wg.Done()
		})
	}

	waitOrTimeout(t, &wg, time.Second)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestScheduleInRunsAfterDelay(t *testing.T) {
	tl := timeline.New()
	go tl.Run()
	defer tl.Close()

	done := make(chan time.Time, 1)
	start := time.Now()
	tl.ScheduleIn(30*time.Millisecond, func() {
		done <- time.Now()
	})

	select {
	case fired := <-done:
		assert.GreaterOrEqual(t, fired.Sub(start), 25*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("task never ran")
	}
}

func TestTaskCanRescheduleItself(t *testing.T) {
	tl := timeline.New()
	go tl.Run()
	defer tl.Close()

	var mu sync.Mutex
	count := 0
	done := make(chan struct{})

	var self func()
	self = func() {
		mu.Lock()
		count++
		c := count
		mu.Unlock()
		if c < 3 {
			tl.ScheduleNow(self)
			return
		}
		close(done)
	}
	tl.ScheduleNow(self)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("self-reschedule never converged")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, count)
}

func TestCloseStopsWorker(t *testing.T) {
	tl := timeline.New()
	runDone := make(chan struct{})
	go func() {
		tl.Run()
		close(runDone)
	}()

	tl.Close()

	select {
	case <-runDone:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Close")
	}
}

func waitOrTimeout(t *testing.T, wg *sync.WaitGroup, d time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(d):
		require.Fail(t, "timed out waiting for tasks")
	}
}
