package executor

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRunsOnContext(t *testing.T) {
	c := NewContext("test")
	defer c.Close()

	var onContext bool
	err := c.Submit(func() error {
		onContext = c.OnContext()
		return nil
	})
	require.NoError(t, err)
	assert.True(t, onContext)
	assert.False(t, c.OnContext())
}

func TestSubmitInlineWhenAlreadyOnContext(t *testing.T) {
	c := NewContext("test")
	defer c.Close()

	// 状态线程内部再次 Submit 必须内联执行，否则会等待自己而死锁。
	var nested bool
	err := c.Submit(func() error {
		return c.Submit(func() error {
			nested = true
			return nil
		})
	})
	require.NoError(t, err)
	assert.True(t, nested)
}

func TestSubmitReturnsTaskError(t *testing.T) {
	c := NewContext("test")
	defer c.Close()

	want := assert.AnError
	err := c.Submit(func() error { return want })
	assert.Equal(t, want, err)
}

func TestExecuteSerializesTasks(t *testing.T) {
	c := NewContext("test")
	defer c.Close()

	const n = 100
	var counter int
	for i := 0; i < n; i++ {
		c.Execute(func() { counter++ })
	}

	// Submit 排在所有 Execute 之后，等它返回时前面的任务都已执行完。
	require.NoError(t, c.Submit(func() error { return nil }))
	assert.Equal(t, n, counter)
}

func TestSubmitAfterClose(t *testing.T) {
	c := NewContext("test")
	require.NoError(t, c.Close())

	err := c.Submit(func() error { return nil })
	assert.ErrorIs(t, err, ErrClosed)
}

func TestCloseIsIdempotent(t *testing.T) {
	c := NewContext("test")
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}

func TestCloseFromContextDoesNotDeadlock(t *testing.T) {
	c := NewContext("test")

	done := make(chan struct{})
	c.Execute(func() {
		_ = c.Close()
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close called from the worker goroutine deadlocked")
	}
}

func TestSchedule(t *testing.T) {
	c := NewContext("test")
	defer c.Close()

	fired := make(chan struct{})
	c.Schedule(10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled task did not fire")
	}
}

func TestScheduleStop(t *testing.T) {
	c := NewContext("test")
	defer c.Close()

	var fired atomic.Bool
	timer := c.Schedule(50*time.Millisecond, func() { fired.Store(true) })
	timer.Stop()

	time.Sleep(150 * time.Millisecond)
	assert.False(t, fired.Load())
}

func TestScheduleRepeated(t *testing.T) {
	c := NewContext("test")
	defer c.Close()

	var count atomic.Int64
	timer := c.ScheduleRepeated(10*time.Millisecond, func() { count.Add(1) })
	defer timer.Stop()

	assert.Eventually(t, func() bool { return count.Load() >= 3 },
		2*time.Second, 10*time.Millisecond)
}

func TestCheckThreadPanicsOffContext(t *testing.T) {
	c := NewContext("test")
	defer c.Close()

	assert.Panics(t, func() { c.CheckThread() })
	require.NoError(t, c.Submit(func() error {
		assert.NotPanics(t, func() { c.CheckThread() })
		return nil
	}))
}
