package executor

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ErrClosed 在执行上下文关闭后提交任务时返回。
var ErrClosed = errors.New("executor: context is closed")

// Context 是一个单 worker 的串行执行上下文（"状态线程"）。
// 协调器的所有共识状态变更与 RPC 分发都被约束在同一个 Context 上执行，
// 从而不需要对共识状态加锁。不在该上下文上的调用者必须通过
// Execute / Submit 把调用封送过来。
type Context struct {
	name   string
	logger *log.Entry

	mu     sync.RWMutex
	tasks  chan func()
	closed bool

	// gid 是 worker goroutine 的 ID，用于 CheckThread 的防御性检查。
	gid  atomic.Int64
	done chan struct{}
}

// NewContext 创建并启动一个执行上下文。name 仅用于日志。
func NewContext(name string) *Context {
	c := &Context{
		name:   name,
		logger: log.WithField("executor", name),
		tasks:  make(chan func(), 128),
		done:   make(chan struct{}),
	}
	go c.run()
	return c
}

// run 是 worker 主循环。任务中的 panic 会被捕获并记录，
// 避免一个出错的任务杀死整个状态线程。
func (c *Context) run() {
	c.gid.Store(goroutineID())
	defer close(c.done)
	for task := range c.tasks {
		c.invoke(task)
	}
}

func (c *Context) invoke(task func()) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Errorf("Panic in task: %v", r)
		}
	}()
	task()
}

// OnContext 返回当前 goroutine 是否就是该上下文的 worker。
func (c *Context) OnContext() bool {
	return goroutineID() == c.gid.Load()
}

// CheckThread 校验调用者运行在该上下文上。
// 从其他 goroutine 直接改共识状态是编程错误，直接 panic 暴露出来。
func (c *Context) CheckThread() {
	if !c.OnContext() {
		c.logger.Panicf("Not on context %q: state must only be mutated from its own executor", c.name)
	}
}

// Execute 将 fn 异步调度到上下文上执行（fire-and-forget）。
// 上下文已关闭时任务被丢弃并记录日志。
func (c *Context) Execute(fn func()) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		c.logger.Debug("Dropping task submitted after close")
		return
	}
	c.tasks <- fn
}

// Submit 将 fn 调度到上下文上执行并等待其完成，返回 fn 的错误。
// 当调用者已经在上下文上时，fn 被内联执行而不是重新排队：
// 这保证了在状态线程内部再次 Submit（例如角色切换期间）在结构上不可能自阻塞。
func (c *Context) Submit(fn func() error) error {
	if c.OnContext() {
		return fn()
	}

	errc := make(chan error, 1)
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return ErrClosed
	}
	c.tasks <- func() { errc <- fn() }
	c.mu.RUnlock()

	return <-errc
}

// Timer 是一个被调度到上下文上的定时任务。
type Timer struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// Stop 取消定时器。已触发但尚未执行的回调仍可能运行，
// 回调方需要自行容忍这种竞争（角色在 Close 后忽略过期的定时事件）。
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
	}
}

// Schedule 在 d 之后把 fn 封送到上下文上执行一次。
func (c *Context) Schedule(d time.Duration, fn func()) *Timer {
	t := &Timer{}
	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		stopped := t.stopped
		t.mu.Unlock()
		if !stopped {
			c.Execute(fn)
		}
	})
	return t
}

// ScheduleRepeated 每隔 interval 把 fn 封送到上下文上执行，直到 Stop。
func (c *Context) ScheduleRepeated(interval time.Duration, fn func()) *Timer {
	t := &Timer{}
	var arm func()
	arm = func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.stopped {
			return
		}
		t.timer = time.AfterFunc(interval, func() {
			t.mu.Lock()
			stopped := t.stopped
			t.mu.Unlock()
			if stopped {
				return
			}
			c.Execute(fn)
			arm()
		})
	}
	arm()
	return t
}

// Close 停止接收新任务，排空已入队的任务后退出 worker。
// 从 worker 自身调用时不等待排空（否则会等待自己），只做关闭标记。
func (c *Context) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.tasks)
	c.mu.Unlock()

	if !c.OnContext() {
		<-c.done
	}
	return nil
}

// goroutineID 从 runtime.Stack 的首行解析当前 goroutine 的 ID。
// 首行形如 "goroutine 18 [running]:"。
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 {
		return -1
	}
	id, err := strconv.ParseInt(string(fields[1]), 10, 64)
	if err != nil {
		return -1
	}
	return id
}
