package raft

import "sync"

// Listener 是一次监听器注册，Close 取消注册。
type Listener struct {
	remove func()
	once   sync.Once
}

// Close 取消注册。幂等。
func (l *Listener) Close() {
	l.once.Do(l.remove)
}

// listeners 维护一组按注册顺序调用的监听器。
// 注册可以来自任意 goroutine；通知只发生在状态线程上，且是同步的——
// 阻塞的监听器会拖慢后续的共识处理，监听器必须保持轻量。
type listeners[T any] struct {
	mu   sync.Mutex
	next int
	subs []listenerEntry[T]
}

type listenerEntry[T any] struct {
	id int
	fn func(T)
}

func (l *listeners[T]) add(fn func(T)) *Listener {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	id := l.next
	l.subs = append(l.subs, listenerEntry[T]{id: id, fn: fn})
	return &Listener{remove: func() { l.removeByID(id) }}
}

func (l *listeners[T]) removeByID(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.subs {
		if e.id == id {
			l.subs = append(l.subs[:i], l.subs[i+1:]...)
			return
		}
	}
}

func (l *listeners[T]) notify(value T) {
	l.mu.Lock()
	subs := append([]listenerEntry[T](nil), l.subs...)
	l.mu.Unlock()
	for _, e := range subs {
		e.fn(value)
	}
}
