package jikan

import (
	"context"
	"sync"
	"time"
)

// Limiter 对出站请求做最小间隔限速。
// 所有操作共享同一个"最早可发起下一次请求"的时钟：并发调用方先在锁内
// 预约各自的发起时刻（彼此间隔 delay），再在锁外等待到点，保证引入并发
// 后限速依旧是单一串行化点。
type Limiter struct {
	mu    sync.Mutex
	delay time.Duration
	next  time.Time
}

// NewLimiter 创建限速器；delay <= 0 表示不限速。
func NewLimiter(delay time.Duration) *Limiter {
	return &Limiter{delay: delay}
}

// Wait 阻塞到本次调用被允许发起为止；ctx 取消时提前返回。
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.delay <= 0 {
		return ctx.Err()
	}

	l.mu.Lock()
	now := time.Now()
	at := l.next
	if at.Before(now) {
		at = now
	}
	l.next = at.Add(l.delay)
	l.mu.Unlock()

	d := time.Until(at)
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
