package controllers

import (
	"context"
	"strings"
	"sync"
	"time"
)

// submitWindow - сколько держится блокировка повторной отправки одной и той же формы.
const submitWindow = 3 * time.Second

// RequestDeduplicator отсекает повторную отправку одинаковой формы (двойной клик по "Создать").
type RequestDeduplicator struct {
	locks sync.Map
}

func NewRequestDeduplicator() *RequestDeduplicator {
	return &RequestDeduplicator{}
}

func submitKey(operation string, parts ...string) string {
	return operation + ":" + strings.Join(parts, "|")
}

// TryAcquire - false, если такая же отправка уже идёт или только что прошла.
func (d *RequestDeduplicator) TryAcquire(key string, ttl time.Duration) bool {
	now := time.Now()
	expiry := now.Add(ttl)

	for {
		val, loaded := d.locks.LoadOrStore(key, expiry)
		if !loaded {
			return true
		}
		if now.Before(val.(time.Time)) {
			return false
		}
		// Блокировка истекла: заменяем её, если её никто не заменил раньше.
		if d.locks.CompareAndSwap(key, val, expiry) {
			return true
		}
	}
}

// Release снимает блокировку после неудачной отправки, чтобы пользователь мог повторить сразу.
func (d *RequestDeduplicator) Release(key string) {
	d.locks.Delete(key)
}

func (d *RequestDeduplicator) Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			d.locks.Range(func(key, value interface{}) bool {
				expiry := value.(time.Time)
				if now.After(expiry) {
					d.locks.Delete(key)
				}
				return true
			})
		}
	}
}
