package controllers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequestDeduplicator(t *testing.T) {
	d := NewRequestDeduplicator()
	key := submitKey("create_request", "+7999", "ул. Мира")

	assert.True(t, d.TryAcquire(key, time.Minute))
	assert.False(t, d.TryAcquire(key, time.Minute), "повторная отправка отсекается")
	assert.True(t, d.TryAcquire(submitKey("create_request", "+7999", "ул. Ленина"), time.Minute))

	d.Release(key)
	assert.True(t, d.TryAcquire(key, time.Minute), "после Release можно отправить снова")

	short := submitKey("create_user", "olya")
	assert.True(t, d.TryAcquire(short, time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	assert.True(t, d.TryAcquire(short, time.Minute), "истёкшая блокировка не мешает")
}

func TestRequestDeduplicator_Cleanup(t *testing.T) {
	d := NewRequestDeduplicator()
	d.TryAcquire("a", time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Cleanup(ctx, 2*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		_, ok := d.locks.Load("a")
		return !ok
	}, time.Second, 2*time.Millisecond)
	cancel()
	<-done
}
