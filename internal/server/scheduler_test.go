package server

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundedNeverExceedsLimit(t *testing.T) {
	b := NewBounded(2)
	assert.Equal(t, 2, b.Limit())

	var cur, peak atomic.Int64
	release := make(chan struct{})

	const tasks = 6
	var wg sync.WaitGroup
	wg.Add(tasks)

	go func() {
		for i := 0; i < tasks; i++ {
			b.Go(func() {
				defer wg.Done()
				n := cur.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				<-release
				cur.Add(-1)
			})
		}
	}()

	require.Eventually(t, func() bool { return b.InFlight() == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 2, b.InFlight())

	close(release)
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int64(2))
	assert.Eventually(t, func() bool { return b.InFlight() == 0 }, time.Second, 5*time.Millisecond)
}

func TestBoundedMinimumOne(t *testing.T) {
	assert.Equal(t, 1, NewBounded(0).Limit())
	assert.Equal(t, 1, NewBounded(-3).Limit())
}

func TestUnboundedRunsTask(t *testing.T) {
	done := make(chan struct{})
	Unbounded().Go(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}
}

func TestNewPicksScheduler(t *testing.T) {
	srv := New(DefaultConfig(), nil)
	assert.Equal(t, Unbounded(), srv.Scheduler)

	config := DefaultConfig()
	config.MaxConnections = 3
	srv = New(config, nil)
	bounded, ok := srv.Scheduler.(*Bounded)
	require.True(t, ok)
	assert.Equal(t, 3, bounded.Limit())
}

func TestBufferPool(t *testing.T) {
	p := NewBufferPool(128)
	assert.Equal(t, 128, p.Size())

	buf := p.Get()
	assert.Len(t, buf, 128)
	p.Put(buf[:10])

	again := p.Get()
	assert.Len(t, again, 128)

	// Foreign buffers are ignored
	assert.NotPanics(t, func() { p.Put(make([]byte, 5)) })
}

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.ConnectionOpened()
	m.ConnectionOpened()
	m.ConnectionClosed()
	m.ConnectionDropped()
	m.RecordRequest(200, 10*time.Millisecond)
	m.RecordRequest(404, 20*time.Millisecond)
	m.RecordRequest(500, 30*time.Millisecond)

	s := m.Snapshot()
	assert.Equal(t, int64(2), s.ConnectionsTotal)
	assert.Equal(t, int64(1), s.ActiveConnections)
	assert.Equal(t, int64(1), s.DroppedTotal)
	assert.Equal(t, int64(3), s.RequestsTotal)
	assert.Equal(t, int64(1), s.Errors4xx)
	assert.Equal(t, int64(1), s.Errors5xx)
	assert.Equal(t, 20*time.Millisecond, s.AverageLatency)
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, ":4221", c.Addr)
	assert.Equal(t, 4096, c.BufferSize)
	assert.Zero(t, c.MaxConnections)
	assert.Zero(t, c.ReadTimeout)

	srv := New(Config{}, nil)
	assert.Equal(t, defaultBufferSize, srv.buffers.Size())
}
