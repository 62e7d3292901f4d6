package worker

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPoolRunsAllQueuedTasksBeforeStop(t *testing.T) {
	p := NewPool(3, 16)
	var ran atomic.Int32
	for i := 0; i < 10; i++ {
		assert.True(t, p.TrySubmit(func() { ran.Add(1) }))
	}
	p.Stop()
	assert.Equal(t, int32(10), ran.Load())
}

func TestTrySubmitDropsWhenFull(t *testing.T) {
	p := NewPool(1, 1)
	block := make(chan struct{})
	started := make(chan struct{})

	assert.True(t, p.TrySubmit(func() {
		close(started)
		<-block
	}))
	<-started
	assert.True(t, p.TrySubmit(func() {}))
	assert.False(t, p.TrySubmit(func() {}))
	assert.Equal(t, 1, p.Len())

	close(block)
	p.Stop()
}

func TestSubmitAfterStopIsRejected(t *testing.T) {
	p := NewPool(1, 1)
	p.Stop()
	p.Stop()
	assert.False(t, p.TrySubmit(func() {}))
}
