package cart

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesRapidCalls(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	defer d.Stop()

	var fired int32
	for i := 0; i < 5; i++ {
		d.Schedule("l1", func() { atomic.AddInt32(&fired, 1) })
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(80 * time.Millisecond)
	if got := atomic.LoadInt32(&fired); got != 1 {
		t.Errorf("expected exactly one firing, got %d", got)
	}
}

func TestDebouncer_LinesAreIndependent(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	defer d.Stop()

	var fired int32
	d.Schedule("l1", func() { atomic.AddInt32(&fired, 1) })
	d.Schedule("l2", func() { atomic.AddInt32(&fired, 1) })

	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&fired); got != 2 {
		t.Errorf("expected both lines to fire, got %d", got)
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var fired int32
	d.Schedule("l1", func() { atomic.AddInt32(&fired, 1) })
	d.Stop()

	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&fired); got != 0 {
		t.Errorf("expected no firing after Stop, got %d", got)
	}
}
