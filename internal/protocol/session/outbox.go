package session

import (
	"sync"
	"time"

	ccq "github.com/ZhangGuangxu/circularqueue"

	"github.com/stratumforge/sv2wire/internal/protocol/sv2"
)

// outbox buffers outbound messages between Send callers and the write
// loop. Two queues swap under the lock so the write loop drains without
// holding up producers.
type outbox struct {
	mu    sync.Mutex
	qAdd  *ccq.CircularQueue
	qTake *ccq.CircularQueue

	added chan bool
}

func newOutbox() *outbox {
	return &outbox{
		qAdd:  ccq.NewCircularQueue(),
		qTake: ccq.NewCircularQueue(),
		added: make(chan bool, 1),
	}
}

func (o *outbox) push(m sv2.Message) {
	o.mu.Lock()
	o.qAdd.Push(m)
	o.mu.Unlock()

	select {
	case o.added <- true:
	default:
	}
}

func (o *outbox) hasNew(timer *time.Timer) bool {
	if timer != nil {
		select {
		case <-o.added:
			return true
		case <-timer.C:
			return false
		}
	}
	select {
	case <-o.added:
		return true
	default:
		return false
	}
}

// take returns the next queued message, waiting on timer when the queue is
// empty. It may return nil.
func (o *outbox) take(timer *time.Timer) sv2.Message {
	if o.qTake.IsEmpty() {
		if o.hasNew(timer) {
			o.mu.Lock()
			o.qAdd, o.qTake = o.qTake, o.qAdd
			o.mu.Unlock()
		}
	}

	if !o.qTake.IsEmpty() {
		if v, err := o.qTake.Pop(); err == nil {
			if m, ok := v.(sv2.Message); ok {
				return m
			}
		}
	}

	return nil
}
