package transport

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"github.com/synheart/calmband/internal/models"
)

// Dispatcher copies monitor updates from one source to multiple
// subscribers. When a subscriber's buffer is full, updates are dropped
// to prevent blocking the monitor. Dropped updates are logged and
// counted for monitoring.
type Dispatcher struct {
	source       <-chan models.Update
	subscribers  []chan models.Update
	bufferSize   int
	mu           sync.Mutex
	droppedTotal int64 // atomic counter for total dropped updates
}

func NewDispatcher(source <-chan models.Update, bufferSize int) *Dispatcher {
	return &Dispatcher{
		source:      source,
		subscribers: make([]chan models.Update, 0),
		bufferSize:  bufferSize,
	}
}

// Subscribe returns a channel that receives copies of all source
// updates. Subscribers should be added before calling Run() to ensure
// they receive all updates.
func (d *Dispatcher) Subscribe() <-chan models.Update {
	ch := make(chan models.Update, d.bufferSize)
	d.mu.Lock()
	d.subscribers = append(d.subscribers, ch)
	d.mu.Unlock()
	return ch
}

// SubscriberCount returns the current number of active subscribers
func (d *Dispatcher) SubscriberCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subscribers)
}

// DroppedCount returns the total number of updates dropped due to
// subscriber buffers being full. Thread-safe.
func (d *Dispatcher) DroppedCount() int64 {
	return atomic.LoadInt64(&d.droppedTotal)
}

// Run blocks until ctx is cancelled or source closes
func (d *Dispatcher) Run(ctx context.Context) {
	defer d.closeSubscribers()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-d.source:
			if !ok {
				return
			}
			d.dispatch(update, ctx)
		}
	}
}

func (d *Dispatcher) dispatch(update models.Update, ctx context.Context) {
	d.mu.Lock()
	subs := d.subscribers // Copy slice reference to minimize lock time
	d.mu.Unlock()

	dropped := 0
	for _, sub := range subs {
		select {
		case sub <- update:
			// Successfully sent
		case <-ctx.Done():
			return
		default:
			// Buffer full - drop update to prevent blocking monitor
			dropped++
			atomic.AddInt64(&d.droppedTotal, 1)
		}
	}

	if dropped > 0 {
		log.Printf("Dispatcher: dropped %s update for %d subscriber(s) (buffer full)", update.Kind, dropped)
	}
}

func (d *Dispatcher) closeSubscribers() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, sub := range d.subscribers {
		close(sub)
	}
}
