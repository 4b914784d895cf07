package simulation

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/zimgeofence/containersim-go/internal/domain/telemetry"
)

// writerQueueCapacity bounds the number of in-flight tick batches. A full
// queue blocks the scheduler (backpressure) instead of dropping events.
const writerQueueCapacity = 8

// batchWriter funnels per-tick event batches from the scheduler to the sink
// on a dedicated goroutine, so slow database writes overlap the next tick's
// CPU work. The goroutine starts with the writer and runs until Close.
type batchWriter struct {
	sink   telemetry.Sink
	logger *zap.Logger

	queue chan []*telemetry.Event
	done  chan struct{}

	mu      sync.Mutex
	cond    *sync.Cond
	pending int

	closeOnce sync.Once
}

func newBatchWriter(sink telemetry.Sink, logger *zap.Logger) *batchWriter {
	w := &batchWriter{
		sink:   sink,
		logger: logger.With(zap.String("component", "batch_writer")),
		queue:  make(chan []*telemetry.Event, writerQueueCapacity),
		done:   make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	go w.loop()
	return w
}

func (w *batchWriter) loop() {
	defer close(w.done)
	for batch := range w.queue {
		if err := w.sink.WriteBatch(context.Background(), batch); err != nil {
			w.logger.Error("event batch write failed",
				zap.Int("batch_size", len(batch)),
				zap.Error(err))
		}
		w.mu.Lock()
		w.pending--
		w.cond.Broadcast()
		w.mu.Unlock()
	}
}

// Enqueue hands a batch to the writer, blocking while the queue is full.
func (w *batchWriter) Enqueue(batch []*telemetry.Event) {
	if len(batch) == 0 {
		return
	}
	w.mu.Lock()
	w.pending++
	w.mu.Unlock()
	w.queue <- batch
}

// Flush blocks until every enqueued batch has been handed to the sink.
func (w *batchWriter) Flush() {
	w.mu.Lock()
	for w.pending > 0 {
		w.cond.Wait()
	}
	w.mu.Unlock()
}

// Close stops accepting batches and waits for the queue to drain. Safe to
// call more than once.
func (w *batchWriter) Close() {
	w.closeOnce.Do(func() { close(w.queue) })
	<-w.done
}
