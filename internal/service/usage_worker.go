package service

import (
	"context"
	"sync"
	"time"

	"customer-analytics-buddy/internal/logger"
	"customer-analytics-buddy/internal/model"
	"customer-analytics-buddy/internal/store"
)

// UsageWorker batches dashboard usage events and flushes them to the
// document store in the background, so metric requests never wait on
// persistence.
type UsageWorker interface {
	Enqueue(event model.UsageEvent)
	Shutdown()
}

type usageWorker struct {
	store         store.Store
	log           *logger.Logger
	queue         chan model.UsageEvent
	batchSize     int
	flushInterval time.Duration
	wg            sync.WaitGroup
}

// NewUsageWorker starts the background flush loop.
func NewUsageWorker(st store.Store, bufferSize, batchSize int, flushInterval time.Duration, log *logger.Logger) UsageWorker {
	worker := &usageWorker{
		store:         st,
		log:           log,
		queue:         make(chan model.UsageEvent, bufferSize),
		batchSize:     batchSize,
		flushInterval: flushInterval,
	}
	worker.wg.Add(1)
	go worker.run()
	return worker
}

// Enqueue blocks when the buffer is full, which backpressures the HTTP
// layer instead of dropping events.
func (w *usageWorker) Enqueue(event model.UsageEvent) {
	w.queue <- event
}

// Shutdown drains the queue and flushes whatever is pending.
func (w *usageWorker) Shutdown() {
	close(w.queue)
	w.wg.Wait()
}

func (w *usageWorker) run() {
	defer w.wg.Done()

	var batch []model.UsageEvent
	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.queue:
			if !ok {
				if len(batch) > 0 {
					w.flush(batch)
				}
				return
			}

			batch = append(batch, event)
			if len(batch) >= w.batchSize {
				w.flush(batch)
				batch = nil
			}

		case <-ticker.C:
			if len(batch) > 0 {
				w.flush(batch)
				batch = nil
			}
		}
	}
}

func (w *usageWorker) flush(events []model.UsageEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := w.store.RecordUsageBatch(ctx, events); err != nil {
		w.log.Errorw("usage batch flush failed", "count", len(events), "error", err)
		return
	}
	w.log.Debugw("usage batch flushed", "count", len(events))
}
