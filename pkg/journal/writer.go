package journal

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"mercator-hq/waypoint/pkg/proxy"
	"mercator-hq/waypoint/pkg/telemetry/logging"
	"mercator-hq/waypoint/pkg/telemetry/metrics"
)

const writeTimeout = 5 * time.Second

// Writer queues session summaries and writes them on a background goroutine.
type Writer struct {
	store   *Store
	entries chan *Entry
	done    chan struct{}
	wg      sync.WaitGroup

	// mu orders every send on entries before close(done), so run drains
	// all accepted entries.
	mu     sync.RWMutex
	closed bool

	collector *metrics.Collector
	logger    *logging.Logger

	dropped atomic.Int64
	written atomic.Int64
}

var _ proxy.Recorder = (*Writer)(nil)

// NewWriter starts a writer with room for buffer pending entries.
func NewWriter(store *Store, buffer int, collector *metrics.Collector, logger *logging.Logger) *Writer {
	if buffer <= 0 {
		buffer = 1
	}

	w := &Writer{
		store:     store,
		entries:   make(chan *Entry, buffer),
		done:      make(chan struct{}),
		collector: collector,
		logger:    logger.With("component", "journal.writer"),
	}

	w.wg.Add(1)
	go w.run()
	return w
}

// Record enqueues a summary. It drops the entry when the buffer is full or
// the writer is closed.
func (w *Writer) Record(s proxy.Summary) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		w.drop(s, "closed")
		return
	}

	select {
	case w.entries <- EntryFromSummary(s):
	default:
		w.drop(s, "buffer full")
	}
}

func (w *Writer) drop(s proxy.Summary, reason string) {
	w.dropped.Add(1)
	w.collector.RecordJournalDrop()
	w.logger.Warn("Dropping journal entry", "session_id", s.SessionID, "reason", reason)
}

// Dropped returns the number of entries that were not queued.
func (w *Writer) Dropped() int64 {
	return w.dropped.Load()
}

// Written returns the number of entries stored.
func (w *Writer) Written() int64 {
	return w.written.Load()
}

// Close stops accepting entries, writes everything already queued and waits
// for the background goroutine to exit.
func (w *Writer) Close() error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.done)
	}
	w.mu.Unlock()

	w.wg.Wait()
	return nil
}

func (w *Writer) run() {
	defer w.wg.Done()

	for {
		select {
		case e := <-w.entries:
			w.write(e)
		case <-w.done:
			for {
				select {
				case e := <-w.entries:
					w.write(e)
				default:
					return
				}
			}
		}
	}
}

func (w *Writer) write(e *Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := w.store.Insert(ctx, e); err != nil {
		w.logger.Error("Failed to write journal entry", "session_id", e.SessionID, "error", err)
		return
	}
	w.written.Add(1)
}
