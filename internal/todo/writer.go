package todo

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

var ErrWriterClosed = errors.New("writer closed")

// Writer persists list snapshots from a single goroutine. Save only records
// the newest snapshot; snapshots superseded before the goroutine gets to
// them are dropped. Failed writes are logged and not retried.
type Writer struct {
	kv     Setter
	logger *log.Logger

	mu      sync.Mutex
	pending []byte
	seq     uint64 // snapshots accepted by Save
	written uint64 // highest seq handed to kv.Set
	settled *sync.Cond

	wake chan struct{}
	quit chan struct{}
	done chan struct{}
	once sync.Once
}

func NewWriter(kv Setter, logger *log.Logger) *Writer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	w := &Writer{
		kv:     kv,
		logger: logger,
		wake:   make(chan struct{}, 1),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	w.settled = sync.NewCond(&w.mu)
	go w.run()
	return w
}

// Save encodes items immediately and queues them for writing. Snapshots saved
// after Close are logged and dropped.
func (w *Writer) Save(items []Item) {
	if w.stopped() {
		w.logger.Warn("writer closed, dropping snapshot", "count", len(items))
		return
	}
	data, err := Encode(items)
	if err != nil {
		w.logger.Error("encode items failed", "err", err)
		return
	}
	w.mu.Lock()
	w.pending = data
	w.seq++
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Flush blocks until every snapshot saved before the call has been written,
// or ctx is done.
func (w *Writer) Flush(ctx context.Context) error {
	w.mu.Lock()
	target := w.seq
	w.mu.Unlock()

	reached := make(chan struct{})
	go func() {
		defer close(reached)
		w.mu.Lock()
		defer w.mu.Unlock()
		for w.written < target && ctx.Err() == nil && !w.stopped() {
			w.settled.Wait()
		}
	}()

	select {
	case <-reached:
		if err := ctx.Err(); err != nil {
			return err
		}
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.written < target {
			return ErrWriterClosed
		}
		return nil
	case <-ctx.Done():
		// Wake the waiter so it observes ctx and exits.
		w.mu.Lock()
		w.mu.Unlock()
		w.settled.Broadcast()
		return ctx.Err()
	}
}

func (w *Writer) stopped() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}

// Close writes any pending snapshot and stops the writer goroutine.
func (w *Writer) Close() error {
	w.once.Do(func() { close(w.quit) })
	<-w.done
	return nil
}

func (w *Writer) run() {
	defer func() {
		w.mu.Lock()
		close(w.done)
		w.mu.Unlock()
		w.settled.Broadcast()
	}()
	for {
		select {
		case <-w.wake:
			w.writePending()
		case <-w.quit:
			w.writePending()
			return
		}
	}
}

func (w *Writer) writePending() {
	w.mu.Lock()
	data, seq := w.pending, w.seq
	w.pending = nil
	w.mu.Unlock()

	if data != nil {
		if err := w.kv.Set(context.Background(), StorageKey, string(data)); err != nil {
			w.logger.Error("persist items failed", "err", err, "bytes", len(data))
		} else {
			w.logger.Debug("items persisted", "bytes", len(data))
		}
	}

	w.mu.Lock()
	if seq > w.written {
		w.written = seq
	}
	w.mu.Unlock()
	w.settled.Broadcast()
}
