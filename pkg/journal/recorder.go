package journal

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RecorderConfig contains configuration for the journal recorder.
type RecorderConfig struct {
	// AsyncBuffer is the size of the write channel buffer.
	// Default: 1000
	AsyncBuffer int

	// WriteTimeout bounds each storage write.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// Observer receives one outcome per entry: "written", "failed" or
// "dropped".
type Observer interface {
	ObserveJournal(outcome string)
}

// Recorder writes journal entries in the background so request handling
// never waits on the database.
type Recorder struct {
	storage  Storage
	config   RecorderConfig
	observer Observer
	entries  chan *Entry
	done     chan struct{}
	wg       sync.WaitGroup
	logger   *slog.Logger

	closeMu sync.RWMutex
	closed  bool
}

// NewRecorder starts a recorder over storage. observer may be nil.
func NewRecorder(storage Storage, config RecorderConfig, observer Observer) *Recorder {
	if config.AsyncBuffer <= 0 {
		config.AsyncBuffer = 1000
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 5 * time.Second
	}

	r := &Recorder{
		storage:  storage,
		config:   config,
		observer: observer,
		entries:  make(chan *Entry, config.AsyncBuffer),
		done:     make(chan struct{}),
		logger:   slog.Default().With("component", "journal.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Info("journal recorder initialized",
		"async_buffer", config.AsyncBuffer,
		"write_timeout", config.WriteTimeout,
	)

	return r
}

// Record enqueues entry. It assigns an ID and timestamp when missing and
// never blocks; a full buffer drops the entry and returns ErrBufferFull.
func (r *Recorder) Record(_ context.Context, entry *Entry) error {
	r.closeMu.RLock()
	defer r.closeMu.RUnlock()

	if r.closed {
		return ErrRecorderClosed
	}

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now().UTC()
	}

	select {
	case r.entries <- entry:
		return nil
	default:
		r.observe("dropped")
		r.logger.Warn("journal buffer full, dropping entry",
			"entry_id", entry.ID,
			"request_id", entry.RequestID,
			"capacity", r.config.AsyncBuffer,
		)
		return ErrBufferFull
	}
}

// Close stops accepting entries, drains the buffer and waits for pending
// writes.
func (r *Recorder) Close() error {
	r.closeMu.Lock()
	if r.closed {
		r.closeMu.Unlock()
		return nil
	}
	r.closed = true
	close(r.done)
	r.closeMu.Unlock()

	r.wg.Wait()
	r.logger.Info("journal recorder shut down")
	return nil
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case entry := <-r.entries:
			r.write(entry)

		case <-r.done:
			for {
				select {
				case entry := <-r.entries:
					r.write(entry)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(entry *Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	start := time.Now()
	if err := r.storage.Store(ctx, entry); err != nil {
		r.observe("failed")
		r.logger.Error("failed to store journal entry",
			"entry_id", entry.ID,
			"request_id", entry.RequestID,
			"error", err,
		)
		return
	}
	r.observe("written")

	if d := time.Since(start); d > r.config.WriteTimeout/2 {
		r.logger.Warn("slow journal write",
			"entry_id", entry.ID,
			"duration_ms", d.Milliseconds(),
		)
	}
}

func (r *Recorder) observe(outcome string) {
	if r.observer != nil {
		r.observer.ObserveJournal(outcome)
	}
}
