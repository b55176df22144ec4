package highscore

import (
	"context"
	"log"
	"sync"
	"time"
)

// Writer saves scores off the game loop. Submit never blocks; when the
// queue is full the oldest pending value is replaced, since only the latest
// score matters.
type Writer struct {
	store   Store
	timeout time.Duration
	ch      chan int
	done    chan struct{}
	once    sync.Once

	sendMu sync.Mutex
	closed bool

	mu   sync.Mutex
	last int
	errs int
}

func NewWriter(store Store, timeout time.Duration) *Writer {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	w := &Writer{
		store:   store,
		timeout: timeout,
		ch:      make(chan int, 1),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *Writer) Submit(score int) {
	w.sendMu.Lock()
	defer w.sendMu.Unlock()
	if w.closed {
		return
	}
	for {
		select {
		case w.ch <- score:
			return
		default:
		}
		select {
		case <-w.ch:
		default:
		}
	}
}

// Close flushes the pending score and waits for the writer to stop.
func (w *Writer) Close() {
	w.once.Do(func() {
		w.sendMu.Lock()
		w.closed = true
		close(w.ch)
		w.sendMu.Unlock()
		<-w.done
	})
}

// Last returns the most recently persisted score.
func (w *Writer) Last() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

func (w *Writer) Errors() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.errs
}

func (w *Writer) run() {
	defer close(w.done)
	for score := range w.ch {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		err := w.store.Save(ctx, score)
		cancel()

		w.mu.Lock()
		if err != nil {
			w.errs++
		} else {
			w.last = score
		}
		w.mu.Unlock()

		if err != nil {
			log.Printf("HighScore: save %d: %v", score, err)
		}
	}
}
