package cache

import "sync"

// Writer runs cache-population tasks on a small worker pool, keeping store
// latency off the response path. Submission never blocks: when the queue is
// full the task is dropped (the cache is an optimization, not a requirement).
type Writer struct {
	q    chan func()
	wg   sync.WaitGroup
	once sync.Once
}

// NewWriter starts a pool of workers draining a queue of qlen tasks.
func NewWriter(workers, qlen int) *Writer {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 256
	}

	w := &Writer{q: make(chan func(), qlen)}
	w.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer w.wg.Done()
			for task := range w.q {
				task()
			}
		}()
	}
	return w
}

// Submit enqueues task without blocking. It reports false when the queue is
// full and the task was dropped.
func (w *Writer) Submit(task func()) bool {
	select {
	case w.q <- task:
		return true
	default:
		return false
	}
}

// Close stops accepting tasks and waits for queued ones to finish.
func (w *Writer) Close() {
	w.once.Do(func() {
		close(w.q)
		w.wg.Wait()
	})
}
