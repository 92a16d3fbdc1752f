package timeline

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Worker is the common interface BackgroundWorker and NonThreaded
// both satisfy, so callers (ProxyCache) don't care which is wired in.
type Worker interface {
	Enqueue(Job)
}

// Job is one unit of background work: WorkFn runs on a
// worker goroutine and must not touch ProjectData; the progress
// callback passed to WorkFn and ResultFn are delivered on the main
// thread via the OnMainThread adapter supplied at construction.
type Job struct {
	Description string
	WorkFn      func(progress func(string)) (interface{}, error)
	ResultFn    func(interface{}, error)
}

// StatusSink receives BackgroundWorker occupancy reports.
type StatusSink interface {
	SetStatus(description string, queueDepth int)
}

// noopStatusSink discards status reports.
type noopStatusSink struct{}

func (noopStatusSink) SetStatus(string, int) {}

// BackgroundWorker is a serial job queue: one job in flight at a
// time, executed on a dedicated goroutine, with progress and result
// callbacks marshaled back through onMainThread.
type BackgroundWorker struct {
	onMainThread func(func())
	sink         StatusSink
	log          *logrus.Entry

	mu    sync.Mutex
	queue []Job

	wake chan struct{}
	once sync.Once
}

// NewBackgroundWorker starts the serial worker goroutine. onMainThread
// must enqueue fn onto the caller's main run loop; it is invoked for
// every progress callback and for the final result callback.
func NewBackgroundWorker(onMainThread func(func()), sink StatusSink, log *logrus.Entry) *BackgroundWorker {
	if sink == nil {
		sink = noopStatusSink{}
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	w := &BackgroundWorker{
		onMainThread: onMainThread,
		sink:         sink,
		log:          log,
		wake:         make(chan struct{}, 1),
	}
	go w.run()
	return w
}

// Enqueue appends job to the queue, waking the worker goroutine.
func (w *BackgroundWorker) Enqueue(job Job) {
	w.mu.Lock()
	w.queue = append(w.queue, job)
	depth := len(w.queue)
	w.mu.Unlock()
	w.sink.SetStatus(job.Description, depth)
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *BackgroundWorker) run() {
	for range w.wake {
		for {
			job, ok := w.pop()
			if !ok {
				break
			}
			w.execute(job)
		}
	}
}

func (w *BackgroundWorker) pop() (Job, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.queue) == 0 {
		return Job{}, false
	}
	job := w.queue[0]
	w.queue = w.queue[1:]
	w.sink.SetStatus(job.Description, len(w.queue))
	return job, true
}

func (w *BackgroundWorker) execute(job Job) {
	progress := func(msg string) {
		w.onMainThread(func() { w.sink.SetStatus(job.Description+": "+msg, len(w.queue)) })
	}
	result, err := func() (result interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				w.log.WithField("job", job.Description).WithField("panic", r).Error("background job panicked")
				err = errFromPanic(r)
			}
		}()
		return job.WorkFn(progress)
	}()
	if err != nil {
		w.log.WithError(err).WithField("job", job.Description).Warn("background job failed")
	}
	if job.ResultFn != nil {
		w.onMainThread(func() { job.ResultFn(result, err) })
	}
}

func errFromPanic(r interface{}) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", r)
}

// NonThreaded runs every job inline, synchronously, on the calling
// goroutine — used by tests that want deterministic ordering without
// spinning up a worker goroutine.
type NonThreaded struct {
	sink StatusSink
}

// NewNonThreaded returns a NonThreaded worker.
func NewNonThreaded(sink StatusSink) *NonThreaded {
	if sink == nil {
		sink = noopStatusSink{}
	}
	return &NonThreaded{sink: sink}
}

// Enqueue runs job immediately and delivers its result inline.
func (n *NonThreaded) Enqueue(job Job) {
	n.sink.SetStatus(job.Description, 0)
	progress := func(msg string) { n.sink.SetStatus(job.Description+": "+msg, 0) }
	result, err := job.WorkFn(progress)
	if job.ResultFn != nil {
		job.ResultFn(result, err)
	}
	n.sink.SetStatus("", 0)
}
