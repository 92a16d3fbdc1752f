package timeline

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNonThreadedRunsInlineAndDeliversResult(t *testing.T) {
	worker := NewNonThreaded(nil)
	var result interface{}
	var resultErr error
	var done bool

	worker.Enqueue(Job{
		Description: "test job",
		WorkFn: func(progress func(string)) (interface{}, error) {
			progress("halfway")
			return 42, nil
		},
		ResultFn: func(r interface{}, err error) {
			result = r
			resultErr = err
			done = true
		},
	})

	assert.True(t, done)
	assert.NoError(t, resultErr)
	assert.Equal(t, 42, result)
}

func TestNonThreadedDeliversWorkErrorToResult(t *testing.T) {
	worker := NewNonThreaded(nil)
	var gotErr error

	worker.Enqueue(Job{
		WorkFn: func(progress func(string)) (interface{}, error) {
			return nil, errors.New("boom")
		},
		ResultFn: func(_ interface{}, err error) {
			gotErr = err
		},
	})

	assert.EqualError(t, gotErr, "boom")
}

func TestBackgroundWorkerRunsJobOnSeparateGoroutine(t *testing.T) {
	var mu sync.Mutex
	var pending []func()
	onMainThread := func(fn func()) {
		mu.Lock()
		pending = append(pending, fn)
		mu.Unlock()
	}

	worker := NewBackgroundWorker(onMainThread, nil, nil)

	done := make(chan struct{})
	worker.Enqueue(Job{
		Description: "compute",
		WorkFn: func(progress func(string)) (interface{}, error) {
			return "ok", nil
		},
		ResultFn: func(result interface{}, err error) {
			assert.NoError(t, err)
			assert.Equal(t, "ok", result)
			close(done)
		},
	})

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		fns := pending
		pending = nil
		mu.Unlock()
		for _, fn := range fns {
			fn()
		}
		select {
		case <-done:
			return
		case <-deadline:
			t.Fatal("background job did not complete in time")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestBackgroundWorkerRecoversPanic(t *testing.T) {
	var mu sync.Mutex
	var pending []func()
	onMainThread := func(fn func()) {
		mu.Lock()
		pending = append(pending, fn)
		mu.Unlock()
	}

	worker := NewBackgroundWorker(onMainThread, nil, nil)

	done := make(chan struct{})
	worker.Enqueue(Job{
		Description: "panics",
		WorkFn: func(progress func(string)) (interface{}, error) {
			panic("kaboom")
		},
		ResultFn: func(_ interface{}, err error) {
			assert.Error(t, err)
			close(done)
		},
	})

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		fns := pending
		pending = nil
		mu.Unlock()
		for _, fn := range fns {
			fn()
		}
		select {
		case <-done:
			return
		case <-deadline:
			t.Fatal("background job did not complete in time")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}
