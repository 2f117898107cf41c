package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"pptmcp/internal/comauto"
	"pptmcp/internal/comauto/comfake"
	"pptmcp/internal/comerr"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestExecutor(t *testing.T, opts Options) (*Executor, *comfake.Connector) {
	t.Helper()
	conn := comfake.NewConnector()
	mgr := NewManager(conn, ManagerOptions{})
	e := NewExecutor(mgr, opts)
	require.NoError(t, e.Start())
	t.Cleanup(func() { e.Shutdown(true) })
	return e, conn
}

func TestExecutorSubmitBeforeStart(t *testing.T) {
	conn := comfake.NewConnector()
	e := NewExecutor(NewManager(conn, ManagerOptions{}), Options{})

	_, err := e.Submit(context.Background(), func(app comauto.Object) (interface{}, error) {
		return nil, nil
	})
	require.ErrorIs(t, err, ErrNotRunning)
	assert.Equal(t, comerr.KindExecutorNotRunning, comerr.Normalize(err).Kind)

	e.Shutdown(true)
	assert.Equal(t, Stopped, e.State())
}

func TestExecutorStartTwice(t *testing.T) {
	e, _ := newTestExecutor(t, Options{})
	assert.ErrorIs(t, e.Start(), ErrAlreadyStarted)
}

func TestExecutorRunsOnLiveHandle(t *testing.T) {
	e, conn := newTestExecutor(t, Options{})

	val, err := e.Submit(context.Background(), func(app comauto.Object) (interface{}, error) {
		name, err := app.Get("Name")
		if err != nil {
			return nil, err
		}
		return name.String(), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Microsoft PowerPoint", val)
	assert.Equal(t, 1, conn.InitCalls())
	assert.Equal(t, Connected, e.Health())
}

func TestExecutorSerializesConcurrentCallers(t *testing.T) {
	e, _ := newTestExecutor(t, Options{})

	var inside int32
	var counter int // guarded solely by the worker's serialization
	fn := func(app comauto.Object) (interface{}, error) {
		if !atomic.CompareAndSwapInt32(&inside, 0, 1) {
			return nil, errors.New("two requests ran at once")
		}
		counter++
		time.Sleep(100 * time.Microsecond)
		atomic.StoreInt32(&inside, 0)
		return nil, nil
	}

	const callers, perCaller = 10, 10
	var wg sync.WaitGroup
	errs := make([]error, callers*perCaller)
	for g := 0; g < callers; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perCaller; i++ {
				_, errs[g*perCaller+i] = e.Submit(context.Background(), fn)
			}
		}(g)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, callers*perCaller, counter)
}

func TestExecutorFIFOOrder(t *testing.T) {
	e, _ := newTestExecutor(t, Options{})

	gate := make(chan struct{})
	entered := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := e.Submit(context.Background(), func(app comauto.Object) (interface{}, error) {
			close(entered)
			<-gate
			return nil, nil
		})
		assert.NoError(t, err)
	}()
	<-entered

	// Worker is held; enqueue in a known order.
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Submit(context.Background(), func(app comauto.Object) (interface{}, error) {
				order = append(order, i)
				return nil, nil
			})
			assert.NoError(t, err)
		}()
		time.Sleep(30 * time.Millisecond)
	}

	close(gate)
	wg.Wait()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestExecutorBurst(t *testing.T) {
	e, _ := newTestExecutor(t, Options{})

	const total, callers = 100, 10
	results := make([]interface{}, total)
	errs := make([]error, total)
	var wg sync.WaitGroup
	for g := 0; g < callers; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := g; i < total; i += callers {
				i := i
				results[i], errs[i] = e.Submit(context.Background(), func(app comauto.Object) (interface{}, error) {
					return i, nil
				})
			}
		}(g)
	}
	wg.Wait()

	for i := 0; i < total; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, i, results[i])
	}
}

func TestExecutorReconnectsAfterProcessDeath(t *testing.T) {
	e, conn := newTestExecutor(t, Options{})

	_, err := e.Submit(context.Background(), func(app comauto.Object) (interface{}, error) {
		return nil, nil
	})
	require.NoError(t, err)

	conn.Launched()[0].Kill()

	// The failed probe is invisible to the caller: the next request is
	// served by a fresh handle.
	val, err := e.Submit(context.Background(), func(app comauto.Object) (interface{}, error) {
		name, err := app.Get("Name")
		if err != nil {
			return nil, err
		}
		return name.String(), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Microsoft PowerPoint", val)
	assert.Equal(t, 2, conn.LaunchCalls())
}

func TestExecutorRetriesOnceOnConnectionLostMidCall(t *testing.T) {
	e, conn := newTestExecutor(t, Options{})

	var calls int32
	val, err := e.Submit(context.Background(), func(app comauto.Object) (interface{}, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, &comerr.RawError{HResult: 0x800706BA, Message: "The RPC server is unavailable."}
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", val)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, 2, conn.LaunchCalls())
}

func TestExecutorSurfacesFailedRetry(t *testing.T) {
	e, _ := newTestExecutor(t, Options{})

	var calls int32
	_, err := e.Submit(context.Background(), func(app comauto.Object) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return nil, &comerr.RawError{HResult: 0x80010108, Message: "The object invoked has disconnected from its clients."}
	})
	require.Error(t, err)

	var norm *comerr.Error
	require.True(t, errors.As(err, &norm))
	assert.Equal(t, comerr.KindConnectionLost, norm.Kind)
	require.NotNil(t, norm.Retry)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "exactly one retry")
}

func TestExecutorShutdownWithoutDrain(t *testing.T) {
	e, conn := newTestExecutor(t, Options{})

	gate := make(chan struct{})
	entered := make(chan struct{})
	inflight := make(chan error, 1)
	go func() {
		val, err := e.Submit(context.Background(), func(app comauto.Object) (interface{}, error) {
			close(entered)
			<-gate
			return "done", nil
		})
		if err == nil && val != "done" {
			err = fmt.Errorf("unexpected value %v", val)
		}
		inflight <- err
	}()
	<-entered

	const queued = 5
	queuedErrs := make(chan error, queued)
	for i := 0; i < queued; i++ {
		go func() {
			_, err := e.Submit(context.Background(), func(app comauto.Object) (interface{}, error) {
				return nil, nil
			})
			queuedErrs <- err
		}()
	}
	time.Sleep(50 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		e.Shutdown(false)
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	close(gate)
	<-done

	require.NoError(t, <-inflight, "in-flight request completes")
	for i := 0; i < queued; i++ {
		assert.ErrorIs(t, <-queuedErrs, ErrShuttingDown)
	}

	_, err := e.Submit(context.Background(), func(app comauto.Object) (interface{}, error) {
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrNotRunning)
	assert.Equal(t, Stopped, e.State())
	assert.Equal(t, 1, conn.Launched()[0].Releases())
}

func TestExecutorShutdownWithDrain(t *testing.T) {
	e, _ := newTestExecutor(t, Options{})

	gate := make(chan struct{})
	entered := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := e.Submit(context.Background(), func(app comauto.Object) (interface{}, error) {
			close(entered)
			<-gate
			return nil, nil
		})
		assert.NoError(t, err)
	}()
	<-entered

	var completed int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Submit(context.Background(), func(app comauto.Object) (interface{}, error) {
				atomic.AddInt32(&completed, 1)
				return nil, nil
			})
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		e.Shutdown(true)
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	close(gate)
	<-done
	wg.Wait()

	assert.Equal(t, int32(10), atomic.LoadInt32(&completed))
	assert.Equal(t, Stopped, e.State())
}

func TestExecutorDefaultTimeoutLeavesWorkerOccupied(t *testing.T) {
	e, _ := newTestExecutor(t, Options{DefaultCallTimeout: 50 * time.Millisecond})

	release := make(chan struct{})
	var releaseOnce sync.Once
	unblock := func() { releaseOnce.Do(func() { close(release) }) }
	// A failed assertion below must still unblock the worker, or the
	// cleanup Shutdown(true) deadlocks the whole package run.
	defer unblock()

	start := time.Now()
	_, err := e.Submit(context.Background(), func(app comauto.Object) (interface{}, error) {
		<-release
		return nil, nil
	})
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Equal(t, comerr.KindTimeout, comerr.Normalize(err).Kind)
	assert.Less(t, elapsed, 300*time.Millisecond, "caller is released at the deadline")

	// The worker is still stuck inside the first call, so the next
	// request waits behind it even though the first caller is gone.
	// Its context carries a long deadline of its own so the executor's
	// DefaultCallTimeout does not release this caller too.
	next := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, err := e.Submit(ctx, func(app comauto.Object) (interface{}, error) {
			return nil, nil
		})
		next <- err
	}()

	select {
	case <-next:
		t.Fatal("second request ran while the worker was occupied")
	case <-time.After(100 * time.Millisecond):
	}

	unblock()
	require.NoError(t, <-next)
}

func TestExecutorContextDeadline(t *testing.T) {
	e, _ := newTestExecutor(t, Options{})

	release := make(chan struct{})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := e.Submit(ctx, func(app comauto.Object) (interface{}, error) {
		<-release
		return nil, nil
	})
	require.Error(t, err)
	assert.Equal(t, comerr.KindTimeout, comerr.Normalize(err).Kind)
}

func TestExecutorRecyclesStalledWorker(t *testing.T) {
	e, conn := newTestExecutor(t, Options{
		StallCeiling: 60 * time.Millisecond,
	})

	gate := make(chan struct{})
	entered := make(chan struct{})
	stuck := make(chan error, 1)
	go func() {
		_, err := e.Submit(context.Background(), func(app comauto.Object) (interface{}, error) {
			close(entered)
			<-gate
			return nil, nil
		})
		stuck <- err
	}()
	<-entered

	queuedErr := make(chan error, 1)
	go func() {
		_, err := e.Submit(context.Background(), func(app comauto.Object) (interface{}, error) {
			return nil, nil
		})
		queuedErr <- err
	}()

	// Past the ceiling the supervisor abandons the worker; the queued
	// request fails rather than waiting forever behind the stuck one.
	select {
	case err := <-queuedErr:
		require.Error(t, err)
		assert.Equal(t, comerr.KindConnectionLost, comerr.Normalize(err).Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("queued request was never failed")
	}

	// The replacement worker serves new requests on a fresh handle.
	val, err := e.Submit(context.Background(), func(app comauto.Object) (interface{}, error) {
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", val)
	assert.Equal(t, 2, conn.LaunchCalls())

	// The abandoned handle must not have been released out from under
	// the stuck call.
	assert.Equal(t, 0, conn.Launched()[0].Releases())

	close(gate)
	require.NoError(t, <-stuck, "the stuck call still completes for its caller")
}

func TestExecutorAbandonedWorkerDoesNotRetry(t *testing.T) {
	e, conn := newTestExecutor(t, Options{
		StallCeiling: 60 * time.Millisecond,
	})

	gate := make(chan struct{})
	entered := make(chan struct{})
	var stuckCalls int32
	stuck := make(chan error, 1)
	go func() {
		_, err := e.Submit(context.Background(), func(app comauto.Object) (interface{}, error) {
			atomic.AddInt32(&stuckCalls, 1)
			close(entered)
			<-gate
			return nil, &comerr.RawError{HResult: 0x800706BA, Message: "The RPC server is unavailable."}
		})
		stuck <- err
	}()
	<-entered

	// Wait out the recycle: the replacement worker serves a request on a
	// fresh handle while the old one is still stuck.
	require.Eventually(t, func() bool {
		_, err := e.Submit(context.Background(), func(app comauto.Object) (interface{}, error) {
			return nil, nil
		})
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, 2, conn.LaunchCalls())

	// The stuck call now fails with ConnectionLost on the abandoned
	// thread. That thread no longer owns the Manager: it must deliver the
	// failure as-is, without invalidating the replacement's handle,
	// acquiring a new one, or re-running the callable.
	close(gate)
	err := <-stuck
	require.Error(t, err)
	assert.Equal(t, comerr.KindConnectionLost, comerr.Normalize(err).Kind)
	assert.Equal(t, int32(1), atomic.LoadInt32(&stuckCalls), "no retry on the abandoned worker")
	assert.Equal(t, 2, conn.LaunchCalls(), "no handle acquired from the abandoned worker")

	// The replacement's handle was left alone: the next request is served
	// without reconnecting.
	_, err = e.Submit(context.Background(), func(app comauto.Object) (interface{}, error) {
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, conn.LaunchCalls())
}

func TestExecutorContextCancelIsNotATimeout(t *testing.T) {
	e, _ := newTestExecutor(t, Options{})

	release := make(chan struct{})
	defer close(release)

	entered := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-entered
		cancel()
	}()
	_, err := e.Submit(ctx, func(app comauto.Object) (interface{}, error) {
		close(entered)
		<-release
		return nil, nil
	})
	require.Error(t, err)
	norm := comerr.Normalize(err)
	assert.Equal(t, comerr.KindUnknown, norm.Kind)
	assert.Contains(t, norm.Message, "canceled")
}

func TestExecutorRecoversFromHandlerPanic(t *testing.T) {
	e, _ := newTestExecutor(t, Options{})

	_, err := e.Submit(context.Background(), func(app comauto.Object) (interface{}, error) {
		panic("boom")
	})
	require.Error(t, err)
	norm := comerr.Normalize(err)
	assert.Equal(t, comerr.KindUnknown, norm.Kind)
	assert.Contains(t, norm.Message, "handler panic")

	val, err := e.Submit(context.Background(), func(app comauto.Object) (interface{}, error) {
		return "alive", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "alive", val)
}

func TestExecutorThreadInitFailure(t *testing.T) {
	conn := comfake.NewConnector()
	conn.InitErr = errors.New("CoInitializeEx failed")
	mgr := NewManager(conn, ManagerOptions{})
	e := NewExecutor(mgr, Options{})
	require.NoError(t, e.Start())
	defer e.Shutdown(true)

	_, err := e.Submit(context.Background(), func(app comauto.Object) (interface{}, error) {
		return nil, nil
	})
	require.Error(t, err)
	norm := comerr.Normalize(err)
	assert.Equal(t, comerr.KindConnectionLost, norm.Kind)
	assert.Contains(t, norm.Message, "initialization failed")
}

func TestExecutorShutdownIdempotent(t *testing.T) {
	e, _ := newTestExecutor(t, Options{})
	e.Shutdown(true)
	e.Shutdown(true)
	e.Shutdown(false)
	assert.Equal(t, Stopped, e.State())
}
