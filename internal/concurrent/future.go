package concurrent

import "context"

type (
	result[T any] struct {
		err error
		res T
	}

	GoroutineRunner interface {
		// Go starts a go routine and returns an error if the go routine could not be started.
		Go(context.Context, func()) error
	}

	// Future is the pending result of a function started on a GoroutineRunner.
	Future[T any] struct {
		resultChan chan result[T]
	}
)

type SynchronousGoroutineRunner struct{}

// NewSynchronousGoroutineRunner runs every function inline. Use it when the work shares a connection that is not safe
// for concurrent use.
func NewSynchronousGoroutineRunner() GoroutineRunner {
	return &SynchronousGoroutineRunner{}
}

func (r *SynchronousGoroutineRunner) Go(_ context.Context, fn func()) error {
	fn()
	return nil
}

// SubmitFuture starts fn on runner and returns its pending result. It blocks while a limited runner has no free slot.
func SubmitFuture[T any](ctx context.Context, runner GoroutineRunner, fn func() (T, error)) (Future[T], error) {
	future := Future[T]{
		resultChan: make(chan result[T], 1),
	}

	if err := runner.Go(ctx, func() {
		res, err := fn()
		future.resultChan <- result[T]{
			err: err,
			res: res,
		}
	}); err != nil {
		return Future[T]{}, err
	}

	return future, nil
}

func (f Future[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-ctx.Done():
		var zeroVal T
		return zeroVal, ctx.Err()
	case res := <-f.resultChan:
		// Put the result back so later calls see it too. The channel has room for exactly one.
		f.resultChan <- res
		return res.res, res.err
	}
}
