package concurrent

import "context"

// Group collects futures of different result types that must all resolve before their results are used. Each
// result is written to the destination supplied at submission time once Wait is called.
type Group struct {
	runner  GoroutineRunner
	waiters []func(context.Context) error
}

func NewGroup(runner GoroutineRunner) *Group {
	return &Group{runner: runner}
}

// SubmitInto starts fn on the group's runner. The result is stored in dst by Wait.
func SubmitInto[T any](ctx context.Context, g *Group, dst *T, fn func() (T, error)) error {
	future, err := SubmitFuture(ctx, g.runner, fn)
	if err != nil {
		return err
	}
	g.waiters = append(g.waiters, func(ctx context.Context) error {
		res, err := future.Get(ctx)
		if err != nil {
			return err
		}
		*dst = res
		return nil
	})
	return nil
}

// Wait resolves every submitted future in submission order and returns the first error.
func (g *Group) Wait(ctx context.Context) error {
	for _, w := range g.waiters {
		if err := w(ctx); err != nil {
			return err
		}
	}
	return nil
}
