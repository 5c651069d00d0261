package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoopFreeRunningOrder(t *testing.T) {
	var trace []string
	stop := errors.New("stop")
	loop := NewLoop().
		AddController(PrLvControl, ControlFunc(func(cc ControlContext) error {
			trace = append(trace, "control")
			if cc.Iteration() == 3 {
				return Fatal(stop)
			}
			return nil
		})).
		AddController(PrLvSense, ControlFunc(func(cc ControlContext) error {
			require.Equal(t, PrLvSense, cc.PriorityLevel())
			trace = append(trace, "sense")
			return nil
		}))

	err := loop.Run(context.Background())
	require.True(t, errors.Is(err, stop))
	require.True(t, IsFatal(err))
	require.Equal(t, []string{
		"sense", "control",
		"sense", "control",
		"sense", "control",
	}, trace)
	require.Equal(t, uint64(3), loop.Iterations())
}

func TestLoopNonFatalErrorContinues(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var count int
	loop := NewLoop().AddController(PrLvNormal, ControlFunc(func(cc ControlContext) error {
		count++
		if count == 5 {
			cancel()
		}
		return errors.New("transient")
	}))
	err := loop.Run(ctx)
	require.Equal(t, context.Canceled, err)
	require.Equal(t, 5, count)
}

func TestLoopHooks(t *testing.T) {
	var trace []string
	loop := NewLoop()
	loop.AddController(PrLvNormal, ControlFunc(func(cc ControlContext) error {
		trace = append(trace, "ctl")
		switch cc.Iteration() {
		case 1:
			cc.PreRunAt(PrLvLow, ControlFunc(func(ControlContext) error {
				trace = append(trace, "pre")
				return nil
			}))
			cc.PostRun(ControlFunc(func(ControlContext) error {
				trace = append(trace, "post")
				return nil
			}))
		case 2:
			return Fatal(context.DeadlineExceeded)
		}
		return nil
	}))
	err := loop.Run(context.Background())
	require.Equal(t, context.DeadlineExceeded, errors.Unwrap(err))
	require.Equal(t, []string{"ctl", "post", "pre", "ctl"}, trace)
}

func TestLoopIntervalTrigger(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	iterCh := make(chan uint64, 4)
	loop := NewLoop().WithInterval(time.Hour)
	loop.AddController(PrLvNormal, ControlFunc(func(cc ControlContext) error {
		iterCh <- cc.Iteration()
		return nil
	}))
	loop.AddRunnable(RunFunc(func(ctx context.Context) error {
		LoopCtlFrom(ctx).TriggerNext()
		<-ctx.Done()
		return ctx.Err()
	}))

	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(ctx) }()

	select {
	case seq := <-iterCh:
		require.Equal(t, uint64(1), seq)
	case <-time.After(time.Second):
		t.Fatal("iteration not triggered")
	}
	cancel()
	select {
	case err := <-errCh:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("loop not stopped")
	}
}

func TestRunnerAggregatesErrors(t *testing.T) {
	errA, errB := errors.New("a"), errors.New("b")
	r := NewRunner().Go(
		NamedRun("a", RunFunc(func(context.Context) error { return errA })),
		RunFunc(func(context.Context) error { return context.Canceled }),
		RunFunc(func(context.Context) error { return errB }),
	)
	err := r.Wait()
	require.Error(t, err)
	var agg *AggregatedError
	require.True(t, errors.As(err, &agg))
	require.ElementsMatch(t, []error{errA, errB}, agg.Errors)
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil, nil).Aggregate())
	errs.Add(errors.New("one"))
	require.Equal(t, "one", errs.Aggregate().Error())
	errs.Add(errors.New("two"))
	require.Equal(t, "Multiple errors:\none\ntwo", errs.Error())
}
