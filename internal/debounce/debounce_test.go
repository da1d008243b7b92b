package debounce

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBurstDispatchesOnlyLast(t *testing.T) {
	d := New(50 * time.Millisecond)

	var calls int32
	var lastInput atomic.Value
	inputs := []string{"b", "be", "ber", "berk", "berke"}

	var wg sync.WaitGroup
	results := make([]bool, len(inputs))
	for i, in := range inputs {
		wg.Add(1)
		go func(i int, in string) {
			defer wg.Done()
			ran, err := d.Do(context.Background(), func(context.Context) error {
				atomic.AddInt32(&calls, 1)
				lastInput.Store(in)
				return nil
			})
			assert.NoError(t, err)
			results[i] = ran
		}(i, in)
		time.Sleep(5 * time.Millisecond)
	}
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	assert.Equal(t, "berke", lastInput.Load())
	assert.Equal(t, []bool{false, false, false, false, true}, results)
}

func TestSeparatedCallsBothRun(t *testing.T) {
	d := New(5 * time.Millisecond)
	var calls int32
	for i := 0; i < 2; i++ {
		ran, err := d.Do(context.Background(), func(context.Context) error {
			atomic.AddInt32(&calls, 1)
			return nil
		})
		require.NoError(t, err)
		assert.True(t, ran)
	}
	assert.EqualValues(t, 2, calls)
}

func TestErrorPropagates(t *testing.T) {
	d := New(time.Millisecond)
	boom := errors.New("boom")
	ran, err := d.Do(context.Background(), func(context.Context) error { return boom })
	assert.True(t, ran)
	assert.ErrorIs(t, err, boom)
}

func TestContextCancelled(t *testing.T) {
	d := New(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	ran, err := d.Do(ctx, func(context.Context) error {
		t.Fatal("must not run")
		return nil
	})
	assert.False(t, ran)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCancelReleasesWaiter(t *testing.T) {
	d := New(time.Hour)
	done := make(chan bool)
	go func() {
		ran, _ := d.Do(context.Background(), func(context.Context) error { return nil })
		done <- ran
	}()
	tick := time.NewTicker(5 * time.Millisecond)
	defer tick.Stop()
	deadline := time.After(time.Second)
	for {
		select {
		case ran := <-done:
			assert.False(t, ran)
			return
		case <-tick.C:
			d.Cancel()
		case <-deadline:
			t.Fatal("waiter was not released")
		}
	}
}
