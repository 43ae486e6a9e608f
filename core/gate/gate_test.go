package gate_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailhaven/webserve/core/gate"
)

func TestGate_EnterExitStress(t *testing.T) {
	t.Parallel()

	g := gate.New()

	const workers = 100
	const rounds = 200

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				g.Enter()
				assert.GreaterOrEqual(t, g.InFlight(), int64(1))
				g.Exit()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(0), g.InFlight(), "counter must return to zero")
}

func TestGate_WaitUntilIdle(t *testing.T) {
	t.Parallel()

	t.Run("returns immediately when already idle", func(t *testing.T) {
		t.Parallel()

		g := gate.New()
		release, idle := g.WaitUntilIdle(context.Background(), 0)
		defer release()
		assert.True(t, idle)
	})

	t.Run("waits for an in-flight request to finish", func(t *testing.T) {
		t.Parallel()

		g := gate.New(gate.WithTickInterval(5 * time.Millisecond))
		g.Enter()

		done := make(chan struct{})
		go func() {
			time.Sleep(30 * time.Millisecond)
			g.Exit()
			close(done)
		}()

		release, idle := g.WaitUntilIdle(context.Background(), 0)
		defer release()
		require.True(t, idle)
		<-done
	})

	t.Run("gives up after the tick budget instead of hanging", func(t *testing.T) {
		t.Parallel()

		g := gate.New(gate.WithTickInterval(time.Millisecond), gate.WithTickBudget(10))
		g.Enter() // never exits
		defer g.Exit()

		start := time.Now()
		release, idle := g.WaitUntilIdle(context.Background(), 0)
		release()

		assert.False(t, idle)
		assert.Less(t, time.Since(start), time.Second, "bounded wait must not spin forever")
	})

	t.Run("observes shutdown signal", func(t *testing.T) {
		t.Parallel()

		g := gate.New(gate.WithTickInterval(time.Hour)) // only cancellation can end the wait
		g.Enter()
		defer g.Exit()

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		release, idle := g.WaitUntilIdle(ctx, 0)
		release()
		assert.False(t, idle)
	})

	t.Run("blocks new admissions while held", func(t *testing.T) {
		t.Parallel()

		g := gate.New()
		release, idle := g.WaitUntilIdle(context.Background(), 0)
		require.True(t, idle)

		admitted := make(chan struct{})
		go func() {
			g.Enter()
			defer g.Exit()
			close(admitted)
		}()

		select {
		case <-admitted:
			t.Fatal("request admitted while the gate was held")
		case <-time.After(50 * time.Millisecond):
		}

		release()
		select {
		case <-admitted:
		case <-time.After(time.Second):
			t.Fatal("request never admitted after release")
		}
	})
}

func TestGate_HangingExemption(t *testing.T) {
	t.Parallel()

	g := gate.New(gate.WithTickInterval(time.Millisecond))
	g.Enter()

	// A hanging activity is counted while queued but not while working, so
	// a quiesce wait proceeds despite the long-running request.
	g.BeginHanging()
	release, idle := g.WaitUntilIdle(context.Background(), 0)
	release()
	assert.True(t, idle)

	g.EndHanging()
	assert.Equal(t, int64(1), g.InFlight())
	g.Exit()
	assert.Equal(t, int64(0), g.InFlight())
}
