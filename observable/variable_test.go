package observable_test

import (
	"errors"
	"testing"

	"github.com/delaneyj/observerparty/observable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockingBuffersWrites(t *testing.T) {
	v := observable.NewVariable(3)
	var log []any
	v.Observe(recordInto(&log))

	require.NoError(t, v.Block())
	require.NoError(t, v.Set(4))
	require.NoError(t, v.Set(5))
	assert.Empty(t, log, "no observer may fire while blocked")
	assert.Equal(t, 5, v.Get(), "logical value reads the pending slot while blocked")

	require.NoError(t, v.Unblock())
	assert.Equal(t, []any{5}, log, "exactly one notification with the last buffered value")
	assert.Equal(t, 5, v.Get())
}

func TestUnblockWithoutNetChangeIsSilent(t *testing.T) {
	v := observable.NewVariable(3)
	var log []any
	v.Observe(recordInto(&log))

	require.NoError(t, v.Block())
	require.NoError(t, v.Set(9))
	require.NoError(t, v.Set(3))
	require.NoError(t, v.Unblock())
	assert.Empty(t, log, "pending equals the visible value, nothing changed")
}

func TestIdempotentGating(t *testing.T) {
	v := observable.NewVariable(1)
	var blockedLog []any
	v.Blocked().Observe(recordInto(&blockedLog))

	require.NoError(t, v.Block())
	require.NoError(t, v.Block())
	assert.Equal(t, []any{true}, blockedLog, "second Block is a no-op")

	require.NoError(t, v.Set(2))
	require.NoError(t, v.Unblock())
	require.NoError(t, v.Unblock())
	assert.Equal(t, []any{true, false}, blockedLog, "second Unblock is a no-op")
	assert.Equal(t, 2, v.Get())
}

func TestDoubleBlockKeepsOriginalSnapshot(t *testing.T) {
	// A second Block must not re-snapshot, or an intermediate write would
	// leak into the pending slot's baseline.
	v := observable.NewVariable(1)
	require.NoError(t, v.Block())
	require.NoError(t, v.Set(2))
	require.NoError(t, v.Block())
	assert.Equal(t, 2, v.Get())
	require.NoError(t, v.Unblock())
	assert.Equal(t, 2, v.Get())
}

func TestValueNotificationFiresBeforeBlockedFalse(t *testing.T) {
	v := observable.NewVariable(0)
	var order []string
	v.Observe(observable.ObserverFunc(func(any) error {
		order = append(order, "value")
		return nil
	}))
	v.Blocked().Observe(observable.ObserverFunc(func(b any) error {
		if b == false {
			order = append(order, "unblocked")
		}
		return nil
	}))

	require.NoError(t, v.Block())
	require.NoError(t, v.Set(1))
	require.NoError(t, v.Unblock())
	assert.Equal(t, []string{"value", "unblocked"}, order)
}

func TestCoalesceHidesIntermediates(t *testing.T) {
	v := observable.NewVariable("start")
	var log []any
	v.Observe(recordInto(&log))

	err := v.Coalesce(func() error {
		require.NoError(t, v.Set("hidden one"))
		require.NoError(t, v.Set("hidden two"))
		return v.Set("final")
	})
	require.NoError(t, err)
	assert.Equal(t, []any{"final"}, log)
}

func TestCoalesceUnblocksOnErrorExit(t *testing.T) {
	v := observable.NewVariable(0)
	boom := errors.New("mutation failed")

	err := v.Coalesce(func() error {
		require.NoError(t, v.Set(42))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, v.IsBlocked(), "Unblock must run on every exit path")
	assert.Equal(t, 42, v.Get(), "the buffered value still flushed")
}

func TestCoalesceUnblocksOnPanic(t *testing.T) {
	v := observable.NewVariable(0)
	assert.Panics(t, func() {
		_ = v.Coalesce(func() error {
			panic("mutation panicked")
		})
	})
	assert.False(t, v.IsBlocked())
}

func TestSetWhileBlockedSkipsEqualityTest(t *testing.T) {
	// Buffered writes bypass the equality strategy entirely; a predicate
	// that always fails must only trip on the unblocked flush.
	calls := 0
	v := observable.NewVariableWith(func(old, new any) (bool, error) {
		calls++
		return false, nil
	}, 0)
	require.NoError(t, v.Block())
	calls = 0
	require.NoError(t, v.Set(1))
	require.NoError(t, v.Set(2))
	assert.Equal(t, 0, calls)
	require.NoError(t, v.Unblock())
	assert.Equal(t, 1, calls)
}

func TestVariableObserversSeeDirectWrites(t *testing.T) {
	v := observable.NewVariable(nil)
	var log []any
	v.Observe(recordInto(&log))
	var blockedLog []any
	v.Blocked().Observe(recordInto(&blockedLog))

	require.NoError(t, v.Set("hello"))
	require.NoError(t, v.Block())
	require.NoError(t, v.Set(17))
	require.NoError(t, v.Set(18))
	require.NoError(t, v.Unblock())

	assert.Equal(t, []any{"hello", 18}, log)
	assert.Equal(t, []any{true, false}, blockedLog)
}
