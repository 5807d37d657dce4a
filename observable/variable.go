package observable

import "fmt"

// Variable is an Observable with a blockable write path. While blocked, writes
// land in a pending slot and observers stay quiet; Unblock flushes the pending
// value through the normal change/notify path. The blocked flag is itself an
// Observable so other cells (and Algorithms) can watch it.
type Variable struct {
	Observable

	blocked *Observable
	pending any

	// sources this variable currently tracks, with the observers we
	// registered on each so Untrack can find them again. Tracking the same
	// source twice stacks a second pair; each Untrack pops one.
	following map[*Variable][]*followers
}

type followers struct {
	value   Observer
	blocked Observer
}

// NewVariable returns a Variable with deep value equality and no value.
func NewVariable(initial any) *Variable {
	return NewVariableWith(Equal, initial)
}

// NewIdentityVariable compares by identity instead of deep equality.
func NewIdentityVariable(initial any) *Variable {
	return NewVariableWith(Identical, initial)
}

// NewAlwaysNotifyVariable notifies observers on every unblocked Set.
// Do not Link two of these; the cycle never stabilizes.
func NewAlwaysNotifyVariable(initial any) *Variable {
	return NewVariableWith(AlwaysDifferent, initial)
}

// NewVariableWith injects a custom equality strategy.
func NewVariableWith(equals EqualityFunc, initial any) *Variable {
	return &Variable{
		Observable: Observable{value: initial, equals: equals},
		blocked:    NewObservable(false),
	}
}

// Blocked exposes the blocked flag as an observable boolean cell.
func (v *Variable) Blocked() *Observable { return v.blocked }

// IsBlocked reports whether writes are currently buffered.
func (v *Variable) IsBlocked() bool {
	b, _ := v.blocked.Get().(bool)
	return b
}

// Get returns the pending value while blocked, else the underlying value.
func (v *Variable) Get() any {
	if v.IsBlocked() {
		return v.pending
	}
	return v.Observable.Get()
}

// Set stores v, or buffers it in the pending slot while blocked. Buffered
// writes skip the equality test and fire nobody; the last one wins at Unblock.
func (v *Variable) Set(value any) error {
	if v.IsBlocked() {
		v.pending = value
		return nil
	}
	return v.write(value)
}

// write is the unconditional path: equality test plus notification,
// bypassing the blocked check.
func (v *Variable) write(value any) error {
	return v.Observable.Set(value)
}

// Block snapshots the current logical value into the pending slot and flips
// the blocked flag to true, notifying its observers. No-op while blocked.
func (v *Variable) Block() error {
	if v.IsBlocked() {
		return nil
	}
	v.pending = v.Get()
	return v.blocked.Set(true)
}

// Unblock flushes the pending value through the unconditional write path and
// then flips the blocked flag to false. The value notification fires before
// the blocked=false notification. No-op while unblocked.
func (v *Variable) Unblock() error {
	if !v.IsBlocked() {
		return nil
	}
	if err := v.write(v.pending); err != nil {
		return err
	}
	return v.blocked.Set(false)
}

// SetBlocked dispatches to Block or Unblock, so a cell can mirror another
// cell's blocked flag through a subscription.
func (v *Variable) SetBlocked(blocked bool) error {
	if blocked {
		return v.Block()
	}
	return v.Unblock()
}

// Coalesce blocks v, runs fn, and unblocks on every exit path, panics
// included. Observers see at most the final value written inside fn.
func (v *Variable) Coalesce(fn func() error) (err error) {
	if err = v.Block(); err != nil {
		return err
	}
	defer func() {
		uerr := v.Unblock()
		if err == nil {
			err = uerr
		}
	}()
	return fn()
}

type valueFollower struct{ target *Variable }

func (f *valueFollower) OnChange(value any) error { return f.target.Set(value) }

type blockedFollower struct{ target *Variable }

func (f *blockedFollower) OnChange(value any) error {
	b, _ := value.(bool)
	return f.target.SetBlocked(b)
}

// Track makes v follow source unidirectionally: source's blocked transitions
// drive v's blocked flag, source's value changes drive v's value, and source's
// current value is pulled immediately. Source's current blocked state is NOT
// pulled — only future transitions propagate. Intentional asymmetry, kept
// from the original design.
func (v *Variable) Track(source *Variable) error {
	f := &followers{
		value:   &valueFollower{target: v},
		blocked: &blockedFollower{target: v},
	}
	source.blocked.Observe(f.blocked)
	source.Observe(f.value)
	if v.following == nil {
		v.following = map[*Variable][]*followers{}
	}
	v.following[source] = append(v.following[source], f)
	return v.Set(source.Get())
}

// Untrack removes both subscriptions installed by Track and forces v's
// blocked flag to false, whatever it was, so a detached cell is never left
// stuck blocked. The pending slot is not flushed.
func (v *Variable) Untrack(source *Variable) error {
	fs := v.following[source]
	if len(fs) == 0 {
		return fmt.Errorf("untrack: %w", ErrNotObserved)
	}
	f := fs[len(fs)-1]
	if err := source.blocked.Unobserve(f.blocked); err != nil {
		return err
	}
	if err := source.Unobserve(f.value); err != nil {
		return err
	}
	if fs = fs[:len(fs)-1]; len(fs) == 0 {
		delete(v.following, source)
	} else {
		v.following[source] = fs
	}
	return v.blocked.Set(false)
}

// Link ties a and b together bidirectionally: each tracks the other. The
// second Track wins at establishment, so after Link(a, b) both hold a's value
// (b pulls a first, then a pulls b's fresh copy of the same value).
//
// Linking creates a reference cycle between the two cells; call Unlink when
// done with the pair. While both are blocked they may diverge; the side
// unblocked first decides the value both converge to.
func Link(a, b *Variable) error {
	if err := b.Track(a); err != nil {
		return err
	}
	return a.Track(b)
}

// Unlink breaks both directions of a Link.
func Unlink(a, b *Variable) error {
	if err := a.Untrack(b); err != nil {
		return err
	}
	return b.Untrack(a)
}
