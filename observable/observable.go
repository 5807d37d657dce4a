// Package observable is a small push-based reactive value engine. Observables
// hold a value and notify observers synchronously on change; Variables add a
// blockable write path so a burst of writes can be coalesced into a single
// notification; Algorithms wire input variables to output variables through a
// recompute step that re-runs automatically.
//
// The whole graph is single-threaded and re-entrant: a Set runs the entire
// transitive propagation before returning, and an observer may itself write to
// other cells in the same graph. There is no scheduler and no locking; if you
// need cross-goroutine access, wrap the whole graph in your own mutex.
package observable

import (
	"fmt"
	"reflect"
)

// Observer is the notification capability. OnChange receives the new value.
// A non-nil error aborts the remaining fan-out and propagates synchronously to
// whoever performed the original write.
//
// Observers are compared by interface identity in Unobserve, so register
// pointer values (ObserverFunc already does).
type Observer interface {
	OnChange(value any) error
}

type observerFunc struct {
	fn func(value any) error
}

func (o *observerFunc) OnChange(value any) error { return o.fn(value) }

// ObserverFunc wraps a plain function as an Observer. Each call returns a
// distinct identity; keep the result if you intend to Unobserve it later.
func ObserverFunc(fn func(value any) error) Observer {
	return &observerFunc{fn: fn}
}

// EqualityFunc decides whether a write actually changed the value. Returning
// an error aborts the write; the error surfaces as an *EqualityError.
type EqualityFunc func(old, new any) (bool, error)

// Equal is the default strategy: deep value equality, never errors.
func Equal(old, new any) (bool, error) {
	return reflect.DeepEqual(old, new), nil
}

// Identical compares by identity, like pointer equality. Reference kinds
// compare their data pointer; everything else falls back to value equality.
func Identical(old, new any) (bool, error) {
	if old == nil || new == nil {
		return old == nil && new == nil, nil
	}
	ro, rn := reflect.ValueOf(old), reflect.ValueOf(new)
	if ro.Kind() != rn.Kind() {
		return false, nil
	}
	switch ro.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return ro.Pointer() == rn.Pointer(), nil
	}
	return Equal(old, new)
}

// AlwaysDifferent treats every write as a change, so observers always fire.
func AlwaysDifferent(old, new any) (bool, error) {
	return false, nil
}

// Strict compares with the language == operator. Unlike Equal it errors on
// values that are not comparable, which is useful when accidentally storing a
// slice or map should be loud.
func Strict(old, new any) (eq bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return old == new, nil
}

// Observable holds a value and an ordered observer list. Observers fire in
// registration order, synchronously, exactly once per accepted change. The
// same observer may be registered twice and will then fire twice.
//
// The zero value is not usable; use a constructor.
type Observable struct {
	value     any
	observers []Observer
	equals    EqualityFunc
	trace     *Tracer
}

// NewObservable returns an Observable with deep value equality.
func NewObservable(initial any) *Observable {
	return NewObservableWith(Equal, initial)
}

// NewIdentityObservable compares by identity, so two distinct slices with
// equal contents still count as a change.
func NewIdentityObservable(initial any) *Observable {
	return NewObservableWith(Identical, initial)
}

// NewAlwaysNotifyObservable notifies on every Set, changed or not.
func NewAlwaysNotifyObservable(initial any) *Observable {
	return NewObservableWith(AlwaysDifferent, initial)
}

// NewObservableWith injects a custom equality strategy.
func NewObservableWith(equals EqualityFunc, initial any) *Observable {
	return &Observable{value: initial, equals: equals}
}

// Get returns the current value. No side effects.
func (o *Observable) Get() any { return o.value }

// Observe appends obs to the end of the observer list. Registration is not
// deduplicated.
func (o *Observable) Observe(obs Observer) {
	o.observers = append(o.observers, obs)
}

// observeFront prepends, so diagnostic watchers fire before propagation.
func (o *Observable) observeFront(obs Observer) {
	o.observers = append([]Observer{obs}, o.observers...)
}

// Unobserve removes the first registration of obs, or returns ErrNotObserved.
func (o *Observable) Unobserve(obs Observer) error {
	for i, cur := range o.observers {
		if cur == obs {
			o.observers = append(o.observers[:i], o.observers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("unobserve: %w", ErrNotObserved)
}

// Set stores v and notifies every observer with it, in order, unless the
// equality strategy says nothing changed. An equality failure leaves the value
// untouched and returns an *EqualityError carrying both compared values.
func (o *Observable) Set(v any) error {
	same, err := o.equals(o.value, v)
	if err != nil {
		return &EqualityError{Old: o.value, New: v, Err: err}
	}
	if same {
		return nil
	}
	o.value = v
	return o.Notify()
}

// Notify re-fires all observers with the current value, changed or not. Used
// to force downstream re-evaluation.
func (o *Observable) Notify() error {
	if t := o.trace; t != nil {
		t.depth++
		defer func() { t.depth-- }()
	}
	for _, obs := range o.observers {
		if err := obs.OnChange(o.value); err != nil {
			return err
		}
	}
	return nil
}
