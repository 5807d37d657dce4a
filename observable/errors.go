package observable

import (
	"errors"
	"fmt"
)

var (
	// ErrNotObserved is returned by Unobserve (and Untrack) when the given
	// observer is not currently registered. Usually a double-unsubscribe bug.
	ErrNotObserved = errors.New("observer not registered")

	// ErrDivideByZero is returned by Divide when the divisor is zero.
	ErrDivideByZero = errors.New("division by zero")
)

// EqualityError reports that an equality predicate itself failed while a Set
// was deciding whether to notify. The write is never applied.
type EqualityError struct {
	Old, New any
	Err      error
}

func (e *EqualityError) Error() string {
	return fmt.Sprintf("equality test failed comparing %#v and %#v: %v", e.Old, e.New, e.Err)
}

func (e *EqualityError) Unwrap() error { return e.Err }

// ConfigError reports an inconsistent Algorithm declaration. Raised at
// construction, never later.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid algorithm config: " + e.Reason
}

// OperandError reports that an arithmetic algorithm was fed a value kind it
// cannot combine, e.g. a bool into Add.
type OperandError struct {
	Op   string
	X, Y any
}

func (e *OperandError) Error() string {
	return fmt.Sprintf("%s: unsupported operands %T and %T", e.Op, e.X, e.Y)
}
