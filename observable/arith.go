package observable

import "math"

// Binary arithmetic algorithms over dynamic values. Each declares inputs
// "a", "b" and output "c", starts enabled, and propagates absence: if either
// operand is nil the result is nil, never an error.

type binaryOp func(x, y any) (any, error)

func newBinary(op binaryOp) (*Algorithm, error) {
	return NewAlgorithm(Config{
		Inputs:  []Port{{Name: "a"}, {Name: "b"}},
		Outputs: []Port{{Name: "c"}},
		Enabled: true,
	}, func(a *Algorithm) error {
		x, y := a.Input("a").Get(), a.Input("b").Get()
		if x == nil || y == nil {
			return a.Output("c").Set(nil)
		}
		result, err := op(x, y)
		if err != nil {
			return err
		}
		return a.Output("c").Set(result)
	})
}

// NewAdd sums numbers; two strings concatenate.
func NewAdd() (*Algorithm, error) { return newBinary(addValues) }

// NewSubtract computes a - b.
func NewSubtract() (*Algorithm, error) { return newBinary(subValues) }

// NewMultiply computes a * b.
func NewMultiply() (*Algorithm, error) { return newBinary(mulValues) }

// NewDivide computes a / b. Integer division floors; a zero divisor is an
// error that propagates to the write that triggered the recompute.
func NewDivide() (*Algorithm, error) { return newBinary(divValues) }

// Operation instantiates a binary algorithm and wires operands into its
// inputs: a *Variable operand is tracked, anything else is written as a
// literal. Returns the algorithm's single output cell, so derived cells
// compose without manual bookkeeping.
func Operation(build func() (*Algorithm, error), operands ...any) (*Variable, error) {
	a, err := build()
	if err != nil {
		return nil, err
	}
	ins := a.Inputs()
	if len(operands) > len(ins) {
		return nil, &ConfigError{Reason: "more operands than inputs"}
	}
	for i, operand := range operands {
		in := ins[i]
		if src, ok := operand.(*Variable); ok {
			err = in.Track(src)
		} else {
			err = in.Set(operand)
		}
		if err != nil {
			return nil, err
		}
	}
	return a.Outputs()[0], nil
}

// Plus returns a derived cell holding v + x, where x is a cell or a literal.
func (v *Variable) Plus(x any) (*Variable, error) { return Operation(NewAdd, v, x) }

// Minus returns a derived cell holding v - x.
func (v *Variable) Minus(x any) (*Variable, error) { return Operation(NewSubtract, v, x) }

// Times returns a derived cell holding v * x.
func (v *Variable) Times(x any) (*Variable, error) { return Operation(NewMultiply, v, x) }

// DividedBy returns a derived cell holding v / x.
func (v *Variable) DividedBy(x any) (*Variable, error) { return Operation(NewDivide, v, x) }

// number normalizes the supported numeric kinds. Integers stay integral so
// int math stays exact; anything floating promotes the pair to float64.
type number struct {
	i     int64
	f     float64
	isInt bool
}

func toNumber(v any) (number, bool) {
	switch n := v.(type) {
	case int:
		return number{i: int64(n), isInt: true}, true
	case int8:
		return number{i: int64(n), isInt: true}, true
	case int16:
		return number{i: int64(n), isInt: true}, true
	case int32:
		return number{i: int64(n), isInt: true}, true
	case int64:
		return number{i: n, isInt: true}, true
	case uint:
		return number{i: int64(n), isInt: true}, uint64(n) <= math.MaxInt64
	case uint8:
		return number{i: int64(n), isInt: true}, true
	case uint16:
		return number{i: int64(n), isInt: true}, true
	case uint32:
		return number{i: int64(n), isInt: true}, true
	case uint64:
		return number{i: int64(n), isInt: true}, n <= math.MaxInt64
	case uintptr:
		return number{i: int64(n), isInt: true}, uint64(n) <= math.MaxInt64
	case float32:
		return number{f: float64(n)}, true
	case float64:
		return number{f: n}, true
	}
	return number{}, false
}

func (n number) float() float64 {
	if n.isInt {
		return float64(n.i)
	}
	return n.f
}

func numericOp(name string, x, y any, ints func(a, b int64) (int64, error), floats func(a, b float64) (float64, error)) (any, error) {
	nx, okx := toNumber(x)
	ny, oky := toNumber(y)
	if !okx || !oky {
		return nil, &OperandError{Op: name, X: x, Y: y}
	}
	if nx.isInt && ny.isInt {
		r, err := ints(nx.i, ny.i)
		if err != nil {
			return nil, err
		}
		// int when it fits, int64 when narrowing would truncate (32-bit).
		if n := int(r); int64(n) == r {
			return n, nil
		}
		return r, nil
	}
	r, err := floats(nx.float(), ny.float())
	if err != nil {
		return nil, err
	}
	return r, nil
}

func addValues(x, y any) (any, error) {
	if xs, ok := x.(string); ok {
		if ys, ok := y.(string); ok {
			return xs + ys, nil
		}
	}
	return numericOp("add", x, y,
		func(a, b int64) (int64, error) { return a + b, nil },
		func(a, b float64) (float64, error) { return a + b, nil })
}

func subValues(x, y any) (any, error) {
	return numericOp("subtract", x, y,
		func(a, b int64) (int64, error) { return a - b, nil },
		func(a, b float64) (float64, error) { return a - b, nil })
}

func mulValues(x, y any) (any, error) {
	return numericOp("multiply", x, y,
		func(a, b int64) (int64, error) { return a * b, nil },
		func(a, b float64) (float64, error) { return a * b, nil })
}

func divValues(x, y any) (any, error) {
	return numericOp("divide", x, y,
		func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, ErrDivideByZero
			}
			// floor, not truncate: -7/2 is -4
			q := a / b
			if a%b != 0 && (a < 0) != (b < 0) {
				q--
			}
			return q, nil
		},
		func(a, b float64) (float64, error) {
			if b == 0 {
				return 0, ErrDivideByZero
			}
			return a / b, nil
		})
}
