package observable

// Adder ports, used by AdderExample and the demo command.
const (
	adderA = "a"
	adderB = "b"
	adderC = "c"
)

// NewAdder is a plain two-input adder that treats absent inputs as zero,
// unlike NewAdd which propagates absence. Handy for demo wiring where inputs
// connect one at a time.
func NewAdder() (*Algorithm, error) {
	return NewAlgorithm(Config{
		Inputs:  []Port{{Name: adderA, Seed: 0}, {Name: adderB, Seed: 0}},
		Outputs: []Port{{Name: adderC, Seed: 0}},
		Enabled: true,
	}, func(a *Algorithm) error {
		sum, err := addValues(orZero(a.Input(adderA).Get()), orZero(a.Input(adderB).Get()))
		if err != nil {
			return err
		}
		return a.Output(adderC).Set(sum)
	})
}

func orZero(v any) any {
	if v == nil {
		return 0
	}
	return v
}

// AdderExample wires two cascaded adders fed by three input variables:
//
//	i1 ──┐
//	     ├─ a1 ── c ──┐
//	i2 ──┘            ├─ a2 ── c
//	i3 ───────────────┘
//
// Returns the inputs and the two algorithms. Coalescing all three inputs
// makes a2's output fire exactly once with the net sum.
func AdderExample() (inputs [3]*Variable, a1, a2 *Algorithm, err error) {
	if a1, err = NewAdder(); err != nil {
		return inputs, nil, nil, err
	}
	if a2, err = NewAdder(); err != nil {
		return inputs, nil, nil, err
	}
	inputs = [3]*Variable{NewVariable(0), NewVariable(0), NewVariable(0)}

	if err = a2.Input(adderA).Track(a1.Output(adderC)); err != nil {
		return inputs, nil, nil, err
	}
	if err = a1.Input(adderA).Track(inputs[0]); err != nil {
		return inputs, nil, nil, err
	}
	if err = a1.Input(adderB).Track(inputs[1]); err != nil {
		return inputs, nil, nil, err
	}
	if err = a2.Input(adderB).Track(inputs[2]); err != nil {
		return inputs, nil, nil, err
	}
	return inputs, a1, a2, nil
}
