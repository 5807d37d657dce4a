package observable

import "fmt"

// UpdateFunc is an Algorithm's recompute step. It reads inputs and writes
// outputs; any error propagates to the mutation that triggered it.
type UpdateFunc func(a *Algorithm) error

// Port declares one named input or output variable of an Algorithm.
// Exactly one of Cell/Seed/neither is used: a pre-built Cell is adopted as-is,
// otherwise New (default NewVariable) is called with Seed.
type Port struct {
	Name string
	Cell *Variable
	Seed any
	New  func(initial any) *Variable
}

// Config declares an Algorithm's ports, in order, plus its starting enabled
// state. The port set is fixed for the algorithm's lifetime.
type Config struct {
	Inputs  []Port
	Outputs []Port
	Enabled bool
}

// Algorithm wires a fixed set of input variables to a fixed set of output
// variables through an update step. The step re-runs whenever an input value
// changes, an input's blocked flag changes, or enabled changes — but only
// while enabled is true and no input is blocked. outputsBlocked mirrors that
// gate onto every output's blocked flag, so a blocked burst upstream reaches
// downstream observers as a single notification.
type Algorithm struct {
	inputs  []*Variable
	outputs []*Variable
	ports   map[string]*Variable

	enabled        *Observable
	outputsBlocked *Observable

	update UpdateFunc
}

type reevaluator struct{ a *Algorithm }

func (r *reevaluator) OnChange(any) error { return r.a.refresh() }

type outputGate struct{ out *Variable }

func (g *outputGate) OnChange(value any) error {
	b, _ := value.(bool)
	return g.out.SetBlocked(b)
}

// NewAlgorithm builds and wires an Algorithm from its declaration. The gate
// is evaluated once before returning; if it is open, update runs immediately
// with whatever values the ports hold.
func NewAlgorithm(cfg Config, update UpdateFunc) (*Algorithm, error) {
	if update == nil {
		return nil, &ConfigError{Reason: "nil update func"}
	}

	a := &Algorithm{
		ports:          map[string]*Variable{},
		enabled:        NewObservable(cfg.Enabled),
		outputsBlocked: NewObservable(false),
		update:         update,
	}

	reeval := &reevaluator{a: a}
	a.enabled.Observe(reeval)

	for _, p := range cfg.Inputs {
		in, err := a.addPort(p)
		if err != nil {
			return nil, err
		}
		a.inputs = append(a.inputs, in)
		in.Blocked().Observe(reeval)
		in.Observe(reeval)
	}
	for _, p := range cfg.Outputs {
		out, err := a.addPort(p)
		if err != nil {
			return nil, err
		}
		a.outputs = append(a.outputs, out)
		a.outputsBlocked.Observe(&outputGate{out: out})
	}

	if err := a.refresh(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Algorithm) addPort(p Port) (*Variable, error) {
	if p.Name == "" {
		return nil, &ConfigError{Reason: "port with empty name"}
	}
	if _, dup := a.ports[p.Name]; dup {
		return nil, &ConfigError{Reason: fmt.Sprintf("duplicate port %q", p.Name)}
	}
	cell := p.Cell
	if cell == nil {
		build := p.New
		if build == nil {
			build = NewVariable
		}
		cell = build(p.Seed)
	}
	a.ports[p.Name] = cell
	return cell, nil
}

// refresh re-checks the gate and, if open, runs the update step. The
// outputsBlocked write comes last on purpose: when the gate opens, outputs
// are still blocked while update writes them, so they flush and notify once.
func (a *Algorithm) refresh() error {
	enabled, _ := a.enabled.Get().(bool)
	blocked := !enabled
	if !blocked {
		for _, in := range a.inputs {
			if in.IsBlocked() {
				blocked = true
				break
			}
		}
	}
	if !blocked {
		if err := a.update(a); err != nil {
			return err
		}
	}
	return a.outputsBlocked.Set(blocked)
}

// Update forces one run of the recompute step, gate or no gate.
func (a *Algorithm) Update() error { return a.update(a) }

// Input returns the named input variable, or nil.
func (a *Algorithm) Input(name string) *Variable { return a.lookup(name, a.inputs) }

// Output returns the named output variable, or nil.
func (a *Algorithm) Output(name string) *Variable { return a.lookup(name, a.outputs) }

func (a *Algorithm) lookup(name string, among []*Variable) *Variable {
	cell := a.ports[name]
	for _, v := range among {
		if v == cell {
			return cell
		}
	}
	return nil
}

// Inputs returns the input variables in declaration order.
func (a *Algorithm) Inputs() []*Variable { return a.inputs }

// Outputs returns the output variables in declaration order.
func (a *Algorithm) Outputs() []*Variable { return a.outputs }

// Enabled exposes the enable flag as an observable boolean cell.
func (a *Algorithm) Enabled() *Observable { return a.enabled }

// SetEnabled toggles the gate; enabling with no input blocked runs update.
func (a *Algorithm) SetEnabled(enabled bool) error { return a.enabled.Set(enabled) }

// OutputsBlocked exposes the aggregate gate: true iff disabled or any input
// is blocked.
func (a *Algorithm) OutputsBlocked() *Observable { return a.outputsBlocked }
