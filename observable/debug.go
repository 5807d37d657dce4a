package observable

import (
	"fmt"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"
	mapset "github.com/deckarep/golang-set/v2"
)

// Tracer is a diagnostic aid for watching propagation. It owns the nesting
// depth for the cells it is attached to; there is no package-level counter,
// so independent graphs can be traced independently.
type Tracer struct {
	w     io.Writer
	depth int
}

// NewTracer writes trace lines to w.
func NewTracer(w io.Writer) *Tracer {
	return &Tracer{w: w}
}

func (t *Tracer) indent() string {
	if t.depth <= 1 {
		return ""
	}
	return strings.Repeat("-", t.depth-1)
}

type tracePrinter struct {
	t      *Tracer
	format string
}

func (p *tracePrinter) OnChange(value any) error {
	fmt.Fprintf(p.t.w, p.format, p.t.indent(), value)
	return nil
}

// Printer returns an observer that logs each value it sees as
// "<name>: <value>", indented by the current propagation depth.
func (t *Tracer) Printer(name string) Observer {
	return &tracePrinter{t: t, format: "%s" + name + ": %v\n"}
}

// Watch attaches printers for v's value and blocked flag, ahead of any
// propagation observers so the trace reads top-down, and wires both cells to
// this tracer's depth counter.
func (t *Tracer) Watch(v *Variable, name string) {
	v.trace = t
	v.blocked.trace = t
	v.observeFront(&tracePrinter{t: t, format: "%s" + name + ": %v\n"})
	v.blocked.observeFront(&tracePrinter{t: t, format: "%s" + name + " blocked: %v\n"})
}

// Label returns a short stable display name for a cell, for dumps of cells
// nobody bothered to name.
func Label(v *Variable) string {
	return fmt.Sprintf("cell-%04x", xxhash.Sum64String(fmt.Sprintf("%p", v))&0xffff)
}

// Dump writes v's value, blocked state, and everything it tracks,
// recursively. Linked variables track each other, so the walk carries a
// visited set and an explicit depth instead of trusting the graph to be a
// tree.
func Dump(w io.Writer, v *Variable, name string) {
	dump(w, v, name, 0, mapset.NewThreadUnsafeSet[*Variable]())
}

func dump(w io.Writer, v *Variable, name string, depth int, seen mapset.Set[*Variable]) {
	pad := strings.Repeat("  ", depth)
	if !seen.Add(v) {
		fmt.Fprintf(w, "%s%s: <already shown>\n", pad, name)
		return
	}
	fmt.Fprintf(w, "%s%s: %v (blocked=%v, observers=%d)\n",
		pad, name, v.Get(), v.IsBlocked(), len(v.observers))
	for src := range v.following {
		dump(w, src, "tracks "+Label(src), depth+1, seen)
	}
}
