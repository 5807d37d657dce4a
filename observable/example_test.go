package observable_test

import (
	"fmt"
	"testing"

	"github.com/delaneyj/observerparty/observable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdderExampleCascade(t *testing.T) {
	//  i1 ──┐
	//       ├─ a1 ── c ──┐
	//  i2 ──┘            ├─ a2 ── c
	//  i3 ───────────────┘
	inputs, a1, a2, err := observable.AdderExample()
	require.NoError(t, err)

	var a1Log, a2Log []any
	a1.Output("c").Observe(recordInto(&a1Log))
	a2.Output("c").Observe(recordInto(&a2Log))

	require.NoError(t, inputs[0].Set(1))
	assert.Equal(t, []any{1}, a1Log)
	assert.Equal(t, []any{1}, a2Log)
}

func TestAdderExampleCoalescedBurstFiresOnce(t *testing.T) {
	// Coalescing all three inputs, each adder output fires exactly once
	// with the net result even though two inputs feed a1 and a1 feeds a2.
	inputs, a1, a2, err := observable.AdderExample()
	require.NoError(t, err)
	require.NoError(t, inputs[0].Set(1))

	var a1Log, a2Log []any
	a1.Output("c").Observe(recordInto(&a1Log))
	a2.Output("c").Observe(recordInto(&a2Log))

	err = inputs[0].Coalesce(func() error {
		return inputs[1].Coalesce(func() error {
			return inputs[2].Coalesce(func() error {
				if err := inputs[0].Set(6); err != nil {
					return err
				}
				if err := inputs[1].Set(5); err != nil {
					return err
				}
				return inputs[2].Set(4)
			})
		})
	})
	require.NoError(t, err)

	assert.Equal(t, []any{11}, a1Log, "a1 fires once: 6+5")
	assert.Equal(t, []any{15}, a2Log, "a2 fires once: 11+4")
}

func ExampleVariable_Coalesce() {
	v := observable.NewVariable(nil)
	v.Observe(observable.ObserverFunc(func(value any) error {
		fmt.Printf("v: %v\n", value)
		return nil
	}))

	_ = v.Set(3)
	_ = v.Coalesce(func() error {
		_ = v.Set(4)
		return v.Set(5)
	})
	// Output:
	// v: 3
	// v: 5
}

func ExampleVariable_Plus() {
	v1 := observable.NewVariable(3)
	v2, _ := v1.Plus(3)
	v3, _ := v2.DividedBy(5)

	_ = v1.Set(27)
	fmt.Println(v3.Get())
	// Output:
	// 6
}
