package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/delaneyj/observerparty/observable"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

const (
	addendKey  = "addend"
	divisorKey = "divisor"
	valueKey   = "values"
)

func main() {
	cmd := &cli.Command{
		Name:  "demo",
		Usage: "Poke at observable graphs from the command line",
		Commands: []*cli.Command{
			{
				Name:   "cascade",
				Usage:  "Drive two cascaded adders, with and without coalescing",
				Action: runCascade,
			},
			{
				Name:  "expr",
				Usage: "Evaluate a derived cell (v + addend) / divisor for a series of inputs",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  addendKey,
						Usage: "Added to every input value",
						Value: 3,
					},
					&cli.IntFlag{
						Name:  divisorKey,
						Usage: "Divides the sum",
						Value: 5,
					},
					&cli.StringFlag{
						Name:  valueKey,
						Usage: "Comma-separated input values written in sequence",
						Value: "0,7,27,102",
					},
				},
				Action: runExpr,
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// eventLog records every notification it observes as a table row.
type eventLog struct {
	rows []table.Row
}

func (l *eventLog) watch(cell string, o *observable.Observable) {
	o.Observe(observable.ObserverFunc(func(v any) error {
		l.rows = append(l.rows, table.Row{len(l.rows) + 1, cell, fmt.Sprintf("%v", v)})
		return nil
	}))
}

func (l *eventLog) render(title string) {
	tbl := table.NewWriter()
	tbl.SetTitle(title)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"#", "cell", "value"})
	tbl.AppendRows(l.rows)
	tbl.Render()
}

func runCascade(ctx context.Context, cmd *cli.Command) error {
	inputs, a1, a2, err := observable.AdderExample()
	if err != nil {
		return err
	}

	events := &eventLog{}
	events.watch("a1.c", &a1.Output("c").Observable)
	events.watch("a2.c", &a2.Output("c").Observable)

	log.Printf("writing i1=1, i2=2, i3=3 one at a time")
	for i, v := range []int{1, 2, 3} {
		if err := inputs[i].Set(v); err != nil {
			return err
		}
	}
	events.render("Uncoalesced: every write ripples through")
	events.rows = nil

	log.Printf("same net change inside a coalescing scope")
	err = inputs[0].Coalesce(func() error {
		return inputs[1].Coalesce(func() error {
			return inputs[2].Coalesce(func() error {
				for i, v := range []int{10, 20, 30} {
					if err := inputs[i].Set(v); err != nil {
						return err
					}
				}
				return nil
			})
		})
	})
	if err != nil {
		return err
	}
	events.render("Coalesced: each adder fires once")
	return nil
}

func runExpr(ctx context.Context, cmd *cli.Command) error {
	addend := int(cmd.Int(addendKey))
	divisor := int(cmd.Int(divisorKey))
	if divisor == 0 {
		return fmt.Errorf("divisor must be nonzero")
	}

	var values []int
	for _, field := range strings.Split(cmd.String(valueKey), ",") {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return fmt.Errorf("bad value %q: %w", field, err)
		}
		values = append(values, n)
	}

	v := observable.NewVariable(nil)
	sum, err := v.Plus(addend)
	if err != nil {
		return err
	}
	derived, err := sum.DividedBy(divisor)
	if err != nil {
		return err
	}

	tbl := table.NewWriter()
	tbl.SetTitle(fmt.Sprintf("(v + %d) / %d", addend, divisor))
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"v", "derived"})
	for _, in := range values {
		if err := v.Set(in); err != nil {
			return err
		}
		tbl.AppendRow(table.Row{in, fmt.Sprintf("%v", derived.Get())})
	}
	tbl.Render()
	return nil
}
