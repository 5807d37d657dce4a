package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/delaneyj/observerparty/observable"
	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/olekukonko/tablewriter"
)

var (
	iters  = flag.Int("iters", 100, "timed writes per topology")
	widths = []int{1, 10, 100}
	depths = []int{1, 10, 100}
)

func main() {
	flag.Parse()

	log.Printf("propagation benchmark, %s timed writes per topology", humanize.Comma(int64(*iters)))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"topology", "writes", "avg", "min", "p75", "p99", "max"})

	for _, w := range widths {
		for _, d := range depths {
			src, err := buildChains(w, d)
			if err != nil {
				log.Fatal(err)
			}

			tach := tachymeter.New(&tachymeter.Config{Size: *iters})
			for i := 0; i < *iters; i++ {
				start := time.Now()
				if err := src.Set(i); err != nil {
					log.Fatal(err)
				}
				tach.AddTime(time.Since(start))
			}

			calc := tach.Calc()
			table.Append([]string{
				fmt.Sprintf("%d chains x %d adders", w, d),
				humanize.Comma(int64(*iters)),
				calc.Time.Avg.String(),
				calc.Time.Min.String(),
				calc.Time.P75.String(),
				calc.Time.P99.String(),
				calc.Time.Max.String(),
			})
		}
	}

	table.Render()
}

// buildChains wires w independent chains of d cascaded +1 adders, all fed by
// one source variable, and returns the source.
func buildChains(w, d int) (*observable.Variable, error) {
	src := observable.NewVariable(0)
	for i := 0; i < w; i++ {
		last := src
		for j := 0; j < d; j++ {
			next, err := last.Plus(1)
			if err != nil {
				return nil, err
			}
			last = next
		}
	}
	return src, nil
}
