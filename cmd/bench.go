package cmd

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/arctir/xv6sched/internal/workload"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run every built-in end-to-end scenario to completion and report wall time and MLFQ ticks consumed.",
	Run:   runBench,
}

type benchResult struct {
	name     string
	duration time.Duration
	mlfqTick int
}

func runBench(cmd *cobra.Command, args []string) {
	cpus, _ := cmd.Flags().GetInt(cpusFlag)
	if cpus <= 0 {
		cpus = 1
	}

	results := make([]benchResult, 0, len(workload.BuiltinFixtures))
	for _, name := range workload.BuiltinFixtures {
		sc, err := workload.LoadFixture(name)
		if err != nil {
			outputErrorAndFail(fmt.Sprintf("failed loading built-in fixture %q: %s", name, err))
		}
		start := time.Now()
		snap, _ := executeScenario(sc, cpus, defaultTickPeriod)
		results = append(results, benchResult{
			name:     name,
			duration: time.Since(start),
			mlfqTick: snap.MLFQTick,
		})
	}

	output(renderBench(results))
}

func renderBench(results []benchResult) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"SCENARIO", "WALL TIME", "MLFQ TICKS AT EXIT"})
	for _, r := range results {
		table.Append([]string{r.name, r.duration.Truncate(time.Millisecond).String(), strconv.Itoa(r.mlfqTick)})
	}
	table.Render()
	return buf.String()
}
