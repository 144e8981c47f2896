package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/arctir/xv6sched/host"
	"github.com/arctir/xv6sched/internal/kernel"
	"github.com/arctir/xv6sched/internal/timer"
	"github.com/arctir/xv6sched/internal/tracedir"
	"github.com/arctir/xv6sched/internal/workload"
)

var runCmd = &cobra.Command{
	Use:   "run <scenario.json>",
	Short: "Boot a table and N simulated CPUs, feed a workload scenario through the syscall surface, and run it to completion.",
	Run:   runRun,
}

func runRun(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		cmd.Help()
		return
	}

	cpus, _ := cmd.Flags().GetInt(cpusFlag)
	period, _ := cmd.Flags().GetDuration(periodFlag)
	traceName, _ := cmd.Flags().GetString(traceFlag)

	if cpus <= 0 {
		cpus = detectCPUCount()
	}

	sc, err := loadScenario(args[0])
	if err != nil {
		outputErrorAndFail(err.Error())
	}
	if traceName == "" {
		traceName = sc.Name
	}

	snap, events := executeScenario(sc, cpus, period)

	for _, e := range events {
		fmt.Printf("pid=%d tid=%d %-16s %s\n", e.PID, e.TID, e.Op, e.Detail)
	}

	if err := tracedir.NewStore("").Save(traceName, snap); err != nil {
		outputErrorAndFail(fmt.Sprintf("failed saving trace %q: %s", traceName, err))
	}
	if err := tracedir.NewStore("").Save("last", snap); err != nil {
		outputErrorAndFail(fmt.Sprintf("failed saving trace alias \"last\": %s", err))
	}
	fmt.Printf("\nsaved trace %q\n", traceName)
}

// loadScenario reads path as a scenario file on disk; if no such file
// exists, it falls back to treating path as the name of a built-in fixture
// (e.g. "fork_yield_wait"), so `xv6sched run fork_yield_wait` works without
// a file on disk.
func loadScenario(path string) (*workload.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		name := strings.TrimSuffix(filepath.Base(path), ".json")
		if sc, fErr := workload.LoadFixture(name); fErr == nil {
			return sc, nil
		}
		return nil, fmt.Errorf("reading scenario file %q: %w", path, err)
	}
	return workload.Parse(data)
}

// executeScenario boots sc as the init process, drives cpus simulated
// scheduler loops with a real timer.Driver feeding TimerTick events, and
// blocks until the scenario's init process (and everything it forked) has
// run to completion: every other slot reaped, init itself ZOMBIE.
func executeScenario(sc *workload.Scenario, cpus int, period time.Duration) (kernel.Snapshot, []workload.Event) {
	tbl := kernel.NewTable(nil)
	runner := workload.NewRunner(tbl)
	tbl.Bootstrap(runner.Entry(sc.Steps))

	stops := make([]chan struct{}, cpus)
	for i := range stops {
		stops[i] = make(chan struct{})
		go tbl.Run(stops[i])
	}

	driver := timer.NewDriver()
	if err := driver.Start(period, func() {
		if p := tbl.RunningSlot(); p != nil {
			tbl.TimerTick(p)
		}
	}); err != nil {
		outputErrorAndFail(fmt.Sprintf("failed arming the simulated timer interrupt: %s", err))
	}

	for {
		snap := tbl.Snapshot()
		if len(snap.Slots) == 1 && snap.Slots[0].State == kernel.Zombie {
			driver.Stop()
			for _, s := range stops {
				close(s)
			}
			return snap, runner.Rec.Snapshot()
		}
		time.Sleep(time.Millisecond)
	}
}

func detectCPUCount() int {
	reader := host.NewLinuxReader(host.LinuxReaderConfig{})
	hw, err := reader.GetHardware()
	if err != nil || hw.CPU.CPUCount == 0 {
		return 1
	}
	return hw.CPU.CPUCount
}
