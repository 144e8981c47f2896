package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/arctir/xv6sched/host"
	"github.com/arctir/xv6sched/internal/kernel"
	"github.com/arctir/xv6sched/internal/tracedir"
)

var psCmd = &cobra.Command{
	Use:   "ps [trace name]",
	Short: "Render the last trace snapshot saved by `xv6sched run`.",
	Run:   runPS,
}

var psTreeCmd = &cobra.Command{
	Use:   "tree <pid> [trace name]",
	Short: "Walk a snapshot's parent pointers from pid up to init.",
	Run:   runPSTree,
}

func loadTrace(args []string) (*kernel.Snapshot, string) {
	name := "last"
	if len(args) > 0 {
		name = args[0]
	}
	snap, err := tracedir.NewStore("").Load(name)
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("failed loading trace %q: %s", name, err))
	}
	return snap, name
}

func runPS(cmd *cobra.Command, args []string) {
	opts := newOpts(cmd.Flags())
	snap, _ := loadTrace(args)

	if opts.verbose {
		printHostDetails()
	}
	output(renderSnapshot(snap.Slots, opts))
}

func runPSTree(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		cmd.Help()
		return
	}
	pid, err := strconv.Atoi(args[0])
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("please pass a valid pid (int); got %q", args[0]))
	}
	opts := newOpts(cmd.Flags())
	snap, _ := loadTrace(args[1:])

	byPID := map[int]kernel.SlotView{}
	for _, s := range snap.Slots {
		byPID[s.PID] = s
	}

	s, ok := byPID[pid]
	if !ok {
		outputErrorAndFail(fmt.Sprintf("no slot with pid %d in this trace", pid))
	}

	lineage := []kernel.SlotView{s}
	current := s
	for current.ParentPID != 0 {
		parent, ok := byPID[current.ParentPID]
		if !ok {
			break
		}
		lineage = append(lineage, parent)
		current = parent
	}

	output(renderSnapshot(lineage, opts))
}

func printHostDetails() {
	reader := host.NewLinuxReader(host.LinuxReaderConfig{})
	hw, err := reader.GetHardware()
	if err != nil {
		fmt.Printf("host: failed reading hardware details: %s\n", err)
		return
	}

	osLabel := fmt.Sprintf("%d CPUs", hw.CPU.CPUCount)
	if osInfo, err := reader.GetOS(); err == nil {
		osLabel = fmt.Sprintf("%s %s, %s", osInfo.Name, osInfo.Version, osLabel)
	}
	fmt.Printf("host: %s\n", osLabel)

	if kernel, err := reader.GetKernel(); err == nil {
		fmt.Printf("kernel: %s %s\n", kernel.Type, kernel.Version)
	}
	if id, err := reader.GetHostID(); err == nil {
		fmt.Printf("machine id: %s\n", id)
	}
	fmt.Println()
}

func renderSnapshot(slots []kernel.SlotView, opts xv6schedOpts) string {
	switch opts.outType {
	case jsonOut:
		out, _ := json.MarshalIndent(slots, "", "  ")
		return string(out) + "\n"
	default:
		return renderSlotTable(slots)
	}
}

func renderSlotTable(slots []kernel.SlotView) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"PID", "TID", "NAME", "STATE", "PARENT", "TYPE", "PRIO/TICKETS", "PASS/TICK"})
	for _, s := range slots {
		typeStr := string(s.Type)
		schedCol := fmt.Sprintf("%d", s.Priority)
		passCol := fmt.Sprintf("%d", s.Tick)
		if s.Type == 's' {
			schedCol = fmt.Sprintf("%d", s.Tickets)
			passCol = fmt.Sprintf("%d", s.PassValue)
		}
		table.Append([]string{
			strconv.Itoa(s.PID),
			strconv.Itoa(s.TID),
			s.Name,
			s.State.String(),
			strconv.Itoa(s.ParentPID),
			typeStr,
			schedCol,
			passCol,
		})
	}
	table.Render()
	return buf.String()
}
